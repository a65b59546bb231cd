package handler

import "net/http"

// CreateFlight handles POST /trips/{tripID}/flights.
func (s *Server) CreateFlight(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	var body flightRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "flight")
		return
	}

	f := body.toDomain()
	f.TripID = tripID
	created, err := s.flights.Create(r.Context(), userID(r), f)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, flightToResponse(created))
}

// ListFlights handles GET /trips/{tripID}/flights, ordered by departure.
func (s *Server) ListFlights(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	flights, err := s.flights.List(r.Context(), userID(r), tripID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	data := make([]flightResponse, len(flights))
	for i, f := range flights {
		data[i] = flightToResponse(f)
	}
	writeJSON(w, http.StatusOK, data)
}

// GetFlight handles GET /trips/{tripID}/flights/{flightID}.
func (s *Server) GetFlight(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r, "flightID")
	if err != nil {
		s.fail(w, r, err, "flight")
		return
	}

	f, err := s.flights.GetByID(r.Context(), userID(r), tripID, id)
	if err != nil {
		s.fail(w, r, err, "flight")
		return
	}
	writeJSON(w, http.StatusOK, flightToResponse(f))
}

// UpdateFlight handles PUT /trips/{tripID}/flights/{flightID}.
func (s *Server) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r, "flightID")
	if err != nil {
		s.fail(w, r, err, "flight")
		return
	}
	var body flightRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "flight")
		return
	}

	f := body.toDomain()
	f.ID, f.TripID = id, tripID
	updated, err := s.flights.Update(r.Context(), userID(r), f)
	if err != nil {
		s.fail(w, r, err, "flight")
		return
	}
	writeJSON(w, http.StatusOK, flightToResponse(updated))
}

// DeleteFlight handles DELETE /trips/{tripID}/flights/{flightID}.
func (s *Server) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r, "flightID")
	if err != nil {
		s.fail(w, r, err, "flight")
		return
	}

	if err := s.flights.Delete(r.Context(), userID(r), tripID, id); err != nil {
		s.fail(w, r, err, "flight")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
