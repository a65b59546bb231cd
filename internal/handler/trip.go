package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body tripRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	created, err := s.trips.Create(r.Context(), userID(r), requestToTrip(body))
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, data)
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), userID(r), id)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripID}.
// Shrinking the date range drops days outside it; those that held places or
// notes come back in dropped_days.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	var body tripRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	trip := requestToTrip(body)
	trip.ID = id
	res, err := s.trips.Update(r.Context(), userID(r), trip)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	resp := tripUpdateResponse{
		tripResponse: tripToResponse(res.Trip),
		DroppedDays:  make([]openapi_types.Date, len(res.DroppedDays)),
	}
	for i, d := range res.DroppedDays {
		resp.DroppedDays[i] = openapi_types.Date{Time: d.Date}
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	if err := s.trips.Delete(r.Context(), userID(r), id); err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCurrentTrip handles GET /trips/current.
func (s *Server) GetCurrentTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetCurrent(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// SetCurrentTrip handles PUT /trips/current. The previous trip's pending
// edits are saved before the new one opens; the response is the new
// trip's itinerary.
func (s *Server) SetCurrentTrip(w http.ResponseWriter, r *http.Request) {
	var body setCurrentRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	state, err := s.trips.SetCurrent(r.Context(), userID(r), body.TripID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, stateToResponse(state, nil))
}
