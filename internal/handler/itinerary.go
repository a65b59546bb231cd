package handler

import (
	"net/http"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/service"
)

// GetItinerary handles GET /itinerary. It opens the current trip if needed.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	state, err := s.itinerary.Overview(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, stateToResponse(state, nil))
}

// SelectDay handles PUT /itinerary/selected-day.
func (s *Server) SelectDay(w http.ResponseWriter, r *http.Request) {
	var body selectDayRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "day")
		return
	}

	state, err := s.itinerary.SelectDay(r.Context(), userID(r), body.Date.Time)
	if err != nil {
		s.fail(w, r, err, "day")
		return
	}
	writeJSON(w, http.StatusOK, stateToResponse(state, nil))
}

// GetDay handles GET /itinerary/days/{date}.
func (s *Server) GetDay(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		s.fail(w, r, err, "day")
		return
	}

	day, err := s.itinerary.Day(r.Context(), userID(r), date)
	if err != nil {
		s.fail(w, r, err, "day")
		return
	}
	writeJSON(w, http.StatusOK, dayToResponse(day))
}

// UpdateDay handles PATCH /itinerary/days/{date}.
func (s *Server) UpdateDay(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		s.fail(w, r, err, "day")
		return
	}
	var body dayPatchRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "day")
		return
	}

	day, err := s.itinerary.UpdateDay(r.Context(), userID(r), date, service.DayPatch{
		Title:   body.Title,
		City:    body.City,
		Country: body.Country,
	})
	if err != nil {
		s.fail(w, r, err, "day")
		return
	}
	writeJSON(w, http.StatusOK, dayToResponse(day))
}

// AddPlace handles POST /itinerary/days/{date}/places.
// Failed lookups do not fail the request; they come back as notices.
func (s *Server) AddPlace(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		s.fail(w, r, err, "day")
		return
	}
	var body placeRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "day")
		return
	}

	res, id, err := s.itinerary.AddPlace(r.Context(), userID(r), date, body.toNewPlace())
	if err != nil {
		s.fail(w, r, err, "day")
		return
	}
	writeJSON(w, http.StatusCreated, addPlaceResponse{
		PlaceID:           id,
		itineraryResponse: stateToResponse(res.State, res.Notices),
	})
}

// ReorderPlaces handles POST /itinerary/days/{date}/reorder.
// moved_id takes the position target_id held.
func (s *Server) ReorderPlaces(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	var body reorderRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "place")
		return
	}

	res, err := s.itinerary.ReorderPlace(r.Context(), userID(r), date, body.MovedID, body.TargetID)
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	writeJSON(w, http.StatusOK, stateToResponse(res.State, res.Notices))
}

// UpdatePlace handles PATCH /itinerary/places/{placeID}.
func (s *Server) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "placeID")
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	var body placePatchRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "place")
		return
	}

	res, err := s.itinerary.UpdatePlace(r.Context(), userID(r), id, body.toPatch())
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	writeJSON(w, http.StatusOK, stateToResponse(res.State, res.Notices))
}

// DeletePlace handles DELETE /itinerary/places/{placeID}.
func (s *Server) DeletePlace(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "placeID")
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}

	res, err := s.itinerary.DeletePlace(r.Context(), userID(r), id)
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	writeJSON(w, http.StatusOK, stateToResponse(res.State, res.Notices))
}

// MovePlace handles POST /itinerary/places/{placeID}/move.
// Without before_id the place is appended to the target day.
func (s *Server) MovePlace(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "placeID")
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	var body moveRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "place")
		return
	}

	var before *domain.PlaceID
	if body.BeforeID != nil {
		b := *body.BeforeID
		before = &b
	}
	res, err := s.itinerary.MovePlace(r.Context(), userID(r), id, body.ToDate.Time, before)
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	writeJSON(w, http.StatusOK, stateToResponse(res.State, res.Notices))
}

// ChangeTransportMode handles PUT /itinerary/places/{placeID}/transport.
func (s *Server) ChangeTransportMode(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "placeID")
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	var body transportRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "place")
		return
	}

	res, err := s.itinerary.ChangeTransportMode(r.Context(), userID(r), id, domain.TransportMode(body.Mode))
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	writeJSON(w, http.StatusOK, stateToResponse(res.State, res.Notices))
}

// OverrideLeg handles PUT /itinerary/places/{placeID}/leg.
// The numbers are kept as typed until the next reorder.
func (s *Server) OverrideLeg(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "placeID")
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	var body legRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "place")
		return
	}

	state, err := s.itinerary.OverrideLeg(r.Context(), userID(r), id, body.DistanceKm, body.DurationMin)
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	writeJSON(w, http.StatusOK, stateToResponse(state, nil))
}

// SearchPlaces handles GET /places/search?q=.
func (s *Server) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	q, err := queryString(r, "q")
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}

	found, err := s.itinerary.SearchPlaces(r.Context(), q)
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	out := make([]candidateResponse, len(found))
	for i, c := range found {
		out[i] = candidateResponse{ID: c.ID, Name: c.Name, Address: c.Address}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetPlaceDetails handles GET /places/details/{providerPlaceID}.
func (s *Server) GetPlaceDetails(w http.ResponseWriter, r *http.Request) {
	var providerID string
	if err := bindPathString(r, "providerPlaceID", &providerID); err != nil {
		s.fail(w, r, err, "place")
		return
	}

	d, err := s.itinerary.PlaceDetails(r.Context(), providerID)
	if err != nil {
		s.fail(w, r, err, "place")
		return
	}
	writeJSON(w, http.StatusOK, placeDetailsResponse{
		ID:          d.ID,
		Name:        d.Name,
		Address:     d.Address,
		Coordinates: coordinatesDTO{Lat: d.Coordinates.Lat, Lng: d.Coordinates.Lng},
		PhotoRef:    d.PhotoRef,
	})
}
