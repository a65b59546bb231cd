package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// tripAndID binds the {tripID} path parameter together with a child ID.
func tripAndID(r *http.Request, child string) (uuid.UUID, uuid.UUID, error) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := pathUUID(r, child)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return tripID, id, nil
}

// CreateExpense handles POST /trips/{tripID}/expenses.
func (s *Server) CreateExpense(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	var body expenseRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "expense")
		return
	}

	e := body.toDomain()
	e.TripID = tripID
	created, err := s.expenses.Create(r.Context(), userID(r), e)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, expenseToResponse(created))
}

// ListExpenses handles GET /trips/{tripID}/expenses.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListExpenses(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	page, err := queryInt(r, "page")
	if err != nil {
		s.fail(w, r, err, "expense")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err, "expense")
		return
	}

	params := domain.NewPaginationParams(page, limit)
	res, err := s.expenses.List(r.Context(), userID(r), tripID, params)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	data := make([]expenseResponse, len(res.Items))
	for i, e := range res.Items {
		data[i] = expenseToResponse(e)
	}
	writeJSON(w, http.StatusOK, expenseListResponse{
		Data: data,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(res.Total),
		},
	})
}

// GetExpense handles GET /trips/{tripID}/expenses/{expenseID}.
func (s *Server) GetExpense(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r, "expenseID")
	if err != nil {
		s.fail(w, r, err, "expense")
		return
	}

	e, err := s.expenses.GetByID(r.Context(), userID(r), tripID, id)
	if err != nil {
		s.fail(w, r, err, "expense")
		return
	}
	writeJSON(w, http.StatusOK, expenseToResponse(e))
}

// UpdateExpense handles PUT /trips/{tripID}/expenses/{expenseID}.
func (s *Server) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r, "expenseID")
	if err != nil {
		s.fail(w, r, err, "expense")
		return
	}
	var body expenseRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "expense")
		return
	}

	e := body.toDomain()
	e.ID, e.TripID = id, tripID
	updated, err := s.expenses.Update(r.Context(), userID(r), e)
	if err != nil {
		s.fail(w, r, err, "expense")
		return
	}
	writeJSON(w, http.StatusOK, expenseToResponse(updated))
}

// DeleteExpense handles DELETE /trips/{tripID}/expenses/{expenseID}.
func (s *Server) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r, "expenseID")
	if err != nil {
		s.fail(w, r, err, "expense")
		return
	}

	if err := s.expenses.Delete(r.Context(), userID(r), tripID, id); err != nil {
		s.fail(w, r, err, "expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
