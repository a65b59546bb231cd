package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/maps"
	"github.com/DeborahScali/travelapp-sub000/internal/workspace"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a message for humans.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "trip not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return errorBody("not_found", message)
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationBody(err error) ErrorResponse {
	return errorBody("validation_error", unwrapMessage(err))
}

// requestError is input rejected before reaching the service layer
// (missing or malformed body, unparsable path or query parameter).
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, code: "bad_request", message: fmt.Sprintf(format, args...)}
}

// methodPrefix matches the "pkg.Type.Method: " prefixes added when errors
// are wrapped on their way up.
var methodPrefix = regexp.MustCompile(`^[a-z]+(\.[A-Za-z]+)+: `)

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Create: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		loc := methodPrefix.FindStringIndex(msg)
		if loc == nil {
			break
		}
		msg = msg[loc[1]:]
	}
	return strings.TrimPrefix(msg, domain.ErrValidation.Error()+": ")
}

// fail writes the response for err. what names the resource being handled
// and is used when a not-found error carries no better description.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, what string) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		writeJSON(w, reqErr.status, errorBody(reqErr.code, reqErr.message))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrNotFound):
		msg := unwrapMessage(err)
		if msg == domain.ErrNotFound.Error() {
			msg = what + " not found"
		}
		writeJSON(w, http.StatusNotFound, notFoundBody(msg))
	case errors.Is(err, domain.ErrNoCurrentTrip):
		writeJSON(w, http.StatusConflict, errorBody("no_current_trip", "no trip is open; create a trip or select one first"))
	case errors.Is(err, maps.ErrDisabled):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("maps_disabled", "the maps service is not configured"))
	case errors.Is(err, maps.ErrNoResults):
		writeJSON(w, http.StatusNotFound, notFoundBody("the maps service found no match"))
	case errors.Is(err, maps.ErrTimeout), errors.Is(err, maps.ErrUnavailable),
		errors.Is(err, maps.ErrDenied), errors.Is(err, maps.ErrInvalidRequest):
		s.log.WarnContext(r.Context(), "maps lookup failed", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusBadGateway, errorBody("maps_unavailable", unwrapMessage(err)))
	case errors.Is(err, workspace.ErrClosed):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("unavailable", "the server is shutting down"))
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorBody("timeout", "the request timed out"))
	default:
		s.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}
