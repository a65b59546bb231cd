package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist or is not visible to the calling user.
// Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (missing name, end date before start date, unknown category).
// Handlers map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNoCurrentTrip is returned by itinerary operations when the user has not
// selected a current trip yet.
var ErrNoCurrentTrip = errors.New("no current trip")
