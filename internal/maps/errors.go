package maps

import (
	"errors"
	"net"
)

var (
	// ErrDisabled is returned by every call when no API key is configured.
	ErrDisabled = errors.New("maps service not configured")

	// ErrUnavailable indicates the maps service could not be reached or kept
	// failing after all retries.
	ErrUnavailable = errors.New("maps service unavailable")

	// ErrTimeout indicates a call exceeded the configured timeout.
	ErrTimeout = errors.New("maps request timed out")

	// ErrNoResults indicates the service answered but found nothing.
	ErrNoResults = errors.New("maps service returned no results")

	// ErrDenied covers rejected keys and exhausted quotas.
	ErrDenied = errors.New("maps request denied")

	// ErrInvalidRequest indicates the service rejected the parameters.
	ErrInvalidRequest = errors.New("maps request invalid")

	// ErrUnsupportedMode is returned for modes the service cannot route, such as plane.
	ErrUnsupportedMode = errors.New("transport mode cannot be routed")

	// errTransient marks failures worth retrying.
	errTransient = errors.New("transient maps failure")
)

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func retryable(err error) bool {
	return errors.Is(err, errTransient) || isConnectionError(err)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrNoResults):
		return "NO_RESULTS"
	case errors.Is(err, ErrDenied):
		return "DENIED"
	case errors.Is(err, ErrInvalidRequest):
		return "INVALID_REQUEST"
	default:
		return "UNKNOWN"
	}
}
