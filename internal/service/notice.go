package service

import (
	"errors"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/itinerary"
	"github.com/DeborahScali/travelapp-sub000/internal/maps"
)

// Notice reports a non-fatal problem with a mutation that otherwise
// succeeded, typically a mapping lookup that failed and left a field as it was.
type Notice struct {
	Code    string
	Message string
	PlaceID *domain.PlaceID
}

// Notice codes.
const (
	NoticeGeocodeFailed = "geocode_failed"
	NoticeLegFailed     = "leg_failed"
	NoticeMapsDisabled  = "maps_disabled"
)

func legNotices(failures []itinerary.LegFailure) []Notice {
	var out []Notice
	disabled := false
	for _, f := range failures {
		if errors.Is(f.Err, maps.ErrDisabled) {
			disabled = true
			continue
		}
		id := f.PlaceID
		out = append(out, Notice{Code: NoticeLegFailed, Message: "distance and duration could not be computed: " + mapsReason(f.Err), PlaceID: &id})
	}
	if disabled {
		out = append(out, Notice{Code: NoticeMapsDisabled, Message: "the maps service is not configured; distances were not computed"})
	}
	return out
}

// mapsReason describes a maps failure without leaking request details.
func mapsReason(err error) string {
	switch {
	case errors.Is(err, maps.ErrTimeout):
		return "the maps service timed out"
	case errors.Is(err, maps.ErrNoResults):
		return "no route or location was found"
	case errors.Is(err, maps.ErrDenied):
		return "the maps service refused the request"
	case errors.Is(err, maps.ErrDisabled):
		return "the maps service is not configured"
	default:
		return "the maps service is unavailable"
	}
}
