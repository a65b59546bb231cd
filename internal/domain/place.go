package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceID identifies a place. IDs are UUIDv7 so they sort by creation time
// without relying on the clock for uniqueness.
type PlaceID = uuid.UUID

// NewPlaceID returns a fresh time-ordered place identifier.
func NewPlaceID() PlaceID {
	return uuid.Must(uuid.NewV7())
}

// PlaceCategory classifies a place for display and analytics.
type PlaceCategory string

const (
	CategoryPlace      PlaceCategory = "place"
	CategoryRestaurant PlaceCategory = "restaurant"
	CategoryCafe       PlaceCategory = "cafe"
	CategoryActivity   PlaceCategory = "activity"
	CategoryNote       PlaceCategory = "note"
)

// Valid reports whether c is one of the known categories.
func (c PlaceCategory) Valid() bool {
	switch c {
	case CategoryPlace, CategoryRestaurant, CategoryCafe, CategoryActivity, CategoryNote:
		return true
	}
	return false
}

// TransportMode is how the traveller reaches a place from its predecessor.
type TransportMode string

const (
	ModeWalking TransportMode = "walking"
	ModeTransit TransportMode = "transit"
	ModeCar     TransportMode = "car"
	ModePlane   TransportMode = "plane"
)

// Valid reports whether m is one of the known modes.
func (m TransportMode) Valid() bool {
	switch m {
	case ModeWalking, ModeTransit, ModeCar, ModePlane:
		return true
	}
	return false
}

// Routable reports whether the maps service can compute a leg for m.
func (m TransportMode) Routable() bool {
	return m == ModeWalking || m == ModeTransit || m == ModeCar
}

// LegSource records where a place's distance and duration came from.
//
//	LegUnset  -> no numbers, nothing computed yet (or the last computation failed)
//	LegAuto   -> numbers computed by the maps service
//	LegManual -> numbers typed in by the user
type LegSource string

const (
	LegUnset  LegSource = ""
	LegAuto   LegSource = "auto"
	LegManual LegSource = "manual"
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Valid reports whether the coordinates are inside WGS84 bounds.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// String renders "lat,lng" as expected by the maps service.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// Leg is the distance and travel time between two consecutive places.
type Leg struct {
	DistanceKm  float64
	DurationMin float64
}

// Place is a stop inside a day plan. The transport fields describe the leg
// from the previous place of the same day; the first place of a day never
// carries them.
type Place struct {
	ID              PlaceID
	Name            string
	Address         string
	Coordinates     *Coordinates
	Category        PlaceCategory
	Mode            TransportMode
	DistanceKm      *float64
	DurationMin     *float64
	LegSource       LegSource
	Cost            *decimal.Decimal
	Priority        int
	Visited         bool
	Notes           string
	ProviderPlaceID string
	PhotoRef        string
}

// HasLeg reports whether any transport number is set.
func (p Place) HasLeg() bool {
	return p.DistanceKm != nil || p.DurationMin != nil
}

// HasTransport reports whether the place carries any incoming-transport data.
func (p Place) HasTransport() bool {
	return p.Mode != "" || p.HasLeg() || p.LegSource != LegUnset
}

// Clone returns a deep copy of p.
func (p Place) Clone() Place {
	if p.Coordinates != nil {
		c := *p.Coordinates
		p.Coordinates = &c
	}
	p.DistanceKm = cloneFloat(p.DistanceKm)
	p.DurationMin = cloneFloat(p.DurationMin)
	if p.Cost != nil {
		c := *p.Cost
		p.Cost = &c
	}
	return p
}

// ClonePlaces deep-copies a list of places. A nil input yields an empty,
// non-nil slice.
func ClonePlaces(places []Place) []Place {
	out := make([]Place, len(places))
	for i, p := range places {
		out[i] = p.Clone()
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
