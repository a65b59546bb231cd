package itinerary_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/itinerary"
)

// fakeCalc is a test double for itinerary.DistanceCalculator.
// legFor decides the answer per call; calls are recorded for assertions.
type fakeCalc struct {
	legFor func(origin, destination domain.Coordinates, mode domain.TransportMode) (domain.Leg, error)

	mu    sync.Mutex
	calls []calcCall
}

type calcCall struct {
	origin, destination domain.Coordinates
	mode                domain.TransportMode
}

func (f *fakeCalc) DistanceAndDuration(_ context.Context, origin, destination domain.Coordinates, mode domain.TransportMode) (domain.Leg, error) {
	f.mu.Lock()
	f.calls = append(f.calls, calcCall{origin: origin, destination: destination, mode: mode})
	f.mu.Unlock()
	return f.legFor(origin, destination, mode)
}

func (f *fakeCalc) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// compile-time check: fakeCalc must satisfy itinerary.DistanceCalculator.
var _ itinerary.DistanceCalculator = (*fakeCalc)(nil)

var errMaps = errors.New("maps down")

// constCalc answers every call with the same leg.
func constCalc(leg domain.Leg) *fakeCalc {
	return &fakeCalc{legFor: func(domain.Coordinates, domain.Coordinates, domain.TransportMode) (domain.Leg, error) {
		return leg, nil
	}}
}

// failingCalc fails every call.
func failingCalc() *fakeCalc {
	return &fakeCalc{legFor: func(domain.Coordinates, domain.Coordinates, domain.TransportMode) (domain.Leg, error) {
		return domain.Leg{}, errMaps
	}}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func coords(lat, lng float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lng: lng}
}

func f64(v float64) *float64 { return &v }

func place(name string, c *domain.Coordinates) domain.Place {
	return domain.Place{
		ID:          domain.NewPlaceID(),
		Name:        name,
		Category:    domain.CategoryPlace,
		Coordinates: c,
	}
}

func withLeg(p domain.Place, mode domain.TransportMode, km, min float64, src domain.LegSource) domain.Place {
	p.Mode = mode
	p.DistanceKm = f64(km)
	p.DurationMin = f64(min)
	p.LegSource = src
	return p
}

func ids(places []domain.Place) []domain.PlaceID {
	out := make([]domain.PlaceID, len(places))
	for i, p := range places {
		out[i] = p.ID
	}
	return out
}
