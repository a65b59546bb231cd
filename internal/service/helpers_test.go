package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/maps"
	"github.com/DeborahScali/travelapp-sub000/internal/repo"
	"github.com/DeborahScali/travelapp-sub000/internal/service"
	"github.com/DeborahScali/travelapp-sub000/internal/workspace"
)

const (
	alice = "alice"
	bob   = "bob"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func coords(lat, lng float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lng: lng}
}

func ptr[T any](v T) *T { return &v }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---- mock repos ------------------------------------------------------------

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field: set only the ones your test needs.
type mockTripRepo struct {
	list       func(ctx context.Context, userID string) ([]domain.Trip, error)
	getByID    func(ctx context.Context, userID string, id uuid.UUID) (domain.Trip, error)
	save       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete     func(ctx context.Context, userID string, id uuid.UUID) error
	getCurrent func(ctx context.Context, userID string) (domain.Trip, error)
	setCurrent func(ctx context.Context, userID string, id uuid.UUID) error
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

func (m *mockTripRepo) List(ctx context.Context, userID string) ([]domain.Trip, error) {
	return m.list(ctx, userID)
}
func (m *mockTripRepo) GetByID(ctx context.Context, userID string, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, userID, id)
}
func (m *mockTripRepo) Save(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.save(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return m.delete(ctx, userID, id)
}
func (m *mockTripRepo) GetCurrent(ctx context.Context, userID string) (domain.Trip, error) {
	return m.getCurrent(ctx, userID)
}
func (m *mockTripRepo) SetCurrent(ctx context.Context, userID string, id uuid.UUID) error {
	return m.setCurrent(ctx, userID, id)
}

// tripFound returns a TripRepo whose GetByID always succeeds.
func tripFound() *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, userID string, id uuid.UUID) (domain.Trip, error) {
			return domain.Trip{ID: id, UserID: userID, Name: "Portugal", StartDate: day(1), EndDate: day(5)}, nil
		},
	}
}

// tripMissing returns a TripRepo whose GetByID always fails with ErrNotFound.
func tripMissing() *mockTripRepo {
	return &mockTripRepo{
		getByID: func(context.Context, string, uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
}

type mockExpenseRepo struct {
	listByTrip      func(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.Expense, error)
	listByTripPaged func(ctx context.Context, userID string, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error)
	getByID         func(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Expense, error)
	save            func(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error)
	delete          func(ctx context.Context, userID string, tripID, id uuid.UUID) error
}

var _ repo.ExpenseRepo = (*mockExpenseRepo)(nil)

func (m *mockExpenseRepo) ListByTrip(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.Expense, error) {
	return m.listByTrip(ctx, userID, tripID)
}
func (m *mockExpenseRepo) ListByTripPaged(ctx context.Context, userID string, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	return m.listByTripPaged(ctx, userID, tripID, p)
}
func (m *mockExpenseRepo) GetByID(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Expense, error) {
	return m.getByID(ctx, userID, tripID, id)
}
func (m *mockExpenseRepo) Save(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error) {
	return m.save(ctx, userID, e)
}
func (m *mockExpenseRepo) Delete(ctx context.Context, userID string, tripID, id uuid.UUID) error {
	return m.delete(ctx, userID, tripID, id)
}

type mockFlightRepo struct {
	listByTrip func(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.Flight, error)
	getByID    func(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Flight, error)
	save       func(ctx context.Context, userID string, f domain.Flight) (domain.Flight, error)
	delete     func(ctx context.Context, userID string, tripID, id uuid.UUID) error
}

var _ repo.FlightRepo = (*mockFlightRepo)(nil)

func (m *mockFlightRepo) ListByTrip(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.Flight, error) {
	return m.listByTrip(ctx, userID, tripID)
}
func (m *mockFlightRepo) GetByID(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Flight, error) {
	return m.getByID(ctx, userID, tripID, id)
}
func (m *mockFlightRepo) Save(ctx context.Context, userID string, f domain.Flight) (domain.Flight, error) {
	return m.save(ctx, userID, f)
}
func (m *mockFlightRepo) Delete(ctx context.Context, userID string, tripID, id uuid.UUID) error {
	return m.delete(ctx, userID, tripID, id)
}

// ---- fake maps -------------------------------------------------------------

// fakeMaps answers every route with legs[mode], or a short walk when the mode
// has no entry. It records the modes it was asked for.
type fakeMaps struct {
	mu         sync.Mutex
	legs       map[domain.TransportMode]domain.Leg
	legErr     error
	geocodeErr error
	calls      []domain.TransportMode
}

var _ service.Maps = (*fakeMaps)(nil)

func (f *fakeMaps) DistanceAndDuration(_ context.Context, _, _ domain.Coordinates, mode domain.TransportMode) (domain.Leg, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, mode)
	if f.legErr != nil {
		return domain.Leg{}, f.legErr
	}
	if leg, ok := f.legs[mode]; ok {
		return leg, nil
	}
	return domain.Leg{DistanceKm: 0.4, DurationMin: 5}, nil
}

func (f *fakeMaps) Geocode(_ context.Context, address string) (domain.Coordinates, error) {
	if f.geocodeErr != nil {
		return domain.Coordinates{}, f.geocodeErr
	}
	return domain.Coordinates{Lat: 38.7139, Lng: -9.1394}, nil
}

func (f *fakeMaps) Autocomplete(_ context.Context, query string) ([]maps.Candidate, error) {
	return []maps.Candidate{{ID: "p1", Name: query, Address: query + ", Lisboa"}}, nil
}

func (f *fakeMaps) PlaceDetails(_ context.Context, placeID string) (maps.PlaceDetails, error) {
	if placeID == "missing" {
		return maps.PlaceDetails{}, maps.ErrNoResults
	}
	return maps.PlaceDetails{ID: placeID, Name: "Castelo de S. Jorge", Coordinates: domain.Coordinates{Lat: 38.7139, Lng: -9.1334}}, nil
}

func (f *fakeMaps) modes() []domain.TransportMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.TransportMode{}, f.calls...)
}

func (f *fakeMaps) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// ---- environment -----------------------------------------------------------

// env wires the services over the in-memory repositories and a real
// workspace manager, the same way the server does.
type env struct {
	repos     repo.Repos
	manager   *workspace.Manager
	maps      *fakeMaps
	trips     *service.TripService
	itinerary *service.ItineraryService
	analytics *service.AnalyticsService
	export    *service.ExportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	r := repo.NewMemory()
	m := workspace.NewManager(r.Trips, r.DayPlans, discardLogger(), time.Hour)
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	fm := &fakeMaps{}
	return &env{
		repos:     r,
		manager:   m,
		maps:      fm,
		trips:     service.NewTripService(r.Trips, r.DayPlans, m),
		itinerary: service.NewItineraryService(m, fm),
		analytics: service.NewAnalyticsService(r.Trips, r.DayPlans, r.Expenses, r.Flights, m),
		export:    service.NewExportService(r.Trips, r.DayPlans, m),
	}
}

// createTrip creates and opens a trip for alice covering day(from)..day(to).
func (e *env) createTrip(t *testing.T, from, to int) domain.Trip {
	t.Helper()
	trip, err := e.trips.Create(context.Background(), alice, domain.Trip{
		Name:      "Portugal",
		StartDate: day(from),
		EndDate:   day(to),
		Countries: []string{"Portugal"},
	})
	require.NoError(t, err)
	return trip
}

// addPlace appends a place with coordinates to day(d) and returns its id.
func (e *env) addPlace(t *testing.T, d int, name string, c *domain.Coordinates) domain.PlaceID {
	t.Helper()
	_, id, err := e.itinerary.AddPlace(context.Background(), alice, day(d), service.NewPlace{Name: name, Coordinates: c})
	require.NoError(t, err)
	return id
}

// places returns the places of day(d) in the open trip.
func (e *env) places(t *testing.T, d int) []domain.Place {
	t.Helper()
	plan, err := e.itinerary.Day(context.Background(), alice, day(d))
	require.NoError(t, err)
	return plan.Places
}

func placeIDs(places []domain.Place) []domain.PlaceID {
	out := make([]domain.PlaceID, len(places))
	for i, p := range places {
		out[i] = p.ID
	}
	return out
}

var errBoom = errors.New("boom")
