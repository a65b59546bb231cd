package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/handler"
	"github.com/DeborahScali/travelapp-sub000/internal/maps"
	"github.com/DeborahScali/travelapp-sub000/internal/middleware"
	"github.com/DeborahScali/travelapp-sub000/internal/service"
	"github.com/DeborahScali/travelapp-sub000/internal/workspace"
)

const alice = "alice"

// ---- mocks -----------------------------------------------------------------

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create     func(ctx context.Context, userID string, trip domain.Trip) (domain.Trip, error)
	getByID    func(ctx context.Context, userID string, id uuid.UUID) (domain.Trip, error)
	list       func(ctx context.Context, userID string) ([]domain.Trip, error)
	update     func(ctx context.Context, userID string, trip domain.Trip) (service.TripUpdate, error)
	delete     func(ctx context.Context, userID string, id uuid.UUID) error
	setCurrent func(ctx context.Context, userID string, id uuid.UUID) (workspace.State, error)
	getCurrent func(ctx context.Context, userID string) (domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, userID string, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, userID, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, userID string, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, userID, id)
}
func (m *mockTripServicer) List(ctx context.Context, userID string) ([]domain.Trip, error) {
	return m.list(ctx, userID)
}
func (m *mockTripServicer) Update(ctx context.Context, userID string, t domain.Trip) (service.TripUpdate, error) {
	return m.update(ctx, userID, t)
}
func (m *mockTripServicer) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return m.delete(ctx, userID, id)
}
func (m *mockTripServicer) SetCurrent(ctx context.Context, userID string, id uuid.UUID) (workspace.State, error) {
	return m.setCurrent(ctx, userID, id)
}
func (m *mockTripServicer) GetCurrent(ctx context.Context, userID string) (domain.Trip, error) {
	return m.getCurrent(ctx, userID)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockItineraryServicer struct {
	overview     func(ctx context.Context, userID string) (workspace.State, error)
	day          func(ctx context.Context, userID string, date time.Time) (domain.DayPlan, error)
	selectDay    func(ctx context.Context, userID string, date time.Time) (workspace.State, error)
	updateDay    func(ctx context.Context, userID string, date time.Time, patch service.DayPatch) (domain.DayPlan, error)
	addPlace     func(ctx context.Context, userID string, date time.Time, in service.NewPlace) (service.ItineraryResult, domain.PlaceID, error)
	updatePlace  func(ctx context.Context, userID string, id domain.PlaceID, patch service.PlacePatch) (service.ItineraryResult, error)
	deletePlace  func(ctx context.Context, userID string, id domain.PlaceID) (service.ItineraryResult, error)
	reorderPlace func(ctx context.Context, userID string, date time.Time, movedID, targetID domain.PlaceID) (service.ItineraryResult, error)
	movePlace    func(ctx context.Context, userID string, id domain.PlaceID, toDate time.Time, targetID *domain.PlaceID) (service.ItineraryResult, error)
	changeMode   func(ctx context.Context, userID string, id domain.PlaceID, mode domain.TransportMode) (service.ItineraryResult, error)
	overrideLeg  func(ctx context.Context, userID string, id domain.PlaceID, distanceKm, durationMin *float64) (workspace.State, error)
	searchPlaces func(ctx context.Context, query string) ([]maps.Candidate, error)
	placeDetails func(ctx context.Context, providerPlaceID string) (maps.PlaceDetails, error)
}

func (m *mockItineraryServicer) Overview(ctx context.Context, userID string) (workspace.State, error) {
	return m.overview(ctx, userID)
}
func (m *mockItineraryServicer) Day(ctx context.Context, userID string, date time.Time) (domain.DayPlan, error) {
	return m.day(ctx, userID, date)
}
func (m *mockItineraryServicer) SelectDay(ctx context.Context, userID string, date time.Time) (workspace.State, error) {
	return m.selectDay(ctx, userID, date)
}
func (m *mockItineraryServicer) UpdateDay(ctx context.Context, userID string, date time.Time, patch service.DayPatch) (domain.DayPlan, error) {
	return m.updateDay(ctx, userID, date, patch)
}
func (m *mockItineraryServicer) AddPlace(ctx context.Context, userID string, date time.Time, in service.NewPlace) (service.ItineraryResult, domain.PlaceID, error) {
	return m.addPlace(ctx, userID, date, in)
}
func (m *mockItineraryServicer) UpdatePlace(ctx context.Context, userID string, id domain.PlaceID, patch service.PlacePatch) (service.ItineraryResult, error) {
	return m.updatePlace(ctx, userID, id, patch)
}
func (m *mockItineraryServicer) DeletePlace(ctx context.Context, userID string, id domain.PlaceID) (service.ItineraryResult, error) {
	return m.deletePlace(ctx, userID, id)
}
func (m *mockItineraryServicer) ReorderPlace(ctx context.Context, userID string, date time.Time, movedID, targetID domain.PlaceID) (service.ItineraryResult, error) {
	return m.reorderPlace(ctx, userID, date, movedID, targetID)
}
func (m *mockItineraryServicer) MovePlace(ctx context.Context, userID string, id domain.PlaceID, toDate time.Time, targetID *domain.PlaceID) (service.ItineraryResult, error) {
	return m.movePlace(ctx, userID, id, toDate, targetID)
}
func (m *mockItineraryServicer) ChangeTransportMode(ctx context.Context, userID string, id domain.PlaceID, mode domain.TransportMode) (service.ItineraryResult, error) {
	return m.changeMode(ctx, userID, id, mode)
}
func (m *mockItineraryServicer) OverrideLeg(ctx context.Context, userID string, id domain.PlaceID, distanceKm, durationMin *float64) (workspace.State, error) {
	return m.overrideLeg(ctx, userID, id, distanceKm, durationMin)
}
func (m *mockItineraryServicer) SearchPlaces(ctx context.Context, query string) ([]maps.Candidate, error) {
	return m.searchPlaces(ctx, query)
}
func (m *mockItineraryServicer) PlaceDetails(ctx context.Context, providerPlaceID string) (maps.PlaceDetails, error) {
	return m.placeDetails(ctx, providerPlaceID)
}

var _ handler.ItineraryServicer = (*mockItineraryServicer)(nil)

type mockExpenseServicer struct {
	create  func(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error)
	getByID func(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Expense, error)
	list    func(ctx context.Context, userID string, tripID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Expense], error)
	update  func(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error)
	delete  func(ctx context.Context, userID string, tripID, id uuid.UUID) error
}

func (m *mockExpenseServicer) Create(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error) {
	return m.create(ctx, userID, e)
}
func (m *mockExpenseServicer) GetByID(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Expense, error) {
	return m.getByID(ctx, userID, tripID, id)
}
func (m *mockExpenseServicer) List(ctx context.Context, userID string, tripID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Expense], error) {
	return m.list(ctx, userID, tripID, p)
}
func (m *mockExpenseServicer) Update(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error) {
	return m.update(ctx, userID, e)
}
func (m *mockExpenseServicer) Delete(ctx context.Context, userID string, tripID, id uuid.UUID) error {
	return m.delete(ctx, userID, tripID, id)
}

var _ handler.ExpenseServicer = (*mockExpenseServicer)(nil)

type mockFlightServicer struct {
	create  func(ctx context.Context, userID string, f domain.Flight) (domain.Flight, error)
	getByID func(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Flight, error)
	list    func(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.Flight, error)
	update  func(ctx context.Context, userID string, f domain.Flight) (domain.Flight, error)
	delete  func(ctx context.Context, userID string, tripID, id uuid.UUID) error
}

func (m *mockFlightServicer) Create(ctx context.Context, userID string, f domain.Flight) (domain.Flight, error) {
	return m.create(ctx, userID, f)
}
func (m *mockFlightServicer) GetByID(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Flight, error) {
	return m.getByID(ctx, userID, tripID, id)
}
func (m *mockFlightServicer) List(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.Flight, error) {
	return m.list(ctx, userID, tripID)
}
func (m *mockFlightServicer) Update(ctx context.Context, userID string, f domain.Flight) (domain.Flight, error) {
	return m.update(ctx, userID, f)
}
func (m *mockFlightServicer) Delete(ctx context.Context, userID string, tripID, id uuid.UUID) error {
	return m.delete(ctx, userID, tripID, id)
}

var _ handler.FlightServicer = (*mockFlightServicer)(nil)

type mockAnalyticsServicer struct {
	trip func(ctx context.Context, userID string, tripID uuid.UUID) (domain.TripAnalytics, error)
}

func (m *mockAnalyticsServicer) Trip(ctx context.Context, userID string, tripID uuid.UUID) (domain.TripAnalytics, error) {
	return m.trip(ctx, userID, tripID)
}

var _ handler.AnalyticsServicer = (*mockAnalyticsServicer)(nil)

type mockExportServicer struct {
	export func(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, userID, tripID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into its router.
// This mirrors how main.go mounts it in production.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.NewServer(svc, nil).Routes()
}

// do sends a request as alice. body is JSON-encoded unless it is nil.
func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = jsonBody(t, body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserHeader, alice)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// errorCode returns error.code from an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func dateStr(t time.Time) string {
	return t.Format("2006-01-02")
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:        uuid.New(),
		UserID:    alice,
		Name:      "Portugal",
		StartDate: day(1),
		EndDate:   day(3),
		Countries: []string{"PT"},
		Notes:     "test notes",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func stateFixture() workspace.State {
	trip := tripFixture()
	plans := make([]domain.DayPlan, 0, 3)
	for i := 0; i < 3; i++ {
		plans = append(plans, domain.DayPlan{Position: i + 1, Date: day(i + 1)})
	}
	plans[0].Places = []domain.Place{{ID: domain.NewPlaceID(), Name: "Praça do Comércio", Category: domain.CategoryPlace}}
	return workspace.State{Trip: trip, Plans: plans, SelectedDay: day(1), Loaded: true}
}
