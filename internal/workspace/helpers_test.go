package workspace

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/repo"
)

const testUser = "user-1"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func coords(lat, lng float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lng: lng}
}

func place(name string, c *domain.Coordinates) domain.Place {
	return domain.Place{ID: domain.NewPlaceID(), Name: name, Category: domain.CategoryPlace, Coordinates: c}
}

// seedTrip stores a trip covering day(from)..day(to), marks it current and
// stores plans for it.
func seedTrip(t *testing.T, r repo.Repos, from, to int, plans []domain.DayPlan) domain.Trip {
	t.Helper()
	ctx := context.Background()
	trip, err := r.Trips.Save(ctx, domain.Trip{
		ID:        uuid.New(),
		UserID:    testUser,
		Name:      "Japan",
		StartDate: day(from),
		EndDate:   day(to),
		Countries: []string{"Japan"},
	})
	require.NoError(t, err)
	require.NoError(t, r.Trips.SetCurrent(ctx, testUser, trip.ID))
	if plans != nil {
		require.NoError(t, r.DayPlans.ReplaceAll(ctx, testUser, trip.ID, plans))
	}
	return trip
}

// openWorkspace returns a loaded workspace over r that is closed at cleanup.
func openWorkspace(t *testing.T, r repo.Repos, debounce time.Duration) *Workspace {
	t.Helper()
	m := NewManager(r.Trips, r.DayPlans, discardLogger(), debounce)
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	w, err := m.Get(context.Background(), testUser)
	require.NoError(t, err)
	return w
}

// mockDayPlanRepo is a function-field mock of repo.DayPlanRepo.
type mockDayPlanRepo struct {
	listByTrip func(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.DayPlan, error)
	replaceAll func(ctx context.Context, userID string, tripID uuid.UUID, plans []domain.DayPlan) error
}

var _ repo.DayPlanRepo = (*mockDayPlanRepo)(nil)

func (m *mockDayPlanRepo) ListByTrip(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.DayPlan, error) {
	return m.listByTrip(ctx, userID, tripID)
}

func (m *mockDayPlanRepo) ReplaceAll(ctx context.Context, userID string, tripID uuid.UUID, plans []domain.DayPlan) error {
	return m.replaceAll(ctx, userID, tripID, plans)
}
