package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/repo"
	"github.com/DeborahScali/travelapp-sub000/testutil"
)

const (
	alice = "user-alice"
	bob   = "user-bob"
)

// backend is one repository implementation under test.
type backend struct {
	name string
	open func(t *testing.T) repo.Repos
}

// backends returns the memory store and, when TEST_DATABASE_URL is set, a
// Postgres store bound to a transaction that is rolled back after the test.
func backends() []backend {
	return []backend{
		{name: "memory", open: func(*testing.T) repo.Repos { return repo.NewMemory() }},
		{name: "postgres", open: newTestRepos},
	}
}

func newTestRepos(t *testing.T) repo.Repos {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewPostgres(tx)
}

// eachBackend runs fn once per backend as a subtest.
func eachBackend(t *testing.T, fn func(t *testing.T, r repo.Repos)) {
	t.Helper()
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			fn(t, b.open(t))
		})
	}
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

// tripFixture returns a domain.Trip with sensible defaults.
// Callers can override individual fields after calling this function.
func tripFixture(userID string) domain.Trip {
	return domain.Trip{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "Lisbon and Porto",
		StartDate: day(1),
		EndDate:   day(5),
		Countries: []string{"Portugal"},
		Notes:     "pack light",
	}
}

func saveTrip(t *testing.T, r repo.Repos, userID string) domain.Trip {
	t.Helper()
	trip, err := r.Trips.Save(context.Background(), tripFixture(userID))
	require.NoError(t, err)
	return trip
}

func expenseFixture(tripID uuid.UUID) domain.Expense {
	return domain.Expense{
		ID:          uuid.New(),
		TripID:      tripID,
		Description: "Dinner",
		Amount:      decimal.RequireFromString("42.50"),
		Currency:    "EUR",
		Category:    domain.ExpenseFood,
		Date:        day(2),
		City:        "Lisbon",
		Country:     "Portugal",
	}
}

func flightFixture(tripID uuid.UUID) domain.Flight {
	cost := decimal.RequireFromString("129.99")
	return domain.Flight{
		ID:               uuid.New(),
		TripID:           tripID,
		Airline:          "TAP",
		FlightNumber:     "TP1234",
		DepartureAirport: "LIS",
		ArrivalAirport:   "OPO",
		DepartureTime:    time.Date(2025, 6, 3, 9, 30, 0, 0, time.UTC),
		ArrivalTime:      time.Date(2025, 6, 3, 10, 25, 0, 0, time.UTC),
		ConfirmationCode: "ABC123",
		Cost:             &cost,
		Currency:         "EUR",
	}
}
