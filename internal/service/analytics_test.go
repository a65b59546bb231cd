package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/service"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSummarize(t *testing.T) {
	trip := domain.Trip{ID: uuid.New(), StartDate: day(1), EndDate: day(2)}
	plans := []domain.DayPlan{
		{Position: 1, Date: day(1), Places: []domain.Place{
			{ID: domain.NewPlaceID(), Category: domain.CategoryPlace, Visited: true},
			{ID: domain.NewPlaceID(), Category: domain.CategoryCafe, Mode: domain.ModeWalking, DistanceKm: ptr(0.5), DurationMin: ptr(6.0)},
			{ID: domain.NewPlaceID(), Category: domain.CategoryCafe, Mode: domain.ModeWalking, DistanceKm: ptr(0.7), DurationMin: ptr(9.0)},
		}},
		{Position: 2, Date: day(2), Places: []domain.Place{
			{ID: domain.NewPlaceID(), Category: domain.CategoryActivity},
			{ID: domain.NewPlaceID(), Category: domain.CategoryActivity, Mode: domain.ModeCar, DistanceKm: ptr(30.0)},
		}},
	}
	expenses := []domain.Expense{
		{Amount: money("7.50"), Currency: "EUR", Category: domain.ExpenseFood, Date: day(1)},
		{Amount: money("2.50"), Currency: "EUR", Category: domain.ExpenseFood, Date: day(1)},
		{Amount: money("40"), Currency: "USD", Category: domain.ExpenseShopping, Date: day(2)},
	}
	flights := []domain.Flight{
		{Cost: ptr(money("100")), Currency: "EUR", DepartureTime: time.Date(2025, 6, 2, 22, 0, 0, 0, time.UTC)},
		{},
	}

	got := service.Summarize(trip, plans, expenses, flights)

	assert.Equal(t, trip.ID, got.TripID)
	assert.Equal(t, 2, got.DayCount)
	assert.Equal(t, 5, got.PlaceCount)
	assert.Equal(t, 1, got.VisitedCount)
	assert.Equal(t, map[domain.PlaceCategory]int{
		domain.CategoryPlace:    1,
		domain.CategoryCafe:     2,
		domain.CategoryActivity: 2,
	}, got.PlacesByCategory)
	assert.Equal(t, 2, got.FlightCount)

	assert.Equal(t, "110.00", got.SpendByCurrency["EUR"].StringFixed(2))
	assert.Equal(t, "40.00", got.SpendByCurrency["USD"].StringFixed(2))
	assert.Equal(t, "10.00", got.SpendByCategory["EUR"][domain.ExpenseFood].StringFixed(2))
	assert.Equal(t, "100.00", got.SpendByCategory["EUR"][domain.ExpenseTransport].StringFixed(2))

	require.Len(t, got.DailySpend, 3)
	assert.True(t, got.DailySpend[0].Date.Equal(day(1)))
	assert.Equal(t, "10.00", got.DailySpend[0].Amount.StringFixed(2))
	assert.Equal(t, "EUR", got.DailySpend[1].Currency)
	assert.True(t, got.DailySpend[1].Date.Equal(day(2)))
	assert.Equal(t, "USD", got.DailySpend[2].Currency)

	assert.InDelta(t, 1.2, got.DistanceKmByMode[domain.ModeWalking], 1e-9)
	assert.InDelta(t, 15, got.DurationMinByMode[domain.ModeWalking], 1e-9)
	assert.InDelta(t, 30, got.DistanceKmByMode[domain.ModeCar], 1e-9)
	assert.Zero(t, got.DurationMinByMode[domain.ModeCar])
}

func TestSummarize_Empty(t *testing.T) {
	got := service.Summarize(domain.Trip{}, nil, nil, nil)

	assert.Zero(t, got.PlaceCount)
	assert.NotNil(t, got.DailySpend)
	assert.Empty(t, got.SpendByCurrency)
}

func TestAnalyticsService_Trip_UsesOpenWorkspace(t *testing.T) {
	e := newEnv(t)
	trip := e.createTrip(t, 1, 3)
	e.addPlace(t, 1, "A", baixa)
	e.addPlace(t, 1, "B", chiado)
	ctx := context.Background()
	_, err := e.repos.Expenses.Save(ctx, alice, domain.Expense{
		ID: uuid.New(), TripID: trip.ID, Description: "Lunch",
		Amount: money("12.30"), Currency: "EUR", Category: domain.ExpenseFood, Date: day(1),
	})
	require.NoError(t, err)

	got, err := e.analytics.Trip(ctx, alice, trip.ID)

	require.NoError(t, err)
	assert.Equal(t, 3, got.DayCount)
	assert.Equal(t, 2, got.PlaceCount, "unsaved places are counted")
	assert.Equal(t, "12.30", got.SpendByCurrency["EUR"].StringFixed(2))
	assert.InDelta(t, 0.4, got.DistanceKmByMode[domain.ModeWalking], 1e-9)
}

func TestAnalyticsService_Trip_ClosedTripReadsStore(t *testing.T) {
	e := newEnv(t)
	first := e.createTrip(t, 1, 2)
	e.addPlace(t, 1, "A", baixa)
	e.createTrip(t, 10, 11)

	got, err := e.analytics.Trip(context.Background(), alice, first.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, got.DayCount)
	assert.Equal(t, 1, got.PlaceCount)
}

func TestAnalyticsService_Trip_NotFound(t *testing.T) {
	e := newEnv(t)
	trip := e.createTrip(t, 1, 2)

	_, err := e.analytics.Trip(context.Background(), bob, trip.ID)

	require.ErrorIs(t, err, domain.ErrNotFound)
}
