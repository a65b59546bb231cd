package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/handler"
)

type analyticsJSON struct {
	PlaceCount       int                          `json:"place_count"`
	PlacesByCategory map[string]int               `json:"places_by_category"`
	SpendByCurrency  map[string]string            `json:"spend_by_currency"`
	SpendByCategory  map[string]map[string]string `json:"spend_by_category"`
	DailySpend       []struct {
		Date     string `json:"date"`
		Currency string `json:"currency"`
		Amount   string `json:"amount"`
	} `json:"daily_spend"`
	DistanceKmByMode map[string]float64 `json:"distance_km_by_mode"`
}

func TestGetTripAnalytics_200(t *testing.T) {
	tripID := uuid.New()
	svc := &mockAnalyticsServicer{
		trip: func(_ context.Context, userID string, got uuid.UUID) (domain.TripAnalytics, error) {
			assert.Equal(t, alice, userID)
			assert.Equal(t, tripID, got)
			return domain.TripAnalytics{
				TripID:           tripID,
				DayCount:         3,
				PlaceCount:       4,
				VisitedCount:     1,
				PlacesByCategory: map[domain.PlaceCategory]int{domain.CategoryPlace: 3, domain.CategoryCafe: 1},
				SpendByCurrency: map[string]decimal.Decimal{
					"EUR": decimal.RequireFromString("42.50"),
					"USD": decimal.RequireFromString("10"),
				},
				SpendByCategory: map[string]map[domain.ExpenseCategory]decimal.Decimal{
					"EUR": {domain.ExpenseFood: decimal.RequireFromString("42.50")},
				},
				DailySpend: []domain.DailySpend{
					{Date: day(1), Currency: "EUR", Amount: decimal.RequireFromString("42.50")},
				},
				DistanceKmByMode:  map[domain.TransportMode]float64{domain.ModeWalking: 2.5},
				DurationMinByMode: map[domain.TransportMode]float64{domain.ModeWalking: 31},
			}, nil
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Analytics: svc}), http.MethodGet, "/api/v1/trips/"+tripID.String()+"/analytics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[analyticsJSON](t, rec)

	assert.Equal(t, 4, resp.PlaceCount)
	assert.Equal(t, 3, resp.PlacesByCategory["place"])
	assert.Equal(t, "42.5", resp.SpendByCurrency["EUR"])
	assert.Equal(t, "10", resp.SpendByCurrency["USD"])
	assert.Equal(t, "42.5", resp.SpendByCategory["EUR"]["food"])
	require.Len(t, resp.DailySpend, 1)
	assert.Equal(t, "2025-06-01", resp.DailySpend[0].Date)
	assert.InDelta(t, 2.5, resp.DistanceKmByMode["walking"], 1e-9)
}

func TestGetTripAnalytics_404(t *testing.T) {
	svc := &mockAnalyticsServicer{
		trip: func(_ context.Context, _ string, _ uuid.UUID) (domain.TripAnalytics, error) {
			return domain.TripAnalytics{}, domain.ErrNotFound
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Analytics: svc}), http.MethodGet, "/api/v1/trips/"+uuid.NewString()+"/analytics", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
