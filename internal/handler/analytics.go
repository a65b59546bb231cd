package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

type dailySpendResponse struct {
	Date     openapi_types.Date `json:"date"`
	Currency string             `json:"currency"`
	Amount   decimal.Decimal    `json:"amount"`
}

// analyticsResponse keys money by ISO currency code. Amounts in different
// currencies are never added together.
type analyticsResponse struct {
	TripID            openapi_types.UUID                    `json:"trip_id"`
	DayCount          int                                   `json:"day_count"`
	PlaceCount        int                                   `json:"place_count"`
	VisitedCount      int                                   `json:"visited_count"`
	PlacesByCategory  map[string]int                        `json:"places_by_category"`
	SpendByCurrency   map[string]decimal.Decimal            `json:"spend_by_currency"`
	SpendByCategory   map[string]map[string]decimal.Decimal `json:"spend_by_category"`
	DailySpend        []dailySpendResponse                  `json:"daily_spend"`
	DistanceKmByMode  map[string]float64                    `json:"distance_km_by_mode"`
	DurationMinByMode map[string]float64                    `json:"duration_min_by_mode"`
	FlightCount       int                                   `json:"flight_count"`
}

// GetTripAnalytics handles GET /trips/{tripID}/analytics.
func (s *Server) GetTripAnalytics(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	a, err := s.analytics.Trip(r.Context(), userID(r), tripID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, analyticsToResponse(a))
}

func analyticsToResponse(a domain.TripAnalytics) analyticsResponse {
	resp := analyticsResponse{
		TripID:            a.TripID,
		DayCount:          a.DayCount,
		PlaceCount:        a.PlaceCount,
		VisitedCount:      a.VisitedCount,
		PlacesByCategory:  make(map[string]int, len(a.PlacesByCategory)),
		SpendByCurrency:   make(map[string]decimal.Decimal, len(a.SpendByCurrency)),
		SpendByCategory:   make(map[string]map[string]decimal.Decimal, len(a.SpendByCategory)),
		DailySpend:        make([]dailySpendResponse, len(a.DailySpend)),
		DistanceKmByMode:  make(map[string]float64, len(a.DistanceKmByMode)),
		DurationMinByMode: make(map[string]float64, len(a.DurationMinByMode)),
		FlightCount:       a.FlightCount,
	}
	for c, n := range a.PlacesByCategory {
		resp.PlacesByCategory[string(c)] = n
	}
	for cur, amt := range a.SpendByCurrency {
		resp.SpendByCurrency[cur] = amt
	}
	for cur, cats := range a.SpendByCategory {
		m := make(map[string]decimal.Decimal, len(cats))
		for c, amt := range cats {
			m[string(c)] = amt
		}
		resp.SpendByCategory[cur] = m
	}
	for i, d := range a.DailySpend {
		resp.DailySpend[i] = dailySpendResponse{
			Date:     openapi_types.Date{Time: d.Date},
			Currency: d.Currency,
			Amount:   d.Amount,
		}
	}
	for m, km := range a.DistanceKmByMode {
		resp.DistanceKmByMode[string(m)] = km
	}
	for m, mins := range a.DurationMinByMode {
		resp.DurationMinByMode[string(m)] = mins
	}
	return resp
}
