package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TripAnalytics summarises a trip's plans, expenses and flights.
// Money is never summed across currencies.
type TripAnalytics struct {
	TripID            uuid.UUID
	DayCount          int
	PlaceCount        int
	VisitedCount      int
	PlacesByCategory  map[PlaceCategory]int
	SpendByCurrency   map[string]decimal.Decimal
	SpendByCategory   map[string]map[ExpenseCategory]decimal.Decimal
	DailySpend        []DailySpend
	DistanceKmByMode  map[TransportMode]float64
	DurationMinByMode map[TransportMode]float64
	FlightCount       int
}

// DailySpend is the total spent in one currency on one calendar date.
type DailySpend struct {
	Date     time.Time
	Currency string
	Amount   decimal.Decimal
}
