package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/repo"
)

// AnalyticsService computes trip summaries.
type AnalyticsService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
	flights  repo.FlightRepo
	plans    planSource
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(trips repo.TripRepo, plans repo.DayPlanRepo, expenses repo.ExpenseRepo, flights repo.FlightRepo, spaces Workspaces) *AnalyticsService {
	return &AnalyticsService{
		trips:    trips,
		expenses: expenses,
		flights:  flights,
		plans:    planSource{spaces: spaces, plans: plans},
	}
}

// Trip summarises the trip's places, spending and travel. Flight costs count
// as transport spending on the departure date.
func (s *AnalyticsService) Trip(ctx context.Context, userID string, tripID uuid.UUID) (domain.TripAnalytics, error) {
	trip, err := s.trips.GetByID(ctx, userID, tripID)
	if err != nil {
		return domain.TripAnalytics{}, fmt.Errorf("service.AnalyticsService.Trip: %w", err)
	}
	plans, err := s.plans.load(ctx, userID, trip)
	if err != nil {
		return domain.TripAnalytics{}, fmt.Errorf("service.AnalyticsService.Trip: %w", err)
	}
	expenses, err := s.expenses.ListByTrip(ctx, userID, tripID)
	if err != nil {
		return domain.TripAnalytics{}, fmt.Errorf("service.AnalyticsService.Trip: %w", err)
	}
	flights, err := s.flights.ListByTrip(ctx, userID, tripID)
	if err != nil {
		return domain.TripAnalytics{}, fmt.Errorf("service.AnalyticsService.Trip: %w", err)
	}
	return Summarize(trip, plans, expenses, flights), nil
}

// Summarize builds the analytics of a trip from its parts. Money is grouped
// by currency and never converted.
func Summarize(trip domain.Trip, plans []domain.DayPlan, expenses []domain.Expense, flights []domain.Flight) domain.TripAnalytics {
	a := domain.TripAnalytics{
		TripID:            trip.ID,
		DayCount:          len(plans),
		PlacesByCategory:  map[domain.PlaceCategory]int{},
		SpendByCurrency:   map[string]decimal.Decimal{},
		SpendByCategory:   map[string]map[domain.ExpenseCategory]decimal.Decimal{},
		DailySpend:        []domain.DailySpend{},
		DistanceKmByMode:  map[domain.TransportMode]float64{},
		DurationMinByMode: map[domain.TransportMode]float64{},
		FlightCount:       len(flights),
	}

	for _, day := range plans {
		for _, p := range day.Places {
			a.PlaceCount++
			a.PlacesByCategory[p.Category]++
			if p.Visited {
				a.VisitedCount++
			}
			if p.Mode == "" {
				continue
			}
			if p.DistanceKm != nil {
				a.DistanceKmByMode[p.Mode] += *p.DistanceKm
			}
			if p.DurationMin != nil {
				a.DurationMinByMode[p.Mode] += *p.DurationMin
			}
		}
	}

	type dayKey struct {
		date     string
		currency string
	}
	daily := map[dayKey]domain.DailySpend{}
	add := func(date time.Time, currency string, category domain.ExpenseCategory, amount decimal.Decimal) {
		a.SpendByCurrency[currency] = a.SpendByCurrency[currency].Add(amount)
		if a.SpendByCategory[currency] == nil {
			a.SpendByCategory[currency] = map[domain.ExpenseCategory]decimal.Decimal{}
		}
		a.SpendByCategory[currency][category] = a.SpendByCategory[currency][category].Add(amount)

		k := dayKey{date: domain.DateKey(date), currency: currency}
		d := daily[k]
		d.Date, d.Currency, d.Amount = domain.DateOf(date), currency, d.Amount.Add(amount)
		daily[k] = d
	}
	for _, e := range expenses {
		add(e.Date, e.Currency, e.Category, e.Amount)
	}
	for _, f := range flights {
		if f.Cost != nil && f.Currency != "" {
			add(f.DepartureTime, f.Currency, domain.ExpenseTransport, *f.Cost)
		}
	}

	for _, d := range daily {
		a.DailySpend = append(a.DailySpend, d)
	}
	sort.Slice(a.DailySpend, func(i, j int) bool {
		if !a.DailySpend[i].Date.Equal(a.DailySpend[j].Date) {
			return a.DailySpend[i].Date.Before(a.DailySpend[j].Date)
		}
		return a.DailySpend[i].Currency < a.DailySpend[j].Currency
	})
	return a
}
