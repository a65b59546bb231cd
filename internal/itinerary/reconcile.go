// Package itinerary implements the itinerary reconciler: it keeps a trip's
// day plans aligned with its date range, reorders and moves places, and
// maintains the derived distance and duration of each leg.
//
// Every function here is pure with respect to its inputs: slices passed in
// are never mutated and results are freshly allocated. The only I/O goes
// through the DistanceCalculator supplied by the caller.
package itinerary

import (
	"fmt"
	"time"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// Regenerate returns one plan per calendar date of [start, end], ascending,
// with positions 1..N. Plans in existing whose date survives keep their
// title, city, country and places; new dates get empty plans; plans dated
// outside the range are dropped.
//
// A zero bound or end before start is invalid: the function returns an
// error wrapping domain.ErrValidation and callers keep their prior plans.
func Regenerate(existing []domain.DayPlan, start, end time.Time) ([]domain.DayPlan, error) {
	n := domain.DayCount(start, end)
	if n == 0 {
		return nil, fmt.Errorf("%w: trip needs a start date on or before its end date", domain.ErrValidation)
	}

	// Later entries win when existing holds duplicate dates.
	byDate := make(map[string]domain.DayPlan, len(existing))
	for _, p := range existing {
		byDate[domain.DateKey(p.Date)] = p
	}

	first := domain.DateOf(start)
	plans := make([]domain.DayPlan, n)
	for i := range n {
		date := first.AddDate(0, 0, i)
		plan := domain.DayPlan{Position: i + 1, Date: date, Places: []domain.Place{}}
		if prev, ok := byDate[domain.DateKey(date)]; ok {
			plan.Title = prev.Title
			plan.City = prev.City
			plan.Country = prev.Country
			plan.Places = domain.ClonePlaces(prev.Places)
		}
		plans[i] = plan
	}
	return plans, nil
}

// NeedsRegeneration reports whether plans must be regenerated to match the
// range: they are empty, or their count, first date or last date disagree.
// Plans are expected in ascending date order.
func NeedsRegeneration(plans []domain.DayPlan, start, end time.Time) bool {
	n := domain.DayCount(start, end)
	if n == 0 {
		return false
	}
	if len(plans) != n {
		return true
	}
	return domain.DateKey(plans[0].Date) != domain.DateKey(start) ||
		domain.DateKey(plans[len(plans)-1].Date) != domain.DateKey(end)
}

// DroppedDays returns the plans from existing that a regeneration to
// [start, end] would discard and that still hold content. Callers use it to
// warn before shrinking a trip.
func DroppedDays(existing []domain.DayPlan, start, end time.Time) []domain.DayPlan {
	var dropped []domain.DayPlan
	s, e := domain.DateOf(start), domain.DateOf(end)
	for _, p := range existing {
		d := domain.DateOf(p.Date)
		if d.Before(s) || d.After(e) {
			if len(p.Places) > 0 || p.Title != "" || p.City != "" || p.Country != "" {
				dropped = append(dropped, p.Clone())
			}
		}
	}
	return dropped
}
