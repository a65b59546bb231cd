// Package domain contains the core data types for the travel planner.
// It holds no I/O and is imported by every other internal package
// (itinerary, workspace, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level aggregate: it owns its day plans, expenses and flights.
// StartDate and EndDate are calendar dates (UTC midnight) and the range is inclusive.
type Trip struct {
	ID        uuid.UUID
	UserID    string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Countries []string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayCount returns the number of calendar days the trip covers, or 0 when the
// range is empty or inverted.
func (t Trip) DayCount() int {
	return DayCount(t.StartDate, t.EndDate)
}

// Covers reports whether date falls inside the trip's inclusive date range.
func (t Trip) Covers(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(t.StartDate)) && !d.After(DateOf(t.EndDate))
}
