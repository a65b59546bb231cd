package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar date, expressed as midnight UTC.
// The calendar fields are read in t's own location so that a local
// "2025-06-01 23:30 -03:00" stays on June 1st.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats the calendar date of t for use as a map key or path segment.
func DateKey(t time.Time) string {
	return DateOf(t).Format(DateLayout)
}

// ParseDate parses a "YYYY-MM-DD" string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", ErrValidation, s)
	}
	return t, nil
}

// DayCount returns the number of days in the inclusive range [start, end].
// It returns 0 when either bound is zero or end is before start.
func DayCount(start, end time.Time) int {
	s, e := DateOf(start), DateOf(end)
	if s.IsZero() || e.IsZero() || e.Before(s) {
		return 0
	}
	// Midnight-UTC values differ by whole days; no DST drift in UTC.
	return int(e.Sub(s).Hours()/24) + 1
}
