package domain

import "time"

// DayPlan is one calendar day of a trip. Position is 1-based and contiguous;
// it is recomputed every time the plans are regenerated.
// Places are kept in visiting order.
type DayPlan struct {
	Position int
	Date     time.Time
	Title    string
	City     string
	Country  string
	Places   []Place
}

// Clone returns a deep copy so callers can derive a new plan without
// aliasing the places slice of the original.
func (d DayPlan) Clone() DayPlan {
	d.Places = ClonePlaces(d.Places)
	return d
}

// PlaceIndex returns the index of the place with the given id, or -1.
func (d DayPlan) PlaceIndex(id PlaceID) int {
	for i, p := range d.Places {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ClonePlans deep-copies a list of day plans. A nil input yields an empty,
// non-nil slice.
func ClonePlans(plans []DayPlan) []DayPlan {
	out := make([]DayPlan, len(plans))
	for i, p := range plans {
		out[i] = p.Clone()
	}
	return out
}

// FindDay returns the index of the plan whose date equals date, or -1.
func FindDay(plans []DayPlan, date time.Time) int {
	key := DateKey(date)
	for i, p := range plans {
		if DateKey(p.Date) == key {
			return i
		}
	}
	return -1
}
