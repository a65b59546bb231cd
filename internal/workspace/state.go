package workspace

import (
	"time"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// State is the session state of one user: the current trip, its ordered
// plans and the selected day. Loaded is false until a trip is open.
type State struct {
	Trip        domain.Trip
	Plans       []domain.DayPlan
	SelectedDay time.Time
	Loaded      bool
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Trip.Countries = append([]string{}, s.Trip.Countries...)
	s.Plans = domain.ClonePlans(s.Plans)
	return s
}

// Day returns the plan dated date.
func (s State) Day(date time.Time) (domain.DayPlan, bool) {
	i := domain.FindDay(s.Plans, date)
	if i < 0 {
		return domain.DayPlan{}, false
	}
	return s.Plans[i], true
}

// WithPlans returns s with plans installed and the selected day kept inside
// them. When the first or last date moved, selection resets to the first day.
func (s State) WithPlans(plans []domain.DayPlan) State {
	windowMoved := !sameWindow(s.Plans, plans)
	s.Plans = plans
	if windowMoved || domain.FindDay(plans, s.SelectedDay) < 0 {
		s.SelectedDay = firstDate(plans)
	}
	return s
}

func sameWindow(a, b []domain.DayPlan) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	return domain.DateKey(a[0].Date) == domain.DateKey(b[0].Date) &&
		domain.DateKey(a[len(a)-1].Date) == domain.DateKey(b[len(b)-1].Date)
}

func firstDate(plans []domain.DayPlan) time.Time {
	if len(plans) == 0 {
		return time.Time{}
	}
	return plans[0].Date
}
