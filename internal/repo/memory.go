package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// memStore holds every collection behind one lock so cascades stay atomic.
type memStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	trips    map[uuid.UUID]domain.Trip
	current  map[string]uuid.UUID
	plans    map[uuid.UUID][]domain.DayPlan
	expenses map[uuid.UUID]domain.Expense
	flights  map[uuid.UUID]domain.Flight
}

// NewMemory returns repositories backed by process memory. Values are copied
// on the way in and out so callers never share slices with the store.
func NewMemory() Repos {
	s := &memStore{
		now:      func() time.Time { return time.Now().UTC() },
		trips:    map[uuid.UUID]domain.Trip{},
		current:  map[string]uuid.UUID{},
		plans:    map[uuid.UUID][]domain.DayPlan{},
		expenses: map[uuid.UUID]domain.Expense{},
		flights:  map[uuid.UUID]domain.Flight{},
	}
	return Repos{
		Trips:    memTripRepo{s},
		DayPlans: memDayPlanRepo{s},
		Expenses: memExpenseRepo{s},
		Flights:  memFlightRepo{s},
	}
}

// ownedTrip must be called with mu held.
func (s *memStore) ownedTrip(userID string, id uuid.UUID) (domain.Trip, bool) {
	t, ok := s.trips[id]
	if !ok || t.UserID != userID {
		return domain.Trip{}, false
	}
	return t, true
}

func copyTrip(t domain.Trip) domain.Trip {
	t.Countries = append([]string{}, t.Countries...)
	return t
}

// ---- Trips ----

type memTripRepo struct{ s *memStore }

func (r memTripRepo) List(_ context.Context, userID string) ([]domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Trip{}
	for _, t := range r.s.trips {
		if t.UserID == userID {
			out = append(out, copyTrip(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r memTripRepo) GetByID(_ context.Context, userID string, id uuid.UUID) (domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.ownedTrip(userID, id)
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
	}
	return copyTrip(t), nil
}

func (r memTripRepo) Save(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	if prev, ok := r.s.trips[trip.ID]; ok {
		if prev.UserID != trip.UserID {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Save: %w", domain.ErrNotFound)
		}
		trip.CreatedAt = prev.CreatedAt
	} else {
		trip.CreatedAt = now
	}
	trip.UpdatedAt = now
	trip.StartDate = domain.DateOf(trip.StartDate)
	trip.EndDate = domain.DateOf(trip.EndDate)
	trip = copyTrip(trip)
	r.s.trips[trip.ID] = trip
	return copyTrip(trip), nil
}

func (r memTripRepo) Delete(_ context.Context, userID string, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ownedTrip(userID, id); !ok {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.s.trips, id)
	delete(r.s.plans, id)
	for eid, e := range r.s.expenses {
		if e.TripID == id {
			delete(r.s.expenses, eid)
		}
	}
	for fid, f := range r.s.flights {
		if f.TripID == id {
			delete(r.s.flights, fid)
		}
	}
	if r.s.current[userID] == id {
		delete(r.s.current, userID)
	}
	return nil
}

func (r memTripRepo) GetCurrent(_ context.Context, userID string) (domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.current[userID]
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetCurrent: %w", domain.ErrNotFound)
	}
	t, ok := r.s.ownedTrip(userID, id)
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetCurrent: %w", domain.ErrNotFound)
	}
	return copyTrip(t), nil
}

func (r memTripRepo) SetCurrent(_ context.Context, userID string, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ownedTrip(userID, id); !ok {
		return fmt.Errorf("repo.TripRepo.SetCurrent: %w", domain.ErrNotFound)
	}
	r.s.current[userID] = id
	return nil
}

// ---- Day plans ----

type memDayPlanRepo struct{ s *memStore }

func (r memDayPlanRepo) ListByTrip(_ context.Context, userID string, tripID uuid.UUID) ([]domain.DayPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.ownedTrip(userID, tripID); !ok {
		return []domain.DayPlan{}, nil
	}
	plans := domain.ClonePlans(r.s.plans[tripID])
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].Date.Before(plans[j].Date) })
	return plans, nil
}

func (r memDayPlanRepo) ReplaceAll(_ context.Context, userID string, tripID uuid.UUID, plans []domain.DayPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ownedTrip(userID, tripID); !ok {
		return fmt.Errorf("repo.DayPlanRepo.ReplaceAll: %w", domain.ErrNotFound)
	}
	stored := domain.ClonePlans(plans)
	for i := range stored {
		stored[i].Date = domain.DateOf(stored[i].Date)
	}
	r.s.plans[tripID] = stored
	return nil
}

// ---- Expenses ----

type memExpenseRepo struct{ s *memStore }

func (r memExpenseRepo) ListByTrip(_ context.Context, userID string, tripID uuid.UUID) ([]domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(userID, tripID), nil
}

func (r memExpenseRepo) ListByTripPaged(_ context.Context, userID string, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.list(userID, tripID)
	total := int64(len(all))
	lo := min(p.Offset(), len(all))
	hi := min(lo+p.Limit, len(all))
	return all[lo:hi], total, nil
}

// list must be called with mu held.
func (r memExpenseRepo) list(userID string, tripID uuid.UUID) []domain.Expense {
	out := []domain.Expense{}
	if _, ok := r.s.ownedTrip(userID, tripID); !ok {
		return out
	}
	for _, e := range r.s.expenses {
		if e.TripID == tripID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r memExpenseRepo) GetByID(_ context.Context, userID string, tripID, id uuid.UUID) (domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.expenses[id]
	if _, owned := r.s.ownedTrip(userID, tripID); !ok || !owned || e.TripID != tripID {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", domain.ErrNotFound)
	}
	return e, nil
}

func (r memExpenseRepo) Save(_ context.Context, userID string, e domain.Expense) (domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ownedTrip(userID, e.TripID); !ok {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Save: %w", domain.ErrNotFound)
	}
	now := r.s.now()
	if prev, ok := r.s.expenses[e.ID]; ok {
		if prev.TripID != e.TripID {
			return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Save: %w", domain.ErrNotFound)
		}
		e.CreatedAt = prev.CreatedAt
	} else {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	e.Date = domain.DateOf(e.Date)
	r.s.expenses[e.ID] = e
	return e, nil
}

func (r memExpenseRepo) Delete(_ context.Context, userID string, tripID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.expenses[id]
	if _, owned := r.s.ownedTrip(userID, tripID); !ok || !owned || e.TripID != tripID {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.s.expenses, id)
	return nil
}

// ---- Flights ----

type memFlightRepo struct{ s *memStore }

func copyFlight(f domain.Flight) domain.Flight {
	if f.Cost != nil {
		c := *f.Cost
		f.Cost = &c
	}
	return f
}

func (r memFlightRepo) ListByTrip(_ context.Context, userID string, tripID uuid.UUID) ([]domain.Flight, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Flight{}
	if _, ok := r.s.ownedTrip(userID, tripID); !ok {
		return out, nil
	}
	for _, f := range r.s.flights {
		if f.TripID == tripID {
			out = append(out, copyFlight(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureTime.Before(out[j].DepartureTime) })
	return out, nil
}

func (r memFlightRepo) GetByID(_ context.Context, userID string, tripID, id uuid.UUID) (domain.Flight, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.flights[id]
	if _, owned := r.s.ownedTrip(userID, tripID); !ok || !owned || f.TripID != tripID {
		return domain.Flight{}, fmt.Errorf("repo.FlightRepo.GetByID: %w", domain.ErrNotFound)
	}
	return copyFlight(f), nil
}

func (r memFlightRepo) Save(_ context.Context, userID string, f domain.Flight) (domain.Flight, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ownedTrip(userID, f.TripID); !ok {
		return domain.Flight{}, fmt.Errorf("repo.FlightRepo.Save: %w", domain.ErrNotFound)
	}
	now := r.s.now()
	if prev, ok := r.s.flights[f.ID]; ok {
		if prev.TripID != f.TripID {
			return domain.Flight{}, fmt.Errorf("repo.FlightRepo.Save: %w", domain.ErrNotFound)
		}
		f.CreatedAt = prev.CreatedAt
	} else {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	f = copyFlight(f)
	r.s.flights[f.ID] = f
	return copyFlight(f), nil
}

func (r memFlightRepo) Delete(_ context.Context, userID string, tripID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.flights[id]
	if _, owned := r.s.ownedTrip(userID, tripID); !ok || !owned || f.TripID != tripID {
		return fmt.Errorf("repo.FlightRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.s.flights, id)
	return nil
}
