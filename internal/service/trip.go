// Package service contains the business logic for the travel planner API.
// Services validate inputs, enforce business rules, and orchestrate repo and
// workspace calls. No SQL lives here: services depend on repo interfaces,
// not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/itinerary"
	"github.com/DeborahScali/travelapp-sub000/internal/repo"
	"github.com/DeborahScali/travelapp-sub000/internal/workspace"
)

// MaxTripDays caps the length of a trip.
const MaxTripDays = 365

// Workspaces hands out the in-memory session of a user.
// *workspace.Manager satisfies it.
type Workspaces interface {
	Get(ctx context.Context, userID string) (*workspace.Workspace, error)
}

// TripUpdate is the result of TripService.Update. DroppedDays lists the days
// with content that a shortened date range removed.
type TripUpdate struct {
	Trip        domain.Trip
	DroppedDays []domain.DayPlan
}

// TripService implements business logic for Trip operations.
type TripService struct {
	repo   repo.TripRepo
	plans  repo.DayPlanRepo
	spaces Workspaces
}

// NewTripService constructs a TripService backed by the provided repos.
// plans is used for trips that are not open in the user's workspace.
func NewTripService(r repo.TripRepo, plans repo.DayPlanRepo, spaces Workspaces) *TripService {
	return &TripService{repo: r, plans: plans, spaces: spaces}
}

// Create validates and persists a new trip, makes it the user's current trip
// and opens it, which generates one empty day per date.
func (s *TripService) Create(ctx context.Context, userID string, trip domain.Trip) (domain.Trip, error) {
	trip = normalizeTrip(trip)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	ws, err := s.spaces.Get(ctx, userID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	trip.ID = uuid.New()
	trip.UserID = userID
	created, err := s.repo.Save(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	if err := s.repo.SetCurrent(ctx, userID, created.ID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	if _, err := ws.SwitchTrip(ctx, created); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	// The autosaver logs and retries a failed write.
	_ = ws.Flush(ctx)
	return created, nil
}

// GetByID returns a single trip of the user.
func (s *TripService) GetByID(ctx context.Context, userID string, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns the user's trips, newest first.
func (s *TripService) List(ctx context.Context, userID string) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Update validates and replaces the trip's details. When its dates changed
// the plans are regenerated: days that fall outside the new range are
// deleted and reported in the result. The open trip is regenerated in the
// workspace; any other trip has its stored plans rewritten here.
func (s *TripService) Update(ctx context.Context, userID string, trip domain.Trip) (TripUpdate, error) {
	trip = normalizeTrip(trip)
	if err := validateTrip(trip); err != nil {
		return TripUpdate{}, err
	}
	if _, err := s.repo.GetByID(ctx, userID, trip.ID); err != nil {
		return TripUpdate{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	trip.UserID = userID
	updated, err := s.repo.Save(ctx, trip)
	if err != nil {
		return TripUpdate{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	ws, err := s.spaces.Get(ctx, userID)
	if err != nil {
		return TripUpdate{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	state, dropped, err := ws.ApplyTrip(ctx, updated)
	if err != nil {
		return TripUpdate{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if !state.Loaded || state.Trip.ID != updated.ID {
		dropped, err = s.regenerateStored(ctx, userID, updated)
		if err != nil {
			return TripUpdate{}, fmt.Errorf("service.TripService.Update: %w", err)
		}
	}
	return TripUpdate{Trip: updated, DroppedDays: dropped}, nil
}

// regenerateStored fits the stored plans of a trip that is not open to its
// date range and returns the dropped days that had content.
func (s *TripService) regenerateStored(ctx context.Context, userID string, trip domain.Trip) ([]domain.DayPlan, error) {
	stored, err := s.plans.ListByTrip(ctx, userID, trip.ID)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 || !itinerary.NeedsRegeneration(stored, trip.StartDate, trip.EndDate) {
		return nil, nil
	}
	plans, err := itinerary.Regenerate(stored, trip.StartDate, trip.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.plans.ReplaceAll(ctx, userID, trip.ID, plans); err != nil {
		return nil, err
	}
	return itinerary.DroppedDays(stored, trip.StartDate, trip.EndDate), nil
}

// Delete removes a trip with everything it owns and closes it if it was open.
func (s *TripService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	ws, err := s.spaces.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := ws.Clear(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// SetCurrent saves the open trip and opens trip id in its place.
func (s *TripService) SetCurrent(ctx context.Context, userID string, id uuid.UUID) (workspace.State, error) {
	trip, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return workspace.State{}, fmt.Errorf("service.TripService.SetCurrent: %w", err)
	}
	ws, err := s.spaces.Get(ctx, userID)
	if err != nil {
		return workspace.State{}, fmt.Errorf("service.TripService.SetCurrent: %w", err)
	}
	if err := s.repo.SetCurrent(ctx, userID, id); err != nil {
		return workspace.State{}, fmt.Errorf("service.TripService.SetCurrent: %w", err)
	}
	state, err := ws.SwitchTrip(ctx, trip)
	if err != nil {
		return workspace.State{}, fmt.Errorf("service.TripService.SetCurrent: %w", err)
	}
	return state, nil
}

// GetCurrent returns the open trip, or domain.ErrNoCurrentTrip.
func (s *TripService) GetCurrent(ctx context.Context, userID string) (domain.Trip, error) {
	state, err := loadedState(ctx, s.spaces, userID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetCurrent: %w", err)
	}
	return state.Trip, nil
}

func normalizeTrip(t domain.Trip) domain.Trip {
	t.Name = strings.TrimSpace(t.Name)
	t.Notes = strings.TrimSpace(t.Notes)
	t.StartDate = domain.DateOf(t.StartDate)
	t.EndDate = domain.DateOf(t.EndDate)
	countries := make([]string, 0, len(t.Countries))
	seen := map[string]bool{}
	for _, c := range t.Countries {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		countries = append(countries, c)
	}
	t.Countries = countries
	return t
}

// validateTrip enforces business rules common to both Create and Update.
//   - Name must be non-empty.
//   - Both dates are required and the end may not precede the start.
//   - A trip spans at most MaxTripDays days.
func validateTrip(t domain.Trip) error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if t.DayCount() > MaxTripDays {
		return fmt.Errorf("%w: a trip may span at most %d days", domain.ErrValidation, MaxTripDays)
	}
	return nil
}

// loadedState returns the user's workspace state or domain.ErrNoCurrentTrip.
func loadedState(ctx context.Context, spaces Workspaces, userID string) (workspace.State, error) {
	ws, err := spaces.Get(ctx, userID)
	if err != nil {
		return workspace.State{}, err
	}
	state := ws.Snapshot()
	if !state.Loaded {
		return workspace.State{}, domain.ErrNoCurrentTrip
	}
	return state, nil
}
