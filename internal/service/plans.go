package service

import (
	"context"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/itinerary"
	"github.com/DeborahScali/travelapp-sub000/internal/repo"
)

// planSource reads a trip's plans, preferring the open workspace over the
// store so that edits not yet autosaved are included.
type planSource struct {
	spaces Workspaces
	plans  repo.DayPlanRepo
}

func (p planSource) load(ctx context.Context, userID string, trip domain.Trip) ([]domain.DayPlan, error) {
	ws, err := p.spaces.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state := ws.Snapshot(); state.Loaded && state.Trip.ID == trip.ID {
		return state.Plans, nil
	}

	plans, err := p.plans.ListByTrip(ctx, userID, trip.ID)
	if err != nil {
		return nil, err
	}
	// A trip that is not open may hold plans from an older date range.
	if itinerary.NeedsRegeneration(plans, trip.StartDate, trip.EndDate) {
		if regenerated, err := itinerary.Regenerate(plans, trip.StartDate, trip.EndDate); err == nil {
			return regenerated, nil
		}
	}
	return plans, nil
}
