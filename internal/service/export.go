package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/repo"
)

// ExportService assembles a flat export of a trip's itinerary.
type ExportService struct {
	trips repo.TripRepo
	plans planSource
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, plans repo.DayPlanRepo, spaces Workspaces) *ExportService {
	return &ExportService{trips: trips, plans: planSource{spaces: spaces, plans: plans}}
}

// Export returns one ExportRow per place of the trip, in day and place order.
// Days with no places contribute one row with empty place fields.
func (s *ExportService) Export(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.ExportRow, error) {
	trip, err := s.trips.GetByID(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	plans, err := s.plans.load(ctx, userID, trip)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	return ExportRows(trip, plans), nil
}

// ExportRows flattens plans into export rows.
func ExportRows(trip domain.Trip, plans []domain.DayPlan) []domain.ExportRow {
	rows := []domain.ExportRow{}
	for _, day := range plans {
		base := domain.ExportRow{
			TripID:      trip.ID.String(),
			TripName:    trip.Name,
			DayPosition: day.Position,
			DayDate:     domain.DateKey(day.Date),
			DayTitle:    day.Title,
			DayCity:     day.City,
			DayCountry:  day.Country,
		}
		if len(day.Places) == 0 {
			rows = append(rows, base)
			continue
		}
		for i, place := range day.Places {
			p := place.Clone()
			row := base
			row.PlacePosition = i + 1
			row.PlaceName = p.Name
			row.PlaceAddress = p.Address
			row.PlaceCategory = string(p.Category)
			row.Mode = string(p.Mode)
			row.DistanceKm = p.DistanceKm
			row.DurationMin = p.DurationMin
			row.LegSource = string(p.LegSource)
			if p.Cost != nil {
				row.Cost = p.Cost.StringFixed(2)
			}
			row.Priority = p.Priority
			row.Visited = p.Visited
			row.Notes = p.Notes
			rows = append(rows, row)
		}
	}
	return rows
}
