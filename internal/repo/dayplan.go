package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// DayPlanRepo persists a trip's day plans. Plans are only ever written as a
// complete set: the itinerary derives a whole new list on every change.
type DayPlanRepo interface {
	// ListByTrip returns the plans ordered by date. An unknown trip yields an
	// empty list.
	ListByTrip(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.DayPlan, error)

	// ReplaceAll makes the stored plans exactly equal to plans: days not in
	// the set are deleted and the rest upserted, atomically.
	// Returns domain.ErrNotFound if the trip does not belong to the user.
	ReplaceAll(ctx context.Context, userID string, tripID uuid.UUID, plans []domain.DayPlan) error
}

type pgDayPlanRepo struct {
	db db
}

// NewDayPlanRepo constructs a DayPlanRepo backed by the provided db connection.
func NewDayPlanRepo(db db) DayPlanRepo {
	return &pgDayPlanRepo{db: db}
}

func (r *pgDayPlanRepo) ListByTrip(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.DayPlan, error) {
	const q = `
		SELECT d.plan_date, d.position, d.title, d.city, d.country, d.places
		FROM day_plans d
		JOIN trips t ON t.id = d.trip_id
		WHERE d.trip_id = @trip_id AND t.user_id = @user_id
		ORDER BY d.plan_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayPlanRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	plans := []domain.DayPlan{}
	for rows.Next() {
		p, err := scanDayPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DayPlanRepo.ListByTrip: scan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayPlanRepo.ListByTrip: rows: %w", err)
	}
	return plans, nil
}

func (r *pgDayPlanRepo) ReplaceAll(ctx context.Context, userID string, tripID uuid.UUID, plans []domain.DayPlan) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.DayPlanRepo.ReplaceAll: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the trip row so two replaces for the same trip apply in turn.
	const owner = `SELECT 1 FROM trips WHERE id = @trip_id AND user_id = @user_id FOR UPDATE`
	var one int
	if err := tx.QueryRow(ctx, owner, pgx.NamedArgs{"trip_id": tripID, "user_id": userID}).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("repo.DayPlanRepo.ReplaceAll: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("repo.DayPlanRepo.ReplaceAll: owner: %w", err)
	}

	dates := make([]time.Time, len(plans))
	for i, p := range plans {
		dates[i] = domain.DateOf(p.Date)
	}
	const del = `DELETE FROM day_plans WHERE trip_id = @trip_id AND NOT (plan_date = ANY(@dates::date[]))`
	if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"trip_id": tripID, "dates": dates}); err != nil {
		return fmt.Errorf("repo.DayPlanRepo.ReplaceAll: delete: %w", err)
	}

	const upsert = `
		INSERT INTO day_plans (trip_id, plan_date, position, title, city, country, places)
		VALUES (@trip_id, @plan_date, @position, @title, @city, @country, @places)
		ON CONFLICT (trip_id, plan_date) DO UPDATE
		SET position   = EXCLUDED.position,
		    title      = EXCLUDED.title,
		    city       = EXCLUDED.city,
		    country    = EXCLUDED.country,
		    places     = EXCLUDED.places,
		    updated_at = now()`

	batch := &pgx.Batch{}
	for _, p := range plans {
		places, err := json.Marshal(placesToDocs(p.Places))
		if err != nil {
			return fmt.Errorf("repo.DayPlanRepo.ReplaceAll: encode places: %w", err)
		}
		batch.Queue(upsert, pgx.NamedArgs{
			"trip_id":   tripID,
			"plan_date": domain.DateOf(p.Date),
			"position":  p.Position,
			"title":     p.Title,
			"city":      p.City,
			"country":   p.Country,
			"places":    string(places),
		})
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("repo.DayPlanRepo.ReplaceAll: upsert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.DayPlanRepo.ReplaceAll: commit: %w", err)
	}
	return nil
}

func scanDayPlan(s scanner) (domain.DayPlan, error) {
	var (
		p      domain.DayPlan
		date   pgtype.Date
		places []byte
	)
	if err := s.Scan(&date, &p.Position, &p.Title, &p.City, &p.Country, &places); err != nil {
		return domain.DayPlan{}, err
	}
	p.Date = date.Time

	var docs []placeDoc
	if err := json.Unmarshal(places, &docs); err != nil {
		return domain.DayPlan{}, fmt.Errorf("decode places: %w", err)
	}
	p.Places = docsToPlaces(docs)
	return p, nil
}

// placeDoc is the JSONB storage shape of a domain.Place.
type placeDoc struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Address         string           `json:"address,omitempty"`
	Coordinates     *coordinatesDoc  `json:"coordinates,omitempty"`
	Category        string           `json:"category"`
	Mode            string           `json:"mode,omitempty"`
	DistanceKm      *float64         `json:"distance_km,omitempty"`
	DurationMin     *float64         `json:"duration_min,omitempty"`
	LegSource       string           `json:"leg_source,omitempty"`
	Cost            *decimal.Decimal `json:"cost,omitempty"`
	Priority        int              `json:"priority"`
	Visited         bool             `json:"visited"`
	Notes           string           `json:"notes,omitempty"`
	ProviderPlaceID string           `json:"provider_place_id,omitempty"`
	PhotoRef        string           `json:"photo_ref,omitempty"`
}

type coordinatesDoc struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func placesToDocs(places []domain.Place) []placeDoc {
	docs := make([]placeDoc, len(places))
	for i, p := range places {
		p = p.Clone()
		d := placeDoc{
			ID:              p.ID,
			Name:            p.Name,
			Address:         p.Address,
			Category:        string(p.Category),
			Mode:            string(p.Mode),
			DistanceKm:      p.DistanceKm,
			DurationMin:     p.DurationMin,
			LegSource:       string(p.LegSource),
			Cost:            p.Cost,
			Priority:        p.Priority,
			Visited:         p.Visited,
			Notes:           p.Notes,
			ProviderPlaceID: p.ProviderPlaceID,
			PhotoRef:        p.PhotoRef,
		}
		if p.Coordinates != nil {
			d.Coordinates = &coordinatesDoc{Lat: p.Coordinates.Lat, Lng: p.Coordinates.Lng}
		}
		docs[i] = d
	}
	return docs
}

func docsToPlaces(docs []placeDoc) []domain.Place {
	places := make([]domain.Place, len(docs))
	for i, d := range docs {
		p := domain.Place{
			ID:              d.ID,
			Name:            d.Name,
			Address:         d.Address,
			Category:        domain.PlaceCategory(d.Category),
			Mode:            domain.TransportMode(d.Mode),
			DistanceKm:      d.DistanceKm,
			DurationMin:     d.DurationMin,
			LegSource:       domain.LegSource(d.LegSource),
			Cost:            d.Cost,
			Priority:        d.Priority,
			Visited:         d.Visited,
			Notes:           d.Notes,
			ProviderPlaceID: d.ProviderPlaceID,
			PhotoRef:        d.PhotoRef,
		}
		if d.Coordinates != nil {
			p.Coordinates = &domain.Coordinates{Lat: d.Coordinates.Lat, Lng: d.Coordinates.Lng}
		}
		places[i] = p
	}
	return places
}
