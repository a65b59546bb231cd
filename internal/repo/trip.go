package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// TripRepo defines the persistence operations for Trips and the per-user
// "current trip" pointer. Every method is scoped to a user id: a trip owned
// by someone else behaves exactly like a missing one.
type TripRepo interface {
	// List returns the user's trips ordered by start_date descending.
	List(ctx context.Context, userID string) ([]domain.Trip, error)

	// GetByID returns domain.ErrNotFound if the trip does not exist for the user.
	GetByID(ctx context.Context, userID string, id uuid.UUID) (domain.Trip, error)

	// Save upserts trip by ID under trip.UserID and returns the stored record.
	Save(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip with its plans, expenses and flights.
	Delete(ctx context.Context, userID string, id uuid.UUID) error

	// GetCurrent returns the user's current trip, or domain.ErrNotFound.
	GetCurrent(ctx context.Context, userID string) (domain.Trip, error)

	// SetCurrent points the user's current trip at id.
	SetCurrent(ctx context.Context, userID string, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, name, start_date, end_date, countries, notes, created_at, updated_at`

func (r *pgTripRepo) List(ctx context.Context, userID string) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = @user_id
		ORDER BY start_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, userID string, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE id = @id AND user_id = @user_id`

	t, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return t, nil
}

// Save inserts or updates the trip. The ON CONFLICT guard keeps one user
// from overwriting another user's trip by reusing its id.
func (r *pgTripRepo) Save(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (id, user_id, name, start_date, end_date, countries, notes)
		VALUES (@id, @user_id, @name, @start_date, @end_date, @countries, @notes)
		ON CONFLICT (id) DO UPDATE
		SET name       = EXCLUDED.name,
		    start_date = EXCLUDED.start_date,
		    end_date   = EXCLUDED.end_date,
		    countries  = EXCLUDED.countries,
		    notes      = EXCLUDED.notes,
		    updated_at = now()
		WHERE trips.user_id = EXCLUDED.user_id
		RETURNING ` + tripColumns

	countries := trip.Countries
	if countries == nil {
		countries = []string{}
	}
	args := pgx.NamedArgs{
		"id":         trip.ID,
		"user_id":    trip.UserID,
		"name":       trip.Name,
		"start_date": domain.DateOf(trip.StartDate),
		"end_date":   domain.DateOf(trip.EndDate),
		"countries":  countries,
		"notes":      trip.Notes,
	}

	t, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Save: %w", err)
	}
	return t, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) GetCurrent(ctx context.Context, userID string) (domain.Trip, error) {
	const q = `
		SELECT t.id, t.user_id, t.name, t.start_date, t.end_date, t.countries, t.notes, t.created_at, t.updated_at
		FROM current_trips c
		JOIN trips t ON t.id = c.trip_id AND t.user_id = c.user_id
		WHERE c.user_id = @user_id`

	t, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetCurrent: %w", err)
	}
	return t, nil
}

func (r *pgTripRepo) SetCurrent(ctx context.Context, userID string, id uuid.UUID) error {
	const q = `
		INSERT INTO current_trips (user_id, trip_id)
		SELECT user_id, id FROM trips WHERE id = @id AND user_id = @user_id
		ON CONFLICT (user_id) DO UPDATE
		SET trip_id = EXCLUDED.trip_id, updated_at = now()`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.SetCurrent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.SetCurrent: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t     domain.Trip
		id    pgtype.UUID
		start pgtype.Date
		end   pgtype.Date
	)

	err := s.Scan(&id, &t.UserID, &t.Name, &start, &end, &t.Countries, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time
	if t.Countries == nil {
		t.Countries = []string{}
	}
	return t, nil
}
