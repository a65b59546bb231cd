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

// FlightRepo defines the persistence operations for Flights.
// Every method is scoped to a trip owned by the given user.
type FlightRepo interface {
	// ListByTrip returns the trip's flights ordered by departure time.
	ListByTrip(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.Flight, error)
	GetByID(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Flight, error)
	Save(ctx context.Context, userID string, f domain.Flight) (domain.Flight, error)
	Delete(ctx context.Context, userID string, tripID, id uuid.UUID) error
}

type pgFlightRepo struct {
	db db
}

// NewFlightRepo constructs a FlightRepo backed by the provided db connection.
func NewFlightRepo(db db) FlightRepo {
	return &pgFlightRepo{db: db}
}

const flightColumns = `f.id, f.trip_id, f.airline, f.flight_number, f.departure_airport, f.arrival_airport,
	f.departure_time, f.arrival_time, f.confirmation_code, f.cost, f.currency, f.created_at, f.updated_at`

func (r *pgFlightRepo) ListByTrip(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.Flight, error) {
	const q = `
		SELECT ` + flightColumns + `
		FROM flights f
		JOIN trips t ON t.id = f.trip_id
		WHERE f.trip_id = @trip_id AND t.user_id = @user_id
		ORDER BY f.departure_time`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.FlightRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	out := []domain.Flight{}
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.FlightRepo.ListByTrip: scan: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FlightRepo.ListByTrip: rows: %w", err)
	}
	return out, nil
}

func (r *pgFlightRepo) GetByID(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Flight, error) {
	const q = `
		SELECT ` + flightColumns + `
		FROM flights f
		JOIN trips t ON t.id = f.trip_id
		WHERE f.id = @id AND f.trip_id = @trip_id AND t.user_id = @user_id`

	f, err := scanFlight(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID, "user_id": userID}))
	if err != nil {
		return domain.Flight{}, fmt.Errorf("repo.FlightRepo.GetByID: %w", err)
	}
	return f, nil
}

func (r *pgFlightRepo) Save(ctx context.Context, userID string, f domain.Flight) (domain.Flight, error) {
	const q = `
		WITH saved AS (
			INSERT INTO flights (id, trip_id, airline, flight_number, departure_airport, arrival_airport,
			                     departure_time, arrival_time, confirmation_code, cost, currency)
			SELECT @id, t.id, @airline, @flight_number, @departure_airport, @arrival_airport,
			       @departure_time, @arrival_time, @confirmation_code, @cost, @currency
			FROM trips t
			WHERE t.id = @trip_id AND t.user_id = @user_id
			ON CONFLICT (id) DO UPDATE
			SET airline           = EXCLUDED.airline,
			    flight_number     = EXCLUDED.flight_number,
			    departure_airport = EXCLUDED.departure_airport,
			    arrival_airport   = EXCLUDED.arrival_airport,
			    departure_time    = EXCLUDED.departure_time,
			    arrival_time      = EXCLUDED.arrival_time,
			    confirmation_code = EXCLUDED.confirmation_code,
			    cost              = EXCLUDED.cost,
			    currency          = EXCLUDED.currency,
			    updated_at        = now()
			WHERE flights.trip_id = EXCLUDED.trip_id
			RETURNING *
		)
		SELECT ` + flightColumns + ` FROM saved f`

	args := pgx.NamedArgs{
		"id":                f.ID,
		"trip_id":           f.TripID,
		"user_id":           userID,
		"airline":           f.Airline,
		"flight_number":     f.FlightNumber,
		"departure_airport": f.DepartureAirport,
		"arrival_airport":   f.ArrivalAirport,
		"departure_time":    f.DepartureTime,
		"arrival_time":      f.ArrivalTime,
		"confirmation_code": f.ConfirmationCode,
		"cost":              optionalNumericFrom(f.Cost),
		"currency":          f.Currency,
	}

	saved, err := scanFlight(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Flight{}, fmt.Errorf("repo.FlightRepo.Save: %w", err)
	}
	return saved, nil
}

func (r *pgFlightRepo) Delete(ctx context.Context, userID string, tripID, id uuid.UUID) error {
	const q = `
		DELETE FROM flights f
		USING trips t
		WHERE f.id = @id AND f.trip_id = @trip_id AND t.id = f.trip_id AND t.user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.FlightRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FlightRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanFlight(s scanner) (domain.Flight, error) {
	var (
		f        domain.Flight
		id, trip pgtype.UUID
		cost     pgtype.Numeric
	)
	err := s.Scan(&id, &trip, &f.Airline, &f.FlightNumber, &f.DepartureAirport, &f.ArrivalAirport,
		&f.DepartureTime, &f.ArrivalTime, &f.ConfirmationCode, &cost, &f.Currency, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Flight{}, domain.ErrNotFound
		}
		return domain.Flight{}, err
	}
	f.ID = uuid.UUID(id.Bytes)
	f.TripID = uuid.UUID(trip.Bytes)
	f.Cost = optionalDecimalFrom(cost)
	f.DepartureTime = f.DepartureTime.UTC()
	f.ArrivalTime = f.ArrivalTime.UTC()
	return f, nil
}
