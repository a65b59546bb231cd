package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/repo"
)

var airportPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// FlightService implements business logic for Flight operations.
type FlightService struct {
	trips   repo.TripRepo
	flights repo.FlightRepo
}

// NewFlightService constructs a FlightService backed by the provided repos.
func NewFlightService(trips repo.TripRepo, flights repo.FlightRepo) *FlightService {
	return &FlightService{trips: trips, flights: flights}
}

// Create validates the flight, verifies the parent trip, then persists.
func (s *FlightService) Create(ctx context.Context, userID string, f domain.Flight) (domain.Flight, error) {
	if _, err := s.trips.GetByID(ctx, userID, f.TripID); err != nil {
		return domain.Flight{}, fmt.Errorf("service.FlightService.Create: %w", err)
	}
	f = normalizeFlight(f)
	if err := validateFlight(f); err != nil {
		return domain.Flight{}, err
	}
	f.ID = uuid.New()
	created, err := s.flights.Save(ctx, userID, f)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("service.FlightService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single flight of the trip.
func (s *FlightService) GetByID(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Flight, error) {
	f, err := s.flights.GetByID(ctx, userID, tripID, id)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("service.FlightService.GetByID: %w", err)
	}
	return f, nil
}

// List returns the trip's flights ordered by departure.
func (s *FlightService) List(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.Flight, error) {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return nil, fmt.Errorf("service.FlightService.List: %w", err)
	}
	flights, err := s.flights.ListByTrip(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.FlightService.List: %w", err)
	}
	if flights == nil {
		return []domain.Flight{}, nil
	}
	return flights, nil
}

// Update validates and replaces an existing flight.
func (s *FlightService) Update(ctx context.Context, userID string, f domain.Flight) (domain.Flight, error) {
	f = normalizeFlight(f)
	if err := validateFlight(f); err != nil {
		return domain.Flight{}, err
	}
	if _, err := s.flights.GetByID(ctx, userID, f.TripID, f.ID); err != nil {
		return domain.Flight{}, fmt.Errorf("service.FlightService.Update: %w", err)
	}
	updated, err := s.flights.Save(ctx, userID, f)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("service.FlightService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a flight of the trip.
func (s *FlightService) Delete(ctx context.Context, userID string, tripID, id uuid.UUID) error {
	if err := s.flights.Delete(ctx, userID, tripID, id); err != nil {
		return fmt.Errorf("service.FlightService.Delete: %w", err)
	}
	return nil
}

func normalizeFlight(f domain.Flight) domain.Flight {
	f.Airline = strings.TrimSpace(f.Airline)
	f.FlightNumber = strings.ToUpper(strings.ReplaceAll(f.FlightNumber, " ", ""))
	f.DepartureAirport = strings.ToUpper(strings.TrimSpace(f.DepartureAirport))
	f.ArrivalAirport = strings.ToUpper(strings.TrimSpace(f.ArrivalAirport))
	f.ConfirmationCode = strings.TrimSpace(f.ConfirmationCode)
	f.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))
	f.DepartureTime = f.DepartureTime.UTC()
	f.ArrivalTime = f.ArrivalTime.UTC()
	if f.Cost != nil {
		c := f.Cost.Round(2)
		f.Cost = &c
	}
	return f
}

// validateFlight enforces business rules common to both Create and Update.
//   - Airline and flight number are required.
//   - Airports are three-letter IATA codes.
//   - Arrival may not precede departure.
//   - Cost and currency come together.
func validateFlight(f domain.Flight) error {
	if f.Airline == "" || f.FlightNumber == "" {
		return fmt.Errorf("%w: airline and flight_number are required", domain.ErrValidation)
	}
	if !airportPattern.MatchString(f.DepartureAirport) || !airportPattern.MatchString(f.ArrivalAirport) {
		return fmt.Errorf("%w: airports must be three-letter IATA codes", domain.ErrValidation)
	}
	if f.DepartureTime.IsZero() || f.ArrivalTime.IsZero() {
		return fmt.Errorf("%w: departure_time and arrival_time are required", domain.ErrValidation)
	}
	if f.ArrivalTime.Before(f.DepartureTime) {
		return fmt.Errorf("%w: arrival_time must not be before departure_time", domain.ErrValidation)
	}
	if (f.Cost == nil) != (f.Currency == "") {
		return fmt.Errorf("%w: cost and currency must be given together", domain.ErrValidation)
	}
	if f.Cost != nil && f.Cost.IsNegative() {
		return fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	if f.Currency != "" && !currencyPattern.MatchString(f.Currency) {
		return fmt.Errorf("%w: currency must be a three-letter ISO 4217 code", domain.ErrValidation)
	}
	return nil
}
