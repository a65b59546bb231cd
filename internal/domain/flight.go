package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Flight is a booked flight attached to a trip. Airports are IATA codes.
// Cost and Currency are either both set or both empty.
type Flight struct {
	ID               uuid.UUID
	TripID           uuid.UUID
	Airline          string
	FlightNumber     string
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	ConfirmationCode string
	Cost             *decimal.Decimal
	Currency         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
