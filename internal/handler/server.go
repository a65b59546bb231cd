// Package handler implements the HTTP handlers for the travel planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, itinerary.go, etc.) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/maps"
	"github.com/DeborahScali/travelapp-sub000/internal/service"
	"github.com/DeborahScali/travelapp-sub000/internal/workspace"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interfaces here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, userID string, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, userID string) ([]domain.Trip, error)
	Update(ctx context.Context, userID string, trip domain.Trip) (service.TripUpdate, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	SetCurrent(ctx context.Context, userID string, id uuid.UUID) (workspace.State, error)
	GetCurrent(ctx context.Context, userID string) (domain.Trip, error)
}

// ItineraryServicer defines the operations on the current trip's day plans.
type ItineraryServicer interface {
	Overview(ctx context.Context, userID string) (workspace.State, error)
	Day(ctx context.Context, userID string, date time.Time) (domain.DayPlan, error)
	SelectDay(ctx context.Context, userID string, date time.Time) (workspace.State, error)
	UpdateDay(ctx context.Context, userID string, date time.Time, patch service.DayPatch) (domain.DayPlan, error)
	AddPlace(ctx context.Context, userID string, date time.Time, in service.NewPlace) (service.ItineraryResult, domain.PlaceID, error)
	UpdatePlace(ctx context.Context, userID string, id domain.PlaceID, patch service.PlacePatch) (service.ItineraryResult, error)
	DeletePlace(ctx context.Context, userID string, id domain.PlaceID) (service.ItineraryResult, error)
	ReorderPlace(ctx context.Context, userID string, date time.Time, movedID, targetID domain.PlaceID) (service.ItineraryResult, error)
	MovePlace(ctx context.Context, userID string, id domain.PlaceID, toDate time.Time, targetID *domain.PlaceID) (service.ItineraryResult, error)
	ChangeTransportMode(ctx context.Context, userID string, id domain.PlaceID, mode domain.TransportMode) (service.ItineraryResult, error)
	OverrideLeg(ctx context.Context, userID string, id domain.PlaceID, distanceKm, durationMin *float64) (workspace.State, error)
	SearchPlaces(ctx context.Context, query string) ([]maps.Candidate, error)
	PlaceDetails(ctx context.Context, providerPlaceID string) (maps.PlaceDetails, error)
}

// ExpenseServicer defines the expense operations.
type ExpenseServicer interface {
	Create(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error)
	GetByID(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Expense, error)
	List(ctx context.Context, userID string, tripID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Expense], error)
	Update(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error)
	Delete(ctx context.Context, userID string, tripID, id uuid.UUID) error
}

// FlightServicer defines the flight operations.
type FlightServicer interface {
	Create(ctx context.Context, userID string, f domain.Flight) (domain.Flight, error)
	GetByID(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Flight, error)
	List(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.Flight, error)
	Update(ctx context.Context, userID string, f domain.Flight) (domain.Flight, error)
	Delete(ctx context.Context, userID string, tripID, id uuid.UUID) error
}

// AnalyticsServicer summarises a trip.
type AnalyticsServicer interface {
	Trip(ctx context.Context, userID string, tripID uuid.UUID) (domain.TripAnalytics, error)
}

// ExportServicer is the interface the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.ExportRow, error)
}

// Services bundles the dependencies of Server. A nil field leaves its
// routes unusable, which handler tests rely on to wire only what they need.
type Services struct {
	Trips     TripServicer
	Itinerary ItineraryServicer
	Expenses  ExpenseServicer
	Flights   FlightServicer
	Analytics AnalyticsServicer
	Export    ExportServicer
}

// Server implements every API endpoint.
// Wire it in main.go via Server.Routes.
type Server struct {
	trips     TripServicer
	itinerary ItineraryServicer
	expenses  ExpenseServicer
	flights   FlightServicer
	analytics AnalyticsServicer
	export    ExportServicer
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:     svc.Trips,
		itinerary: svc.Itinerary,
		expenses:  svc.Expenses,
		flights:   svc.Flights,
		analytics: svc.Analytics,
		export:    svc.Export,
		log:       log,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Services{}, nil)
}
