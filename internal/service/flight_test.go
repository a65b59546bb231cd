package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/service"
)

func validFlight(tripID uuid.UUID) domain.Flight {
	lisbon := time.FixedZone("WEST", 3600)
	return domain.Flight{
		TripID:           tripID,
		Airline:          "TAP",
		FlightNumber:     "tp 1234",
		DepartureAirport: "lis",
		ArrivalAirport:   "OPO",
		DepartureTime:    time.Date(2025, 6, 3, 9, 0, 0, 0, lisbon),
		ArrivalTime:      time.Date(2025, 6, 3, 9, 55, 0, 0, lisbon),
	}
}

func echoFlights() *mockFlightRepo {
	return &mockFlightRepo{
		save: func(_ context.Context, _ string, f domain.Flight) (domain.Flight, error) { return f, nil },
		getByID: func(_ context.Context, _ string, tripID, id uuid.UUID) (domain.Flight, error) {
			return domain.Flight{ID: id, TripID: tripID}, nil
		},
	}
}

func TestFlightService_Create_Normalizes(t *testing.T) {
	svc := service.NewFlightService(tripFound(), echoFlights())
	f := validFlight(uuid.New())
	f.Cost = ptr(decimal.RequireFromString("129.999"))
	f.Currency = "eur"

	got, err := svc.Create(context.Background(), alice, f)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "TP1234", got.FlightNumber)
	assert.Equal(t, "LIS", got.DepartureAirport)
	assert.Equal(t, time.UTC, got.DepartureTime.Location())
	assert.Equal(t, 8, got.DepartureTime.Hour())
	assert.Equal(t, "130.00", got.Cost.StringFixed(2))
	assert.Equal(t, "EUR", got.Currency)
}

func TestFlightService_Create_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Flight)
	}{
		{"missing airline", func(f *domain.Flight) { f.Airline = "" }},
		{"missing number", func(f *domain.Flight) { f.FlightNumber = " " }},
		{"bad airport", func(f *domain.Flight) { f.ArrivalAirport = "Porto" }},
		{"missing departure", func(f *domain.Flight) { f.DepartureTime = time.Time{} }},
		{"arrival before departure", func(f *domain.Flight) { f.ArrivalTime = f.DepartureTime.Add(-time.Minute) }},
		{"cost without currency", func(f *domain.Flight) { f.Cost = ptr(decimal.NewFromInt(50)) }},
		{"currency without cost", func(f *domain.Flight) { f.Currency = "EUR" }},
		{"negative cost", func(f *domain.Flight) { f.Cost, f.Currency = ptr(decimal.NewFromInt(-1)), "EUR" }},
		{"bad currency", func(f *domain.Flight) { f.Cost, f.Currency = ptr(decimal.NewFromInt(1)), "EU" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := service.NewFlightService(tripFound(), &mockFlightRepo{})
			f := validFlight(uuid.New())
			tc.mutate(&f)

			_, err := svc.Create(context.Background(), alice, f)

			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestFlightService_Create_TripNotFound(t *testing.T) {
	svc := service.NewFlightService(tripMissing(), &mockFlightRepo{})

	_, err := svc.Create(context.Background(), alice, validFlight(uuid.New()))

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlightService_List_NilBecomesEmpty(t *testing.T) {
	svc := service.NewFlightService(tripFound(), &mockFlightRepo{
		listByTrip: func(context.Context, string, uuid.UUID) ([]domain.Flight, error) { return nil, nil },
	})

	got, err := svc.List(context.Background(), alice, uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFlightService_Update(t *testing.T) {
	svc := service.NewFlightService(tripFound(), echoFlights())
	f := validFlight(uuid.New())
	f.ID = uuid.New()
	f.ConfirmationCode = " ABC123 "

	got, err := svc.Update(context.Background(), alice, f)

	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)
	assert.Equal(t, "ABC123", got.ConfirmationCode)
}

func TestFlightService_Update_NotFound(t *testing.T) {
	svc := service.NewFlightService(tripFound(), &mockFlightRepo{
		getByID: func(context.Context, string, uuid.UUID, uuid.UUID) (domain.Flight, error) {
			return domain.Flight{}, domain.ErrNotFound
		},
	})
	f := validFlight(uuid.New())
	f.ID = uuid.New()

	_, err := svc.Update(context.Background(), alice, f)

	require.ErrorIs(t, err, domain.ErrNotFound)
}
