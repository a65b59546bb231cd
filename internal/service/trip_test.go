package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/service"
)

// ---- Create ----------------------------------------------------------------

func TestTripService_Create_Validation(t *testing.T) {
	cases := []struct {
		name string
		trip domain.Trip
	}{
		{"missing name", domain.Trip{Name: "  ", StartDate: day(1), EndDate: day(3)}},
		{"missing start", domain.Trip{Name: "Portugal", EndDate: day(3)}},
		{"missing end", domain.Trip{Name: "Portugal", StartDate: day(1)}},
		{"end before start", domain.Trip{Name: "Portugal", StartDate: day(3), EndDate: day(1)}},
		{"too long", domain.Trip{Name: "Portugal", StartDate: day(1), EndDate: day(1).AddDate(1, 1, 0)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Validation runs before the repo or the workspace are touched.
			svc := service.NewTripService(&mockTripRepo{}, nil, nil)

			_, err := svc.Create(context.Background(), alice, tc.trip)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestTripService_Create_OpensTripWithOneDayPerDate(t *testing.T) {
	e := newEnv(t)

	trip := e.createTrip(t, 1, 5)

	assert.NotEqual(t, uuid.Nil, trip.ID)
	state, err := e.itinerary.Overview(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, state.Trip.ID)
	require.Len(t, state.Plans, 5)
	for i, plan := range state.Plans {
		assert.Equal(t, i+1, plan.Position)
		assert.True(t, plan.Date.Equal(day(i+1)))
		assert.Empty(t, plan.Places)
	}
	assert.True(t, state.SelectedDay.Equal(day(1)))

	// The generated days are written straight away.
	stored, err := e.repos.DayPlans.ListByTrip(context.Background(), alice, trip.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 5)
}

func TestTripService_Create_NormalizesCountries(t *testing.T) {
	e := newEnv(t)

	trip, err := e.trips.Create(context.Background(), alice, domain.Trip{
		Name:      "  Iberia ",
		StartDate: day(1),
		EndDate:   day(2),
		Countries: []string{" Portugal", "portugal", "", "Spain"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Iberia", trip.Name)
	assert.Equal(t, []string{"Portugal", "Spain"}, trip.Countries)
}

func TestTripService_Create_RepoError(t *testing.T) {
	e := newEnv(t)
	svc := service.NewTripService(&mockTripRepo{
		save: func(context.Context, domain.Trip) (domain.Trip, error) { return domain.Trip{}, errBoom },
	}, e.repos.DayPlans, e.manager)

	_, err := svc.Create(context.Background(), alice, domain.Trip{Name: "Portugal", StartDate: day(1), EndDate: day(2)})

	require.ErrorIs(t, err, errBoom)
}

// ---- Read ------------------------------------------------------------------

func TestTripService_List_NilBecomesEmpty(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		list: func(context.Context, string) ([]domain.Trip, error) { return nil, nil },
	}, nil, nil)

	trips, err := svc.List(context.Background(), alice)

	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
}

func TestTripService_GetByID_OtherUserIsNotFound(t *testing.T) {
	e := newEnv(t)
	trip := e.createTrip(t, 1, 2)

	_, err := e.trips.GetByID(context.Background(), bob, trip.ID)

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_GetCurrent_NoTrip(t *testing.T) {
	e := newEnv(t)

	_, err := e.trips.GetCurrent(context.Background(), alice)

	require.ErrorIs(t, err, domain.ErrNoCurrentTrip)
}

// ---- Update ----------------------------------------------------------------

func TestTripService_Update_ShrinkReportsDroppedDays(t *testing.T) {
	e := newEnv(t)
	trip := e.createTrip(t, 1, 5)
	e.addPlace(t, 5, "Torre de Belém", coords(38.6916, -9.2160))

	trip.EndDate = day(3)
	got, err := e.trips.Update(context.Background(), alice, trip)

	require.NoError(t, err)
	assert.True(t, got.Trip.EndDate.Equal(day(3)))
	require.Len(t, got.DroppedDays, 1)
	assert.True(t, got.DroppedDays[0].Date.Equal(day(5)))

	state, err := e.itinerary.Overview(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, state.Plans, 3)
}

func TestTripService_Update_ShiftKeepsContentByDate(t *testing.T) {
	e := newEnv(t)
	trip := e.createTrip(t, 1, 3)
	id := e.addPlace(t, 2, "Alfama", coords(38.7118, -9.1300))

	trip.StartDate, trip.EndDate = day(2), day(4)
	got, err := e.trips.Update(context.Background(), alice, trip)

	require.NoError(t, err)
	assert.Empty(t, got.DroppedDays)
	places := e.places(t, 2)
	require.Len(t, places, 1)
	assert.Equal(t, id, places[0].ID)

	state, err := e.itinerary.Overview(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Plans[0].Position)
	assert.True(t, state.Plans[0].Date.Equal(day(2)))
}

func TestTripService_Update_ShrinkOfTripThatIsNotOpen(t *testing.T) {
	e := newEnv(t)
	first := e.createTrip(t, 1, 5)
	e.addPlace(t, 5, "Torre de Belém", coords(38.6916, -9.2160))
	e.createTrip(t, 10, 12)

	first.EndDate = day(3)
	got, err := e.trips.Update(context.Background(), alice, first)

	require.NoError(t, err)
	require.Len(t, got.DroppedDays, 1)
	assert.True(t, got.DroppedDays[0].Date.Equal(day(5)))

	stored, err := e.repos.DayPlans.ListByTrip(context.Background(), alice, first.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.True(t, stored[2].Date.Equal(day(3)))

	// The open trip is left alone.
	state, err := e.itinerary.Overview(context.Background(), alice)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, state.Trip.ID)
	assert.Len(t, state.Plans, 3)
	assert.True(t, state.Plans[0].Date.Equal(day(10)))
}

func TestTripService_Update_NotFound(t *testing.T) {
	e := newEnv(t)

	_, err := e.trips.Update(context.Background(), alice, domain.Trip{ID: uuid.New(), Name: "Ghost", StartDate: day(1), EndDate: day(2)})

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_Update_Validation(t *testing.T) {
	svc := service.NewTripService(tripFound(), nil, nil)

	_, err := svc.Update(context.Background(), alice, domain.Trip{ID: uuid.New(), StartDate: day(1), EndDate: day(2)})

	require.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Delete / SetCurrent ---------------------------------------------------

func TestTripService_Delete_ClosesOpenTrip(t *testing.T) {
	e := newEnv(t)
	trip := e.createTrip(t, 1, 2)

	require.NoError(t, e.trips.Delete(context.Background(), alice, trip.ID))

	_, err := e.trips.GetCurrent(context.Background(), alice)
	require.ErrorIs(t, err, domain.ErrNoCurrentTrip)
	_, err = e.trips.GetByID(context.Background(), alice, trip.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_Delete_NotFound(t *testing.T) {
	e := newEnv(t)

	err := e.trips.Delete(context.Background(), alice, uuid.New())

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_SetCurrent_SavesPreviousTrip(t *testing.T) {
	e := newEnv(t)
	first := e.createTrip(t, 1, 2)
	second := e.createTrip(t, 10, 12)
	e.addPlace(t, 10, "Ribeira", coords(41.1406, -8.6110))

	state, err := e.trips.SetCurrent(context.Background(), alice, first.ID)

	require.NoError(t, err)
	assert.Equal(t, first.ID, state.Trip.ID)
	assert.Len(t, state.Plans, 2)

	stored, err := e.repos.DayPlans.ListByTrip(context.Background(), alice, second.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	require.Len(t, stored[0].Places, 1)
	assert.Equal(t, "Ribeira", stored[0].Places[0].Name)
}

func TestTripService_SetCurrent_OtherUsersTrip(t *testing.T) {
	e := newEnv(t)
	trip := e.createTrip(t, 1, 2)

	_, err := e.trips.SetCurrent(context.Background(), bob, trip.ID)

	require.ErrorIs(t, err, domain.ErrNotFound)
}
