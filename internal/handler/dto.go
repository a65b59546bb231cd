package handler

import (
	"time"

	"github.com/shopspring/decimal"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/service"
	"github.com/DeborahScali/travelapp-sub000/internal/workspace"
)

// ---- Trips -----------------------------------------------------------------

type tripRequest struct {
	Name      string             `json:"name"`
	StartDate openapi_types.Date `json:"start_date"`
	EndDate   openapi_types.Date `json:"end_date"`
	Countries []string           `json:"countries,omitempty"`
	Notes     *string            `json:"notes,omitempty"`
}

type tripResponse struct {
	ID        openapi_types.UUID `json:"id"`
	Name      string             `json:"name"`
	StartDate openapi_types.Date `json:"start_date"`
	EndDate   openapi_types.Date `json:"end_date"`
	DayCount  int                `json:"day_count"`
	Countries []string           `json:"countries"`
	Notes     *string            `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type tripUpdateResponse struct {
	tripResponse
	// DroppedDays lists the days with content removed by a shortened range.
	DroppedDays []openapi_types.Date `json:"dropped_days"`
}

type setCurrentRequest struct {
	TripID openapi_types.UUID `json:"trip_id"`
}

func requestToTrip(body tripRequest) domain.Trip {
	t := domain.Trip{
		Name:      body.Name,
		StartDate: body.StartDate.Time,
		EndDate:   body.EndDate.Time,
		Countries: body.Countries,
	}
	if body.Notes != nil {
		t.Notes = *body.Notes
	}
	return t
}

func tripToResponse(t domain.Trip) tripResponse {
	resp := tripResponse{
		ID:        t.ID,
		Name:      t.Name,
		StartDate: openapi_types.Date{Time: t.StartDate},
		EndDate:   openapi_types.Date{Time: t.EndDate},
		DayCount:  t.DayCount(),
		Countries: t.Countries,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if resp.Countries == nil {
		resp.Countries = []string{}
	}
	if t.Notes != "" {
		resp.Notes = &t.Notes
	}
	return resp
}

// ---- Itinerary -------------------------------------------------------------

type coordinatesDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c *coordinatesDTO) toDomain() *domain.Coordinates {
	if c == nil {
		return nil
	}
	return &domain.Coordinates{Lat: c.Lat, Lng: c.Lng}
}

func coordinatesToDTO(c *domain.Coordinates) *coordinatesDTO {
	if c == nil {
		return nil
	}
	return &coordinatesDTO{Lat: c.Lat, Lng: c.Lng}
}

type placeResponse struct {
	ID              openapi_types.UUID `json:"id"`
	Name            string             `json:"name"`
	Address         string             `json:"address,omitempty"`
	Coordinates     *coordinatesDTO    `json:"coordinates,omitempty"`
	Category        string             `json:"category"`
	Mode            string             `json:"mode,omitempty"`
	DistanceKm      *float64           `json:"distance_km,omitempty"`
	DurationMin     *float64           `json:"duration_min,omitempty"`
	LegSource       string             `json:"leg_source,omitempty"`
	Cost            *decimal.Decimal   `json:"cost,omitempty"`
	Priority        int                `json:"priority"`
	Visited         bool               `json:"visited"`
	Notes           string             `json:"notes,omitempty"`
	ProviderPlaceID string             `json:"provider_place_id,omitempty"`
	PhotoRef        string             `json:"photo_ref,omitempty"`
}

type dayResponse struct {
	Position int                `json:"position"`
	Date     openapi_types.Date `json:"date"`
	Title    string             `json:"title"`
	City     string             `json:"city"`
	Country  string             `json:"country"`
	Places   []placeResponse    `json:"places"`
}

type noticeResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	PlaceID *openapi_types.UUID `json:"place_id,omitempty"`
}

// itineraryResponse is the open trip with all its days. Mutations that
// looked something up also carry notices about lookups that failed.
type itineraryResponse struct {
	Trip        tripResponse        `json:"trip"`
	SelectedDay *openapi_types.Date `json:"selected_day,omitempty"`
	Days        []dayResponse       `json:"days"`
	Notices     []noticeResponse    `json:"notices"`
}

type addPlaceResponse struct {
	PlaceID openapi_types.UUID `json:"place_id"`
	itineraryResponse
}

type selectDayRequest struct {
	Date openapi_types.Date `json:"date"`
}

type dayPatchRequest struct {
	Title   *string `json:"title,omitempty"`
	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
}

type placeRequest struct {
	Name            string           `json:"name"`
	Address         string           `json:"address,omitempty"`
	Coordinates     *coordinatesDTO  `json:"coordinates,omitempty"`
	Category        string           `json:"category,omitempty"`
	Cost            *decimal.Decimal `json:"cost,omitempty"`
	Priority        int              `json:"priority,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	ProviderPlaceID string           `json:"provider_place_id,omitempty"`
	PhotoRef        string           `json:"photo_ref,omitempty"`
}

type placePatchRequest struct {
	Name        *string          `json:"name,omitempty"`
	Address     *string          `json:"address,omitempty"`
	Coordinates *coordinatesDTO  `json:"coordinates,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	ClearCost   bool             `json:"clear_cost,omitempty"`
	Priority    *int             `json:"priority,omitempty"`
	Visited     *bool            `json:"visited,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
}

type reorderRequest struct {
	MovedID  openapi_types.UUID `json:"moved_id"`
	TargetID openapi_types.UUID `json:"target_id"`
}

type moveRequest struct {
	ToDate   openapi_types.Date  `json:"to_date"`
	BeforeID *openapi_types.UUID `json:"before_id,omitempty"`
}

type transportRequest struct {
	Mode string `json:"mode"`
}

type legRequest struct {
	DistanceKm  *float64 `json:"distance_km,omitempty"`
	DurationMin *float64 `json:"duration_min,omitempty"`
}

type candidateResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type placeDetailsResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Coordinates coordinatesDTO `json:"coordinates"`
	PhotoRef    string         `json:"photo_ref,omitempty"`
}

func (p placeRequest) toNewPlace() service.NewPlace {
	return service.NewPlace{
		Name:            p.Name,
		Address:         p.Address,
		Coordinates:     p.Coordinates.toDomain(),
		Category:        domain.PlaceCategory(p.Category),
		Cost:            p.Cost,
		Priority:        p.Priority,
		Notes:           p.Notes,
		ProviderPlaceID: p.ProviderPlaceID,
		PhotoRef:        p.PhotoRef,
	}
}

func (p placePatchRequest) toPatch() service.PlacePatch {
	patch := service.PlacePatch{
		Name:        p.Name,
		Address:     p.Address,
		Coordinates: p.Coordinates.toDomain(),
		Cost:        p.Cost,
		ClearCost:   p.ClearCost,
		Priority:    p.Priority,
		Visited:     p.Visited,
		Notes:       p.Notes,
	}
	if p.Category != nil {
		c := domain.PlaceCategory(*p.Category)
		patch.Category = &c
	}
	return patch
}

func placeToResponse(p domain.Place) placeResponse {
	return placeResponse{
		ID:              p.ID,
		Name:            p.Name,
		Address:         p.Address,
		Coordinates:     coordinatesToDTO(p.Coordinates),
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
}

func dayToResponse(d domain.DayPlan) dayResponse {
	places := make([]placeResponse, len(d.Places))
	for i, p := range d.Places {
		places[i] = placeToResponse(p)
	}
	return dayResponse{
		Position: d.Position,
		Date:     openapi_types.Date{Time: d.Date},
		Title:    d.Title,
		City:     d.City,
		Country:  d.Country,
		Places:   places,
	}
}

func stateToResponse(s workspace.State, notices []service.Notice) itineraryResponse {
	days := make([]dayResponse, len(s.Plans))
	for i, d := range s.Plans {
		days[i] = dayToResponse(d)
	}
	resp := itineraryResponse{
		Trip:    tripToResponse(s.Trip),
		Days:    days,
		Notices: make([]noticeResponse, 0, len(notices)),
	}
	if !s.SelectedDay.IsZero() {
		resp.SelectedDay = &openapi_types.Date{Time: s.SelectedDay}
	}
	for _, n := range notices {
		resp.Notices = append(resp.Notices, noticeResponse{Code: n.Code, Message: n.Message, PlaceID: n.PlaceID})
	}
	return resp
}

// ---- Expenses --------------------------------------------------------------

type expenseRequest struct {
	Description string             `json:"description"`
	Amount      decimal.Decimal    `json:"amount"`
	Currency    string             `json:"currency"`
	Category    string             `json:"category,omitempty"`
	Date        openapi_types.Date `json:"date"`
	City        string             `json:"city,omitempty"`
	Country     string             `json:"country,omitempty"`
}

type expenseResponse struct {
	ID          openapi_types.UUID `json:"id"`
	TripID      openapi_types.UUID `json:"trip_id"`
	Description string             `json:"description"`
	Amount      decimal.Decimal    `json:"amount"`
	Currency    string             `json:"currency"`
	Category    string             `json:"category"`
	Date        openapi_types.Date `json:"date"`
	City        string             `json:"city,omitempty"`
	Country     string             `json:"country,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// pagination mirrors domain.PaginationParams plus the total row count.
type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type expenseListResponse struct {
	Data       []expenseResponse `json:"data"`
	Pagination pagination        `json:"pagination"`
}

func (e expenseRequest) toDomain() domain.Expense {
	return domain.Expense{
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Category:    domain.ExpenseCategory(e.Category),
		Date:        e.Date.Time,
		City:        e.City,
		Country:     e.Country,
	}
}

func expenseToResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Category:    string(e.Category),
		Date:        openapi_types.Date{Time: e.Date},
		City:        e.City,
		Country:     e.Country,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ---- Flights ---------------------------------------------------------------

type flightRequest struct {
	Airline          string           `json:"airline"`
	FlightNumber     string           `json:"flight_number"`
	DepartureAirport string           `json:"departure_airport"`
	ArrivalAirport   string           `json:"arrival_airport"`
	DepartureTime    time.Time        `json:"departure_time"`
	ArrivalTime      time.Time        `json:"arrival_time"`
	ConfirmationCode string           `json:"confirmation_code,omitempty"`
	Cost             *decimal.Decimal `json:"cost,omitempty"`
	Currency         string           `json:"currency,omitempty"`
}

type flightResponse struct {
	ID               openapi_types.UUID `json:"id"`
	TripID           openapi_types.UUID `json:"trip_id"`
	Airline          string             `json:"airline"`
	FlightNumber     string             `json:"flight_number"`
	DepartureAirport string             `json:"departure_airport"`
	ArrivalAirport   string             `json:"arrival_airport"`
	DepartureTime    time.Time          `json:"departure_time"`
	ArrivalTime      time.Time          `json:"arrival_time"`
	ConfirmationCode string             `json:"confirmation_code,omitempty"`
	Cost             *decimal.Decimal   `json:"cost,omitempty"`
	Currency         string             `json:"currency,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func (f flightRequest) toDomain() domain.Flight {
	return domain.Flight{
		Airline:          f.Airline,
		FlightNumber:     f.FlightNumber,
		DepartureAirport: f.DepartureAirport,
		ArrivalAirport:   f.ArrivalAirport,
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		ConfirmationCode: f.ConfirmationCode,
		Cost:             f.Cost,
		Currency:         f.Currency,
	}
}

func flightToResponse(f domain.Flight) flightResponse {
	return flightResponse{
		ID:               f.ID,
		TripID:           f.TripID,
		Airline:          f.Airline,
		FlightNumber:     f.FlightNumber,
		DepartureAirport: f.DepartureAirport,
		ArrivalAirport:   f.ArrivalAirport,
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		ConfirmationCode: f.ConfirmationCode,
		Cost:             f.Cost,
		Currency:         f.Currency,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}
