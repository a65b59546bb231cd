package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/itinerary"
	"github.com/DeborahScali/travelapp-sub000/internal/maps"
	"github.com/DeborahScali/travelapp-sub000/internal/workspace"
)

// Maps is the part of the maps client the itinerary depends on.
// *maps.Client satisfies it.
type Maps interface {
	itinerary.DistanceCalculator
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
	Autocomplete(ctx context.Context, query string) ([]maps.Candidate, error)
	PlaceDetails(ctx context.Context, placeID string) (maps.PlaceDetails, error)
}

// ItineraryResult is the state after an itinerary mutation plus any notices
// about lookups that failed along the way.
type ItineraryResult struct {
	State   workspace.State
	Notices []Notice
}

// NewPlace is the input of AddPlace.
type NewPlace struct {
	Name            string
	Address         string
	Coordinates     *domain.Coordinates
	Category        domain.PlaceCategory
	Cost            *decimal.Decimal
	Priority        int
	Notes           string
	ProviderPlaceID string
	PhotoRef        string
}

// PlacePatch lists the fields UpdatePlace changes; nil fields are kept.
// ClearCost removes the cost.
type PlacePatch struct {
	Name        *string
	Address     *string
	Coordinates *domain.Coordinates
	Category    *domain.PlaceCategory
	Cost        *decimal.Decimal
	ClearCost   bool
	Priority    *int
	Visited     *bool
	Notes       *string
}

// DayPatch lists the day fields UpdateDay changes; nil fields are kept.
type DayPatch struct {
	Title   *string
	City    *string
	Country *string
}

// ItineraryService edits the day plans of the user's current trip. Edits go
// through the user's workspace; mapping lookups run after the edit is
// committed and their results are merged in with a second update.
type ItineraryService struct {
	spaces Workspaces
	maps   Maps
}

// NewItineraryService constructs an ItineraryService.
func NewItineraryService(spaces Workspaces, m Maps) *ItineraryService {
	return &ItineraryService{spaces: spaces, maps: m}
}

// Overview returns the open trip with all its days.
func (s *ItineraryService) Overview(ctx context.Context, userID string) (workspace.State, error) {
	state, err := loadedState(ctx, s.spaces, userID)
	if err != nil {
		return workspace.State{}, fmt.Errorf("service.ItineraryService.Overview: %w", err)
	}
	return state, nil
}

// Day returns the plan dated date.
func (s *ItineraryService) Day(ctx context.Context, userID string, date time.Time) (domain.DayPlan, error) {
	state, err := loadedState(ctx, s.spaces, userID)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("service.ItineraryService.Day: %w", err)
	}
	day, ok := state.Day(date)
	if !ok {
		return domain.DayPlan{}, fmt.Errorf("service.ItineraryService.Day: %s: %w", domain.DateKey(date), domain.ErrNotFound)
	}
	return day, nil
}

// SelectDay makes date the selected day.
func (s *ItineraryService) SelectDay(ctx context.Context, userID string, date time.Time) (workspace.State, error) {
	state, err := s.update(ctx, userID, func(st workspace.State) (workspace.State, error) {
		day, ok := st.Day(date)
		if !ok {
			return st, fmt.Errorf("day %s: %w", domain.DateKey(date), domain.ErrNotFound)
		}
		st.SelectedDay = day.Date
		return st, nil
	})
	if err != nil {
		return workspace.State{}, fmt.Errorf("service.ItineraryService.SelectDay: %w", err)
	}
	return state, nil
}

// UpdateDay changes a day's title, city or country.
func (s *ItineraryService) UpdateDay(ctx context.Context, userID string, date time.Time, patch DayPatch) (domain.DayPlan, error) {
	state, err := s.update(ctx, userID, func(st workspace.State) (workspace.State, error) {
		i := domain.FindDay(st.Plans, date)
		if i < 0 {
			return st, fmt.Errorf("day %s: %w", domain.DateKey(date), domain.ErrNotFound)
		}
		if patch.Title != nil {
			st.Plans[i].Title = strings.TrimSpace(*patch.Title)
		}
		if patch.City != nil {
			st.Plans[i].City = strings.TrimSpace(*patch.City)
		}
		if patch.Country != nil {
			st.Plans[i].Country = strings.TrimSpace(*patch.Country)
		}
		return st, nil
	})
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("service.ItineraryService.UpdateDay: %w", err)
	}
	day, _ := state.Day(date)
	return day, nil
}

// AddPlace appends a place to the day dated date. A place given only an
// address is geocoded first. When the place follows another one its mode is
// chosen from the walking distance and its leg computed. Lookup failures
// leave the fields unset and are reported as notices.
func (s *ItineraryService) AddPlace(ctx context.Context, userID string, date time.Time, in NewPlace) (ItineraryResult, domain.PlaceID, error) {
	p, err := newPlace(in)
	if err != nil {
		return ItineraryResult{}, domain.PlaceID{}, err
	}

	var notices []Notice
	if p.Coordinates == nil && p.Address != "" {
		c, err := s.maps.Geocode(ctx, p.Address)
		if err != nil {
			id := p.ID
			notices = append(notices, Notice{Code: NoticeGeocodeFailed, Message: "address could not be located: " + mapsReason(err), PlaceID: &id})
		} else {
			p.Coordinates = &c
		}
	}

	var follows bool
	state, err := s.update(ctx, userID, func(st workspace.State) (workspace.State, error) {
		i := domain.FindDay(st.Plans, date)
		if i < 0 {
			return st, fmt.Errorf("day %s: %w", domain.DateKey(date), domain.ErrNotFound)
		}
		follows = len(st.Plans[i].Places) > 0
		st.Plans[i].Places = append(st.Plans[i].Places, p)
		return st, nil
	})
	if err != nil {
		return ItineraryResult{}, domain.PlaceID{}, fmt.Errorf("service.ItineraryService.AddPlace: %w", err)
	}

	if follows {
		next, failures, err := s.refresh(ctx, userID, date, p.ID.String(), []domain.PlaceID{p.ID})
		if err != nil {
			return ItineraryResult{}, domain.PlaceID{}, fmt.Errorf("service.ItineraryService.AddPlace: %w", err)
		}
		state = next
		notices = append(notices, legNotices(failures)...)
	}
	return ItineraryResult{State: state, Notices: notices}, p.ID, nil
}

// UpdatePlace changes the plain fields of a place. Moving a place to new
// coordinates invalidates the legs into and out of it; those that were not
// typed in by the user are recomputed.
func (s *ItineraryService) UpdatePlace(ctx context.Context, userID string, id domain.PlaceID, patch PlacePatch) (ItineraryResult, error) {
	if err := validatePlacePatch(patch); err != nil {
		return ItineraryResult{}, err
	}

	var (
		date  time.Time
		stale []domain.PlaceID
	)
	state, err := s.update(ctx, userID, func(st workspace.State) (workspace.State, error) {
		d, j := findPlace(st.Plans, id)
		if d < 0 {
			return st, fmt.Errorf("place %s: %w", id, domain.ErrNotFound)
		}
		date = st.Plans[d].Date
		places := st.Plans[d].Places
		p := places[j]
		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Address != nil {
			p.Address = strings.TrimSpace(*patch.Address)
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.ClearCost {
			p.Cost = nil
		} else if patch.Cost != nil {
			c := *patch.Cost
			p.Cost = &c
		}
		if patch.Priority != nil {
			p.Priority = *patch.Priority
		}
		if patch.Visited != nil {
			p.Visited = *patch.Visited
		}
		if patch.Notes != nil {
			p.Notes = strings.TrimSpace(*patch.Notes)
		}
		if patch.Coordinates != nil && (p.Coordinates == nil || *p.Coordinates != *patch.Coordinates) {
			c := *patch.Coordinates
			p.Coordinates = &c
			if j > 0 && p.LegSource != domain.LegManual {
				stale = append(stale, p.ID)
			}
			if j+1 < len(places) && places[j+1].LegSource != domain.LegManual {
				stale = append(stale, places[j+1].ID)
			}
		}
		places[j] = p
		return st, nil
	})
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.UpdatePlace: %w", err)
	}
	if len(stale) == 0 {
		return ItineraryResult{State: state}, nil
	}

	next, failures, err := s.refresh(ctx, userID, date, id.String(), stale)
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.UpdatePlace: %w", err)
	}
	return ItineraryResult{State: next, Notices: legNotices(failures)}, nil
}

// DeletePlace removes a place. The place that followed it now travels from
// a different predecessor, so its leg is recomputed in its current mode.
func (s *ItineraryService) DeletePlace(ctx context.Context, userID string, id domain.PlaceID) (ItineraryResult, error) {
	var (
		date     time.Time
		follower domain.PlaceID
	)
	state, err := s.update(ctx, userID, func(st workspace.State) (workspace.State, error) {
		d, _ := findPlace(st.Plans, id)
		if d < 0 {
			return st, fmt.Errorf("place %s: %w", id, domain.ErrNotFound)
		}
		places, f, err := itinerary.RemovePlace(st.Plans[d].Places, id)
		if err != nil {
			return st, err
		}
		date = st.Plans[d].Date
		st.Plans[d].Places = places
		if f != (domain.PlaceID{}) && st.Plans[d].PlaceIndex(f) > 0 {
			follower = f
		}
		return st, nil
	})
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.DeletePlace: %w", err)
	}
	if follower == (domain.PlaceID{}) {
		return ItineraryResult{State: state}, nil
	}

	next, failures, err := s.refresh(ctx, userID, date, follower.String(), []domain.PlaceID{follower})
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.DeletePlace: %w", err)
	}
	return ItineraryResult{State: next, Notices: legNotices(failures)}, nil
}

// ReorderPlace moves movedID to the position of targetID within the day
// dated date and recomputes every leg of that day after the first.
// Unknown ids leave the day unchanged.
func (s *ItineraryService) ReorderPlace(ctx context.Context, userID string, date time.Time, movedID, targetID domain.PlaceID) (ItineraryResult, error) {
	var changed bool
	state, err := s.update(ctx, userID, func(st workspace.State) (workspace.State, error) {
		i := domain.FindDay(st.Plans, date)
		if i < 0 {
			return st, fmt.Errorf("day %s: %w", domain.DateKey(date), domain.ErrNotFound)
		}
		before := st.Plans[i].Places
		after := itinerary.ClearFirstLeg(itinerary.ReorderPlace(before, movedID, targetID))
		changed = !sameOrder(before, after)
		st.Plans[i].Places = after
		return st, nil
	})
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.ReorderPlace: %w", err)
	}
	if !changed {
		return ItineraryResult{State: state}, nil
	}

	ws, err := s.spaces.Get(ctx, userID)
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.ReorderPlace: %w", err)
	}
	next, failures, err := ws.Recalculate(ctx, dayKey(date), date, func(ctx context.Context, places []domain.Place) ([]domain.Place, []itinerary.LegFailure) {
		return itinerary.RecomputeTransportAfterReorder(ctx, places, s.maps)
	})
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.ReorderPlace: %w", err)
	}
	return ItineraryResult{State: next, Notices: legNotices(failures)}, nil
}

// MovePlace drags a place to the day dated toDate, before targetID when
// given. Legs whose predecessor changed are recomputed on both days.
func (s *ItineraryService) MovePlace(ctx context.Context, userID string, id domain.PlaceID, toDate time.Time, targetID *domain.PlaceID) (ItineraryResult, error) {
	var affected []domain.PlaceID
	state, err := s.update(ctx, userID, func(st workspace.State) (workspace.State, error) {
		plans, ids, err := itinerary.MovePlaceToDay(st.Plans, id, toDate, targetID)
		if err != nil {
			return st, err
		}
		affected = ids
		st.Plans = plans
		return st, nil
	})
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.MovePlace: %w", err)
	}

	// Group the affected places by the day that now holds them.
	byDay := map[string][]domain.PlaceID{}
	var days []time.Time
	for _, pid := range affected {
		d, _ := findPlace(state.Plans, pid)
		if d < 0 {
			continue
		}
		key := domain.DateKey(state.Plans[d].Date)
		if _, ok := byDay[key]; !ok {
			days = append(days, state.Plans[d].Date)
		}
		byDay[key] = append(byDay[key], pid)
	}

	result := ItineraryResult{State: state}
	for _, date := range days {
		next, failures, err := s.refresh(ctx, userID, date, dayKey(date), byDay[domain.DateKey(date)])
		if err != nil {
			return ItineraryResult{}, fmt.Errorf("service.ItineraryService.MovePlace: %w", err)
		}
		result.State = next
		result.Notices = append(result.Notices, legNotices(failures)...)
	}
	return result, nil
}

// ChangeTransportMode is the user picking a new mode for the leg into a
// place. The old numbers are discarded and recomputed for the new mode;
// plane legs are never routed.
func (s *ItineraryService) ChangeTransportMode(ctx context.Context, userID string, id domain.PlaceID, mode domain.TransportMode) (ItineraryResult, error) {
	var date time.Time
	state, err := s.update(ctx, userID, func(st workspace.State) (workspace.State, error) {
		d, j, err := legOwner(st.Plans, id)
		if err != nil {
			return st, err
		}
		p, err := itinerary.SetMode(st.Plans[d].Places[j], mode)
		if err != nil {
			return st, err
		}
		date = st.Plans[d].Date
		st.Plans[d].Places[j] = p
		return st, nil
	})
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.ChangeTransportMode: %w", err)
	}
	if !mode.Routable() {
		return ItineraryResult{State: state}, nil
	}

	next, failures, err := s.refresh(ctx, userID, date, id.String(), []domain.PlaceID{id})
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.ChangeTransportMode: %w", err)
	}
	return ItineraryResult{State: next, Notices: legNotices(failures)}, nil
}

// OverrideLeg stores distance and/or duration typed in by the user. The
// values are kept until the user changes the mode or the place is dragged.
func (s *ItineraryService) OverrideLeg(ctx context.Context, userID string, id domain.PlaceID, distanceKm, durationMin *float64) (workspace.State, error) {
	state, err := s.update(ctx, userID, func(st workspace.State) (workspace.State, error) {
		d, j, err := legOwner(st.Plans, id)
		if err != nil {
			return st, err
		}
		p, err := itinerary.OverrideLeg(st.Plans[d].Places[j], distanceKm, durationMin)
		if err != nil {
			return st, err
		}
		st.Plans[d].Places[j] = p
		return st, nil
	})
	if err != nil {
		return workspace.State{}, fmt.Errorf("service.ItineraryService.OverrideLeg: %w", err)
	}
	return state, nil
}

// SearchPlaces returns autocomplete candidates for query.
func (s *ItineraryService) SearchPlaces(ctx context.Context, query string) ([]maps.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []maps.Candidate{}, nil
	}
	out, err := s.maps.Autocomplete(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.SearchPlaces: %w", err)
	}
	return out, nil
}

// PlaceDetails resolves an autocomplete candidate.
func (s *ItineraryService) PlaceDetails(ctx context.Context, providerPlaceID string) (maps.PlaceDetails, error) {
	if strings.TrimSpace(providerPlaceID) == "" {
		return maps.PlaceDetails{}, fmt.Errorf("%w: place id is required", domain.ErrValidation)
	}
	d, err := s.maps.PlaceDetails(ctx, providerPlaceID)
	if err != nil {
		return maps.PlaceDetails{}, fmt.Errorf("service.ItineraryService.PlaceDetails: %w", err)
	}
	return d, nil
}

// update runs fn on the user's workspace, failing with
// domain.ErrNoCurrentTrip when no trip is open.
func (s *ItineraryService) update(ctx context.Context, userID string, fn func(workspace.State) (workspace.State, error)) (workspace.State, error) {
	ws, err := s.spaces.Get(ctx, userID)
	if err != nil {
		return workspace.State{}, err
	}
	return ws.Update(ctx, func(st workspace.State) (workspace.State, error) {
		if !st.Loaded {
			return st, domain.ErrNoCurrentTrip
		}
		return fn(st)
	})
}

// refresh recomputes the legs of ids on the day dated date.
func (s *ItineraryService) refresh(ctx context.Context, userID string, date time.Time, key string, ids []domain.PlaceID) (workspace.State, []itinerary.LegFailure, error) {
	ws, err := s.spaces.Get(ctx, userID)
	if err != nil {
		return workspace.State{}, nil, err
	}
	return ws.Recalculate(ctx, key, date, func(ctx context.Context, places []domain.Place) ([]domain.Place, []itinerary.LegFailure) {
		return itinerary.RefreshLegs(ctx, places, ids, s.maps)
	})
}

func newPlace(in NewPlace) (domain.Place, error) {
	p := domain.Place{
		ID:              domain.NewPlaceID(),
		Name:            strings.TrimSpace(in.Name),
		Address:         strings.TrimSpace(in.Address),
		Category:        in.Category,
		Priority:        in.Priority,
		Notes:           strings.TrimSpace(in.Notes),
		ProviderPlaceID: in.ProviderPlaceID,
		PhotoRef:        in.PhotoRef,
	}
	if p.Category == "" {
		p.Category = domain.CategoryPlace
	}
	if in.Coordinates != nil {
		c := *in.Coordinates
		p.Coordinates = &c
	}
	if in.Cost != nil {
		c := *in.Cost
		p.Cost = &c
	}
	if p.Name == "" {
		return domain.Place{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if err := validatePlaceFields(p.Category, p.Priority, p.Cost, p.Coordinates); err != nil {
		return domain.Place{}, err
	}
	return p, nil
}

func validatePlacePatch(p PlacePatch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	category := domain.CategoryPlace
	if p.Category != nil {
		category = *p.Category
	}
	priority := 0
	if p.Priority != nil {
		priority = *p.Priority
	}
	return validatePlaceFields(category, priority, p.Cost, p.Coordinates)
}

// validatePlaceFields checks the ranges shared by new places and patches.
func validatePlaceFields(category domain.PlaceCategory, priority int, cost *decimal.Decimal, c *domain.Coordinates) error {
	if !category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, category)
	}
	if priority < 0 || priority > 5 {
		return fmt.Errorf("%w: priority must be between 0 and 5", domain.ErrValidation)
	}
	if cost != nil && cost.IsNegative() {
		return fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	if c != nil && !c.Valid() {
		return fmt.Errorf("%w: coordinates out of range", domain.ErrValidation)
	}
	return nil
}

// findPlace returns the day and place index of id, or -1, -1.
func findPlace(plans []domain.DayPlan, id domain.PlaceID) (int, int) {
	for d, p := range plans {
		if j := p.PlaceIndex(id); j >= 0 {
			return d, j
		}
	}
	return -1, -1
}

// legOwner locates a place that has an incoming leg, i.e. is not first.
func legOwner(plans []domain.DayPlan, id domain.PlaceID) (int, int, error) {
	d, j := findPlace(plans, id)
	if d < 0 {
		return -1, -1, fmt.Errorf("place %s: %w", id, domain.ErrNotFound)
	}
	if j == 0 {
		return -1, -1, fmt.Errorf("%w: the first place of a day has no incoming leg", domain.ErrValidation)
	}
	return d, j, nil
}

func sameOrder(a, b []domain.Place) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func dayKey(date time.Time) string {
	return "day:" + domain.DateKey(date)
}
