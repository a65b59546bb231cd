package itinerary

import (
	"fmt"
	"slices"
	"time"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// ReorderPlace moves the place movedID to the index targetID occupied before
// the move. The result is a permutation of places. Unknown ids, or
// movedID == targetID, return an unchanged copy.
func ReorderPlace(places []domain.Place, movedID, targetID domain.PlaceID) []domain.Place {
	out := domain.ClonePlaces(places)
	from, to := indexOf(out, movedID), indexOf(out, targetID)
	if from < 0 || to < 0 || from == to {
		return out
	}
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, moved)
}

// ClearFirstLeg strips incoming-transport data from the first place, which
// has no predecessor to travel from.
func ClearFirstLeg(places []domain.Place) []domain.Place {
	out := domain.ClonePlaces(places)
	if len(out) > 0 {
		out[0] = clearTransport(out[0])
	}
	return out
}

// RemovePlace deletes the place with the given id. It reports the id of the
// place that now follows the removed one, whose leg is no longer valid, or
// uuid.Nil when there is none.
func RemovePlace(places []domain.Place, id domain.PlaceID) ([]domain.Place, domain.PlaceID, error) {
	i := indexOf(places, id)
	if i < 0 {
		return nil, domain.PlaceID{}, fmt.Errorf("itinerary.RemovePlace: place %s: %w", id, domain.ErrNotFound)
	}
	out := domain.ClonePlaces(places)
	out = slices.Delete(out, i, i+1)
	var follower domain.PlaceID
	if i < len(out) {
		follower = out[i].ID
		out[i] = clearLeg(out[i])
	}
	return ClearFirstLeg(out), follower, nil
}

// MovePlaceToDay transfers placeID from whichever day holds it to the plan
// dated toDate, inserting it before targetID when that is a place of the
// destination day and appending otherwise. The moved place loses its leg,
// the source day's new first place is normalised, and the returned ids name
// the places whose legs must be recomputed.
func MovePlaceToDay(plans []domain.DayPlan, placeID domain.PlaceID, toDate time.Time, targetID *domain.PlaceID) ([]domain.DayPlan, []domain.PlaceID, error) {
	out := domain.ClonePlans(plans)

	src, idx := -1, -1
	for i, p := range out {
		if j := p.PlaceIndex(placeID); j >= 0 {
			src, idx = i, j
			break
		}
	}
	if src < 0 {
		return nil, nil, fmt.Errorf("itinerary.MovePlaceToDay: place %s: %w", placeID, domain.ErrNotFound)
	}
	dst := domain.FindDay(out, toDate)
	if dst < 0 {
		return nil, nil, fmt.Errorf("itinerary.MovePlaceToDay: day %s: %w", domain.DateKey(toDate), domain.ErrNotFound)
	}

	if src == dst {
		if targetID == nil {
			last := out[dst].Places[len(out[dst].Places)-1].ID
			if last == placeID {
				return out, nil, nil
			}
			targetID = &last
		}
		before := out[dst].Places
		out[dst].Places = ClearFirstLeg(ReorderPlace(before, placeID, *targetID))
		return out, changedPredecessors(before, out[dst].Places), nil
	}

	moved := clearTransport(out[src].Places[idx])
	remaining, follower, err := RemovePlace(out[src].Places, placeID)
	if err != nil {
		return nil, nil, fmt.Errorf("itinerary.MovePlaceToDay: %w", err)
	}
	out[src].Places = remaining

	dest := out[dst].Places
	at := len(dest)
	if targetID != nil {
		if t := indexOf(dest, *targetID); t >= 0 {
			at = t
		}
	}
	dest = slices.Insert(dest, at, moved)
	var affected []domain.PlaceID
	if at < len(dest)-1 {
		// The place now after the moved one has a new predecessor.
		dest[at+1] = clearLeg(dest[at+1])
		affected = append(affected, dest[at+1].ID)
	}
	out[dst].Places = ClearFirstLeg(dest)
	if at > 0 {
		affected = append(affected, placeID)
	}
	if follower != (domain.PlaceID{}) && indexOf(out[src].Places, follower) > 0 {
		affected = append(affected, follower)
	}
	return out, affected, nil
}

// changedPredecessors lists the places of after (excluding the first) whose
// predecessor differs from the one they had in before.
func changedPredecessors(before, after []domain.Place) []domain.PlaceID {
	prevOf := make(map[domain.PlaceID]domain.PlaceID, len(before))
	for i := 1; i < len(before); i++ {
		prevOf[before[i].ID] = before[i-1].ID
	}
	var ids []domain.PlaceID
	for i := 1; i < len(after); i++ {
		if prev, ok := prevOf[after[i].ID]; !ok || prev != after[i-1].ID {
			ids = append(ids, after[i].ID)
		}
	}
	return ids
}

func indexOf(places []domain.Place, id domain.PlaceID) int {
	return slices.IndexFunc(places, func(p domain.Place) bool { return p.ID == id })
}
