package itinerary

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// maxConcurrentLegs bounds the fan-out of one recompute against the maps service.
const maxConcurrentLegs = 4

// LegFailure names a place whose leg could not be recomputed.
type LegFailure struct {
	PlaceID domain.PlaceID
	Err     error
}

// RecomputeTransportAfterReorder recomputes the leg of every place after the
// first whose predecessor and own coordinates are known, using each place's
// current mode (walking when unset; plane legs are skipped). Lookups run
// concurrently and are merged in one pass: a place either gets a complete
// new auto leg or keeps exactly what it had. The first place is never
// written.
func RecomputeTransportAfterReorder(ctx context.Context, places []domain.Place, calc DistanceCalculator) ([]domain.Place, []LegFailure) {
	idx := make([]int, 0, len(places))
	for i := 1; i < len(places); i++ {
		idx = append(idx, i)
	}
	return recompute(ctx, places, idx, calc, false)
}

// RefreshLegs recomputes only the listed places. Places whose mode is unset
// (they just gained a new predecessor) go through ResolveNewLeg so they get
// a default mode; the others keep their mode.
func RefreshLegs(ctx context.Context, places []domain.Place, ids []domain.PlaceID, calc DistanceCalculator) ([]domain.Place, []LegFailure) {
	idx := make([]int, 0, len(ids))
	for i := 1; i < len(places); i++ {
		if slices.Contains(ids, places[i].ID) {
			idx = append(idx, i)
		}
	}
	return recompute(ctx, places, idx, calc, true)
}

func recompute(ctx context.Context, places []domain.Place, idx []int, calc DistanceCalculator, resolveUnset bool) ([]domain.Place, []LegFailure) {
	out := domain.ClonePlaces(places)
	results := make([]*domain.Place, len(out))
	errs := make([]error, len(out))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLegs)
	for _, i := range idx {
		prev, cur := out[i-1], out[i]
		if prev.Coordinates == nil || cur.Coordinates == nil {
			continue
		}
		if cur.Mode != "" && !cur.Mode.Routable() {
			continue
		}
		g.Go(func() error {
			var (
				next domain.Place
				err  error
			)
			if resolveUnset && cur.Mode == "" {
				next, err = ResolveNewLeg(gctx, prev, cur, calc)
			} else {
				next, err = ComputeLeg(gctx, prev, cur, calc)
			}
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = &next
			return nil
		})
	}
	_ = g.Wait()

	var failed []LegFailure
	for i := range out {
		switch {
		case results[i] != nil:
			out[i] = *results[i]
		case errs[i] != nil:
			failed = append(failed, LegFailure{PlaceID: out[i].ID, Err: errs[i]})
		}
	}
	return out, failed
}

// MergeLegs folds legs computed from snapshot back into current, the state
// as it is now. A computed leg is applied only when the place still exists,
// still follows the same predecessor at the same coordinates, and its own
// transport fields and coordinates are unchanged since the snapshot.
// Anything else means the result is stale and is dropped.
func MergeLegs(current, snapshot, computed []domain.Place) []domain.Place {
	out := domain.ClonePlaces(current)
	for i, c := range computed {
		if i >= len(snapshot) || snapshot[i].ID != c.ID || sameTransport(c, snapshot[i]) {
			continue
		}
		j := indexOf(out, c.ID)
		if j < 0 || !sameTransport(out[j], snapshot[i]) || !sameCoords(out[j].Coordinates, snapshot[i].Coordinates) {
			continue
		}
		if i == 0 || j == 0 {
			continue
		}
		if out[j-1].ID != snapshot[i-1].ID || !sameCoords(out[j-1].Coordinates, snapshot[i-1].Coordinates) {
			continue
		}
		out[j].Mode = c.Mode
		out[j].DistanceKm = c.Clone().DistanceKm
		out[j].DurationMin = c.Clone().DurationMin
		out[j].LegSource = c.LegSource
	}
	return out
}

func sameTransport(a, b domain.Place) bool {
	return a.Mode == b.Mode && a.LegSource == b.LegSource &&
		sameFloat(a.DistanceKm, b.DistanceKm) && sameFloat(a.DurationMin, b.DurationMin)
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameCoords(a, b *domain.Coordinates) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
