package itinerary

import (
	"context"
	"fmt"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// TransitThresholdKm is the walking distance from which a new leg defaults
// to public transit instead of walking.
const TransitThresholdKm = 1.0

// DistanceCalculator computes the leg between two coordinates for a mode.
// *maps.Client satisfies it.
type DistanceCalculator interface {
	DistanceAndDuration(ctx context.Context, origin, destination domain.Coordinates, mode domain.TransportMode) (domain.Leg, error)
}

// ChooseDefaultTransportMode picks the mode for a freshly appended place from
// the walking distance to its predecessor.
func ChooseDefaultTransportMode(walkingDistanceKm float64) domain.TransportMode {
	if walkingDistanceKm >= TransitThresholdKm {
		return domain.ModeTransit
	}
	return domain.ModeWalking
}

// ApplyAutoLeg stores a computed leg on p and marks it auto. A mode left
// unset becomes walking, the mode the leg was computed with.
func ApplyAutoLeg(p domain.Place, leg domain.Leg) domain.Place {
	p = p.Clone()
	if p.Mode == "" {
		p.Mode = domain.ModeWalking
	}
	d, m := leg.DistanceKm, leg.DurationMin
	p.DistanceKm = &d
	p.DurationMin = &m
	p.LegSource = domain.LegAuto
	return p
}

// OverrideLeg records user-typed numbers and marks the leg manual. A nil
// argument leaves that field as it was.
func OverrideLeg(p domain.Place, distanceKm, durationMin *float64) (domain.Place, error) {
	if distanceKm == nil && durationMin == nil {
		return p, fmt.Errorf("%w: distance or duration is required", domain.ErrValidation)
	}
	if (distanceKm != nil && *distanceKm < 0) || (durationMin != nil && *durationMin < 0) {
		return p, fmt.Errorf("%w: distance and duration must not be negative", domain.ErrValidation)
	}
	p = p.Clone()
	if distanceKm != nil {
		v := *distanceKm
		p.DistanceKm = &v
	}
	if durationMin != nil {
		v := *durationMin
		p.DurationMin = &v
	}
	if p.Mode == "" {
		p.Mode = domain.ModeWalking
	}
	p.LegSource = domain.LegManual
	return p, nil
}

// SetMode switches p to mode and clears its numbers; the leg is unset until
// ComputeLeg succeeds or the user types values in.
func SetMode(p domain.Place, mode domain.TransportMode) (domain.Place, error) {
	if !mode.Valid() {
		return p, fmt.Errorf("%w: unknown transport mode %q", domain.ErrValidation, mode)
	}
	p = clearLeg(p)
	p.Mode = mode
	return p, nil
}

// ComputeLeg asks calc for the leg from prev to p using p's mode (walking
// when unset). On success the leg is auto; when coordinates are missing, the
// mode is not routable, or calc fails, p is returned with its leg unset and
// the error (if any) is returned for the caller to report.
func ComputeLeg(ctx context.Context, prev, p domain.Place, calc DistanceCalculator) (domain.Place, error) {
	p = clearLeg(p)
	if p.Mode == "" {
		p.Mode = domain.ModeWalking
	}
	if prev.Coordinates == nil || p.Coordinates == nil || !p.Mode.Routable() {
		return p, nil
	}
	leg, err := calc.DistanceAndDuration(ctx, *prev.Coordinates, *p.Coordinates, p.Mode)
	if err != nil {
		return p, fmt.Errorf("itinerary.ComputeLeg: %w", err)
	}
	return ApplyAutoLeg(p, leg), nil
}

// ChangeMode is the explicit user action of picking a new mode: the old
// numbers are discarded, then recomputed for the new mode when possible.
func ChangeMode(ctx context.Context, prev, p domain.Place, mode domain.TransportMode, calc DistanceCalculator) (domain.Place, error) {
	p, err := SetMode(p, mode)
	if err != nil {
		return p, err
	}
	return ComputeLeg(ctx, prev, p, calc)
}

// ResolveNewLeg picks the mode and leg for a place appended after prev.
// It probes the walking distance, chooses walking or transit from it, and
// re-queries when transit wins so the stored numbers match the mode. On
// failure the place keeps mode walking with its leg unset.
func ResolveNewLeg(ctx context.Context, prev, next domain.Place, calc DistanceCalculator) (domain.Place, error) {
	next = clearTransport(next)
	next.Mode = domain.ModeWalking
	if prev.Coordinates == nil || next.Coordinates == nil {
		return next, nil
	}
	probe, err := calc.DistanceAndDuration(ctx, *prev.Coordinates, *next.Coordinates, domain.ModeWalking)
	if err != nil {
		return next, fmt.Errorf("itinerary.ResolveNewLeg: %w", err)
	}
	mode := ChooseDefaultTransportMode(probe.DistanceKm)
	if mode == domain.ModeWalking {
		return ApplyAutoLeg(next, probe), nil
	}
	next.Mode = mode
	leg, err := calc.DistanceAndDuration(ctx, *prev.Coordinates, *next.Coordinates, mode)
	if err != nil {
		return next, fmt.Errorf("itinerary.ResolveNewLeg: %w", err)
	}
	return ApplyAutoLeg(next, leg), nil
}

func clearLeg(p domain.Place) domain.Place {
	p = p.Clone()
	p.DistanceKm = nil
	p.DurationMin = nil
	p.LegSource = domain.LegUnset
	return p
}

func clearTransport(p domain.Place) domain.Place {
	p = clearLeg(p)
	p.Mode = ""
	return p
}
