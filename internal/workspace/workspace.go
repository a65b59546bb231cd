// Package workspace holds each user's in-memory session: the current trip,
// its day plans and the selected day. Every mutation runs on the workspace's
// own goroutine, one at a time and in submission order, and commits a
// complete new state. Mapping lookups run outside that queue and are merged
// back with a single update; a newer lookup for the same key cancels the
// older one. Plans are persisted by a debounced Autosaver.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/itinerary"
	"github.com/DeborahScali/travelapp-sub000/internal/repo"
)

// ErrClosed is returned by Update once the workspace has been closed.
var ErrClosed = errors.New("workspace closed")

// ComputeFunc derives new legs for a day's places. It runs outside the
// mutation queue and must not modify its input.
type ComputeFunc func(ctx context.Context, places []domain.Place) ([]domain.Place, []itinerary.LegFailure)

type request struct {
	ctx   context.Context
	fn    func(State) (State, error)
	reply chan result
}

type result struct {
	state State
	err   error
}

type inflight struct {
	gen    uint64
	cancel context.CancelFunc
}

// Workspace is the session of one user. Create it through a Manager.
type Workspace struct {
	userID string
	trips  repo.TripRepo
	plans  repo.DayPlanRepo
	log    *slog.Logger
	saver  *Autosaver

	reqs    chan request
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu    sync.RWMutex
	state State

	callsMu sync.Mutex
	calls   map[string]inflight
	gen     uint64
}

func newWorkspace(userID string, trips repo.TripRepo, plans repo.DayPlanRepo, log *slog.Logger, debounce time.Duration) *Workspace {
	w := &Workspace{
		userID:  userID,
		trips:   trips,
		plans:   plans,
		log:     log.With("user_id", userID),
		reqs:    make(chan request),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		calls:   map[string]inflight{},
	}
	w.saver = NewAutosaver(debounce, w.planSnapshot, func(ctx context.Context, tripID uuid.UUID, p []domain.DayPlan) error {
		return w.plans.ReplaceAll(ctx, w.userID, tripID, p)
	}, w.log)
	go w.run()
	return w
}

func (w *Workspace) run() {
	defer close(w.stopped)
	for {
		select {
		case req := <-w.reqs:
			req.reply <- w.apply(req)
		case <-w.done:
			return
		}
	}
}

func (w *Workspace) apply(req request) result {
	if err := req.ctx.Err(); err != nil {
		return result{state: w.Snapshot(), err: err}
	}
	next, err := req.fn(w.Snapshot())
	if err != nil {
		return result{state: w.Snapshot(), err: err}
	}
	w.mu.Lock()
	w.state = next
	w.mu.Unlock()
	if next.Loaded {
		w.saver.Touch()
	}
	return result{state: next.Clone()}
}

// Update runs fn on the workspace goroutine with a private copy of the
// current state. When fn succeeds its result becomes the state and an
// autosave is scheduled; when it fails the state is left as it was. The
// returned state is the committed one, or the unchanged one on error.
func (w *Workspace) Update(ctx context.Context, fn func(State) (State, error)) (State, error) {
	req := request{ctx: ctx, fn: fn, reply: make(chan result, 1)}
	select {
	case w.reqs <- req:
	case <-w.done:
		return State{}, ErrClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	res := <-req.reply
	return res.state, res.err
}

// Snapshot returns a copy of the committed state.
func (w *Workspace) Snapshot() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.Clone()
}

func (w *Workspace) planSnapshot() (PlanSnapshot, bool) {
	s := w.Snapshot()
	if !s.Loaded {
		return PlanSnapshot{}, false
	}
	return PlanSnapshot{TripID: s.Trip.ID, Plans: s.Plans}, true
}

// Recalculate runs compute against the current places of the day dated
// date and merges the result into the state with itinerary.MergeLegs.
// Starting a Recalculate cancels any earlier one still running under the
// same key; the superseded result is dropped without error.
func (w *Workspace) Recalculate(ctx context.Context, key string, date time.Time, compute ComputeFunc) (State, []itinerary.LegFailure, error) {
	callCtx, gen := w.track(ctx, key)
	defer w.untrack(key, gen)

	snap := w.Snapshot()
	day, ok := snap.Day(date)
	if !snap.Loaded || !ok {
		return snap, nil, fmt.Errorf("workspace.Recalculate: day %s: %w", domain.DateKey(date), domain.ErrNotFound)
	}
	before := domain.ClonePlaces(day.Places)
	computed, failures := compute(callCtx, before)

	if err := ctx.Err(); err != nil {
		return w.Snapshot(), nil, err
	}
	if callCtx.Err() != nil || !w.isCurrent(key, gen) {
		w.log.Debug("workspace: dropped superseded recalculation", "key", key)
		return w.Snapshot(), nil, nil
	}

	tripID := snap.Trip.ID
	state, err := w.Update(ctx, func(s State) (State, error) {
		if !s.Loaded || s.Trip.ID != tripID {
			return s, nil
		}
		i := domain.FindDay(s.Plans, date)
		if i < 0 {
			return s, nil
		}
		s.Plans[i].Places = itinerary.MergeLegs(s.Plans[i].Places, before, computed)
		return s, nil
	})
	if err != nil {
		return state, nil, fmt.Errorf("workspace.Recalculate: %w", err)
	}
	return state, failures, nil
}

func (w *Workspace) track(ctx context.Context, key string) (context.Context, uint64) {
	callCtx, cancel := context.WithCancel(ctx)

	w.callsMu.Lock()
	defer w.callsMu.Unlock()
	if prev, ok := w.calls[key]; ok {
		prev.cancel()
	}
	w.gen++
	w.calls[key] = inflight{gen: w.gen, cancel: cancel}
	return callCtx, w.gen
}

func (w *Workspace) untrack(key string, gen uint64) {
	w.callsMu.Lock()
	defer w.callsMu.Unlock()
	if c, ok := w.calls[key]; ok && c.gen == gen {
		c.cancel()
		delete(w.calls, key)
	}
}

func (w *Workspace) isCurrent(key string, gen uint64) bool {
	w.callsMu.Lock()
	defer w.callsMu.Unlock()
	c, ok := w.calls[key]
	return ok && c.gen == gen
}

// cancelCalls aborts every mapping lookup in flight.
func (w *Workspace) cancelCalls() {
	w.callsMu.Lock()
	defer w.callsMu.Unlock()
	for key, c := range w.calls {
		c.cancel()
		delete(w.calls, key)
	}
}

// Load opens the user's current trip, or leaves the workspace empty when
// the user has none.
func (w *Workspace) Load(ctx context.Context) (State, error) {
	state, err := w.Update(ctx, func(s State) (State, error) {
		trip, err := w.trips.GetCurrent(ctx, w.userID)
		if errors.Is(err, domain.ErrNotFound) {
			w.saver.Reset(nil)
			return State{}, nil
		}
		if err != nil {
			return s, err
		}
		return w.open(ctx, trip)
	})
	if err != nil {
		return state, fmt.Errorf("workspace.Load: %w", err)
	}
	return state, nil
}

// SwitchTrip saves the open trip, then opens trip in its place.
func (w *Workspace) SwitchTrip(ctx context.Context, trip domain.Trip) (State, error) {
	w.cancelCalls()
	state, err := w.Update(ctx, func(s State) (State, error) {
		if s.Loaded {
			if err := w.saver.Flush(ctx); err != nil {
				return s, fmt.Errorf("save trip %s: %w", s.Trip.ID, err)
			}
		}
		return w.open(ctx, trip)
	})
	if err != nil {
		return state, fmt.Errorf("workspace.SwitchTrip: %w", err)
	}
	return state, nil
}

// ApplyTrip installs updated trip details when trip is the open one and
// regenerates the plans if its date range changed. It returns the days the
// regeneration dropped that still had content.
func (w *Workspace) ApplyTrip(ctx context.Context, trip domain.Trip) (State, []domain.DayPlan, error) {
	var dropped []domain.DayPlan
	state, err := w.Update(ctx, func(s State) (State, error) {
		if !s.Loaded || s.Trip.ID != trip.ID {
			return s, nil
		}
		s.Trip = trip
		if !itinerary.NeedsRegeneration(s.Plans, trip.StartDate, trip.EndDate) {
			return s, nil
		}
		plans, err := itinerary.Regenerate(s.Plans, trip.StartDate, trip.EndDate)
		if err != nil {
			return s, err
		}
		dropped = itinerary.DroppedDays(s.Plans, trip.StartDate, trip.EndDate)
		return s.WithPlans(plans), nil
	})
	if err != nil {
		return state, nil, fmt.Errorf("workspace.ApplyTrip: %w", err)
	}
	if len(dropped) > 0 {
		w.log.Info("workspace: trip shrink dropped days with content", "trip_id", trip.ID, "days", len(dropped))
	}
	return state, dropped, nil
}

// Clear closes the open trip without saving it, for example after the trip
// was deleted.
func (w *Workspace) Clear(ctx context.Context, tripID uuid.UUID) error {
	w.cancelCalls()
	_, err := w.Update(ctx, func(s State) (State, error) {
		if !s.Loaded || s.Trip.ID != tripID {
			return s, nil
		}
		w.saver.Reset(nil)
		return State{}, nil
	})
	if err != nil {
		return fmt.Errorf("workspace.Clear: %w", err)
	}
	return nil
}

// Flush saves pending plan changes now.
func (w *Workspace) Flush(ctx context.Context) error {
	return w.saver.Flush(ctx)
}

// Close cancels running lookups, saves pending changes and stops the
// workspace goroutine.
func (w *Workspace) Close(ctx context.Context) error {
	w.cancelCalls()
	err := w.saver.Flush(ctx)
	w.saver.Close()
	w.once.Do(func() { close(w.done) })
	<-w.stopped
	return err
}

// open builds the state for trip from the stored plans, regenerating them
// when they no longer match its range. The stored plans become the
// autosave baseline, so a regeneration is written on the next save.
func (w *Workspace) open(ctx context.Context, trip domain.Trip) (State, error) {
	stored, err := w.plans.ListByTrip(ctx, w.userID, trip.ID)
	if err != nil {
		return State{}, fmt.Errorf("load plans: %w", err)
	}
	plans := stored
	if itinerary.NeedsRegeneration(stored, trip.StartDate, trip.EndDate) {
		regenerated, err := itinerary.Regenerate(stored, trip.StartDate, trip.EndDate)
		if err != nil {
			w.log.Warn("workspace: stored trip has an invalid range", "trip_id", trip.ID, "err", err)
		} else {
			plans = regenerated
		}
	}
	w.saver.Reset(&PlanSnapshot{TripID: trip.ID, Plans: stored})

	s := State{Trip: trip, Loaded: true}
	return s.WithPlans(plans), nil
}
