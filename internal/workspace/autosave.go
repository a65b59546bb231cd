package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/r3labs/diff/v3"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// DefaultDebounce is the autosave quiet period used when none is configured.
const DefaultDebounce = 1500 * time.Millisecond

// saveTimeout bounds a save started by the debounce timer.
const saveTimeout = 10 * time.Second

// PlanSnapshot is the unit the autosaver persists: one trip's full plan list.
type PlanSnapshot struct {
	TripID uuid.UUID
	Plans  []domain.DayPlan
}

// SaveFunc persists the plans of a trip.
type SaveFunc func(ctx context.Context, tripID uuid.UUID, plans []domain.DayPlan) error

// Autosaver writes the workspace's plans after a quiet period. It compares
// each snapshot with the last one successfully submitted and skips writes
// that would change nothing. At most one save runs at a time; a request that
// arrives meanwhile is remembered and served when the running save ends.
type Autosaver struct {
	debounce time.Duration
	source   func() (PlanSnapshot, bool)
	save     SaveFunc
	log      *slog.Logger
	differ   *diff.Differ

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	saving  bool
	pending bool
	idle    chan struct{}
	last    *PlanSnapshot
}

// NewAutosaver returns an autosaver that reads snapshots from source and
// writes them with save. A non-positive debounce selects DefaultDebounce.
func NewAutosaver(debounce time.Duration, source func() (PlanSnapshot, bool), save SaveFunc, log *slog.Logger) *Autosaver {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Autosaver{
		debounce: debounce,
		source:   source,
		save:     save,
		log:      log,
		differ:   newPlanDiffer(),
	}
}

// Touch records a change and restarts the debounce timer.
func (a *Autosaver) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	if a.timer == nil {
		a.timer = time.AfterFunc(a.debounce, a.fire)
		return
	}
	a.timer.Reset(a.debounce)
}

// Reset makes snap the last submitted snapshot, typically right after the
// plans were loaded from the store. A nil snap forgets the baseline.
func (a *Autosaver) Reset(snap *PlanSnapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if snap == nil {
		a.last = nil
		return
	}
	cp := PlanSnapshot{TripID: snap.TripID, Plans: domain.ClonePlans(snap.Plans)}
	a.last = &cp
}

// Flush cancels the pending timer and saves now, waiting for a save already
// in flight to finish first.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.stopTimer()
	for {
		ok, idle := a.tryClaim()
		if ok {
			break
		}
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	defer a.release()
	return a.saveOnce(ctx)
}

// Close stops the timer; later touches are ignored. It does not save.
func (a *Autosaver) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.stopTimer()
}

func (a *Autosaver) stopTimer() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
	}
}

func (a *Autosaver) fire() {
	if ok, _ := a.tryClaim(); !ok {
		a.mu.Lock()
		a.pending = true
		a.mu.Unlock()
		return
	}
	defer a.release()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	_ = a.saveOnce(ctx)
}

// tryClaim marks a save as running. When one already is, it returns false
// and a channel closed when that save ends.
func (a *Autosaver) tryClaim() (bool, <-chan struct{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.saving {
		return false, a.idle
	}
	a.saving = true
	a.idle = make(chan struct{})
	return true, nil
}

func (a *Autosaver) release() {
	a.mu.Lock()
	a.saving = false
	close(a.idle)
	rerun := a.pending && !a.closed
	a.pending = false
	a.mu.Unlock()

	if rerun {
		go a.fire()
	}
}

// saveOnce must be called with the save claimed. Failures are logged and
// leave the baseline untouched so the next attempt retries.
func (a *Autosaver) saveOnce(ctx context.Context) error {
	snap, ok := a.source()
	if !ok {
		return nil
	}

	a.mu.Lock()
	last := a.last
	a.mu.Unlock()

	if last != nil && last.TripID == snap.TripID {
		changed, err := plansChanged(a.differ, last.Plans, snap.Plans)
		if err != nil {
			a.log.Warn("autosave: diff failed, saving anyway", "trip_id", snap.TripID, "err", err)
		}
		if !changed {
			a.log.Debug("autosave: no changes", "trip_id", snap.TripID)
			return nil
		}
	}

	start := time.Now()
	if err := a.save(ctx, snap.TripID, snap.Plans); err != nil {
		level := slog.LevelError
		if errors.Is(err, domain.ErrNotFound) {
			// The trip was deleted while a save was pending.
			level = slog.LevelWarn
		}
		a.log.Log(ctx, level, "autosave: save failed", "trip_id", snap.TripID, "err", err)
		return err
	}

	a.mu.Lock()
	a.last = &snap
	a.mu.Unlock()
	a.log.Info("autosave: saved", "trip_id", snap.TripID, "days", len(snap.Plans), "duration_ms", time.Since(start).Milliseconds())
	return nil
}
