package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/DeborahScali/travelapp-sub000/internal/repo"
)

// Manager owns one Workspace per user and creates them on first use.
type Manager struct {
	trips    repo.TripRepo
	plans    repo.DayPlanRepo
	log      *slog.Logger
	debounce time.Duration
	loads    singleflight.Group

	mu     sync.Mutex
	spaces map[string]*Workspace
	closed bool
}

// NewManager returns a Manager whose workspaces load from and save to the
// given repositories, autosaving after debounce of inactivity.
func NewManager(trips repo.TripRepo, plans repo.DayPlanRepo, log *slog.Logger, debounce time.Duration) *Manager {
	return &Manager{
		trips:    trips,
		plans:    plans,
		log:      log,
		debounce: debounce,
		spaces:   map[string]*Workspace{},
	}
}

// Get returns the user's workspace, loading the current trip the first time.
// A workspace is handed out only once loaded; concurrent first calls for the
// same user share one load. A failed load is not cached so the next call
// retries.
func (m *Manager) Get(ctx context.Context, userID string) (*Workspace, error) {
	w, err := m.lookup(userID)
	if err != nil {
		return nil, fmt.Errorf("workspace.Manager.Get: %w", err)
	}
	if w != nil {
		return w, nil
	}
	v, err, _ := m.loads.Do(userID, func() (any, error) {
		if w, err := m.lookup(userID); w != nil || err != nil {
			return w, err
		}
		w := newWorkspace(userID, m.trips, m.plans, m.log, m.debounce)
		if _, err := w.Load(ctx); err != nil {
			_ = w.Close(ctx)
			return nil, err
		}
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			_ = w.Close(ctx)
			return nil, ErrClosed
		}
		m.spaces[userID] = w
		m.mu.Unlock()
		return w, nil
	})
	if err != nil {
		return nil, fmt.Errorf("workspace.Manager.Get: %w", err)
	}
	return v.(*Workspace), nil
}

func (m *Manager) lookup(userID string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	return m.spaces[userID], nil
}

// Close saves and stops every workspace. The Manager refuses new work after.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	spaces := make([]*Workspace, 0, len(m.spaces))
	for _, w := range m.spaces {
		spaces = append(spaces, w)
	}
	m.spaces = map[string]*Workspace{}
	m.mu.Unlock()

	var errs []error
	for _, w := range spaces {
		if err := w.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", w.userID, err))
		}
	}
	return errors.Join(errs...)
}
