// Package engine holds the live ledger and persists it. Every dispatched action
// runs through the pure reducer; persistent actions schedule a trailing,
// debounced snapshot write to the configured store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/klaro/internal/common"
	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/model"
	"github.com/Veraticus/klaro/internal/service"
)

// DefaultDebounce is the quiet period after the last persistent action before
// the snapshot is written.
const DefaultDebounce = 500 * time.Millisecond

// Engine is the single owner of the live ledger state. It is safe for
// concurrent use.
type Engine struct {
	store     service.SnapshotStore
	scheduler service.Scheduler
	pending   service.Timer
	reducer   *ledger.Reducer
	logger    *slog.Logger
	now       func() time.Time
	state     ledger.State
	debounce  time.Duration
	mu        sync.Mutex
	saveMu    sync.Mutex
	dirty     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler replaces the wall-clock scheduler used for debounced writes.
func WithScheduler(s service.Scheduler) Option {
	return func(e *Engine) {
		e.scheduler = s
	}
}

// WithDebounce sets the quiet period before a write. Zero or negative keeps the default.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.debounce = d
		}
	}
}

// WithReducer replaces the reducer.
func WithReducer(r *ledger.Reducer) Option {
	return func(e *Engine) {
		e.reducer = r
	}
}

// WithClock sets the clock used for the seed dataset and the default reducer.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Open loads the persisted ledger from store. A missing or unreadable snapshot
// falls back to the seed dataset; any other load failure is returned.
func Open(ctx context.Context, store service.SnapshotStore, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, errors.New("engine: snapshot store is required")
	}

	e := &Engine{
		store:     store,
		scheduler: SystemScheduler(),
		debounce:  DefaultDebounce,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.reducer == nil {
		e.reducer = ledger.NewReducer(ledger.WithClock(e.now))
	}

	state, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	e.state = state
	return e, nil
}

func (e *Engine) load(ctx context.Context) (ledger.State, error) {
	today := model.DateOf(e.now())

	data, err := e.store.Load(ctx)
	switch {
	case errors.Is(err, common.ErrNotFound):
		e.logger.Info("No saved ledger, starting from sample data")
		return ledger.Seed(today), nil
	case err != nil:
		return ledger.State{}, fmt.Errorf("failed to load ledger: %w", err)
	}

	state, err := ledger.UnmarshalSnapshot(data)
	if err != nil {
		e.logger.Warn("Saved ledger is unreadable, starting from sample data", "error", err)
		return ledger.Seed(today), nil
	}
	return state, nil
}

// State returns the current state. Callers must treat it as read-only.
func (e *Engine) State() ledger.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Dispatch applies a to the current state and returns the result. Persistent
// actions restart the debounce timer. A nil action changes nothing.
func (e *Engine) Dispatch(a ledger.Action) ledger.State {
	e.mu.Lock()
	defer e.mu.Unlock()

	if a == nil {
		return e.state
	}
	e.state = e.reducer.Apply(e.state, a)
	if a.Kind().Persistent() {
		e.dirty = true
		e.schedule()
	}
	return e.state
}

// schedule must be called with mu held.
func (e *Engine) schedule() {
	if e.pending != nil {
		e.pending.Stop()
	}
	e.pending = e.scheduler.AfterFunc(e.debounce, func() {
		if err := e.save(context.Background()); err != nil {
			e.logger.Warn("Failed to persist ledger", "error", err)
		}
	})
}

// Pending reports whether a write is outstanding.
func (e *Engine) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Flush writes any outstanding change immediately.
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
	e.mu.Unlock()

	return e.save(ctx)
}

// save writes the latest state if it changed since the last write. Writes are
// serialized so an older snapshot never lands after a newer one.
func (e *Engine) save(ctx context.Context) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	if !e.dirty {
		e.mu.Unlock()
		return nil
	}
	state := e.state
	e.dirty = false
	e.mu.Unlock()

	data, err := ledger.MarshalSnapshot(state)
	if err == nil {
		err = e.store.Save(ctx, data)
	}
	if err != nil {
		e.mu.Lock()
		e.dirty = true
		e.mu.Unlock()
		return fmt.Errorf("failed to persist ledger: %w", err)
	}

	e.logger.Debug("Persisted ledger",
		"bytes", len(data),
		"transactions", len(state.Transactions))
	return nil
}

// Close flushes outstanding changes and closes the store.
func (e *Engine) Close(ctx context.Context) error {
	flushErr := e.Flush(ctx)
	if err := e.store.Close(); err != nil {
		return errors.Join(flushErr, fmt.Errorf("failed to close store: %w", err))
	}
	return flushErr
}
