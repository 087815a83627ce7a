// Package omc implements the optimistic mutation controller: a collection
// is mutated locally the instant the user confirms an action, the backend
// call runs afterwards, and the controller either keeps/reconciles the
// optimistic value or restores the pre-mutation snapshot on failure.
package omc

import (
	"context"
	"sync"

	"go.uber.org/zap"

	appErrors "github.com/NeuroCampus/neuro-console/pkg/errors"
	"github.com/NeuroCampus/neuro-console/pkg/metrics"
)

// ErrClosed is returned when a mutation is started on a detached controller.
var ErrClosed = appErrors.New("SCREEN_DETACHED", 409, "screen detached")

// Mutation describes one optimistic change against the collection.
//
// Apply computes the optimistic collection value from the current one and
// runs synchronously before the request is issued. Dispatch performs the
// backend call. Refetch, when set, loads the authoritative list after a
// successful dispatch and replaces the collection wholesale; when nil the
// optimistic value is trusted.
//
// Revert undoes Apply against the live collection on failure. Set it when
// mutations on other keys may be in flight concurrently; restoring the
// pre-mutation snapshot would discard their optimistic values too. When nil
// the snapshot is restored wholesale.
type Mutation[T any] struct {
	Key      string
	Apply    func(items []T) []T
	Dispatch func(ctx context.Context) error
	Refetch  func(ctx context.Context) ([]T, error)
	Revert   func(items []T) []T
}

// Controller owns one collection slice and the pending-operation flags
// keyed by target id. Mutations against different keys may be in flight
// concurrently; mutations against the same key are refused while pending.
type Controller[T any] struct {
	mu      sync.Mutex
	items   []T
	pending map[string]bool
	closed  bool

	screen  string
	logger  *zap.Logger
	metrics *metrics.Set
}

// NewController builds a controller for the named screen collection.
func NewController[T any](screen string, logger *zap.Logger, m *metrics.Set) *Controller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T]{
		pending: make(map[string]bool),
		screen:  screen,
		logger:  logger,
		metrics: m,
	}
}

// Seed replaces the collection wholesale, typically from a bootstrap
// payload. Pending flags are untouched.
func (c *Controller[T]) Seed(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
}

// Items returns a copy of the current collection.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Pending reports whether a mutation with the given key is in flight.
func (c *Controller[T]) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[key]
}

// Close detaches the controller. In-flight mutations settle silently: late
// completions never touch the collection of a detached screen.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Run executes a mutation: snapshot, optimistic apply, dispatch, then
// reconcile or roll back. The returned error is the dispatch or refetch
// failure; appErrors.ErrMutationInFlight signals a refused duplicate.
func (c *Controller[T]) Run(ctx context.Context, m Mutation[T]) error {
	snapshot, err := c.begin(m)
	if err != nil {
		return err
	}

	if err := m.Dispatch(ctx); err != nil {
		c.fail(m.Key, snapshot, m.Revert)
		return err
	}

	if m.Refetch == nil {
		c.succeed(m.Key, nil, false)
		return nil
	}

	fresh, err := m.Refetch(ctx)
	if err != nil {
		// Dispatch already landed; keep the optimistic value and let the
		// caller surface the refetch error.
		c.succeed(m.Key, nil, false)
		return err
	}
	c.succeed(m.Key, fresh, true)
	return nil
}

// begin takes the snapshot and applies the optimistic value under one lock
// so no other code observes a half-applied mutation.
func (c *Controller[T]) begin(m Mutation[T]) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if c.pending[m.Key] {
		return nil, appErrors.Clone(appErrors.ErrMutationInFlight, "operation already in progress for this target")
	}
	snapshot := append([]T(nil), c.items...)
	c.items = m.Apply(append([]T(nil), c.items...))
	c.pending[m.Key] = true
	return snapshot, nil
}

func (c *Controller[T]) succeed(key string, fresh []T, replace bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, key)
	if c.closed {
		return
	}
	if replace {
		c.items = append([]T(nil), fresh...)
	}
	c.metrics.RecordMutation(c.screen, "applied")
}

func (c *Controller[T]) fail(key string, snapshot []T, revert func(items []T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, key)
	if c.closed {
		return
	}
	if revert != nil {
		c.items = revert(c.items)
	} else {
		c.items = snapshot
	}
	c.metrics.RecordMutation(c.screen, "rolled_back")
	c.logger.Debug("mutation rolled back", zap.String("screen", c.screen), zap.String("key", key))
}
