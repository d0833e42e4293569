// Package mutation applies optimistic changes to cached views and reconciles
// them with the Remote Store's answer.
//
// A mutation snapshots every view it touches, rewrites those views before
// Mutate returns, then commits in the background. Success folds the confirmed
// value in and marks the views stale. Failure restores the snapshot and sends
// one notice. Writes to the same entity run one at a time in issue order, and
// only the most recently issued mutation of an entity may write its result
// into the cache.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Vikas-Kain/TalentFlow/internal/querycache"
	"github.com/Vikas-Kain/TalentFlow/internal/session"
)

// Notifier receives failure notices.
type Notifier interface {
	Notify(session.Notice)
}

// Invalidator marks derived views stale. *querycache.Cache satisfies it for
// any value type.
type Invalidator interface {
	Invalidate(keys ...string) int
}

// Outcome is how a mutation resolved.
type Outcome int

const (
	Pending Outcome = iota
	Confirmed
	RolledBack
	// Superseded: a newer mutation of the same entity was issued before this
	// one resolved, so its result was not written into the cache.
	Superseded
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled back"
	case Superseded:
		return "superseded"
	}
	return "pending"
}

// Mutation describes one optimistic change with server result type R.
type Mutation[V, R any] struct {
	// Entity serializes writes. Mutations sharing an entity key commit in
	// issue order.
	Entity string
	// Label names the change in failure notices, e.g. "Reorder job".
	Label string
	// Views selects the cached views the change affects.
	Views func(key string) bool
	// Apply rewrites one affected view optimistically.
	Apply func(key string, v V) V
	// Commit performs the write.
	Commit func(ctx context.Context) (R, error)
	// Confirm folds the server result into one affected view. Nil keeps the
	// optimistic value until the view is refetched.
	Confirm func(key string, v V, result R) V
	// Derived lists keys of other views (detail, timeline) to mark stale on
	// success. They are passed to the engine's own cache and every
	// registered Invalidator.
	Derived []string
}

type entityState struct {
	seq   uint64
	tail  chan struct{}
	dirty bool
}

// Engine is safe for concurrent use.
type Engine[V any] struct {
	cache        *querycache.Cache[V]
	notifier     Notifier
	invalidators []Invalidator
	logger       *slog.Logger

	mu       sync.Mutex
	entities map[string]*entityState
	wg       sync.WaitGroup
}

// New creates an Engine over cache. notifier may be nil.
func New[V any](cache *querycache.Cache[V], notifier Notifier, invalidators ...Invalidator) *Engine[V] {
	return &Engine[V]{
		cache:        cache,
		notifier:     notifier,
		invalidators: invalidators,
		logger:       slog.Default(),
		entities:     make(map[string]*entityState),
	}
}

// SetLogger replaces the default logger.
func (e *Engine[V]) SetLogger(l *slog.Logger) {
	e.logger = l
}

// Cache returns the cache the engine writes to.
func (e *Engine[V]) Cache() *querycache.Cache[V] {
	return e.cache
}

// Wait blocks until every issued mutation has resolved.
func (e *Engine[V]) Wait() {
	e.wg.Wait()
}

// Mutate applies m optimistically and commits it in the background. The
// affected views already show the optimistic value when Mutate returns.
func Mutate[V, R any](ctx context.Context, e *Engine[V], m Mutation[V, R]) *Result[R] {
	if m.Entity == "" {
		m.Entity = "_"
	}
	res := &Result[R]{done: make(chan struct{})}

	e.mu.Lock()
	st, ok := e.entities[m.Entity]
	if !ok {
		st = &entityState{}
		e.entities[m.Entity] = st
	}
	st.seq++
	token := st.seq
	prev := st.tail
	tail := make(chan struct{})
	st.tail = tail

	snap := e.cache.Snapshot(m.Views)
	if m.Apply != nil {
		e.cache.Update(snap.Keys(), m.Apply)
	}
	held := e.cache.Hold(snap.Keys())
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		defer close(tail)
		if prev != nil {
			<-prev
		}

		out, err := commit(ctx, m)
		resolve(e, m, snap, held, token, out, err, res)
	}()

	return res
}

func commit[V, R any](ctx context.Context, m Mutation[V, R]) (out R, err error) {
	if m.Commit == nil {
		return out, errors.New("mutation has no commit")
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("commit panicked: %v", r)
		}
	}()
	return m.Commit(ctx)
}

func resolve[V, R any](e *Engine[V], m Mutation[V, R], snap querycache.Snapshot[V], held map[string]uint64, token uint64, out R, err error, res *Result[R]) {
	e.mu.Lock()
	st := e.entities[m.Entity]
	latest := st.seq == token
	dirty := st.dirty
	if latest {
		// Nothing is queued behind this mutation.
		delete(e.entities, m.Entity)
	} else {
		st.dirty = true
	}

	keys := snap.Keys()
	e.cache.Release(keys)
	var outcome Outcome
	switch {
	case err == nil && latest:
		if m.Confirm != nil {
			e.cache.Update(keys, func(k string, v V) V { return m.Confirm(k, v, out) })
		}
		e.invalidate(keys, m.Derived)
		outcome = Confirmed
	case err == nil:
		e.invalidate(keys, m.Derived)
		outcome = Superseded
	case latest:
		// Views rewritten by other entities since the apply come back
		// stale so their confirmed changes are refetched.
		e.cache.Rollback(snap, held)
		if dirty {
			// An earlier mutation of this entity resolved while this one
			// was in flight; the snapshot predates it.
			e.cache.Invalidate(keys...)
		}
		outcome = RolledBack
	default:
		e.cache.Invalidate(keys...)
		outcome = Superseded
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("mutation failed", "entity", m.Entity, "label", m.Label, "outcome", outcome.String(), "error", err)
		if e.notifier != nil {
			e.notifier.Notify(session.Notice{
				Level:   session.LevelError,
				Title:   label(m.Label) + " failed",
				Message: err.Error(),
			})
		}
	} else if outcome == Superseded {
		e.logger.Debug("mutation superseded", "entity", m.Entity, "label", m.Label)
	}

	res.finish(out, err, outcome)
}

func (e *Engine[V]) invalidate(keys, derived []string) {
	e.cache.Invalidate(append(append([]string(nil), keys...), derived...)...)
	if len(derived) == 0 {
		return
	}
	for _, inv := range e.invalidators {
		inv.Invalidate(derived...)
	}
}

func label(s string) string {
	if s == "" {
		return "Update"
	}
	return s
}
