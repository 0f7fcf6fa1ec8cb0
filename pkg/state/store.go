package state

import (
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

// Store owns the current snapshot of one run. Dispatch is serialised, so
// concurrent callers are applied one at a time in lock order.
type Store struct {
	mu     sync.Mutex
	engine *Engine
	state  *GameState
	subs   []*subscription

	// publishMu keeps subscriber callbacks in order. It is never held
	// together with mu while a callback runs, so callbacks may read the
	// store, subscribe and unsubscribe.
	publishMu sync.Mutex
}

type subscription struct {
	selector func(View) any
	last     any
	notify   func(any)
	removed  atomic.Bool
}

// NewStore starts a fresh run on engine.
func NewStore(engine *Engine) *Store {
	return NewStoreFrom(engine, engine.NewRun())
}

// NewStoreFrom resumes a run from a saved snapshot.
func NewStoreFrom(engine *Engine, gs *GameState) *Store {
	return &Store{
		engine: engine,
		state:  gs,
	}
}

// Engine returns the engine the store reduces with.
func (s *Store) Engine() *Engine {
	return s.engine
}

// View returns a read-only handle on the current snapshot.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{gs: s.state}
}

// Dispatch applies a and reports whether the state changed. Subscribers are
// notified before Dispatch returns. Callbacks must not call Dispatch.
func (s *Store) Dispatch(a Action) bool {
	s.mu.Lock()
	next, changed := s.engine.Reduce(s.state, a)
	if changed {
		s.state = next
	}
	s.mu.Unlock()

	if changed {
		s.publish()
	}
	return changed
}

// ResetRun discards the run and starts a new one through the same path as
// NewStore.
func (s *Store) ResetRun() {
	s.mu.Lock()
	s.state = s.engine.NewRun()
	s.mu.Unlock()

	s.publish()
}

// publish notifies subscribers of the newest snapshot. The snapshot and the
// subscriber list are read together under publishMu, so views reach
// callbacks in state order even when dispatches race.
func (s *Store) publish() {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	v := View{gs: s.state}
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.removed.Load() {
			continue
		}
		cur := sub.selector(v)
		if reflect.DeepEqual(cur, sub.last) {
			continue
		}
		sub.last = cur
		sub.notify(cur)
	}
}

// Subscribe calls fn with the selected slice of state every time it
// changes. The returned func removes the subscription and may be called
// from inside fn.
func Subscribe[T any](s *Store, selector func(View) T, fn func(T)) (unsubscribe func()) {
	sub := &subscription{
		selector: func(v View) any { return selector(v) },
		notify:   func(x any) { fn(x.(T)) },
	}

	s.mu.Lock()
	sub.last = sub.selector(View{gs: s.state})
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	return func() {
		sub.removed.Store(true)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(x *subscription) bool { return x == sub })
	}
}
