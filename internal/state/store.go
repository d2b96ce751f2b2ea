// Package state holds the single in-memory copy of the application state and
// keeps it in step with local storage.
package state

import (
	"context"
	"sync"

	"github.com/diewo77/go-shop/internal/models"
)

// Persister writes a full state snapshot to durable storage.
type Persister interface {
	SaveState(ctx context.Context, st models.State) error
}

// Store owns the current state. Reads return copies; writes persist before
// they become visible.
type Store struct {
	mu      sync.RWMutex
	state   models.State
	persist Persister

	subMu   sync.Mutex
	subs    map[int]func(models.State)
	nextSub int
}

// New returns a store seeded with initial. persist may be nil for tests.
func New(initial models.State, persist Persister) *Store {
	initial.Normalize()
	return &Store{
		state:   initial.Clone(),
		persist: persist,
		subs:    map[int]func(models.State){},
	}
}

// Get returns a copy of the current state.
func (s *Store) Get() models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Replace swaps the whole state, as a sync pull does.
func (s *Store) Replace(ctx context.Context, st models.State) error {
	return s.Update(ctx, func(cur *models.State) error {
		*cur = st.Clone()
		return nil
	})
}

// Update applies fn to a copy of the state, persists the result and then
// publishes it. If fn or the write fails, the current state is left as it was.
func (s *Store) Update(ctx context.Context, fn func(*models.State) error) error {
	s.mu.Lock()
	next := s.state.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	next.Normalize()
	if s.persist != nil {
		if err := s.persist.SaveState(ctx, next); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.state = next
	snapshot := next.Clone()
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

// Subscribe registers fn to be called after every successful change.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(models.State)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(st models.State) {
	s.subMu.Lock()
	fns := make([]func(models.State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}
