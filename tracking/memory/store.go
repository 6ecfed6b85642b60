// Package memory provides a fully in-memory tracking store. Safe for
// concurrent access. Intended for unit testing and single-process apps.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xraph/outcall"
	"github.com/xraph/outcall/tracking"
)

// Compile-time interface check.
var _ tracking.Store = (*Store)(nil)

// Store keeps tracking history in a mutex-guarded map.
type Store struct {
	mu     sync.RWMutex
	state  tracking.State
	closed bool
}

// New returns a new empty Store.
func New() *Store {
	return &Store{state: tracking.State{}}
}

// Emit records a lifecycle event, dropping prior history for the key first
// when clearHistory is set.
func (m *Store) Emit(_ context.Context, key tracking.Key, event tracking.Event, at time.Time, clearHistory bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return outcall.ErrStoreClosed
	}
	if clearHistory {
		m.clearLocked(key)
	}
	m.state.Set(key, event, at)
	return nil
}

// History returns a deep copy of the current state.
func (m *Store) History(_ context.Context) (tracking.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, outcall.ErrStoreClosed
	}
	return m.state.Clone(), nil
}

// Clear drops all history for the key.
func (m *Store) Clear(_ context.Context, key tracking.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return outcall.ErrStoreClosed
	}
	m.clearLocked(key)
	return nil
}

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close marks the store closed. Further writes fail with ErrStoreClosed.
func (m *Store) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Store) clearLocked(key tracking.Key) {
	methods, ok := m.state[key.Path]
	if !ok {
		return
	}
	delete(methods, key.Method)
	if len(methods) == 0 {
		delete(m.state, key.Path)
	}
}
