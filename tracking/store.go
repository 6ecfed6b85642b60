package tracking

import (
	"context"
	"time"
)

// Store is the persistence contract for tracking records. Backends live in
// tracking/memory, tracking/redis, tracking/postgres, and tracking/bun.
//
// Emit is the only write path. Idempotent emission is the store's
// responsibility: the engine never reads back its own writes within one
// dispatch, and may emit the same event for the same key repeatedly across
// calls.
type Store interface {
	// Emit records a lifecycle event for the key at the given time. When
	// clearHistory is true, prior history for the key is dropped before
	// the write, leaving this event as the key's only record.
	Emit(ctx context.Context, key Key, event Event, at time.Time, clearHistory bool) error

	// History returns a snapshot of the full tracking state. The snapshot
	// is owned by the caller; mutating it does not affect the store.
	History(ctx context.Context) (State, error)

	// Clear drops all history for the key. This is the escape hatch for
	// callers that want retry-after-failure semantics with the once-guard.
	Clear(ctx context.Context, key Key) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources owned by the store.
	Close() error
}

// Emitters is the tracking side-effect channel handed to the engine: one
// emission function per lifecycle event. The terminal emitters carry the
// clear-prior-history flag; requested never clears. Substituting the whole
// trio redirects every tracking write the engine performs.
type Emitters struct {
	Requested func(ctx context.Context, key Key, at time.Time) error
	Succeeded func(ctx context.Context, key Key, at time.Time, clearHistory bool) error
	Failed    func(ctx context.Context, key Key, at time.Time, clearHistory bool) error
}

// StoreEmitters builds the default Emitters trio writing to the store.
func StoreEmitters(s Store) Emitters {
	return Emitters{
		Requested: func(ctx context.Context, key Key, at time.Time) error {
			return s.Emit(ctx, key, EventRequested, at, false)
		},
		Succeeded: func(ctx context.Context, key Key, at time.Time, clearHistory bool) error {
			return s.Emit(ctx, key, EventSucceeded, at, clearHistory)
		},
		Failed: func(ctx context.Context, key Key, at time.Time, clearHistory bool) error {
			return s.Emit(ctx, key, EventFailed, at, clearHistory)
		},
	}
}

// Record is the serialized per-key history used by byte-oriented backends.
type Record struct {
	Path   string              `json:"path" msgpack:"path"`
	Method string              `json:"method" msgpack:"method"`
	Events map[Event]time.Time `json:"events" msgpack:"events"`
}

// NewRecord creates an empty record for the key.
func NewRecord(key Key) *Record {
	return &Record{
		Path:   key.Path,
		Method: key.Method,
		Events: make(map[Event]time.Time),
	}
}

// Key returns the record's tracking key.
func (r *Record) Key() Key { return Key{Path: r.Path, Method: r.Method} }
