// Package tracking defines the request lifecycle model: events, the
// (path, method) key, the state snapshot shape, the store contract, and
// the finder set used by the once-guard.
//
// A tracking store maps (path, method) → lifecycle event → timestamp. The
// engine is the only writer, through the Emitters trio; reads go through
// the History accessor and the finders.
package tracking

import (
	"net/http"
	"time"
)

// Event is a recorded lifecycle transition for one (path, method) key.
type Event string

const (
	// EventRequested is emitted before a request executes, online or offline.
	EventRequested Event = "requested"

	// EventSucceeded is emitted when the transport fulfills or the offline
	// stub responds.
	EventSucceeded Event = "succeeded"

	// EventFailed is emitted when the transport rejects.
	EventFailed Event = "failed"
)

// Events lists all lifecycle events in emission order.
var Events = []Event{EventRequested, EventSucceeded, EventFailed}

// Terminal reports whether the event ends a request lifecycle.
func (e Event) Terminal() bool {
	return e == EventSucceeded || e == EventFailed
}

// Valid reports whether e is one of the three lifecycle events.
func (e Event) Valid() bool {
	switch e {
	case EventRequested, EventSucceeded, EventFailed:
		return true
	}
	return false
}

// Key identifies a tracked endpoint: one (path, method) pair.
type Key struct {
	Path   string
	Method string
}

// NewKey builds a Key, defaulting an empty method to GET so that tracking
// and routing agree on the key for verb-less descriptors.
func NewKey(path, method string) Key {
	if method == "" {
		method = http.MethodGet
	}
	return Key{Path: path, Method: method}
}

// String renders the key as "METHOD path" for logs.
func (k Key) String() string { return k.Method + " " + k.Path }

// EventTimes maps lifecycle events to the timestamp of their last emission.
type EventTimes map[Event]time.Time

// MethodHistory maps HTTP methods to their event history.
type MethodHistory map[string]EventTimes

// State is a point-in-time snapshot of the tracking store:
// path → method → event → timestamp.
type State map[string]MethodHistory

// Lookup returns the recorded timestamp for the given key and event.
func (s State) Lookup(key Key, event Event) (time.Time, bool) {
	methods, ok := s[key.Path]
	if !ok {
		return time.Time{}, false
	}
	events, ok := methods[key.Method]
	if !ok {
		return time.Time{}, false
	}
	at, ok := events[event]
	return at, ok
}

// Set records a timestamp in the snapshot. Used by stores assembling
// snapshots and by tests building fixtures; it does not write anywhere.
func (s State) Set(key Key, event Event, at time.Time) {
	methods, ok := s[key.Path]
	if !ok {
		methods = make(MethodHistory)
		s[key.Path] = methods
	}
	events, ok := methods[key.Method]
	if !ok {
		events = make(EventTimes)
		methods[key.Method] = events
	}
	events[event] = at
}

// Clone returns a deep copy of the snapshot.
func (s State) Clone() State {
	out := make(State, len(s))
	for path, methods := range s {
		mh := make(MethodHistory, len(methods))
		for method, events := range methods {
			et := make(EventTimes, len(events))
			for ev, at := range events {
				et[ev] = at
			}
			mh[method] = et
		}
		out[path] = mh
	}
	return out
}
