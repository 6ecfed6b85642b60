package tracking

import "time"

// Finder looks up a prior timestamp for a key in a state snapshot.
type Finder func(s State, key Key) (time.Time, bool)

// FinderSet holds the three lookups the once-guard runs before dispatching.
// Any nil field falls back to the default keyed lookup, so integrators can
// override the set wholesale or one finder at a time.
type FinderSet struct {
	Requested Finder
	Succeeded Finder
	Failed    Finder
}

// DefaultFinders returns the built-in finders over the State snapshot shape.
func DefaultFinders() FinderSet {
	return FinderSet{
		Requested: func(s State, key Key) (time.Time, bool) { return s.Lookup(key, EventRequested) },
		Succeeded: func(s State, key Key) (time.Time, bool) { return s.Lookup(key, EventSucceeded) },
		Failed:    func(s State, key Key) (time.Time, bool) { return s.Lookup(key, EventFailed) },
	}
}

// OrDefaults returns a copy of the set with nil finders replaced by the
// built-in lookups.
func (fs FinderSet) OrDefaults() FinderSet {
	def := DefaultFinders()
	if fs.Requested == nil {
		fs.Requested = def.Requested
	}
	if fs.Succeeded == nil {
		fs.Succeeded = def.Succeeded
	}
	if fs.Failed == nil {
		fs.Failed = def.Failed
	}
	return fs
}

// Any reports whether any lifecycle event exists for the key. This is the
// once-guard condition: a bare requested with no terminal outcome still
// counts as "already attempted".
func (fs FinderSet) Any(s State, key Key) bool {
	fs = fs.OrDefaults()
	if _, ok := fs.Requested(s, key); ok {
		return true
	}
	if _, ok := fs.Succeeded(s, key); ok {
		return true
	}
	_, ok := fs.Failed(s, key)
	return ok
}

// FromAppState extracts a tracking State from a composite application state
// map under the given key. Integrators that keep tracking history inside a
// larger state object (the historical "requests" slot) use this to adapt
// their accessor to the finder shape. Returns an empty State when the slot
// is absent or has an unexpected type.
func FromAppState(app map[string]any, key string) State {
	if app == nil {
		return State{}
	}
	switch v := app[key].(type) {
	case State:
		return v
	case map[string]MethodHistory:
		return State(v)
	default:
		return State{}
	}
}
