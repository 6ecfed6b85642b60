package tracking

import (
	"testing"
	"time"
)

func fixtureState() State {
	s := State{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Set(NewKey("/users", "GET"), EventRequested, now)
	s.Set(NewKey("/users", "GET"), EventSucceeded, now.Add(time.Second))
	s.Set(NewKey("/orders", "POST"), EventFailed, now)
	s.Set(NewKey("/pending", "GET"), EventRequested, now)
	return s
}

func TestDefaultFinders(t *testing.T) {
	t.Parallel()
	s := fixtureState()
	fs := DefaultFinders()

	tests := []struct {
		name   string
		finder Finder
		key    Key
		want   bool
	}{
		{"requested hit", fs.Requested, NewKey("/users", "GET"), true},
		{"succeeded hit", fs.Succeeded, NewKey("/users", "GET"), true},
		{"failed miss on succeeded key", fs.Failed, NewKey("/users", "GET"), false},
		{"failed hit", fs.Failed, NewKey("/orders", "POST"), true},
		{"method mismatch", fs.Requested, NewKey("/users", "POST"), false},
		{"unknown path", fs.Requested, NewKey("/nope", "GET"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.finder(s, tt.key); ok != tt.want {
				t.Fatalf("finder(%v) found=%v, want %v", tt.key, ok, tt.want)
			}
		})
	}
}

func TestFinderSetAny(t *testing.T) {
	t.Parallel()
	s := fixtureState()
	fs := FinderSet{} // all nil: exercises OrDefaults

	// A bare requested with no terminal outcome still counts.
	if !fs.Any(s, NewKey("/pending", "GET")) {
		t.Fatal("Any(/pending) = false, want true")
	}
	if !fs.Any(s, NewKey("/orders", "POST")) {
		t.Fatal("Any(/orders) = false, want true")
	}
	if fs.Any(s, NewKey("/fresh", "GET")) {
		t.Fatal("Any(/fresh) = true, want false")
	}
}

func TestFinderSetPartialOverride(t *testing.T) {
	t.Parallel()
	s := fixtureState()

	// Override only the failed finder to never match; the other two keep
	// their default behavior.
	fs := FinderSet{
		Failed: func(State, Key) (time.Time, bool) { return time.Time{}, false },
	}
	if fs.Any(s, NewKey("/orders", "POST")) {
		t.Fatal("Any should miss when the only event is failed and the failed finder is disabled")
	}
	if !fs.Any(s, NewKey("/users", "GET")) {
		t.Fatal("default requested/succeeded finders should still match")
	}
}

func TestFromAppState(t *testing.T) {
	t.Parallel()
	s := fixtureState()

	got := FromAppState(map[string]any{"requests": s}, "requests")
	if _, ok := got.Lookup(NewKey("/users", "GET"), EventSucceeded); !ok {
		t.Fatal("FromAppState lost the tracking slot")
	}

	if got := FromAppState(map[string]any{"requests": 42}, "requests"); len(got) != 0 {
		t.Fatalf("FromAppState on wrong type = %v, want empty", got)
	}
	if got := FromAppState(nil, "requests"); len(got) != 0 {
		t.Fatalf("FromAppState(nil) = %v, want empty", got)
	}
}

func TestStateClone(t *testing.T) {
	t.Parallel()
	s := fixtureState()
	c := s.Clone()

	c.Set(NewKey("/users", "GET"), EventFailed, time.Now())
	if _, ok := s.Lookup(NewKey("/users", "GET"), EventFailed); ok {
		t.Fatal("mutating the clone leaked into the original")
	}
}
