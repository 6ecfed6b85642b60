// Package offline normalizes loosely-typed offline-mode configuration into
// a canonical setting: disabled (always online) or enabled with an
// artificial delay.
//
// Two entry points exist. Parse is the strict path: it accepts the
// documented legacy input forms (booleans, "true"/"false", numeric strings,
// non-negative numbers) and rejects everything else with a typed
// *ParseError. Normalize preserves the fully lenient legacy behavior for
// environment-variable-driven configuration, where an unparseable string
// silently means "online"; NormalizeWithLogger applies the same fallback
// but reports the coercion as a warning.
package offline

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Setting is the canonical offline-mode value. The zero value is Disabled.
type Setting struct {
	enabled bool
	delay   time.Duration
}

// Disabled returns the online setting: requests go to the real transport.
func Disabled() Setting { return Setting{} }

// Delay returns an enabled setting with the given artificial delay.
// A zero delay is valid: offline, responding immediately.
func Delay(d time.Duration) Setting {
	return Setting{enabled: true, delay: d}
}

// Enabled reports whether offline mode is active.
func (s Setting) Enabled() bool { return s.enabled }

// Wait returns the artificial delay applied before an offline response.
// Zero when the setting is disabled.
func (s Setting) Wait() time.Duration { return s.delay }

// String implements fmt.Stringer for log output.
func (s Setting) String() string {
	if !s.enabled {
		return "online"
	}
	return fmt.Sprintf("offline(%s)", s.delay)
}

// ParseError reports an offline-mode input that strict parsing rejected.
type ParseError struct {
	// Input is the original value, retained for diagnostics.
	Input any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("offline: unrecognized offline setting %v (%T)", e.Input, e.Input)
}

// Parse converts a loosely-typed offline-mode input into a Setting.
//
// Recognized forms, preserved from the legacy configuration surface:
//   - true, "true"  → offline with zero delay
//   - false, "false" → online
//   - a non-negative integer or float → offline with that many milliseconds
//   - a numeric string → offline with that many milliseconds
//   - a time.Duration → offline with that delay
//   - a Setting → returned unchanged
//
// Anything else — negative numbers, arbitrary non-numeric strings, other
// types — returns a *ParseError. Callers that need the legacy
// string-means-online fallback use Normalize instead.
func Parse(raw any) (Setting, error) {
	switch v := raw.(type) {
	case nil:
		return Disabled(), nil
	case Setting:
		return v, nil
	case bool:
		if v {
			return Delay(0), nil
		}
		return Disabled(), nil
	case time.Duration:
		if v < 0 {
			return Setting{}, &ParseError{Input: raw}
		}
		return Delay(v), nil
	case int:
		return fromMillis(float64(v), raw)
	case int64:
		return fromMillis(float64(v), raw)
	case float64:
		return fromMillis(v, raw)
	case string:
		switch v {
		case "true":
			return Delay(0), nil
		case "false":
			return Disabled(), nil
		}
		ms, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Setting{}, &ParseError{Input: raw}
		}
		return fromMillis(ms, raw)
	default:
		return Setting{}, &ParseError{Input: raw}
	}
}

// Normalize converts a loosely-typed input into a Setting using the lenient
// legacy rules: everything Parse accepts, plus any unrecognized value maps
// to Disabled. This keeps environment-variable flows working when the
// variable holds junk — a broken setting must never break requests.
func Normalize(raw any) Setting {
	s, err := Parse(raw)
	if err != nil {
		return Disabled()
	}
	return s
}

// NormalizeWithLogger is Normalize with the coercion reported: when the
// input is a value strict parsing would reject, a warning is logged before
// falling back to Disabled. Use it on the env-driven path so junk
// configuration leaves a trace instead of silently meaning "online".
func NormalizeWithLogger(raw any, logger *slog.Logger) Setting {
	s, err := Parse(raw)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("unrecognized offline setting, staying online",
			slog.Any("input", raw),
			slog.String("error", err.Error()),
		)
		return Disabled()
	}
	return s
}

func fromMillis(ms float64, raw any) (Setting, error) {
	if ms < 0 {
		return Setting{}, &ParseError{Input: raw}
	}
	return Delay(time.Duration(ms * float64(time.Millisecond))), nil
}
