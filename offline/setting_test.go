package offline

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   any
		want    Setting
		wantErr bool
	}{
		{"bool true", true, Delay(0), false},
		{"bool false", false, Disabled(), false},
		{"string true", "true", Delay(0), false},
		{"string false", "false", Disabled(), false},
		{"numeric string", "5", Delay(5 * time.Millisecond), false},
		{"float string", "2.5", Delay(2500 * time.Microsecond), false},
		{"int millis", 250, Delay(250 * time.Millisecond), false},
		{"zero", 0, Delay(0), false},
		{"duration", 3 * time.Second, Delay(3 * time.Second), false},
		{"already a setting", Delay(time.Second), Delay(time.Second), false},
		{"nil", nil, Disabled(), false},
		{"garbage string", "abc", Setting{}, true},
		{"negative int", -1, Setting{}, true},
		{"negative duration", -time.Second, Setting{}, true},
		{"struct input", struct{}{}, Setting{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Fatalf("Parse(%v) error = %v, want *ParseError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%v): %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLenientFallback(t *testing.T) {
	t.Parallel()

	// The legacy contract: unparseable inputs mean online, never an error.
	tests := []struct {
		name  string
		input any
		want  Setting
	}{
		{"string true", "true", Delay(0)},
		{"string false", "false", Disabled()},
		{"numeric string", "5", Delay(5 * time.Millisecond)},
		{"garbage string", "abc", Disabled()},
		{"bool true", true, Delay(0)},
		{"bool false", false, Disabled()},
		{"negative number", -7, Disabled()},
		{"map input", map[string]int{"delay": 5}, Disabled()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Fatalf("Normalize(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeWithLoggerReportsCoercion(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	// A rejected input falls back to online with a logged warning.
	if got := NormalizeWithLogger("abc", logger); got != Disabled() {
		t.Fatalf("NormalizeWithLogger(abc) = %v, want Disabled", got)
	}
	if !strings.Contains(buf.String(), "unrecognized offline setting") {
		t.Fatalf("coercion not reported: %s", buf.String())
	}

	// Valid inputs pass through silently.
	buf.Reset()
	if got := NormalizeWithLogger("5", logger); got != Delay(5*time.Millisecond) {
		t.Fatalf("NormalizeWithLogger(5) = %v", got)
	}
	if buf.Len() != 0 {
		t.Fatalf("valid input logged a warning: %s", buf.String())
	}
}

func TestSettingString(t *testing.T) {
	t.Parallel()

	if got := Disabled().String(); got != "online" {
		t.Fatalf("Disabled().String() = %q", got)
	}
	if got := Delay(250 * time.Millisecond).String(); got != "offline(250ms)" {
		t.Fatalf("Delay(250ms).String() = %q", got)
	}
}
