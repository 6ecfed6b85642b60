package engine

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/outcall"
	"github.com/xraph/outcall/api"
	"github.com/xraph/outcall/middleware"
	"github.com/xraph/outcall/offline"
	"github.com/xraph/outcall/tracking"
	"github.com/xraph/outcall/transport"
)

// Option configures an Engine.
type Option func(*Engine) error

// Accessor returns the current tracking state. The once-guard runs finder
// queries against it, and offline responders receive it to compute stubs.
type Accessor func(ctx context.Context) (tracking.State, error)

// WithRegistry sets the API registry. Required.
func WithRegistry(r *api.Registry) Option {
	return func(e *Engine) error {
		e.registry = r
		return nil
	}
}

// WithTransport sets the injected request function. Defaults to the HTTP
// transport with no base URL.
func WithTransport(fn transport.Func) Option {
	return func(e *Engine) error {
		e.transport = fn
		return nil
	}
}

// WithTrackingStore sets the persistence backend for lifecycle events.
// Defaults to the in-memory store.
func WithTrackingStore(s tracking.Store) Option {
	return func(e *Engine) error {
		e.store = s
		return nil
	}
}

// WithEmitters overrides the tracking side-effect channel. Nil fields keep
// the store-backed default for that event.
func WithEmitters(em tracking.Emitters) Option {
	return func(e *Engine) error {
		e.emitters = em
		return nil
	}
}

// WithFinders overrides the once-guard lookups. Nil fields keep the
// default keyed lookup for that event.
func WithFinders(fs tracking.FinderSet) Option {
	return func(e *Engine) error {
		e.finders = fs
		return nil
	}
}

// WithHistoryAccessor overrides the state read path. Defaults to the
// tracking store's History. Integrators holding tracking state inside a
// larger application state adapt it here (see tracking.FromAppState).
func WithHistoryAccessor(a Accessor) Option {
	return func(e *Engine) error {
		e.accessor = a
		return nil
	}
}

// WithOffline sets the offline mode setting directly.
func WithOffline(s offline.Setting) Option {
	return func(e *Engine) error {
		e.config.Offline = s
		return nil
	}
}

// WithOfflineInput parses a loosely-typed offline setting (booleans,
// "true"/"false", numeric strings, millisecond numbers). Unrecognized
// shapes fail construction with a typed *offline.ParseError rather than
// being silently coerced. Callers that want the lenient legacy fallback
// pass offline.Normalize(raw) to WithOffline instead.
func WithOfflineInput(raw any) Option {
	return func(e *Engine) error {
		s, err := offline.Parse(raw)
		if err != nil {
			return err
		}
		e.config.Offline = s
		return nil
	}
}

// WithClearOnTerminal controls whether succeeded/failed emissions clear
// prior history for their key. Defaults to true.
func WithClearOnTerminal(clear bool) Option {
	return func(e *Engine) error {
		e.config.ClearOnTerminal = clear
		return nil
	}
}

// WithConfig replaces the whole engine configuration.
func WithConfig(cfg outcall.Config) Option {
	return func(e *Engine) error {
		e.config = cfg
		return nil
	}
}

// WithLogger sets the structured logger for the engine.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) error {
		e.logger = l
		return nil
	}
}

// WithMiddleware adds middleware to the engine's chain, after the default
// tracing/metrics/logging stack.
func WithMiddleware(m middleware.Middleware) Option {
	return func(e *Engine) error {
		e.mws = append(e.mws, m)
		return nil
	}
}

// WithoutDefaultMiddleware disables the built-in tracing/metrics/logging
// chain, leaving only middleware added via WithMiddleware.
func WithoutDefaultMiddleware() Option {
	return func(e *Engine) error {
		e.noDefaultMws = true
		return nil
	}
}

// WithTracerProvider sets a custom OTel TracerProvider for the engine.
// When set, the tracing middleware uses this provider instead of the
// global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) error {
		e.tracerProvider = tp
		return nil
	}
}

// WithMeterProvider sets a custom OTel MeterProvider for the engine.
// When set, the metrics middleware uses this provider instead of the
// global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(e *Engine) error {
		e.meterProvider = mp
		return nil
	}
}
