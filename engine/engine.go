package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/outcall"
	"github.com/xraph/outcall/api"
	"github.com/xraph/outcall/middleware"
	"github.com/xraph/outcall/tracking"
	"github.com/xraph/outcall/tracking/memory"
	"github.com/xraph/outcall/transport"
)

// Engine is the request dispatch core. Create one with New; it is safe for
// concurrent use. The offline setting is fixed at construction time.
type Engine struct {
	config    outcall.Config
	registry  *api.Registry
	transport transport.Func
	store     tracking.Store
	emitters  tracking.Emitters
	finders   tracking.FinderSet
	accessor  Accessor
	mw        middleware.Middleware
	mws       []middleware.Middleware
	logger    *slog.Logger

	noDefaultMws bool

	// OpenTelemetry providers (optional; nil means use global).
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// New creates an Engine from the given options. A registry is required;
// everything else has defaults: in-memory tracking store, HTTP transport,
// store-backed emitters, keyed finders, slog.Default().
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		config: outcall.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.registry == nil {
		return nil, outcall.ErrNoRegistry
	}
	if e.store == nil {
		e.store = memory.New()
	}
	if e.transport == nil {
		e.transport = transport.NewHTTP()
	}
	if e.accessor == nil {
		e.accessor = e.store.History
	}
	e.finders = e.finders.OrDefaults()
	e.emitters = mergeEmitters(e.emitters, tracking.StoreEmitters(e.store))
	e.mw = middleware.Chain(e.buildChain()...)

	return e, nil
}

// buildChain assembles the middleware stack: tracing → metrics → logging,
// then any user middleware.
func (e *Engine) buildChain() []middleware.Middleware {
	if e.noDefaultMws {
		return e.mws
	}

	var tracingMw middleware.Middleware
	if e.tracerProvider != nil {
		tracingMw = middleware.TracingWithTracer(e.tracerProvider.Tracer("github.com/xraph/outcall"))
	} else {
		tracingMw = middleware.Tracing()
	}

	var metricsMw middleware.Middleware
	if e.meterProvider != nil {
		metricsMw = middleware.MetricsWithMeter(e.meterProvider.Meter("github.com/xraph/outcall"))
	} else {
		metricsMw = middleware.Metrics()
	}

	chain := []middleware.Middleware{tracingMw, metricsMw, middleware.Logging(e.logger)}
	return append(chain, e.mws...)
}

// mergeEmitters fills nil emitter slots from the store-backed defaults.
func mergeEmitters(em, def tracking.Emitters) tracking.Emitters {
	if em.Requested == nil {
		em.Requested = def.Requested
	}
	if em.Succeeded == nil {
		em.Succeeded = def.Succeeded
	}
	if em.Failed == nil {
		em.Failed = def.Failed
	}
	return em
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Store returns the engine's tracking store.
func (e *Engine) Store() tracking.Store { return e.store }

// Registry returns the API registry.
func (e *Engine) Registry() *api.Registry { return e.registry }

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() outcall.Config { return e.config }

// Close releases the tracking store. Backends whose clients are owned by
// the caller treat this as a no-op.
func (e *Engine) Close() error { return e.store.Close() }

// Dispatch resolves the named API, records the request lifecycle, executes
// it online or offline, and settles the result.
//
// The REQUESTED event is always emitted before execution begins. Factory
// errors propagate unchanged with no tracking events. Transport errors are
// recorded as FAILED, routed to OnFailure (or logged when absent), and
// always returned — never swallowed.
func (e *Engine) Dispatch(ctx context.Context, name string, args ...any) (*outcall.Response, error) {
	d, err := e.resolve(name, args...)
	if err != nil {
		return nil, err
	}
	return e.execute(ctx, d)
}

// DispatchOnce is Dispatch behind the once-guard: it builds the routing
// (invoking the factory, no side effects), and if any lifecycle event
// already exists for the (path, method) key, resolves immediately with
// (nil, nil) — no tracking events emitted, no transport invoked. With no
// prior history it behaves identically to Dispatch.
//
// "Any lifecycle event" includes a bare REQUESTED without a terminal
// outcome. Callers wanting retry-after-failure semantics clear the key's
// history via the tracking store first.
func (e *Engine) DispatchOnce(ctx context.Context, name string, args ...any) (*outcall.Response, error) {
	d, err := e.resolve(name, args...)
	if err != nil {
		return nil, err
	}

	key := d.Key()
	seen, err := e.Dispatched(ctx, key)
	if err != nil {
		return nil, err
	}
	if seen {
		e.logger.Debug("dispatch skipped, endpoint already attempted",
			slog.String("api", name),
			slog.String("key", key.String()),
		)
		return nil, nil
	}
	return e.execute(ctx, d)
}

// Dispatched reports whether any lifecycle event exists for the key.
func (e *Engine) Dispatched(ctx context.Context, key tracking.Key) (bool, error) {
	state, err := e.accessor(ctx)
	if err != nil {
		return false, fmt.Errorf("outcall: read tracking state: %w", err)
	}
	return e.finders.Any(state, key), nil
}

// resolve looks up the factory and builds a fresh descriptor for one call.
func (e *Engine) resolve(name string, args ...any) (*api.Descriptor, error) {
	factory, ok := e.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", outcall.ErrUnknownAPI, name)
	}
	d, err := factory(args...)
	if err != nil {
		// Factory errors propagate unchanged; the engine neither wraps
		// nor records them.
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: api %q factory returned nil descriptor", outcall.ErrNilFactory, name)
	}
	if d.Routing.Path == "" {
		return nil, fmt.Errorf("%w: api %q", outcall.ErrNilRouting, name)
	}
	d.SetName(name)
	d.SetCallID(uuid.NewString())
	return d, nil
}

// execute runs one dispatch: REQUESTED, then the transport or the offline
// stub through the middleware chain, then the terminal event, callbacks,
// and settlement.
func (e *Engine) execute(ctx context.Context, d *api.Descriptor) (*outcall.Response, error) {
	key := d.Key()
	now := time.Now().UTC()
	if emitErr := e.emitters.Requested(ctx, key, now); emitErr != nil {
		e.logEmitError(d, tracking.EventRequested, emitErr)
	}

	var terminal middleware.Handler
	if e.config.Offline.Enabled() {
		if d.OfflineResponder == nil {
			// REQUESTED has been emitted; no terminal event follows.
			return nil, fmt.Errorf("%w: %q", outcall.ErrMissingOfflineHandler, d.Name())
		}
		terminal = e.offlineHandler(d)
	} else {
		terminal = func(ctx context.Context) (*outcall.Response, error) {
			return e.transport(ctx, d.Routing)
		}
	}

	// The nil→ErrNilResponse conversion happens before the chain unwinds,
	// so middleware observing the result never see a nil success.
	inner := terminal
	terminal = func(ctx context.Context) (*outcall.Response, error) {
		resp, err := inner(ctx)
		if err == nil && resp == nil {
			return nil, fmt.Errorf("%w: api %q", outcall.ErrNilResponse, d.Name())
		}
		return resp, err
	}

	resp, err := e.mw(ctx, d, terminal)
	if err == nil && resp == nil {
		// A middleware dropped the response without raising an error.
		err = fmt.Errorf("%w: api %q", outcall.ErrNilResponse, d.Name())
	}

	if err != nil {
		if emitErr := e.emitters.Failed(ctx, key, time.Now().UTC(), e.config.ClearOnTerminal); emitErr != nil {
			e.logEmitError(d, tracking.EventFailed, emitErr)
		}
		if d.OnFailure != nil {
			d.OnFailure(ctx, err, e.Dispatch)
		} else {
			e.logger.Error("request failed with no failure handler",
				slog.String("api", d.Name()),
				slog.String("call_id", d.CallID()),
				slog.String("key", key.String()),
				slog.String("error", err.Error()),
			)
		}
		// The original error always reaches the caller, whether or not
		// OnFailure handled it.
		return nil, err
	}

	if emitErr := e.emitters.Succeeded(ctx, key, time.Now().UTC(), e.config.ClearOnTerminal); emitErr != nil {
		e.logEmitError(d, tracking.EventSucceeded, emitErr)
	}
	if d.OnSuccess != nil {
		// Fire-and-forget from the engine's perspective: panics here
		// propagate to the caller rather than being masked.
		d.OnSuccess(ctx, resp, e.Dispatch)
	}
	return resp, nil
}

// offlineHandler builds the terminal handler for offline execution: wait
// the configured delay, then compute the stub from current tracking state.
// The delay waits on a plain timer — dispatches run to completion and are
// not aborted by context cancellation.
func (e *Engine) offlineHandler(d *api.Descriptor) middleware.Handler {
	return func(ctx context.Context) (*outcall.Response, error) {
		if wait := e.config.Offline.Wait(); wait > 0 {
			<-time.After(wait)
		}
		state, err := e.accessor(ctx)
		if err != nil {
			return nil, fmt.Errorf("outcall: read tracking state for offline stub: %w", err)
		}
		return d.OfflineResponder(state), nil
	}
}

func (e *Engine) logEmitError(d *api.Descriptor, event tracking.Event, err error) {
	e.logger.Error("tracking emission failed",
		slog.String("api", d.Name()),
		slog.String("call_id", d.CallID()),
		slog.String("event", string(event)),
		slog.String("error", err.Error()),
	)
}
