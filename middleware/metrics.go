package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xraph/outcall"
	"github.com/xraph/outcall/api"
)

// meterName is the instrumentation scope name for outcall metrics.
const meterName = "github.com/xraph/outcall"

// Metrics returns middleware that records per-request metrics using the
// global OTel MeterProvider. If no MeterProvider is configured, noop
// instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - outcall.request.duration (Float64Histogram): execution time in
//     seconds, with attributes: api, method, status ("ok" or "error")
//   - outcall.request.dispatches (Int64Counter): total dispatches,
//     with attributes: api, method, status ("ok" or "error")
func Metrics() Middleware {
	meter := otel.Meter(meterName)
	return MetricsWithMeter(meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// Create instruments once at middleware construction time.
	// OTel instruments are safe for concurrent use. On error, the API
	// returns noop instruments so the middleware degrades gracefully.
	duration, dErr := meter.Float64Histogram(
		"outcall.request.duration",
		metric.WithDescription("Duration of request execution in seconds"),
		metric.WithUnit("s"),
	)
	_ = dErr // noop fallback guaranteed by OTel API contract

	dispatches, eErr := meter.Int64Counter(
		"outcall.request.dispatches",
		metric.WithDescription("Total number of request dispatches"),
		metric.WithUnit("{dispatch}"),
	)
	_ = eErr // noop fallback guaranteed by OTel API contract

	return func(ctx context.Context, d *api.Descriptor, next Handler) (*outcall.Response, error) {
		start := time.Now()
		resp, err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("api", d.Name()),
			attribute.String("method", d.Routing.Verb()),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		dispatches.Add(ctx, 1, attrs)

		return resp, err
	}
}
