package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/outcall"
	"github.com/xraph/outcall/api"
)

// tracerName is the instrumentation scope name for outcall tracing.
const tracerName = "github.com/xraph/outcall"

// Tracing returns middleware that wraps request execution in an
// OpenTelemetry span. If no TracerProvider is configured globally, the
// default noop tracer is used and this middleware becomes a pass-through
// with zero overhead.
//
// Span attributes include: outcall.api, outcall.call_id, outcall.method,
// outcall.path. On error, the span status is set to codes.Error with the
// error message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing or
// when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, d *api.Descriptor, next Handler) (*outcall.Response, error) {
		ctx, span := tracer.Start(ctx, "outcall.request.execute",
			trace.WithAttributes(
				attribute.String("outcall.api", d.Name()),
				attribute.String("outcall.call_id", d.CallID()),
				attribute.String("outcall.method", d.Routing.Verb()),
				attribute.String("outcall.path", d.Routing.Path),
			),
			trace.WithSpanKind(trace.SpanKindClient),
		)
		defer span.End()

		resp, err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			if resp != nil {
				span.SetAttributes(attribute.Int("outcall.status_code", resp.StatusCode))
			}
			span.SetStatus(codes.Ok, "")
		}

		return resp, err
	}
}
