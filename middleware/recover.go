package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/xraph/outcall"
	"github.com/xraph/outcall/api"
)

// Recover returns middleware that recovers from panics inside the handler
// chain, converting them to errors with a logged stack trace.
//
// It is not part of any default chain: the engine's contract is that
// integrator panics surface to the caller. Add it explicitly when a
// panicking transport must degrade to a failed dispatch instead.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, d *api.Descriptor, next Handler) (resp *outcall.Response, retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("request handler panicked",
					slog.String("api", d.Name()),
					slog.String("call_id", d.CallID()),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				resp = nil
				retErr = fmt.Errorf("panic in api %s: %v", d.Name(), r)
			}
		}()
		return next(ctx)
	}
}
