package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/outcall"
	"github.com/xraph/outcall/api"
)

// Logging returns middleware that logs request start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, d *api.Descriptor, next Handler) (*outcall.Response, error) {
		logger.Info("request started",
			slog.String("api", d.Name()),
			slog.String("call_id", d.CallID()),
			slog.String("method", d.Routing.Verb()),
			slog.String("path", d.Routing.Path),
		)

		start := time.Now()
		resp, err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("request failed",
				slog.String("api", d.Name()),
				slog.String("call_id", d.CallID()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			attrs := []any{
				slog.String("api", d.Name()),
				slog.String("call_id", d.CallID()),
				slog.Duration("elapsed", elapsed),
			}
			// A nil response can reach the chain from middleware that
			// swallow the response without raising an error.
			if resp != nil {
				attrs = append(attrs, slog.Int("status", resp.StatusCode))
			}
			logger.Info("request completed", attrs...)
		}

		return resp, err
	}
}
