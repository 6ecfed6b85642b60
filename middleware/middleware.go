// Package middleware provides composable middleware for request execution.
// Middleware wraps the transport or offline-stub call synchronously and can
// modify execution (log, add tracing, record metrics, recover from panics).
//
// Middleware wraps only request execution. Descriptor factories and the
// OnSuccess/OnFailure lifecycle callbacks run outside the chain, so their
// failures propagate to the caller unmasked.
package middleware

import (
	"context"

	"github.com/xraph/outcall"
	"github.com/xraph/outcall/api"
)

// Handler is the terminal function that executes the request and produces
// a response.
type Handler func(ctx context.Context) (*outcall.Response, error)

// Middleware wraps a Handler with cross-cutting logic. It receives the
// current context, the descriptor being dispatched, and the next handler.
// Middleware MUST call next to continue the chain (unless short-circuiting
// on error).
type Middleware func(ctx context.Context, d *api.Descriptor, next Handler) (*outcall.Response, error)

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, tracing, metrics) executes as:
//
//	logging → tracing → metrics → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, d *api.Descriptor, next Handler) (*outcall.Response, error) {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) (*outcall.Response, error) {
				return mw(ctx, d, prev)
			}
		}
		return h(ctx)
	}
}
