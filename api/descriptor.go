// Package api defines the per-call API descriptor and the name→factory
// registry the engine resolves dispatches against.
package api

import (
	"context"

	"github.com/xraph/outcall"
	"github.com/xraph/outcall/tracking"
)

// DispatchFunc re-enters the engine, letting lifecycle callbacks chain
// follow-up dispatches without importing the engine package.
type DispatchFunc func(ctx context.Context, name string, args ...any) (*outcall.Response, error)

// OfflineResponder computes a stub response from the current tracking
// state when offline mode is active.
type OfflineResponder func(state tracking.State) *outcall.Response

// Descriptor describes one request: its routing, the offline stub, and
// optional lifecycle callbacks. Descriptors are built fresh by a factory on
// every dispatch; they have no persistent identity.
//
// Required: Routing (always), OfflineResponder (only when offline mode is
// active). OnSuccess and OnFailure are optional capabilities. The engine
// checks the required fields explicitly; a missing offline responder fails
// the call with outcall.ErrMissingOfflineHandler.
type Descriptor struct {
	// Routing is where the request goes. Immutable for the call.
	Routing outcall.Routing

	// OfflineResponder produces the stub response in offline mode.
	OfflineResponder OfflineResponder

	// OnSuccess runs after the succeeded event is recorded and before the
	// dispatch resolves. It is fire-and-forget from the engine's point of
	// view: panics propagate to the caller rather than being masked.
	OnSuccess func(ctx context.Context, resp *outcall.Response, dispatch DispatchFunc)

	// OnFailure runs after the failed event is recorded and before the
	// dispatch rejects. When absent, the engine logs the error instead.
	// The original error is returned to the caller either way.
	OnFailure func(ctx context.Context, err error, dispatch DispatchFunc)

	// name and callID are assigned post-hoc by the engine for diagnostics.
	name   string
	callID string
}

// Key returns the tracking key for the descriptor's routing.
func (d *Descriptor) Key() tracking.Key {
	return tracking.NewKey(d.Routing.Path, d.Routing.Verb())
}

// Name returns the API name the descriptor was resolved under.
func (d *Descriptor) Name() string { return d.name }

// SetName records the API name. Called by the engine after resolution.
func (d *Descriptor) SetName(name string) { d.name = name }

// CallID returns the per-dispatch call identifier.
func (d *Descriptor) CallID() string { return d.callID }

// SetCallID records the call identifier. Called by the engine per dispatch.
func (d *Descriptor) SetCallID(id string) { d.callID = id }
