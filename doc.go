// Package outcall provides a client-side request-tracking layer. It wraps an
// arbitrary asynchronous request function, records each request's lifecycle
// (requested / succeeded / failed) into a pluggable tracking store, and
// offers deduplication of already-attempted requests ("dispatch once").
// A fully offline mode substitutes canned responses, with configurable
// delay, in place of real network calls.
//
// Outcall is designed as a library, not a service. Import it, configure a
// tracking store and an API registry, and dispatch requests through the
// engine.
//
// # Quick Start
//
//	reg := api.NewRegistry()
//	reg.Register("user.get", func(args ...any) (*api.Descriptor, error) {
//	    return &api.Descriptor{
//	        Routing: outcall.Routing{Method: "GET", Path: "/users/" + args[0].(string)},
//	    }, nil
//	})
//
//	eng, err := engine.New(
//	    engine.WithRegistry(reg),
//	    engine.WithTrackingStore(memory.New()),
//	    engine.WithTransport(transport.NewHTTP(transport.WithBaseURL("https://api.example.com"))),
//	)
//
//	resp, err := eng.Dispatch(ctx, "user.get", "u_123")
//
// # Architecture
//
// Outcall follows a composable store pattern: the tracking package defines
// the store contract and a single backend implements it (memory, redis,
// postgres, bun). The engine never reads back its own writes within one
// dispatch; the once-guard consults tracking state strictly before issuing
// a new request.
package outcall
