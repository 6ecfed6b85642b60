// Package engine implements the request dispatch core: it resolves API
// descriptors, decides online versus offline execution, emits lifecycle
// tracking events, runs the transport or stub through the middleware chain,
// invokes per-call callbacks, and settles the result.
//
// # Building an Engine
//
//	eng, err := engine.New(
//	    engine.WithRegistry(reg),
//	    engine.WithTrackingStore(memory.New()),
//	    engine.WithTransport(transport.NewHTTP(transport.WithBaseURL(base))),
//	    engine.WithOfflineInput(os.Getenv("OUTCALL_OFFLINE")),
//	)
//
// # Dispatching
//
//	resp, err := eng.Dispatch(ctx, "user.get", userArgs{ID: "42"})
//
//	// At most once per (path, method) until its history is cleared:
//	resp, err := eng.DispatchOnce(ctx, "user.get", userArgs{ID: "42"})
//	if resp == nil && err == nil {
//	    // skipped: the endpoint already has tracking history
//	}
//
// # Event ordering
//
// Every dispatch emits REQUESTED before execution begins. Online, a
// fulfilled transport emits SUCCEEDED and a rejected one emits FAILED; the
// original transport error is always returned, never swallowed. Offline,
// the configured delay elapses in full before SUCCEEDED, the OnSuccess
// callback, and resolution.
//
// # Deduplication caveats
//
// DispatchOnce consults tracking state strictly before emitting anything,
// so two overlapping calls for the same key can both dispatch — the guard
// reduces duplicates, it does not atomically prevent them. A bare
// REQUESTED with no terminal outcome also blocks re-dispatch; callers
// wanting retry-after-failure clear the key's history explicitly.
package engine
