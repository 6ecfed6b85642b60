package outcall

import "errors"

var (
	// Registry errors.
	ErrNoRegistry  = errors.New("outcall: no api registry configured")
	ErrUnknownAPI  = errors.New("outcall: unknown api")
	ErrNilFactory  = errors.New("outcall: nil descriptor factory")
	ErrNilRouting  = errors.New("outcall: descriptor has empty routing path")
	ErrNilResponse = errors.New("outcall: transport returned nil response without error")

	// Offline mode errors.
	ErrMissingOfflineHandler = errors.New("outcall: offline mode active but descriptor has no offline responder")

	// Store errors.
	ErrStoreClosed = errors.New("outcall: tracking store closed")
)
