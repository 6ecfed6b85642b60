package outcall

import "github.com/xraph/outcall/offline"

// Config holds engine-level configuration.
type Config struct {
	// Offline controls whether requests are stubbed instead of sent, and
	// with how much artificial delay. Fixed at engine construction time.
	Offline offline.Setting

	// ClearOnTerminal controls whether a succeeded/failed emission clears
	// prior tracking history for its (path, method) key. This is the
	// caller-controlled policy consulted for every terminal emission.
	ClearOnTerminal bool
}

// DefaultConfig returns a Config with sensible defaults: online, and
// terminal events clear prior history for their key.
func DefaultConfig() Config {
	return Config{
		Offline:         offline.Disabled(),
		ClearOnTerminal: true,
	}
}
