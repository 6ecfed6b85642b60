package outcall

import "net/http"

// Routing describes where a single request goes. It is built by an API
// descriptor factory and passed through to the transport unvalidated —
// the transport owns interpretation of Path and Body.
type Routing struct {
	// Method is the HTTP verb. Empty means GET.
	Method string `json:"method"`

	// Path is the request target, relative to whatever base the transport
	// is configured with.
	Path string `json:"path"`

	// Body is an optional payload. The default HTTP transport JSON-encodes
	// it; custom transports may interpret it however they like.
	Body any `json:"body,omitempty"`
}

// Verb returns the routing method, defaulting to GET when unset.
func (r Routing) Verb() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// Response is the settled result of one dispatch, online or offline.
// Offline responders build these directly; the HTTP transport fills them
// from the wire response.
type Response struct {
	// StatusCode is the HTTP status, or 200 for offline stub responses
	// that don't set one explicitly.
	StatusCode int `json:"status_code"`

	// Header carries response headers when the transport provides them.
	Header http.Header `json:"header,omitempty"`

	// Body is the raw response payload.
	Body []byte `json:"body,omitempty"`
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
