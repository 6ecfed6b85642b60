package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xraph/outcall"
)

// httpOptions holds configuration for the default HTTP transport.
type httpOptions struct {
	baseURL string
	client  *http.Client
	header  http.Header
}

// HTTPOption configures NewHTTP.
type HTTPOption func(*httpOptions)

// WithBaseURL prefixes every routing path with the given base URL.
func WithBaseURL(base string) HTTPOption {
	return func(o *httpOptions) { o.baseURL = strings.TrimRight(base, "/") }
}

// WithClient sets the *http.Client used for requests. Defaults to a client
// with a 30 second timeout.
func WithClient(c *http.Client) HTTPOption {
	return func(o *httpOptions) { o.client = c }
}

// WithHeader adds a header sent on every request (auth tokens, API keys).
func WithHeader(key, value string) HTTPOption {
	return func(o *httpOptions) {
		if o.header == nil {
			o.header = http.Header{}
		}
		o.header.Add(key, value)
	}
}

// NewHTTP returns the default transport: a net/http client that JSON-encodes
// the routing body and reads the full response. Non-2xx statuses are not
// errors — the response is returned as-is and interpretation is left to the
// caller, keeping the transport contract pass-through.
func NewHTTP(opts ...HTTPOption) Func {
	o := &httpOptions{
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(o)
	}

	return func(ctx context.Context, routing outcall.Routing) (*outcall.Response, error) {
		var body io.Reader
		if routing.Body != nil {
			data, err := json.Marshal(routing.Body)
			if err != nil {
				return nil, fmt.Errorf("transport: encode body for %s %s: %w", routing.Verb(), routing.Path, err)
			}
			body = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, routing.Verb(), o.baseURL+routing.Path, body)
		if err != nil {
			return nil, fmt.Errorf("transport: build request for %s %s: %w", routing.Verb(), routing.Path, err)
		}
		if routing.Body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for key, values := range o.header {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}

		resp, err := o.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("transport: %s %s: %w", routing.Verb(), routing.Path, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("transport: read response for %s %s: %w", routing.Verb(), routing.Path, err)
		}

		return &outcall.Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       data,
		}, nil
	}
}
