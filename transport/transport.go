// Package transport defines the injected request function contract and
// provides the default HTTP implementation.
//
// The engine treats the routing shape as pass-through: whatever the
// descriptor factory put in Routing reaches the transport unvalidated.
package transport

import (
	"context"

	"github.com/xraph/outcall"
)

// Func executes one request described by the routing and returns the
// response. This is the only injection point for the network layer; any
// function with this shape can serve — an HTTP client, an SDK call, a
// test double.
type Func func(ctx context.Context, routing outcall.Routing) (*outcall.Response, error)
