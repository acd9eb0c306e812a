// Package layer holds the middleware layers that wrap the protocol service:
// auth header injection and request/response validation. Both satisfy the
// same Operation -> Response contract as the service itself, so they
// compose as a simple decorator chain.
package layer

import (
	"context"

	"github.com/theapemachine/a2a-go/pkg/a2a"
)

// Handler is the contract every layer and the protocol service itself
// satisfy, so layers wrap the service (or each other) transparently.
type Handler interface {
	Handle(ctx context.Context, op a2a.Operation) (a2a.Response, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, op a2a.Operation) (a2a.Response, error)

func (f HandlerFunc) Handle(ctx context.Context, op a2a.Operation) (a2a.Response, error) {
	return f(ctx, op)
}
