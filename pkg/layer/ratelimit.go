package layer

import (
	"context"

	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/auth"
)

// RateLimitLayer gates outgoing calls through a token-bucket limiter before
// they reach the rest of the stack. It never contacts the agent when the
// bucket is empty, unlike the 429 a server can return once a request is
// already in flight.
type RateLimitLayer struct {
	next    Handler
	limiter *auth.RateLimiter
}

// NewRateLimitLayer wraps next with limiter, or returns next unwrapped if
// limiter is nil (no client-side rate limiting configured).
func NewRateLimitLayer(next Handler, limiter *auth.RateLimiter) Handler {
	if limiter == nil {
		return next
	}
	return &RateLimitLayer{next: next, limiter: limiter}
}

func (r *RateLimitLayer) Handle(ctx context.Context, op a2a.Operation) (a2a.Response, error) {
	if !r.limiter.Allow() {
		return a2a.Response{}, a2a.NewError(a2a.KindRateLimitExceeded, "client-side rate limit exceeded")
	}
	return r.next.Handle(ctx, op)
}
