// Package transport delivers request bytes to an agent and surfaces
// responses and streams. HTTP and WebSocket implementations share one
// Transport contract; WebSocket additionally owns the concurrent request
// multiplexer described in spec.md §4.4.
package transport

import (
	"context"

	"github.com/theapemachine/a2a-go/pkg/a2a"
)

// Request is a fully-built outbound call: method, path (relative to the
// transport's base URL), headers, and an optional body.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    []byte
}

// Response is what a transport returns for a non-streaming call.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// Transport is the contract every binding (HTTP, WebSocket, mock) satisfies.
type Transport interface {
	// PollReady reports whether the transport can accept a call right now.
	// HTTP is always ready; WebSocket is always ready (buffered) — callers
	// that want to bound outstanding requests must gate externally.
	PollReady(ctx context.Context) error

	// Execute delivers req and returns the raw response.
	Execute(ctx context.Context, req Request) (Response, error)

	BaseURL() string
	SupportsStreaming() bool
}

// StreamingTransport is implemented by transports whose SupportsStreaming
// returns true. ExecuteStreaming returns a channel of StreamItems; the
// channel is closed when the stream ends, and a terminal error (if any) is
// delivered as a last StreamItem with Err set before the channel closes —
// callers read until the channel closes, checking each item's Err.
type StreamingTransport interface {
	Transport
	ExecuteStreaming(ctx context.Context, req Request) (<-chan StreamItem, error)
}

// StreamItem is one element of a streaming transport's output: either an
// event or a terminal error, never both.
type StreamItem struct {
	Event a2a.StreamEvent
	Err   error
}
