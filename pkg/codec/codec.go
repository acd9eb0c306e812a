// Package codec binds abstract A2A operations to wire bytes and back. Three
// bindings share one Codec contract: plain JSON, JSON-RPC 2.0, and SSE event
// stream parsing.
package codec

import (
	"github.com/theapemachine/a2a-go/pkg/a2a"
)

// Codec is the single surface responsible for wire representation of an
// operation's request body and the decoding of its response body.
type Codec interface {
	// EncodeRequest turns an operation into request body bytes. Under the
	// plain-JSON codec, GET-shaped operations (GetTask, ListTasks,
	// DiscoverAgent, SubscribeTask) return nil, nil: the caller emits an
	// empty body. The JSON-RPC codec returns a full envelope for every
	// operation.
	EncodeRequest(op a2a.Operation) ([]byte, error)

	// DecodeResponse turns response body bytes into a Response, dispatching
	// on which operation produced them.
	DecodeResponse(body []byte, op a2a.Operation) (a2a.Response, error)

	// ContentType is the MIME type this codec's bodies carry, used for both
	// Content-Type and Accept headers.
	ContentType() string
}
