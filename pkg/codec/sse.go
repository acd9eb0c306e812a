package codec

import (
	"encoding/json"
	"io"

	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/jsonrpc"
	"github.com/theapemachine/a2a-go/pkg/sse"
)

// SSECodec decodes a byte stream chunked as "data: <json>\n\n" events, where
// each event's payload is itself a JSON-RPC response, into StreamEvents.
type SSECodec struct{}

func NewSSECodec() *SSECodec { return &SSECodec{} }

func (c *SSECodec) ContentType() string { return "text/event-stream" }

// DecodeEvent turns one SSE event's raw data payload into a StreamEvent.
// kind defaults to "event" and final to false when result omits them, per
// spec.md §4.2. A JSON-RPC error in the envelope is a fatal stream-level
// Protocol error.
func (c *SSECodec) DecodeEvent(data []byte) (a2a.StreamEvent, error) {
	var resp jsonrpc.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return a2a.StreamEvent{}, a2a.Wrap(a2a.KindSerialization, err)
	}

	if resp.Error != nil {
		return a2a.StreamEvent{}, a2a.NewError(a2a.KindProtocol,
			"json-rpc error in stream: "+resp.Error.Message)
	}

	var result struct {
		Kind  string `json:"kind"`
		Final bool   `json:"final"`
	}
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &result); err != nil {
			return a2a.StreamEvent{}, a2a.Wrap(a2a.KindSerialization, err)
		}
	}

	kind := result.Kind
	if kind == "" {
		kind = "event"
	}

	var payload map[string]any
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &payload); err != nil {
			return a2a.StreamEvent{}, a2a.Wrap(a2a.KindSerialization, err)
		}
	}

	return a2a.StreamEvent{Kind: kind, Final: result.Final, Payload: payload}, nil
}

// DecodeStream reads events off r until EOF or error, invoking emit for
// each successfully decoded StreamEvent. A JSON-RPC error event terminates
// the stream and is returned as the function's error.
func (c *SSECodec) DecodeStream(r io.Reader, emit func(a2a.StreamEvent) error) error {
	reader := sse.NewReader(r)
	for {
		ev, err := reader.ReadEvent()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return a2a.Wrap(a2a.KindTransport, err)
		}

		decoded, err := c.DecodeEvent(ev.Data)
		if err != nil {
			return err
		}
		if err := emit(decoded); err != nil {
			return err
		}
	}
}
