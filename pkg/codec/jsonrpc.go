package codec

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/jsonrpc"
)

// JSONRPCCodec wraps the plain-JSON encoding in a JSON-RPC 2.0 envelope.
// Each outgoing envelope carries a fresh time-ordered UUID, satisfying the
// "monotonically increasing unique identifier" requirement without a shared
// counter.
type JSONRPCCodec struct {
	inner *JSONCodec
}

func NewJSONRPCCodec() *JSONRPCCodec {
	return &JSONRPCCodec{inner: NewJSONCodec()}
}

func (c *JSONRPCCodec) ContentType() string { return "application/json" }

// NewRequestID returns a fresh time-ordered UUID suitable for a JSON-RPC id.
func NewRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the system clock/random source is broken;
		// fall back to a random v4 rather than panic.
		return uuid.New().String()
	}
	return id.String()
}

// EncodeRequest builds the full JSON-RPC envelope: {jsonrpc, method, params,
// id}. The id is freshly generated per call.
func (c *JSONRPCCodec) EncodeRequest(op a2a.Operation) ([]byte, error) {
	params, err := c.inner.encodeParams(op)
	if err != nil {
		return nil, err
	}

	req := jsonrpc.NewRequest(NewRequestID(), op.JSONRPCMethod(), json.RawMessage(params))
	body, err := json.Marshal(req)
	if err != nil {
		return nil, a2a.Wrap(a2a.KindSerialization, err)
	}
	return body, nil
}

// DecodeResponse inspects the envelope: an "error" member surfaces as a
// Protocol error carrying its code and message; otherwise the "result"
// member is delegated to the plain-JSON decoder. An envelope with neither
// result nor error is itself a Protocol error.
func (c *JSONRPCCodec) DecodeResponse(body []byte, op a2a.Operation) (a2a.Response, error) {
	var resp jsonrpc.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return a2a.Response{}, a2a.Wrap(a2a.KindSerialization, err)
	}

	if resp.Error != nil {
		return a2a.Response{}, a2a.NewError(a2a.KindProtocol,
			fmt.Sprintf("json-rpc error %d: %s", resp.Error.Code, resp.Error.Message))
	}

	if !resp.HasResult() {
		return a2a.Response{}, a2a.NewError(a2a.KindProtocol, "json-rpc response has neither result nor error")
	}

	return c.inner.DecodeResponse(resp.Result, op)
}
