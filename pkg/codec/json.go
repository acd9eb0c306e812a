package codec

import (
	"encoding/json"
	"fmt"

	"github.com/theapemachine/a2a-go/pkg/a2a"
)

// JSONCodec is the plain-JSON binding: operation fields become JSON object
// fields with spec-mandated camelCase key names, status enums serialize
// kebab-case, optional fields are omitted rather than emitted null.
type JSONCodec struct{}

func NewJSONCodec() *JSONCodec { return &JSONCodec{} }

func (c *JSONCodec) ContentType() string { return "application/a2a+json" }

type sendMessageWire struct {
	Message   a2a.Message `json:"message"`
	Stream    bool        `json:"stream"`
	ContextID *string     `json:"contextId,omitempty"`
	TaskID    *string     `json:"taskId,omitempty"`
}

type listTasksWire struct {
	Status    *a2a.TaskState `json:"status,omitempty"`
	Limit     *int           `json:"limit,omitempty"`
	Offset    *int           `json:"offset,omitempty"`
	NextToken *string        `json:"nextToken,omitempty"`
}

type registerWebhookWire struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Auth   *string  `json:"auth,omitempty"`
}

// EncodeRequest produces the params-shaped JSON body for op, or nil for
// operations whose HTTP binding carries no body (GetTask, ListTasks,
// DiscoverAgent, SubscribeTask all map to GET).
func (c *JSONCodec) EncodeRequest(op a2a.Operation) ([]byte, error) {
	switch op.Kind {
	case a2a.OpGetTask, a2a.OpListTasks, a2a.OpDiscoverAgent, a2a.OpSubscribeTask:
		return nil, nil
	default:
		return c.encodeParams(op)
	}
}

// encodeParams produces the params-shaped JSON body for op regardless of
// its HTTP method classification. The JSON-RPC binding always needs this,
// even for operations that carry no HTTP body under the plain binding.
func (c *JSONCodec) encodeParams(op a2a.Operation) ([]byte, error) {
	var v any

	switch op.Kind {
	case a2a.OpSendMessage:
		v = sendMessageWire{Message: op.Message, Stream: op.Stream, ContextID: op.ContextID, TaskID: op.TaskID}
	case a2a.OpGetTask, a2a.OpCancelTask:
		v = struct {
			TaskID string `json:"taskId"`
		}{TaskID: deref(op.TaskID)}
	case a2a.OpListTasks:
		v = listTasksWire{Status: op.Status, Limit: op.Limit, Offset: op.Offset, NextToken: op.NextToken}
	case a2a.OpDiscoverAgent:
		v = struct{}{}
	case a2a.OpSubscribeTask:
		v = struct {
			TaskID string `json:"taskId"`
		}{TaskID: deref(op.TaskID)}
	case a2a.OpRegisterWebhook:
		v = registerWebhookWire{URL: op.URL, Events: op.Events, Auth: op.Auth}
	default:
		return nil, a2a.NewError(a2a.KindSerialization, "unknown operation kind")
	}

	body, err := json.Marshal(v)
	if err != nil {
		return nil, a2a.Wrap(a2a.KindSerialization, err)
	}
	return body, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// DecodeResponse dispatches on the operation that produced body: task
// operations decode a Task, ListTasks a TaskList, DiscoverAgent an
// AgentCard, streaming/webhook-register operations an Empty response.
func (c *JSONCodec) DecodeResponse(body []byte, op a2a.Operation) (a2a.Response, error) {
	switch op.Kind {
	case a2a.OpSendMessage, a2a.OpGetTask, a2a.OpCancelTask:
		var t a2a.Task
		if len(body) > 0 {
			if err := json.Unmarshal(body, &t); err != nil {
				return a2a.Response{}, a2a.Wrap(a2a.KindSerialization, err)
			}
		}
		return a2a.TaskResponse(t), nil

	case a2a.OpListTasks:
		var l a2a.TaskList
		if len(body) > 0 {
			if err := json.Unmarshal(body, &l); err != nil {
				return a2a.Response{}, a2a.Wrap(a2a.KindSerialization, err)
			}
		}
		return a2a.TaskListResponse(l), nil

	case a2a.OpDiscoverAgent:
		var card a2a.AgentCard
		if len(body) > 0 {
			if err := json.Unmarshal(body, &card); err != nil {
				return a2a.Response{}, a2a.Wrap(a2a.KindSerialization, err)
			}
		}
		return a2a.AgentCardResponse(card), nil

	case a2a.OpSubscribeTask, a2a.OpRegisterWebhook:
		return a2a.EmptyResponse(), nil

	default:
		return a2a.Response{}, a2a.NewError(a2a.KindProtocol, fmt.Sprintf("cannot decode response for operation kind %d", op.Kind))
	}
}
