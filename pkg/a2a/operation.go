package a2a

import "fmt"

// OperationKind discriminates the populated variant of an Operation.
type OperationKind int

const (
	OpSendMessage OperationKind = iota
	OpGetTask
	OpListTasks
	OpCancelTask
	OpDiscoverAgent
	OpSubscribeTask
	OpRegisterWebhook
)

// Operation is the tagged union of abstract requests the client may issue.
// Exactly the fields relevant to Kind are meaningful; zero values elsewhere.
type Operation struct {
	Kind OperationKind

	// SendMessage
	Message   Message
	Stream    bool
	ContextID *string
	TaskID    *string // SendMessage: target task for a follow-up; GetTask/CancelTask/SubscribeTask: the task id

	// ListTasks
	Status    *TaskState
	Limit     *int
	Offset    *int
	NextToken *string

	// RegisterWebhook
	URL    string
	Events []string
	Auth   *string
}

func SendMessage(msg Message, stream bool) Operation {
	return Operation{Kind: OpSendMessage, Message: msg, Stream: stream}
}

func SendMessageToTask(msg Message, taskID string, stream bool) Operation {
	return Operation{Kind: OpSendMessage, Message: msg, Stream: stream, TaskID: &taskID}
}

func GetTask(taskID string) Operation {
	return Operation{Kind: OpGetTask, TaskID: &taskID}
}

func CancelTask(taskID string) Operation {
	return Operation{Kind: OpCancelTask, TaskID: &taskID}
}

func ListTasks(status *TaskState, limit, offset *int) Operation {
	return Operation{Kind: OpListTasks, Status: status, Limit: limit, Offset: offset}
}

func DiscoverAgent() Operation {
	return Operation{Kind: OpDiscoverAgent}
}

func SubscribeTask(taskID string) Operation {
	return Operation{Kind: OpSubscribeTask, TaskID: &taskID}
}

func RegisterWebhook(url string, events []string, auth *string) Operation {
	return Operation{Kind: OpRegisterWebhook, URL: url, Events: events, Auth: auth}
}

// Endpoint returns the HTTP path this operation maps to, per spec.md §4.1.
func (o Operation) Endpoint() string {
	switch o.Kind {
	case OpSendMessage:
		if o.TaskID != nil {
			return fmt.Sprintf("/tasks/%s", *o.TaskID)
		}
		return "/tasks"
	case OpGetTask:
		return fmt.Sprintf("/tasks/%s", deref(o.TaskID))
	case OpListTasks:
		return "/tasks"
	case OpCancelTask:
		return fmt.Sprintf("/tasks/%s/cancel", deref(o.TaskID))
	case OpDiscoverAgent:
		return "/.well-known/agent-card.json"
	case OpSubscribeTask:
		return fmt.Sprintf("/tasks/%s/stream", deref(o.TaskID))
	case OpRegisterWebhook:
		return "/webhooks"
	default:
		return ""
	}
}

// Method returns the HTTP method this operation maps to, per spec.md §4.1.
func (o Operation) Method() string {
	switch o.Kind {
	case OpSendMessage:
		if o.TaskID != nil {
			return "PUT"
		}
		return "POST"
	case OpGetTask, OpListTasks, OpDiscoverAgent, OpSubscribeTask:
		return "GET"
	case OpCancelTask, OpRegisterWebhook:
		return "POST"
	default:
		return "GET"
	}
}

// IsStreaming reports whether this operation produces a stream of events
// rather than (or in addition to) a single response.
func (o Operation) IsStreaming() bool {
	switch o.Kind {
	case OpSendMessage:
		return o.Stream
	case OpSubscribeTask:
		return true
	default:
		return false
	}
}

// JSONRPCMethod returns the JSON-RPC 2.0 method name for this operation, per
// spec.md §4.2's table.
func (o Operation) JSONRPCMethod() string {
	switch o.Kind {
	case OpSendMessage:
		if o.Stream {
			return "message/stream"
		}
		return "message/send"
	case OpGetTask:
		return "task/get"
	case OpListTasks:
		return "task/list"
	case OpCancelTask:
		return "task/cancel"
	case OpDiscoverAgent:
		return "agent/discover"
	case OpSubscribeTask:
		return "task/subscribe"
	case OpRegisterWebhook:
		return "webhook/register"
	default:
		return ""
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
