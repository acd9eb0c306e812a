package a2a

// ResponseKind discriminates the populated variant of a Response.
type ResponseKind int

const (
	RespTask ResponseKind = iota
	RespTaskList
	RespAgentCard
	RespEmpty
)

// TaskList is the payload of a ListTasks response.
type TaskList struct {
	Tasks     []Task  `json:"tasks"`
	Total     int     `json:"total"`
	NextToken *string `json:"nextToken,omitempty"`
}

// Response is the tagged union of values a completed operation yields.
type Response struct {
	Kind      ResponseKind
	Task      *Task
	TaskList  *TaskList
	AgentCard *AgentCard
}

func TaskResponse(t Task) Response        { return Response{Kind: RespTask, Task: &t} }
func TaskListResponse(l TaskList) Response { return Response{Kind: RespTaskList, TaskList: &l} }
func AgentCardResponse(c AgentCard) Response {
	return Response{Kind: RespAgentCard, AgentCard: &c}
}
func EmptyResponse() Response { return Response{Kind: RespEmpty} }

// StreamEvent is one decoded SSE-or-WebSocket payload carrying incremental
// task progress, per spec.md §4.2's SSE parsing rules.
type StreamEvent struct {
	Kind    string // from result.kind, default "event"
	Final   bool   // from result.final, default false
	Payload map[string]any
}

// taskState extracts a "state" field from the event payload, if
// present, for terminal/error classification.
func (e StreamEvent) taskState() (TaskState, bool) {
	raw, ok := e.Payload["state"]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	return TaskState(s), true
}

// IsTerminal reports whether this event signals the end of the stream: the
// envelope marked final, or the payload carries a terminal task state.
func (e StreamEvent) IsTerminal() bool {
	if e.Final {
		return true
	}
	if state, ok := e.taskState(); ok {
		return state.IsTerminal()
	}
	return false
}

// IsError reports whether this event signals a task-side failure outcome.
func (e StreamEvent) IsError() bool {
	if state, ok := e.taskState(); ok {
		return state.IsError()
	}
	return false
}
