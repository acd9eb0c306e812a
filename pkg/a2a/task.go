package a2a

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cohesivestack/valgo"
)

// Task is an asynchronous unit of work an agent carries out on behalf of a
// Message the client sent it.
type Task struct {
	ID        string           `json:"id"`
	Status    TaskState        `json:"status"`
	Input     Message          `json:"input"`
	Output    *Message         `json:"output,omitempty"`
	Error     *TaskErrorDetail `json:"error,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	ContextID *string          `json:"contextId,omitempty"`
	Artifacts []Artifact       `json:"artifacts,omitempty"`
	History   []Message        `json:"history,omitempty"`
}

// IsTerminal reports whether the task has reached a state with no further
// expected transitions.
func (t Task) IsTerminal() bool {
	return t.Status.IsTerminal()
}

// Validate checks the structural invariants spec.md §3 places on a Task,
// aggregating every violation it finds via valgo rather than stopping at the
// first one.
func (t Task) Validate() *Error {
	v := valgo.Is(valgo.String(t.ID, "id").Not().Blank())
	v.Is(valgo.Bool(len(t.Input.Parts) > 0, "input.parts").True())

	if t.Status == TaskStateCompleted {
		v.Is(valgo.Bool(len(t.Artifacts) > 0 || t.Output != nil || t.Error != nil, "completed task").True().
			Messagef("completed task must have artifacts, an output message, or an error"))
	}
	if t.Status == TaskStateFailed {
		v.Is(valgo.Bool(t.Error != nil, "failed task").True().
			Messagef("failed task must carry an error"))
	}

	if !v.Valid() {
		return NewError(KindValidation, v.Error().Error())
	}
	return nil
}

var (
	taskHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	taskLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// String renders a short human-readable summary of the task, in the same
// label/value lipgloss idiom used elsewhere in this codebase for debug
// output — not part of the wire protocol.
func (t Task) String() string {
	out := taskHeaderStyle.Render("Task "+t.ID) + "\n"
	out += taskLabelStyle.Render("status: ") + string(t.Status) + "\n"
	if t.ContextID != nil {
		out += taskLabelStyle.Render("context: ") + *t.ContextID + "\n"
	}
	out += taskLabelStyle.Render("artifacts: ") + strconv.Itoa(len(t.Artifacts)) + "\n"
	return out
}
