package layer

import (
	"context"

	"github.com/cohesivestack/valgo"
	"github.com/theapemachine/a2a-go/pkg/a2a"
)

// ValidationLayer checks request-side pre-conditions before the inner
// handler runs, and response-side invariants after. All failures produce a
// Validation error; the inner handler is never called on a request
// failure.
type ValidationLayer struct {
	next Handler
}

func NewValidationLayer(next Handler) Handler {
	return &ValidationLayer{next: next}
}

func (l *ValidationLayer) Handle(ctx context.Context, op a2a.Operation) (a2a.Response, error) {
	if err := validateAgentURL(ctx); err != nil {
		return a2a.Response{}, err
	}
	if err := validateOperation(op); err != nil {
		return a2a.Response{}, err
	}

	resp, err := l.next.Handle(ctx, op)
	if err != nil {
		return resp, err
	}

	if err := validateResponse(resp); err != nil {
		return a2a.Response{}, err
	}
	return resp, nil
}

func validateAgentURL(ctx context.Context) *a2a.Error {
	url, ok := AgentURLFromContext(ctx)
	if !ok || url == "" {
		return a2a.NewError(a2a.KindValidation, "agent url must be set on the request context")
	}
	return nil
}

func validateOperation(op a2a.Operation) *a2a.Error {
	v := valgo.Is(valgo.Bool(true, "operation").True())

	switch op.Kind {
	case a2a.OpSendMessage:
		addMessageRules(v, op.Message)

	case a2a.OpGetTask, a2a.OpCancelTask:
		v.Is(valgo.String(deref(op.TaskID), "taskId").Not().Blank())

	case a2a.OpListTasks:
		if op.Limit != nil {
			v.Is(valgo.Int(*op.Limit, "limit").GreaterOrEqualTo(1).LessOrEqualTo(1000))
		}
		if op.Offset != nil {
			v.Is(valgo.Int(*op.Offset, "offset").LessOrEqualTo(1_000_000))
		}

	case a2a.OpRegisterWebhook:
		v.Is(valgo.String(op.URL, "url").Not().Blank())
		v.Is(valgo.Bool(len(op.Events) > 0, "events").True())
	}

	if !v.Valid() {
		return a2a.NewError(a2a.KindValidation, v.Error().Error())
	}
	return nil
}

func addMessageRules(v *valgo.Validation, m a2a.Message) {
	v.Is(valgo.Bool(len(m.Parts) > 0, "message.parts").True())

	for i, part := range m.Parts {
		switch part.Kind() {
		case a2a.PartKindText:
			v.Is(valgo.String(deref(part.Text), "message.parts[].text").Not().Blank())
		case a2a.PartKindFile:
			v.Is(valgo.String(part.File.Name, "message.parts[].file.name").Not().Blank())
			hasURI := part.File.URI != nil
			hasBytes := part.File.Bytes != nil
			v.Is(valgo.Bool(hasURI != hasBytes, "message.parts[].file").True().
				Messagef("file part %d must carry exactly one of fileWithUri/fileWithBytes", i))
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func validateResponse(resp a2a.Response) *a2a.Error {
	switch resp.Kind {
	case a2a.RespTask:
		if resp.Task == nil {
			return a2a.NewError(a2a.KindValidation, "task response carries no task")
		}
		return resp.Task.Validate()

	case a2a.RespTaskList:
		if resp.TaskList == nil {
			return a2a.NewError(a2a.KindValidation, "task list response carries no list")
		}
		for i := range resp.TaskList.Tasks {
			if err := resp.TaskList.Tasks[i].Validate(); err != nil {
				return err
			}
		}
		return nil

	case a2a.RespAgentCard:
		if resp.AgentCard == nil {
			return a2a.NewError(a2a.KindValidation, "agent card response carries no card")
		}
		return resp.AgentCard.Validate()

	default:
		return nil
	}
}
