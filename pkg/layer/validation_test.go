package layer_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/layer"
	"github.com/theapemachine/a2a-go/pkg/utils"
)

func passthrough(resp a2a.Response) layer.Handler {
	return layer.HandlerFunc(func(ctx context.Context, op a2a.Operation) (a2a.Response, error) {
		return resp, nil
	})
}

func TestValidationLayerRequests(t *testing.T) {
	Convey("Given a ValidationLayer in front of a passthrough handler", t, func() {
		l := layer.NewValidationLayer(passthrough(a2a.EmptyResponse()))
		ctx := layer.WithAgentURL(context.Background(), "https://agent.example")

		Convey("Missing agent url fails even a well-formed operation", func() {
			_, err := l.Handle(context.Background(), a2a.SendMessage(a2a.UserMessage("hi"), false))
			So(err, ShouldNotBeNil)
			So(err.(*a2a.Error).Kind, ShouldEqual, a2a.KindValidation)
		})

		Convey("SendMessage with no parts fails validation", func() {
			_, err := l.Handle(ctx, a2a.SendMessage(a2a.Message{}, false))
			So(err, ShouldNotBeNil)
		})

		Convey("SendMessage with a well-formed message passes", func() {
			_, err := l.Handle(ctx, a2a.SendMessage(a2a.UserMessage("hi"), false))
			So(err, ShouldBeNil)
		})

		Convey("GetTask with an empty task id fails", func() {
			_, err := l.Handle(ctx, a2a.GetTask(""))
			So(err, ShouldNotBeNil)
		})

		Convey("ListTasks with an out-of-range limit fails", func() {
			bad := 5000
			op := a2a.ListTasks(nil, &bad, nil)
			_, err := l.Handle(ctx, op)
			So(err, ShouldNotBeNil)
		})

		Convey("RegisterWebhook with no events fails", func() {
			_, err := l.Handle(ctx, a2a.RegisterWebhook("https://hook.example", nil, nil))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestValidationLayerResponses(t *testing.T) {
	Convey("Given a ValidationLayer in front of a handler returning a Task", t, func() {
		ctx := layer.WithAgentURL(context.Background(), "https://agent.example")

		Convey("A completed task with no artifacts, output, or error fails", func() {
			task := a2a.Task{
				ID:     "t-1",
				Status: a2a.TaskStateCompleted,
				Input:  a2a.UserMessage("hi"),
			}
			l := layer.NewValidationLayer(passthrough(a2a.TaskResponse(task)))
			_, err := l.Handle(ctx, a2a.GetTask("t-1"))
			So(err, ShouldNotBeNil)
		})

		Convey("A completed task with an output message passes", func() {
			task := a2a.Task{
				ID:        "t-1",
				Status:    a2a.TaskStateCompleted,
				Input:     a2a.UserMessage("hi"),
				Output:    utils.Ptr(a2a.AgentMessage("done")),
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			l := layer.NewValidationLayer(passthrough(a2a.TaskResponse(task)))
			_, err := l.Handle(ctx, a2a.GetTask("t-1"))
			So(err, ShouldBeNil)
		})
	})
}
