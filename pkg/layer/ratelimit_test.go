package layer_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/auth"
	"github.com/theapemachine/a2a-go/pkg/layer"
)

func TestRateLimitLayer(t *testing.T) {
	Convey("Given a rate limit layer wrapping a no-op handler", t, func() {
		calls := 0
		inner := layer.HandlerFunc(func(ctx context.Context, op a2a.Operation) (a2a.Response, error) {
			calls++
			return a2a.Response{}, nil
		})

		Convey("With a nil limiter it passes every call through", func() {
			h := layer.NewRateLimitLayer(inner, nil)
			_, err := h.Handle(context.Background(), a2a.GetTask("t-1"))
			So(err, ShouldBeNil)
			So(calls, ShouldEqual, 1)
		})

		Convey("With a limiter of capacity 1 it rejects the second call", func() {
			h := layer.NewRateLimitLayer(inner, auth.NewRateLimiter(1, time.Minute))

			_, err1 := h.Handle(context.Background(), a2a.GetTask("t-1"))
			_, err2 := h.Handle(context.Background(), a2a.GetTask("t-1"))

			So(err1, ShouldBeNil)
			So(err2, ShouldNotBeNil)
			So(err2.(*a2a.Error).Kind, ShouldEqual, a2a.KindRateLimitExceeded)
			So(calls, ShouldEqual, 1)
		})
	})
}
