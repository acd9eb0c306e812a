package layer_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/layer"
)

func captureHeader(t *testing.T) (layer.Handler, func() (string, string, bool)) {
	var gotName, gotValue string
	var gotOK bool
	h := layer.HandlerFunc(func(ctx context.Context, op a2a.Operation) (a2a.Response, error) {
		gotName, gotValue, gotOK = layer.AuthHeaderFromContext(ctx)
		return a2a.EmptyResponse(), nil
	})
	return h, func() (string, string, bool) { return gotName, gotValue, gotOK }
}

func TestAuthLayer(t *testing.T) {
	Convey("Given an AuthLayer wrapping a handler that captures its context", t, func() {
		Convey("With a Bearer credential", func() {
			inner, peek := captureHeader(t)
			l := layer.NewAuthLayer(inner, layer.Bearer{Token: "abc123"})

			_, err := l.Handle(context.Background(), a2a.Operation{})

			Convey("Then it attaches an Authorization: Bearer header", func() {
				So(err, ShouldBeNil)
				name, value, ok := peek()
				So(ok, ShouldBeTrue)
				So(name, ShouldEqual, "Authorization")
				So(value, ShouldEqual, "Bearer abc123")
			})
		})

		Convey("With a Basic credential", func() {
			inner, peek := captureHeader(t)
			l := layer.NewAuthLayer(inner, layer.Basic{User: "alice", Password: "secret"})

			_, _ = l.Handle(context.Background(), a2a.Operation{})

			Convey("Then it base64-encodes user:password", func() {
				_, value, _ := peek()
				So(value, ShouldEqual, "Basic YWxpY2U6c2VjcmV0")
			})
		})

		Convey("With an ApiKey credential", func() {
			inner, peek := captureHeader(t)
			l := layer.NewAuthLayer(inner, layer.ApiKey{Header: "X-Api-Key", Key: "k-1"})

			_, _ = l.Handle(context.Background(), a2a.Operation{})

			Convey("Then it emits the named header verbatim", func() {
				name, value, _ := peek()
				So(name, ShouldEqual, "X-Api-Key")
				So(value, ShouldEqual, "k-1")
			})
		})

		Convey("With a nil credential", func() {
			inner, peek := captureHeader(t)
			l := layer.NewAuthLayer(inner, nil)

			_, _ = l.Handle(context.Background(), a2a.Operation{})

			Convey("Then no auth header is attached", func() {
				_, _, ok := peek()
				So(ok, ShouldBeFalse)
			})
		})
	})
}
