package codec_test

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/codec"
)

func TestSSECodecDecodeStream(t *testing.T) {
	Convey("Given a byte stream with two JSON-RPC-wrapped events", t, func() {
		stream := strings.NewReader(
			"data: {\"jsonrpc\":\"2.0\",\"result\":{\"kind\":\"status-update\",\"state\":\"running\"},\"id\":\"1\"}\n\n" +
				"data: {\"jsonrpc\":\"2.0\",\"result\":{\"kind\":\"artifact-update\",\"final\":true},\"id\":\"2\"}\n\n",
		)
		c := codec.NewSSECodec()

		Convey("When decoding the stream", func() {
			var events []a2a.StreamEvent
			err := c.DecodeStream(stream, func(e a2a.StreamEvent) error {
				events = append(events, e)
				return nil
			})

			Convey("Then it yields two events, only the second terminal", func() {
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 2)
				So(events[0].Kind, ShouldEqual, "status-update")
				So(events[0].IsTerminal(), ShouldBeFalse)
				So(events[1].Kind, ShouldEqual, "artifact-update")
				So(events[1].IsTerminal(), ShouldBeTrue)
			})
		})
	})

	Convey("Given a stream carrying a JSON-RPC error event", t, func() {
		stream := strings.NewReader("data: {\"jsonrpc\":\"2.0\",\"error\":{\"code\":-32000,\"message\":\"boom\"},\"id\":\"1\"}\n\n")
		c := codec.NewSSECodec()

		Convey("When decoding the stream", func() {
			err := c.DecodeStream(stream, func(e a2a.StreamEvent) error { return nil })

			Convey("Then the stream terminates with a Protocol error", func() {
				So(err, ShouldNotBeNil)
				aerr, ok := err.(*a2a.Error)
				So(ok, ShouldBeTrue)
				So(aerr.Kind, ShouldEqual, a2a.KindProtocol)
			})
		})
	})
}
