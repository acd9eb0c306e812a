package codec_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/codec"
)

func TestJSONRPCCodecEncodeRequest(t *testing.T) {
	Convey("Given a JSON-RPC codec and a SendMessage operation", t, func() {
		c := codec.NewJSONRPCCodec()
		op := a2a.SendMessage(a2a.UserMessage("hello"), false)

		Convey("When encoding", func() {
			body, err := c.EncodeRequest(op)

			Convey("Then it produces a well-formed envelope with method message/send and a fresh id", func() {
				So(err, ShouldBeNil)
				var env map[string]any
				So(json.Unmarshal(body, &env), ShouldBeNil)
				So(env["jsonrpc"], ShouldEqual, "2.0")
				So(env["method"], ShouldEqual, "message/send")
				So(env["id"], ShouldNotBeBlank)
				params := env["params"].(map[string]any)
				msg := params["message"].(map[string]any)
				So(msg["role"], ShouldEqual, "user")
				parts := msg["parts"].([]any)
				So(parts[0].(map[string]any)["text"], ShouldEqual, "hello")
			})
		})
	})
}

func TestJSONRPCCodecDecodeResponse(t *testing.T) {
	Convey("Given a JSON-RPC codec", t, func() {
		c := codec.NewJSONRPCCodec()

		Convey("When decoding an error envelope", func() {
			body := []byte(`{"jsonrpc":"2.0","error":{"code":-32600,"message":"Invalid Request"},"id":"1"}`)
			_, err := c.DecodeResponse(body, a2a.GetTask("t-1"))

			Convey("Then it surfaces a Protocol error containing the code and message", func() {
				So(err, ShouldNotBeNil)
				aerr, ok := err.(*a2a.Error)
				So(ok, ShouldBeTrue)
				So(aerr.Kind, ShouldEqual, a2a.KindProtocol)
				So(aerr.Error(), ShouldContainSubstring, "-32600")
				So(aerr.Error(), ShouldContainSubstring, "Invalid Request")
			})
		})

		Convey("When decoding an envelope with neither result nor error", func() {
			body := []byte(`{"jsonrpc":"2.0","id":"1"}`)
			_, err := c.DecodeResponse(body, a2a.GetTask("t-1"))

			Convey("Then it is a Protocol error", func() {
				aerr, ok := err.(*a2a.Error)
				So(ok, ShouldBeTrue)
				So(aerr.Kind, ShouldEqual, a2a.KindProtocol)
			})
		})

		Convey("When decoding a result envelope for a GetTask operation", func() {
			body := []byte(`{"jsonrpc":"2.0","result":{"id":"t-9","status":"working","input":{"role":"user","parts":[{"text":"hi"}]}},"id":"1"}`)
			resp, err := c.DecodeResponse(body, a2a.GetTask("t-9"))

			Convey("Then it delegates to the plain-JSON decoder", func() {
				So(err, ShouldBeNil)
				So(resp.Task.ID, ShouldEqual, "t-9")
			})
		})
	})
}
