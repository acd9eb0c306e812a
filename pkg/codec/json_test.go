package codec_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/codec"
)

func TestJSONCodecEncodeRequest(t *testing.T) {
	Convey("Given a JSON codec", t, func() {
		c := codec.NewJSONCodec()

		Convey("When encoding a SendMessage operation", func() {
			op := a2a.SendMessage(a2a.UserMessage("hello"), false)
			body, err := c.EncodeRequest(op)

			Convey("Then it produces the expected field shape", func() {
				So(err, ShouldBeNil)
				var decoded map[string]any
				So(json.Unmarshal(body, &decoded), ShouldBeNil)
				So(decoded["stream"], ShouldEqual, false)
				msg := decoded["message"].(map[string]any)
				So(msg["role"], ShouldEqual, "user")
				So(msg["contextId"], ShouldBeNil)
			})
		})

		Convey("When encoding a GetTask operation", func() {
			op := a2a.GetTask("t-1")
			body, err := c.EncodeRequest(op)

			Convey("Then it returns no body, since GetTask is a GET", func() {
				So(err, ShouldBeNil)
				So(body, ShouldBeNil)
			})
		})
	})
}

func TestJSONCodecDecodeResponse(t *testing.T) {
	Convey("Given a JSON codec and a task body", t, func() {
		c := codec.NewJSONCodec()
		body := []byte(`{"id":"t-1","status":"completed","input":{"role":"user","parts":[{"text":"hi"}]},"artifacts":[{"artifactId":"a1","parts":[{"text":"hi"}]}]}`)

		Convey("When decoding against a GetTask operation", func() {
			resp, err := c.DecodeResponse(body, a2a.GetTask("t-1"))

			Convey("Then it decodes a Task with its id, status and camelCase artifacts intact", func() {
				So(err, ShouldBeNil)
				So(resp.Kind, ShouldEqual, a2a.RespTask)
				So(resp.Task.ID, ShouldEqual, "t-1")
				So(resp.Task.Status, ShouldEqual, a2a.TaskStateCompleted)
				So(len(resp.Task.Artifacts), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a JSON codec and an agent card body", t, func() {
		c := codec.NewJSONCodec()
		body := []byte(`{"name":"Test Agent","capabilities":{"streaming":true},"endpoints":{"http+json":{"url":"https://a.example/"}}}`)

		Convey("When decoding against a DiscoverAgent operation", func() {
			resp, err := c.DecodeResponse(body, a2a.DiscoverAgent())

			Convey("Then it decodes an AgentCard", func() {
				So(err, ShouldBeNil)
				So(resp.Kind, ShouldEqual, a2a.RespAgentCard)
				So(resp.AgentCard.Name, ShouldEqual, "Test Agent")
			})
		})
	})
}

func TestMessagePartRoundTrip(t *testing.T) {
	Convey("Given a message with a text part", t, func() {
		msg := a2a.UserMessage("hello")

		Convey("When round-tripped through JSON", func() {
			body, err := json.Marshal(msg)
			So(err, ShouldBeNil)

			Convey("Then the wire shape is untagged", func() {
				var raw map[string]any
				So(json.Unmarshal(body, &raw), ShouldBeNil)
				parts := raw["parts"].([]any)
				part := parts[0].(map[string]any)
				_, hasType := part["type"]
				So(hasType, ShouldBeFalse)
				So(part["text"], ShouldEqual, "hello")
			})

			Convey("Then decoding reproduces the same message", func() {
				var decoded a2a.Message
				So(json.Unmarshal(body, &decoded), ShouldBeNil)
				So(decoded.Role, ShouldEqual, msg.Role)
				So(*decoded.Parts[0].Text, ShouldEqual, "hello")
			})
		})
	})

	Convey("Given a message part with both text and data populated", t, func() {
		raw := []byte(`{"text":"hi","data":{"x":1}}`)

		Convey("When decoded", func() {
			var part a2a.MessagePart
			err := json.Unmarshal(raw, &part)

			Convey("Then it is an ambiguity error", func() {
				So(err, ShouldNotBeNil)
				var aerr *a2a.Error
				So(err, ShouldHaveSameTypeAs, aerr)
			})
		})
	})
}
