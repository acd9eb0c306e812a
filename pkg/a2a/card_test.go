package a2a_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/utils"
)

func TestSecuritySchemeMarshalJSON(t *testing.T) {
	Convey("Given an APIKey security scheme", t, func() {
		s := a2a.SecurityScheme{APIKey: &a2a.APIKeySecurityScheme{Location: "header", Name: "X-Api-Key"}}

		Convey("When marshaled", func() {
			body, err := json.Marshal(s)

			Convey("Then only the apiKeySecurityScheme key is present", func() {
				So(err, ShouldBeNil)
				var env map[string]any
				So(json.Unmarshal(body, &env), ShouldBeNil)
				So(env, ShouldContainKey, "apiKeySecurityScheme")
				So(env, ShouldNotContainKey, "httpAuthSecurityScheme")
				So(env, ShouldNotContainKey, "oauth2SecurityScheme")
				So(env, ShouldNotContainKey, "openIdConnectSecurityScheme")
				So(env["apiKeySecurityScheme"].(map[string]any)["name"], ShouldEqual, "X-Api-Key")
			})
		})
	})
}

func TestSecuritySchemeUnmarshalJSON(t *testing.T) {
	Convey("Given a wire-shaped httpAuthSecurityScheme document", t, func() {
		body := []byte(`{"httpAuthSecurityScheme":{"scheme":"bearer","bearerFormat":"JWT"}}`)

		Convey("When unmarshaled", func() {
			var s a2a.SecurityScheme
			err := json.Unmarshal(body, &s)

			Convey("Then it populates HTTPAuth and reports the matching Kind", func() {
				So(err, ShouldBeNil)
				So(s.HTTPAuth, ShouldNotBeNil)
				So(s.HTTPAuth.Scheme, ShouldEqual, "bearer")
				So(*s.HTTPAuth.BearerFormat, ShouldEqual, "JWT")
				So(s.Kind(), ShouldEqual, a2a.SecuritySchemeHTTPAuth)
				So(s.APIKey, ShouldBeNil)
			})
		})
	})

	Convey("Given a document with no populated variant", t, func() {
		var s a2a.SecurityScheme
		err := json.Unmarshal([]byte(`{}`), &s)

		Convey("Then it is a Protocol error", func() {
			So(err, ShouldNotBeNil)
			aerr, ok := err.(*a2a.Error)
			So(ok, ShouldBeTrue)
			So(aerr.Kind, ShouldEqual, a2a.KindProtocol)
		})
	})

	Convey("Given a document with two populated variants", t, func() {
		body := []byte(`{"apiKeySecurityScheme":{"in":"header","name":"k"},"httpAuthSecurityScheme":{"scheme":"bearer"}}`)
		var s a2a.SecurityScheme
		err := json.Unmarshal(body, &s)

		Convey("Then it is a Protocol error", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestAgentCardSecuritySchemesRoundTrip(t *testing.T) {
	Convey("Given an agent card with an OAuth2 security scheme", t, func() {
		card := a2a.AgentCard{
			Name:         "echo-agent",
			Capabilities: a2a.AgentCapabilities{Streaming: true},
			Endpoints:    map[string]a2a.Endpoint{"http+json": {URL: "https://example.com", Preferred: true}},
			SecuritySchemes: []a2a.SecurityScheme{
				{OAuth2: &a2a.OAuth2SecurityScheme{
					Flows: a2a.OAuthFlows{
						ClientCredentials: &a2a.OAuthFlow{
							TokenURL: utils.Ptr("https://example.com/oauth/token"),
							Scopes:   map[string]string{"read": "read access"},
						},
					},
				}},
			},
		}

		Convey("When round-tripped through JSON", func() {
			body, err := json.Marshal(card)
			So(err, ShouldBeNil)

			var decoded a2a.AgentCard
			So(json.Unmarshal(body, &decoded), ShouldBeNil)

			Convey("Then the OAuth2 flow survives intact", func() {
				So(decoded.SecuritySchemes, ShouldHaveLength, 1)
				So(decoded.SecuritySchemes[0].Kind(), ShouldEqual, a2a.SecuritySchemeOAuth2)
				flows := decoded.SecuritySchemes[0].OAuth2.Flows
				So(flows.ClientCredentials, ShouldNotBeNil)
				So(*flows.ClientCredentials.TokenURL, ShouldEqual, "https://example.com/oauth/token")
				So(flows.ClientCredentials.Scopes["read"], ShouldEqual, "read access")
			})
		})
	})
}
