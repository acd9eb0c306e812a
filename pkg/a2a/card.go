package a2a

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Endpoint is one binding an AgentCard advertises, keyed by binding name
// ("http+json", "json-rpc", "grpc", ...) in AgentCard.Endpoints.
type Endpoint struct {
	URL        string `json:"url"`
	Preferred  bool   `json:"preferred,omitempty"`
}

// AgentCapabilities enumerates optional behaviors an agent supports.
type AgentCapabilities struct {
	Streaming         bool     `json:"streaming"`
	PushNotifications bool     `json:"pushNotifications"`
	TaskManagement    bool     `json:"taskManagement"`
	MultiTurn         bool     `json:"multiTurn"`
	PartTypes         []string `json:"partTypes,omitempty"`
}

// SecuritySchemeKind discriminates the populated variant of SecurityScheme.
type SecuritySchemeKind int

const (
	SecuritySchemeAPIKey SecuritySchemeKind = iota
	SecuritySchemeHTTPAuth
	SecuritySchemeOAuth2
	SecuritySchemeOpenIDConnect
)

// APIKeySecurityScheme describes an API key carried in a header, query
// parameter, or cookie.
type APIKeySecurityScheme struct {
	Description *string `json:"description,omitempty"`
	Location    string  `json:"in"`
	Name        string  `json:"name"`
}

// HTTPAuthSecurityScheme describes an Authorization-header scheme such as
// Bearer or Basic.
type HTTPAuthSecurityScheme struct {
	Description  *string `json:"description,omitempty"`
	Scheme       string  `json:"scheme"`
	BearerFormat *string `json:"bearerFormat,omitempty"`
}

// OAuthFlow is one OAuth2 grant's endpoint configuration.
type OAuthFlow struct {
	AuthorizationURL *string           `json:"authorizationUrl,omitempty"`
	TokenURL         *string           `json:"tokenUrl,omitempty"`
	RefreshURL       *string           `json:"refreshUrl,omitempty"`
	Scopes           map[string]string `json:"scopes"`
}

// OAuthFlows holds whichever of the four OAuth2 grant types an agent
// supports; any subset may be populated.
type OAuthFlows struct {
	AuthorizationCode *OAuthFlow `json:"authorizationCode,omitempty"`
	ClientCredentials *OAuthFlow `json:"clientCredentials,omitempty"`
	Implicit          *OAuthFlow `json:"implicit,omitempty"`
	Password          *OAuthFlow `json:"password,omitempty"`
}

// OAuth2SecurityScheme describes an OAuth2 authentication requirement.
type OAuth2SecurityScheme struct {
	Description       *string    `json:"description,omitempty"`
	Flows             OAuthFlows `json:"flows"`
	OAuth2MetadataURL *string    `json:"oauth2MetadataUrl,omitempty"`
}

// OpenIDConnectSecurityScheme describes an OpenID Connect discovery-document
// based authentication requirement.
type OpenIDConnectSecurityScheme struct {
	Description      *string `json:"description,omitempty"`
	OpenIDConnectURL string  `json:"openIdConnectUrl"`
}

// SecurityScheme is one entry in AgentCard.SecuritySchemes, grounded on
// original_source's protocol/agent.rs externally-tagged enum
// (apiKeySecurityScheme/httpAuthSecurityScheme/oauth2SecurityScheme/
// openIdConnectSecurityScheme). Exactly one field is populated; which one
// determines Kind.
type SecurityScheme struct {
	APIKey        *APIKeySecurityScheme
	HTTPAuth      *HTTPAuthSecurityScheme
	OAuth2        *OAuth2SecurityScheme
	OpenIDConnect *OpenIDConnectSecurityScheme
}

// Kind reports which variant is populated.
func (s SecurityScheme) Kind() SecuritySchemeKind {
	switch {
	case s.APIKey != nil:
		return SecuritySchemeAPIKey
	case s.HTTPAuth != nil:
		return SecuritySchemeHTTPAuth
	case s.OAuth2 != nil:
		return SecuritySchemeOAuth2
	default:
		return SecuritySchemeOpenIDConnect
	}
}

type wireSecurityScheme struct {
	APIKey        *APIKeySecurityScheme        `json:"apiKeySecurityScheme,omitempty"`
	HTTPAuth      *HTTPAuthSecurityScheme      `json:"httpAuthSecurityScheme,omitempty"`
	OAuth2        *OAuth2SecurityScheme        `json:"oauth2SecurityScheme,omitempty"`
	OpenIDConnect *OpenIDConnectSecurityScheme `json:"openIdConnectSecurityScheme,omitempty"`
}

// MarshalJSON emits the externally-tagged wire shape: only the populated key
// appears, matching original_source's tagged union.
func (s SecurityScheme) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSecurityScheme{
		APIKey:        s.APIKey,
		HTTPAuth:      s.HTTPAuth,
		OAuth2:        s.OAuth2,
		OpenIDConnect: s.OpenIDConnect,
	})
}

// UnmarshalJSON dispatches on which tagged key is present. Zero or more than
// one populated key is an ambiguity error.
func (s *SecurityScheme) UnmarshalJSON(data []byte) error {
	var w wireSecurityScheme
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("a2a: decode security scheme: %w", err)
	}

	populated := 0
	for _, p := range []bool{w.APIKey != nil, w.HTTPAuth != nil, w.OAuth2 != nil, w.OpenIDConnect != nil} {
		if p {
			populated++
		}
	}
	if populated != 1 {
		return NewError(KindProtocol, "security scheme must have exactly one populated variant")
	}

	s.APIKey, s.HTTPAuth, s.OAuth2, s.OpenIDConnect = w.APIKey, w.HTTPAuth, w.OAuth2, w.OpenIDConnect
	return nil
}

// AgentCard is the discovery document a remote agent publishes at
// /.well-known/agent-card.json.
type AgentCard struct {
	Name             string              `json:"name"`
	Description      *string             `json:"description,omitempty"`
	Capabilities     AgentCapabilities   `json:"capabilities"`
	SecuritySchemes  []SecurityScheme    `json:"securitySchemes,omitempty"`
	Endpoints        map[string]Endpoint `json:"endpoints"`
}

// Validate checks the invariants spec.md §3 requires of an AgentCard: a
// non-empty name and at least one endpoint.
func (c AgentCard) Validate() *Error {
	if c.Name == "" {
		return NewError(KindValidation, "agent card name must not be empty")
	}
	if len(c.Endpoints) == 0 {
		return NewError(KindValidation, "agent card must have at least one endpoint")
	}
	return nil
}

// PreferredEndpoint returns the endpoint marked Preferred, or an arbitrary
// one if none is marked, or the zero value and false if there are none.
func (c AgentCard) PreferredEndpoint() (string, Endpoint, bool) {
	for name, ep := range c.Endpoints {
		if ep.Preferred {
			return name, ep, true
		}
	}
	for name, ep := range c.Endpoints {
		return name, ep, true
	}
	return "", Endpoint{}, false
}

var (
	cardHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	cardLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// String renders a short human-readable summary of the card, mirroring the
// label/value lipgloss idiom used for Task — not part of the wire protocol.
func (c AgentCard) String() string {
	out := cardHeaderStyle.Render(c.Name) + "\n"
	if c.Description != nil {
		out += cardLabelStyle.Render("description: ") + *c.Description + "\n"
	}
	out += cardLabelStyle.Render("streaming: ")
	if c.Capabilities.Streaming {
		out += "yes\n"
	} else {
		out += "no\n"
	}
	for name, ep := range c.Endpoints {
		out += cardLabelStyle.Render("endpoint "+name+": ") + ep.URL + "\n"
	}
	return out
}
