package layer

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/theapemachine/a2a-go/pkg/a2a"
)

// Credential is one of Bearer, ApiKey, or Basic. Each knows how to render
// itself as a single (header-name, header-value) pair.
type Credential interface {
	header() (name, value string)
}

// Bearer authenticates with an Authorization: Bearer <token> header.
type Bearer struct{ Token string }

func (b Bearer) header() (string, string) {
	return "Authorization", "Bearer " + b.Token
}

// ApiKey authenticates with an arbitrary header carrying a raw key value.
type ApiKey struct {
	Header string
	Key    string
}

func (a ApiKey) header() (string, string) {
	return a.Header, a.Key
}

// Basic authenticates with a standard-alphabet, padded base64-encoded
// Authorization: Basic <user:password> header.
type Basic struct {
	User     string
	Password string
}

func (b Basic) header() (string, string) {
	raw := b.User + ":" + b.Password
	return "Authorization", "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// AuthLayer owns a single credential and attaches its header to the request
// context on every call; it never touches the request or response body.
type AuthLayer struct {
	next Handler
	cred Credential
}

// NewAuthLayer wraps next with cred, or returns next unwrapped if cred is
// nil (no authentication configured).
func NewAuthLayer(next Handler, cred Credential) Handler {
	if cred == nil {
		return next
	}
	return &AuthLayer{next: next, cred: cred}
}

func (a *AuthLayer) Handle(ctx context.Context, op a2a.Operation) (a2a.Response, error) {
	ctx, err := ApplyCredential(ctx, a.cred)
	if err != nil {
		return a2a.Response{}, err
	}
	return a.next.Handle(ctx, op)
}

// ApplyCredential attaches cred's header to ctx, for callers (like a
// streaming subscription) that need the same header injection AuthLayer
// performs without running the full request/response cycle. A nil cred is
// a no-op.
func ApplyCredential(ctx context.Context, cred Credential) (context.Context, *a2a.Error) {
	if cred == nil {
		return ctx, nil
	}
	name, value := cred.header()
	if name == "" {
		return ctx, a2a.NewError(a2a.KindAuth, fmt.Sprintf("credential %T produced an empty header name", cred))
	}
	return WithAuthHeader(ctx, name, value), nil
}
