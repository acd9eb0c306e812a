package layer

import "context"

type ctxKey int

const (
	keyAuthHeader ctxKey = iota
	keyAgentURL
	keyExtraHeaders
)

type authHeader struct {
	name  string
	value string
}

// WithAuthHeader attaches the (header-name, header-value) pair the auth
// layer computed so the protocol service can emit it verbatim.
func WithAuthHeader(ctx context.Context, name, value string) context.Context {
	return context.WithValue(ctx, keyAuthHeader, authHeader{name: name, value: value})
}

// AuthHeaderFromContext retrieves the pair set by WithAuthHeader, if any.
func AuthHeaderFromContext(ctx context.Context) (name, value string, ok bool) {
	h, ok := ctx.Value(keyAuthHeader).(authHeader)
	if !ok {
		return "", "", false
	}
	return h.name, h.value, true
}

// WithAgentURL attaches the target agent's base URL, which the validation
// layer requires to be non-empty before the service runs.
func WithAgentURL(ctx context.Context, url string) context.Context {
	return context.WithValue(ctx, keyAgentURL, url)
}

// AgentURLFromContext retrieves the URL set by WithAgentURL, if any.
func AgentURLFromContext(ctx context.Context) (string, bool) {
	url, ok := ctx.Value(keyAgentURL).(string)
	return url, ok
}

// WithExtraHeaders attaches caller-supplied metadata headers the protocol
// service copies onto the outbound transport request verbatim.
func WithExtraHeaders(ctx context.Context, headers map[string]string) context.Context {
	return context.WithValue(ctx, keyExtraHeaders, headers)
}

// ExtraHeadersFromContext retrieves the headers set by WithExtraHeaders.
func ExtraHeadersFromContext(ctx context.Context) (map[string]string, bool) {
	headers, ok := ctx.Value(keyExtraHeaders).(map[string]string)
	return headers, ok
}
