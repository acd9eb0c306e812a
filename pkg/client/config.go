package client

import (
	"time"

	"github.com/theapemachine/a2a-go/pkg/auth"
	"github.com/theapemachine/a2a-go/pkg/layer"
)

// Binding selects which wire binding the client speaks to the agent.
type Binding int

const (
	// BindingHTTPJSON speaks plain HTTP+JSON (spec.md §4.2's JSON binding).
	BindingHTTPJSON Binding = iota
	// BindingJSONRPCHTTP speaks JSON-RPC 2.0 over HTTP.
	BindingJSONRPCHTTP
	// BindingJSONRPCWebSocket speaks JSON-RPC 2.0 over a multiplexed
	// WebSocket connection.
	BindingJSONRPCWebSocket
)

// Config holds everything needed to build a Client, grounded on the
// original client configuration's shape: an agent URL plus a handful of
// tunables, built with functional options rather than builder methods.
type Config struct {
	AgentURL          string
	Binding           Binding
	Timeout           time.Duration
	MaxRetries        int
	ValidateResponses bool
	Credential        layer.Credential
	RateLimiter       *auth.RateLimiter
}

// NewConfig builds a Config for agentURL with sensible defaults — a 30
// second timeout, MaxRetries 3, response validation on, plain HTTP+JSON —
// then applies opts. MaxRetries is stored only: no layer reads it and no
// call is retried.
func NewConfig(agentURL string, opts ...Option) Config {
	cfg := Config{
		AgentURL:          agentURL,
		Binding:           BindingHTTPJSON,
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		ValidateResponses: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option customizes a Config built by NewConfig.
type Option func(*Config)

func WithBinding(b Binding) Option {
	return func(c *Config) { c.Binding = b }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

func WithMaxRetries(n int) Option {
	return func(c *Config) { c.MaxRetries = n }
}

func WithValidation(enabled bool) Option {
	return func(c *Config) { c.ValidateResponses = enabled }
}

func WithCredential(cred layer.Credential) Option {
	return func(c *Config) { c.Credential = cred }
}

// WithRateLimit bounds outgoing calls to rate events per interval, rejecting
// any call over that rate with a RateLimitExceeded error before it reaches
// the wire. Unset by default: no client-side limiting.
func WithRateLimit(rate int64, interval time.Duration) Option {
	return func(c *Config) { c.RateLimiter = auth.NewRateLimiter(rate, interval) }
}
