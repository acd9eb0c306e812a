// Package client is the façade: given a Config it assembles the codec,
// transport, and middleware stack, and exposes one method per operation
// plus the poll-until-complete convenience helper. See spec.md §4.6.
package client

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/codec"
	"github.com/theapemachine/a2a-go/pkg/layer"
	"github.com/theapemachine/a2a-go/pkg/service"
	"github.com/theapemachine/a2a-go/pkg/transport"
)

var clientLog = log.Default().With("component", "client")

// Client wraps an agent URL and a configured layer stack. Its operations
// are thin: each builds one a2a.Operation and runs it through the stack.
type Client struct {
	cfg     Config
	handler layer.Handler
	svc     *service.Service
}

// New assembles a Client from cfg: codec and transport are chosen by
// cfg.Binding, then wrapped in validation (optional) and auth (if a
// credential is configured) layers.
func New(cfg Config) (*Client, error) {
	var (
		c  codec.Codec
		tr transport.Transport
	)

	switch cfg.Binding {
	case BindingHTTPJSON:
		c = codec.NewJSONCodec()
		tr = transport.NewHTTPTransport(cfg.AgentURL)

	case BindingJSONRPCHTTP:
		c = codec.NewJSONRPCCodec()
		tr = transport.NewHTTPTransport(cfg.AgentURL)

	case BindingJSONRPCWebSocket:
		c = codec.NewJSONRPCCodec()
		wsURL, err := transport.WSURLFromHTTP(cfg.AgentURL)
		if err != nil {
			return nil, a2a.Wrap(a2a.KindValidation, err)
		}
		tr = transport.NewWebSocketTransport(wsURL)

	default:
		return nil, a2a.NewError(a2a.KindValidation, fmt.Sprintf("unknown binding %d", cfg.Binding))
	}

	svc := service.New(c, tr)

	var handler layer.Handler = svc
	handler = layer.NewAuthLayer(handler, cfg.Credential)
	if cfg.ValidateResponses {
		handler = layer.NewValidationLayer(handler)
	}
	handler = layer.NewRateLimitLayer(handler, cfg.RateLimiter)

	return &Client{cfg: cfg, handler: handler, svc: svc}, nil
}

func (cl *Client) withAgentURL(ctx context.Context) context.Context {
	return layer.WithAgentURL(ctx, cl.cfg.AgentURL)
}

// withCallContext attaches the agent URL and, unless ctx already carries a
// deadline of its own, bounds the call to cfg.Timeout (spec.md §5's "30s
// default per request, configurable per-context"). Callers must defer the
// returned cancel func.
func (cl *Client) withCallContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = cl.withAgentURL(ctx)
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, cl.cfg.Timeout)
}

// SendMessage sends a message and waits for the agent's immediate response
// (a Task in submitted/working state, or a completed one for synchronous
// agents).
func (cl *Client) SendMessage(ctx context.Context, msg a2a.Message) (a2a.Task, error) {
	clientLog.Debug("sending message", "agentUrl", cl.cfg.AgentURL)
	ctx, cancel := cl.withCallContext(ctx)
	defer cancel()
	resp, err := cl.handler.Handle(ctx, a2a.SendMessage(msg, false))
	if err != nil {
		return a2a.Task{}, err
	}
	if resp.Task == nil {
		return a2a.Task{}, a2a.NewError(a2a.KindProtocol, "send message response carried no task")
	}
	return *resp.Task, nil
}

// SendMessageToTask continues an existing task with a follow-up message.
func (cl *Client) SendMessageToTask(ctx context.Context, taskID string, msg a2a.Message) (a2a.Task, error) {
	ctx, cancel := cl.withCallContext(ctx)
	defer cancel()
	resp, err := cl.handler.Handle(ctx, a2a.SendMessageToTask(msg, taskID, false))
	if err != nil {
		return a2a.Task{}, err
	}
	if resp.Task == nil {
		return a2a.Task{}, a2a.NewError(a2a.KindProtocol, "send message response carried no task")
	}
	return *resp.Task, nil
}

// GetTask fetches a task by id.
func (cl *Client) GetTask(ctx context.Context, taskID string) (a2a.Task, error) {
	ctx, cancel := cl.withCallContext(ctx)
	defer cancel()
	resp, err := cl.handler.Handle(ctx, a2a.GetTask(taskID))
	if err != nil {
		return a2a.Task{}, err
	}
	if resp.Task == nil {
		return a2a.Task{}, a2a.NewError(a2a.KindProtocol, "get task response carried no task")
	}
	return *resp.Task, nil
}

// CancelTask requests cancellation of a task.
func (cl *Client) CancelTask(ctx context.Context, taskID string) (a2a.Task, error) {
	ctx, cancel := cl.withCallContext(ctx)
	defer cancel()
	resp, err := cl.handler.Handle(ctx, a2a.CancelTask(taskID))
	if err != nil {
		return a2a.Task{}, err
	}
	if resp.Task == nil {
		return a2a.Task{}, a2a.NewError(a2a.KindProtocol, "cancel task response carried no task")
	}
	return *resp.Task, nil
}

// ListTasks lists tasks, optionally filtered by status and paginated.
func (cl *Client) ListTasks(ctx context.Context, status *a2a.TaskState, limit, offset *int) (a2a.TaskList, error) {
	ctx, cancel := cl.withCallContext(ctx)
	defer cancel()
	resp, err := cl.handler.Handle(ctx, a2a.ListTasks(status, limit, offset))
	if err != nil {
		return a2a.TaskList{}, err
	}
	if resp.TaskList == nil {
		return a2a.TaskList{}, a2a.NewError(a2a.KindProtocol, "list tasks response carried no list")
	}
	return *resp.TaskList, nil
}

// DiscoverAgent fetches the agent's AgentCard from its well-known endpoint.
func (cl *Client) DiscoverAgent(ctx context.Context) (a2a.AgentCard, error) {
	ctx, cancel := cl.withCallContext(ctx)
	defer cancel()
	resp, err := cl.handler.Handle(ctx, a2a.DiscoverAgent())
	if err != nil {
		return a2a.AgentCard{}, err
	}
	if resp.AgentCard == nil {
		return a2a.AgentCard{}, a2a.NewError(a2a.KindProtocol, "discover agent response carried no card")
	}
	return *resp.AgentCard, nil
}

// RegisterWebhook registers a webhook url for the given events.
func (cl *Client) RegisterWebhook(ctx context.Context, url string, events []string, auth *string) error {
	ctx, cancel := cl.withCallContext(ctx)
	defer cancel()
	_, err := cl.handler.Handle(ctx, a2a.RegisterWebhook(url, events, auth))
	return err
}

// SubscribeTask opens a streaming subscription to a task's events. It
// bypasses the validation layer (streaming payloads are event fragments,
// not full Task/AgentCard responses) and cfg.Timeout (a subscription is
// long-lived by design, not a single bounded call) but still attaches auth.
func (cl *Client) SubscribeTask(ctx context.Context, taskID string) (<-chan transport.StreamItem, error) {
	ctx, err := layer.ApplyCredential(cl.withAgentURL(ctx), cl.cfg.Credential)
	if err != nil {
		return nil, err
	}
	return cl.svc.HandleStreaming(ctx, a2a.SubscribeTask(taskID))
}
