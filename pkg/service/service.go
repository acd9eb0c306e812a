// Package service implements the protocol service: the translation from an
// abstract Operation, carried alongside a context, into a concrete
// transport call and back into an a2a.Response or error. See spec.md §4.3.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/codec"
	"github.com/theapemachine/a2a-go/pkg/layer"
	"github.com/theapemachine/a2a-go/pkg/transport"
)

var serviceLog = log.Default().With("component", "service")

// Service is the innermost link in the layered stack: it owns a codec and a
// transport and knows nothing about auth or validation.
type Service struct {
	codec     codec.Codec
	transport transport.Transport
}

// New builds a Service over the given codec and transport.
func New(c codec.Codec, t transport.Transport) *Service {
	return &Service{codec: c, transport: t}
}

var _ layer.Handler = (*Service)(nil)

// Handle builds a transport request from op, executes it, and decodes the
// result, satisfying layer.Handler so Service can sit at the bottom of the
// same decorator chain as the auth and validation layers.
func (s *Service) Handle(ctx context.Context, op a2a.Operation) (a2a.Response, error) {
	req, err := s.buildRequest(ctx, op)
	if err != nil {
		return a2a.Response{}, err
	}

	resp, err := s.transport.Execute(ctx, req)
	if err != nil {
		return a2a.Response{}, a2a.Wrap(a2a.KindTransport, err)
	}

	if resp.Status < 200 || resp.Status >= 300 {
		return a2a.Response{}, mapStatusError(resp)
	}

	decoded, err := s.codec.DecodeResponse(resp.Body, op)
	if err != nil {
		return a2a.Response{}, err
	}
	return decoded, nil
}

// HandleStreaming is the streaming counterpart for operations where
// op.IsStreaming() is true. The transport must implement StreamingTransport.
func (s *Service) HandleStreaming(ctx context.Context, op a2a.Operation) (<-chan transport.StreamItem, error) {
	streaming, ok := s.transport.(transport.StreamingTransport)
	if !ok {
		return nil, a2a.NewError(a2a.KindTransport, "configured transport does not support streaming")
	}

	req, err := s.buildRequest(ctx, op)
	if err != nil {
		return nil, err
	}
	return streaming.ExecuteStreaming(ctx, req)
}

func (s *Service) buildRequest(ctx context.Context, op a2a.Operation) (transport.Request, error) {
	body, err := s.codec.EncodeRequest(op)
	if err != nil {
		return transport.Request{}, err
	}

	headers := map[string]string{
		"Content-Type": s.codec.ContentType(),
		"Accept":       s.codec.ContentType(),
		"A2A-Version":  "1.0",
	}
	if name, value, ok := layer.AuthHeaderFromContext(ctx); ok {
		headers[name] = value
	}
	if extra, ok := layer.ExtraHeadersFromContext(ctx); ok {
		for k, v := range extra {
			headers[k] = v
		}
	}

	return transport.Request{
		Method:  op.Method(),
		Path:    op.Endpoint(),
		Headers: headers,
		Body:    body,
	}, nil
}

// mapStatusError maps a non-2xx transport response to an a2a.Error per
// spec.md §6's status table: 401/403 Auth, 404 TaskNotFound (if the body
// carries taskId) else Protocol, 429 RateLimit, anything else Transport.
func mapStatusError(resp transport.Response) *a2a.Error {
	var body struct {
		Message string `json:"message"`
		TaskID  string `json:"taskId"`
	}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &body); err != nil {
			serviceLog.Debug("non-2xx response body is not JSON", "status", resp.Status)
		}
	}
	if body.Message == "" {
		body.Message = fmt.Sprintf("request failed with status %d", resp.Status)
	}

	switch resp.Status {
	case 401, 403:
		return a2a.NewError(a2a.KindAuth, body.Message)
	case 404:
		if body.TaskID != "" {
			return a2a.TaskNotFoundError(body.TaskID)
		}
		return a2a.NewError(a2a.KindProtocol, body.Message)
	case 429:
		return a2a.NewError(a2a.KindRateLimitExceeded, body.Message)
	default:
		return a2a.NewError(a2a.KindTransport, body.Message)
	}
}
