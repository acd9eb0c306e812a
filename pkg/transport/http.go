package transport

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	fiberclient "github.com/gofiber/fiber/v3/client"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/codec"
	"github.com/theapemachine/a2a-go/pkg/metrics"
)

// HTTPTransport delivers requests over plain HTTP. It is always ready:
// PollReady never blocks.
//
// Non-streaming calls go through the fiber client, the same library the
// teacher's original A2A client used (pkg/a2a/client.go). The streaming
// variant (ExecuteStreaming) needs a long-lived response body to read
// incrementally off, which is awkward over fasthttp's buffered model, so it
// uses net/http directly instead — the same choice the teacher's own SSE
// client made (pkg/sse/client.go).
type HTTPTransport struct {
	baseURL string
	client  *fiberclient.Client
	http    *http.Client
	sse     *codec.SSECodec
	metrics *metrics.StreamingMetrics
}

// Metrics returns the transport's streaming metrics, for callers that want
// to expose connection/event counters (e.g. on a health endpoint).
func (t *HTTPTransport) Metrics() *metrics.StreamingMetrics { return t.metrics }

var httpLog = log.Default().With("component", "transport.http")

// NewHTTPTransport builds an HTTP transport rooted at baseURL.
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  fiberclient.New(),
		http:    &http.Client{Timeout: 60 * time.Second},
		sse:     codec.NewSSECodec(),
		metrics: metrics.NewStreamingMetrics(),
	}
}

func (t *HTTPTransport) BaseURL() string { return t.baseURL }

func (t *HTTPTransport) SupportsStreaming() bool { return true }

func (t *HTTPTransport) PollReady(ctx context.Context) error { return nil }

// Execute sends req and returns the raw response. POST/GET/PUT/DELETE are
// all supported, per spec.md §4.4.
func (t *HTTPTransport) Execute(ctx context.Context, req Request) (Response, error) {
	agentReq := t.client.R().SetContext(ctx)
	for k, v := range req.Headers {
		agentReq.SetHeader(k, v)
	}
	if len(req.Body) > 0 {
		agentReq.SetBody(req.Body)
	}

	url := t.baseURL + req.Path

	var (
		resp *fiberclient.Response
		err  error
	)
	switch req.Method {
	case http.MethodGet:
		resp, err = agentReq.Get(url)
	case http.MethodPost:
		resp, err = agentReq.Post(url)
	case http.MethodPut:
		resp, err = agentReq.Put(url)
	case http.MethodDelete:
		resp, err = agentReq.Delete(url)
	default:
		return Response{}, fmt.Errorf("transport/http: unsupported method %q", req.Method)
	}
	if err != nil {
		httpLog.Error("request failed", "method", req.Method, "url", url, "err", err)
		return Response{}, err
	}

	return Response{
		Status: resp.StatusCode(),
		Body:   resp.Body(),
	}, nil
}

// ExecuteStreaming sends req with Accept: text/event-stream and returns a
// channel of decoded StreamEvents read incrementally off the response body.
func (t *HTTPTransport) ExecuteStreaming(ctx context.Context, req Request) (<-chan StreamItem, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, t.baseURL+req.Path, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	start := time.Now()
	resp, err := t.http.Do(httpReq)
	if err != nil {
		t.metrics.RecordConnection(false, time.Since(start))
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		t.metrics.RecordConnection(false, time.Since(start))
		return nil, fmt.Errorf("transport/http: streaming request failed with status %d", resp.StatusCode)
	}
	t.metrics.RecordConnection(true, time.Since(start))

	out := make(chan StreamItem)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		err := t.sse.DecodeStream(resp.Body, func(ev a2a.StreamEvent) error {
			eventStart := time.Now()
			select {
			case out <- StreamItem{Event: ev}:
				t.metrics.RecordEvent(false, time.Since(start), time.Since(eventStart))
				return nil
			case <-ctx.Done():
				t.metrics.RecordEvent(true, time.Since(start), time.Since(eventStart))
				return ctx.Err()
			}
		})
		if err != nil {
			select {
			case out <- StreamItem{Err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}
