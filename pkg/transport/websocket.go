package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/codec"
	"github.com/theapemachine/a2a-go/pkg/metrics"
)

// connState is the WebSocket connection's state machine, per spec.md §4.4.
type connState int

const (
	stateNotConnected connState = iota
	stateConnecting
	stateOpen
	stateClosing
	stateClosed
)

// defaultCallTimeout is the per-call deadline applied when the caller's
// context carries no deadline of its own.
const defaultCallTimeout = 30 * time.Second

// pendingEntry is what's registered in the pending-requests map for one
// outstanding id. Exactly one of oneShot/stream is non-nil.
type pendingEntry struct {
	oneShot chan []byte   // buffered 1: receiver's send never blocks
	stream  *unboundedChan // multi-shot, for SubscribeTask
}

// WebSocketTransport maintains at most one persistent connection, lazily
// established on first call, and multiplexes concurrent outbound calls
// over it by correlating JSON-RPC envelope ids to registered responders.
// This is the hardest subsystem in the client: see spec.md §4.4 for the
// full contract this implementation follows.
type WebSocketTransport struct {
	url string

	connMu sync.Mutex // guards state + conn, double-checked-lock discipline
	state  connState
	conn   *websocket.Conn
	// connectDone is non-nil exactly while state == stateConnecting; it is
	// closed (never sent on) the moment the in-flight dial finishes, success
	// or failure, so every caller waiting on it wakes and re-checks state.
	connectDone chan struct{}

	sendMu sync.Mutex // serializes frame writes

	pendingMu sync.RWMutex // guards pending
	pending   map[string]*pendingEntry

	sse *codec.SSECodec

	dialer *websocket.Dialer

	metrics *metrics.StreamingMetrics
}

// Metrics returns the transport's connection/event counters.
func (t *WebSocketTransport) Metrics() *metrics.StreamingMetrics { return t.metrics }

var wsLog = log.Default().With("component", "transport.websocket")

// NewWebSocketTransport builds a transport that will dial wsURL (ws:// or
// wss://) on first call.
func NewWebSocketTransport(wsURL string) *WebSocketTransport {
	return &WebSocketTransport{
		url:     wsURL,
		pending: make(map[string]*pendingEntry),
		sse:     codec.NewSSECodec(),
		dialer:  websocket.DefaultDialer,
		metrics: metrics.NewStreamingMetrics(),
	}
}

func (t *WebSocketTransport) BaseURL() string { return t.url }

func (t *WebSocketTransport) SupportsStreaming() bool { return true }

// PollReady always reports ready: the WebSocket transport buffers outbound
// frames behind the send lock rather than refusing calls.
func (t *WebSocketTransport) PollReady(ctx context.Context) error { return nil }

// ensureConnected establishes the connection if needed, under
// double-checked-lock discipline so concurrent callers share one dial: a
// caller that arrives while another is already dialing blocks on the
// in-flight dial's connectDone channel instead of failing, then re-checks
// state once it wakes.
func (t *WebSocketTransport) ensureConnected(ctx context.Context) error {
	for {
		t.connMu.Lock()
		switch t.state {
		case stateOpen:
			t.connMu.Unlock()
			return nil

		case stateConnecting:
			done := t.connectDone
			t.connMu.Unlock()
			select {
			case <-done:
				continue
			case <-ctx.Done():
				return a2a.Wrap(a2a.KindTimeout, ctx.Err())
			}

		default:
			wasClosed := t.state == stateClosed
			t.state = stateConnecting
			done := make(chan struct{})
			t.connectDone = done
			t.connMu.Unlock()

			start := time.Now()
			conn, _, err := t.dialer.DialContext(ctx, t.url, nil)
			if err != nil {
				t.connMu.Lock()
				t.state = stateNotConnected
				close(done)
				t.connMu.Unlock()
				t.metrics.RecordConnection(false, time.Since(start))
				return a2a.AgentNotFoundError(t.url, err)
			}
			t.metrics.RecordConnection(true, time.Since(start))
			if wasClosed {
				t.metrics.RecordReconnection()
			}

			t.connMu.Lock()
			t.conn = conn
			t.state = stateOpen
			close(done)
			t.connMu.Unlock()

			go t.receive(conn)
			return nil
		}
	}
}

// receive is the single receiver task: it reads text frames forever, parses
// each as a JSON-RPC envelope, extracts the id, and hands the raw envelope
// to the registered responder exactly once. Only this goroutine ever reads
// from the connection.
func (t *WebSocketTransport) receive(conn *websocket.Conn) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			wsLog.Warn("websocket read failed, closing", "err", err)
			t.transitionToClosing(a2a.NewError(a2a.KindTransport, "connection closed: "+err.Error()))
			return
		}
		if msgType == websocket.CloseMessage {
			t.transitionToClosing(a2a.NewError(a2a.KindTransport, "connection closed by peer"))
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var envelope struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			wsLog.Warn("dropping malformed frame", "err", err)
			continue
		}

		t.deliver(envelope.ID, data)
	}
}

// deliver hands frame data to the responder registered under id, if any.
// At-most-one delivery: one-shot entries are removed from the pending map
// before their channel is written to. A missing entry (orphaned
// registration, already delivered, or unknown id) is a silent no-op.
func (t *WebSocketTransport) deliver(id string, data []byte) {
	t.pendingMu.Lock()
	entry, ok := t.pending[id]
	if ok && entry.oneShot != nil {
		delete(t.pending, id)
	}
	t.pendingMu.Unlock()

	if !ok {
		t.metrics.RecordEvent(true, 0, 0)
		return
	}

	t.metrics.RecordEvent(false, 0, 0)
	if entry.oneShot != nil {
		entry.oneShot <- data
		return
	}
	entry.stream.send(data)
}

// transitionToClosing drains every outstanding responder with a Transport
// error, then marks the connection Closed. Reconnection is not automatic;
// the next Execute call re-enters Connecting.
func (t *WebSocketTransport) transitionToClosing(cause *a2a.Error) {
	t.connMu.Lock()
	t.state = stateClosing
	t.connMu.Unlock()

	t.pendingMu.Lock()
	pending := t.pending
	t.pending = make(map[string]*pendingEntry)
	t.pendingMu.Unlock()

	errJSON, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"error":   map[string]any{"code": -1, "message": cause.Message},
	})
	for _, entry := range pending {
		if entry.oneShot != nil {
			entry.oneShot <- errJSON
		} else {
			entry.stream.send(errJSON)
			entry.stream.close()
		}
	}

	t.connMu.Lock()
	t.state = stateClosed
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	t.connMu.Unlock()
}

func (t *WebSocketTransport) unregister(id string) {
	t.pendingMu.Lock()
	delete(t.pending, id)
	t.pendingMu.Unlock()
}

// ensureRequestID parses body for a JSON-RPC "id" field; if absent, it
// injects a fresh time-ordered UUID and returns the rewritten body.
func ensureRequestID(body []byte) (string, []byte, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", nil, a2a.Wrap(a2a.KindSerialization, err)
	}

	if raw, ok := envelope["id"]; ok {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil && id != "" {
			return id, body, nil
		}
	}

	id := codec.NewRequestID()
	idJSON, _ := json.Marshal(id)
	envelope["id"] = idJSON
	rewritten, err := json.Marshal(envelope)
	if err != nil {
		return "", nil, a2a.Wrap(a2a.KindSerialization, err)
	}
	return id, rewritten, nil
}

func (t *WebSocketTransport) send(body []byte) error {
	t.connMu.Lock()
	conn := t.conn
	t.connMu.Unlock()
	if conn == nil {
		return a2a.NewError(a2a.KindTransport, "connection is not open")
	}

	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, body)
}

// Execute performs one outbound JSON-RPC call and waits for its matching
// response, per the outbound-call protocol in spec.md §4.4. req.Body must
// already be a JSON-RPC envelope (built by codec.JSONRPCCodec).
func (t *WebSocketTransport) Execute(ctx context.Context, req Request) (Response, error) {
	if err := t.ensureConnected(ctx); err != nil {
		return Response{}, err
	}

	id, body, err := ensureRequestID(req.Body)
	if err != nil {
		return Response{}, err
	}

	respCh := make(chan []byte, 1)
	t.pendingMu.Lock()
	t.pending[id] = &pendingEntry{oneShot: respCh}
	t.pendingMu.Unlock()

	if err := t.send(body); err != nil {
		t.unregister(id)
		t.transitionToClosing(a2a.NewError(a2a.KindTransport, "send failed: "+err.Error()))
		return Response{}, a2a.Wrap(a2a.KindTransport, err)
	}

	deadline := defaultCallTimeout
	if dl, ok := ctx.Deadline(); ok {
		if remaining := time.Until(dl); remaining > 0 {
			deadline = remaining
		}
	}
	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case data := <-respCh:
		return wsFrameToResponse(data)
	case <-timer.C:
		t.unregister(id)
		return Response{}, a2a.NewError(a2a.KindTimeout, fmt.Sprintf("call %s timed out after %s", id, deadline))
	case <-ctx.Done():
		t.unregister(id)
		return Response{}, a2a.Wrap(a2a.KindTimeout, ctx.Err())
	}
}

func wsFrameToResponse(data []byte) (Response, error) {
	var env struct {
		Result json.RawMessage `json:"result,omitempty"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error,omitempty"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return Response{}, a2a.Wrap(a2a.KindSerialization, err)
	}
	if env.Error != nil {
		return Response{}, a2a.NewError(a2a.KindProtocol, fmt.Sprintf("json-rpc error %d: %s", env.Error.Code, env.Error.Message))
	}
	return Response{Status: 200, Body: data}, nil
}

// ExecuteStreaming reuses the same registration mechanism as Execute but
// registers an unbounded multi-shot channel: every frame matching the
// subscription id is decoded as a StreamEvent and forwarded, until a
// terminal event or a decode error has been forwarded, ctx is cancelled, or
// the connection closes; the id is then unregistered. A consumer that stops
// reading without cancelling ctx leaves the forwarder blocked and the id
// registered.
func (t *WebSocketTransport) ExecuteStreaming(ctx context.Context, req Request) (<-chan StreamItem, error) {
	if err := t.ensureConnected(ctx); err != nil {
		return nil, err
	}

	id, body, err := ensureRequestID(req.Body)
	if err != nil {
		return nil, err
	}

	stream := newUnboundedChan()
	t.pendingMu.Lock()
	t.pending[id] = &pendingEntry{stream: stream}
	t.pendingMu.Unlock()

	if err := t.send(body); err != nil {
		t.unregister(id)
		return nil, a2a.Wrap(a2a.KindTransport, err)
	}

	out := make(chan StreamItem)
	go func() {
		defer close(out)
		defer t.unregister(id)

		for {
			data, ok := stream.recv(ctx)
			if !ok {
				return
			}

			ev, err := t.sse.DecodeEvent(data)
			item := StreamItem{Event: ev, Err: err}
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
			if err != nil || ev.IsTerminal() {
				return
			}
		}
	}()

	return out, nil
}

// unboundedChan is a growable-queue substitute for a truly unbounded
// channel: the receiver task must never block handing off a frame to a
// slow streaming consumer, since it is the only goroutine allowed to read
// the connection.
type unboundedChan struct {
	mu     sync.Mutex
	buf    [][]byte
	notify chan struct{}
	closed bool
}

func newUnboundedChan() *unboundedChan {
	return &unboundedChan{notify: make(chan struct{}, 1)}
}

func (u *unboundedChan) send(v []byte) {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return
	}
	u.buf = append(u.buf, v)
	u.mu.Unlock()

	select {
	case u.notify <- struct{}{}:
	default:
	}
}

func (u *unboundedChan) close() {
	u.mu.Lock()
	u.closed = true
	u.mu.Unlock()
	select {
	case u.notify <- struct{}{}:
	default:
	}
}

func (u *unboundedChan) recv(ctx context.Context) ([]byte, bool) {
	for {
		u.mu.Lock()
		if len(u.buf) > 0 {
			v := u.buf[0]
			u.buf = u.buf[1:]
			u.mu.Unlock()
			return v, true
		}
		closed := u.closed
		u.mu.Unlock()
		if closed {
			return nil, false
		}

		select {
		case <-u.notify:
		case <-ctx.Done():
			return nil, false
		}
	}
}

// WSURLFromHTTP rewrites an http(s) base URL to its ws(s) equivalent, the
// same scheme swap the teacher's vision stream client does.
func WSURLFromHTTP(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	return u.String(), nil
}
