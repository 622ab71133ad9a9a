package wire

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/nwittstruck/zeebe-client-go/gateway"
)

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the structured logger for the transport.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) { t.logger = l }
}

// WithTLS switches the WebSocket scheme to wss.
func WithTLS() Option {
	return func(t *Transport) { t.scheme = "wss" }
}

// Transport is the default gateway.Transport over a single WebSocket
// connection. The connection is dialed on the first call and re-dialed on
// the call after a connection loss; individual calls are never retried.
type Transport struct {
	address string
	scheme  string
	logger  *slog.Logger

	// connMu guards conn establishment and replacement; writeMu serializes
	// frame writes on the established connection.
	connMu  sync.Mutex
	writeMu sync.Mutex
	conn    net.Conn
	closed  atomic.Bool

	// Request-response correlation: frame ID → chan *Frame.
	pending sync.Map
}

// New creates a Transport for a normalized host:port gateway address.
// No connection is made until the first call, so constructing a client
// against a cold-starting cluster never fails here.
func New(address string, opts ...Option) *Transport {
	t := &Transport{
		address: address,
		scheme:  "ws",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ gateway.Transport = (*Transport)(nil)

// ensureConnected dials the gateway if no connection is live. One dial
// attempt per call; a failure is the call's outcome.
func (t *Transport) ensureConnected(ctx context.Context) (net.Conn, error) {
	t.connMu.Lock()
	defer t.connMu.Unlock()

	if t.closed.Load() {
		return nil, gateway.NewError(gateway.CodeUnavailable, "transport closed")
	}
	if t.conn != nil {
		return t.conn, nil
	}

	url := fmt.Sprintf("%s://%s", t.scheme, t.address)
	conn, _, _, err := ws.Dial(ctx, url)
	if err != nil {
		return nil, gateway.Unavailable(fmt.Errorf("dial %s: %w", url, err))
	}
	t.conn = conn
	t.logger.Debug("gateway connection established", slog.String("url", url))

	go t.readLoop(conn)
	return conn, nil
}

// readLoop reads frames from one connection and correlates responses to
// pending requests. On a read error it fails every pending call and drops
// the connection so the next call re-dials.
func (t *Transport) readLoop(conn net.Conn) {
	for {
		data, err := wsutil.ReadServerText(conn)
		if err != nil {
			if !t.closed.Load() {
				t.logger.Warn("gateway read error", slog.String("error", err.Error()))
			}
			t.dropConn(conn, err)
			return
		}

		var frame Frame
		if unmarshalErr := json.Unmarshal(data, &frame); unmarshalErr != nil {
			t.logger.Warn("gateway sent invalid frame", slog.String("error", unmarshalErr.Error()))
			continue
		}

		switch frame.Type {
		case FrameResponse, FrameErr:
			if val, ok := t.pending.LoadAndDelete(frame.CorrelID); ok {
				ch := val.(chan *Frame) //nolint:errcheck // pending map always stores chan *Frame
				ch <- &frame
			}
		default:
			// Unsolicited frame types are ignored.
		}
	}
}

// dropConn closes a dead connection and fails all pending requests.
func (t *Transport) dropConn(conn net.Conn, cause error) {
	t.connMu.Lock()
	if t.conn == conn {
		t.conn = nil
	}
	t.connMu.Unlock()
	_ = conn.Close()

	failure := &Frame{
		Type: FrameErr,
		Error: &ErrorDetail{
			Code:    gateway.CodeUnavailable.String(),
			Message: fmt.Sprintf("connection lost: %v", cause),
		},
	}
	t.pending.Range(func(key, val any) bool {
		if _, ok := t.pending.LoadAndDelete(key); ok {
			ch := val.(chan *Frame) //nolint:errcheck // pending map always stores chan *Frame
			ch <- failure
		}
		return true
	})
}

// request performs one correlated request/response exchange.
func (t *Transport) request(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	conn, err := t.ensureConnected(ctx)
	if err != nil {
		return nil, err
	}

	frame, err := NewRequestFrame(method, payload)
	if err != nil {
		return nil, err
	}

	respCh := make(chan *Frame, 1)
	t.pending.Store(frame.ID, respCh)
	defer t.pending.Delete(frame.ID)

	if writeErr := t.writeFrame(conn, frame); writeErr != nil {
		return nil, gateway.Unavailable(fmt.Errorf("write %s: %w", method, writeErr))
	}

	select {
	case resp := <-respCh:
		if resp.Type == FrameErr {
			detail := resp.Error
			if detail == nil {
				return nil, gateway.NewError(gateway.CodeUnknown, "gateway returned an empty error frame")
			}
			return nil, gateway.NewError(gateway.CodeFromString(detail.Code), detail.Message)
		}
		return resp.Data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// writeFrame JSON-encodes and sends a frame, serialized by the write mutex.
func (t *Transport) writeFrame(conn net.Conn, frame *Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return wsutil.WriteClientText(conn, data)
}

// call is the shared request shape for operations with a typed response.
func call[T any](t *Transport, ctx context.Context, method string, payload any) (*T, error) {
	data, err := t.request(ctx, method, payload)
	if err != nil {
		return nil, err
	}
	resp := new(T)
	if len(data) > 0 {
		if err := json.Unmarshal(data, resp); err != nil {
			return nil, fmt.Errorf("wire: unmarshal %s response: %w", method, err)
		}
	}
	return resp, nil
}

// ── gateway.Transport ───────────────────────────────

func (t *Transport) Topology(ctx context.Context) (*gateway.TopologyResponse, error) {
	return call[gateway.TopologyResponse](t, ctx, MethodTopology, nil)
}

func (t *Transport) DeployProcess(ctx context.Context, req *gateway.DeployProcessRequest) (*gateway.DeployProcessResponse, error) {
	return call[gateway.DeployProcessResponse](t, ctx, MethodDeployProcess, req)
}

func (t *Transport) CreateProcessInstance(ctx context.Context, req *gateway.CreateProcessInstanceRequest) (*gateway.CreateProcessInstanceResponse, error) {
	return call[gateway.CreateProcessInstanceResponse](t, ctx, MethodCreateProcessInstance, req)
}

func (t *Transport) CancelProcessInstance(ctx context.Context, req *gateway.CancelProcessInstanceRequest) error {
	_, err := t.request(ctx, MethodCancelProcessInstance, req)
	return err
}

func (t *Transport) PublishMessage(ctx context.Context, req *gateway.PublishMessageRequest) (*gateway.PublishMessageResponse, error) {
	return call[gateway.PublishMessageResponse](t, ctx, MethodPublishMessage, req)
}

func (t *Transport) ActivateJobs(ctx context.Context, req *gateway.ActivateJobsRequest) (*gateway.ActivateJobsResponse, error) {
	return call[gateway.ActivateJobsResponse](t, ctx, MethodActivateJobs, req)
}

func (t *Transport) CompleteJob(ctx context.Context, req *gateway.CompleteJobRequest) error {
	_, err := t.request(ctx, MethodCompleteJob, req)
	return err
}

func (t *Transport) FailJob(ctx context.Context, req *gateway.FailJobRequest) error {
	_, err := t.request(ctx, MethodFailJob, req)
	return err
}

func (t *Transport) UpdateJobRetries(ctx context.Context, req *gateway.UpdateJobRetriesRequest) error {
	_, err := t.request(ctx, MethodUpdateJobRetries, req)
	return err
}

func (t *Transport) SetVariables(ctx context.Context, req *gateway.SetVariablesRequest) (*gateway.SetVariablesResponse, error) {
	return call[gateway.SetVariablesResponse](t, ctx, MethodSetVariables, req)
}

func (t *Transport) ListProcesses(ctx context.Context) (*gateway.ListProcessesResponse, error) {
	return call[gateway.ListProcessesResponse](t, ctx, MethodListProcesses, nil)
}

// getProcessPayload is the wire shape of the discriminated process lookup.
// Exactly one member is set, chosen from the request's Lookup variant.
type getProcessPayload struct {
	ByKey       *gateway.ByKey       `json:"by_key,omitempty"`
	ByProcessID *gateway.ByProcessID `json:"by_process_id,omitempty"`
}

func (t *Transport) GetProcess(ctx context.Context, req *gateway.GetProcessRequest) (*gateway.GetProcessResponse, error) {
	var payload getProcessPayload
	switch lookup := req.Lookup.(type) {
	case gateway.ByKey:
		payload.ByKey = &lookup
	case gateway.ByProcessID:
		payload.ByProcessID = &lookup
	default:
		return nil, gateway.NewError(gateway.CodeInvalidArgument, "getProcess requires a lookup variant")
	}
	return call[gateway.GetProcessResponse](t, ctx, MethodGetProcess, payload)
}

func (t *Transport) ResolveIncident(ctx context.Context, req *gateway.ResolveIncidentRequest) error {
	_, err := t.request(ctx, MethodResolveIncident, req)
	return err
}

// Close shuts the transport down. Safe to call more than once.
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil // already closed
	}

	t.connMu.Lock()
	conn := t.conn
	t.conn = nil
	t.connMu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}
