package audithook

import (
	"context"
	"log/slog"
	"time"

	"github.com/nwittstruck/zeebe-client-go/hook"
)

// Compile-time interface checks.
var (
	_ hook.Hook                = (*Hook)(nil)
	_ hook.ConnectionLost      = (*Hook)(nil)
	_ hook.ConnectionRecovered = (*Hook)(nil)
	_ hook.ClientClosed        = (*Hook)(nil)
)

// Recorder is the interface that audit backends must implement. It is
// defined locally so this package has no dependency on any concrete audit
// store — callers inject their backend at wiring time.
type Recorder interface {
	// Record persists a fully-formed audit event.
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is one recorded lifecycle event.
type AuditEvent struct {
	// What happened
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Category string `json:"category"`

	// Details
	Metadata map[string]any `json:"metadata,omitempty"`
	Outcome  string         `json:"outcome"`
	Severity string         `json:"severity"`
	Reason   string         `json:"reason,omitempty"`
	At       time.Time      `json:"at"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Severity constants.
const (
	SeverityInfo     = "info"
	SeverityCritical = "critical"
)

// Outcome constants.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Hook bridges client lifecycle events to an audit trail backend. Each
// lifecycle notification emits one structured audit event through the
// [Recorder].
type Hook struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates a Hook that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Hook {
	h := &Hook{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name implements hook.Hook.
func (h *Hook) Name() string { return "audit-hook" }

// ── Lifecycle hooks ─────────────────────────────────

// OnConnectionLost implements hook.ConnectionLost.
func (h *Hook) OnConnectionLost(cause error) error {
	return h.record(ActionConnectionLost, SeverityCritical, OutcomeFailure,
		ResourceGateway, CategoryConnection, cause)
}

// OnConnectionRecovered implements hook.ConnectionRecovered.
func (h *Hook) OnConnectionRecovered() error {
	return h.record(ActionConnectionRecovered, SeverityInfo, OutcomeSuccess,
		ResourceGateway, CategoryConnection, nil)
}

// OnClientClosed implements hook.ClientClosed.
func (h *Hook) OnClientClosed() error {
	return h.record(ActionClientClosed, SeverityInfo, OutcomeSuccess,
		ResourceClient, CategoryClient, nil)
}

// ── Internal helpers ────────────────────────────────

// record builds and sends an audit event if the action is enabled. A
// failing Recorder is logged and never propagated — the audit trail must
// not interfere with the client.
func (h *Hook) record(action, severity, outcome, resource, category string, cause error) error {
	if h.enabled != nil && !h.enabled[action] {
		return nil
	}

	evt := &AuditEvent{
		Action:   action,
		Resource: resource,
		Category: category,
		Outcome:  outcome,
		Severity: severity,
		At:       time.Now(),
	}
	if cause != nil {
		evt.Reason = cause.Error()
		evt.Metadata = map[string]any{"error": cause.Error()}
	}

	if err := h.recorder.Record(context.Background(), evt); err != nil {
		h.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"error", err,
		)
	}
	return nil
}
