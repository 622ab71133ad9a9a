package audithook_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	audithook "github.com/nwittstruck/zeebe-client-go/audit_hook"
)

type memoryRecorder struct {
	mu     sync.Mutex
	events []*audithook.AuditEvent
	fail   error
}

func (r *memoryRecorder) Record(_ context.Context, evt *audithook.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.events = append(r.events, evt)
	return nil
}

func (r *memoryRecorder) recorded() []*audithook.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*audithook.AuditEvent(nil), r.events...)
}

func TestHook_RecordsConnectionLost(t *testing.T) {
	t.Parallel()

	rec := &memoryRecorder{}
	h := audithook.New(rec)

	if err := h.OnConnectionLost(errors.New("connection refused")); err != nil {
		t.Fatalf("OnConnectionLost: %v", err)
	}

	events := rec.recorded()
	if len(events) != 1 {
		t.Fatalf("recorded events = %d, want 1", len(events))
	}
	evt := events[0]
	if evt.Action != audithook.ActionConnectionLost {
		t.Errorf("Action = %q, want %q", evt.Action, audithook.ActionConnectionLost)
	}
	if evt.Severity != audithook.SeverityCritical {
		t.Errorf("Severity = %q, want %q", evt.Severity, audithook.SeverityCritical)
	}
	if evt.Outcome != audithook.OutcomeFailure {
		t.Errorf("Outcome = %q, want %q", evt.Outcome, audithook.OutcomeFailure)
	}
	if evt.Reason != "connection refused" {
		t.Errorf("Reason = %q, want the failure cause", evt.Reason)
	}
	if evt.At.IsZero() {
		t.Error("At should be set")
	}
}

func TestHook_RecordsRecoveryAndShutdown(t *testing.T) {
	t.Parallel()

	rec := &memoryRecorder{}
	h := audithook.New(rec)

	if err := h.OnConnectionRecovered(); err != nil {
		t.Fatalf("OnConnectionRecovered: %v", err)
	}
	if err := h.OnClientClosed(); err != nil {
		t.Fatalf("OnClientClosed: %v", err)
	}

	events := rec.recorded()
	if len(events) != 2 {
		t.Fatalf("recorded events = %d, want 2", len(events))
	}
	if events[0].Action != audithook.ActionConnectionRecovered || events[0].Severity != audithook.SeverityInfo {
		t.Errorf("first event = %+v, want info connection.recovered", events[0])
	}
	if events[1].Action != audithook.ActionClientClosed || events[1].Resource != audithook.ResourceClient {
		t.Errorf("second event = %+v, want client.closed on client resource", events[1])
	}
}

func TestHook_WithActionsFilters(t *testing.T) {
	t.Parallel()

	rec := &memoryRecorder{}
	h := audithook.New(rec, audithook.WithActions(audithook.ActionConnectionLost))

	if err := h.OnConnectionRecovered(); err != nil {
		t.Fatalf("OnConnectionRecovered: %v", err)
	}
	if err := h.OnConnectionLost(errors.New("down")); err != nil {
		t.Fatalf("OnConnectionLost: %v", err)
	}

	events := rec.recorded()
	if len(events) != 1 || events[0].Action != audithook.ActionConnectionLost {
		t.Errorf("recorded = %+v, want only connection.lost", events)
	}
}

func TestHook_RecorderFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	rec := &memoryRecorder{fail: errors.New("trail unavailable")}
	h := audithook.New(rec)

	if err := h.OnConnectionLost(errors.New("down")); err != nil {
		t.Errorf("OnConnectionLost = %v, want nil (recorder failures never propagate)", err)
	}
}

func TestAllActions_CoversEveryAction(t *testing.T) {
	t.Parallel()

	got := audithook.AllActions()
	want := map[string]bool{
		audithook.ActionConnectionLost:      true,
		audithook.ActionConnectionRecovered: true,
		audithook.ActionClientClosed:        true,
	}
	if len(got) != len(want) {
		t.Fatalf("AllActions = %v, want %d actions", got, len(want))
	}
	for _, a := range got {
		if !want[a] {
			t.Errorf("unexpected action %q", a)
		}
	}
}
