package hook_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/nwittstruck/zeebe-client-go/hook"
)

// recordingHook implements every lifecycle interface.
type recordingHook struct {
	name      string
	lost      []error
	recovered int
	closed    int
	fail      error
}

func (h *recordingHook) Name() string { return h.name }

func (h *recordingHook) OnConnectionLost(err error) error {
	h.lost = append(h.lost, err)
	return h.fail
}

func (h *recordingHook) OnConnectionRecovered() error {
	h.recovered++
	return h.fail
}

func (h *recordingHook) OnClientClosed() error {
	h.closed++
	return h.fail
}

// lostOnlyHook opts in to a single event.
type lostOnlyHook struct {
	lost int
}

func (h *lostOnlyHook) Name() string                 { return "lost-only" }
func (h *lostOnlyHook) OnConnectionLost(error) error { h.lost++; return nil }

func newRegistry() *hook.Registry {
	return hook.NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistry_DispatchesAllEvents(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	h := &recordingHook{name: "recorder"}
	r.Register(h)

	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}

	cause := errors.New("connection refused")
	r.EmitConnectionLost(cause)
	r.EmitConnectionRecovered()
	r.EmitClientClosed()

	if len(h.lost) != 1 || !errors.Is(h.lost[0], cause) {
		t.Errorf("lost = %v, want one notification carrying the cause", h.lost)
	}
	if h.recovered != 1 {
		t.Errorf("recovered = %d, want 1", h.recovered)
	}
	if h.closed != 1 {
		t.Errorf("closed = %d, want 1", h.closed)
	}
}

func TestRegistry_OptInPerInterface(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	h := &lostOnlyHook{}
	r.Register(h)

	r.EmitConnectionLost(errors.New("down"))
	r.EmitConnectionRecovered()
	r.EmitClientClosed()

	if h.lost != 1 {
		t.Errorf("lost = %d, want 1", h.lost)
	}
}

func TestRegistry_HookErrorsDoNotStopDispatch(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	failing := &recordingHook{name: "failing", fail: errors.New("hook broke")}
	healthy := &recordingHook{name: "healthy"}
	r.Register(failing)
	r.Register(healthy)

	r.EmitConnectionLost(errors.New("down"))
	r.EmitClientClosed()

	if len(healthy.lost) != 1 {
		t.Errorf("healthy hook lost = %d, want 1 (failing hook must not block it)", len(healthy.lost))
	}
	if healthy.closed != 1 {
		t.Errorf("healthy hook closed = %d, want 1", healthy.closed)
	}
}

// panickingHook blows up on every lifecycle event.
type panickingHook struct{}

func (panickingHook) Name() string                 { return "panicking" }
func (panickingHook) OnConnectionLost(error) error { panic("hook bug") }
func (panickingHook) OnConnectionRecovered() error { panic("hook bug") }
func (panickingHook) OnClientClosed() error        { panic("hook bug") }

func TestRegistry_PanickingHookDoesNotCrashEmit(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	r.Register(panickingHook{})
	healthy := &recordingHook{name: "healthy"}
	r.Register(healthy)

	r.EmitConnectionLost(errors.New("down"))
	r.EmitConnectionRecovered()
	r.EmitClientClosed()

	if len(healthy.lost) != 1 || healthy.recovered != 1 || healthy.closed != 1 {
		t.Errorf("healthy hook got lost=%d recovered=%d closed=%d, want 1 each (panicking hook must be isolated)",
			len(healthy.lost), healthy.recovered, healthy.closed)
	}
}

func TestRegistry_EmitWithNoHooksIsNoop(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	r.EmitConnectionLost(errors.New("down"))
	r.EmitConnectionRecovered()
	r.EmitClientClosed()
}
