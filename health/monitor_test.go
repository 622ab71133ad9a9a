package health_test

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/nwittstruck/zeebe-client-go/health"
)

type countingNotifier struct {
	mu        sync.Mutex
	lost      int
	recovered int
}

func (n *countingNotifier) EmitConnectionLost(error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lost++
}

func (n *countingNotifier) EmitConnectionRecovered() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recovered++
}

func (n *countingNotifier) counts() (lost, recovered int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lost, n.recovered
}

var errConnRefused = errors.New("connection refused")

func newMonitor(t *testing.T, grace time.Duration) (*health.Monitor, *countingNotifier) {
	t.Helper()
	n := &countingNotifier{}
	m := health.NewMonitor(
		health.Characteristics{Profile: health.ProfileSelfManaged, StartupGrace: grace},
		n,
		slog.Default(),
	)
	return m, n
}

func TestMonitor_StartsConnected(t *testing.T) {
	t.Parallel()

	m, _ := newMonitor(t, 0)
	if got := m.Status(); got != health.StatusConnected {
		t.Errorf("initial Status = %q, want %q", got, health.StatusConnected)
	}
}

func TestMonitor_ConnectivityFailureOutsideGrace(t *testing.T) {
	t.Parallel()

	m, n := newMonitor(t, 0)
	m.Observe(errConnRefused, true)

	if got := m.Status(); got != health.StatusError {
		t.Errorf("Status = %q, want %q", got, health.StatusError)
	}
	if lost, _ := n.counts(); lost != 1 {
		t.Errorf("lost notifications = %d, want 1", lost)
	}
}

func TestMonitor_EmitsLostOncePerFailingRun(t *testing.T) {
	t.Parallel()

	m, n := newMonitor(t, 0)
	for range 5 {
		m.Observe(errConnRefused, true)
	}

	if lost, _ := n.counts(); lost != 1 {
		t.Errorf("lost notifications = %d, want 1 (no re-emit while still ERROR)", lost)
	}

	snap := m.Snapshot()
	if snap.ConsecutiveFailures != 5 {
		t.Errorf("ConsecutiveFailures = %d, want 5", snap.ConsecutiveFailures)
	}
}

func TestMonitor_RecoveryEmitsOncePerTransition(t *testing.T) {
	t.Parallel()

	m, n := newMonitor(t, 0)
	m.Observe(errConnRefused, true)
	m.Observe(nil, false)
	m.Observe(nil, false)

	if got := m.Status(); got != health.StatusConnected {
		t.Errorf("Status = %q, want %q", got, health.StatusConnected)
	}
	if _, recovered := n.counts(); recovered != 1 {
		t.Errorf("recovered notifications = %d, want 1", recovered)
	}

	// A second failing run emits lost again.
	m.Observe(errConnRefused, true)
	m.Observe(errConnRefused, true)
	if lost, _ := n.counts(); lost != 2 {
		t.Errorf("lost notifications = %d, want 2 (one per contiguous run)", lost)
	}
}

func TestMonitor_SuppressesFailuresDuringStartupGrace(t *testing.T) {
	t.Parallel()

	m, n := newMonitor(t, time.Hour)
	m.Observe(errConnRefused, true)
	m.Observe(errConnRefused, true)

	if got := m.Status(); got != health.StatusConnected {
		t.Errorf("Status during grace = %q, want %q (expected cold start)", got, health.StatusConnected)
	}
	if lost, _ := n.counts(); lost != 0 {
		t.Errorf("lost notifications during grace = %d, want 0", lost)
	}
}

func TestMonitor_GraceWindowExpires(t *testing.T) {
	t.Parallel()

	m, n := newMonitor(t, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	m.Observe(errConnRefused, true)
	if got := m.Status(); got != health.StatusError {
		t.Errorf("Status after grace = %q, want %q", got, health.StatusError)
	}
	if lost, _ := n.counts(); lost != 1 {
		t.Errorf("lost notifications = %d, want 1", lost)
	}
}

func TestMonitor_NonConnectivityFailuresNeverChangeState(t *testing.T) {
	t.Parallel()

	m, n := newMonitor(t, 0)
	m.Observe(errors.New("process not found"), false)

	if got := m.Status(); got != health.StatusConnected {
		t.Errorf("Status = %q, want %q (request errors are leaf errors)", got, health.StatusConnected)
	}
	if lost, _ := n.counts(); lost != 0 {
		t.Errorf("lost notifications = %d, want 0", lost)
	}

	// And they do not reset an ERROR state either.
	m.Observe(errConnRefused, true)
	m.Observe(errors.New("process not found"), false)
	if got := m.Status(); got != health.StatusError {
		t.Errorf("Status = %q, want %q", got, health.StatusError)
	}
}

func TestMonitor_ConcurrentObserves(t *testing.T) {
	t.Parallel()

	m, _ := newMonitor(t, 0)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				m.Observe(errConnRefused, true)
			} else {
				m.Observe(nil, false)
			}
		}()
	}
	wg.Wait()

	// Last-writer-wins: either terminal state is fine, but the monitor
	// must be internally consistent.
	got := m.Status()
	if got != health.StatusConnected && got != health.StatusError {
		t.Errorf("Status = %q, want connected or error", got)
	}
}
