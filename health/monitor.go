package health

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Status is the monitor's view of the gateway connection.
type Status string

const (
	// StatusConnected is the initial, optimistic state.
	StatusConnected Status = "connected"
	// StatusError means the last connectivity-classified outcome failed
	// outside the startup grace window.
	StatusError Status = "error"
)

// coldStartLogInterval throttles the informational log emitted for
// connectivity failures inside the startup grace window.
const coldStartLogInterval = 5 * time.Second

// Notifier receives connection state transitions. Each method is called
// exactly once per transition, never repeatedly while the state holds.
type Notifier interface {
	EmitConnectionLost(err error)
	EmitConnectionRecovered()
}

// State is a point-in-time snapshot of the monitor.
type State struct {
	Status              Status
	LastTransitionAt    time.Time
	ConsecutiveFailures int
}

// Monitor folds observed call outcomes into a connection state shared by
// the client façade and every job worker. Transitions happen only in
// response to observed outcomes, never speculatively. Updates are
// last-writer-wins under a single mutex.
type Monitor struct {
	characteristics Characteristics
	startedAt       time.Time
	notifier        Notifier
	logger          *slog.Logger
	coldStartLog    *rate.Limiter

	mu       sync.Mutex
	status   Status
	lastAt   time.Time
	failures int
}

// NewMonitor creates a Monitor in the CONNECTED state.
func NewMonitor(c Characteristics, notifier Notifier, logger *slog.Logger) *Monitor {
	return &Monitor{
		characteristics: c,
		startedAt:       time.Now(),
		notifier:        notifier,
		logger:          logger,
		coldStartLog:    rate.NewLimiter(rate.Every(coldStartLogInterval), 1),
		status:          StatusConnected,
		lastAt:          time.Now(),
	}
}

// Characteristics returns the environment characteristics the monitor was
// built with.
func (m *Monitor) Characteristics() Characteristics { return m.characteristics }

// Status returns the current connection status without blocking on I/O.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Snapshot returns the full monitor state.
func (m *Monitor) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		Status:              m.status,
		LastTransitionAt:    m.lastAt,
		ConsecutiveFailures: m.failures,
	}
}

// Observe feeds one call outcome into the state machine. A nil err is a
// success; connectivity marks whether a failure was connection-level.
// Non-connectivity failures never change state.
func (m *Monitor) Observe(err error, connectivity bool) {
	if err == nil {
		m.observeSuccess()
		return
	}
	if !connectivity {
		return
	}
	m.observeConnectivityFailure(err)
}

func (m *Monitor) observeSuccess() {
	m.mu.Lock()
	recovered := m.status == StatusError
	m.status = StatusConnected
	m.failures = 0
	if recovered {
		m.lastAt = time.Now()
	}
	m.mu.Unlock()

	if recovered {
		m.logger.Info("gateway connection recovered")
		if m.notifier != nil {
			m.notifier.EmitConnectionRecovered()
		}
	}
}

func (m *Monitor) observeConnectivityFailure(err error) {
	elapsed := time.Since(m.startedAt)

	m.mu.Lock()
	m.failures++

	// Inside the startup grace window a managed cluster may still be
	// provisioning; stay CONNECTED and only log, throttled.
	if elapsed < m.characteristics.StartupGrace && m.status == StatusConnected {
		m.mu.Unlock()
		if m.coldStartLog.Allow() {
			m.logger.Info("gateway not ready yet, expected during cluster cold start",
				slog.Duration("elapsed", elapsed),
				slog.Duration("grace", m.characteristics.StartupGrace),
			)
		}
		return
	}

	lost := m.status == StatusConnected
	m.status = StatusError
	if lost {
		m.lastAt = time.Now()
	}
	m.mu.Unlock()

	if lost {
		m.logger.Error("gateway connection lost", slog.String("error", err.Error()))
		if m.notifier != nil {
			m.notifier.EmitConnectionLost(err)
		}
	}
}
