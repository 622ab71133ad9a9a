package worker

import (
	"log/slog"
	"time"

	"github.com/nwittstruck/zeebe-client-go/backoff"
)

// Defaults applied by Registration.normalize. The broker protocol fixes
// none of these; they are client-side tuning knobs.
const (
	// DefaultConcurrency is the per-worker limit on jobs handled at once.
	DefaultConcurrency = 32
	// DefaultPollInterval is the wait between loop re-evaluations when the
	// worker is at capacity or the last poll failed.
	DefaultPollInterval = 300 * time.Millisecond
	// DefaultLongPollTimeout bounds one activation long poll.
	DefaultLongPollTimeout = 30 * time.Second
	// DefaultLeaseTimeout is how long an activated job stays exclusively
	// claimed before the broker hands it to another worker.
	DefaultLeaseTimeout = 60 * time.Second
)

// Registration describes one job worker. Immutable once the worker is
// created.
type Registration struct {
	// TaskType is the job type this worker polls for.
	TaskType string
	// Handler processes each activated job.
	Handler Handler
	// Concurrency caps how many jobs run at once.
	Concurrency int
	// PollInterval is the capacity/back-off wait.
	PollInterval time.Duration
	// LongPollTimeout bounds one activation request.
	LongPollTimeout time.Duration
	// LeaseTimeout is the exclusive claim duration per activated job.
	LeaseTimeout time.Duration
	// MaxJobsToActivate caps a single activation batch. Zero means the
	// concurrency limit; the actual request is always further bounded by
	// free capacity.
	MaxJobsToActivate int32
	// FetchVariables restricts which variables the broker returns.
	// Empty fetches all.
	FetchVariables []string
}

// normalize fills zero fields with package defaults.
func (r *Registration) normalize() {
	if r.Concurrency <= 0 {
		r.Concurrency = DefaultConcurrency
	}
	if r.PollInterval <= 0 {
		r.PollInterval = DefaultPollInterval
	}
	if r.LongPollTimeout <= 0 {
		r.LongPollTimeout = DefaultLongPollTimeout
	}
	if r.LeaseTimeout <= 0 {
		r.LeaseTimeout = DefaultLeaseTimeout
	}
	if r.MaxJobsToActivate <= 0 {
		r.MaxJobsToActivate = int32(r.Concurrency)
	}
}

// Option configures a Worker beyond its Registration.
type Option func(*Worker)

// WithLogger sets the structured logger for the worker.
func WithLogger(l *slog.Logger) Option {
	return func(w *Worker) { w.logger = l }
}

// WithWaitStrategy sets the wait strategy for the broken-connection delay.
// The default re-checks at the registration's poll interval; pass an
// exponential strategy to poll a down gateway less aggressively.
func WithWaitStrategy(s backoff.Strategy) Option {
	return func(w *Worker) { w.wait = s }
}

// WithErrorHandler registers a callback for asynchronous failures: failing
// completion/failure reports and broker-rejected activation requests.
// Connectivity losses are not routed here — they surface through the
// client's connection hooks. Without a callback these failures are logged.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Worker) { w.onError = fn }
}
