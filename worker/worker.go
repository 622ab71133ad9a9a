// Package worker implements the job worker: a per-task-type loop that
// long-polls the gateway for jobs, runs the registered handler under a
// concurrency limit, and reports every activated job back exactly once.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/nwittstruck/zeebe-client-go/backoff"
	"github.com/nwittstruck/zeebe-client-go/gateway"
	"github.com/nwittstruck/zeebe-client-go/health"
)

// State is the worker lifecycle state.
type State string

const (
	// StateOpen means the loop is issuing activation requests.
	StateOpen State = "open"
	// StateClosing means Close was called; no new activation requests are
	// issued and in-flight handlers are draining.
	StateClosing State = "closing"
	// StateClosed is terminal: the loop has exited and the active job
	// count reached zero.
	StateClosed State = "closed"
)

// reportTimeout bounds the completion/failure report call so a dead
// gateway can never hold worker capacity forever.
const reportTimeout = 30 * time.Second

// Handler processes one activated job. The returned value is serialized as
// the completion variables (nil for none). Returning an error fails the
// job; return a *JobError to control the retry count and message. A panic
// is recovered and treated as a failure — a handler can never leave a job
// unreported or kill the worker.
type Handler func(ctx context.Context, job *gateway.ActivatedJob) (any, error)

// DropRetries marks a JobError as terminal: the job is failed with zero
// retries left, so the broker raises an incident instead of re-activating.
const DropRetries int32 = -1

// JobError is an explicit failure signal from a handler. The zero Retries
// keeps the default decrement, same as returning a plain error; set a
// positive count to override it, or DropRetries to fail terminally.
type JobError struct {
	// Message is reported to the broker.
	Message string
	// Retries overrides the remaining retry count when positive. Zero
	// means unset (decrement by one); DropRetries means none left.
	Retries int32
}

// Error implements the error interface.
func (e *JobError) Error() string { return e.Message }

// Worker is one job worker instance. Create it with New; it starts polling
// immediately and runs until Close.
type Worker struct {
	name      string
	reg       Registration
	transport gateway.Transport
	monitor   *health.Monitor
	wait      backoff.Strategy
	onError   func(error)
	logger    *slog.Logger

	stopCh   chan struct{}
	loopDone chan struct{}
	drained  chan struct{}

	closeOnce sync.Once

	mu         sync.Mutex
	state      State
	active     int
	loopExited bool
	signaled   bool
}

// New creates and starts a worker for the registration. The name is a
// display identifier used in logs and activation requests; monitor may be
// nil, in which case the connection-health gate is skipped.
func New(
	name string,
	transport gateway.Transport,
	monitor *health.Monitor,
	reg Registration,
	opts ...Option,
) (*Worker, error) {
	if reg.TaskType == "" {
		return nil, errors.New("worker: registration needs a task type")
	}
	if reg.Handler == nil {
		return nil, errors.New("worker: registration needs a handler")
	}

	w := &Worker{
		name:      name,
		reg:       reg,
		transport: transport,
		monitor:   monitor,
		logger:    slog.Default(),
		stopCh:    make(chan struct{}),
		loopDone:  make(chan struct{}),
		drained:   make(chan struct{}),
		state:     StateOpen,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.reg.normalize()
	if w.wait == nil {
		w.wait = backoff.NewConstant(w.reg.PollInterval)
	}
	w.logger = w.logger.With(slog.String("worker", w.name), slog.String("task_type", w.reg.TaskType))

	go w.run()
	return w, nil
}

// Name returns the worker's display identifier.
func (w *Worker) Name() string { return w.name }

// TaskType returns the task type this worker polls for.
func (w *Worker) TaskType() string { return w.reg.TaskType }

// State returns the current lifecycle state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// ActiveJobs returns the number of jobs currently being handled.
func (w *Worker) ActiveJobs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Close stops new activation requests immediately and waits until every
// in-flight handler has finished and reported. It is idempotent: repeated
// calls wait on the same drain signal. The context bounds only the wait,
// not the draining itself.
func (w *Worker) Close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.state = StateClosing
		w.mu.Unlock()
		close(w.stopCh)
		w.logger.Info("worker closing")
	})

	select {
	case <-w.drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the activation loop. One goroutine per worker; it is the only
// place the active count is incremented, so the concurrency limit can
// never be exceeded.
func (w *Worker) run() {
	defer func() {
		w.mu.Lock()
		w.loopExited = true
		w.mu.Unlock()
		close(w.loopDone)
		w.maybeSignalDrained()
	}()

	w.logger.Info("worker started",
		slog.Int("concurrency", w.reg.Concurrency),
		slog.Duration("poll_interval", w.reg.PollInterval),
	)

	waitAttempt := 0
	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		// Backpressure: never ask for more work than there is capacity to
		// run. No remote call is made while the worker is full.
		capacity := w.capacity()
		if capacity <= 0 {
			w.sleep(w.reg.PollInterval)
			continue
		}

		// Do not busy-poll a broken connection; the wait strategy governs
		// how often we peek at the monitor again.
		if w.monitor != nil && w.monitor.Status() == health.StatusError {
			waitAttempt++
			w.sleep(w.wait.Delay(waitAttempt))
			continue
		}
		waitAttempt = 0

		batch := capacity
		if maxJobs := int(w.reg.MaxJobsToActivate); maxJobs > 0 && batch > maxJobs {
			batch = maxJobs
		}

		resp, err := w.activate(batch)
		if err != nil {
			// Connectivity failures already moved the monitor to ERROR via
			// the interceptor; anything else is surfaced to the app.
			if !gateway.IsConnectivity(err) {
				w.reportError(fmt.Errorf("activate jobs: %w", err))
			}
			w.sleep(w.reg.PollInterval)
			continue
		}

		// Dispatch in broker order. Jobs from a poll that raced Close are
		// still dispatched: they were activated, so they must be reported.
		for _, job := range resp.Jobs {
			w.incrementActive()
			go w.handle(job)
		}
	}
}

// activate issues one bounded long-poll activation request.
func (w *Worker) activate(batch int) (*gateway.ActivateJobsResponse, error) {
	// The context deadline is a safety net above the server-side request
	// timeout; Close never cancels an in-flight poll.
	ctx, cancel := context.WithTimeout(context.Background(), w.reg.LongPollTimeout+10*time.Second)
	defer cancel()

	return w.transport.ActivateJobs(ctx, &gateway.ActivateJobsRequest{
		Type:              w.reg.TaskType,
		Worker:            w.name,
		Timeout:           w.reg.LeaseTimeout,
		MaxJobsToActivate: int32(batch),
		RequestTimeout:    w.reg.LongPollTimeout,
		FetchVariables:    w.reg.FetchVariables,
	})
}

// handle runs the handler for one job and reports the outcome. The active
// count is decremented exactly once, after the report call resolves,
// whether or not the report itself succeeded.
func (w *Worker) handle(job *gateway.ActivatedJob) {
	defer w.decrementActive()

	variables, handlerErr := w.invoke(job)

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	if handlerErr == nil {
		encoded, serErr := gateway.MarshalVariables(variables)
		if serErr != nil {
			handlerErr = serErr
		} else {
			if err := w.transport.CompleteJob(ctx, &gateway.CompleteJobRequest{
				JobKey:    job.Key,
				Variables: encoded,
			}); err != nil {
				w.reportError(fmt.Errorf("complete job %d: %w", job.Key, err))
			}
			return
		}
	}

	retries := job.Retries - 1
	message := handlerErr.Error()
	var jobErr *JobError
	if errors.As(handlerErr, &jobErr) {
		message = jobErr.Message
		switch {
		case jobErr.Retries > 0:
			retries = jobErr.Retries
		case jobErr.Retries == DropRetries:
			retries = 0
		}
	}
	if retries < 0 {
		retries = 0
	}

	w.logger.Debug("job handler failed",
		slog.Int64("job_key", job.Key),
		slog.Int("retries_left", int(retries)),
		slog.String("error", message),
	)

	if err := w.transport.FailJob(ctx, &gateway.FailJobRequest{
		JobKey:       job.Key,
		Retries:      retries,
		ErrorMessage: message,
	}); err != nil {
		w.reportError(fmt.Errorf("fail job %d: %w", job.Key, err))
	}
}

// invoke calls the handler with panic isolation. The handler context
// carries the job's lease deadline.
func (w *Worker) invoke(job *gateway.ActivatedJob) (variables any, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("job handler panicked",
				slog.Int64("job_key", job.Key),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			retErr = fmt.Errorf("panic in job handler: %v", r)
		}
	}()

	ctx := context.Background()
	if !job.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, job.Deadline)
		defer cancel()
	}

	return w.reg.Handler(ctx, job)
}

func (w *Worker) capacity() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reg.Concurrency - w.active
}

func (w *Worker) incrementActive() {
	w.mu.Lock()
	w.active++
	w.mu.Unlock()
}

func (w *Worker) decrementActive() {
	w.mu.Lock()
	w.active--
	w.mu.Unlock()
	w.maybeSignalDrained()
}

// maybeSignalDrained closes the drain signal once the loop has exited and
// the last in-flight job has been reported.
func (w *Worker) maybeSignalDrained() {
	w.mu.Lock()
	done := w.state == StateClosing && w.loopExited && w.active == 0 && !w.signaled
	if done {
		w.signaled = true
		w.state = StateClosed
	}
	w.mu.Unlock()

	if done {
		close(w.drained)
		w.logger.Info("worker closed")
	}
}

// reportError surfaces an asynchronous failure to the application's error
// callback, if one was supplied. Never blocks the loop on a nil callback.
func (w *Worker) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
		return
	}
	w.logger.Warn("worker error", slog.String("error", err.Error()))
}

func (w *Worker) sleep(d time.Duration) {
	select {
	case <-time.After(d):
	case <-w.stopCh:
	}
}
