package zeebe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nwittstruck/zeebe-client-go/bpmn"
	"github.com/nwittstruck/zeebe-client-go/gateway"
	"github.com/nwittstruck/zeebe-client-go/health"
	"github.com/nwittstruck/zeebe-client-go/hook"
	"github.com/nwittstruck/zeebe-client-go/worker"
)

// Client is the gateway façade: request/response process operations plus
// the job worker factory. One Client shares a single transport connection
// and a single connection health monitor across everything it creates.
type Client struct {
	address         string
	characteristics health.Characteristics
	logger          *slog.Logger
	logLevel        string
	useTLS          bool
	pendingHooks    []hook.Hook

	hooks        *hook.Registry
	monitor      *health.Monitor
	rawTransport gateway.Transport
	transport    gateway.Transport

	mu        sync.Mutex
	closing   bool
	workers   []*worker.Worker
	workerSeq int

	closedCh chan struct{}
	closeErr error
}

// New creates a Client for a gateway address of the form host[:port]; the
// default port 26500 is appended when none is given. Construction never
// dials: a cold-starting cluster does not fail New, it only delays the
// first successful call.
func New(address string, opts ...Option) (*Client, error) {
	normalized, err := normalizeAddress(address)
	if err != nil {
		return nil, err
	}

	c := &Client{
		address:  normalized,
		closedCh: make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.logger == nil {
		level := resolveLogLevel(os.Getenv(LogLevelEnv), c.logLevel, defaultLogLevel)
		c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	c.hooks = hook.NewRegistry(c.logger)
	for _, h := range c.pendingHooks {
		c.hooks.Register(h)
	}
	c.pendingHooks = nil

	c.characteristics = health.Classify(c.address)
	c.monitor = health.NewMonitor(c.characteristics, c.hooks, c.logger)

	if c.rawTransport == nil {
		c.rawTransport = newWireTransport(c.address, c.useTLS, c.logger)
	}
	c.transport = &monitoredTransport{inner: c.rawTransport, monitor: c.monitor}

	c.logger.Debug("client created",
		slog.String("address", c.address),
		slog.String("profile", string(c.characteristics.Profile)),
	)
	return c, nil
}

// Address returns the normalized gateway address.
func (c *Client) Address() string { return c.address }

// Characteristics returns the environment characteristics derived from
// the address at construction.
func (c *Client) Characteristics() health.Characteristics { return c.characteristics }

// ConnectionStatus returns the monitor's current view of the connection.
func (c *Client) ConnectionStatus() health.Status { return c.monitor.Status() }

// ── Process operations ──────────────────────────────

// Topology returns the current cluster layout.
func (c *Client) Topology(ctx context.Context) (*gateway.TopologyResponse, error) {
	return c.transport.Topology(ctx)
}

// DeployOption configures a DeployProcess call.
type DeployOption func(*deploySettings)

type deploySettings struct {
	redeploy bool
}

// WithRedeploy controls whether definitions whose process id is already
// deployed are sent again. The default is true; with false, files whose
// derived process id already exists on the broker are filtered out first,
// and if nothing remains no remote deploy call is made at all.
func WithRedeploy(redeploy bool) DeployOption {
	return func(s *deploySettings) { s.redeploy = redeploy }
}

// DeployProcess reads the given process-definition files and deploys them.
// With WithRedeploy(false) and every derived process id already deployed,
// it returns the sentinel response {Key: -1} without a remote deploy call.
func (c *Client) DeployProcess(ctx context.Context, paths []string, opts ...DeployOption) (*gateway.DeployProcessResponse, error) {
	if len(paths) == 0 {
		return nil, ErrNoResources
	}

	settings := deploySettings{redeploy: true}
	for _, opt := range opts {
		opt(&settings)
	}

	docs, err := bpmn.Parse(paths...)
	if err != nil {
		return nil, err
	}

	if !settings.redeploy {
		docs, err = c.filterDeployed(ctx, docs)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			c.logger.Info("deploy skipped, all process ids already deployed")
			return &gateway.DeployProcessResponse{Key: -1, Processes: []gateway.ProcessMetadata{}}, nil
		}
	}

	req := &gateway.DeployProcessRequest{}
	for _, doc := range docs {
		req.Resources = append(req.Resources, gateway.Resource{
			Name:       doc.Name,
			Definition: doc.Data,
		})
	}
	return c.transport.DeployProcess(ctx, req)
}

// filterDeployed drops documents whose process id is already known to the
// broker.
func (c *Client) filterDeployed(ctx context.Context, docs []bpmn.Document) ([]bpmn.Document, error) {
	list, err := c.transport.ListProcesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deployed processes: %w", err)
	}

	deployed := make(map[string]bool, len(list.Processes))
	for _, p := range list.Processes {
		deployed[p.BpmnProcessID] = true
	}

	var fresh []bpmn.Document
	for _, doc := range docs {
		id, err := doc.ProcessID()
		if err != nil {
			return nil, err
		}
		if !deployed[id] {
			fresh = append(fresh, doc)
		}
	}
	return fresh, nil
}

// CreateOption configures a CreateProcessInstance call.
type CreateOption func(*gateway.CreateProcessInstanceRequest)

// WithVersion pins the process definition version instead of latest.
func WithVersion(version int32) CreateOption {
	return func(req *gateway.CreateProcessInstanceRequest) { req.Version = version }
}

// CreateProcessInstance starts an instance of the latest (or pinned)
// version of a process. Structured variables are serialized to JSON text;
// string variables pass through as-is.
func (c *Client) CreateProcessInstance(ctx context.Context, processID string, variables any, opts ...CreateOption) (*gateway.CreateProcessInstanceResponse, error) {
	encoded, err := gateway.MarshalVariables(variables)
	if err != nil {
		return nil, err
	}

	req := &gateway.CreateProcessInstanceRequest{
		BpmnProcessID: processID,
		Version:       gateway.LatestVersion,
		Variables:     encoded,
	}
	for _, opt := range opts {
		opt(req)
	}
	return c.transport.CreateProcessInstance(ctx, req)
}

// CancelProcessInstance cancels a running process instance by key.
func (c *Client) CancelProcessInstance(ctx context.Context, processInstanceKey int64) error {
	return c.transport.CancelProcessInstance(ctx, &gateway.CancelProcessInstanceRequest{
		ProcessInstanceKey: processInstanceKey,
	})
}

// PublishOption configures a PublishMessage call.
type PublishOption func(*gateway.PublishMessageRequest)

// WithMessageID sets the idempotency id of the message.
func WithMessageID(id string) PublishOption {
	return func(req *gateway.PublishMessageRequest) { req.MessageID = id }
}

// WithTimeToLive bounds how long the broker buffers the message.
func WithTimeToLive(ttl time.Duration) PublishOption {
	return func(req *gateway.PublishMessageRequest) { req.TimeToLive = ttl }
}

// PublishMessage publishes a message for correlation against waiting
// process instances.
func (c *Client) PublishMessage(ctx context.Context, name, correlationKey string, variables any, opts ...PublishOption) (*gateway.PublishMessageResponse, error) {
	encoded, err := gateway.MarshalVariables(variables)
	if err != nil {
		return nil, err
	}

	req := &gateway.PublishMessageRequest{
		Name:           name,
		CorrelationKey: correlationKey,
		Variables:      encoded,
	}
	for _, opt := range opts {
		opt(req)
	}
	return c.transport.PublishMessage(ctx, req)
}

// SetVariables writes variables into an element scope. Local restricts the
// write to that scope instead of propagating up.
func (c *Client) SetVariables(ctx context.Context, elementInstanceKey int64, variables any, local bool) (*gateway.SetVariablesResponse, error) {
	encoded, err := gateway.MarshalVariables(variables)
	if err != nil {
		return nil, err
	}
	return c.transport.SetVariables(ctx, &gateway.SetVariablesRequest{
		ElementInstanceKey: elementInstanceKey,
		Variables:          encoded,
		Local:              local,
	})
}

// UpdateJobRetries overwrites the retry counter of a job, typically to
// give a failed job another chance after an incident.
func (c *Client) UpdateJobRetries(ctx context.Context, jobKey int64, retries int32) error {
	return c.transport.UpdateJobRetries(ctx, &gateway.UpdateJobRetriesRequest{
		JobKey:  jobKey,
		Retries: retries,
	})
}

// ResolveIncident marks an incident as resolved.
func (c *Client) ResolveIncident(ctx context.Context, incidentKey int64) error {
	return c.transport.ResolveIncident(ctx, &gateway.ResolveIncidentRequest{
		IncidentKey: incidentKey,
	})
}

// ListProcesses lists the deployed process definitions.
func (c *Client) ListProcesses(ctx context.Context) (*gateway.ListProcessesResponse, error) {
	return c.transport.ListProcesses(ctx)
}

// GetProcessByKey fetches a process definition by its broker-assigned key.
// Key lookups carry no version; no defaulting applies.
func (c *Client) GetProcessByKey(ctx context.Context, key int64) (*gateway.GetProcessResponse, error) {
	return c.transport.GetProcess(ctx, &gateway.GetProcessRequest{
		Lookup: gateway.ByKey{Key: key},
	})
}

// GetProcessByID fetches a process definition by BPMN process id. A
// version <= 0 means latest.
func (c *Client) GetProcessByID(ctx context.Context, processID string, version int32) (*gateway.GetProcessResponse, error) {
	if version <= 0 {
		version = gateway.LatestVersion
	}
	return c.transport.GetProcess(ctx, &gateway.GetProcessRequest{
		Lookup: gateway.ByProcessID{BpmnProcessID: processID, Version: version},
	})
}

// ── Worker factory ──────────────────────────────────

// NewJobWorker creates and starts a job worker for the registration. The
// worker shares the client's transport and health monitor. Creating a
// worker after Close has begun fails with ErrClientClosed.
func (c *Client) NewJobWorker(reg worker.Registration, opts ...worker.Option) (*worker.Worker, error) {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return nil, ErrClientClosed
	}
	c.workerSeq++
	name := fmt.Sprintf("%s#%d", reg.TaskType, c.workerSeq)
	c.mu.Unlock()

	opts = append([]worker.Option{worker.WithLogger(c.logger)}, opts...)
	w, err := worker.New(name, c.transport, c.monitor, reg, opts...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// Close may have started while the worker was being constructed.
	if c.closing {
		c.mu.Unlock()
		_ = w.Close(context.Background())
		return nil, ErrClientClosed
	}
	c.workers = append(c.workers, w)
	c.mu.Unlock()
	return w, nil
}

// Close stops worker creation, drains all workers concurrently, then
// closes the transport. Idempotent; concurrent callers share one result.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	first := !c.closing
	c.closing = true
	workers := append([]*worker.Worker(nil), c.workers...)
	c.mu.Unlock()

	if !first {
		select {
		case <-c.closedCh:
			return c.closeErr
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	c.logger.Info("client closing", slog.Int("workers", len(workers)))

	var g errgroup.Group
	for _, w := range workers {
		g.Go(func() error {
			return w.Close(ctx)
		})
	}
	err := g.Wait()

	if closeErr := c.transport.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	c.hooks.EmitClientClosed()
	c.closeErr = err
	close(c.closedCh)
	return err
}
