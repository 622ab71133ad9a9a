// Package gatewaytest provides an in-process fake gateway.Transport for
// tests: canned responses, per-method scripted failures, call recording,
// and a pushable job source that drives the worker's long-poll loop.
package gatewaytest

import (
	"context"
	"sync"
	"time"

	"github.com/nwittstruck/zeebe-client-go/gateway"
)

// Call records one transport invocation.
type Call struct {
	Method  string
	Request any
}

// Fake is a scripted gateway.Transport. The zero value is not usable;
// create one with New. All methods are safe for concurrent use.
type Fake struct {
	mu    sync.Mutex
	calls []Call
	errs  map[string][]error

	topology  *gateway.TopologyResponse
	deploy    *gateway.DeployProcessResponse
	processes []gateway.ProcessMetadata

	pendingJobs   []*gateway.ActivatedJob
	jobsAvailable chan struct{}

	closed bool
}

// New creates an empty fake transport.
func New() *Fake {
	return &Fake{
		errs:          make(map[string][]error),
		jobsAvailable: make(chan struct{}, 1),
	}
}

var _ gateway.Transport = (*Fake)(nil)

// FailNext queues an error to be returned by the next call to method.
// Multiple queued errors are consumed in order.
func (f *Fake) FailNext(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = append(f.errs[method], err)
}

// SetTopology sets the canned Topology response.
func (f *Fake) SetTopology(resp *gateway.TopologyResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topology = resp
}

// SetDeployResponse sets the canned DeployProcess response.
func (f *Fake) SetDeployResponse(resp *gateway.DeployProcessResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deploy = resp
}

// SetProcesses sets the deployed definitions returned by ListProcesses and
// resolved by GetProcess.
func (f *Fake) SetProcesses(processes ...gateway.ProcessMetadata) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processes = processes
}

// PushJobs makes a batch of jobs available to the next ActivateJobs call.
func (f *Fake) PushJobs(jobs ...*gateway.ActivatedJob) {
	f.mu.Lock()
	f.pendingJobs = append(f.pendingJobs, jobs...)
	f.mu.Unlock()

	select {
	case f.jobsAvailable <- struct{}{}:
	default:
	}
}

// Calls returns a copy of all recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns how many calls were made to method.
func (f *Fake) CallsTo(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Closed reports whether Close has been called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// record stores the call and pops a scripted error for the method, if any.
func (f *Fake) record(method string, req any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: method, Request: req})
	if queue := f.errs[method]; len(queue) > 0 {
		err := queue[0]
		f.errs[method] = queue[1:]
		return err
	}
	return nil
}

// ── gateway.Transport ───────────────────────────────

func (f *Fake) Topology(_ context.Context) (*gateway.TopologyResponse, error) {
	if err := f.record("topology", nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.topology != nil {
		return f.topology, nil
	}
	return &gateway.TopologyResponse{}, nil
}

func (f *Fake) DeployProcess(_ context.Context, req *gateway.DeployProcessRequest) (*gateway.DeployProcessResponse, error) {
	if err := f.record("deployProcess", req); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deploy != nil {
		return f.deploy, nil
	}
	resp := &gateway.DeployProcessResponse{Key: 1}
	for i, r := range req.Resources {
		resp.Processes = append(resp.Processes, gateway.ProcessMetadata{
			ResourceName:         r.Name,
			Version:              1,
			ProcessDefinitionKey: int64(i + 1),
		})
	}
	return resp, nil
}

func (f *Fake) CreateProcessInstance(_ context.Context, req *gateway.CreateProcessInstanceRequest) (*gateway.CreateProcessInstanceResponse, error) {
	if err := f.record("createProcessInstance", req); err != nil {
		return nil, err
	}
	return &gateway.CreateProcessInstanceResponse{
		BpmnProcessID:      req.BpmnProcessID,
		Version:            req.Version,
		ProcessInstanceKey: 100,
	}, nil
}

func (f *Fake) CancelProcessInstance(_ context.Context, req *gateway.CancelProcessInstanceRequest) error {
	return f.record("cancelProcessInstance", req)
}

func (f *Fake) PublishMessage(_ context.Context, req *gateway.PublishMessageRequest) (*gateway.PublishMessageResponse, error) {
	if err := f.record("publishMessage", req); err != nil {
		return nil, err
	}
	return &gateway.PublishMessageResponse{Key: 200}, nil
}

// ActivateJobs returns pushed jobs, up to the requested maximum, in push
// order. With no jobs pending it blocks until PushJobs, the request
// timeout, or context cancellation; a timeout yields an empty response.
func (f *Fake) ActivateJobs(ctx context.Context, req *gateway.ActivateJobsRequest) (*gateway.ActivateJobsResponse, error) {
	if err := f.record("activateJobs", req); err != nil {
		return nil, err
	}

	timeout := req.RequestTimeout
	if timeout <= 0 {
		timeout = 50 * time.Millisecond
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		f.mu.Lock()
		if len(f.pendingJobs) > 0 {
			n := len(f.pendingJobs)
			if maxJobs := int(req.MaxJobsToActivate); maxJobs > 0 && n > maxJobs {
				n = maxJobs
			}
			batch := append([]*gateway.ActivatedJob(nil), f.pendingJobs[:n]...)
			f.pendingJobs = f.pendingJobs[n:]
			remaining := len(f.pendingJobs) > 0
			f.mu.Unlock()

			if remaining {
				select {
				case f.jobsAvailable <- struct{}{}:
				default:
				}
			}
			return &gateway.ActivateJobsResponse{Jobs: batch}, nil
		}
		f.mu.Unlock()

		select {
		case <-f.jobsAvailable:
		case <-deadline.C:
			return &gateway.ActivateJobsResponse{}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (f *Fake) CompleteJob(_ context.Context, req *gateway.CompleteJobRequest) error {
	return f.record("completeJob", req)
}

func (f *Fake) FailJob(_ context.Context, req *gateway.FailJobRequest) error {
	return f.record("failJob", req)
}

func (f *Fake) UpdateJobRetries(_ context.Context, req *gateway.UpdateJobRetriesRequest) error {
	return f.record("updateJobRetries", req)
}

func (f *Fake) SetVariables(_ context.Context, req *gateway.SetVariablesRequest) (*gateway.SetVariablesResponse, error) {
	if err := f.record("setVariables", req); err != nil {
		return nil, err
	}
	return &gateway.SetVariablesResponse{Key: 300}, nil
}

func (f *Fake) ListProcesses(_ context.Context) (*gateway.ListProcessesResponse, error) {
	if err := f.record("listProcesses", nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &gateway.ListProcessesResponse{
		Processes: append([]gateway.ProcessMetadata(nil), f.processes...),
	}, nil
}

func (f *Fake) GetProcess(_ context.Context, req *gateway.GetProcessRequest) (*gateway.GetProcessResponse, error) {
	if err := f.record("getProcess", req); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.processes {
		switch lookup := req.Lookup.(type) {
		case gateway.ByKey:
			if p.ProcessDefinitionKey == lookup.Key {
				return metadataToProcess(p), nil
			}
		case gateway.ByProcessID:
			if p.BpmnProcessID == lookup.BpmnProcessID &&
				(lookup.Version == gateway.LatestVersion || lookup.Version == p.Version) {
				return metadataToProcess(p), nil
			}
		}
	}
	return nil, gateway.NewError(gateway.CodeNotFound, "process not found")
}

func (f *Fake) ResolveIncident(_ context.Context, req *gateway.ResolveIncidentRequest) error {
	return f.record("resolveIncident", req)
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func metadataToProcess(p gateway.ProcessMetadata) *gateway.GetProcessResponse {
	return &gateway.GetProcessResponse{
		ProcessDefinitionKey: p.ProcessDefinitionKey,
		BpmnProcessID:        p.BpmnProcessID,
		Version:              p.Version,
		ResourceName:         p.ResourceName,
	}
}
