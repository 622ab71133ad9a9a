package zeebe

import (
	"context"

	"github.com/nwittstruck/zeebe-client-go/gateway"
	"github.com/nwittstruck/zeebe-client-go/health"
)

// monitoredTransport wraps every outbound call, feeding its outcome to the
// health monitor. It is fully transparent: no retries, no payload changes,
// no added latency — results and errors pass through unmodified.
type monitoredTransport struct {
	inner   gateway.Transport
	monitor *health.Monitor
}

var _ gateway.Transport = (*monitoredTransport)(nil)

// observe classifies and records one call outcome, returning err untouched.
func (t *monitoredTransport) observe(err error) error {
	t.monitor.Observe(err, gateway.IsConnectivity(err))
	return err
}

func (t *monitoredTransport) Topology(ctx context.Context) (*gateway.TopologyResponse, error) {
	resp, err := t.inner.Topology(ctx)
	return resp, t.observe(err)
}

func (t *monitoredTransport) DeployProcess(ctx context.Context, req *gateway.DeployProcessRequest) (*gateway.DeployProcessResponse, error) {
	resp, err := t.inner.DeployProcess(ctx, req)
	return resp, t.observe(err)
}

func (t *monitoredTransport) CreateProcessInstance(ctx context.Context, req *gateway.CreateProcessInstanceRequest) (*gateway.CreateProcessInstanceResponse, error) {
	resp, err := t.inner.CreateProcessInstance(ctx, req)
	return resp, t.observe(err)
}

func (t *monitoredTransport) CancelProcessInstance(ctx context.Context, req *gateway.CancelProcessInstanceRequest) error {
	return t.observe(t.inner.CancelProcessInstance(ctx, req))
}

func (t *monitoredTransport) PublishMessage(ctx context.Context, req *gateway.PublishMessageRequest) (*gateway.PublishMessageResponse, error) {
	resp, err := t.inner.PublishMessage(ctx, req)
	return resp, t.observe(err)
}

func (t *monitoredTransport) ActivateJobs(ctx context.Context, req *gateway.ActivateJobsRequest) (*gateway.ActivateJobsResponse, error) {
	resp, err := t.inner.ActivateJobs(ctx, req)
	return resp, t.observe(err)
}

func (t *monitoredTransport) CompleteJob(ctx context.Context, req *gateway.CompleteJobRequest) error {
	return t.observe(t.inner.CompleteJob(ctx, req))
}

func (t *monitoredTransport) FailJob(ctx context.Context, req *gateway.FailJobRequest) error {
	return t.observe(t.inner.FailJob(ctx, req))
}

func (t *monitoredTransport) UpdateJobRetries(ctx context.Context, req *gateway.UpdateJobRetriesRequest) error {
	return t.observe(t.inner.UpdateJobRetries(ctx, req))
}

func (t *monitoredTransport) SetVariables(ctx context.Context, req *gateway.SetVariablesRequest) (*gateway.SetVariablesResponse, error) {
	resp, err := t.inner.SetVariables(ctx, req)
	return resp, t.observe(err)
}

func (t *monitoredTransport) ListProcesses(ctx context.Context) (*gateway.ListProcessesResponse, error) {
	resp, err := t.inner.ListProcesses(ctx)
	return resp, t.observe(err)
}

func (t *monitoredTransport) GetProcess(ctx context.Context, req *gateway.GetProcessRequest) (*gateway.GetProcessResponse, error) {
	resp, err := t.inner.GetProcess(ctx, req)
	return resp, t.observe(err)
}

func (t *monitoredTransport) ResolveIncident(ctx context.Context, req *gateway.ResolveIncidentRequest) error {
	return t.observe(t.inner.ResolveIncident(ctx, req))
}

// Close is not a broker call; its outcome says nothing about connection
// health and is not observed.
func (t *monitoredTransport) Close() error {
	return t.inner.Close()
}
