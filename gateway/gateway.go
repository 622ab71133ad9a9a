// Package gateway defines the transport contract between the client and a
// remote process-orchestration gateway. The client never speaks a wire
// format directly; it calls the fixed operation set below and leaves
// encoding to the Transport implementation (see gateway/wire for the
// default WebSocket transport, and gateway/gatewaytest for an in-process
// fake used in tests).
package gateway

import "context"

// Transport is the fixed operation set every gateway backend implements.
// Each call either returns a typed response or a classified error: a
// *gateway.Error for broker-visible failures, or any other error for
// transport-level ones. Implementations must be safe for concurrent use;
// the client shares one Transport across the façade and all job workers.
type Transport interface {
	// Topology returns the current cluster layout.
	Topology(ctx context.Context) (*TopologyResponse, error)

	// DeployProcess deploys one or more process definitions.
	DeployProcess(ctx context.Context, req *DeployProcessRequest) (*DeployProcessResponse, error)

	// CreateProcessInstance starts a new instance of a deployed process.
	CreateProcessInstance(ctx context.Context, req *CreateProcessInstanceRequest) (*CreateProcessInstanceResponse, error)

	// CancelProcessInstance cancels a running process instance.
	CancelProcessInstance(ctx context.Context, req *CancelProcessInstanceRequest) error

	// PublishMessage publishes a correlated message to the broker.
	PublishMessage(ctx context.Context, req *PublishMessageRequest) (*PublishMessageResponse, error)

	// ActivateJobs long-polls for up to MaxJobsToActivate jobs of one task
	// type. The call blocks for at most RequestTimeout; returning zero jobs
	// after the timeout is a normal empty result, not an error.
	ActivateJobs(ctx context.Context, req *ActivateJobsRequest) (*ActivateJobsResponse, error)

	// CompleteJob reports successful handler execution.
	CompleteJob(ctx context.Context, req *CompleteJobRequest) error

	// FailJob reports failed handler execution and sets the remaining retries.
	FailJob(ctx context.Context, req *FailJobRequest) error

	// UpdateJobRetries overwrites the retry counter of a job.
	UpdateJobRetries(ctx context.Context, req *UpdateJobRetriesRequest) error

	// SetVariables writes variables into a process instance scope.
	SetVariables(ctx context.Context, req *SetVariablesRequest) (*SetVariablesResponse, error)

	// ListProcesses lists the latest deployed process definitions.
	ListProcesses(ctx context.Context) (*ListProcessesResponse, error)

	// GetProcess fetches a single process definition. The request carries an
	// explicit lookup variant; see ProcessLookup.
	GetProcess(ctx context.Context, req *GetProcessRequest) (*GetProcessResponse, error)

	// ResolveIncident marks an incident as resolved so the instance can retry.
	ResolveIncident(ctx context.Context, req *ResolveIncidentRequest) error

	// Close releases the underlying connection. Safe to call more than once.
	Close() error
}
