package gateway

import "time"

// LatestVersion is the sentinel version meaning "most recent deployed
// version" in id-based process lookups and instance creation.
const LatestVersion int32 = -1

// BrokerInfo describes one broker node in the cluster topology.
type BrokerInfo struct {
	NodeID     int32  `json:"node_id"`
	Host       string `json:"host"`
	Port       int32  `json:"port"`
	Partitions int32  `json:"partitions"`
}

// TopologyResponse is the cluster layout as seen by the gateway.
type TopologyResponse struct {
	Brokers         []BrokerInfo `json:"brokers"`
	ClusterSize     int32        `json:"cluster_size"`
	PartitionsCount int32        `json:"partitions_count"`
	GatewayVersion  string       `json:"gateway_version"`
}

// Resource is a single process-definition file to deploy.
type Resource struct {
	Name       string `json:"name"`
	Definition []byte `json:"definition"`
}

// DeployProcessRequest deploys one or more process definitions atomically.
type DeployProcessRequest struct {
	Resources []Resource `json:"resources"`
}

// ProcessMetadata describes one deployed process definition.
type ProcessMetadata struct {
	BpmnProcessID        string `json:"bpmn_process_id"`
	Version              int32  `json:"version"`
	ProcessDefinitionKey int64  `json:"process_definition_key"`
	ResourceName         string `json:"resource_name"`
}

// DeployProcessResponse confirms a deployment. Key is -1 when the client
// skipped the remote call because every definition was already deployed.
type DeployProcessResponse struct {
	Key       int64             `json:"key"`
	Processes []ProcessMetadata `json:"processes"`
}

// CreateProcessInstanceRequest starts an instance of a deployed process.
// Variables is a JSON text document or empty.
type CreateProcessInstanceRequest struct {
	BpmnProcessID string `json:"bpmn_process_id"`
	Version       int32  `json:"version"`
	Variables     string `json:"variables,omitempty"`
}

// CreateProcessInstanceResponse confirms instance creation.
type CreateProcessInstanceResponse struct {
	ProcessDefinitionKey int64  `json:"process_definition_key"`
	BpmnProcessID        string `json:"bpmn_process_id"`
	Version              int32  `json:"version"`
	ProcessInstanceKey   int64  `json:"process_instance_key"`
}

// CancelProcessInstanceRequest cancels a running instance by key.
type CancelProcessInstanceRequest struct {
	ProcessInstanceKey int64 `json:"process_instance_key"`
}

// PublishMessageRequest publishes a message for correlation. Variables is a
// JSON text document or empty.
type PublishMessageRequest struct {
	Name           string        `json:"name"`
	CorrelationKey string        `json:"correlation_key"`
	MessageID      string        `json:"message_id,omitempty"`
	TimeToLive     time.Duration `json:"time_to_live,omitempty"`
	Variables      string        `json:"variables,omitempty"`
}

// PublishMessageResponse confirms message publication.
type PublishMessageResponse struct {
	Key int64 `json:"key"`
}

// ActivateJobsRequest claims up to MaxJobsToActivate jobs of one task type.
// Timeout is the job lease duration; RequestTimeout bounds the long poll.
type ActivateJobsRequest struct {
	Type              string        `json:"type"`
	Worker            string        `json:"worker"`
	Timeout           time.Duration `json:"timeout"`
	MaxJobsToActivate int32         `json:"max_jobs_to_activate"`
	RequestTimeout    time.Duration `json:"request_timeout"`
	FetchVariables    []string      `json:"fetch_variables,omitempty"`
}

// ActivatedJob is one unit of work claimed from the broker. Variables and
// CustomHeaders are raw JSON text; callers parse them explicitly.
type ActivatedJob struct {
	Key                      int64     `json:"key"`
	Type                     string    `json:"type"`
	ProcessInstanceKey       int64     `json:"process_instance_key"`
	BpmnProcessID            string    `json:"bpmn_process_id"`
	ProcessDefinitionVersion int32     `json:"process_definition_version"`
	ElementID                string    `json:"element_id"`
	ElementInstanceKey       int64     `json:"element_instance_key"`
	Worker                   string    `json:"worker"`
	Retries                  int32     `json:"retries"`
	Deadline                 time.Time `json:"deadline"`
	Variables                string    `json:"variables"`
	CustomHeaders            string    `json:"custom_headers,omitempty"`
}

// ActivateJobsResponse carries the claimed jobs in broker order.
type ActivateJobsResponse struct {
	Jobs []*ActivatedJob `json:"jobs"`
}

// CompleteJobRequest reports a successfully handled job. Variables is the
// handler output as a JSON text document or empty.
type CompleteJobRequest struct {
	JobKey    int64  `json:"job_key"`
	Variables string `json:"variables,omitempty"`
}

// FailJobRequest reports a failed job and the retries left after this attempt.
type FailJobRequest struct {
	JobKey       int64  `json:"job_key"`
	Retries      int32  `json:"retries"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// UpdateJobRetriesRequest overwrites a job's retry counter.
type UpdateJobRetriesRequest struct {
	JobKey  int64 `json:"job_key"`
	Retries int32 `json:"retries"`
}

// SetVariablesRequest writes variables into an element scope. Variables is a
// JSON text document. Local restricts the write to that scope only.
type SetVariablesRequest struct {
	ElementInstanceKey int64  `json:"element_instance_key"`
	Variables          string `json:"variables"`
	Local              bool   `json:"local,omitempty"`
}

// SetVariablesResponse confirms a variable write.
type SetVariablesResponse struct {
	Key int64 `json:"key"`
}

// ListProcessesResponse lists deployed process definitions.
type ListProcessesResponse struct {
	Processes []ProcessMetadata `json:"processes"`
}

// ProcessLookup selects how GetProcess resolves a definition. The variant is
// chosen explicitly at call time; it is never inferred from field presence.
type ProcessLookup interface {
	isProcessLookup()
}

// ByKey looks a process definition up by its unique broker-assigned key.
type ByKey struct {
	Key int64 `json:"key"`
}

func (ByKey) isProcessLookup() {}

// ByProcessID looks a process definition up by BPMN process id and version.
// A zero Version is normalized to LatestVersion by the client façade.
type ByProcessID struct {
	BpmnProcessID string `json:"bpmn_process_id"`
	Version       int32  `json:"version"`
}

func (ByProcessID) isProcessLookup() {}

// GetProcessRequest fetches one process definition.
type GetProcessRequest struct {
	Lookup ProcessLookup `json:"lookup"`
}

// GetProcessResponse is a single process definition with its resource.
type GetProcessResponse struct {
	ProcessDefinitionKey int64  `json:"process_definition_key"`
	BpmnProcessID        string `json:"bpmn_process_id"`
	Version              int32  `json:"version"`
	ResourceName         string `json:"resource_name"`
	BpmnXML              string `json:"bpmn_xml,omitempty"`
}

// ResolveIncidentRequest resolves an incident by key.
type ResolveIncidentRequest struct {
	IncidentKey int64 `json:"incident_key"`
}
