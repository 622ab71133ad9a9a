// Package wire implements the default gateway transport: a frame-based
// request/response protocol over WebSocket with JSON payloads. Every
// Transport operation maps to one method string; responses are correlated
// to requests by frame id.
//
// The connection is established lazily and re-established on the next call
// after a failure. The transport itself never retries a call — retry
// policy belongs to the job worker loop and to the application.
package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"go.jetify.com/typeid/v2"
)

// FrameType identifies the frame category.
type FrameType string

const (
	FrameRequest  FrameType = "request"
	FrameResponse FrameType = "response"
	FrameErr      FrameType = "error"
)

// Method strings for the fixed gateway operation set.
const (
	MethodTopology              = "topology"
	MethodDeployProcess         = "deployProcess"
	MethodCreateProcessInstance = "createProcessInstance"
	MethodCancelProcessInstance = "cancelProcessInstance"
	MethodPublishMessage        = "publishMessage"
	MethodActivateJobs          = "activateJobs"
	MethodCompleteJob           = "completeJob"
	MethodFailJob               = "failJob"
	MethodUpdateJobRetries      = "updateJobRetries"
	MethodSetVariables          = "setVariables"
	MethodListProcesses         = "listProcesses"
	MethodGetProcess            = "getProcess"
	MethodResolveIncident       = "resolveIncident"
)

// Frame is the message envelope. Every message exchanged with the gateway
// is a Frame.
type Frame struct {
	// ID uniquely identifies this frame.
	ID string `json:"id"`

	// Type categorizes the frame.
	Type FrameType `json:"type"`

	// Method names the operation for request frames.
	Method string `json:"method,omitempty"`

	// CorrelID links a response to its originating request.
	CorrelID string `json:"correl_id,omitempty"`

	// Data carries the method-specific payload.
	Data json.RawMessage `json:"data,omitempty"`

	// Error carries error details for error frames.
	Error *ErrorDetail `json:"error,omitempty"`

	// Timestamp records when this frame was created.
	Timestamp time.Time `json:"ts"`
}

// ErrorDetail describes a failure in an error frame. Code uses the
// gateway.Code string names ("not_found", "unavailable", ...).
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewRequestFrame creates a request frame for a method with an encoded payload.
func NewRequestFrame(method string, data any) (*Frame, error) {
	frame := &Frame{
		ID:        newFrameID(),
		Type:      FrameRequest,
		Method:    method,
		Timestamp: time.Now().UTC(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("wire: marshal %s payload: %w", method, err)
		}
		frame.Data = raw
	}
	return frame, nil
}

// newFrameID generates a unique, sortable frame id with the "req" prefix.
func newFrameID() string {
	tid, err := typeid.Generate("req")
	if err != nil {
		// The prefix is a compile-time constant; Generate cannot fail on it.
		panic(fmt.Sprintf("wire: frame id: %v", err))
	}
	return tid.String()
}
