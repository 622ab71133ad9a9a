package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Code classifies a gateway error. The split that matters to callers is
// connectivity (CodeUnavailable, CodeDeadlineExceeded) versus everything
// else: connectivity failures drive the client's connection health state,
// all other codes are leaf errors returned to the caller untouched.
type Code int

const (
	CodeUnknown Code = iota
	CodeInvalidArgument
	CodeNotFound
	CodeAlreadyExists
	CodeFailedPrecondition
	CodeResourceExhausted
	CodeInternal
	CodeUnavailable
	CodeDeadlineExceeded
)

// String returns the code name used in logs and wire frames.
func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "invalid_argument"
	case CodeNotFound:
		return "not_found"
	case CodeAlreadyExists:
		return "already_exists"
	case CodeFailedPrecondition:
		return "failed_precondition"
	case CodeResourceExhausted:
		return "resource_exhausted"
	case CodeInternal:
		return "internal"
	case CodeUnavailable:
		return "unavailable"
	case CodeDeadlineExceeded:
		return "deadline_exceeded"
	default:
		return "unknown"
	}
}

// CodeFromString maps a code name back to its Code. Unrecognized names
// map to CodeUnknown.
func CodeFromString(s string) Code {
	for c := CodeInvalidArgument; c <= CodeDeadlineExceeded; c++ {
		if c.String() == s {
			return c
		}
	}
	return CodeUnknown
}

// Error is a classified gateway failure. Broker-rejected operations carry
// codes like CodeNotFound or CodeInvalidArgument; connection-level failures
// carry CodeUnavailable or CodeDeadlineExceeded.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %s: %s", e.Code, e.Message)
}

// NewError creates a classified gateway error.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Unavailable wraps a transport-level failure as a connectivity error.
func Unavailable(err error) *Error {
	return &Error{Code: CodeUnavailable, Message: err.Error()}
}

// IsConnectivity reports whether err represents a connection-level failure
// rather than a broker-rejected operation. Connectivity failures feed the
// connection health monitor; request failures never do.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}

	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Code == CodeUnavailable || gerr.Code == CodeDeadlineExceeded
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}
