package zeebe

import (
	"errors"

	"github.com/nwittstruck/zeebe-client-go/gateway"
)

var (
	// Construction errors. Fatal and synchronous.
	ErrMissingAddress = errors.New("zeebe: missing gateway address")
	ErrClientClosed   = errors.New("zeebe: client is closing")

	// Operation errors.
	ErrNoResources = errors.New("zeebe: deploy needs at least one resource path")

	// ErrSerialization is returned when a variable payload cannot be
	// encoded as JSON text.
	ErrSerialization = gateway.ErrSerialization
)
