// Package hook defines the lifecycle-notification system for the client.
// Hooks are notified of connection transitions and client shutdown and can
// react to them — logging, metrics, alerting.
//
// Each lifecycle hook is a separate interface so implementations opt in
// only to the events they care about.
package hook

// Hook is the base interface all hook implementations must satisfy.
type Hook interface {
	// Name returns a unique human-readable name for the hook.
	Name() string
}

// ConnectionLost is called once per contiguous failing run, when the
// connection monitor transitions from CONNECTED to ERROR.
type ConnectionLost interface {
	OnConnectionLost(err error) error
}

// ConnectionRecovered is called once per transition back to CONNECTED.
type ConnectionRecovered interface {
	OnConnectionRecovered() error
}

// ClientClosed is called after the client finishes draining its workers.
type ClientClosed interface {
	OnClientClosed() error
}
