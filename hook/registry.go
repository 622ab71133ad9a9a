package hook

import (
	"fmt"
	"log/slog"
)

// Named entry types pair a hook implementation with the name captured at
// registration time, so emit methods never type-assert back to Hook.
type connectionLostEntry struct {
	name string
	hook ConnectionLost
}

type connectionRecoveredEntry struct {
	name string
	hook ConnectionRecovered
}

type clientClosedEntry struct {
	name string
	hook ClientClosed
}

// Registry holds registered hooks and dispatches lifecycle events to them.
// Hooks are type-cached at registration time so emit calls iterate only
// over implementations of the relevant interface. Registration happens at
// client construction; emits may come from any goroutine afterwards.
type Registry struct {
	hooks  []Hook
	logger *slog.Logger

	connectionLost      []connectionLostEntry
	connectionRecovered []connectionRecoveredEntry
	clientClosed        []clientClosedEntry
}

// NewRegistry creates an empty hook registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds a hook and caches the lifecycle interfaces it implements.
func (r *Registry) Register(h Hook) {
	r.hooks = append(r.hooks, h)

	if cl, ok := h.(ConnectionLost); ok {
		r.connectionLost = append(r.connectionLost, connectionLostEntry{name: h.Name(), hook: cl})
	}
	if cr, ok := h.(ConnectionRecovered); ok {
		r.connectionRecovered = append(r.connectionRecovered, connectionRecoveredEntry{name: h.Name(), hook: cr})
	}
	if cc, ok := h.(ClientClosed); ok {
		r.clientClosed = append(r.clientClosed, clientClosedEntry{name: h.Name(), hook: cc})
	}
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int { return len(r.hooks) }

// EmitConnectionLost notifies all hooks that implement ConnectionLost.
func (r *Registry) EmitConnectionLost(cause error) {
	for _, e := range r.connectionLost {
		if err := r.invoke(func() error { return e.hook.OnConnectionLost(cause) }); err != nil {
			r.logHookError("OnConnectionLost", e.name, err)
		}
	}
}

// EmitConnectionRecovered notifies all hooks that implement ConnectionRecovered.
func (r *Registry) EmitConnectionRecovered() {
	for _, e := range r.connectionRecovered {
		if err := r.invoke(e.hook.OnConnectionRecovered); err != nil {
			r.logHookError("OnConnectionRecovered", e.name, err)
		}
	}
}

// EmitClientClosed notifies all hooks that implement ClientClosed.
func (r *Registry) EmitClientClosed() {
	for _, e := range r.clientClosed {
		if err := r.invoke(e.hook.OnClientClosed); err != nil {
			r.logHookError("OnClientClosed", e.name, err)
		}
	}
}

// invoke runs one hook callback with panic isolation. Emits happen inside
// façade calls and worker goroutines; a misbehaving hook must never crash
// the caller.
func (r *Registry) invoke(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated — they must not block the client.
func (r *Registry) logHookError(hookName, name string, err error) {
	r.logger.Warn("lifecycle hook error",
		slog.String("hook", hookName),
		slog.String("name", name),
		slog.String("error", err.Error()),
	)
}
