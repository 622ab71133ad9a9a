package zeebe

import (
	"log/slog"

	"github.com/nwittstruck/zeebe-client-go/gateway"
	"github.com/nwittstruck/zeebe-client-go/hook"
)

// Option configures a Client.
type Option func(*Client) error

// WithLogger sets the structured logger. When given, the log level
// resolution rule is skipped — the logger's own handler decides.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

// WithLogLevel sets the constructor-level log level ("DEBUG", "INFO",
// "WARN", "ERROR"). The ZEEBE_LOG_LEVEL environment variable still wins.
func WithLogLevel(level string) Option {
	return func(c *Client) error {
		c.logLevel = level
		return nil
	}
}

// WithTransport replaces the default WebSocket transport. The transport is
// still wrapped by the health interceptor.
func WithTransport(t gateway.Transport) Option {
	return func(c *Client) error {
		c.rawTransport = t
		return nil
	}
}

// WithTLS makes the default transport dial with TLS. Ignored when
// WithTransport is used.
func WithTLS() Option {
	return func(c *Client) error {
		c.useTLS = true
		return nil
	}
}

// WithHook registers a lifecycle hook for connection and shutdown events.
func WithHook(h hook.Hook) Option {
	return func(c *Client) error {
		c.pendingHooks = append(c.pendingHooks, h)
		return nil
	}
}
