package zeebe

import (
	"log/slog"
	"strings"
)

// DefaultPort is appended to gateway addresses given without a port.
const DefaultPort = "26500"

// LogLevelEnv is the process-wide log level override. It takes precedence
// over the WithLogLevel option.
const LogLevelEnv = "ZEEBE_LOG_LEVEL"

// defaultLogLevel is the built-in fallback.
const defaultLogLevel = "INFO"

// normalizeAddress validates a gateway address and appends the default
// port when none is given.
func normalizeAddress(address string) (string, error) {
	if address == "" {
		return "", ErrMissingAddress
	}
	if !strings.Contains(address, ":") {
		return address + ":" + DefaultPort, nil
	}
	return address, nil
}

// resolveLogLevel applies the configuration precedence rule once, at
// construction: environment override > constructor option > default.
// Pure function; no hidden global reads afterwards.
func resolveLogLevel(envValue, explicitValue, fallback string) slog.Level {
	value := fallback
	if explicitValue != "" {
		value = explicitValue
	}
	if envValue != "" {
		value = envValue
	}

	switch strings.ToUpper(value) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
