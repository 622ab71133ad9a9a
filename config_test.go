package zeebe

import (
	"errors"
	"log/slog"
	"testing"
)

func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address string
		want    string
	}{
		{"localhost", "localhost:26500"},
		{"localhost:26500", "localhost:26500"},
		{"my-cluster.zeebe.camunda.io:443", "my-cluster.zeebe.camunda.io:443"},
		{"broker.internal:1234", "broker.internal:1234"},
	}
	for _, tt := range tests {
		got, err := normalizeAddress(tt.address)
		if err != nil {
			t.Errorf("normalizeAddress(%q): %v", tt.address, err)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeAddress(%q) = %q, want %q", tt.address, got, tt.want)
		}
	}
}

func TestNormalizeAddress_EmptyFails(t *testing.T) {
	t.Parallel()

	_, err := normalizeAddress("")
	if !errors.Is(err, ErrMissingAddress) {
		t.Errorf("normalizeAddress(\"\") = %v, want ErrMissingAddress", err)
	}
}

func TestResolveLogLevel_Precedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		env      string
		explicit string
		want     slog.Level
	}{
		{"default", "", "", slog.LevelInfo},
		{"explicit", "", "DEBUG", slog.LevelDebug},
		{"env wins over explicit", "ERROR", "DEBUG", slog.LevelError},
		{"env alone", "WARN", "", slog.LevelWarn},
		{"warning alias", "", "WARNING", slog.LevelWarn},
		{"case insensitive", "debug", "", slog.LevelDebug},
		{"unknown falls back to info", "", "VERBOSE", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := resolveLogLevel(tt.env, tt.explicit, defaultLogLevel); got != tt.want {
			t.Errorf("%s: resolveLogLevel(%q, %q) = %v, want %v", tt.name, tt.env, tt.explicit, got, tt.want)
		}
	}
}
