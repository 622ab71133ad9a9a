package health_test

import (
	"testing"
	"time"

	"github.com/nwittstruck/zeebe-client-go/health"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address   string
		profile   health.Profile
		grace     time.Duration
	}{
		{"x.zeebe.camunda.io:443", health.ProfileCloud, 5 * time.Second},
		{"my-cluster.zeebe.camunda.io", health.ProfileCloud, 5 * time.Second},
		{"localhost:26500", health.ProfileSelfManaged, 0},
		{"localhost", health.ProfileSelfManaged, 0},
		{"10.0.0.7:26500", health.ProfileSelfManaged, 0},
		{"zeebe.internal.example.com:26500", health.ProfileSelfManaged, 0},
	}
	for _, tt := range tests {
		got := health.Classify(tt.address)
		if got.Profile != tt.profile {
			t.Errorf("Classify(%q).Profile = %q, want %q", tt.address, got.Profile, tt.profile)
		}
		if got.StartupGrace != tt.grace {
			t.Errorf("Classify(%q).StartupGrace = %v, want %v", tt.address, got.StartupGrace, tt.grace)
		}
	}
}
