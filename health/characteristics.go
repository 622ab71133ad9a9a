// Package health tracks the connection health of a gateway client. It has
// two halves: a pure address classifier that derives environment
// characteristics at construction time, and a Monitor that folds observed
// call outcomes into a CONNECTED/ERROR state machine. The monitor is
// advisory — it drives worker backoff, it is not a lock.
package health

import (
	"strings"
	"time"
)

// Profile identifies the kind of environment a gateway address points at.
type Profile string

const (
	// ProfileCloud is a managed cluster reachable under the cloud domain.
	ProfileCloud Profile = "cloud"
	// ProfileSelfManaged is any other gateway address.
	ProfileSelfManaged Profile = "self-managed"
)

// CloudDomain is the domain suffix of managed-cloud gateway addresses.
const CloudDomain = "zeebe.camunda.io"

// CloudStartupGrace is how long a managed cluster is expected to take to
// provision on a cold start. Connectivity failures inside this window are
// expected and do not flip the monitor into ERROR.
const CloudStartupGrace = 5 * time.Second

// Characteristics are the environment properties derived from a gateway
// address. Computed once at client construction, immutable afterwards.
type Characteristics struct {
	Profile      Profile
	StartupGrace time.Duration
}

// Classify derives Characteristics from a gateway address. Addresses under
// the managed-cloud domain get the cold-start grace window; everything else
// is self-managed with no grace. Pure function, no side effects.
func Classify(address string) Characteristics {
	if strings.Contains(address, CloudDomain) {
		return Characteristics{
			Profile:      ProfileCloud,
			StartupGrace: CloudStartupGrace,
		}
	}
	return Characteristics{Profile: ProfileSelfManaged}
}
