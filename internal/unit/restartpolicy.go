package unit

import (
	"fmt"
	"strings"
)

// RestartPolicy governs whether the supervisor restarts a unit whose
// process has been observed stopped.
type RestartPolicy int

const (
	// RestartAlways restarts the unit immediately.
	RestartAlways RestartPolicy = iota
	// RestartNever leaves the unit stopped.
	RestartNever
	// RestartDisabledTemporarily is set by the manager after an explicit
	// start or stop and behaves like RestartNever until the next reload.
	RestartDisabledTemporarily
)

func (p RestartPolicy) String() string {
	switch p {
	case RestartAlways:
		return "always"
	case RestartNever:
		return "never"
	case RestartDisabledTemporarily:
		return "disabled-temporarily"
	default:
		return "unknown"
	}
}

// ParseRestartPolicy parses the TOML-level "always"/"never" spelling.
// DisabledTemporarily is never user-specified; it is only set at runtime.
func ParseRestartPolicy(s string) (RestartPolicy, error) {
	switch strings.ToLower(s) {
	case "always":
		return RestartAlways, nil
	case "never":
		return RestartNever, nil
	default:
		return RestartAlways, fmt.Errorf("invalid restart policy: %q", s)
	}
}
