// FILE: trackwisp/src/internal/version/version.go
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is set at compile time via -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Returns a formatted version string
func String() string {
	if Version == "dev" {
		return fmt.Sprintf("dev (commit: %s, built: %s, %s)", GitCommit, BuildTime, runtime.Version())
	}
	return fmt.Sprintf("%s (commit: %s, built: %s, %s)", Version, GitCommit, BuildTime, runtime.Version())
}

// Returns just the version tag
func Short() string {
	return Version
}

// UserAgent identifies trackwisp in outbound calls
func UserAgent() string {
	return "trackwisp/" + Version
}
