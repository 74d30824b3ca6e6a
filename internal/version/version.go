// Package version carries build metadata injected at link time.
package version

import "fmt"

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X github.com/phpnomad/documentation/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by --version.
func String() string {
	return fmt.Sprintf("docsite %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
