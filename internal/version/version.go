// Package version provides build-time version information.
package version

import "fmt"

// Set at build time with -ldflags "-X image-splitter/internal/version.Version=...".
var (
	// Version is the semantic version
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("image-splitter %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
