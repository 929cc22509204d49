// Package version holds build metadata, set with -ldflags at link time.
package version

import "fmt"

var (
	// Version is the release version.
	Version = "dev"
	// GitSHA is the git commit SHA.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String formats the build metadata for a -version flag.
func String() string {
	return fmt.Sprintf("pointgrid %s (commit %s, built %s)", Version, GitSHA, BuildTime)
}
