// Package version holds build information injected with -ldflags.
package version

import "fmt"

//nolint:gochecknoglobals // Set at build time with -ldflags "-X".
var (
	// Version is the release version.
	Version = "0.1.0"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// Short returns the release version.
func Short() string {
	return Version
}

// Full returns the version, commit and build time.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Version, Commit, BuildTime)
}
