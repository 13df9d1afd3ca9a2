// Package version carries build information for userd and userctl.
package version

import (
	"fmt"
	"runtime"
)

// Info holds version information, normally set at build time via ldflags
type Info struct {
	// Version is the full version string, e.g. "v1.2.0-4f9f297"
	Version string

	// ReleaseVersion is the semantic version (e.g., "1.2.0")
	ReleaseVersion string

	// BuildDate is the ISO 8601 build timestamp
	BuildDate string

	// GitCommit is the short git commit hash
	GitCommit string
}

// New creates a new Info with development defaults
func New() *Info {
	return &Info{
		Version:        "dev",
		ReleaseVersion: "0.0.0",
		BuildDate:      "unknown",
		GitCommit:      "unknown",
	}
}

// GoVersion returns the Go runtime version
func GoVersion() string {
	return runtime.Version()
}

// String returns the full version string
func (i *Info) String() string {
	return i.Version
}

// Full returns a detailed multi-line version string
func (i *Info) Full() string {
	return fmt.Sprintf(`%s
  Version:    %s
  Build Date: %s
  Git Commit: %s
  Go Version: %s`,
		i.Version,
		i.ReleaseVersion,
		i.BuildDate,
		i.GitCommit,
		GoVersion(),
	)
}

// Map returns version info as a map (used for JSON and YAML output)
func (i *Info) Map() map[string]string {
	return map[string]string{
		"version":         i.Version,
		"release_version": i.ReleaseVersion,
		"build_date":      i.BuildDate,
		"git_commit":      i.GitCommit,
		"go_version":      GoVersion(),
	}
}
