// Package util provides common utility functions and constants used across the
// envssh application. This package is intentionally kept dependency-free
// (no imports from other internal/* packages) to serve as a shared foundation
// without introducing circular dependencies.
package util

const (
	// DefaultPort is the port used when an environment file omits a server's
	// port or declares one that cannot be read as an integer.
	// Used by: internal/envfile (DecodePort) via internal/connect.Options.
	DefaultPort = 22

	// ServerPageSize is the number of server rows visible at once in the
	// second prompt. Longer lists scroll.
	ServerPageSize = 10

	// EnvironmentPageSize is the visible window of the environment prompt.
	// Zero lets the prompt fill the terminal height.
	EnvironmentPageSize = 0

	// EnvironmentExt is the suffix that marks a file as an environment
	// description. Matching is case-sensitive.
	EnvironmentExt = ".json"
)
