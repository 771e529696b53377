// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package version

var (
	// Version is the current application version.
	// It is set by the build system through ldflags.
	Version = "v0.1.0"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String formats the build identity for CLI output.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
