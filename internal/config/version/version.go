package version

// Package metadata, replaced at release time via -ldflags.
var (
	Version   = "0.1.0"        // Version of spdx-builder
	Toolname  = "spdx-builder" // Name of the tool
	BuildDate = "unknown"      // Date when the tool was built
	CommitSHA = "unknown"      // Commit SHA of the tool
)

// CreatorTool returns the SPDX creator string for this build of the tool,
// e.g. "spdx-builder-0.1.0", suitable for a "Tool:" creator entry.
func CreatorTool() string {
	return Toolname + "-" + Version
}
