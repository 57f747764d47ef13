// Package build provides build-time information for the CLI application.
// Values are set via ldflags during build.
package build

// These can be overridden via ldflags:
// -X github.com/tacogips/rcsync/internal/build.version=x.y.z
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// Version returns the application version.
func Version() string {
	return version
}

// GitCommit returns the commit the binary was built from.
func GitCommit() string {
	return gitCommit
}

// BuildDate returns the build timestamp.
func BuildDate() string {
	return buildDate
}

// Set overrides the build information. Empty arguments keep the current value.
func Set(v, commit, date string) {
	if v != "" {
		version = v
	}
	if commit != "" {
		gitCommit = commit
	}
	if date != "" {
		buildDate = date
	}
}
