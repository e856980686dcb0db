// Package version reports the build stamped into the binaries
package version

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information
// Set via -ldflags "-X 'crowdgit/internal/core/version.version=v0.1.0'
// -X 'crowdgit/internal/core/version.commit=abcd' -X 'crowdgit/internal/core/version.date=2026-10-01'"
func Info() BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	service = "crowdgit"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
