// Package version carries build metadata stamped in at link time.
package version

// Populated via -ldflags, e.g.
// -X github.com/prism-rt/prism/pkg/version.Version=v0.3.0
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
