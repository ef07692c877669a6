// ============================================================================
// mathcfg - Arithmetic expression parser
// ============================================================================
//
// Package:     version
// Description: Central version information for the CLI and the WebSocket
//              service, overridable at link time
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X github.com/msto63/mathcfg/pkg/core/version.GitCommit=..."
var (
	Version   = "0.1.0"
	GitCommit = "development"
	BuildDate = "unknown"
)

// Protocol is the version of the WebSocket message format
const Protocol = "1"

// Info describes the running build
type Info struct {
	Version   string `json:"version"`
	Protocol  string `json:"protocol"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information
func Get() Info {
	return Info{
		Version:   Version,
		Protocol:  Protocol,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a one-line summary such as "mathcfg v0.1.0 (development)"
func (i Info) String() string {
	return fmt.Sprintf("mathcfg v%s (%s)", i.Version, i.GitCommit)
}
