// Package version reports build-time version information injected through
// -ldflags.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/gosuri/uitable"
)

var (
	// gitVersion is the semantic version, vMAJOR.MINOR.PATCH[-PRERELEASE][+BUILD].
	gitVersion = "v0.0.0-master+$Format:%h$"
	// buildDate is the ISO8601 build time, $(date -u +'%Y-%m-%dT%H:%M:%SZ').
	buildDate = "1970-01-01T00:00:00Z"
	// gitCommit is the full SHA1, $(git rev-parse HEAD).
	gitCommit = "$Format:%H$"
	// gitTreeState is "clean" or "dirty" at build time.
	gitTreeState = ""
)

// Info describes the build that produced this binary.
type Info struct {
	GitVersion   string `json:"gitVersion"`
	GitCommit    string `json:"gitCommit"`
	GitTreeState string `json:"gitTreeState,omitempty"`
	BuildDate    string `json:"buildDate"`
	GoVersion    string `json:"goVersion"`
	Compiler     string `json:"compiler"`
	Platform     string `json:"platform"`
}

// String returns the version, marking builds from a dirty tree.
func (info Info) String() string {
	if info.GitTreeState == "dirty" {
		return info.GitVersion + "-dirty"
	}
	return info.GitVersion
}

// ShortString returns just the version number.
func (info Info) ShortString() string {
	return info.GitVersion
}

// ToJSON returns the version information as compact JSON.
func (info Info) ToJSON() (string, error) {
	s, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("failed to marshal version info: %w", err)
	}
	return string(s), nil
}

// Text renders the version information as an aligned table.
func (info Info) Text() string {
	table := uitable.New()
	table.RightAlign(0)
	table.MaxColWidth = 80
	table.Separator = " "
	table.AddRow("gitVersion:", info.GitVersion)
	table.AddRow("gitCommit:", info.GitCommit)
	if info.GitTreeState != "" {
		table.AddRow("gitTreeState:", info.GitTreeState)
	}
	table.AddRow("buildDate:", info.BuildDate)
	table.AddRow("goVersion:", info.GoVersion)
	table.AddRow("compiler:", info.Compiler)
	table.AddRow("platform:", info.Platform)

	return table.String()
}

// Get returns the build information for this binary.
func Get() Info {
	return Info{
		GitVersion:   gitVersion,
		GitCommit:    gitCommit,
		GitTreeState: gitTreeState,
		BuildDate:    buildDate,
		GoVersion:    runtime.Version(),
		Compiler:     runtime.Compiler,
		Platform:     fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
