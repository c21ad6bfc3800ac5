// Package version reports build metadata for the besessen binary together
// with the external compilers it drives. Version, GitCommit, and BuildDate
// are injected at compile time via -ldflags.
package version

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Build-time values injected via -ldflags.
var (
	version   = "dev"
	gitCommit = "none"
	buildDate = "unknown"
)

// Tool describes one external compiler command and whether it can be run.
type Tool struct {
	Name    string `json:"name"`
	Command string `json:"command"`
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
	Found   bool   `json:"found"`
}

// LookupTool resolves command the way a compiler will start it: a command
// containing a slash is checked relative to the working directory, a bare
// name is searched on PATH.
func LookupTool(name, command string, enabled bool) Tool {
	t := Tool{Name: name, Command: command, Enabled: enabled}

	if command == "" {
		return t
	}

	if path, err := exec.LookPath(command); err == nil {
		t.Path, t.Found = path, true
	}

	return t
}

func (t Tool) state() string {
	switch {
	case !t.Enabled:
		return "disabled"
	case t.Found:
		return t.Path
	default:
		return "not found"
	}
}

// Info holds the build metadata for the binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
	Tools     []Tool `json:"tools,omitempty"`
}

// GetInfo returns the current build information with tools attached.
func GetInfo(tools ...Tool) Info {
	return Info{
		Version:   version,
		GitCommit: shortCommit(gitCommit),
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Tools:     tools,
	}
}

// String returns the version line followed by one line per tool.
func (i Info) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "besessen %s (commit: %s, built: %s, %s %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)

	for _, t := range i.Tools {
		fmt.Fprintf(&b, "\n  %-10s %s (%s)", t.Name, t.Command, t.state())
	}

	return b.String()
}

// Missing returns the enabled tools that could not be resolved.
func (i Info) Missing() []Tool {
	var missing []Tool

	for _, t := range i.Tools {
		if t.Enabled && !t.Found {
			missing = append(missing, t)
		}
	}

	return missing
}

// JSON returns the version info as indented JSON.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling version info: %w", err)
	}

	return string(data), nil
}

// shortCommit truncates a commit SHA to 7 characters.
func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}

	return commit
}
