package version

import (
	"encoding/json"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "none", info.GitCommit)
	assert.Equal(t, "unknown", info.BuildDate)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Empty(t, info.Tools)
}

func TestLookupTool(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	found := LookupTool("shell", "sh", true)
	assert.True(t, found.Found)
	assert.Equal(t, sh, found.Path)

	missing := LookupTool("less", "/nonexistent/bin/lessc", true)
	assert.False(t, missing.Found)
	assert.Empty(t, missing.Path)

	empty := LookupTool("site", "", false)
	assert.False(t, empty.Found)
}

func TestInfoString(t *testing.T) {
	info := GetInfo(
		Tool{Name: "typescript", Command: "node_modules/typescript/bin/tsc", Enabled: true},
		Tool{Name: "less", Command: "lessc", Enabled: true, Found: true, Path: "/usr/bin/lessc"},
		Tool{Name: "site", Command: "./sitegen"},
	)
	s := info.String()

	assert.Contains(t, s, "besessen")
	assert.Contains(t, s, info.Version)
	assert.Contains(t, s, info.GoVersion)
	assert.Contains(t, s, info.Platform)
	assert.Contains(t, s, "node_modules/typescript/bin/tsc (not found)")
	assert.Contains(t, s, "lessc (/usr/bin/lessc)")
	assert.Contains(t, s, "./sitegen (disabled)")
}

func TestInfoMissing(t *testing.T) {
	info := GetInfo(
		Tool{Name: "typescript", Enabled: true},
		Tool{Name: "less", Enabled: true, Found: true},
		Tool{Name: "site"},
	)

	missing := info.Missing()
	require.Len(t, missing, 1)
	assert.Equal(t, "typescript", missing[0].Name)
}

func TestInfoJSON(t *testing.T) {
	info := GetInfo(Tool{Name: "less", Command: "lessc", Enabled: true})

	jsonStr, err := info.JSON()
	require.NoError(t, err)

	var parsed Info
	require.NoError(t, json.Unmarshal([]byte(jsonStr), &parsed))

	assert.Equal(t, info.Version, parsed.Version)
	assert.Equal(t, info.GitCommit, parsed.GitCommit)
	assert.Equal(t, info.Platform, parsed.Platform)
	assert.Equal(t, info.Tools, parsed.Tools)
	assert.NotContains(t, jsonStr, `"path"`, "unresolved tools omit the path")
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"long SHA truncated", "abc1234def5678", "abc1234"},
		{"exact 7 unchanged", "abc1234", "abc1234"},
		{"short unchanged", "abc", "abc"},
		{"empty unchanged", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shortCommit(tt.input))
		})
	}
}
