package compile

import (
	"slices"
	"strings"
)

// WatchConfig holds the settings a compiler is constructed with. It is
// immutable: all fields are unexported and the accessors return copies.
type WatchConfig struct {
	root       string
	buildDir   string
	extensions []string
	outputExt  string
}

// NewWatchConfig normalizes its arguments into a WatchConfig. Extensions are
// stored with a leading dot and deduplicated. A trailing "/" on buildDir is
// removed; an empty buildDir means the compiler has no build directory.
func NewWatchConfig(root, buildDir string, extensions []string, outputExt string) WatchConfig {
	if root == "" {
		root = "."
	}

	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		n := NormalizeExtension(ext)
		if !slices.Contains(normalized, n) {
			normalized = append(normalized, n)
		}
	}

	if outputExt != "" {
		outputExt = NormalizeExtension(outputExt)
	}

	return WatchConfig{
		root:       root,
		buildDir:   strings.TrimSuffix(buildDir, "/"),
		extensions: normalized,
		outputExt:  outputExt,
	}
}

// NormalizeExtension returns ext with a leading dot, e.g. "ts" becomes ".ts".
func NormalizeExtension(ext string) string {
	if strings.HasPrefix(ext, ".") {
		return ext
	}

	return "." + ext
}

// Root is the watched directory.
func (c WatchConfig) Root() string { return c.root }

// BuildDir is the output directory, or "" when there is none.
func (c WatchConfig) BuildDir() string { return c.buildDir }

// HasBuildDir reports whether a build directory is configured.
func (c WatchConfig) HasBuildDir() bool { return c.buildDir != "" }

// OutputExtension is the extension given to compiled artefacts.
func (c WatchConfig) OutputExtension() string { return c.outputExt }

// Extensions returns a copy of the normalized source extensions.
func (c WatchConfig) Extensions() []string { return slices.Clone(c.extensions) }

// ShouldObserve reports whether path ends in one of the configured
// extensions. Matching is case-sensitive.
func (c WatchConfig) ShouldObserve(path string) bool {
	for _, ext := range c.extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

// OutputPath maps src into the build directory with the output extension.
func (c WatchConfig) OutputPath(src string) string {
	return MapOutputPath(src, c.buildDir, c.outputExt)
}
