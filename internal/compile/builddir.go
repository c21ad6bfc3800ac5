package compile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrBuildDirNotDir is returned when the build directory path is occupied by
// something other than a directory.
var ErrBuildDirNotDir = errors.New("build directory is not a directory")

// ResolveBuildDir returns the on-disk location of buildDir for a watch root.
// Relative build directories live inside the root.
func ResolveBuildDir(root, buildDir string) string {
	if filepath.IsAbs(buildDir) {
		return buildDir
	}

	return filepath.Join(root, buildDir)
}

// EnsureBuildDir creates the build directory for root if it is missing and
// reports whether it had to be created. An empty buildDir is a no-op.
func EnsureBuildDir(root, buildDir string) (bool, error) {
	if buildDir == "" {
		return false, nil
	}

	dir := ResolveBuildDir(root, buildDir)

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return false, fmt.Errorf("%s: %w", dir, ErrBuildDirNotDir)
		}

		return false, nil
	case errors.Is(err, fs.ErrNotExist):
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return false, fmt.Errorf("creating build directory %s: %w", dir, mkErr)
		}

		return true, nil
	default:
		return false, fmt.Errorf("checking build directory %s: %w", dir, err)
	}
}
