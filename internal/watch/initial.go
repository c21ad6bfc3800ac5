package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/skytreader/besessen/internal/compile"
	"github.com/skytreader/besessen/internal/logging"
)

// BuildPolicy decides when the startup sweep runs.
type BuildPolicy string

const (
	// BuildFresh sweeps only when the build directory was just created.
	BuildFresh BuildPolicy = "fresh"
	// BuildAlways sweeps on every startup.
	BuildAlways BuildPolicy = "always"
)

// Prepare creates the dispatcher's build directory and runs the startup
// sweep when policy asks for it. A build directory path occupied by a file
// is logged and tolerated; the returned count is the number of files the
// sweep compiled.
func Prepare(ctx context.Context, d *Dispatcher, policy BuildPolicy) (int, error) {
	cfg := d.Compiler().Config()
	logger := logging.FromContext(ctx).With(slog.String("compiler", d.Compiler().Name()))

	created, err := compile.EnsureBuildDir(cfg.Root(), cfg.BuildDir())
	if err != nil {
		if !errors.Is(err, compile.ErrBuildDirNotDir) {
			return 0, err
		}

		logger.Error("build directory is unusable", slog.String("error", err.Error()))
	}

	if created {
		logger.Info("no build directory found, building for the first time",
			slog.String("dir", compile.ResolveBuildDir(cfg.Root(), cfg.BuildDir())),
		)
	}

	if policy != BuildAlways && !created {
		return 0, nil
	}

	return InitialBuild(logging.NewContext(ctx, logger), d)
}

// InitialBuild walks the compiler's root and compiles every matching file
// once, in walk order. A directory named node_modules directly below the
// root is not entered; deeper node_modules directories are.
func InitialBuild(ctx context.Context, d *Dispatcher) (int, error) {
	cfg := d.Compiler().Config()
	root := cfg.Root()
	logger := logging.FromContext(ctx)

	compiled := 0

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}

			logger.Warn("skipping unreadable path",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)

			return nil
		}

		if entry.IsDir() {
			if skipDir(root, path) {
				return filepath.SkipDir
			}

			return nil
		}

		if cfg.ShouldObserve(entry.Name()) {
			d.Compile(ctx, path)
			compiled++
		}

		return nil
	})
	if err != nil {
		return compiled, fmt.Errorf("initial build of %s: %w", root, err)
	}

	return compiled, nil
}

// skipDir reports whether path is the node_modules directory directly below
// root.
func skipDir(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return filepath.ToSlash(rel) == "node_modules"
}
