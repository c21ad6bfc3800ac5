package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skytreader/besessen/internal/compile"
	"github.com/skytreader/besessen/internal/config"
	"github.com/skytreader/besessen/internal/logging"
	"github.com/skytreader/besessen/internal/notify"
	"github.com/skytreader/besessen/internal/watch"
)

func runWatch(cmd *cobra.Command, root string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	info, err := os.Stat(root)
	if err != nil {
		return &ExitError{Code: 2, Err: fmt.Errorf("watch root: %w", err)}
	}

	if !info.IsDir() {
		return &ExitError{Code: 2, Err: fmt.Errorf("watch root %s is not a directory", root)}
	}

	compilers := buildCompilers(cfg, root)
	if len(compilers) == 0 {
		return &ExitError{Code: 2, Err: fmt.Errorf("no compilers enabled")}
	}

	sink := buildSink(cfg, cmd.ErrOrStderr(), logger)

	dispatchers := make([]*watch.Dispatcher, 0, len(compilers))
	for _, c := range compilers {
		dispatchers = append(dispatchers, watch.NewDispatcher(c, watch.WithSink(sink)))
	}

	var out io.Writer = cmd.ErrOrStderr()
	if cfg.Quiet {
		out = io.Discard
	}

	opts := watch.Options{
		Root:       root,
		Policy:     watch.BuildPolicy(cfg.InitialBuild),
		MoveWindow: cfg.MoveWindow,
		Ignore:     cfg.Ignore,
		Logger:     logger,
		Out:        out,
	}

	return watch.Run(ctx, opts, dispatchers...)
}

// buildCompilers returns the enabled compilers in a fixed order:
// typescript, less, site.
func buildCompilers(cfg *config.Config, root string) []compile.Compiler {
	var compilers []compile.Compiler

	if cfg.TypeScript.Enabled {
		compilers = append(compilers, compile.NewTypeScript(root,
			compile.WithCommand(cfg.TypeScript.Command),
			compile.WithBuildDir(cfg.TypeScript.BuildDir),
			compile.WithExtensions(cfg.TypeScript.Extensions...),
		))
	}

	if cfg.Less.Enabled {
		compilers = append(compilers, compile.NewLess(root,
			compile.WithCommand(cfg.Less.Command),
			compile.WithBuildDir(cfg.Less.BuildDir),
			compile.WithExtensions(cfg.Less.Extensions...),
		))
	}

	if cfg.Site.Enabled {
		compilers = append(compilers, compile.NewSite(root,
			compile.WithCommand(cfg.Site.Command),
			compile.WithConfigFile(cfg.Site.ConfigFile),
			compile.WithExtensions(cfg.Site.Extensions...),
		))
	}

	return compilers
}

// buildSink fans results out to the terminal and, unless disabled, the
// desktop.
func buildSink(cfg *config.Config, w io.Writer, logger *slog.Logger) notify.Sink {
	sinks := []notify.Sink{notify.NewConsole(w, cfg.NoColor)}

	if !cfg.NoNotify {
		sinks = append(sinks, notify.NewDesktop(logger))
	}

	return notify.NewMulti(logger, sinks...)
}
