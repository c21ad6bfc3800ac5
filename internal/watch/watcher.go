package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/skytreader/besessen/internal/logging"
)

// Options configures the watch behaviour.
type Options struct {
	// Root is the directory to watch recursively.
	Root string

	// Policy selects when the startup sweep runs.
	Policy BuildPolicy

	// MoveWindow is how long a rename waits for the create of its
	// destination. Zero reports every rename as a deletion at once.
	MoveWindow time.Duration

	// Ignore lists doublestar globs, relative to Root, of directories
	// that are not watched.
	Ignore []string

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Root:       ".",
		Policy:     BuildFresh,
		MoveWindow: 100 * time.Millisecond,
		Logger:     slog.Default(),
		Out:        os.Stderr,
	}
}

// Run prepares every dispatcher, then watches opts.Root and feeds each
// change to the dispatchers in order. Events are handled one at a time on
// the calling goroutine, so a slow compile delays everything behind it.
//
// Run blocks until the context is cancelled or a SIGINT/SIGTERM signal is
// received, and then returns nil. An error reported by the underlying
// watcher ends Run with that error.
func Run(ctx context.Context, opts Options, dispatchers ...*Dispatcher) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if opts.Root == "" {
		opts.Root = "."
	}

	if opts.Policy == "" {
		opts.Policy = BuildFresh
	}

	ctx = logging.NewContext(ctx, opts.Logger)

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	names := make([]string, 0, len(dispatchers))

	for _, d := range dispatchers {
		names = append(names, d.Compiler().Name())

		n, err := Prepare(sigCtx, d, opts.Policy)
		if err != nil {
			return err
		}

		if n > 0 {
			opts.Logger.Info("initial build finished",
				slog.String("compiler", d.Compiler().Name()),
				slog.Int("files", n),
			)
		}
	}

	if sigCtx.Err() != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	src := newSource(watcher, opts.Root, opts.Ignore)
	if err := src.addRecursive(opts.Root); err != nil {
		return fmt.Errorf("watching root directory: %w", err)
	}

	fmt.Fprintf(opts.Out, "watching %s (compilers=%s, initial-build=%s)\n",
		opts.Root, strings.Join(names, ","), opts.Policy)

	return watchLoop(sigCtx, opts, src, watcher.Events, watcher.Errors, dispatchers)
}

// watchLoop feeds raw events through src to the dispatchers until ctx ends,
// a channel closes or errs delivers an error.
func watchLoop(
	ctx context.Context,
	opts Options,
	src *source,
	events <-chan fsnotify.Event,
	errs <-chan error,
	dispatchers []*Dispatcher,
) error {
	dispatch := func(batch []FileEvent) {
		for _, ev := range batch {
			for _, d := range dispatchers {
				d.Handle(ctx, ev)
			}
		}
	}

	var moveTimer <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}

			batch, held := src.translate(event)

			switch {
			case held && opts.MoveWindow <= 0:
				batch = append(batch, src.flush()...)
				moveTimer = nil
			case held:
				moveTimer = time.After(opts.MoveWindow)
			case !src.hasPending():
				moveTimer = nil
			}

			dispatch(batch)

		case <-moveTimer:
			moveTimer = nil
			dispatch(src.flush())

		case watchErr, ok := <-errs:
			if !ok {
				return nil
			}

			return fmt.Errorf("watcher error: %w", watchErr)
		}
	}
}
