package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/skytreader/besessen/internal/compile"
	"github.com/skytreader/besessen/internal/logging"
	"github.com/skytreader/besessen/internal/notify"
)

// Remover deletes a compiled output.
type Remover func(path string) error

// RemoveOutput deletes path, treating a missing file as success.
func RemoveOutput(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// Dispatcher routes FileEvents to one compiler.
type Dispatcher struct {
	compiler compile.Compiler
	sink     notify.Sink
	remove   Remover
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSink sets where compile results are reported.
func WithSink(s notify.Sink) DispatcherOption {
	return func(d *Dispatcher) {
		if s != nil {
			d.sink = s
		}
	}
}

// WithRemover replaces the function used to delete outputs.
func WithRemover(r Remover) DispatcherOption {
	return func(d *Dispatcher) {
		if r != nil {
			d.remove = r
		}
	}
}

// NewDispatcher creates a Dispatcher for c. Results go nowhere and outputs
// are removed with RemoveOutput unless overridden.
func NewDispatcher(c compile.Compiler, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		compiler: c,
		sink:     notify.Nop{},
		remove:   RemoveOutput,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Compiler returns the compiler events are routed to.
func (d *Dispatcher) Compiler() compile.Compiler { return d.compiler }

// Handle processes one event. Directory events and paths outside the
// compiler's extensions are ignored.
//
// A Moved event removes the output of its source (see Delete). The
// destination is compiled only when it matches this compiler's extensions
// too; the check is by path alone.
func (d *Dispatcher) Handle(ctx context.Context, ev FileEvent) {
	cfg := d.compiler.Config()

	if ev.IsDirectory || !cfg.ShouldObserve(ev.SourcePath) {
		return
	}

	ctx = logging.With(ctx, slog.String("compiler", d.compiler.Name()))
	logging.FromContext(ctx).Debug("file event",
		slog.String("kind", ev.Kind.String()),
		slog.String("path", ev.SourcePath),
	)

	switch ev.Kind {
	case Created, Modified:
		d.Compile(ctx, ev.SourcePath)
	case Deleted:
		d.Delete(ctx, ev.SourcePath)
	case Moved:
		d.Delete(ctx, ev.SourcePath)

		if ev.DestPath != "" && cfg.ShouldObserve(ev.DestPath) {
			d.Compile(ctx, ev.DestPath)
		}
	}
}

// Compile runs the compiler for src, then logs and reports the result.
func (d *Dispatcher) Compile(ctx context.Context, src string) compile.Result {
	res := d.compiler.Compile(ctx, src)
	d.report(ctx, res)

	return res
}

// Delete removes the mapped output of src. A compiler without a build
// directory owns its output placement, so nothing is removed for it.
// Failures are logged only.
func (d *Dispatcher) Delete(ctx context.Context, src string) {
	logger := logging.FromContext(ctx)
	cfg := d.compiler.Config()

	if !cfg.HasBuildDir() {
		logger.Debug("no build directory, leaving outputs alone", slog.String("path", src))
		return
	}

	out := cfg.OutputPath(src)

	if err := d.remove(out); err != nil {
		logger.Warn("removing output failed",
			slog.String("path", out),
			slog.String("error", err.Error()),
		)

		return
	}

	logger.Info("deleted", slog.String("path", out))
}

func (d *Dispatcher) report(ctx context.Context, res compile.Result) {
	logger := logging.FromContext(ctx)

	if !res.Success {
		logger.Error("compile failed",
			slog.String("path", res.SourcePath),
			slog.Duration("took", res.Duration),
			slog.String("output", res.Output),
		)
		d.notify(ctx,
			fmt.Sprintf("%s failed", d.compiler.Name()),
			fmt.Sprintf("%s\n%s", res.SourcePath, res.Output),
		)

		return
	}

	logger.Info("compiled",
		slog.String("path", res.SourcePath),
		slog.String("output", res.OutputPath),
		slog.Duration("took", res.Duration),
	)

	msg := res.SourcePath
	if res.OutputPath != "" {
		msg = fmt.Sprintf("%s -> %s", res.SourcePath, res.OutputPath)
	}

	d.notify(ctx, fmt.Sprintf("%s compiled", d.compiler.Name()), msg)
}

// notify delivers to the sink, containing any panic it raises.
func (d *Dispatcher) notify(ctx context.Context, title, msg string) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error("notification failed", slog.Any("error", r))
		}
	}()

	d.sink.Notify(title, msg)
}
