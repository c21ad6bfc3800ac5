package compile

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/skytreader/besessen/internal/logging"
)

// Compiler converts one source file into one build artefact by invoking a
// single external tool. Compile blocks until the tool exits and never
// reports failure other than through the returned Result.
type Compiler interface {
	// Name identifies the compiler in logs and notifications.
	Name() string

	// Config returns the settings the compiler was constructed with.
	Config() WatchConfig

	// Compile runs the external tool for src. The context carries the
	// logger; it does not cancel a running tool.
	Compile(ctx context.Context, src string) Result
}

// Result is the outcome of one compile attempt.
type Result struct {
	Compiler   string
	SourcePath string
	// OutputPath is set only when the compile succeeded.
	OutputPath string
	Success    bool
	// Output is the combined stdout and stderr of the tool.
	Output   string
	Duration time.Duration
}

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec. Arguments are passed as a vector,
// never through a shell.
type ExecRunner struct{}

// Run executes name with args and waits for it to exit.
func (ExecRunner) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput() //nolint:gosec
}

// Option configures a compiler.
type Option func(*options)

type options struct {
	command    string
	buildDir   string
	extensions []string
	configFile string
	runner     Runner
}

// WithCommand overrides the tool binary.
func WithCommand(command string) Option {
	return func(o *options) {
		if command != "" {
			o.command = command
		}
	}
}

// WithBuildDir sets the build directory. An empty value disables it.
func WithBuildDir(dir string) Option {
	return func(o *options) { o.buildDir = dir }
}

// WithExtensions overrides the source extensions the compiler observes.
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		if len(exts) > 0 {
			o.extensions = exts
		}
	}
}

// WithConfigFile overrides the configuration file handed to the site
// generator. Other compilers ignore it.
func WithConfigFile(name string) Option {
	return func(o *options) {
		if name != "" {
			o.configFile = name
		}
	}
}

// WithRunner replaces the process runner, typically with a test double.
func WithRunner(r Runner) Option {
	return func(o *options) {
		if r != nil {
			o.runner = r
		}
	}
}

func buildOptions(defaults options, opts []Option) options {
	o := defaults
	o.runner = ExecRunner{}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// base carries the behaviour shared by every compiler variant.
type base struct {
	name    string
	command string
	config  WatchConfig
	runner  Runner
}

func (b *base) Name() string { return b.name }

func (b *base) Config() WatchConfig { return b.config }

// run invokes the tool once and converts its exit status into a Result.
// out is recorded on success only.
func (b *base) run(ctx context.Context, src, out string, args ...string) (res Result) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	res = Result{Compiler: b.name, SourcePath: src}

	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.OutputPath = ""
			res.Output = fmt.Sprintf("%s panicked: %v", b.command, r)
			res.Duration = time.Since(start)
		}
	}()

	logger.Debug("running compiler",
		slog.String("command", b.command),
		slog.Any("args", args),
	)

	output, err := b.runner.Run(b.command, args...)
	res.Output = string(output)
	res.Duration = time.Since(start)

	if err != nil {
		if res.Output == "" {
			res.Output = err.Error()
		}

		return res
	}

	res.Success = true
	res.OutputPath = out

	return res
}
