package compile

import "context"

// LessCommand is the default lessc location inside a project.
const LessCommand = "node_modules/less/bin/lessc"

// Less compiles .less stylesheets into .css with lessc.
type Less struct {
	base
}

// NewLess creates a LESS compiler watching root.
func NewLess(root string, opts ...Option) *Less {
	o := buildOptions(options{
		command:    LessCommand,
		extensions: []string{"less"},
	}, opts)

	return &Less{base: base{
		name:    "less",
		command: o.command,
		config:  NewWatchConfig(root, o.buildDir, o.extensions, ".css"),
		runner:  o.runner,
	}}
}

// Compile runs lessc <src> <out>.
func (c *Less) Compile(ctx context.Context, src string) Result {
	out := c.config.OutputPath(src)

	return c.run(ctx, src, out, src, out)
}
