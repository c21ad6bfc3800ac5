package compile

import (
	"context"
	"slices"
)

// TypeScriptCommand is the default tsc location inside a project.
const TypeScriptCommand = "node_modules/typescript/bin/tsc"

// TypeScriptFlags are passed to tsc before the output and source arguments.
var TypeScriptFlags = []string{"--lib", "es2015,es2015.iterable,dom"}

// TypeScript compiles .ts files into single .js files with tsc.
type TypeScript struct {
	base
}

// NewTypeScript creates a TypeScript compiler watching root.
func NewTypeScript(root string, opts ...Option) *TypeScript {
	o := buildOptions(options{
		command:    TypeScriptCommand,
		extensions: []string{"ts"},
	}, opts)

	return &TypeScript{base: base{
		name:    "typescript",
		command: o.command,
		config:  NewWatchConfig(root, o.buildDir, o.extensions, ".js"),
		runner:  o.runner,
	}}
}

// Compile runs tsc --lib ... --outFile <out> <src>.
func (c *TypeScript) Compile(ctx context.Context, src string) Result {
	out := c.config.OutputPath(src)
	args := append(slices.Clone(TypeScriptFlags), "--outFile", out, src)

	return c.run(ctx, src, out, args...)
}
