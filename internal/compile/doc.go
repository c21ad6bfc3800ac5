// Package compile turns single source files into build artefacts by running
// one external tool per file.
//
// The package is organized around four concerns:
//
//   - Watch configuration (watchconfig.go): the immutable [WatchConfig] each
//     compiler is constructed with, including extension normalization and
//     the should-observe predicate.
//
//   - Path mapping (mapper.go): [MapOutputPath], the one-level substitution
//     of the source's parent directory with the build directory.
//
//   - Build directories (builddir.go): [EnsureBuildDir] creates the output
//     directory before the first compile.
//
//   - Compilers (compiler.go, typescript.go, less.go, site.go): the
//     [Compiler] capability and its TypeScript, LESS and static-site
//     variants, all sharing one synchronous run-and-capture implementation.
package compile
