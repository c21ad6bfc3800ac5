package compile

import "strings"

// MapOutputPath computes where the compiled form of src is written.
//
// The extension is stripped from the last "." in src. When buildDir is set,
// the path component directly above the file name is replaced by buildDir, so
// "src/app.ts" becomes "jsbuild/app.js". This assumes sources live exactly
// one directory below the watch root: "src/sub/app.ts" maps to
// "src/jsbuild/app.js". A file at the root has buildDir prepended instead.
//
// Paths are split on "/" regardless of platform.
func MapOutputPath(src, buildDir, outputExt string) string {
	stem := ""
	if i := strings.LastIndex(src, "."); i >= 0 {
		stem = src[:i]
	}

	if buildDir != "" {
		parts := strings.Split(stem, "/")
		if len(parts) < 2 {
			parts = append([]string{buildDir}, parts...)
		} else {
			parts[len(parts)-2] = buildDir
		}

		stem = strings.Join(parts, "/")
	}

	return stem + outputExt
}
