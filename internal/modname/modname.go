// Package modname implements the pure filename-to-identifier convention
// these passes use for their flat namespace: two filenames name the same
// module iff Derive produces the same string for both, and Derive("a/b", "")
// followed by Derive of a require() string relative to "a/b" must agree with
// Derive of the resolved path directly — that determinism and injectivity
// within one compilation unit is what the concatenated output depends on.
package modname

import "strings"

// StripBase removes a directory prefix from path before it's used to derive
// a module id. It's a no-op if path doesn't have that prefix.
func StripBase(path, prefix string) string {
	if prefix == "" {
		return path
	}
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	return strings.TrimPrefix(path, prefix)
}

// Derive computes module$... for path. If refPath is non-empty, path is
// first resolved as relative to refPath when path starts with "./" or
// "../"; a bare specifier like "some-pkg" is left alone since it doesn't
// name a file in this compilation unit.
func Derive(path string, refPath string) string {
	resolved := path
	if refPath != "" {
		resolved = resolveRelative(path, refPath)
	}
	return toIdentifier(resolved)
}

// resolveRelative strips a trailing ".js" from both path and refPath, counts
// how many directory components the relative prefix implies (one, always,
// to drop refPath's own filename and land in its directory; one more for
// each leading "../" to climb past that), drops that many trailing segments
// off refPath, and appends the residual path.
func resolveRelative(path, refPath string) string {
	p := strings.TrimSuffix(path, ".js")
	ref := strings.TrimSuffix(refPath, ".js")

	if !strings.HasPrefix(p, "./") && !strings.HasPrefix(p, "../") {
		return path
	}

	strip := 1
	for strings.HasPrefix(p, "../") {
		p = p[len("../"):]
		strip++
	}
	p = strings.TrimPrefix(p, "./")

	refSegs := strings.Split(ref, "/")
	if strip > len(refSegs) {
		strip = len(refSegs)
	}
	refSegs = refSegs[:len(refSegs)-strip]

	if len(refSegs) == 0 {
		return p
	}
	return strings.Join(refSegs, "/") + "/" + p
}

// toIdentifier strips a leading "./", swaps "/" for "$", drops a trailing
// ".js", swaps "-" for "_", and prefixes the result with "module$".
func toIdentifier(path string) string {
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimSuffix(path, ".js")
	path = strings.ReplaceAll(path, "/", "$")
	path = strings.ReplaceAll(path, "-", "_")
	return "module$" + path
}
