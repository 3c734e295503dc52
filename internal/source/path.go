package source

import (
	"path"
	"strings"
)

// Structural separators used when forming internal element names.
const (
	PathDelimiter     = "/" // path segments
	StaticDelimiter   = "." // namespace/class static member
	InstanceDelimiter = "#" // class instance member
	InnerDelimiter    = "~" // function-inner elements
	GetterPrefix      = "get:"
	SetterPrefix      = "set:"
)

// LibraryPrefix marks paths that belong to the standard library root.
const LibraryPrefix = "~lib/"

// IndexSuffix names the file that stands for its directory under import
// resolution: "foo/index" and "foo" address the same source.
const IndexSuffix = "/index"

// NormalizePath converts a path into internal form: forward slashes, cleaned
// segments, no file extension.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if ext := path.Ext(p); ext != "" && !strings.Contains(ext, "/") {
		p = p[:len(p)-len(ext)]
	}
	if strings.HasPrefix(p, LibraryPrefix) {
		return LibraryPrefix + path.Clean(p[len(LibraryPrefix):])
	}
	return path.Clean(p)
}

// IsLibraryPath reports whether the internal path is under the standard
// library root.
func IsLibraryPath(p string) bool {
	return strings.HasPrefix(p, LibraryPrefix)
}

// ResolveRelativePath resolves an import path against the importing file's
// internal path. Relative imports ("./x", "../x") are joined with the
// importing file's directory; anything else is taken as-is.
func ResolveRelativePath(importPath, fromPath string) string {
	if !strings.HasPrefix(importPath, "./") && !strings.HasPrefix(importPath, "../") {
		return NormalizePath(importPath)
	}
	dir := path.Dir(fromPath)
	if strings.HasPrefix(fromPath, LibraryPrefix) {
		joined := path.Join(path.Dir(fromPath[len(LibraryPrefix):]), importPath)
		return LibraryPrefix + path.Clean(joined)
	}
	return NormalizePath(path.Join(dir, importPath))
}

// AlternativePath swaps the "/index" spelling of an internal path: a path
// ending in "/index" loses the suffix, any other path gains it.
func AlternativePath(p string) string {
	if strings.HasSuffix(p, IndexSuffix) {
		return p[:len(p)-len(IndexSuffix)]
	}
	return p + IndexSuffix
}
