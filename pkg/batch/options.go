// Package batch runs the checker across many files: path discovery
// with glob support, bounded parallel checking, and a filesystem
// watcher for watch mode.
package batch

import "runtime"

// Options controls discovery and the parallel run.
type Options struct {
	// Paths are the files, directories, or glob patterns to check.
	// Empty means the working directory.
	Paths []string

	// WorkingDir is the base directory for resolving relative paths
	// and patterns. Empty means the process working directory.
	WorkingDir string

	// Extensions is the set of file extensions treated as Markdown,
	// lowercase with a leading dot. Empty means DefaultExtensions.
	// Files named explicitly in Paths bypass this filter.
	Extensions []string

	// Include narrows directory discovery to paths matching at least
	// one of these glob patterns, relative to WorkingDir.
	Include []string

	// Exclude drops files and prunes directories matching any of
	// these glob patterns, relative to WorkingDir.
	Exclude []string

	// FollowSymlinks controls whether directory symlinks are
	// traversed during discovery.
	FollowSymlinks bool

	// Jobs bounds the number of files checked concurrently.
	// Zero or negative means GOMAXPROCS.
	Jobs int

	// MaxFileSize rejects larger files before reading them.
	// Zero disables the cap.
	MaxFileSize int64
}

// DefaultExtensions returns the default set of Markdown file
// extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

// effectiveExtensions returns the extensions to use, defaulting if
// empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if
// empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// effectiveJobs returns the worker limit to use.
func (o Options) effectiveJobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.GOMAXPROCS(0)
}
