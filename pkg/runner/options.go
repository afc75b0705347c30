// Package runner discovers PG files and lints them concurrently.
package runner

// Options controls discovery and concurrent linting.
type Options struct {
	// WorkingDir is the base directory used to resolve relative paths and
	// exclude globs. If empty, the process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions considered PG source.
	// Defaults to DefaultExtensions().
	Extensions []string

	// ExcludeGlobs are doublestar patterns, relative to WorkingDir, naming
	// files or directories to skip.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs caps the number of files linted at once.
	// 0 or negative means runtime.NumCPU().
	Jobs int
}

// DefaultExtensions returns the default set of PG file extensions.
func DefaultExtensions() []string {
	return []string{".pg"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func effectivePaths(paths []string) []string {
	if len(paths) == 0 {
		return []string{"."}
	}
	return paths
}
