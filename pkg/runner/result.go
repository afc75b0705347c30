package runner

import "github.com/yaklabco/pgmllint/pkg/lint"

// FileOutcome is the result of linting one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result holds the issues and context for the file. It is nil when
	// Error is set.
	Result *lint.FileResult

	// Error is set if the file could not be read.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// Files is the number of files linted, including failed ones.
	Files int

	// Errors and Warnings count issues by severity across all files.
	Errors   int
	Warnings int

	// Failed is the number of files that could not be read.
	Failed int

	// PluginFailures is the number of plugin runs that returned an error
	// or panicked.
	PluginFailures int

	// FilesWithIssues is the number of files with at least one issue.
	FilesWithIssues int
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per input file, in input order.
	Files []FileOutcome

	Stats Stats
}

// HasErrors reports whether any file produced an ERROR issue.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.Errors > 0
}

// HasFailures reports whether any file could not be read.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.Failed > 0
}

// accumulate folds one outcome into the statistics.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Stats.Files++
	if outcome.Error != nil {
		r.Stats.Failed++
		return
	}
	if outcome.Result == nil {
		return
	}

	errs, warns := outcome.Result.Counts()
	r.Stats.Errors += errs
	r.Stats.Warnings += warns
	r.Stats.PluginFailures += len(outcome.Result.PluginErrors)
	if len(outcome.Result.Issues) > 0 {
		r.Stats.FilesWithIssues++
	}
}
