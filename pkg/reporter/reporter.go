// Package reporter renders lint results as text, JSON, a table or a
// summary.
package reporter

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/runner"
)

// ErrUnknownFormat is returned for an output format the reporter does not
// know.
var ErrUnknownFormat = errors.New("unknown format")

// Reporter formats and writes lint results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of issues reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatTable:
		return NewTableReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// fileIssues returns the issues of an outcome, with excerpts filled in from
// the file's context when verbose is set. The outcome is not modified.
func fileIssues(outcome runner.FileOutcome, verbose bool) []diag.Issue {
	if outcome.Result == nil {
		return nil
	}
	issues := outcome.Result.Issues
	if !verbose || outcome.Result.Context == nil {
		return issues
	}
	out := make([]diag.Issue, len(issues))
	for i, issue := range issues {
		if issue.Excerpt == "" && issue.Line > 0 {
			issue = issue.WithExcerpt(outcome.Result.Context.Excerpt(issue.Line))
		}
		out[i] = issue
	}
	return out
}

// countTotalIssues counts issues across all files.
func countTotalIssues(result *runner.Result) int {
	if result == nil {
		return 0
	}
	var total int
	for _, file := range result.Files {
		if file.Result != nil {
			total += len(file.Result.Issues)
		}
	}
	return total
}
