package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/pgmllint/internal/ui/pretty"
	"github.com/yaklabco/pgmllint/pkg/runner"
)

// TextReporter writes one line per issue:
//
//	path:line: SEVERITY(plugin): message | context: excerpt
//
// followed by a one-line summary.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.Verbose {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)
		if file.Error != nil {
			fmt.Fprintln(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		}
		for _, issue := range fileIssues(file, r.opts.Verbose) {
			fmt.Fprintln(r.bw, r.styles.FormatIssue(path, issue, r.opts.ShowPlugin))
			total++
		}
	}

	if r.opts.Quiet {
		return total, nil
	}
	if total > 0 || result.Stats.Failed > 0 || r.opts.Verbose {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}
	return total, nil
}
