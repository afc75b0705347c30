package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/pgmllint/internal/ui/pretty"
	"github.com/yaklabco/pgmllint/pkg/runner"
)

// TableReporter formats results as a styled table with color-coded rows.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter sized to the terminal.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, colorEnabled, pretty.TerminalWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		return 0, nil
	}

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintln(r.bw, r.styles.FormatFileError(r.opts.displayPath(file.Path), file.Error))
		}
	}

	total := countTotalIssues(result)
	if total == 0 {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
		return 0, nil
	}

	fmt.Fprint(r.bw, r.formatter.FormatTable(r.relativize(result)))
	fmt.Fprintln(r.bw, r.formatter.FormatTableSummary(result.Stats))
	return total, nil
}

// relativize returns a shallow copy of result with display paths.
func (r *TableReporter) relativize(result *runner.Result) *runner.Result {
	out := *result
	out.Files = make([]runner.FileOutcome, len(result.Files))
	for i, file := range result.Files {
		file.Path = r.opts.displayPath(file.Path)
		out.Files[i] = file
	}
	return &out
}
