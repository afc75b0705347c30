package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/pgmllint/internal/ui/pretty"
	"github.com/yaklabco/pgmllint/pkg/analysis"
	"github.com/yaklabco/pgmllint/pkg/runner"
)

// summaryTopFiles caps the "most issues" file list.
const summaryTopFiles = 10

// SummaryReporter writes aggregate counts followed by per-plugin and
// per-file breakdowns.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	var stats runner.Stats
	if result != nil {
		stats = result.Stats
	}

	var b strings.Builder
	b.WriteString(r.styles.FormatSummary(stats))

	opts := analysis.DefaultOptions()
	opts.WorkingDir = r.opts.WorkingDir
	report := analysis.Analyze(result, opts)
	r.writeBreakdown(&b, report)

	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return 0, fmt.Errorf("write summary: %w", err)
	}
	return report.Totals.Issues, nil
}

func (r *SummaryReporter) writeBreakdown(b *strings.Builder, report *analysis.Report) {
	if len(report.ByPlugin) == 0 {
		return
	}

	width := 0
	for _, p := range report.ByPlugin {
		width = max(width, len(p.Plugin))
	}

	b.WriteString("\n")
	b.WriteString(r.styles.SummaryTitle.Render("Issues by plugin"))
	b.WriteString("\n")
	for _, p := range report.ByPlugin {
		name := r.styles.Plugin.Render(fmt.Sprintf("%-*s", width, p.Plugin))
		fmt.Fprintf(b, "  %s %s in %d %s\n",
			name, breakdownCounts(p.Errors, p.Warnings), len(p.Files), plural(len(p.Files), "file", "files"))
	}

	b.WriteString("\n")
	b.WriteString(r.styles.SummaryTitle.Render("Files with most issues"))
	b.WriteString("\n")
	for i, f := range report.ByFile {
		if i == summaryTopFiles {
			fmt.Fprintf(b, "  ... and %d more\n", len(report.ByFile)-summaryTopFiles)
			break
		}
		fmt.Fprintf(b, "  %s %s\n", r.styles.FilePath.Render(f.Path), breakdownCounts(f.Errors, f.Warnings))
	}
}

func breakdownCounts(errs, warns int) string {
	return fmt.Sprintf("%d %s, %d %s", errs, plural(errs, "error", "errors"), warns, plural(warns, "warning", "warnings"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
