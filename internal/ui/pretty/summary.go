package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line:
// "Found 2 errors and 3 warnings." or "No issues found in 4 files.".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.Errors == 0 && stats.Warnings == 0 {
		msg := s.Success.Render(fmt.Sprintf("No issues found in %d %s.", stats.Files, plural(stats.Files, "file", "files")))
		if stats.Failed > 0 {
			msg += " " + s.Failure.Render(fmt.Sprintf("%d %s could not be read.", stats.Failed, plural(stats.Failed, "file", "files")))
		}
		return msg + "\n"
	}

	msg := fmt.Sprintf("Found %s and %s.",
		s.Error.Render(fmt.Sprintf("%d errors", stats.Errors)),
		s.Warning.Render(fmt.Sprintf("%d warnings", stats.Warnings)),
	)
	if stats.Failed > 0 {
		msg += " " + s.Failure.Render(fmt.Sprintf("%d %s could not be read.", stats.Failed, plural(stats.Failed, "file", "files")))
	}
	return msg + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.Files)) + "\n")
	if stats.FilesWithIssues > 0 {
		builder.WriteString("  Files with issues: " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)) + "\n")
	}
	if stats.Failed > 0 {
		builder.WriteString("  Files unreadable:  " +
			s.Failure.Render(strconv.Itoa(stats.Failed)) + "\n")
	}
	if stats.PluginFailures > 0 {
		builder.WriteString("  Plugin failures:   " +
			s.Failure.Render(strconv.Itoa(stats.PluginFailures)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Total issues:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.Errors+stats.Warnings)) + "\n")
	if stats.Errors > 0 {
		builder.WriteString("    Errors:          " +
			s.Error.Render(strconv.Itoa(stats.Errors)) + "\n")
	}
	if stats.Warnings > 0 {
		builder.WriteString("    Warnings:        " +
			s.Warning.Render(strconv.Itoa(stats.Warnings)) + "\n")
	}
	builder.WriteString("\n")

	switch {
	case stats.Errors > 0:
		builder.WriteString(s.Failure.Render("Lint failed with errors"))
	case stats.Warnings > 0:
		builder.WriteString(s.Warning.Render("Lint completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Lint passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
