package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 5 // FILE, LINE, SEVERITY, MESSAGE, PLUGIN
	minFileWidth     = 20
	minLineWidth     = 4
	severityWidth    = 8
	minMessageWidth  = 35
	minPluginWidth   = 8
	heavySeparator   = "="
	lightSeparator   = "-"
	ellipsis         = "..."
)

// TableRow represents a single row in the issue table.
type TableRow struct {
	File     string
	Line     string
	Message  string
	Plugin   string
	Severity diag.Severity
}

// IssueToTableRow converts an issue to a table row.
func IssueToTableRow(path string, issue diag.Issue) TableRow {
	line := "-"
	if issue.Line > 0 {
		line = strconv.Itoa(issue.Line)
	}
	return TableRow{
		File:     path,
		Line:     line,
		Message:  issue.Message,
		Plugin:   issue.Plugin,
		Severity: issue.Severity,
	}
}

// TableFormatter formats issues as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = DefaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FormatTable formats runner results as a styled table, one group of rows
// per file with issues.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil {
		return ""
	}
	groups := collectRows(result)
	if len(groups) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(groups)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")

	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.formatSeparator(widths, lightSeparator))
			builder.WriteString("\n")
		}
		for _, row := range group {
			builder.WriteString(t.formatRow(row, widths))
			builder.WriteString("\n")
		}
	}

	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")
	if t.colorEnabled {
		builder.WriteString(t.formatLegend())
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats) string {
	parts := []string{fmt.Sprintf("%d files checked", stats.Files)}
	if stats.Errors > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d errors", stats.Errors)))
	}
	if stats.Warnings > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d warnings", stats.Warnings)))
	}
	if stats.Failed > 0 {
		parts = append(parts, t.styles.Failure.Render(fmt.Sprintf("%d unreadable", stats.Failed)))
	}
	return " " + strings.Join(parts, " | ")
}

func collectRows(result *runner.Result) [][]TableRow {
	var groups [][]TableRow
	for _, file := range result.Files {
		if file.Result == nil || len(file.Result.Issues) == 0 {
			continue
		}
		rows := make([]TableRow, 0, len(file.Result.Issues))
		for _, issue := range file.Result.Issues {
			rows = append(rows, IssueToTableRow(file.Path, issue))
		}
		groups = append(groups, rows)
	}
	return groups
}

type columnWidths struct {
	file    int
	line    int
	message int
	plugin  int
}

func (w columnWidths) total() int {
	return w.file + w.line + severityWidth + w.message + w.plugin + tablePadding*tableColumnCount
}

// calculateColumnWidths sizes columns to their content, then shrinks the
// message column and the file column, in that order, to fit the terminal.
func (t *TableFormatter) calculateColumnWidths(groups [][]TableRow) columnWidths {
	widths := columnWidths{
		file:    minFileWidth,
		line:    minLineWidth,
		message: minMessageWidth,
		plugin:  minPluginWidth,
	}
	for _, group := range groups {
		for _, row := range group {
			widths.file = max(widths.file, len(row.File))
			widths.line = max(widths.line, len(row.Line))
			widths.message = max(widths.message, len(row.Message))
			widths.plugin = max(widths.plugin, len(row.Plugin))
		}
	}

	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.message = max(minMessageWidth, widths.message-excess)
	}
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.file = max(minFileWidth, widths.file-excess)
	}
	return widths
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %-*s ",
		widths.file, "FILE",
		widths.line, "LINE",
		severityWidth, "SEVERITY",
		widths.message, "MESSAGE",
		widths.plugin, "PLUGIN",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, widths.total()))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %-*s ",
		widths.file, truncateFilePath(row.File, widths.file),
		widths.line, row.Line,
		severityWidth, row.Severity,
		widths.message, truncateString(row.Message, widths.message),
		widths.plugin, truncateString(row.Plugin, widths.plugin),
	)
	return t.getRowStyle(row.Severity).Render(content)
}

func (t *TableFormatter) getRowStyle(severity diag.Severity) lipgloss.Style {
	switch severity {
	case diag.SeverityError:
		return t.styles.TableErrorRow
	case diag.SeverityWarning:
		return t.styles.TableWarnRow
	default:
		return lipgloss.NewStyle()
	}
}

func (t *TableFormatter) formatLegend() string {
	return t.styles.TableLegend.Render(fmt.Sprintf(" Legend: %s = error  %s = warning",
		t.styles.TableErrorRow.Render(" ERROR "),
		t.styles.TableWarnRow.Render(" WARNING "),
	))
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= len(ellipsis) {
		return str[:maxLen]
	}
	return str[:maxLen-len(ellipsis)] + ellipsis
}

// truncateFilePath truncates a path from the front, keeping the file name.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= len(ellipsis) {
		return path[len(path)-maxLen:]
	}
	return ellipsis + path[len(path)-maxLen+len(ellipsis):]
}
