package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
)

// FormatIssue renders an issue in the one-line form of diag.Issue.Format,
// styling each part. With color disabled the output is identical to
// issue.Format(path, showPlugin).
func (s *Styles) FormatIssue(path string, issue diag.Issue, showPlugin bool) string {
	var b strings.Builder
	b.WriteString(s.FilePath.Render(path))
	if issue.Line > 0 {
		b.WriteString(s.Location.Render(":" + strconv.Itoa(issue.Line)))
	}
	b.WriteString(": ")
	b.WriteString(s.FormatSeverity(issue.Severity))
	if showPlugin && issue.Plugin != "" {
		b.WriteString(s.Plugin.Render("(" + issue.Plugin + ")"))
	}
	b.WriteString(": ")
	b.WriteString(s.Message.Render(issue.Message))
	if issue.Excerpt != "" {
		b.WriteString(s.Dim.Render(" | context: "))
		b.WriteString(s.Excerpt.Render(issue.Excerpt))
	}
	return b.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev diag.Severity) string {
	switch sev {
	case diag.SeverityError:
		return s.Error.Render(string(sev))
	case diag.SeverityWarning:
		return s.Warning.Render(string(sev))
	default:
		return string(sev)
	}
}

// FormatFileError formats a file that could not be linted.
func (s *Styles) FormatFileError(path string, err error) string {
	return s.FilePath.Render(path) + ": " + s.Error.Render(fmt.Sprintf("error: %v", err))
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", issueCount, plural(issueCount, "issue", "issues")))
	}
	return header
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
