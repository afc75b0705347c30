// Package diag defines the Issue record produced by every check, along with
// the helpers used to order, count and render issues.
package diag

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/source"
)

// Severity classifies an Issue.
type Severity string

const (
	// SeverityError marks a defect; any ERROR makes a lint run fail.
	SeverityError Severity = "ERROR"

	// SeverityWarning marks a style or compatibility concern.
	SeverityWarning Severity = "WARNING"
)

// IsValid reports whether s is one of the known severities.
func (s Severity) IsValid() bool {
	return s == SeverityError || s == SeverityWarning
}

// Issue is one diagnostic. Line, Column, Plugin and Excerpt are optional;
// a zero Line or Column means the position is unknown.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
	Plugin   string   `json:"plugin,omitempty"`
	Excerpt  string   `json:"excerpt,omitempty"`
}

// Error returns an ERROR issue with the given message.
func Error(message string) Issue {
	return Issue{Severity: SeverityError, Message: message}
}

// Warning returns a WARNING issue with the given message.
func Warning(message string) Issue {
	return Issue{Severity: SeverityWarning, Message: message}
}

// AtLine returns a copy of the issue positioned on line.
func (i Issue) AtLine(line int) Issue {
	i.Line = line
	return i
}

// At returns a copy of the issue positioned at pos.
func (i Issue) At(pos source.Position) Issue {
	i.Line = pos.Line
	i.Column = pos.Column
	return i
}

// WithPlugin returns a copy of the issue attributed to plugin.
func (i Issue) WithPlugin(plugin string) Issue {
	i.Plugin = plugin
	return i
}

// WithExcerpt returns a copy of the issue carrying a context snippet.
func (i Issue) WithExcerpt(excerpt string) Issue {
	i.Excerpt = excerpt
	return i
}

// IsError reports whether the issue has ERROR severity.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError
}

// Format renders the issue as a single line:
//
//	path:line: SEVERITY(plugin): message | context: excerpt
//
// The line part is dropped when unknown, the plugin part when showPlugin is
// false or no plugin is set, and the context part when there is no excerpt.
func (i Issue) Format(path string, showPlugin bool) string {
	var b strings.Builder
	b.WriteString(path)
	if i.Line > 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(i.Line))
	}
	b.WriteString(": ")
	b.WriteString(string(i.Severity))
	if showPlugin && i.Plugin != "" {
		b.WriteByte('(')
		b.WriteString(i.Plugin)
		b.WriteByte(')')
	}
	b.WriteString(": ")
	b.WriteString(i.Message)
	if i.Excerpt != "" {
		b.WriteString(" | context: ")
		b.WriteString(i.Excerpt)
	}
	return b.String()
}

// Summarize counts errors and warnings.
func Summarize(issues []Issue) (int, int) {
	var errs, warns int
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warns++
		}
	}
	return errs, warns
}

// HasErrors reports whether any issue is an ERROR.
func HasErrors(issues []Issue) bool {
	return slices.ContainsFunc(issues, Issue.IsError)
}

// Sort orders issues by line, then plugin, keeping the relative order of
// equal keys. Issues without a line sort as line 0.
func Sort(issues []Issue) {
	slices.SortStableFunc(issues, func(a, b Issue) int {
		if c := cmp.Compare(a.Line, b.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Plugin, b.Plugin)
	})
}
