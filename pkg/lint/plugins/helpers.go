package plugins

import (
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lexer"
	"github.com/yaklabco/pgmllint/pkg/lint"
	"github.com/yaklabco/pgmllint/pkg/source"
)

//nolint:gochecknoglobals // Compiled once.
var (
	qualifiedTailRx = regexp.MustCompile(`(?:->|::)\s*$`)
)

// PatternPlugin reports one issue per match of a regexp over the stripped
// text.
type PatternPlugin struct {
	lint.BasePlugin

	pattern  *regexp.Regexp
	severity diag.Severity
	message  func(match []string) string
}

// NewPatternPlugin creates a WARNING-level PatternPlugin.
func NewPatternPlugin(id, name, desc string, pattern *regexp.Regexp, message func(match []string) string) *PatternPlugin {
	return &PatternPlugin{
		BasePlugin: lint.NewBasePlugin(id, name, desc),
		pattern:    pattern,
		severity:   diag.SeverityWarning,
		message:    message,
	}
}

// Run reports every match.
func (p *PatternPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, loc := range p.pattern.FindAllStringSubmatchIndex(pc.Stripped, -1) {
		match := make([]string, 0, len(loc)/2)
		for i := 0; i+1 < len(loc); i += 2 {
			if loc[i] < 0 {
				match = append(match, "")
				continue
			}
			match = append(match, pc.Stripped[loc[i]:loc[i+1]])
		}
		issue := diag.Issue{Severity: p.severity, Message: p.message(match)}
		issues = append(issues, issue.At(pc.Index.Position(loc[0])))
	}
	return issues, nil
}

// fixed returns a message function ignoring the match.
func fixed(message string) func([]string) string {
	return func([]string) string { return message }
}

// cloneIssues copies issues owned by the context, which the dispatcher must
// not modify in place.
func cloneIssues(groups ...[]diag.Issue) []diag.Issue {
	return slices.Concat(groups...)
}

// codeLine returns line with any trailing '#' comment removed. Quote state
// starts fresh on every line.
func codeLine(line string) string {
	line = strings.TrimSuffix(line, "\r")
	if i := lexer.CommentStart(line); i >= 0 {
		return line[:i]
	}
	return line
}

// stringMask marks the bytes of line that belong to a quoted literal.
func stringMask(line string) []bool {
	classes := lexer.Classify(line, false)
	mask := make([]bool, len(classes))
	for i, c := range classes {
		mask[i] = c != lexer.Code
	}
	return mask
}

// isQualified reports whether the name at pos follows "->" or "::", making
// it a method or a package function rather than the PG builtin.
func isQualified(line string, pos int) bool {
	return qualifiedTailRx.MatchString(line[:pos])
}

// isProblemFile reports whether the stripped text calls DOCUMENT().
func isProblemFile(pc *lint.PluginContext) bool {
	return documentRx.MatchString(pc.Stripped)
}

// regionMatches returns the submatch indices of rx in body that do not
// start inside a masked byte.
func regionMatches(rx *regexp.Regexp, body string, mask []bool) [][]int {
	var out [][]int
	for _, loc := range rx.FindAllStringSubmatchIndex(body, -1) {
		if loc[0] < len(mask) && mask[loc[0]] {
			continue
		}
		out = append(out, loc)
	}
	return out
}

// inBlock reports whether offset falls inside any of regions.
func inBlock(offset int, regions []source.Region) bool {
	for _, r := range regions {
		if offset >= r.Start && offset < r.End {
			return true
		}
	}
	return false
}
