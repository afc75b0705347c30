package pgml

import (
	"regexp"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lexer"
	"github.com/yaklabco/pgmllint/pkg/source"
)

//nolint:gochecknoglobals // Compiled once.
var (
	blankRx   = regexp.MustCompile(`\[_+\]\**`)
	specVarRx = regexp.MustCompile(`\$(\w+)`)
)

// Blank is one answer blank such as [_]{$ans}{10}.
type Blank struct {
	// Span covers the blank and all of its braced options.
	Span source.Span

	// Spec is the text of the first braced group, the answer spec.
	Spec string

	// HasSpec is false for a bare [_].
	HasSpec bool
}

// Vars returns the scalar variables named in the answer spec, in order of
// appearance.
func (b Blank) Vars() []string {
	var names []string
	for _, m := range specVarRx.FindAllStringSubmatch(b.Spec, -1) {
		names = append(names, m[1])
	}
	return names
}

// ScanBlanks finds answer blanks in body outside the inline spans and
// collects the variables their specs reference. A bare blank yields a
// WARNING; an answer spec whose braces never close yields an ERROR. Issue
// positions are relative to body.
func ScanBlanks(body string, inline []source.Span) ([]Blank, map[string]struct{}, []diag.Issue) {
	return scanBlanks(body, newLocator(body), inline)
}

func scanBlanks(body string, loc locator, inline []source.Span) ([]Blank, map[string]struct{}, []diag.Issue) {
	mask := source.Mask(len(body), inline)
	vars := make(map[string]struct{})
	var blanks []Blank
	var issues []diag.Issue

	for _, m := range blankRx.FindAllStringIndex(body, -1) {
		start, end := m[0], m[1]
		if mask[start] || escaped(body, start) {
			continue
		}

		blank := Blank{Span: source.Span{Start: start, End: end}}
		if end >= len(body) || body[end] != '{' {
			blanks = append(blanks, blank)
			issues = append(issues, loc.at(diag.Warning("PGML answer blank "+body[start:end]+" missing answer spec"), start))
			continue
		}

		closeAt := lexer.MatchClose(body, end, false)
		if closeAt < 0 {
			blanks = append(blanks, blank)
			issues = append(issues, loc.at(diag.Error("PGML answer blank has unbalanced braces in its answer spec"), start))
			continue
		}

		blank.HasSpec = true
		blank.Spec = body[end+1 : closeAt]
		blank.Span.End = closeAt + 1
		for blank.Span.End < len(body) && body[blank.Span.End] == '{' {
			next := lexer.MatchClose(body, blank.Span.End, false)
			if next < 0 {
				break
			}
			blank.Span.End = next + 1
		}

		if strings.TrimSpace(blank.Spec) == "" {
			issues = append(issues, loc.at(diag.Warning("PGML answer blank has an empty answer spec"), start))
		}
		for _, name := range blank.Vars() {
			vars[name] = struct{}{}
		}
		blanks = append(blanks, blank)
	}
	return blanks, vars, issues
}
