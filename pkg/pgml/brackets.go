package pgml

import (
	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/source"
)

// CheckBracketBalance reports every unmatched '[' or ']' in body outside
// the masked spans. Escaped brackets are ignored. Issue positions are
// relative to body.
func CheckBracketBalance(body string, masked ...[]source.Span) []diag.Issue {
	return checkBrackets(body, newLocator(body), masked...)
}

func checkBrackets(body string, loc locator, masked ...[]source.Span) []diag.Issue {
	mask := source.Mask(len(body), masked...)
	var open []int
	var issues []diag.Issue

	for i := 0; i < len(body); i++ {
		if mask[i] || (body[i] != '[' && body[i] != ']') || escaped(body, i) {
			continue
		}
		if body[i] == '[' {
			open = append(open, i)
			continue
		}
		if len(open) == 0 {
			issues = append(issues, loc.at(diag.Error("PGML has an unmatched closing bracket ']'"), i))
			continue
		}
		open = open[:len(open)-1]
	}

	for _, pos := range open {
		issues = append(issues, loc.at(diag.Error("PGML has an unmatched opening bracket '['"), pos))
	}
	return issues
}
