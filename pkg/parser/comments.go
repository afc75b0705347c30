package parser

import (
	"github.com/yaklabco/pgmllint/pkg/diag"
)

// StripComments blanks every '#' line comment that starts outside a quoted
// literal. A literal may span lines. Heredoc bodies and BEGIN_/END_ block
// bodies are literal text and are left verbatim. Comment bytes become
// spaces, so line count and line lengths match the input.
func StripComments(text string) string {
	out := []byte(text)
	ScanLayout(text).blankComments(out)
	return string(out)
}

// Normalize produces the stripped view of text: comments and heredoc bodies
// blanked in one pass. The returned issues report unterminated heredocs.
func Normalize(text string) (string, []diag.Issue) {
	lay := ScanLayout(text)
	return lay.Stripped(), lay.HeredocIssues(nil)
}
