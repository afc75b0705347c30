package pgml

import (
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lexer"
	"github.com/yaklabco/pgmllint/pkg/source"
)

const (
	inlineOpen  = "[@"
	inlineClose = "@]"
)

// ExtractInlineSpans finds [@ ... @] code spans in body. Each span covers the
// delimiters. An opener without a closer yields an ERROR and no span, and
// scanning resumes after it. Issue positions are relative to body.
func ExtractInlineSpans(body string) ([]source.Span, []diag.Issue) {
	spans, _, issues := extractInline(body, newLocator(body))
	return spans, issues
}

// extractInline also returns the two-byte spans of unclosed openers, which
// are already reported and must not count again as loose brackets.
func extractInline(body string, loc locator) ([]source.Span, []source.Span, []diag.Issue) {
	var spans, unclosed []source.Span
	var issues []diag.Issue

	for i := 0; i < len(body); {
		rel := strings.Index(body[i:], inlineOpen)
		if rel < 0 {
			break
		}
		start := i + rel
		if escaped(body, start) {
			i = start + len(inlineOpen)
			continue
		}
		end := findInlineClose(body, start+len(inlineOpen))
		if end < 0 {
			issues = append(issues, loc.at(diag.Error("unbalanced PGML inline opener [@ has no closing @]"), start))
			unclosed = append(unclosed, source.Span{Start: start, End: start + len(inlineOpen)})
			i = start + len(inlineOpen)
			continue
		}
		spans = append(spans, source.Span{Start: start, End: end})
		i = end
	}
	return spans, unclosed, issues
}

// findInlineClose returns the offset just past the "@]" that closes an
// inline span whose code starts at from, or -1. A closer inside a literal
// never counts. A closer at bracket depth zero wins; failing that, the first
// closer outside literals is used so brace checks can still see the code.
func findInlineClose(body string, from int) int {
	var sc lexer.Scanner
	depth := 0
	fallback := -1
	for k := from; k < len(body); k++ {
		if sc.Step(body[k]) != lexer.Code {
			continue
		}
		ch := body[k]
		if ch == '@' && k+1 < len(body) && body[k+1] == ']' {
			if depth <= 0 {
				return k + len(inlineClose)
			}
			if fallback < 0 {
				fallback = k + len(inlineClose)
			}
			k++
			continue
		}
		switch ch {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}
	return fallback
}

// InlineCode returns the code between the delimiters of an inline span.
func InlineCode(body string, span source.Span) string {
	start := span.Start + len(inlineOpen)
	end := span.End - len(inlineClose)
	if start > end || end > len(body) {
		return ""
	}
	return body[start:end]
}

// escaped reports whether the byte at pos is preceded by an odd run of
// backslashes.
func escaped(body string, pos int) bool {
	n := 0
	for k := pos - 1; k >= 0 && body[k] == '\\'; k-- {
		n++
	}
	return n%2 == 1
}
