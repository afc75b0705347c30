package parser

import (
	"slices"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/lexer"
	"github.com/yaklabco/pgmllint/pkg/source"
)

// Call is one recognized function invocation.
type Call struct {
	// Name is the called name as requested, e.g. "loadMacros" or
	// "PGML::Format".
	Name string

	// Args is the raw text between the parentheses.
	Args string

	// Line is the 1-based line of the name.
	Line int

	// Start is the offset of the name; ArgStart and ArgEnd bound Args.
	Start    int
	ArgStart int
	ArgEnd   int
}

// IterCalls finds calls of the given names outside literals and comments.
// Names may be package-qualified. Whitespace is allowed between the name and
// its '('. A call whose parentheses never balance is dropped. Results are in
// text order. A nil idx is built from text.
//
// text should be the normalized view returned by Normalize: heredoc bodies
// are only skipped once they are blanked.
func IterCalls(text string, names []string, idx *source.Index) []Call {
	if idx == nil {
		idx = source.BuildIndex(text)
	}
	classes := lexer.Classify(text, true)

	var calls []Call
	for _, name := range names {
		if name == "" {
			continue
		}
		for pos := 0; pos < len(text); {
			rel := strings.Index(text[pos:], name)
			if rel < 0 {
				break
			}
			start := pos + rel
			pos = start + len(name)

			if classes[start] != lexer.Code || !callBoundary(text, start, pos) {
				continue
			}
			open := skipSpace(text, pos)
			if open >= len(text) || text[open] != '(' {
				continue
			}
			closeAt := lexer.MatchClose(text, open, true)
			if closeAt < 0 {
				continue
			}
			calls = append(calls, Call{
				Name:     name,
				Args:     text[open+1 : closeAt],
				Line:     idx.LineOf(start),
				Start:    start,
				ArgStart: open + 1,
				ArgEnd:   closeAt,
			})
		}
	}

	slices.SortStableFunc(calls, func(a, b Call) int {
		return a.Start - b.Start
	})
	return calls
}

// callBoundary reports whether text[start:end] stands alone as a name: not
// preceded by an identifier byte, a package separator or a sigil, and not
// followed by an identifier byte.
func callBoundary(text string, start, end int) bool {
	if start > 0 {
		switch prev := text[start-1]; {
		case isIdentByte(prev), prev == ':', prev == '$', prev == '@', prev == '%':
			return false
		}
	}
	return end >= len(text) || !isIdentByte(text[end])
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}

func skipSpace(text string, pos int) int {
	for pos < len(text) {
		switch text[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// SplitTopLevel splits argument text on commas that sit outside literals and
// brackets. Parts are trimmed; empty parts are dropped.
func SplitTopLevel(args string) []string {
	var parts []string
	sc := lexer.Scanner{Comments: true}
	depth := 0
	last := 0
	flush := func(end int) {
		if part := strings.TrimSpace(args[last:end]); part != "" {
			parts = append(parts, part)
		}
	}
	for i := 0; i < len(args); i++ {
		if sc.Step(args[i]) != lexer.Code {
			continue
		}
		switch args[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				flush(i)
				last = i + 1
			}
		}
	}
	flush(len(args))
	return parts
}
