package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lexer"
	"github.com/yaklabco/pgmllint/pkg/source"
)

// heredocOpenerRx matches <<TAG, <<-TAG, <<~TAG, <<'TAG' and <<"TAG". A
// quoted tag may follow the operator after whitespace, as in << "TAG".
//
//nolint:gochecknoglobals // Compiled once.
var heredocOpenerRx = regexp.MustCompile(`<<([~-]?)(?:[ \t]*'([^'\n]*)'|[ \t]*"([^"\n]*)"|([A-Za-z_]\w*))`)

// Heredoc is one heredoc literal found in the text.
type Heredoc struct {
	// Tag is the terminator word.
	Tag string

	// Quote is the quote around the tag in the opener, or 0 for a bare tag.
	Quote byte

	// Indented is set for the <<- and <<~ forms, whose terminator may be
	// preceded by whitespace.
	Indented bool

	// Opener is the offset of the "<<".
	Opener int

	// BodyStart and BodyEnd bound the interior lines. BodyEnd is the start
	// of the terminator line.
	BodyStart int
	BodyEnd   int

	// TermEnd is the offset just past the terminator tag.
	TermEnd int

	// Terminated is false when no terminator line was found; the body
	// offsets are then empty.
	Terminated bool
}

// Issue returns the diagnostic for an unterminated heredoc.
func (h Heredoc) Issue(idx *source.Index) diag.Issue {
	return diag.Error(fmt.Sprintf("heredoc terminator %q not found", h.Tag)).
		At(idx.Position(h.Opener))
}

// findOpeners returns the heredoc openers in the code part of one line,
// given the class of each of its bytes.
func findOpeners(line string, base int, classes []lexer.Class) []Heredoc {
	matches := heredocOpenerRx.FindAllStringSubmatchIndex(line, -1)
	if matches == nil {
		return nil
	}
	var out []Heredoc
	for _, m := range matches {
		if classes[m[0]] != lexer.Code {
			continue
		}
		h := Heredoc{
			Opener:   base + m[0],
			Indented: m[3] > m[2],
		}
		switch {
		case m[4] >= 0:
			h.Tag, h.Quote = line[m[4]:m[5]], '\''
		case m[6] >= 0:
			h.Tag, h.Quote = line[m[6]:m[7]], '"'
		default:
			h.Tag = line[m[8]:m[9]]
		}
		out = append(out, h)
	}
	return out
}

// findTerminator returns the index of the first line at or after from that
// terminates h, or -1.
func findTerminator(text string, lines []lineSpan, from int, h Heredoc) int {
	for j := from; j < len(lines); j++ {
		line := strings.TrimSuffix(text[lines[j].start:lines[j].end], "\r")
		if h.Indented {
			line = strings.TrimLeft(line, " \t")
		}
		if line == h.Tag {
			return j
		}
	}
	return -1
}

// FindHeredocs returns every heredoc in text in opener order, including
// unterminated ones. Openers inside literals, comments or BEGIN_/END_ block
// bodies are ignored.
func FindHeredocs(text string) []Heredoc {
	return ScanLayout(text).Heredocs()
}

// StripHeredocs blanks the interior lines of every terminated heredoc,
// leaving opener and terminator lines intact. Line count and line lengths
// are preserved. Each opener without a terminator yields an ERROR issue and
// leaves the rest of the text untouched.
func StripHeredocs(text string) (string, []diag.Issue) {
	lay := ScanLayout(text)
	out := []byte(text)
	lay.blankHeredocs(out)
	return string(out), lay.HeredocIssues(nil)
}
