package parser

import (
	"fmt"
	"slices"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lexer"
	"github.com/yaklabco/pgmllint/pkg/source"
)

// lineKind classifies one line of a Layout.
type lineKind uint8

const (
	lineCode lineKind = iota

	// lineHeredocBody is an interior line of a terminated heredoc.
	lineHeredocBody

	// lineBlock is a marker line of a paired BEGIN_/END_ block or a line
	// between the two. PG treats block bodies as literal text.
	lineBlock
)

type lineSpan struct {
	start, end int
}

// marker is one line-anchored BEGIN_X or END_X token.
type marker struct {
	// name is the token as written, kind its BEGIN_ form.
	name  string
	kind  string
	begin bool

	start, end int
}

// Layout is the line structure of one text: its heredocs, its block markers,
// the literal lines they cover, and where each code line's comment starts.
// A Layout is built once and read by the normalizer and the region
// extractors.
type Layout struct {
	text     string
	lines    []lineSpan
	kinds    []lineKind
	comments []int
	heredocs []Heredoc
	markers  []marker
}

// ScanLayout walks text once, top to bottom. Only the bodies of paired
// blocks and terminated heredocs are literal: a BEGIN_X without its END_X
// and a heredoc opener without its terminator leave the lines after them as
// code. Quote state carries across code lines, so a '#' inside a multi-line
// string is not a comment; it restarts at every block.
func ScanLayout(text string) *Layout {
	lines := splitLines(text)
	lay := &Layout{
		text:     text,
		lines:    lines,
		kinds:    make([]lineKind, len(lines)),
		comments: make([]int, len(lines)),
	}
	for i := range lay.comments {
		lay.comments[i] = -1
	}

	found := make([]*marker, len(lines))
	for i, ln := range lines {
		if m, ok := parseMarker(text[ln.start:ln.end], ln.start); ok {
			found[i] = &m
		}
	}
	ends := pairBlocks(found)

	sc := lexer.Scanner{Comments: true, Multiline: true}
	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		line := text[ln.start:ln.end]

		if m := found[i]; m != nil && !sc.InString() {
			if end := ends[i]; m.begin && end >= 0 {
				for j := i; j <= end; j++ {
					lay.kinds[j] = lineBlock
					if found[j] != nil {
						lay.markers = append(lay.markers, *found[j])
					}
				}
				sc.Reset()
				i = end
				continue
			}
			lay.markers = append(lay.markers, *m)
		}

		classes := sc.Classify(line)
		if ln.end < len(text) {
			sc.Step('\n')
		}
		if c := slices.Index(classes, lexer.Comment); c >= 0 {
			lay.comments[i] = ln.start + c
		}

		next := i + 1
		for _, h := range findOpeners(line, ln.start, classes) {
			term := findTerminator(text, lines, next, h)
			if term < 0 {
				lay.heredocs = append(lay.heredocs, h)
				continue
			}
			h.Terminated = true
			h.BodyStart = lines[next].start
			h.BodyEnd = lines[term].start
			h.TermEnd = lines[term].end
			for j := next; j < term; j++ {
				lay.kinds[j] = lineHeredocBody
			}
			lay.heredocs = append(lay.heredocs, h)
			next = term + 1
		}
		i = next - 1
	}
	return lay
}

func splitLines(text string) []lineSpan {
	var lines []lineSpan
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, lineSpan{start: start, end: i})
			start = i + 1
		}
	}
	return append(lines, lineSpan{start: start, end: len(text)})
}

func parseMarker(line string, base int) (marker, bool) {
	m := blockMarkerRx.FindStringSubmatchIndex(line)
	if m == nil {
		return marker{}, false
	}
	return marker{
		name:  line[m[2]:m[3]],
		kind:  "BEGIN_" + line[m[6]:m[7]],
		begin: line[m[4]:m[5]] == "BEGIN",
		start: base + m[2],
		end:   base + m[3],
	}, true
}

// pairBlocks matches BEGIN_X and END_X lines with one stack per kind and
// returns, for every opener line, the index of its closer line or -1.
func pairBlocks(found []*marker) []int {
	ends := make([]int, len(found))
	stacks := make(map[string][]int)
	for i, m := range found {
		ends[i] = -1
		if m == nil {
			continue
		}
		if m.begin {
			stacks[m.kind] = append(stacks[m.kind], i)
			continue
		}
		if stack := stacks[m.kind]; len(stack) > 0 {
			ends[stack[len(stack)-1]] = i
			stacks[m.kind] = stack[:len(stack)-1]
		}
	}
	return ends
}

// Heredocs returns every heredoc in opener order, including unterminated
// ones.
func (l *Layout) Heredocs() []Heredoc {
	return l.heredocs
}

// Stripped returns the text with code-line comments and terminated heredoc
// bodies blanked.
func (l *Layout) Stripped() string {
	out := []byte(l.text)
	l.blankComments(out)
	l.blankHeredocs(out)
	return string(out)
}

// HeredocIssues returns one ERROR per heredoc whose terminator is missing.
// A nil idx is built from the text.
func (l *Layout) HeredocIssues(idx *source.Index) []diag.Issue {
	var issues []diag.Issue
	for _, h := range l.heredocs {
		if h.Terminated {
			continue
		}
		if idx == nil {
			idx = source.BuildIndex(l.text)
		}
		issues = append(issues, h.Issue(idx))
	}
	return issues
}

// BlockRegions pairs the block markers with one stack per kind. A closer
// pops the latest opener of its kind and yields a region from the opener to
// the end of the closer token. A closer with no opener, or an opener left on
// a stack at end of text, yields an ERROR issue and no region. Markers inside
// heredoc bodies or on terminator lines are not block markers. Regions are
// returned in opener order. A nil idx is built from the text.
func (l *Layout) BlockRegions(idx *source.Index) ([]source.Region, []diag.Issue) {
	if idx == nil {
		idx = source.BuildIndex(l.text)
	}

	stacks := make(map[string][]int)
	var kinds []string
	var regions []source.Region
	var issues []diag.Issue

	for _, m := range l.markers {
		if m.begin {
			if _, seen := stacks[m.kind]; !seen {
				kinds = append(kinds, m.kind)
			}
			stacks[m.kind] = append(stacks[m.kind], m.start)
			continue
		}

		stack := stacks[m.kind]
		if len(stack) == 0 {
			issues = append(issues, diag.Error(fmt.Sprintf("%s without matching %s", m.name, m.kind)).
				At(idx.Position(m.start)))
			continue
		}
		top := stack[len(stack)-1]
		stacks[m.kind] = stack[:len(stack)-1]
		regions = append(regions, source.Region{Kind: m.kind, Start: top, End: m.end})
	}

	var leftover []diag.Issue
	for _, kind := range kinds {
		for _, offset := range stacks[kind] {
			leftover = append(leftover, diag.Error(fmt.Sprintf("%s without matching %s", kind, closerFor(kind))).
				At(idx.Position(offset)))
		}
	}
	slices.SortStableFunc(leftover, func(a, b diag.Issue) int {
		return a.Line - b.Line
	})
	issues = append(issues, leftover...)

	slices.SortStableFunc(regions, func(a, b source.Region) int {
		return a.Start - b.Start
	})
	return regions, issues
}

func (l *Layout) blankComments(out []byte) {
	for i, c := range l.comments {
		if c >= 0 {
			blank(out, c, l.lines[i].end)
		}
	}
}

func (l *Layout) blankHeredocs(out []byte) {
	for _, h := range l.heredocs {
		if h.Terminated {
			blank(out, h.BodyStart, h.BodyEnd)
		}
	}
}

// blank replaces every byte in [start, end) except newlines with a space.
func blank(out []byte, start, end int) {
	for i := start; i < end && i < len(out); i++ {
		if out[i] != '\n' && out[i] != '\r' {
			out[i] = ' '
		}
	}
}
