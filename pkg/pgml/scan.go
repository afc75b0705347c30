// Package pgml scans the PGML markup inside one region: inline code spans,
// answer blanks, math and verbatim spans, and bracket balance.
//
// Spans are relative to the scanned region. Issues carry absolute positions,
// resolved through the file's source.Index.
package pgml

import (
	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/source"
)

// RegionScan is the result of scanning one PGML region.
type RegionScan struct {
	Region source.Region

	Inline   []source.Span
	Blanks   []Blank
	Math     []source.Span
	Verbatim []source.Span

	// BlankVars holds every variable named in an answer spec.
	BlankVars map[string]struct{}

	InlineIssues  []diag.Issue
	BlankIssues   []diag.Issue
	BracketIssues []diag.Issue
}

// BlankSpans returns the spans of all answer blanks.
func (s *RegionScan) BlankSpans() []source.Span {
	spans := make([]source.Span, 0, len(s.Blanks))
	for _, b := range s.Blanks {
		spans = append(spans, b.Span)
	}
	return spans
}

// Mask returns a per-byte mask of the region covering inline, blank, math
// and verbatim spans.
func (s *RegionScan) Mask() []bool {
	return source.Mask(s.Region.Len(), s.Inline, s.BlankSpans(), s.Math, s.Verbatim)
}

// Issues returns all issues of the region in scan order.
func (s *RegionScan) Issues() []diag.Issue {
	out := make([]diag.Issue, 0, len(s.InlineIssues)+len(s.BlankIssues)+len(s.BracketIssues))
	out = append(out, s.InlineIssues...)
	out = append(out, s.BlankIssues...)
	return append(out, s.BracketIssues...)
}

// ScanRegion runs the four scans over region in dependency order: inline
// code first, then blanks outside inline code, then math and verbatim spans
// outside both, and finally bracket balance over whatever is left.
func ScanRegion(text string, region source.Region, idx *source.Index) *RegionScan {
	if idx == nil {
		idx = source.BuildIndex(text)
	}
	body := region.Text(text)
	loc := locator{base: region.Start, idx: idx}

	scan := &RegionScan{Region: region}
	var unclosed []source.Span
	scan.Inline, unclosed, scan.InlineIssues = extractInline(body, loc)

	blanks, vars, blankIssues := scanBlanks(body, loc, scan.Inline)
	scan.Blanks, scan.BlankVars, scan.BlankIssues = blanks, vars, blankIssues

	mask := source.Mask(len(body), scan.Inline, scan.BlankSpans())
	scan.Math = ExtractMathSpans(body, mask)
	scan.Verbatim = ExtractVerbatimSpans(body, mask)

	scan.BracketIssues = checkBrackets(body, loc, scan.Inline, unclosed, scan.BlankSpans(), scan.Math, scan.Verbatim)
	return scan
}

// locator turns region-relative offsets into absolute positions.
type locator struct {
	base int
	idx  *source.Index
}

func (l locator) at(issue diag.Issue, rel int) diag.Issue {
	return issue.At(l.idx.Position(l.base + rel))
}

func newLocator(body string) locator {
	return locator{idx: source.BuildIndex(body)}
}
