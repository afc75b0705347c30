package parser

import (
	"fmt"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/source"
)

// FormatCalls are the PGML formatter entry points that take a heredoc.
//
//nolint:gochecknoglobals // Read-only lookup table.
var FormatCalls = []string{"PGML::Format", "PGML::Format2"}

// ExtractBlockMarkers pairs line-anchored BEGIN_X/END_X markers. See
// (*Layout).BlockRegions for the pairing rules. Markers on a heredoc
// terminator line, as in SOLUTION(EV3(<<'END_SOLUTION')), are not block
// markers. A nil idx is built from text.
func ExtractBlockMarkers(text string, idx *source.Index) ([]source.Region, []diag.Issue) {
	return ScanLayout(text).BlockRegions(idx)
}

// PGMLHeredocs returns the heredocs that carry PGML: those whose tag names
// PGML, and those opened inside a PGML::Format call. stripped is the
// normalized text the heredocs were found in.
func PGMLHeredocs(stripped string, heredocs []Heredoc, idx *source.Index) []Heredoc {
	if len(heredocs) == 0 {
		return nil
	}
	calls := IterCalls(stripped, FormatCalls, idx)

	var out []Heredoc
	for _, h := range heredocs {
		if strings.Contains(strings.ToUpper(h.Tag), "PGML") || insideCall(calls, h.Opener) {
			out = append(out, h)
		}
	}
	return out
}

func insideCall(calls []Call, offset int) bool {
	for _, c := range calls {
		if offset >= c.ArgStart && offset < c.ArgEnd {
			return true
		}
	}
	return false
}

// ExtractPGMLHeredocRegions finds PGML heredocs and returns one
// KindPGMLHeredoc region per terminated body, plus an ERROR issue for each
// PGML heredoc whose terminator is not found.
func ExtractPGMLHeredocRegions(text string, idx *source.Index) ([]source.Region, []diag.Issue) {
	if idx == nil {
		idx = source.BuildIndex(text)
	}
	lay := ScanLayout(text)
	return PGMLHeredocRegions(PGMLHeredocs(lay.Stripped(), lay.Heredocs(), idx), idx)
}

// PGMLHeredocRegions converts already classified PGML heredocs into regions
// and terminator issues.
func PGMLHeredocRegions(heredocs []Heredoc, idx *source.Index) ([]source.Region, []diag.Issue) {
	var regions []source.Region
	var issues []diag.Issue
	for _, h := range heredocs {
		if !h.Terminated {
			issues = append(issues, diag.Error(fmt.Sprintf("PGML heredoc terminator %q not found", h.Tag)).
				At(idx.Position(h.Opener)))
			continue
		}
		regions = append(regions, source.Region{Kind: KindPGMLHeredoc, Start: h.BodyStart, End: h.BodyEnd})
	}
	return regions, issues
}
