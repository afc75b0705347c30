// Package parser performs the lexical analysis of PG source: comment and
// heredoc normalization, call-site extraction, macro and variable discovery,
// and block-marker region extraction.
//
// Nothing here evaluates Perl. The scanners track just enough structure
// (quotes, comments, heredocs, bracket depth, line-anchored block markers) to
// locate regions of interest without matching inside strings or comments.
package parser

import (
	"regexp"
	"strings"
)

// Block marker kinds recognized at the start of a line.
const (
	KindPGML         = "BEGIN_PGML"
	KindPGMLSolution = "BEGIN_PGML_SOLUTION"
	KindPGMLHint     = "BEGIN_PGML_HINT"
	KindText         = "BEGIN_TEXT"
	KindSolution     = "BEGIN_SOLUTION"
	KindHint         = "BEGIN_HINT"

	// KindPGMLHeredoc tags the body of a heredoc fed to the PGML formatter.
	KindPGMLHeredoc = "HEREDOC_PGML"
)

// blockMarkerRx matches a line-anchored BEGIN_/END_ marker. Longer names come
// first so BEGIN_PGML_HINT is not read as BEGIN_PGML.
//
//nolint:gochecknoglobals // Compiled once.
var blockMarkerRx = regexp.MustCompile(
	`(?m)^[ \t]*((BEGIN|END)_(PGML_SOLUTION|PGML_HINT|PGML|TEXT|SOLUTION|HINT))\b`)

// IsPGMLKind reports whether regions of kind hold PGML markup.
func IsPGMLKind(kind string) bool {
	switch kind {
	case KindPGML, KindPGMLSolution, KindPGMLHint, KindPGMLHeredoc:
		return true
	default:
		return false
	}
}

// closerFor returns the END_ marker matching a BEGIN_ kind.
func closerFor(kind string) string {
	return "END_" + strings.TrimPrefix(kind, "BEGIN_")
}
