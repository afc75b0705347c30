package parser

import (
	"regexp"

	"github.com/yaklabco/pgmllint/pkg/lexer"
)

// assignOp is an optional compound-assignment operator before '='.
const assignOp = `(?:\*\*|\|\||&&|//|[-+*/.|&^%])?=`

//nolint:gochecknoglobals // Compiled once.
var (
	// $x = ..., @x = ..., %x = ..., with or without my/our/local.
	scalarAssignRx = regexp.MustCompile(`[$@%](\w+)\s*` + assignOp)

	// ($a, @b, undef) = ...
	listAssignRx = regexp.MustCompile(
		`\(\s*((?:[$@%]\w+|undef)(?:\s*,\s*(?:[$@%]\w+|undef))*)\s*,?\s*\)\s*` + assignOp)

	// $a[1] = ..., $h{k} = ..., $a->[1]{k} = ...
	elementAssignRx = regexp.MustCompile(
		`\$(\w+)(?:\s*(?:->)?\s*(?:\[[^\]\n]*\]|\{[^}\n]*\}))+\s*` + assignOp)

	sigilNameRx = regexp.MustCompile(`[$@%](\w+)`)
)

// ExtractAssignedVars returns the names bound anywhere in text by a scalar,
// array or hash assignment, a list assignment, or an element assignment
// (which binds the container name). The analysis is whole-file: a name
// assigned in any scope counts as assigned everywhere. Comparisons (==),
// bindings (=~) and fat commas (=>) are not assignments.
func ExtractAssignedVars(text string) map[string]struct{} {
	vars := make(map[string]struct{})
	classes := lexer.Classify(text, true)

	each := func(rx *regexp.Regexp, bind func(m []int)) {
		for _, m := range rx.FindAllStringSubmatchIndex(text, -1) {
			if classes[m[0]] != lexer.Code || !isAssignment(text, m[1]) {
				continue
			}
			bind(m)
		}
	}

	each(scalarAssignRx, func(m []int) {
		vars[text[m[2]:m[3]]] = struct{}{}
	})
	each(elementAssignRx, func(m []int) {
		vars[text[m[2]:m[3]]] = struct{}{}
	})
	each(listAssignRx, func(m []int) {
		for _, name := range sigilNameRx.FindAllStringSubmatch(text[m[2]:m[3]], -1) {
			vars[name[1]] = struct{}{}
		}
	})
	return vars
}

// isAssignment rejects "==", "=~" and "=>" given the offset just past '='.
func isAssignment(text string, after int) bool {
	if after >= len(text) {
		return true
	}
	switch text[after] {
	case '=', '~', '>':
		return false
	}
	return true
}
