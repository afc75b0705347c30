package plugins

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lexer"
	"github.com/yaklabco/pgmllint/pkg/lint"
	"github.com/yaklabco/pgmllint/pkg/pgversion"
)

// dropDownCompatRx matches the shim that falls back to PopUp on releases
// without DropDown.
//
//nolint:gochecknoglobals // Compiled once.
var dropDownCompatRx = regexp.MustCompile(`defined\s*&DropDown\s*\?\s*DropDown\s*\(\s*@_\s*\)\s*:\s*PopUp\s*\(\s*@_\s*\)`)

// MacroRulesPlugin checks that functions from the macro rule table come
// with the macro files defining them, and that the targeted PG release
// provides them.
type MacroRulesPlugin struct {
	lint.BasePlugin
}

// NewMacroRulesPlugin creates the macro_rules plugin.
func NewMacroRulesPlugin() *MacroRulesPlugin {
	return &MacroRulesPlugin{
		BasePlugin: lint.NewBasePlugin(
			"macro_rules",
			"Macro rule coverage",
			"Functions such as PopUp or NumberWithUnits need their macro files loaded and a PG release that has them",
		),
	}
}

// Run checks every macro rule. Files that neither load macros nor call
// DOCUMENT() are fragments and are skipped.
func (p *MacroRulesPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	if len(pc.MacrosLoaded) == 0 && !documentRx.MatchString(pc.Stripped) {
		return nil, nil
	}
	dropDownCompat := dropDownCompatRx.MatchString(pc.Stripped)

	var issues []diag.Issue
	for i := range pc.MacroRules {
		rule := &pc.MacroRules[i]
		rx, err := rule.Regexp()
		if err != nil {
			return nil, err
		}
		loc := rx.FindStringIndex(pc.Stripped)
		if loc == nil {
			continue
		}
		pos := pc.Index.Position(loc[0])

		if msg, gated := versionGate(rule.Label, rule.MinPGVersion, rule.MaxPGVersion, pc.PGVersion); gated {
			if rule.Label == "DropDown" && dropDownCompat {
				continue
			}
			issues = append(issues, diag.Warning(msg).At(pos))
			continue
		}

		required := rule.Required()
		if len(required) == 0 || anyLoaded(pc, required) {
			continue
		}
		msg := fmt.Sprintf("%s used without required macros: %s", rule.Label, strings.Join(required, ", "))
		issues = append(issues, diag.Warning(msg).At(pos))
	}
	return issues, nil
}

// versionGate reports whether target falls outside [minV, maxV]. Bounds
// that do not parse are ignored.
func versionGate(label, minV, maxV string, target pgversion.Version) (string, bool) {
	if minV != "" {
		if v, err := pgversion.Parse(minV); err == nil && target.Compare(v) < 0 {
			return fmt.Sprintf("%s requires PG %s+ (target is PG %s)", label, minV, target), true
		}
	}
	if maxV != "" {
		if v, err := pgversion.Parse(maxV); err == nil && target.Compare(v) > 0 {
			return fmt.Sprintf("%s requires PG %s or earlier (target is PG %s)", label, maxV, target), true
		}
	}
	return "", false
}

func anyLoaded(pc *lint.PluginContext, macros []string) bool {
	for _, m := range macros {
		if pc.HasMacro(m) {
			return true
		}
	}
	return false
}

// RequiredMacrosPlugin warns when PGML is used without PGML.pl.
type RequiredMacrosPlugin struct {
	lint.BasePlugin
}

// NewRequiredMacrosPlugin creates the pgml_required_macros plugin.
func NewRequiredMacrosPlugin() *RequiredMacrosPlugin {
	return &RequiredMacrosPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_required_macros",
			"PGML macro loaded",
			"Files using BEGIN_PGML, PGML heredocs or PGML:: calls must load PGML.pl",
		),
	}
}

// Run checks for PGML.pl.
func (p *RequiredMacrosPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	if !pc.UsesPGML || pc.HasMacro("pgml.pl") {
		return nil, nil
	}
	issue := diag.Warning("PGML is used but PGML.pl is not loaded via loadMacros()")
	if len(pc.PGMLRegions) > 0 {
		issue = issue.AtLine(pc.Index.LineOf(pc.PGMLRegions[0].Start))
	}
	return []diag.Issue{issue}, nil
}

// BlankAssignmentsPlugin warns about answer specs naming variables that
// are never assigned anywhere in the file.
type BlankAssignmentsPlugin struct {
	lint.BasePlugin
}

// NewBlankAssignmentsPlugin creates the pgml_blank_assignments plugin.
func NewBlankAssignmentsPlugin() *BlankAssignmentsPlugin {
	return &BlankAssignmentsPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_blank_assignments",
			"PGML blank variables assigned",
			"Variables used in [_]{$var} answer specs must be assigned somewhere in the file",
		),
	}
}

// Run reports each unassigned variable once, at its first blank.
func (p *BlankAssignmentsPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	seen := make(map[string]bool)
	var issues []diag.Issue
	for _, scan := range pc.RegionScans() {
		for _, blank := range scan.Blanks {
			for _, name := range blank.Vars() {
				if seen[name] {
					continue
				}
				seen[name] = true
				if _, ok := pc.AssignedVars[name]; ok {
					continue
				}
				msg := fmt.Sprintf("PGML blank uses $%s but $%s is never assigned", name, name)
				issues = append(issues, diag.Warning(msg).At(pc.Index.Position(scan.Region.Start+blank.Span.Start)))
			}
		}
	}
	return issues, nil
}

//nolint:gochecknoglobals // Compiled once.
var (
	loadMacrosOpenRx        = regexp.MustCompile(`\bloadMacros\s*\(`)
	loadMacrosSmartQuotesRx = regexp.MustCompile("[\u2018\u2019\u201c\u201d]")
	missingCommaRx          = regexp.MustCompile(`(['"][^'"]+['"])\s+(['"][^'"]+['"])`)
)

// LoadMacrosIntegrityPlugin checks the punctuation of loadMacros() calls.
type LoadMacrosIntegrityPlugin struct {
	lint.BasePlugin
}

// NewLoadMacrosIntegrityPlugin creates the pgml_loadmacros_integrity plugin.
func NewLoadMacrosIntegrityPlugin() *LoadMacrosIntegrityPlugin {
	return &LoadMacrosIntegrityPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_loadmacros_integrity",
			"loadMacros integrity",
			"loadMacros() needs closing parenthesis, trailing semicolon, commas between entries and plain quotes",
		),
	}
}

// loadMacrosScan tracks one loadMacros() call across lines.
type loadMacrosScan struct {
	issues    []diag.Issue
	open      bool
	startLine int
	depth     int
	block     []string

	// pendingLine is the line of a closed call still waiting for its ';'.
	pendingLine int
}

// Run walks the file line by line with comments removed.
func (p *LoadMacrosIntegrityPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var st loadMacrosScan
	for i, raw := range pc.Lines() {
		st.line(codeLine(raw), i+1)
	}
	if st.open {
		st.issues = append(st.issues, diag.Error("loadMacros() missing closing parenthesis").AtLine(st.startLine))
	}
	return st.issues, nil
}

func (st *loadMacrosScan) line(clean string, line int) {
	if st.pendingLine > 0 {
		trimmed := strings.TrimSpace(clean)
		if trimmed == "" {
			return
		}
		pending := st.pendingLine
		st.pendingLine = 0
		if strings.HasPrefix(trimmed, ";") {
			return
		}
		st.issues = append(st.issues, diag.Error("loadMacros() missing trailing semicolon").AtLine(pending))
	}

	from := 0
	if !st.open {
		open := findLoadMacrosOpen(clean)
		if open < 0 {
			return
		}
		st.open = true
		st.startLine = line
		st.depth = 1
		st.block = st.block[:0]
		from = open + 1
	}

	var closeAt int
	st.depth, closeAt = scanParens(clean, from, st.depth)
	if closeAt < 0 {
		st.block = append(st.block, clean[from:])
		return
	}
	st.open = false
	st.block = append(st.block, clean[from:closeAt])
	if !strings.Contains(clean[closeAt+1:], ";") {
		st.pendingLine = line
	}
	st.checkBlock(strings.Join(st.block, "\n"), line)
}

func (st *loadMacrosScan) checkBlock(block string, line int) {
	if loadMacrosSmartQuotesRx.MatchString(block) {
		st.issues = append(st.issues, diag.Error("loadMacros() contains smart quotes").AtLine(line))
	}
	trimmed := strings.TrimSpace(block)
	if trimmed == "" {
		st.issues = append(st.issues, diag.Error("loadMacros() has an empty macro list").AtLine(line))
	}
	if strings.HasSuffix(trimmed, ",") {
		st.issues = append(st.issues, diag.Warning("loadMacros() macro list ends with a trailing comma").AtLine(line))
	}
	if missingCommaRx.MatchString(block) {
		st.issues = append(st.issues, diag.Error("loadMacros() entries appear to be missing a comma").AtLine(line))
	}
}

// findLoadMacrosOpen returns the offset of the '(' of the first
// loadMacros call outside literals, or -1.
func findLoadMacrosOpen(line string) int {
	classes := lexer.Classify(line, false)
	for _, m := range loadMacrosOpenRx.FindAllStringIndex(line, -1) {
		if classes[m[0]] == lexer.Code {
			return m[1] - 1
		}
	}
	return -1
}

// scanParens continues a parenthesis count over line from offset from. It
// returns the new depth and the offset of the ')' that brings it to zero,
// or -1.
func scanParens(line string, from, depth int) (int, int) {
	sc := lexer.Scanner{}
	for i := from; i < len(line); i++ {
		if sc.Step(line[i]) != lexer.Code {
			continue
		}
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return depth, i
			}
		}
	}
	return depth, -1
}
