package plugins

import (
	"regexp"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lint"
	"github.com/yaklabco/pgmllint/pkg/parser"
)

//nolint:gochecknoglobals // Compiled once.
var (
	textBlockRx         = regexp.MustCompile(`(?m)^[ \t]*BEGIN_TEXT\b`)
	brVariableRx        = regexp.MustCompile(`\$BR\b`)
	ansRuleRx           = regexp.MustCompile(`\bans_rule\s*\(`)
	oldCheckerRx        = regexp.MustCompile(`\b(num_cmp|str_cmp|fun_cmp|std_num_cmp|std_str_cmp|std_fun_cmp|std_num_str_cmp|strict_num_cmp|strict_str_cmp)\s*\(`)
	solutionHintRx      = regexp.MustCompile(`(?i)\b(SOLUTION|HINT)\s*\(`)
	ansLineRx           = regexp.MustCompile(`(?m)^[ \t]*ANS\s*\(`)
	legacyEndDocumentRx = regexp.MustCompile(`(?m)^[ \t]*ENDDOCUMENT\s*\(`)
)

// NewTextBlocksPlugin creates the pgml_text_blocks plugin.
func NewTextBlocksPlugin() lint.Plugin {
	return NewPatternPlugin(
		"pgml_text_blocks",
		"Deprecated TEXT blocks",
		"BEGIN_TEXT/END_TEXT blocks are legacy PG; new problems should use BEGIN_PGML",
		textBlockRx,
		fixed("BEGIN_TEXT is deprecated legacy PG syntax; use BEGIN_PGML with PGML.pl for modern WebWork problems"),
	)
}

// NewBRVariablePlugin creates the pgml_br_variable plugin.
func NewBRVariablePlugin() lint.Plugin {
	return NewPatternPlugin(
		"pgml_br_variable",
		"Legacy $BR variable",
		"$BR line breaks are legacy PG; PGML uses blank lines for paragraph breaks",
		brVariableRx,
		fixed("$BR is deprecated legacy PG syntax; use blank lines in PGML for paragraph breaks"),
	)
}

// NewAnsRulePlugin creates the pgml_ans_rule plugin.
func NewAnsRulePlugin() lint.Plugin {
	return NewPatternPlugin(
		"pgml_ans_rule",
		"Legacy ans_rule() function",
		"ans_rule() answer boxes are legacy PG; PGML uses inline [_]{$answer} blanks",
		ansRuleRx,
		fixed("ans_rule() is deprecated legacy PG syntax; use PGML inline answer blanks like [_]{$answer} instead"),
	)
}

// NewOldAnswerCheckersPlugin creates the pgml_old_answer_checkers plugin.
func NewOldAnswerCheckersPlugin() lint.Plugin {
	return NewPatternPlugin(
		"pgml_old_answer_checkers",
		"Legacy answer checker functions",
		"num_cmp(), str_cmp(), fun_cmp() and their variants are replaced by MathObjects ->cmp()",
		oldCheckerRx,
		func(m []string) string {
			return m[1] + "() is deprecated legacy PG syntax; use MathObjects with ->cmp() method instead (e.g., $answer->cmp())"
		},
	)
}

// NewSolutionHintMacrosPlugin creates the pgml_solution_hint_macros plugin.
func NewSolutionHintMacrosPlugin() lint.Plugin {
	return NewPatternPlugin(
		"pgml_solution_hint_macros",
		"Legacy SOLUTION/HINT macros",
		"SOLUTION() and HINT() macros are replaced by BEGIN_PGML_SOLUTION and BEGIN_PGML_HINT blocks",
		solutionHintRx,
		func(m []string) string {
			name := strings.ToUpper(m[1])
			return name + "() macro is deprecated legacy PG syntax; use BEGIN_PGML_" + name + "...END_PGML_" + name + " blocks instead"
		},
	)
}

// AnsStylePlugin warns about ANS() calls after a PGML block, which mixes
// PGML answer blanks with legacy answer registration.
type AnsStylePlugin struct {
	lint.BasePlugin
}

// NewAnsStylePlugin creates the pgml_ans_style plugin.
func NewAnsStylePlugin() *AnsStylePlugin {
	return &AnsStylePlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_ans_style",
			"PGML answer style consistency",
			"Pure PGML problems attach answers in the blank, [_]{$answer}, not with ANS() after END_PGML",
		),
	}
}

// Run reports each ANS() line between the first END_PGML and the following
// ENDDOCUMENT(), or the end of the file.
func (p *AnsStylePlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	from := -1
	for _, r := range pc.PGMLBlockRegions {
		if r.Kind == parser.KindPGML && (from < 0 || r.End < from) {
			from = r.End
		}
	}
	if from < 0 {
		return nil, nil
	}
	text := pc.Stripped
	to := len(text)
	if loc := legacyEndDocumentRx.FindStringIndex(text[from:]); loc != nil {
		to = from + loc[0]
	}

	var issues []diag.Issue
	for _, loc := range ansLineRx.FindAllStringIndex(text[from:to], -1) {
		issues = append(issues, diag.Warning("ANS() call after END_PGML block (mixed style). "+
			"Pure PGML uses inline answer specs: [_]{$answer} instead of ANS($answer->cmp())").
			AtLine(pc.Index.LineOf(from+loc[0])))
	}
	return issues, nil
}
