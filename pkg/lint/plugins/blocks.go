package plugins

import (
	"fmt"
	"regexp"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lint"
)

// BlockRulesPlugin checks that the start and end patterns of every block
// rule occur equally often.
type BlockRulesPlugin struct {
	lint.BasePlugin
}

// NewBlockRulesPlugin creates the block_rules plugin.
func NewBlockRulesPlugin() *BlockRulesPlugin {
	return &BlockRulesPlugin{
		BasePlugin: lint.NewBasePlugin(
			"block_rules",
			"Block rule pairing",
			"Start and end patterns from the block rule table must appear the same number of times",
		),
	}
}

// Run checks each block rule against the stripped text.
func (p *BlockRulesPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for i := range pc.BlockRules {
		rule := &pc.BlockRules[i]
		startRx, err := rule.Start()
		if err != nil {
			return nil, err
		}
		endRx, err := rule.End()
		if err != nil {
			return nil, err
		}

		starts := startRx.FindAllStringIndex(pc.Stripped, -1)
		ends := endRx.FindAllStringIndex(pc.Stripped, -1)

		switch {
		case len(starts) == len(ends):
		case len(ends) == 0:
			issues = append(issues, diag.Warning(fmt.Sprintf("%s: start found without end", rule.Label)).
				AtLine(pc.Index.LineOf(starts[0][0])))
		case len(starts) == 0:
			issues = append(issues, diag.Warning(fmt.Sprintf("%s: end found without start", rule.Label)).
				AtLine(pc.Index.LineOf(ends[0][0])))
		default:
			issues = append(issues, diag.Error(fmt.Sprintf("%s: %d start(s) but %d end(s)", rule.Label, len(starts), len(ends))).
				AtLine(pc.Index.LineOf(starts[len(starts)-1][0])))
		}
	}
	return issues, nil
}

//nolint:gochecknoglobals // Compiled once.
var (
	documentRx    = regexp.MustCompile(`\bDOCUMENT\s*\(\s*\)`)
	endDocumentRx = regexp.MustCompile(`\bENDDOCUMENT\s*\(\s*\)`)
)

// DocumentPairsPlugin checks DOCUMENT() and ENDDOCUMENT() ordering.
type DocumentPairsPlugin struct {
	lint.BasePlugin
}

// NewDocumentPairsPlugin creates the document_pairs plugin.
func NewDocumentPairsPlugin() *DocumentPairsPlugin {
	return &DocumentPairsPlugin{
		BasePlugin: lint.NewBasePlugin(
			"document_pairs",
			"DOCUMENT/ENDDOCUMENT pairing",
			"A problem that calls DOCUMENT() must end with ENDDOCUMENT(), in that order and as often",
		),
	}
}

// Run checks the DOCUMENT() pair.
func (p *DocumentPairsPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	starts := documentRx.FindAllStringIndex(pc.Stripped, -1)
	if len(starts) == 0 {
		return nil, nil
	}
	ends := endDocumentRx.FindAllStringIndex(pc.Stripped, -1)
	if len(ends) == 0 {
		return []diag.Issue{
			diag.Warning("DOCUMENT() found without ENDDOCUMENT()").AtLine(pc.Index.LineOf(starts[0][0])),
		}, nil
	}

	var issues []diag.Issue
	if ends[0][0] < starts[0][0] {
		issues = append(issues, diag.Error("ENDDOCUMENT() appears before DOCUMENT()").
			AtLine(pc.Index.LineOf(ends[0][0])))
	}
	if len(starts) != len(ends) {
		issues = append(issues, diag.Error(fmt.Sprintf("DOCUMENT() appears %d time(s) but ENDDOCUMENT() appears %d time(s)", len(starts), len(ends))).
			AtLine(pc.Index.LineOf(starts[len(starts)-1][0])))
	}
	return issues, nil
}
