package plugins

import (
	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lint"
	"github.com/yaklabco/pgmllint/pkg/pgml"
)

// BlockMarkersPlugin reports unmatched BEGIN_X/END_X markers.
type BlockMarkersPlugin struct {
	lint.BasePlugin
}

// NewBlockMarkersPlugin creates the block_markers plugin.
func NewBlockMarkersPlugin() *BlockMarkersPlugin {
	return &BlockMarkersPlugin{
		BasePlugin: lint.NewBasePlugin(
			"block_markers",
			"Block marker pairing",
			"BEGIN_PGML, BEGIN_TEXT, BEGIN_SOLUTION and related markers must be closed by their END_ marker",
		),
	}
}

// Run returns the marker issues found while building the context.
func (p *BlockMarkersPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	return cloneIssues(pc.BlockMarkerIssues), nil
}

// HeredocsPlugin reports heredocs whose terminator never appears.
type HeredocsPlugin struct {
	lint.BasePlugin
}

// NewHeredocsPlugin creates the pgml_heredocs plugin.
func NewHeredocsPlugin() *HeredocsPlugin {
	return &HeredocsPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_heredocs",
			"Heredoc terminators",
			"Every heredoc, PGML or not, needs a terminator line matching its tag",
		),
	}
}

// Run returns both heredoc issue lists.
func (p *HeredocsPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	return cloneIssues(pc.HeredocIssues, pc.PGMLHeredocIssues), nil
}

// regionIssuesPlugin reports one issue list of every PGML region scan.
type regionIssuesPlugin struct {
	lint.BasePlugin

	pick func(scan *pgml.RegionScan) []diag.Issue
}

func (p *regionIssuesPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, scan := range pc.RegionScans() {
		issues = append(issues, p.pick(scan)...)
	}
	return issues, nil
}

// NewInlinePlugin creates the pgml_inline plugin.
func NewInlinePlugin() lint.Plugin {
	return &regionIssuesPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_inline",
			"PGML inline code spans",
			"Every [@ opener in PGML needs a closing @]",
		),
		pick: func(scan *pgml.RegionScan) []diag.Issue { return scan.InlineIssues },
	}
}

// NewBlanksPlugin creates the pgml_blanks plugin.
func NewBlanksPlugin() lint.Plugin {
	return &regionIssuesPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_blanks",
			"PGML answer blanks",
			"Answer blanks [_] should carry a balanced, non-empty {answer} spec",
		),
		pick: func(scan *pgml.RegionScan) []diag.Issue { return scan.BlankIssues },
	}
}

// NewBracketsPlugin creates the pgml_brackets plugin.
func NewBracketsPlugin() lint.Plugin {
	return &regionIssuesPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_brackets",
			"PGML bracket balance",
			"Square brackets in PGML text must pair up outside code, blank, math and verbatim spans",
		),
		pick: func(scan *pgml.RegionScan) []diag.Issue { return scan.BracketIssues },
	}
}
