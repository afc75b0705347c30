package plugins

import (
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lexer"
	"github.com/yaklabco/pgmllint/pkg/lint"
	"github.com/yaklabco/pgmllint/pkg/pgml"
	"github.com/yaklabco/pgmllint/pkg/source"
)

// inlineCodeOffset is the length of the "[@" that opens inline code.
const inlineCodeOffset = 2

// InlineBracesPlugin checks brace balance inside [@ ... @] code.
type InlineBracesPlugin struct {
	lint.BasePlugin
}

// NewInlineBracesPlugin creates the pgml_inline_braces plugin.
func NewInlineBracesPlugin() *InlineBracesPlugin {
	return &InlineBracesPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_inline_braces",
			"PGML inline brace balance",
			"Perl code inside [@ ... @] must have balanced curly braces",
		),
	}
}

// Run scans every inline span of every PGML region.
func (p *InlineBracesPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, scan := range pc.RegionScans() {
		body := scan.Region.Text(pc.Text)
		for _, span := range scan.Inline {
			code := pgml.InlineCode(body, span)
			base := scan.Region.Start + span.Start + inlineCodeOffset
			if issue, ok := checkInlineBraces(code, base, pc.Index); ok {
				issues = append(issues, issue)
			}
		}
	}
	return issues, nil
}

// checkInlineBraces reports the first stray '}' or, failing that, the last
// unclosed '{' of code. Literals and '#' comments are skipped.
func checkInlineBraces(code string, base int, idx *source.Index) (diag.Issue, bool) {
	sc := lexer.Scanner{Comments: true}
	var stack []int
	for i := 0; i < len(code); i++ {
		if sc.Step(code[i]) != lexer.Code {
			continue
		}
		switch code[i] {
		case '{':
			stack = append(stack, i)
		case '}':
			if len(stack) == 0 {
				return diag.Error("PGML inline code has unbalanced '}' brace").At(idx.Position(base + i)), true
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return diag.Error("PGML inline code has unclosed '{' brace").At(idx.Position(base + stack[len(stack)-1])), true
	}
	return diag.Issue{}, false
}

// UnderscoreEmphasisPlugin checks that '_' emphasis markers pair up within
// each PGML paragraph.
type UnderscoreEmphasisPlugin struct {
	lint.BasePlugin
}

// NewUnderscoreEmphasisPlugin creates the pgml_underscore_emphasis plugin.
func NewUnderscoreEmphasisPlugin() *UnderscoreEmphasisPlugin {
	return &UnderscoreEmphasisPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_underscore_emphasis",
			"PGML underscore emphasis balance",
			"Underscore emphasis markers must be closed before the paragraph ends",
		),
	}
}

// Run checks every PGML region paragraph by paragraph. Markers inside code,
// blank, math and verbatim spans, escaped markers and intra-word
// underscores such as in my_var do not count.
func (p *UnderscoreEmphasisPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, scan := range pc.RegionScans() {
		body := scan.Region.Text(pc.Text)
		mask := scan.Mask()

		var markers []int
		flush := func() {
			if len(markers)%2 == 1 {
				open := scan.Region.Start + markers[len(markers)-1]
				issues = append(issues, diag.Warning("PGML underscore emphasis not closed before paragraph ends").
					At(pc.Index.Position(open)))
			}
			markers = markers[:0]
		}

		pos := 0
		for _, line := range strings.SplitAfter(body, "\n") {
			if strings.TrimSpace(line) == "" {
				flush()
				pos += len(line)
				continue
			}
			for i := 0; i < len(line); i++ {
				if line[i] != '_' || mask[pos+i] {
					continue
				}
				if i > 0 && line[i-1] == '\\' {
					continue
				}
				if i > 0 && i+1 < len(line) && isWordByte(line[i-1]) && isWordByte(line[i+1]) {
					continue
				}
				markers = append(markers, pos+i)
			}
			pos += len(line)
		}
		flush()
	}
	return issues, nil
}

// isWordByte reports letters, digits, '_' and bytes of multibyte runes.
func isWordByte(ch byte) bool {
	return ch == '_' || ch >= 0x80 ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}
