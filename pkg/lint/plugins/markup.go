package plugins

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lexer"
	"github.com/yaklabco/pgmllint/pkg/lint"
	"github.com/yaklabco/pgmllint/pkg/pgml"
	"github.com/yaklabco/pgmllint/pkg/source"
)

//nolint:gochecknoglobals // Compiled once.
var (
	labelDotRx     = regexp.MustCompile(`chr\s*\(\s*65\s*\+\s*\$[A-Za-z_]\w*\s*\)\s*\.\s*(?:'\.\s*'|"\.\s*")`)
	texColorRx     = regexp.MustCompile(`\\(?:textcolor|color)\b`)
	perlLiteralRx  = regexp.MustCompile(`'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"`)
	texPayloadRx   = regexp.MustCompile(`[^\s,'"\[\]]`)
	blockTokenRx   = regexp.MustCompile(`^\s*\[\s*([A-Za-z]+)\s*\]\s*$`)
	wrapperTokens  = []string{"[<", "]{[", ">]{", "}{["}
	inlineSnippets = []struct{ snippet, message string }{
		{"[<", "PGML tag wrapper syntax found inside [@ @] block"},
		{">]{", "PGML tag wrapper syntax found inside [@ @] block"},
		{"}{[", "PGML tag wrapper syntax found inside [@ @] block"},
		{"BEGIN_PGML", "Nested BEGIN_PGML found inside [@ @] block"},
		{"END_PGML", "Nested END_PGML found inside [@ @] block"},
	}
	unknownBlockTokens = map[string]bool{"balance": true}
)

// LabelDotPlugin warns about answer labels built as "A. ", which PGML reads
// as an ordered list item.
type LabelDotPlugin struct {
	lint.BasePlugin
}

// NewLabelDotPlugin creates the pgml_label_dot plugin.
func NewLabelDotPlugin() *LabelDotPlugin {
	return &LabelDotPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_label_dot",
			"PGML label dot list trap",
			"Labels like chr(65 + $i) . '. ' start a PGML list when interpolated",
		),
	}
}

// Run checks each code line.
func (p *LabelDotPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for i, raw := range strings.Split(pc.Stripped, "\n") {
		if labelDotRx.MatchString(codeLine(raw)) {
			issues = append(issues, diag.Warning("Label built as A. (chr(65 + $i) . '. ') can trigger PGML list parsing; use '*A.*' or 'A)' instead").
				AtLine(i+1))
		}
	}
	return issues, nil
}

// TeXColorPlugin warns about \color and \textcolor.
type TeXColorPlugin struct {
	lint.BasePlugin
}

// NewTeXColorPlugin creates the pgml_tex_color plugin.
func NewTeXColorPlugin() *TeXColorPlugin {
	return &TeXColorPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_tex_color",
			"TeX color commands",
			"MathJax and hardcopy disagree on \\color; PGML tag wrappers color text reliably",
		),
	}
}

// Run reports each affected line once.
func (p *TeXColorPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for i, line := range strings.Split(pc.Stripped, "\n") {
		if texColorRx.MatchString(line) {
			issues = append(issues, diag.Warning(`TeX color commands (\color, \textcolor) do not render reliably in PGML; use PGML tag wrappers or HTML spans instead`).
				AtLine(i+1))
		}
	}
	return issues, nil
}

// StyleStringQuotesPlugin catches PGML style wrappers inside single-quoted
// Perl strings whose payload carries a bare single quote, which ends the
// string early.
type StyleStringQuotesPlugin struct {
	lint.BasePlugin
}

// NewStyleStringQuotesPlugin creates the pgml_style_string_quotes plugin.
func NewStyleStringQuotesPlugin() *StyleStringQuotesPlugin {
	return &StyleStringQuotesPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_style_string_quotes",
			"PGML style strings with unescaped quotes",
			"A [<label>]{['span', style => '...']} wrapper inside '...' must escape its quotes or use q{...}",
		),
	}
}

// Run follows Perl literals across lines through the stripped text. Block
// bodies are prose, not Perl, and reset the scan.
func (p *StyleStringQuotesPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	text := pc.Stripped
	blocks := make([]source.Span, 0, len(pc.BlockRegions))
	for _, r := range pc.BlockRegions {
		blocks = append(blocks, source.Span{Start: r.Start, End: r.End})
	}
	inBlockBody := source.Mask(len(text), blocks)

	var issues []diag.Issue
	sc := lexer.Scanner{Comments: true, Multiline: true}
	for i := 0; i < len(text); i++ {
		if inBlockBody[i] {
			sc.Reset()
			continue
		}
		if sc.State() == lexer.StateSingleQuote && strings.HasPrefix(text[i:], "[<") {
			if payloads, ok := stylePayloads(text, i); ok && anyBareQuote(payloads) {
				issues = append(issues, diag.Error(`PGML style tag inside single-quoted string contains unescaped single quotes; escape as \' or use double quotes or q{...}`).
					At(pc.Index.Position(i)))
			}
		}
		sc.Step(text[i])
	}
	return issues, nil
}

// stylePayloads returns the {[...]} payloads following the [<label>] at
// start, all on one line.
func stylePayloads(text string, start int) ([]string, bool) {
	lineEnd := strings.IndexByte(text[start:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text)
	} else {
		lineEnd += start
	}
	line := text[start:lineEnd]

	labelEnd := strings.Index(line, ">]")
	if labelEnd < 0 {
		return nil, false
	}
	var payloads []string
	for cursor := labelEnd + 2; strings.HasPrefix(line[cursor:], "{["); {
		end := strings.Index(line[cursor+2:], "]}")
		if end < 0 {
			return nil, false
		}
		payloads = append(payloads, line[cursor+2:cursor+2+end])
		cursor += end + 4
	}
	return payloads, len(payloads) > 0
}

// anyBareQuote reports whether a payload holds a ' not preceded by '\'.
func anyBareQuote(payloads []string) bool {
	for _, payload := range payloads {
		for j := 0; j < len(payload); j++ {
			if payload[j] == '\'' && (j == 0 || payload[j-1] != '\\') {
				return true
			}
		}
	}
	return false
}

// WrapperInStringPlugin warns about PGML tag wrapper syntax in Perl
// literals, which PGML never parses.
type WrapperInStringPlugin struct {
	lint.BasePlugin
}

// NewWrapperInStringPlugin creates the pgml_pgml_wrapper_in_string plugin.
func NewWrapperInStringPlugin() *WrapperInStringPlugin {
	return &WrapperInStringPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_pgml_wrapper_in_string",
			"PGML tag wrapper in Perl strings",
			"PGML parses the problem text once, so [<...>]{...} inside a Perl string prints literally",
		),
	}
}

// Run reports each literal once. Lines inside blocks are prose and are
// skipped.
func (p *WrapperInStringPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for i, raw := range strings.Split(pc.Stripped, "\n") {
		if inBlock(pc.Index.LineStart(i+1), pc.BlockRegions) {
			continue
		}
		for _, literal := range perlLiteralRx.FindAllString(codeLine(raw), -1) {
			for _, token := range wrapperTokens {
				if strings.Contains(literal, token) {
					issues = append(issues, diag.Warning("PGML tag wrapper syntax found inside a Perl string; PGML parses once and will not re-parse strings").
						AtLine(i+1))
					break
				}
			}
		}
	}
	return issues, nil
}

// TagWrapperTeXPlugin warns when a PGML tag wrapper carries a TeX payload.
type TagWrapperTeXPlugin struct {
	lint.BasePlugin
}

// NewTagWrapperTeXPlugin creates the pgml_tag_wrapper_tex plugin.
func NewTagWrapperTeXPlugin() *TagWrapperTeXPlugin {
	return &TagWrapperTeXPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_tag_wrapper_tex",
			"PGML tag wrappers should avoid TeX payloads",
			"The second payload of [<text>]{[html]}{[tex]} should stay empty unless hardcopy needs it",
		),
	}
}

// Run checks each wrapper outside inline code.
func (p *TagWrapperTeXPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, scan := range pc.RegionScans() {
		body := scan.Region.Text(pc.Text)
		mask := source.Mask(len(body), scan.Inline)
		offset := 0
		for _, line := range strings.SplitAfter(body, "\n") {
			for from := 0; ; {
				rel := strings.Index(line[from:], "[<")
				if rel < 0 {
					break
				}
				open := from + rel
				from = open + 2
				if mask[offset+open] {
					continue
				}
				payloads := wrapperPayloads(line, open)
				if len(payloads) >= 2 && texPayloadRx.MatchString(payloads[1]) {
					issues = append(issues, diag.Warning("PGML tag wrapper has non-empty TeX payload; use an empty TeX payload unless needed").
						At(pc.Index.Position(scan.Region.Start+offset+open)))
				}
			}
			offset += len(line)
		}
	}
	return issues, nil
}

// wrapperPayloads returns the contents of the {...} groups that follow the
// [<label>] at open on line.
func wrapperPayloads(line string, open int) []string {
	labelEnd := strings.Index(line[open+2:], ">]")
	if labelEnd < 0 {
		return nil
	}
	var payloads []string
	cursor := open + 2 + labelEnd + 2
	for {
		for cursor < len(line) && (line[cursor] == ' ' || line[cursor] == '\t') {
			cursor++
		}
		if cursor >= len(line) || line[cursor] != '{' {
			return payloads
		}
		end := lexer.MatchClose(line, cursor, false)
		if end < 0 {
			return nil
		}
		payloads = append(payloads, line[cursor+1:end])
		cursor = end + 1
	}
}

// InlinePGMLSyntaxPlugin reports PGML structure emitted from [@ @] code.
type InlinePGMLSyntaxPlugin struct {
	lint.BasePlugin
}

// NewInlinePGMLSyntaxPlugin creates the pgml_inline_pgml_syntax plugin.
func NewInlinePGMLSyntaxPlugin() *InlinePGMLSyntaxPlugin {
	return &InlinePGMLSyntaxPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_inline_pgml_syntax",
			"PGML syntax inside inline code",
			"Output of [@ @] is not parsed as PGML, so wrappers and nested blocks print literally",
		),
	}
}

// Run reports the first occurrence of each snippet per span.
func (p *InlinePGMLSyntaxPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, scan := range pc.RegionScans() {
		body := scan.Region.Text(pc.Text)
		for _, span := range scan.Inline {
			code := pgml.InlineCode(body, span)
			base := scan.Region.Start + span.Start + inlineCodeOffset
			for _, s := range inlineSnippets {
				if idx := strings.Index(code, s.snippet); idx >= 0 {
					issues = append(issues, diag.Error(s.message).At(pc.Index.Position(base+idx)))
				}
			}
		}
	}
	return issues, nil
}

// ParseHazardsPlugin warns about PGML the renderer's parser trips over.
type ParseHazardsPlugin struct {
	lint.BasePlugin
}

// NewParseHazardsPlugin creates the pgml_pgml_parse_hazards plugin.
func NewParseHazardsPlugin() *ParseHazardsPlugin {
	return &ParseHazardsPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_pgml_parse_hazards",
			"PGML parse hazards",
			"Unknown [token] block lines and unbalanced parentheses in [@ @] code break PGML parsing",
		),
	}
}

// Run checks block token lines and the parentheses of each inline span.
func (p *ParseHazardsPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, scan := range pc.RegionScans() {
		body := scan.Region.Text(pc.Text)

		offset := 0
		for _, line := range strings.SplitAfter(body, "\n") {
			if m := blockTokenRx.FindStringSubmatch(line); m != nil {
				if token := strings.ToLower(m[1]); unknownBlockTokens[token] {
					msg := fmt.Sprintf("Unknown PGML block token [%s] may cause parser errors", token)
					issues = append(issues, diag.Warning(msg).AtLine(pc.Index.LineOf(scan.Region.Start+offset)))
				}
			}
			offset += len(line)
		}

		for _, span := range scan.Inline {
			if parenBalance(pgml.InlineCode(body, span)) != 0 {
				issues = append(issues, diag.Warning("PGML inline code has unbalanced parentheses").
					At(pc.Index.Position(scan.Region.Start+span.Start)))
			}
		}
	}
	return issues, nil
}

// parenBalance counts '(' minus ')' outside literals.
func parenBalance(code string) int {
	balance := 0
	for i, c := range lexer.Classify(code, false) {
		if c != lexer.Code {
			continue
		}
		switch code[i] {
		case '(':
			balance++
		case ')':
			balance--
		}
	}
	return balance
}
