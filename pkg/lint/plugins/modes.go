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
	modesCallRx   = regexp.MustCompile(`\bMODES\s*\(`)
	modesAssignRx = regexp.MustCompile(`\$([A-Za-z_]\w*)\s*=\s*MODES\s*\([^)]*\bHTML\s*=>`)
	modesKeyRx    = regexp.MustCompile(`\b(HTML|TeX)\s*=>\s*`)
	htmlMarkupRx  = regexp.MustCompile(`<\s*/?\s*[a-zA-Z][^>]*>`)

	quoteClosers = map[byte]byte{'{': '}', '(': ')', '[': ']', '<': '>'}
)

// modesEntry is one "KEY => value" pair of a MODES() call.
type modesEntry struct {
	key     string
	offset  int // absolute offset of the key
	value   string
	literal bool // value is a closed string literal
	empty   bool // nothing follows "=>"
}

// modesEntries parses the arguments of every MODES() call in the stripped
// text.
func modesEntries(text string) []modesEntry {
	var out []modesEntry
	for _, loc := range modesCallRx.FindAllStringIndex(text, -1) {
		open := loc[1] - 1
		end := lexer.MatchClose(text, open, false)
		if end < 0 {
			continue
		}
		payload := text[open+1 : end]
		classes := lexer.Classify(payload, false)
		for _, m := range modesKeyRx.FindAllStringSubmatchIndex(payload, -1) {
			if classes[m[0]] != lexer.Code {
				continue
			}
			entry := modesEntry{key: payload[m[2]:m[3]], offset: open + 1 + m[0]}
			if m[1] >= len(payload) {
				entry.empty = true
			} else {
				entry.value, entry.literal = parseLiteral(payload, m[1])
			}
			out = append(out, entry)
		}
	}
	return out
}

// parseLiteral reads the '...', "...", q{...} or qq{...} literal at start
// and returns its contents.
func parseLiteral(s string, start int) (string, bool) {
	switch s[start] {
	case '\'', '"':
		quote := s[start]
		for i := start + 1; i < len(s); i++ {
			switch s[i] {
			case '\\':
				i++
			case quote:
				return s[start+1 : i], true
			}
		}
		return "", false
	case 'q':
		open := start + 1
		if strings.HasPrefix(s[start:], "qq") {
			open++
		}
		if open >= len(s) || isWordByte(s[open]) || s[open] == ' ' {
			return "", false
		}
		closer, ok := quoteClosers[s[open]]
		if !ok {
			closer = s[open]
		}
		for i := open + 1; i < len(s); i++ {
			switch s[i] {
			case '\\':
				i++
			case closer:
				return s[open+1 : i], true
			}
		}
	}
	return "", false
}

// ModesHTMLEscapePlugin warns when a MODES() HTML variable is shown with
// [$var], which escapes the HTML.
type ModesHTMLEscapePlugin struct {
	lint.BasePlugin
}

// NewModesHTMLEscapePlugin creates the pgml_modes_html_escape plugin.
func NewModesHTMLEscapePlugin() *ModesHTMLEscapePlugin {
	return &ModesHTMLEscapePlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_modes_html_escape",
			"MODES HTML escaped in PGML",
			"Variables assigned from MODES(HTML => ...) lose their HTML when shown with [$var]",
		),
	}
}

// Run reports each plain [$var] use of a MODES() variable outside inline
// code. Starred uses pass HTML through and are fine.
func (p *ModesHTMLEscapePlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	htmlVars := make(map[string]bool)
	for _, m := range modesAssignRx.FindAllStringSubmatch(pc.Stripped, -1) {
		htmlVars[m[1]] = true
	}
	if len(htmlVars) == 0 {
		return nil, nil
	}

	var issues []diag.Issue
	for _, scan := range pc.RegionScans() {
		body := scan.Region.Text(pc.Text)
		for _, loc := range regionMatches(varInterpRx, body, source.Mask(len(body), scan.Inline)) {
			name := body[loc[2]:loc[3]]
			if !htmlVars[name] || loc[4] >= 0 {
				continue
			}
			msg := fmt.Sprintf("Variable $%s contains HTML from MODES() but is used in [$var] interpolation which escapes HTML; "+
				"use [@ $%s @]* instead to render HTML", name, name)
			issues = append(issues, diag.Warning(msg).At(pc.Index.Position(scan.Region.Start+loc[0])))
		}
	}
	return issues, nil
}

// ModesHTMLPlainTextPlugin warns about MODES() calls whose HTML branch has
// no markup at all.
type ModesHTMLPlainTextPlugin struct {
	lint.BasePlugin
}

// NewModesHTMLPlainTextPlugin creates the pgml_modes_html_plain_text plugin.
func NewModesHTMLPlainTextPlugin() *ModesHTMLPlainTextPlugin {
	return &ModesHTMLPlainTextPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_modes_html_plain_text",
			"MODES HTML payloads without tags",
			"A MODES() call whose HTML payload is plain text can be a plain string",
		),
	}
}

// Run checks literal HTML payloads only.
func (p *ModesHTMLPlainTextPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, e := range modesEntries(pc.Stripped) {
		if e.key != "HTML" || !e.literal || htmlMarkupRx.MatchString(e.value) {
			continue
		}
		issues = append(issues, diag.Warning("MODES() HTML payload has no HTML tags; replace with plain string instead of MODES()").
			AtLine(pc.Index.LineOf(e.offset)))
	}
	return issues, nil
}

// ModesTeXPayloadPlugin warns about MODES() calls with a TeX branch.
type ModesTeXPayloadPlugin struct {
	lint.BasePlugin
}

// NewModesTeXPayloadPlugin creates the pgml_modes_tex_payload plugin.
func NewModesTeXPayloadPlugin() *ModesTeXPayloadPlugin {
	return &ModesTeXPayloadPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_modes_tex_payload",
			"MODES TeX payloads should be empty",
			"PGML output wants MODES(TeX => '', HTML => ...)",
		),
	}
}

// Run treats any TeX value other than an empty or blank literal as a
// payload.
func (p *ModesTeXPayloadPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, e := range modesEntries(pc.Stripped) {
		if e.key != "TeX" || e.empty || (e.literal && strings.TrimSpace(e.value) == "") {
			continue
		}
		issues = append(issues, diag.Warning("MODES() TeX payload is non-empty; use TeX => '' for PGML output").
			AtLine(pc.Index.LineOf(e.offset)))
	}
	return issues, nil
}

// ModesInInlinePlugin warns about MODES() inside [@ @] code, where it
// evaluates to 1.
type ModesInInlinePlugin struct {
	lint.BasePlugin
}

// NewModesInInlinePlugin creates the pgml_modes_in_inline plugin.
func NewModesInInlinePlugin() *ModesInInlinePlugin {
	return &ModesInInlinePlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_modes_in_inline",
			"MODES inside inline eval blocks",
			"MODES() returns 1 inside [@ @] and emits nothing",
		),
	}
}

// Run reports each inline span calling MODES() once, at the span.
func (p *ModesInInlinePlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, scan := range pc.RegionScans() {
		body := scan.Region.Text(pc.Text)
		for _, span := range scan.Inline {
			if !modesCallRx.MatchString(pgml.InlineCode(body, span)) {
				continue
			}
			issues = append(issues, diag.Warning("MODES() used inside [@ @] block; MODES returns 1 in eval context and will not emit HTML").
				At(pc.Index.Position(scan.Region.Start+span.Start)))
		}
	}
	return issues, nil
}
