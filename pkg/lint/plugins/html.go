package plugins

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lint"
	"github.com/yaklabco/pgmllint/pkg/pgml"
	"github.com/yaklabco/pgmllint/pkg/source"
)

const tableHint = "use DataTable() or LayoutTable() from niceTables.pl"

//nolint:gochecknoglobals // Compiled once.
var (
	divTagRx        = regexp.MustCompile(`(?i)<\s*/?\s*div\b`)
	escapedDivTagRx = regexp.MustCompile(`(?i)&lt;\s*/?\s*div\b`)
	tableTagRx      = regexp.MustCompile(`(?i)<\s*/?\s*(table|tr|td|th|thead|tbody|tfoot|colgroup|col)\b`)
	textTagRx       = regexp.MustCompile(`<([a-zA-Z]\w*)(?:\s[^>]*)?>|</([a-zA-Z]\w*)>`)
	entityRx        = regexp.MustCompile(`&(?:[a-zA-Z]+|#\d+|#x[0-9a-fA-F]+);`)
	tex2jaxRx       = regexp.MustCompile(`class\s*=\s*["'][^"']*\btex2jax_ignore\b[^"']*["']`)
	anyTagRx        = regexp.MustCompile(`<\s*/?\s*([a-zA-Z][a-zA-Z0-9]*)\b`)
	escapedTagRx    = regexp.MustCompile(`&lt;\s*/?\s*([a-zA-Z][a-zA-Z0-9]*)\b`)
	wrapperTagRx    = regexp.MustCompile(`(?i)\[\s*<[^>]*>\s*\]\s*\{\s*\[\s*['"]([a-zA-Z0-9]+)['"]`)
	htmlAssignRx    = regexp.MustCompile(`(?i)\$([A-Za-z_]\w*)\s*\.?=\s*[^;]*<\s*(?:span|div|sup|sub|br|p|a|img|style|table|tr|td|th)\b`)
	spanAssignRx    = regexp.MustCompile(`(?i)\$([A-Za-z_]\w*)\s*\.?=\s*[^;]*<\s*span\b`)
	varInterpRx     = regexp.MustCompile(`\[\s*\$([A-Za-z_]\w*)\s*\](\*)?`)
	scalarRx        = regexp.MustCompile(`\$([A-Za-z_]\w*)\b`)

	tableTags = map[string]bool{
		"table": true, "tr": true, "td": true, "th": true, "thead": true,
		"tbody": true, "tfoot": true, "colgroup": true, "col": true,
	}

	// Tags PGML text strips or mangles, with the markup to use instead.
	textTagHints = map[string]string{
		"strong": "use *bold* for bold text",
		"b":      "use *bold* for bold text",
		"i":      "use _italic_ for italic text",
		"em":     "use _italic_ for italic text",
		"u":      "use PGML markup or CSS classes",
		"sub":    "use LaTeX subscripts like [` x_2 `] for math",
		"sup":    "use LaTeX superscripts like [` x^2 `] for math",
		"br":     "use blank lines in PGML for line breaks",
		"p":      "use blank lines in PGML for paragraphs",
		"h1":     "use PGML headings",
		"h2":     "use PGML headings",
		"h3":     "use PGML headings",
		"h4":     "use PGML headings",
		"ul":     "use PGML list syntax",
		"ol":     "use PGML list syntax",
		"li":     "use PGML list syntax",
		"font":   "use CSS or PGML markup",
		"center": "use PGML alignment syntax",
		"a":      "use PGML link syntax",
		"span":   "use PGML tag wrappers or MODES(HTML => ...) with [$var]",
		"style":  "move styles to HEADER_TEXT or CSS files",
	}

	// Tags the renderer sanitizes or that break layout, by severity.
	tagPolicy = map[string]diag.Severity{
		"script":   diag.SeverityError,
		"iframe":   diag.SeverityError,
		"object":   diag.SeverityError,
		"embed":    diag.SeverityError,
		"style":    diag.SeverityWarning,
		"table":    diag.SeverityError,
		"tr":       diag.SeverityError,
		"td":       diag.SeverityError,
		"th":       diag.SeverityError,
		"thead":    diag.SeverityError,
		"tbody":    diag.SeverityError,
		"tfoot":    diag.SeverityError,
		"colgroup": diag.SeverityError,
		"col":      diag.SeverityError,
		"form":     diag.SeverityWarning,
		"input":    diag.SeverityWarning,
		"textarea": diag.SeverityWarning,
		"button":   diag.SeverityWarning,
		"img":      diag.SeverityWarning,
		"a":        diag.SeverityWarning,
		"svg":      diag.SeverityWarning,
		"math":     diag.SeverityWarning,
		"canvas":   diag.SeverityWarning,
		"video":    diag.SeverityWarning,
		"audio":    diag.SeverityWarning,
	}
)

// HTMLDivPlugin reports <div> tags in PGML content.
type HTMLDivPlugin struct {
	lint.BasePlugin
}

// NewHTMLDivPlugin creates the pgml_html_div plugin.
func NewHTMLDivPlugin() *HTMLDivPlugin {
	return &HTMLDivPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_html_div",
			"HTML div tags in PGML",
			"HTML divs in PGML render incorrectly, even from inline code",
		),
	}
}

// Run scans whole regions, inline code included.
func (p *HTMLDivPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, region := range pc.PGMLRegions {
		body := region.Text(pc.Text)
		for _, loc := range divTagRx.FindAllStringIndex(body, -1) {
			issues = append(issues, diag.Error("HTML <div> tag found in PGML content; avoid HTML divs because they often render incorrectly").
				At(pc.Index.Position(region.Start+loc[0])))
		}
		for _, loc := range escapedDivTagRx.FindAllStringIndex(body, -1) {
			issues = append(issues, diag.Error("Escaped HTML <div> tag found in PGML output; this indicates HTML is being escaped instead of rendered").
				At(pc.Index.Position(region.Start+loc[0])))
		}
	}
	return issues, nil
}

// HTMLForbiddenTagsPlugin reports HTML table markup in PGML content.
type HTMLForbiddenTagsPlugin struct {
	lint.BasePlugin
}

// NewHTMLForbiddenTagsPlugin creates the pgml_html_forbidden_tags plugin.
func NewHTMLForbiddenTagsPlugin() *HTMLForbiddenTagsPlugin {
	return &HTMLForbiddenTagsPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_html_forbidden_tags",
			"Forbidden HTML tags in PGML",
			"HTML tables in PGML break; niceTables.pl builds tables that render everywhere",
		),
	}
}

// Run reports every table tag, opening or closing.
func (p *HTMLForbiddenTagsPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, region := range pc.PGMLRegions {
		body := region.Text(pc.Text)
		for _, loc := range tableTagRx.FindAllStringSubmatchIndex(body, -1) {
			tag := strings.ToLower(body[loc[2]:loc[3]])
			msg := fmt.Sprintf("HTML <%s> tag found in PGML content; %s", tag, tableHint)
			issues = append(issues, diag.Error(msg).At(pc.Index.Position(region.Start+loc[0])))
		}
	}
	return issues, nil
}

// HTMLInTextPlugin warns about raw HTML tags and entities in PGML prose.
type HTMLInTextPlugin struct {
	lint.BasePlugin
}

// NewHTMLInTextPlugin creates the pgml_html_in_text plugin.
func NewHTMLInTextPlugin() *HTMLInTextPlugin {
	return &HTMLInTextPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_html_in_text",
			"Raw HTML in PGML text",
			"PGML escapes raw HTML in text; use PGML emphasis, lists and math instead",
		),
	}
}

// Run skips inline code, where emitting HTML is legitimate. Closing tags
// are not reported on their own.
func (p *HTMLInTextPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, scan := range pc.RegionScans() {
		body := scan.Region.Text(pc.Text)
		mask := source.Mask(len(body), scan.Inline)
		at := func(rel int) source.Position { return pc.Index.Position(scan.Region.Start + rel) }

		for _, loc := range regionMatches(textTagRx, body, mask) {
			if loc[2] < 0 {
				continue
			}
			tag := strings.ToLower(body[loc[2]:loc[3]])
			hint, ok := textTagHints[tag]
			if !ok {
				continue
			}
			msg := fmt.Sprintf("Raw HTML <%s> tag in PGML text will be stripped or mangled; %s", tag, hint)
			issues = append(issues, diag.Warning(msg).At(at(loc[0])))
		}
		for _, loc := range regionMatches(entityRx, body, mask) {
			msg := fmt.Sprintf("HTML entity '%s' in PGML text may be mangled; use Unicode characters or LaTeX instead", body[loc[0]:loc[1]])
			issues = append(issues, diag.Warning(msg).At(at(loc[0])))
		}
		for _, loc := range regionMatches(tex2jaxRx, body, mask) {
			issues = append(issues, diag.Warning(`HTML class "tex2jax_ignore" found in PGML text; this suppresses MathJax and often indicates rendering problems`).
				At(at(loc[0])))
		}
	}
	return issues, nil
}

// HTMLPolicyPlugin applies the tag policy of the renderer to the whole
// file.
type HTMLPolicyPlugin struct {
	lint.BasePlugin
}

// NewHTMLPolicyPlugin creates the pgml_html_policy plugin.
func NewHTMLPolicyPlugin() *HTMLPolicyPlugin {
	return &HTMLPolicyPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_html_policy",
			"HTML policy checks",
			"Scripts, embeds, forms, media and similar tags are sanitized by the renderer",
		),
	}
}

// Run works on the stripped text. Table tags inside PGML are left to
// pgml_html_forbidden_tags.
func (p *HTMLPolicyPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	text := pc.Stripped

	for i, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "<style") && !strings.Contains(lower, "header_text") {
			issues = append(issues, diag.Warning("Inline <style> tag found outside HEADER_TEXT; may be sanitized").AtLine(i+1))
		}
		mask := stringMask(line)
		for _, loc := range wrapperTagRx.FindAllStringSubmatchIndex(line, -1) {
			if mask[loc[0]] {
				continue
			}
			tag := strings.ToLower(line[loc[2]:loc[3]])
			severity, ok := tagPolicy[tag]
			if !ok {
				continue
			}
			issue := diag.Issue{
				Severity: severity,
				Message:  fmt.Sprintf("PGML tag wrapper uses <%s> which is disallowed or sanitized in this install", tag),
			}
			issues = append(issues, issue.AtLine(i+1))
		}
	}

	for _, loc := range tex2jaxRx.FindAllStringIndex(text, -1) {
		issues = append(issues, diag.Warning(`HTML class "tex2jax_ignore" found; MathJax is suppressed and output may not render`).
			AtLine(pc.Index.LineOf(loc[0])))
	}

	for _, loc := range anyTagRx.FindAllStringSubmatchIndex(text, -1) {
		tag := strings.ToLower(text[loc[2]:loc[3]])
		severity, ok := tagPolicy[tag]
		if !ok {
			continue
		}
		if tableTags[tag] && inBlock(loc[0], pc.PGMLRegions) {
			continue
		}
		issue := diag.Issue{
			Severity: severity,
			Message:  fmt.Sprintf("HTML <%s> tag detected; avoid raw HTML that can be sanitized", tag),
		}
		issues = append(issues, issue.AtLine(pc.Index.LineOf(loc[0])))
	}

	for _, loc := range escapedTagRx.FindAllStringSubmatchIndex(text, -1) {
		tag := strings.ToLower(text[loc[2]:loc[3]])
		if _, ok := tagPolicy[tag]; !ok {
			continue
		}
		msg := fmt.Sprintf("Escaped HTML tag &lt;%s&gt; detected; output may be escaping HTML", tag)
		issues = append(issues, diag.Error(msg).AtLine(pc.Index.LineOf(loc[0])))
	}
	return issues, nil
}

// HTMLVarPassthroughPlugin warns when a variable holding HTML is shown with
// [$var], which escapes it, instead of [$var]*.
type HTMLVarPassthroughPlugin struct {
	lint.BasePlugin
}

// NewHTMLVarPassthroughPlugin creates the pgml_html_var_passthrough plugin.
func NewHTMLVarPassthroughPlugin() *HTMLVarPassthroughPlugin {
	return &HTMLVarPassthroughPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_html_var_passthrough",
			"HTML variables without PGML passthrough",
			"Variables holding HTML must be interpolated as [$var]* so PGML does not escape them",
		),
	}
}

// Run reports each offending variable once, at its first HTML assignment.
// A single starred or inline-code use is enough to clear it.
func (p *HTMLVarPassthroughPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	names, assigned := assignedVars(pc, htmlAssignRx)
	if len(names) == 0 {
		return nil, nil
	}

	raw := make(map[string]bool)
	passed := make(map[string]bool)
	for _, scan := range pc.RegionScans() {
		body := scan.Region.Text(pc.Text)
		for name := range inlineScalars(body, scan) {
			passed[name] = true
		}
		for _, loc := range regionMatches(varInterpRx, body, source.Mask(len(body), scan.Inline)) {
			name := body[loc[2]:loc[3]]
			if loc[4] >= 0 {
				passed[name] = true
			} else {
				raw[name] = true
			}
		}
	}

	var issues []diag.Issue
	for _, name := range names {
		if passed[name] || !raw[name] {
			continue
		}
		msg := fmt.Sprintf("Variable $%s contains HTML but is output without raw passthrough; use [$%s]* to avoid escaping", name, name)
		issues = append(issues, diag.Warning(msg).AtLine(assigned[name]))
	}
	return issues, nil
}

// SpanInterpolationPlugin warns when a variable built from <span> HTML
// never reaches PGML through [$var].
type SpanInterpolationPlugin struct {
	lint.BasePlugin
}

// NewSpanInterpolationPlugin creates the pgml_span_interpolation plugin.
func NewSpanInterpolationPlugin() *SpanInterpolationPlugin {
	return &SpanInterpolationPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_span_interpolation",
			"PGML span interpolation",
			"Variables holding <span> HTML should be shown with [$var] in PGML",
		),
	}
}

// Run reports each span variable with no [$var] use outside inline code.
func (p *SpanInterpolationPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	names, assigned := assignedVars(pc, spanAssignRx)
	if len(names) == 0 {
		return nil, nil
	}

	found := make(map[string]bool)
	for _, scan := range pc.RegionScans() {
		body := scan.Region.Text(pc.Text)
		for _, loc := range regionMatches(varInterpRx, body, source.Mask(len(body), scan.Inline)) {
			found[body[loc[2]:loc[3]]] = true
		}
	}

	var issues []diag.Issue
	for _, name := range names {
		if found[name] {
			continue
		}
		msg := fmt.Sprintf("Variable $%s contains <span> HTML but is not interpolated with [$%s] in PGML; HTML may be escaped", name, name)
		issues = append(issues, diag.Warning(msg).AtLine(assigned[name]))
	}
	return issues, nil
}

// assignedVars returns the variables whose assignment matches rx, in order
// of first assignment, with the line of that assignment.
func assignedVars(pc *lint.PluginContext, rx *regexp.Regexp) ([]string, map[string]int) {
	var names []string
	lines := make(map[string]int)
	for i, raw := range pc.Lines() {
		m := rx.FindStringSubmatch(codeLine(raw))
		if m == nil {
			continue
		}
		if _, seen := lines[m[1]]; !seen {
			names = append(names, m[1])
			lines[m[1]] = i + 1
		}
	}
	return names, lines
}

// inlineScalars returns the scalar names mentioned in the inline code of a
// region.
func inlineScalars(body string, scan *pgml.RegionScan) map[string]struct{} {
	out := make(map[string]struct{})
	for _, span := range scan.Inline {
		for _, m := range scalarRx.FindAllStringSubmatch(pgml.InlineCode(body, span), -1) {
			out[m[1]] = struct{}{}
		}
	}
	return out
}
