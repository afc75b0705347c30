package plugins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lint"
	"github.com/yaklabco/pgmllint/pkg/lint/plugins"
)

func TestHTMLPlugins(t *testing.T) {
	t.Parallel()

	const div = "HTML <div> tag found in PGML content; avoid HTML divs because they often render incorrectly"

	tests := []struct {
		name   string
		plugin func() lint.Plugin
		input  string
		want   []string
		lines  []int
	}{
		{
			name:   "div in block",
			plugin: asPlugin(plugins.NewHTMLDivPlugin),
			input:  pgmlBlock("<div>x</div>"),
			want:   []string{div, div},
			lines:  []int{2, 2},
		},
		{
			name:   "div emitted from inline code",
			plugin: asPlugin(plugins.NewHTMLDivPlugin),
			input:  pgmlBlock("[@ '<div>' @]*"),
			want:   []string{div},
			lines:  []int{2},
		},
		{
			name:   "escaped div",
			plugin: asPlugin(plugins.NewHTMLDivPlugin),
			input:  pgmlBlock("&lt;div&gt;"),
			want:   []string{"Escaped HTML <div> tag found in PGML output; this indicates HTML is being escaped instead of rendered"},
			lines:  []int{2},
		},
		{
			name:   "div outside PGML",
			plugin: asPlugin(plugins.NewHTMLDivPlugin),
			input:  "$x = '<div>';\n",
		},
		{
			name:   "table tags any case",
			plugin: asPlugin(plugins.NewHTMLForbiddenTagsPlugin),
			input:  pgmlBlock("<TD>a</td>"),
			want: []string{
				"HTML <td> tag found in PGML content; use DataTable() or LayoutTable() from niceTables.pl",
				"HTML <td> tag found in PGML content; use DataTable() or LayoutTable() from niceTables.pl",
			},
			lines: []int{2, 2},
		},
		{
			name:   "text tags and entities",
			plugin: asPlugin(plugins.NewHTMLInTextPlugin),
			input:  pgmlBlock("Use <b>bold</b> &amp; [@ '<b>' @]*"),
			want: []string{
				"Raw HTML <b> tag in PGML text will be stripped or mangled; use *bold* for bold text",
				"HTML entity '&amp;' in PGML text may be mangled; use Unicode characters or LaTeX instead",
			},
			lines: []int{2, 2},
		},
		{
			name:   "unknown text tag",
			plugin: asPlugin(plugins.NewHTMLInTextPlugin),
			input:  pgmlBlock("a <blink>b"),
		},
		{
			name:   "span variable without passthrough",
			plugin: asPlugin(plugins.NewHTMLVarPassthroughPlugin),
			input:  "$h = '<span>x</span>';\n" + pgmlBlock("Value [$h]"),
			want:   []string{"Variable $h contains HTML but is output without raw passthrough; use [$h]* to avoid escaping"},
			lines:  []int{1},
		},
		{
			name:   "starred passthrough",
			plugin: asPlugin(plugins.NewHTMLVarPassthroughPlugin),
			input:  "$h = '<span>x</span>';\n" + pgmlBlock("Value [$h]*"),
		},
		{
			name:   "passthrough through inline code",
			plugin: asPlugin(plugins.NewHTMLVarPassthroughPlugin),
			input:  "$h = '<span>x</span>';\n" + pgmlBlock("Value [$h] and [@ $h @]*"),
		},
		{
			name:   "span variable never shown",
			plugin: asPlugin(plugins.NewSpanInterpolationPlugin),
			input:  "$h = '<span>x</span>';\n" + pgmlBlock("Nothing here"),
			want:   []string{"Variable $h contains <span> HTML but is not interpolated with [$h] in PGML; HTML may be escaped"},
			lines:  []int{1},
		},
		{
			name:   "span variable shown",
			plugin: asPlugin(plugins.NewSpanInterpolationPlugin),
			input:  "$h = '<span>x</span>';\n" + pgmlBlock("[$h]*"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			issues := runPlugin(t, tt.plugin(), tt.input)
			assert.Equal(t, tt.want, nilIfEmpty(messages(issues)))
			if tt.lines != nil {
				assert.Equal(t, tt.lines, lines(issues))
			}
		})
	}
}

func TestHTMLPolicyPlugin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		want     []string
		severity diag.Severity
	}{
		{
			name:     "iframe",
			input:    "$s = '<iframe src=\"x\">';\n",
			want:     []string{"HTML <iframe> tag detected; avoid raw HTML that can be sanitized"},
			severity: diag.SeverityError,
		},
		{
			name:     "img",
			input:    "$s = '<img src=\"a.png\">';\n",
			want:     []string{"HTML <img> tag detected; avoid raw HTML that can be sanitized"},
			severity: diag.SeverityWarning,
		},
		{
			name:  "inline style",
			input: "$css = '<style>';\n",
			want: []string{
				"Inline <style> tag found outside HEADER_TEXT; may be sanitized",
				"HTML <style> tag detected; avoid raw HTML that can be sanitized",
			},
			severity: diag.SeverityWarning,
		},
		{
			name:     "table outside PGML",
			input:    "$t = '<table>';\n",
			want:     []string{"HTML <table> tag detected; avoid raw HTML that can be sanitized"},
			severity: diag.SeverityError,
		},
		{
			name:  "table inside PGML",
			input: pgmlBlock("<table>"),
		},
		{
			name:     "wrapper tag",
			input:    "$x = 1;\n" + pgmlBlock("[<x>]{['script']}"),
			want:     []string{"PGML tag wrapper uses <script> which is disallowed or sanitized in this install"},
			severity: diag.SeverityError,
		},
		{
			name:     "escaped tag",
			input:    "$s = '&lt;table&gt;';\n",
			want:     []string{"Escaped HTML tag &lt;table&gt; detected; output may be escaping HTML"},
			severity: diag.SeverityError,
		},
		{
			name:  "harmless tag",
			input: "$s = '<b>x</b>';\n",
		},
		{
			name:  "tag in comment",
			input: "$x = 1; # <script>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			issues := runPlugin(t, plugins.NewHTMLPolicyPlugin(), tt.input)
			assert.Equal(t, tt.want, nilIfEmpty(messages(issues)))
			if tt.want != nil {
				require.NotEmpty(t, issues)
				assert.Equal(t, tt.severity, issues[len(issues)-1].Severity)
			}
		})
	}
}
