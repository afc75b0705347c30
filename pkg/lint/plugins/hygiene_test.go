package plugins_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/pgmllint/pkg/lint"
	"github.com/yaklabco/pgmllint/pkg/lint/plugins"
)

func TestNBSPPlugin(t *testing.T) {
	t.Parallel()

	issues := runPlugin(t, plugins.NewNBSPPlugin(), "a\u00a0b c\nok\n\u202f\n# x\u00a0y\n")
	assert.Equal(t, []int{1, 3}, lines(issues))
	assert.Equal(t, 2, issues[0].Column)
}

func TestLineLengthPlugin(t *testing.T) {
	t.Parallel()

	lineOpts := func(opts map[string]any) lint.Options {
		return lint.Options{PluginOptions: map[string]map[string]any{"pgml_line_length": opts}}
	}

	tests := []struct {
		name  string
		input string
		opts  lint.Options
		want  []string
	}{
		{name: "short", input: "short line\n"},
		{name: "exactly max", input: strings.Repeat("a", 200) + "\n"},
		{
			name:  "soft limit",
			input: strings.Repeat("a ", 110) + "\n",
			want:  []string{"Line length 220 exceeds 200 characters"},
		},
		{
			name:  "hard limit without whitespace",
			input: "x\n" + strings.Repeat("x", 450) + "\n",
			want:  []string{"Line length 450 exceeds 400 characters", "Long line without whitespace suggests embedded blob payload"},
		},
		{
			name:  "comment excluded",
			input: "$x = 1; # " + strings.Repeat("a", 300) + "\n",
		},
		{
			name:  "counts characters not bytes",
			input: strings.Repeat("\u00e9", 150) + "\n",
		},
		{
			name:  "custom max",
			input: strings.Repeat("ab ", 20) + "\n",
			opts:  lineOpts(map[string]any{"max": 50}),
			want:  []string{"Line length 60 exceeds 50 characters"},
		},
		{
			name:  "hard max below max is raised",
			input: strings.Repeat("y", 60) + "\n",
			opts:  lineOpts(map[string]any{"max": 50, "hard_max": 30}),
			want:  []string{"Line length 60 exceeds 50 characters", "Long line without whitespace suggests embedded blob payload"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			issues := runPlugin(t, plugins.NewLineLengthPlugin(), tt.input, tt.opts)
			assert.Equal(t, tt.want, nilIfEmpty(messages(issues)))
		})
	}
}

func TestBlobPayloadsPlugin(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"$img = '" + strings.Repeat("QUJD", 250) + "';",
		"$ggb = 'ggbbase64';",
		"%opts = (data => 'base64');",
		"$plain = 'hello';",
	}, "\n") + "\n"

	issues := runPlugin(t, plugins.NewBlobPayloadsPlugin(), text)
	require.Len(t, issues, 3)
	assert.Equal(t, []int{1, 2, 3}, lines(issues))
	assert.Equal(t, "Base64-like blob payload detected; consider removing embedded data", issues[0].Message)
	assert.Equal(t, "ggbbase64 payload marker detected; avoid embedded applet blobs", issues[1].Message)
	assert.Equal(t, "base64 payload marker detected; avoid embedded blobs", issues[2].Message)
}

func TestMojibakePlugin(t *testing.T) {
	t.Parallel()

	issues := runPlugin(t, plugins.NewMojibakePlugin(), "caf\u00c3\u00a9 \u00c3\u00a8\nok\nx\ufffd\n# \u00c3\u00a9\n")
	assert.Equal(t, []int{1, 3}, lines(issues))
	assert.Equal(t, []string{
		`Possible mojibake sequence "\u00c3" detected; check for UTF-8/Latin-1 encoding mixups`,
		`Possible mojibake sequence "\ufffd" detected; check for UTF-8/Latin-1 encoding mixups`,
	}, messages(issues))
}
