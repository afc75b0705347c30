package plugins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/pgmllint/pkg/lint/plugins"
)

func TestSeedStabilityPlugin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
		lines []int
	}{
		{
			name:  "perl rand",
			input: "$x = rand(10);\n",
			want:  []string{"rand() may bypass PG seeding; use random() or list_random()."},
			lines: []int{1},
		},
		{
			name:  "srand is not rand",
			input: "srand(5);\n",
			want:  []string{"srand() overrides PG seeding; avoid for stable seeds."},
			lines: []int{1},
		},
		{
			name:  "clock",
			input: "$a = 1;\n@t = localtime(time());\n",
			want: []string{
				"time() makes values depend on the clock; avoid for stable seeds.",
				"localtime() makes values depend on the clock; avoid for stable seeds.",
			},
			lines: []int{2, 2},
		},
		{name: "PG random", input: "$x = random(1, 10, 1);\n"},
		{name: "method call", input: "$x = $gen->rand(3);\n"},
		{name: "package call", input: "$x = Foo::rand(3);\n"},
		{name: "inside string", input: "$s = 'rand(3)';\n"},
		{name: "inside comment", input: "$x = 1; # rand(3)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			issues := runPlugin(t, plugins.NewSeedStabilityPlugin(), tt.input)
			assert.Equal(t, tt.want, nilIfEmpty(messages(issues)))
			if tt.lines != nil {
				assert.Equal(t, tt.lines, lines(issues))
			}
		})
	}
}

func TestSeedStabilityPlugin_Column(t *testing.T) {
	t.Parallel()

	issues := runPlugin(t, plugins.NewSeedStabilityPlugin(), "# header\n$x = rand(10);\n")
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, 6, issues[0].Column)
}

func TestSeedVariationPlugin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "fixed values",
			input: "DOCUMENT();\n$x = 5;\nENDDOCUMENT();\n",
			want:  []string{"No seed-based randomization detected; answer may not vary with seed"},
		},
		{
			name:  "random only in a string",
			input: "DOCUMENT();\n$s = 'random(1, 2, 1)';\nENDDOCUMENT();\n",
			want:  []string{"No seed-based randomization detected; answer may not vary with seed"},
		},
		{name: "random", input: "DOCUMENT();\n$x = random(1, 9, 1);\nENDDOCUMENT();\n"},
		{name: "list_random", input: "DOCUMENT();\n$x = list_random(2, 3);\nENDDOCUMENT();\n"},
		{name: "problem seed", input: "DOCUMENT();\n$x = $problemSeed % 7;\nENDDOCUMENT();\n"},
		{name: "not a problem file", input: "sub helper { return 1; }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			issues := runPlugin(t, plugins.NewSeedVariationPlugin(), tt.input)
			assert.Equal(t, tt.want, nilIfEmpty(messages(issues)))
			if tt.want != nil {
				assert.Equal(t, []int{1}, lines(issues))
			}
		})
	}
}
