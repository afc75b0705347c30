package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/pgmllint/pkg/parser"
	"github.com/yaklabco/pgmllint/pkg/source"
)

func TestIterCalls_QualifiedName(t *testing.T) {
	t.Parallel()

	text := "PGML::Format(1, 2);\n"

	calls := parser.IterCalls(text, []string{"PGML::Format"}, source.BuildIndex(text))

	require.Len(t, calls, 1)
	assert.Equal(t, "PGML::Format", calls[0].Name)
	assert.Equal(t, "1, 2", calls[0].Args)
	assert.Equal(t, 1, calls[0].Line)
}

func TestIterCalls_DropsUnbalanced(t *testing.T) {
	t.Parallel()

	assert.Empty(t, parser.IterCalls("ANS($a->cmp(\n", []string{"ANS"}, nil))
}

func TestIterCalls(t *testing.T) {
	t.Parallel()

	text := "$s = 'ANS(1)';\n" +
		"# ANS(2)\n" +
		"ANS (\n  $a->cmp(tolerance => 0.01),\n);\n" +
		"myANS(3);\n" +
		"$ANS(4);\n" +
		"ANS($b->cmp(\")\"));\n"

	calls := parser.IterCalls(text, []string{"ANS"}, nil)

	require.Len(t, calls, 2)
	assert.Equal(t, 3, calls[0].Line)
	assert.Equal(t, "\n  $a->cmp(tolerance => 0.01),\n", calls[0].Args)
	assert.Equal(t, 8, calls[1].Line)
	assert.Equal(t, `$b->cmp(")")`, calls[1].Args)
}

func TestIterCalls_SortsAcrossNames(t *testing.T) {
	t.Parallel()

	text := "B(1); A(2); B(3);"

	calls := parser.IterCalls(text, []string{"A", "B"}, nil)

	got := make([]string, 0, len(calls))
	for _, c := range calls {
		got = append(got, c.Name+c.Args)
	}
	assert.Equal(t, []string{"B1", "A2", "B3"}, got)
}

func TestSplitTopLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args string
		want []string
	}{
		{args: "1, 2", want: []string{"1", "2"}},
		{args: `"a,b", f(1, 2), [3, 4]`, want: []string{`"a,b"`, "f(1, 2)", "[3, 4]"}},
		{args: "'x.pl',\n  'y.pl',\n", want: []string{"'x.pl'", "'y.pl'"}},
		{args: "", want: nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parser.SplitTopLevel(tt.args), "args %q", tt.args)
	}
}
