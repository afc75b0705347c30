package pgml_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/pgml"
	"github.com/yaklabco/pgmllint/pkg/source"
)

func TestExtractInlineSpans(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantSpans  []string
		wantIssues int
	}{
		{name: "closed", body: "[@ code @]", wantSpans: []string{"[@ code @]"}},
		{name: "unclosed", body: "[@ code", wantIssues: 1},
		{name: "closer in string", body: `[@ "@]" . 1 @]*`, wantSpans: []string{`[@ "@]" . 1 @]`}},
		{name: "brackets inside", body: "[@ $a[0] + {x=>1}->{x} @] tail", wantSpans: []string{"[@ $a[0] + {x=>1}->{x} @]"}},
		{name: "unbalanced brace still spans", body: "[@ { 1 @] x", wantSpans: []string{"[@ { 1 @]"}},
		{name: "escaped", body: `\[@ not code`},
		{name: "two spans", body: "[@ a @] and [@ b @]", wantSpans: []string{"[@ a @]", "[@ b @]"}},
		{name: "closer only in string", body: `[@ "@]"`, wantIssues: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spans, issues := pgml.ExtractInlineSpans(tt.body)

			got := make([]string, 0, len(spans))
			for _, s := range spans {
				got = append(got, tt.body[s.Start:s.End])
			}
			if len(tt.wantSpans) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.wantSpans, got)
			}
			require.Len(t, issues, tt.wantIssues)
			for _, issue := range issues {
				assert.Equal(t, diag.SeverityError, issue.Severity)
				assert.Contains(t, issue.Message, "open")
				assert.Contains(t, issue.Message, "unbalanced")
			}
		})
	}
}

func TestInlineCode(t *testing.T) {
	t.Parallel()

	body := "x [@ 1 + 2 @] y"
	spans, _ := pgml.ExtractInlineSpans(body)
	require.Len(t, spans, 1)
	assert.Equal(t, " 1 + 2 ", pgml.InlineCode(body, spans[0]))
}

func TestScanBlanks(t *testing.T) {
	t.Parallel()

	t.Run("spec with variable", func(t *testing.T) {
		t.Parallel()

		blanks, vars, issues := pgml.ScanBlanks("[_]{ $ans }", nil)

		assert.Equal(t, map[string]struct{}{"ans": {}}, vars)
		require.Len(t, blanks, 1)
		assert.Equal(t, source.Span{Start: 0, End: 11}, blanks[0].Span)
		assert.True(t, blanks[0].HasSpec)
		assert.Empty(t, issues)
	})

	t.Run("bare blank", func(t *testing.T) {
		t.Parallel()

		blanks, vars, issues := pgml.ScanBlanks("[_]", nil)

		assert.Empty(t, vars)
		require.Len(t, blanks, 1)
		require.Len(t, issues, 1)
		assert.Equal(t, diag.SeverityWarning, issues[0].Severity)
		assert.Contains(t, issues[0].Message, "missing answer spec")
	})

	t.Run("width option and modifiers", func(t *testing.T) {
		t.Parallel()

		body := "Enter [___]*{$f->cmp}{15} now"
		blanks, vars, issues := pgml.ScanBlanks(body, nil)

		require.Len(t, blanks, 1)
		assert.Equal(t, "[___]*{$f->cmp}{15}", body[blanks[0].Span.Start:blanks[0].Span.End])
		assert.Equal(t, "$f->cmp", blanks[0].Spec)
		assert.Equal(t, map[string]struct{}{"f": {}}, vars)
		assert.Empty(t, issues)
	})

	t.Run("unbalanced spec", func(t *testing.T) {
		t.Parallel()

		_, _, issues := pgml.ScanBlanks("[_]{$a", nil)

		require.Len(t, issues, 1)
		assert.Equal(t, diag.SeverityError, issues[0].Severity)
	})

	t.Run("inside inline code", func(t *testing.T) {
		t.Parallel()

		body := "[@ '[_]' @]"
		inline, _ := pgml.ExtractInlineSpans(body)
		blanks, _, issues := pgml.ScanBlanks(body, inline)

		assert.Empty(t, blanks)
		assert.Empty(t, issues)
	})
}

func TestExtractMathSpans(t *testing.T) {
	t.Parallel()

	body := "a [`x_1`] b [``\\frac{1}{2}``] c [:x^2:] d [::y::] e [`open"
	spans := pgml.ExtractMathSpans(body, nil)

	got := make([]string, 0, len(spans))
	for _, s := range spans {
		got = append(got, body[s.Start:s.End])
	}
	assert.Equal(t, []string{"[`x_1`]", "[``\\frac{1}{2}``]", "[:x^2:]", "[::y::]"}, got)
}

func TestExtractVerbatimSpans(t *testing.T) {
	t.Parallel()

	body := "[|[not markup]|] and [%comment [%]"
	spans := pgml.ExtractVerbatimSpans(body, nil)

	require.Len(t, spans, 2)
	assert.Equal(t, "[|[not markup]|]", body[spans[0].Start:spans[0].End])
	assert.Equal(t, "[%comment [%]", body[spans[1].Start:spans[1].End])
}

func TestCheckBracketBalance(t *testing.T) {
	t.Parallel()

	t.Run("unmatched opener", func(t *testing.T) {
		t.Parallel()

		issues := pgml.CheckBracketBalance("line\n  [ open")

		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "open")
		assert.Equal(t, 2, issues[0].Line)
		assert.Equal(t, 3, issues[0].Column)
	})

	t.Run("unmatched closer", func(t *testing.T) {
		t.Parallel()

		issues := pgml.CheckBracketBalance("a ] b")

		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "closing")
	})

	t.Run("masked and escaped", func(t *testing.T) {
		t.Parallel()

		body := `x [ y \] ]`
		assert.Empty(t, pgml.CheckBracketBalance(body))
		assert.Empty(t, pgml.CheckBracketBalance("[ ] ]", []source.Span{{Start: 4, End: 5}}))
	})
}

func TestScanRegion(t *testing.T) {
	t.Parallel()

	t.Run("masked constructs", func(t *testing.T) {
		t.Parallel()

		text := "[@ [ @] [_]{a} [`x]` [:y:]"
		scan := pgml.ScanRegion(text, source.Region{Kind: "BEGIN_PGML", Start: 0, End: len(text)}, nil)

		assert.Empty(t, scan.Issues())
		assert.Len(t, scan.Inline, 1)
		assert.Len(t, scan.Blanks, 1)
	})

	t.Run("absolute positions", func(t *testing.T) {
		t.Parallel()

		text := "DOCUMENT();\nBEGIN_PGML\nA [_] and [@ x\nEND_PGML\n"
		start := strings.Index(text, "BEGIN_PGML")
		end := strings.Index(text, "END_PGML\n") + len("END_PGML")
		scan := pgml.ScanRegion(text, source.Region{Kind: "BEGIN_PGML", Start: start, End: end}, source.BuildIndex(text))

		require.Len(t, scan.InlineIssues, 1)
		assert.Equal(t, 3, scan.InlineIssues[0].Line)
		assert.Equal(t, 11, scan.InlineIssues[0].Column)
		require.Len(t, scan.BlankIssues, 1)
		assert.Equal(t, 3, scan.BlankIssues[0].Line)
		assert.Equal(t, 3, scan.BlankIssues[0].Column)
		assert.Empty(t, scan.BracketIssues)

		mask := scan.Mask()
		assert.Len(t, mask, end-start)
	})
}
