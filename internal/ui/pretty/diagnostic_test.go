package pretty_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/pgmllint/internal/ui/pretty"
	"github.com/yaklabco/pgmllint/pkg/diag"
)

func TestFormatIssue_MatchesPlainFormat(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	issues := []diag.Issue{
		diag.Error("unbalanced PGML inline opener [@ has no closing @]").AtLine(3).WithPlugin("pgml_inline"),
		diag.Warning("PGML is used but PGML.pl is not loaded via loadMacros()").WithPlugin("pgml_required_macros"),
		diag.Warning("$BR is deprecated").AtLine(7).WithExcerpt("a $BR b"),
	}

	for _, issue := range issues {
		for _, showPlugin := range []bool{true, false} {
			assert.Equal(t, issue.Format("p.pg", showPlugin), styles.FormatIssue("p.pg", issue, showPlugin))
		}
	}
}

func TestFormatIssue_Example(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	issue := diag.Error("boom").AtLine(12).WithPlugin("pgml_brackets").WithExcerpt("[x")

	assert.Equal(t, "a.pg:12: ERROR(pgml_brackets): boom | context: [x", styles.FormatIssue("a.pg", issue, true))
}

func TestFormatSeverity(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "ERROR", styles.FormatSeverity(diag.SeverityError))
	assert.Equal(t, "WARNING", styles.FormatSeverity(diag.SeverityWarning))
	assert.Equal(t, "NOTE", styles.FormatSeverity(diag.Severity("NOTE")))
}

func TestFormatFileHeaderAndError(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "a.pg (1 issue)", styles.FormatFileHeader("a.pg", 1))
	assert.Equal(t, "a.pg (2 issues)", styles.FormatFileHeader("a.pg", 2))
	assert.Equal(t, "a.pg", styles.FormatFileHeader("a.pg", 0))
	assert.Equal(t, "a.pg: error: gone", styles.FormatFileError("a.pg", errors.New("gone")))
}
