package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/pgmllint/internal/ui/pretty"
	"github.com/yaklabco/pgmllint/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{name: "clean", stats: runner.Stats{Files: 3}, want: "No issues found in 3 files.\n"},
		{name: "one file", stats: runner.Stats{Files: 1}, want: "No issues found in 1 file.\n"},
		{
			name:  "issues",
			stats: runner.Stats{Files: 3, Errors: 2, Warnings: 1, FilesWithIssues: 2},
			want:  "Found 2 errors and 1 warnings.\n",
		},
		{
			name:  "unreadable",
			stats: runner.Stats{Files: 2, Failed: 1},
			want:  "No issues found in 2 files. 1 file could not be read.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	out := styles.FormatSummary(runner.Stats{Files: 4, Errors: 1, Warnings: 2, FilesWithIssues: 2, PluginFailures: 1})
	assert.Contains(t, out, "Files checked:     4")
	assert.Contains(t, out, "Files with issues: 2")
	assert.Contains(t, out, "Plugin failures:   1")
	assert.Contains(t, out, "Total issues:      3")
	assert.Contains(t, out, "Errors:          1")
	assert.Contains(t, out, "Lint failed with errors")
	assert.NotContains(t, out, "Files unreadable")

	assert.Contains(t, styles.FormatSummary(runner.Stats{Files: 1, Warnings: 1}), "Lint completed with warnings")
	assert.Contains(t, styles.FormatSummary(runner.Stats{Files: 1}), "Lint passed")
}
