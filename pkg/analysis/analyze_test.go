package analysis_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/pgmllint/pkg/analysis"
	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lint"
	"github.com/yaklabco/pgmllint/pkg/runner"
)

func outcome(path string, issues ...diag.Issue) runner.FileOutcome {
	return runner.FileOutcome{Path: path, Result: &lint.FileResult{Path: path, Issues: issues}}
}

func sampleResult(root string) *runner.Result {
	return &runner.Result{Files: []runner.FileOutcome{
		outcome(filepath.Join(root, "a.pg"),
			diag.Error("e").WithPlugin("pgml_inline"),
			diag.Warning("w").WithPlugin("pgml_nbsp"),
			diag.Warning("w").WithPlugin("pgml_nbsp"),
		),
		outcome(filepath.Join(root, "b.pg"),
			diag.Warning("w").WithPlugin("pgml_nbsp"),
			diag.Warning("w"),
		),
		outcome(filepath.Join(root, "clean.pg")),
		{Path: filepath.Join(root, "gone.pg"), Error: errors.New("missing")},
	}}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	opts := analysis.DefaultOptions()
	opts.WorkingDir = root

	report := analysis.Analyze(sampleResult(root), opts)

	assert.Equal(t, analysis.Totals{Files: 4, FilesWithIssues: 2, Issues: 5, Errors: 1, Warnings: 4}, report.Totals)
	assert.True(t, report.Totals.HasIssues())
	assert.True(t, report.Totals.HasErrors())

	wantPlugins := []analysis.PluginAnalysis{
		{Plugin: "pgml_nbsp", Issues: 3, Warnings: 3, Files: []string{"a.pg", "b.pg"}},
		{Plugin: "(none)", Issues: 1, Warnings: 1, Files: []string{"b.pg"}},
		{Plugin: "pgml_inline", Issues: 1, Errors: 1, Files: []string{"a.pg"}},
	}
	if diff := cmp.Diff(wantPlugins, report.ByPlugin); diff != "" {
		t.Errorf("ByPlugin mismatch (-want +got):\n%s", diff)
	}

	wantFiles := []analysis.FileAnalysis{
		{Path: "a.pg", Issues: 3, Errors: 1, Warnings: 2, Plugins: []string{"pgml_inline", "pgml_nbsp"}},
		{Path: "b.pg", Issues: 2, Warnings: 2, Plugins: []string{"(none)", "pgml_nbsp"}},
	}
	if diff := cmp.Diff(wantFiles, report.ByFile); diff != "" {
		t.Errorf("ByFile mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_Sorting(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	tests := []struct {
		name string
		opts analysis.Options
		want []string
	}{
		{name: "count descending", opts: analysis.Options{SortBy: analysis.SortByCount, SortDesc: true}, want: []string{"pgml_nbsp", "(none)", "pgml_inline"}},
		{name: "count ascending", opts: analysis.Options{SortBy: analysis.SortByCount}, want: []string{"(none)", "pgml_inline", "pgml_nbsp"}},
		{name: "alpha", opts: analysis.Options{SortBy: analysis.SortByAlpha}, want: []string{"(none)", "pgml_inline", "pgml_nbsp"}},
		{name: "severity", opts: analysis.Options{SortBy: analysis.SortBySeverity}, want: []string{"pgml_inline", "pgml_nbsp", "(none)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report := analysis.Analyze(sampleResult(root), tt.opts)
			got := make([]string, len(report.ByPlugin))
			for i, p := range report.ByPlugin {
				got[i] = p.Plugin
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyze_Nil(t *testing.T) {
	t.Parallel()

	report := analysis.Analyze(nil, analysis.DefaultOptions())
	assert.Equal(t, analysis.Totals{}, report.Totals)
	assert.Empty(t, report.ByPlugin)
	assert.False(t, report.Totals.HasIssues())
}

func TestSortField_IsValid(t *testing.T) {
	t.Parallel()

	for _, f := range []analysis.SortField{analysis.SortByCount, analysis.SortByAlpha, analysis.SortBySeverity} {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, analysis.SortField("random").IsValid())
}
