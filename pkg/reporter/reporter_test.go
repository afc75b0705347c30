package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lint"
	"github.com/yaklabco/pgmllint/pkg/reporter"
	"github.com/yaklabco/pgmllint/pkg/runner"
)

const sampleText = "DOCUMENT();\nloadMacros('PGstandard.pl');\n$x = 1;\nENDDOCUMENT();\n"

func sampleResult() *runner.Result {
	ctx := lint.BuildContext(sampleText, lint.Options{})
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:   "clean.pg",
				Result: &lint.FileResult{Path: "clean.pg"},
			},
			{
				Path: "bad.pg",
				Result: &lint.FileResult{
					Path:    "bad.pg",
					Context: ctx,
					Issues: []diag.Issue{
						diag.Error("missing ENDDOCUMENT()").AtLine(2).WithPlugin("document_pairs"),
						diag.Warning("assignment to blank").AtLine(3).WithPlugin("blank_assignments"),
					},
				},
			},
			{
				Path:  "gone.pg",
				Error: errors.New("open gone.pg: no such file or directory"),
			},
		},
		Stats: runner.Stats{Files: 3, Errors: 1, Warnings: 1, Failed: 1, FilesWithIssues: 1},
	}
}

func render(t *testing.T, opts reporter.Options, result *runner.Result) (string, int) {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	n, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	return buf.String(), n
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, reporter.ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Format: reporter.Format("xml")})
	require.ErrorIs(t, err, reporter.ErrUnknownFormat)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts reporter.Options
		want string
	}{
		{
			name: "plugin tags",
			opts: reporter.Options{ShowPlugin: true},
			want: "bad.pg:2: ERROR(document_pairs): missing ENDDOCUMENT()\n" +
				"bad.pg:3: WARNING(blank_assignments): assignment to blank\n" +
				"gone.pg: error: open gone.pg: no such file or directory\n" +
				"Found 1 errors and 1 warnings. 1 file could not be read.\n",
		},
		{
			name: "no plugin tags",
			opts: reporter.Options{},
			want: "bad.pg:2: ERROR: missing ENDDOCUMENT()\n" +
				"bad.pg:3: WARNING: assignment to blank\n" +
				"gone.pg: error: open gone.pg: no such file or directory\n" +
				"Found 1 errors and 1 warnings. 1 file could not be read.\n",
		},
		{
			name: "quiet drops the summary",
			opts: reporter.Options{Quiet: true},
			want: "bad.pg:2: ERROR: missing ENDDOCUMENT()\n" +
				"bad.pg:3: WARNING: assignment to blank\n" +
				"gone.pg: error: open gone.pg: no such file or directory\n",
		},
		{
			name: "verbose adds context",
			opts: reporter.Options{Verbose: true},
			want: "bad.pg:2: ERROR: missing ENDDOCUMENT() | context: loadMacros('PGstandard.pl');\n" +
				"bad.pg:3: WARNING: assignment to blank | context: $x = 1;\n" +
				"gone.pg: error: open gone.pg: no such file or directory\n" +
				"Found 1 errors and 1 warnings. 1 file could not be read.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, n := render(t, tt.opts, sampleResult())
			assert.Equal(t, tt.want, out)
			assert.Equal(t, 2, n)
		})
	}
}

func TestTextReporter_Clean(t *testing.T) {
	t.Parallel()

	clean := &runner.Result{
		Files: []runner.FileOutcome{{Path: "a.pg", Result: &lint.FileResult{Path: "a.pg"}}},
		Stats: runner.Stats{Files: 1},
	}

	out, n := render(t, reporter.Options{}, clean)
	assert.Empty(t, out)
	assert.Zero(t, n)

	out, _ = render(t, reporter.Options{Verbose: true}, clean)
	assert.Equal(t, "No issues found in 1 file.\n", out)
}

func TestTextReporter_RelativePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "a.pg")
	result := &runner.Result{
		Files: []runner.FileOutcome{{
			Path: path,
			Result: &lint.FileResult{
				Path:   path,
				Issues: []diag.Issue{diag.Warning("w").AtLine(1)},
			},
		}},
		Stats: runner.Stats{Files: 1, Warnings: 1, FilesWithIssues: 1},
	}

	out, _ := render(t, reporter.Options{WorkingDir: dir, Quiet: true}, result)
	assert.Equal(t, filepath.Join("sub", "a.pg")+":1: WARNING: w\n", out)
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	out, n := render(t, reporter.Options{Format: reporter.FormatJSON}, sampleResult())
	assert.Equal(t, 2, n)

	var files []reporter.JSONFileResult
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 3)

	assert.Equal(t, "clean.pg", files[0].Path)
	assert.NotNil(t, files[0].Issues)
	assert.Empty(t, files[0].Issues)

	assert.Equal(t, "bad.pg", files[1].Path)
	require.Len(t, files[1].Issues, 2)
	assert.Equal(t, diag.SeverityError, files[1].Issues[0].Severity)
	assert.Equal(t, "document_pairs", files[1].Issues[0].Plugin)
	assert.Equal(t, 2, files[1].Issues[0].Line)

	assert.Contains(t, files[2].Error, "no such file")
	assert.Empty(t, files[2].Issues)
}

func TestJSONReporter_Shape(t *testing.T) {
	t.Parallel()

	out, _ := render(t, reporter.Options{Format: reporter.FormatJSON, Compact: true}, sampleResult())
	assert.True(t, strings.HasPrefix(out, `[{"path":"clean.pg","issues":[]}`), out)
	assert.Equal(t, 1, strings.Count(out, "\n"))

	empty, _ := render(t, reporter.Options{Format: reporter.FormatJSON, Compact: true}, &runner.Result{})
	assert.Equal(t, "[]\n", empty)
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	out, n := render(t, reporter.Options{Format: reporter.FormatSummary}, sampleResult())
	assert.Equal(t, 2, n)
	assert.Contains(t, out, "Files checked:     3")
	assert.Contains(t, out, "Files unreadable:  1")
	assert.Contains(t, out, "Total issues:      2")
	assert.Contains(t, out, "Lint failed with errors\n")
	assert.True(t, strings.HasSuffix(out, "Issues by plugin\n"+
		"  blank_assignments 0 errors, 1 warning in 1 file\n"+
		"  document_pairs    1 error, 0 warnings in 1 file\n"+
		"\n"+
		"Files with most issues\n"+
		"  bad.pg 1 error, 1 warning\n"), out)
}

func TestSummaryReporter_Clean(t *testing.T) {
	t.Parallel()

	out, n := render(t, reporter.Options{Format: reporter.FormatSummary}, &runner.Result{})
	assert.Zero(t, n)
	assert.True(t, strings.HasSuffix(out, "Lint passed\n"), out)
	assert.NotContains(t, out, "Issues by plugin")
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	out, n := render(t, reporter.Options{Format: reporter.FormatTable}, sampleResult())
	assert.Equal(t, 2, n)
	assert.Contains(t, out, "gone.pg: error:")
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "missing ENDDOCUMENT()")
	assert.Contains(t, out, "document_pairs")
	assert.Contains(t, out, "3 files checked")

	clean, _ := render(t, reporter.Options{Format: reporter.FormatTable}, &runner.Result{})
	assert.Equal(t, "No files to check.\n", clean)
}
