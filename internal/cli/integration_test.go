package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/pgmllint/internal/cli"
)

const (
	// Eight lines of library metadata precede every problem body.
	problemHeader = "## DESCRIPTION\n## Add two numbers.\n## ENDDESCRIPTION\n## KEYWORDS('addition', 'sums', 'arithmetic')\n" +
		"## DBsubject(Arithmetic)\n## DBchapter(Whole numbers)\n## DBsection(Addition)\n\n"

	cleanProblem = problemHeader + "DOCUMENT();\nloadMacros('PGstandard.pl', 'PGML.pl');\n$ans = Compute(random(1, 9, 1));\n" +
		"BEGIN_PGML\nWhat is [`1+1`]? [_]{$ans}\nEND_PGML\nENDDOCUMENT();\n"

	// Line 13 opens inline code that never closes.
	brokenProblem = problemHeader + "DOCUMENT();\nloadMacros('PGstandard.pl', 'PGML.pl');\n$ans = Compute(random(1, 9, 1));\n" +
		"BEGIN_PGML\nWhat is [@ 1 + 1 ? [_]{$ans}\nEND_PGML\nENDDOCUMENT();\n"

	// Line 12 uses the legacy $BR variable.
	legacyProblem = problemHeader + "DOCUMENT();\nloadMacros('PGstandard.pl', 'PGML.pl');\n$ans = Compute(random(1, 9, 1));\n" +
		"$sep = $BR;\nBEGIN_PGML\nWhat is [`1+1`]? [_]{$ans}\nEND_PGML\nENDDOCUMENT();\n"
)

// writeProblem writes a .pg file and an empty config next to it, so the run
// does not depend on configuration found around the test binary.
func writeProblem(t *testing.T, name, content string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	cfg := filepath.Join(dir, "pgmllint.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("ignore: []\n"), 0o644))
	return path, cfg
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestIntegration_Lint(t *testing.T) {
	t.Parallel()

	t.Run("clean file prints nothing", func(t *testing.T) {
		t.Parallel()

		path, cfg := writeProblem(t, "clean.pg", cleanProblem)
		stdout, _, err := execute(t, "lint", "--config", cfg, path)
		require.NoError(t, err)
		assert.Empty(t, stdout)
	})

	t.Run("verbose clean run", func(t *testing.T) {
		t.Parallel()

		path, cfg := writeProblem(t, "clean.pg", cleanProblem)
		stdout, _, err := execute(t, "lint", "--config", cfg, "--verbose", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Active checks: block_markers, pgml_heredocs,")
		assert.Contains(t, stdout, "Checking 1 files\n")
		assert.True(t, strings.HasSuffix(stdout, "No issues found in 1 file.\n"), stdout)
	})

	t.Run("errors fail the run", func(t *testing.T) {
		t.Parallel()

		path, cfg := writeProblem(t, "broken.pg", brokenProblem)
		stdout, _, err := execute(t, "lint", "--config", cfg, path)
		require.ErrorIs(t, err, cli.ErrLintIssuesFound)
		assert.Equal(t, cli.ExitLintErrors, cli.ExitCode(err))
		assert.Contains(t, stdout, path+":13: ERROR(pgml_inline): ")
		assert.Contains(t, stdout, "Found 1 errors and 0 warnings.")
	})

	t.Run("warnings do not fail the run", func(t *testing.T) {
		t.Parallel()

		path, cfg := writeProblem(t, "legacy.pg", legacyProblem)
		stdout, _, err := execute(t, "lint", "--config", cfg, path)
		require.NoError(t, err)
		assert.Contains(t, stdout,
			path+":12: WARNING(pgml_br_variable): $BR is deprecated legacy PG syntax; use blank lines in PGML for paragraph breaks\n")
		assert.Contains(t, stdout, "Found 0 errors and 1 warnings.")
	})

	t.Run("hide plugin and summary", func(t *testing.T) {
		t.Parallel()

		path, cfg := writeProblem(t, "legacy.pg", legacyProblem)
		stdout, _, err := execute(t, "lint", "--config", cfg, "--show-plugin=false", "--quiet", path)
		require.NoError(t, err)
		assert.Equal(t,
			path+":12: WARNING: $BR is deprecated legacy PG syntax; use blank lines in PGML for paragraph breaks\n",
			stdout)
	})

	t.Run("verbose adds context", func(t *testing.T) {
		t.Parallel()

		path, cfg := writeProblem(t, "legacy.pg", legacyProblem)
		stdout, _, err := execute(t, "lint", "--config", cfg, "-v", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "| context: $sep = $BR;\n")
	})

	t.Run("only narrows the plugins", func(t *testing.T) {
		t.Parallel()

		path, cfg := writeProblem(t, "broken.pg", brokenProblem)
		stdout, _, err := execute(t, "lint", "--config", cfg, "--only", "pgml_br_variable", path)
		require.NoError(t, err)
		assert.Empty(t, stdout)
	})

	t.Run("disable from config file", func(t *testing.T) {
		t.Parallel()

		path, cfg := writeProblem(t, "legacy.pg", legacyProblem)
		require.NoError(t, os.WriteFile(cfg, []byte("plugins:\n  pgml_br_variable:\n    enabled: false\n"), 0o644))
		stdout, _, err := execute(t, "lint", "--config", cfg, path)
		require.NoError(t, err)
		assert.Empty(t, stdout)
	})

	t.Run("directory walk", func(t *testing.T) {
		t.Parallel()

		path, cfg := writeProblem(t, "broken.pg", brokenProblem)
		dir := filepath.Dir(path)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("[@"), 0o644))
		stdout, _, err := execute(t, "lint", "--config", cfg, "--quiet", dir)
		require.ErrorIs(t, err, cli.ErrLintIssuesFound)
		assert.Equal(t, 1, strings.Count(stdout, "\n"), stdout)
	})
}

func TestIntegration_LintJSON(t *testing.T) {
	t.Parallel()

	path, cfg := writeProblem(t, "broken.pg", brokenProblem)
	stdout, _, err := execute(t, "lint", "--config", cfg, "--format", "json", path)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)

	var files []struct {
		Path   string `json:"path"`
		Issues []struct {
			Severity string `json:"severity"`
			Message  string `json:"message"`
			Line     int    `json:"line"`
			Plugin   string `json:"plugin"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &files))
	require.Len(t, files, 1)
	assert.Equal(t, path, files[0].Path)
	require.Len(t, files[0].Issues, 1)
	assert.Equal(t, "ERROR", files[0].Issues[0].Severity)
	assert.Equal(t, "pgml_inline", files[0].Issues[0].Plugin)
	assert.Equal(t, 5, files[0].Issues[0].Line)
}

func TestIntegration_LintFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args func(path, cfg string) []string
		code int
	}{
		{
			name: "unknown plugin",
			args: func(path, cfg string) []string {
				return []string{"lint", "--config", cfg, "--only", "no_such_plugin", path}
			},
			code: cli.ExitInvalidUsage,
		},
		{
			name: "unknown flag",
			args: func(path, _ string) []string { return []string{"lint", "--fix", path} },
			code: cli.ExitInvalidUsage,
		},
		{
			name: "bad format",
			args: func(path, cfg string) []string {
				return []string{"lint", "--config", cfg, "--format", "xml", path}
			},
			code: cli.ExitConfigError,
		},
		{
			name: "bad version",
			args: func(path, cfg string) []string {
				return []string{"lint", "--config", cfg, "--pg-version", "latest", path}
			},
			code: cli.ExitConfigError,
		},
		{
			name: "missing rules file",
			args: func(path, cfg string) []string {
				return []string{"lint", "--config", cfg, "--rules", filepath.Join(filepath.Dir(path), "nope.yml"), path}
			},
			code: cli.ExitConfigError,
		},
		{
			name: "missing input",
			args: func(path, cfg string) []string {
				return []string{"lint", "--config", cfg, filepath.Join(filepath.Dir(path), "missing.pg")}
			},
			code: cli.ExitIOError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, cfg := writeProblem(t, "clean.pg", cleanProblem)
			_, _, err := execute(t, tt.args(path, cfg)...)
			require.Error(t, err)
			assert.Equal(t, tt.code, cli.ExitCode(err), err.Error())
		})
	}
}

func TestIntegration_PluginsList(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "plugins", "list")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "ID"), stdout)
	assert.Contains(t, stdout, "pgml_loadmacros_integrity")

	stdout, _, err = execute(t, "plugins", "list", "--format", "json")
	require.NoError(t, err)

	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	assert.Len(t, infos, 21)
	assert.Equal(t, "block_markers", infos[0]["id"])
	assert.Equal(t, true, infos[0]["default_enabled"])
}

func TestIntegration_Rules(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "rules", "--format", "json")
	require.NoError(t, err)

	var out struct {
		BlockRules []map[string]any `json:"block_rules"`
		MacroRules []map[string]any `json:"macro_rules"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Len(t, out.BlockRules, 1)
	assert.Len(t, out.MacroRules, 14)

	stdout, _, err = execute(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Block rules (1):")
	assert.Contains(t, stdout, "Macro rules (14):")
	assert.Contains(t, stdout, "(PG 2.18+)")

	custom := filepath.Join(t.TempDir(), "rules.toml")
	require.NoError(t, os.WriteFile(custom, []byte("block_rules = []\n"), 0o644))
	stdout, _, err = execute(t, "rules", "--rules", custom)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Block rules (0):")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), ".pgmllint.yml")

	_, _, err := execute(t, "init", "--full", "--output", out)
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), `pg_version: "2.17"`)
	assert.Contains(t, string(content), "  pgml_nbsp:\n    enabled: true\n")

	_, _, err = execute(t, "init", "--output", out)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, _, err = execute(t, "init", "--force", "--output", out)
	require.NoError(t, err)
}

func TestIntegration_Version(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pgmllint")
	assert.Contains(t, stdout, "test-version")
	assert.Contains(t, stdout, "test-commit")
}
