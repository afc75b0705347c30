package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/pgmllint/internal/cli"
	"github.com/yaklabco/pgmllint/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test-version",
		Commit:  "test-commit",
		Date:    "test-date",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "pgmllint", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, path := range [][]string{{"lint"}, {"plugins", "list"}, {"rules"}, {"init"}, {"version"}} {
		subCmd, _, err := cmd.Find(path)
		require.NoError(t, err, "subcommand %v", path)
		assert.Equal(t, path[len(path)-1], subCmd.Name())
	}
}

func TestLintCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	lintCmd, _, err := cmd.Find([]string{"lint"})
	require.NoError(t, err)

	flags := map[string]string{
		"only":        "[]",
		"enable":      "[]",
		"disable":     "[]",
		"rules":       "",
		"pg-version":  "",
		"format":      "text",
		"jobs":        "0",
		"exclude":     "[]",
		"ext":         "[]",
		"show-plugin": "true",
		"verbose":     "false",
		"quiet":       "false",
		"compact":     "false",
	}
	for name, def := range flags {
		flag := lintCmd.Flags().Lookup(name)
		if assert.NotNil(t, flag, "flag --%s", name) {
			assert.Equal(t, def, flag.DefValue, "default of --%s", name)
		}
	}

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "persistent flag --%s", name)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "issues", err: cli.ErrLintIssuesFound, want: cli.ExitLintErrors},
		{name: "usage", err: fmt.Errorf("%w: bad flag", cli.ErrInvalidUsage), want: cli.ExitInvalidUsage},
		{name: "config", err: fmt.Errorf("%w: bad yaml", cli.ErrConfig), want: cli.ExitConfigError},
		{name: "unreadable", err: cli.ErrUnreadableFiles, want: cli.ExitIOError},
		{name: "io", err: fmt.Errorf("%w: disk", cli.ErrIO), want: cli.ExitIOError},
		{name: "internal", err: fmt.Errorf("%w: boom", cli.ErrInternal), want: cli.ExitInternalError},
		{name: "other", err: errors.New("something"), want: cli.ExitCommandFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil))
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(&runner.Result{Stats: runner.Stats{Warnings: 3}}))
	assert.Equal(t, cli.ExitLintErrors, cli.ExitCodeFromResult(&runner.Result{Stats: runner.Stats{Errors: 1, Failed: 1}}))
	assert.Equal(t, cli.ExitIOError, cli.ExitCodeFromResult(&runner.Result{Stats: runner.Stats{Failed: 1}}))
}
