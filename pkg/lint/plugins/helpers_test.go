package plugins_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lint"
)

// runPlugin lints text with a single plugin and fails the test on plugin
// errors.
func runPlugin(t *testing.T, plugin lint.Plugin, text string, opts ...lint.Options) []diag.Issue {
	t.Helper()

	var o lint.Options
	if len(opts) > 0 {
		o = opts[0]
	}
	result, err := lint.LintText(context.Background(), text, o, []lint.Plugin{plugin})
	require.NoError(t, err)
	require.Empty(t, result.PluginErrors)
	return result.Issues
}

func messages(issues []diag.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Message)
	}
	return out
}

func lines(issues []diag.Issue) []int {
	out := make([]int, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Line)
	}
	return out
}

// asPlugin adapts a concrete plugin constructor to func() lint.Plugin for
// table-driven tests.
func asPlugin[T lint.Plugin](newPlugin func() T) func() lint.Plugin {
	return func() lint.Plugin { return newPlugin() }
}
