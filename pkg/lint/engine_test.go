package lint_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/pgmllint/pkg/config"
	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/fsutil"
	"github.com/yaklabco/pgmllint/pkg/lint"
	"github.com/yaklabco/pgmllint/pkg/rules"
)

func TestNewEngineFromConfig_Selection(t *testing.T) {
	t.Parallel()

	on, off := true, false
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
		want   []string
	}{
		{name: "defaults", mutate: func(*config.Config) {}, want: []string{"a", "c"}},
		{
			name: "config file flags",
			mutate: func(cfg *config.Config) {
				cfg.Plugins["b"] = config.PluginConfig{Enabled: &on}
				cfg.Plugins["a"] = config.PluginConfig{Enabled: &off}
			},
			want: []string{"b", "c"},
		},
		{
			name: "CLI overrides config file",
			mutate: func(cfg *config.Config) {
				cfg.Plugins["a"] = config.PluginConfig{Enabled: &off}
				cfg.Plugins["b"] = config.PluginConfig{Enabled: &on}
				cfg.Enable = []string{"a"}
				cfg.Disable = []string{"b"}
			},
			want: []string{"a", "c"},
		},
		{
			name:   "only",
			mutate: func(cfg *config.Config) { cfg.Only = []string{"b"} },
			want:   []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)

			engine, err := lint.NewEngineFromConfig(newABC(t), cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(engine.Plugins))
		})
	}
}

func TestNewEngineFromConfig_Errors(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Disable = []string{"missing"}
	_, err := lint.NewEngineFromConfig(newABC(t), cfg)
	require.ErrorIs(t, err, lint.ErrUnknownPlugin)

	rulesPath := filepath.Join(t.TempDir(), "rules.yml")
	require.NoError(t, os.WriteFile(rulesPath, []byte("macro_rules:\n  - label: Bad\n    pattern: \"(\"\n"), 0o644))
	cfg = config.NewConfig()
	cfg.RulesFile = rulesPath
	_, err = lint.NewEngineFromConfig(newABC(t), cfg)
	require.ErrorIs(t, err, rules.ErrInvalidRule)
}

func TestNewEngineFromConfig_PassesOptions(t *testing.T) {
	t.Parallel()

	recorder := lint.NewFuncPlugin("recorder", "Recorder", "", func(pc *lint.PluginContext) ([]diag.Issue, error) {
		if pc.OptionInt("max", 0) != 42 {
			return nil, nil
		}
		return []diag.Issue{diag.Warning("target " + pc.PGVersion.String())}, nil
	})
	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(recorder))

	cfg := config.NewConfig()
	cfg.PGVersion = "2.19"
	cfg.Plugins["recorder"] = config.PluginConfig{Options: map[string]any{"max": 42}}

	engine, err := lint.NewEngineFromConfig(reg, cfg)
	require.NoError(t, err)

	result, err := engine.LintText(context.Background(), "mem.pg", "")
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "target 2.19", result.Issues[0].Message)
	assert.Equal(t, "mem.pg", result.Path)
}

func TestEngine_LintFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "problem.pg")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFDOCUMENT();\n"), 0o644))

	var seen string
	recorder := lint.NewFuncPlugin("recorder", "Recorder", "", func(pc *lint.PluginContext) ([]diag.Issue, error) {
		seen = pc.Text
		return nil, nil
	})

	engine := lint.NewEngine([]lint.Plugin{recorder}, lint.Options{})
	result, err := engine.LintFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, result.Path)
	assert.Equal(t, "DOCUMENT();\n", seen)

	_, err = engine.LintFile(context.Background(), filepath.Join(dir, "missing.pg"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)
}
