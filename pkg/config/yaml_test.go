package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/pgmllint/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies Plugins map", func(t *testing.T) {
		enabled := true
		original := &config.Config{
			Plugins: map[string]config.PluginConfig{
				"pgml_line_length": {
					Enabled: &enabled,
					Options: map[string]any{"max": 120},
				},
			},
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		require.Contains(t, clone.Plugins, "pgml_line_length")
		assert.True(t, *clone.Plugins["pgml_line_length"].Enabled)

		*clone.Plugins["pgml_line_length"].Enabled = false
		clone.Plugins["pgml_line_length"].Options["max"] = 10
		assert.True(t, *original.Plugins["pgml_line_length"].Enabled)
		assert.Equal(t, 120, original.Plugins["pgml_line_length"].Options["max"])
	})

	t.Run("deep copies slices and keeps CLI fields", func(t *testing.T) {
		original := config.NewConfig()
		original.Ignore = []string{"old/**"}
		original.Disable = []string{"pgml_nbsp"}
		original.Jobs = 4

		clone := original.Clone()
		clone.Ignore[0] = "changed"
		clone.Disable[0] = "changed"

		assert.Equal(t, "old/**", original.Ignore[0])
		assert.Equal(t, "pgml_nbsp", original.Disable[0])
		assert.Equal(t, 4, clone.Jobs)
		assert.Equal(t, config.FormatText, clone.Format)
	})
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.PGVersion = "2.18"
	cfg.Ignore = []string{"drafts/**"}
	disabled := false
	cfg.Plugins["pgml_nbsp"] = config.PluginConfig{Enabled: &disabled}
	cfg.Jobs = 8

	data, err := cfg.ToYAML()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "jobs")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "2.18", parsed.PGVersion)
	assert.Equal(t, []string{"drafts/**"}, parsed.Ignore)
	enabled, set := parsed.PluginEnabled("pgml_nbsp")
	assert.True(t, set)
	assert.False(t, enabled)
	assert.Zero(t, parsed.Jobs)
}

func TestFromYAML_Invalid(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("pg_version: [unclosed"))
	require.Error(t, err)
}

func TestPluginOptions(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Nil(t, cfg.PluginOptions("missing"))

	cfg.Plugins["x"] = config.PluginConfig{Options: map[string]any{"max": 5}}
	assert.Equal(t, map[string]any{"max": 5}, cfg.PluginOptions("x"))

	_, set := cfg.PluginEnabled("x")
	assert.False(t, set)

	var nilCfg *config.Config
	assert.Nil(t, nilCfg.PluginOptions("x"))
}

func TestOutputFormat_IsValid(t *testing.T) {
	t.Parallel()

	for _, f := range config.Formats() {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, config.OutputFormat("sarif").IsValid())
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	minimal := string(config.GenerateTemplate(config.TemplateOptions{}))
	assert.Contains(t, minimal, `pg_version: "2.17"`)

	full := config.GenerateTemplate(config.TemplateOptions{
		Full: true,
		Plugins: []config.PluginInfo{
			{ID: "b_plugin", Name: "B", Description: "Second.", DefaultEnabled: false},
			{ID: "a_plugin", Name: "A", Description: "First.", DefaultEnabled: true},
		},
	})

	parsed, err := config.FromYAML(full)
	require.NoError(t, err)
	enabled, set := parsed.PluginEnabled("a_plugin")
	assert.True(t, set)
	assert.True(t, enabled)
	enabled, _ = parsed.PluginEnabled("b_plugin")
	assert.False(t, enabled)
}
