// Package config defines the configuration types for pgmllint.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

import "github.com/yaklabco/pgmllint/pkg/pgversion"

// PluginConfig holds per-plugin configuration.
type PluginConfig struct {
	Enabled *bool          `mapstructure:"enabled" yaml:"enabled,omitempty"`
	Options map[string]any `mapstructure:"options" yaml:"options,omitempty"`
}

// OutputFormat specifies the output format for issues.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatTable   OutputFormat = "table"
	FormatSummary OutputFormat = "summary"
)

// Formats lists every known output format.
func Formats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatTable, FormatSummary}
}

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatTable, FormatSummary:
		return true
	default:
		return false
	}
}

// DefaultExtensions are the file extensions linted when walking directories.
//
//nolint:gochecknoglobals // Read-only default.
var DefaultExtensions = []string{".pg"}

// Config is the root configuration structure.
type Config struct {
	// PGVersion is the PG release the problems target, e.g. "2.17".
	PGVersion string `mapstructure:"pg_version" yaml:"pg_version,omitempty"`

	// RulesFile points at a JSON, YAML or TOML file replacing the built-in
	// block and macro rule tables.
	RulesFile string `mapstructure:"rules_file" yaml:"rules_file,omitempty"`

	// Plugins contains per-plugin configuration keyed by plugin ID.
	Plugins map[string]PluginConfig `mapstructure:"plugins" yaml:"plugins,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty"`

	// Extensions lists the file extensions discovered in directories.
	Extensions []string `mapstructure:"extensions" yaml:"extensions,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// Only restricts the run to these plugin IDs.
	Only []string `mapstructure:"-" yaml:"-"`

	// Enable contains plugin IDs to enable on top of the defaults.
	Enable []string `mapstructure:"-" yaml:"-"`

	// Disable contains plugin IDs to turn off.
	Disable []string `mapstructure:"-" yaml:"-"`

	// ShowPlugin prints the originating plugin ID next to each issue.
	ShowPlugin bool `mapstructure:"-" yaml:"-"`

	// Verbose prints issue excerpts.
	Verbose bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		PGVersion:  pgversion.DefaultVersion,
		Plugins:    make(map[string]PluginConfig),
		Extensions: append([]string(nil), DefaultExtensions...),
		Format:     FormatText,
		ShowPlugin: true,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}

// PluginEnabled reports the configured enabled state of a plugin, and
// whether the configuration says anything about it at all.
func (c *Config) PluginEnabled(id string) (bool, bool) {
	if c == nil {
		return false, false
	}
	pc, ok := c.Plugins[id]
	if !ok || pc.Enabled == nil {
		return false, false
	}
	return *pc.Enabled, true
}

// PluginOptions returns the options configured for a plugin, or nil.
func (c *Config) PluginOptions(id string) map[string]any {
	if c == nil {
		return nil
	}
	return c.Plugins[id].Options
}
