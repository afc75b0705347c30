// Package lint assembles the shared analysis context for one PG file and
// dispatches it to the registered plugins.
package lint

import (
	"github.com/yaklabco/pgmllint/pkg/diag"
)

// Plugin is one independent check over a file's Context.
type Plugin interface {
	// ID returns the unique identifier for this plugin (e.g., "pgml_blanks").
	ID() string

	// Name returns the human-readable name of the plugin.
	Name() string

	// Description returns a detailed description of what the plugin checks.
	Description() string

	// DefaultEnabled returns whether the plugin runs when nothing selects it.
	DefaultEnabled() bool

	// Run checks the context and returns the issues it found.
	//
	// Plugins must:
	//   - Only read from the context; derived data comes from its accessors.
	//   - Return error only for internal failures, not for findings.
	Run(pc *PluginContext) ([]diag.Issue, error)
}

// PluginFunc is the signature of a plugin's check body.
type PluginFunc func(pc *PluginContext) ([]diag.Issue, error)
