package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// PluginInfo contains plugin metadata for template generation.
type PluginInfo struct {
	ID             string
	Name           string
	Description    string
	DefaultEnabled bool
}

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every plugin. If false, a minimal template is written.
	Full bool

	// Plugins is the catalog documented by a full template.
	Plugins []PluginInfo
}

const minimalTemplate = `# pgmllint configuration

# PG release the problems target
pg_version: "%s"

# Replacement block/macro rule tables (JSON, YAML or TOML)
# rules_file: pgml-rules.yml

# File extensions linted when walking directories
# extensions:
#   - .pg

# File patterns to ignore (glob patterns, ** allowed)
# ignore:
#   - "templates/**"

# Plugin-specific configuration
# plugins:
#   pgml_line_length:
#     options:
#       max: 200
#       hard_max: 400
#   pgml_nbsp:
#     enabled: false
`

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, minimalTemplate, NewConfig().PGVersion)
	if !opts.Full || len(opts.Plugins) == 0 {
		return buf.Bytes()
	}

	plugins := slices.Clone(opts.Plugins)
	slices.SortFunc(plugins, func(a, b PluginInfo) int {
		return strings.Compare(a.ID, b.ID)
	})

	buf.WriteString("\nplugins:\n")
	for _, p := range plugins {
		fmt.Fprintf(&buf, "\n  # %s\n", p.Name)
		for _, line := range wrapComment(p.Description, commentWrapWidth) {
			fmt.Fprintf(&buf, "  # %s\n", line)
		}
		fmt.Fprintf(&buf, "  %s:\n", p.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", p.DefaultEnabled)
	}
	return buf.Bytes()
}

// wrapComment splits text into lines no longer than width where possible.
func wrapComment(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) > width {
			lines = append(lines, current)
			current = w
			continue
		}
		current += " " + w
	}
	return append(lines, current)
}
