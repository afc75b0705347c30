package lint

import "github.com/yaklabco/pgmllint/pkg/diag"

// BasePlugin provides a default implementation of the Plugin interface.
// Embed it in plugin implementations, or pair it with a PluginFunc through
// NewFuncPlugin.
//
// Fields are unexported to avoid name collisions with interface methods.
type BasePlugin struct {
	id       string
	name     string
	desc     string
	disabled bool
}

// NewBasePlugin creates a default-enabled BasePlugin.
func NewBasePlugin(id, name, desc string) BasePlugin {
	return BasePlugin{id: id, name: name, desc: desc}
}

// ID returns the unique identifier for this plugin.
func (p *BasePlugin) ID() string {
	return p.id
}

// Name returns the human-readable name of the plugin.
func (p *BasePlugin) Name() string {
	return p.name
}

// Description returns a detailed description of what the plugin checks.
func (p *BasePlugin) Description() string {
	return p.desc
}

// DefaultEnabled returns whether the plugin is enabled by default.
func (p *BasePlugin) DefaultEnabled() bool {
	return !p.disabled
}

// SetDefaultEnabled changes the default.
func (p *BasePlugin) SetDefaultEnabled(enabled bool) {
	p.disabled = !enabled
}

// Run must be overridden by concrete plugins.
// The default implementation returns no issues.
func (p *BasePlugin) Run(_ *PluginContext) ([]diag.Issue, error) {
	return nil, nil
}

type funcPlugin struct {
	BasePlugin

	run PluginFunc
}

// NewFuncPlugin builds a default-enabled plugin from a check function.
func NewFuncPlugin(id, name, desc string, run PluginFunc) Plugin {
	return &funcPlugin{BasePlugin: NewBasePlugin(id, name, desc), run: run}
}

func (p *funcPlugin) Run(pc *PluginContext) ([]diag.Issue, error) {
	return p.run(pc)
}
