package lint

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/yaklabco/pgmllint/internal/logging"
	"github.com/yaklabco/pgmllint/pkg/config"
	"github.com/yaklabco/pgmllint/pkg/rules"
)

// Engine lints files with a fixed plugin selection and rule set. It holds
// no per-file state, so one Engine serves any number of concurrent calls.
type Engine struct {
	// Plugins are the resolved plugins, in registration order.
	Plugins []Plugin

	// Options is the template for every file's context.
	Options Options
}

// NewEngine creates an Engine running plugins with the given options.
func NewEngine(plugins []Plugin, opts Options) *Engine {
	return &Engine{
		Plugins: plugins,
		Options: opts,
	}
}

// NewEngineFromConfig resolves the plugin selection and loads the rule
// tables described by cfg. Per-plugin enabled flags from the config file
// apply first; the CLI --enable and --disable lists override them.
func NewEngineFromConfig(registry *Registry, cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	set, err := rules.Load(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	enable, disable := pluginSelection(cfg)
	plugins, err := registry.Resolve(cfg.Only, enable, disable)
	if err != nil {
		return nil, err
	}

	opts := Options{
		Rules:         set,
		PGVersion:     cfg.PGVersion,
		PluginOptions: make(map[string]map[string]any, len(cfg.Plugins)),
	}
	for id, pc := range cfg.Plugins {
		if pc.Options != nil {
			opts.PluginOptions[id] = pc.Options
		}
	}

	return NewEngine(plugins, opts), nil
}

// pluginSelection merges config-file enabled flags with the CLI lists.
func pluginSelection(cfg *config.Config) ([]string, []string) {
	var enable, disable []string
	for _, id := range slices.Sorted(maps.Keys(cfg.Plugins)) {
		enabled, set := cfg.PluginEnabled(id)
		switch {
		case !set:
		case enabled && !slices.Contains(cfg.Disable, id):
			enable = append(enable, id)
		case !enabled && !slices.Contains(cfg.Enable, id):
			disable = append(disable, id)
		}
	}
	enable = append(enable, cfg.Enable...)
	disable = append(disable, cfg.Disable...)
	return enable, disable
}

// LintText lints in-memory content labeled with path.
func (e *Engine) LintText(ctx context.Context, path, text string) (*FileResult, error) {
	opts := e.Options
	opts.Path = path
	return LintText(ctx, text, opts, e.Plugins)
}

// LintFile reads and lints a single file.
func (e *Engine) LintFile(ctx context.Context, path string) (*FileResult, error) {
	start := time.Now()
	result, err := LintFile(ctx, path, e.Options, e.Plugins)
	if err != nil {
		return nil, err
	}

	errs, warns := result.Counts()
	logging.FromContext(ctx).Debug("linted file",
		logging.FieldPath, path,
		logging.FieldErrors, errs,
		logging.FieldWarnings, warns,
		logging.FieldDuration, time.Since(start),
	)
	return result, nil
}
