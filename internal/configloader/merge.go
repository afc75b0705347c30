package configloader

import (
	"maps"

	"github.com/yaklabco/pgmllint/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.PGVersion != "" {
		result.PGVersion = override.PGVersion
	}
	if override.RulesFile != "" {
		result.RulesFile = override.RulesFile
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// Verbose can only be switched on by a later layer.
	if override.Verbose {
		result.Verbose = true
	}

	result.Plugins = mergePlugins(base.Plugins, override.Plugins)

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Only != nil {
		result.Only = override.Only
	}
	if override.Enable != nil {
		result.Enable = override.Enable
	}
	if override.Disable != nil {
		result.Disable = override.Disable
	}

	return &result
}

// mergePlugins performs a deep merge of plugin configurations.
func mergePlugins(base, override map[string]config.PluginConfig) map[string]config.PluginConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.PluginConfig, len(base)+len(override))
	maps.Copy(result, base)

	for key, val := range override {
		if existing, ok := result[key]; ok {
			result[key] = mergePluginConfig(existing, val)
		} else {
			result[key] = val
		}
	}

	return result
}

// mergePluginConfig merges one plugin's configuration.
func mergePluginConfig(base, override config.PluginConfig) config.PluginConfig {
	result := base

	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}

	if override.Options != nil {
		options := make(map[string]any, len(base.Options)+len(override.Options))
		maps.Copy(options, base.Options)
		maps.Copy(options, override.Options)
		result.Options = options
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
