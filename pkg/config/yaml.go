package config

import (
	"bytes"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the persisted part of the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if cfg.Plugins == nil {
		cfg.Plugins = make(map[string]PluginConfig)
	}

	return cfg, nil
}

// Clone creates a deep copy of the configuration, CLI-only fields included.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Ignore = cloneStrings(c.Ignore)
	clone.Extensions = cloneStrings(c.Extensions)
	clone.Only = cloneStrings(c.Only)
	clone.Enable = cloneStrings(c.Enable)
	clone.Disable = cloneStrings(c.Disable)

	if c.Plugins != nil {
		clone.Plugins = make(map[string]PluginConfig, len(c.Plugins))
		for k, v := range c.Plugins {
			clone.Plugins[k] = v.clone()
		}
	}

	return &clone
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// clone creates a deep copy of a PluginConfig.
func (pc PluginConfig) clone() PluginConfig {
	clone := PluginConfig{}

	if pc.Enabled != nil {
		enabled := *pc.Enabled
		clone.Enabled = &enabled
	}

	if pc.Options != nil {
		clone.Options = make(map[string]any, len(pc.Options))
		maps.Copy(clone.Options, pc.Options) // nested maps/slices are shared
	}

	return clone
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
