package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a rules file.
type Format string

// Supported rules file formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from the file extension, defaulting to
// JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// file is the on-disk shape. Nil slices mean the key was absent.
type file struct {
	BlockRules *[]BlockRule `json:"block_rules" yaml:"block_rules" toml:"block_rules"`
	MacroRules *[]MacroRule `json:"macro_rules" yaml:"macro_rules" toml:"macro_rules"`
}

// Load reads a rules file. An empty path returns the defaults. A table
// missing from the file keeps its defaults; an empty table disables it.
// Every pattern is compiled before Load returns.
func Load(path string) (*Set, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	set, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parse decodes rule tables from data.
func Parse(data []byte, format Format) (*Set, error) {
	var f file
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	case FormatTOML:
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
	case FormatJSON:
		err = json.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("%w: unsupported rules format %q", ErrInvalidRule, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s rules: %w", format, err)
	}

	set := &Set{BlockRules: DefaultBlockRules(), MacroRules: DefaultMacroRules()}
	if f.BlockRules != nil {
		set.BlockRules = *f.BlockRules
	}
	if f.MacroRules != nil {
		set.MacroRules = *f.MacroRules
	}
	if err := set.Compile(); err != nil {
		return nil, err
	}
	return set, nil
}
