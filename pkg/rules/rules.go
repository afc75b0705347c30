// Package rules holds the block-pair and function-to-macro rule tables and
// loads replacements for them from disk.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRule is returned when a rule is incomplete or its pattern does
// not compile.
var ErrInvalidRule = errors.New("invalid rule")

// BlockRule pairs a start pattern with an end pattern that must appear the
// same number of times.
type BlockRule struct {
	Label        string `json:"label" yaml:"label" toml:"label"`
	StartPattern string `json:"start_pattern" yaml:"start_pattern" toml:"start_pattern"`
	EndPattern   string `json:"end_pattern" yaml:"end_pattern" toml:"end_pattern"`

	start *regexp.Regexp
	end   *regexp.Regexp
}

// Compile validates the rule and compiles its patterns.
func (r *BlockRule) Compile() error {
	if r.Label == "" || r.StartPattern == "" || r.EndPattern == "" {
		return fmt.Errorf("%w: block rule %q needs label, start_pattern and end_pattern", ErrInvalidRule, r.Label)
	}
	var err error
	if r.start, err = regexp.Compile(r.StartPattern); err != nil {
		return fmt.Errorf("%w: block rule %q start_pattern: %w", ErrInvalidRule, r.Label, err)
	}
	if r.end, err = regexp.Compile(r.EndPattern); err != nil {
		return fmt.Errorf("%w: block rule %q end_pattern: %w", ErrInvalidRule, r.Label, err)
	}
	return nil
}

// Start returns the compiled start pattern, compiling on demand.
func (r *BlockRule) Start() (*regexp.Regexp, error) {
	if r.start == nil {
		if err := r.Compile(); err != nil {
			return nil, err
		}
	}
	return r.start, nil
}

// End returns the compiled end pattern, compiling on demand.
func (r *BlockRule) End() (*regexp.Regexp, error) {
	if r.end == nil {
		if err := r.Compile(); err != nil {
			return nil, err
		}
	}
	return r.end, nil
}

// MacroRule says that text matching Pattern needs at least one of
// RequiredMacros loaded, optionally limited to a PG version range.
type MacroRule struct {
	Label          string   `json:"label" yaml:"label" toml:"label"`
	Pattern        string   `json:"pattern" yaml:"pattern" toml:"pattern"`
	RequiredMacros []string `json:"required_macros" yaml:"required_macros" toml:"required_macros"`
	MinPGVersion   string   `json:"min_pg_version,omitempty" yaml:"min_pg_version,omitempty" toml:"min_pg_version,omitempty"`
	MaxPGVersion   string   `json:"max_pg_version,omitempty" yaml:"max_pg_version,omitempty" toml:"max_pg_version,omitempty"`

	rx *regexp.Regexp
}

// Compile validates the rule and compiles its pattern.
func (r *MacroRule) Compile() error {
	if r.Label == "" || r.Pattern == "" {
		return fmt.Errorf("%w: macro rule %q needs label and pattern", ErrInvalidRule, r.Label)
	}
	rx, err := regexp.Compile(r.Pattern)
	if err != nil {
		return fmt.Errorf("%w: macro rule %q pattern: %w", ErrInvalidRule, r.Label, err)
	}
	r.rx = rx
	return nil
}

// Regexp returns the compiled pattern, compiling on demand.
func (r *MacroRule) Regexp() (*regexp.Regexp, error) {
	if r.rx == nil {
		if err := r.Compile(); err != nil {
			return nil, err
		}
	}
	return r.rx, nil
}

// Required returns the required macro names lower-cased, matching the
// normalization of loaded macros.
func (r *MacroRule) Required() []string {
	out := make([]string, 0, len(r.RequiredMacros))
	for _, m := range r.RequiredMacros {
		out = append(out, strings.ToLower(m))
	}
	return out
}

// Set is a pair of rule tables.
type Set struct {
	BlockRules []BlockRule
	MacroRules []MacroRule
}

// Compile compiles every rule, failing on the first invalid one.
func (s *Set) Compile() error {
	for i := range s.BlockRules {
		if err := s.BlockRules[i].Compile(); err != nil {
			return err
		}
	}
	for i := range s.MacroRules {
		if err := s.MacroRules[i].Compile(); err != nil {
			return err
		}
	}
	return nil
}
