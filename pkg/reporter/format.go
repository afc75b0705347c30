package reporter

import (
	"fmt"

	"github.com/yaklabco/pgmllint/pkg/config"
)

// Format represents an output format.
type Format string

// Output formats supported by the reporter.
const (
	FormatText    = Format(config.FormatText)
	FormatJSON    = Format(config.FormatJSON)
	FormatTable   = Format(config.FormatTable)
	FormatSummary = Format(config.FormatSummary)
)

// ParseFormat parses a format string, returning an error for unknown formats.
func ParseFormat(formatStr string) (Format, error) {
	if formatStr == "" {
		return FormatText, nil
	}
	f := Format(formatStr)
	if !f.IsValid() {
		return "", fmt.Errorf("%w %q; valid formats: text, json, table, summary", ErrUnknownFormat, formatStr)
	}
	return f, nil
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	return config.OutputFormat(f).IsValid()
}
