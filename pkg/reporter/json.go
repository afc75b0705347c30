package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/runner"
)

// JSONFileResult is one element of the JSON output array.
type JSONFileResult struct {
	Path   string       `json:"path"`
	Issues []diag.Issue `json:"issues"`
	Error  string       `json:"error,omitempty"`
}

// JSONReporter writes an array with one {path, issues} object per file.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}
	return countTotalIssues(result), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) []JSONFileResult {
	output := make([]JSONFileResult, 0)
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		fr := JSONFileResult{
			Path:   r.opts.displayPath(file.Path),
			Issues: make([]diag.Issue, 0),
		}
		if file.Error != nil {
			fr.Error = file.Error.Error()
		}
		fr.Issues = append(fr.Issues, fileIssues(file, r.opts.Verbose)...)
		output = append(output, fr)
	}
	return output
}
