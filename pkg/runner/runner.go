package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/pgmllint/internal/logging"
	"github.com/yaklabco/pgmllint/pkg/lint"
)

// Linter lints a single file. *lint.Engine implements it.
type Linter interface {
	LintFile(ctx context.Context, path string) (*lint.FileResult, error)
}

// Runner lints many files with a bounded worker pool.
type Runner struct {
	Linter Linter
}

// New creates a Runner around linter.
func New(linter Linter) *Runner {
	return &Runner{Linter: linter}
}

// Run lints files concurrently with at most opts.Jobs files in flight. Each
// file gets its own Context, so results do not depend on scheduling. File
// read errors are recorded on the outcome and never stop the run. Outcomes
// keep the order of files.
func Run(ctx context.Context, linter Linter, files []string, opts Options) (*Result, error) {
	return New(linter).Run(ctx, files, opts)
}

// Run lints files; see the package-level Run.
func (r *Runner) Run(ctx context.Context, files []string, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	outcomes := make([]FileOutcome, len(files))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = max(1, min(jobs, len(files)))

	var group errgroup.Group
	group.SetLimit(jobs)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			outcome := FileOutcome{Path: path}
			fr, err := r.Linter.LintFile(ctx, path)
			if err != nil {
				outcome.Error = err
			} else {
				outcome.Result = fr
			}
			outcomes[i] = outcome
			return nil
		})
	}
	_ = group.Wait() // workers never return an error

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	for _, outcome := range outcomes {
		if outcome.Path == "" {
			continue
		}
		result.Files = append(result.Files, outcome)
		result.accumulate(outcome)
	}

	logger.Debug("lint run finished",
		logging.FieldFilesProcessed, result.Stats.Files,
		logging.FieldFilesFailed, result.Stats.Failed,
		logging.FieldErrors, result.Stats.Errors,
		logging.FieldWarnings, result.Stats.Warnings,
		logging.FieldJobs, jobs,
		logging.FieldDuration, time.Since(start),
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// LintPaths discovers the PG files under paths and lints them.
func (r *Runner) LintPaths(ctx context.Context, paths []string, opts Options) (*Result, error) {
	files, err := Discover(ctx, paths, opts)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("discovered files", logging.FieldFilesDiscovered, len(files))
	return r.Run(ctx, files, opts)
}
