package lint

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/pgmllint/internal/logging"
	"github.com/yaklabco/pgmllint/pkg/diag"
)

// ErrPluginPanic wraps a panic recovered from a plugin.
var ErrPluginPanic = errors.New("plugin panicked")

// FileResult contains the results of linting one text.
type FileResult struct {
	// Path labels the linted file; empty for anonymous text.
	Path string

	// Context is the analysis the plugins ran against.
	Context *Context

	// Issues holds every finding, sorted by line then plugin ID.
	Issues []diag.Issue

	// PluginErrors holds internal failures keyed by plugin ID. A failing
	// plugin contributes no issues; the others still run.
	PluginErrors map[string]error
}

// HasErrors reports whether any issue has ERROR severity.
func (fr *FileResult) HasErrors() bool {
	return diag.HasErrors(fr.Issues)
}

// Counts returns the number of ERROR and WARNING issues.
func (fr *FileResult) Counts() (int, int) {
	return diag.Summarize(fr.Issues)
}

// RunPlugins runs each plugin against c. Returned issues are stamped with
// the plugin's ID unless they carry one already, then sorted so that the
// output does not depend on plugin order. A plugin that fails or panics is
// recorded in PluginErrors and skipped.
func RunPlugins(ctx context.Context, c *Context, plugins []Plugin) (*FileResult, error) {
	logger := logging.FromContext(ctx)
	result := &FileResult{
		Path:         c.Path,
		Context:      c,
		PluginErrors: make(map[string]error),
	}

	for _, plugin := range plugins {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("linting cancelled: %w", ctx.Err())
		default:
		}

		id := plugin.ID()
		issues, err := runPlugin(ctx, c, plugin)
		if err != nil {
			logger.Warn("plugin failed", logging.FieldPlugin, id, logging.FieldPath, c.Path, logging.FieldError, err)
			result.PluginErrors[id] = err
			continue
		}

		for i := range issues {
			if issues[i].Plugin == "" {
				issues[i].Plugin = id
			}
		}
		result.Issues = append(result.Issues, issues...)
	}

	diag.Sort(result.Issues)
	return result, nil
}

func runPlugin(ctx context.Context, c *Context, plugin Plugin) (issues []diag.Issue, err error) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
			err = fmt.Errorf("%w: %v", ErrPluginPanic, r)
		}
	}()
	return plugin.Run(NewPluginContext(ctx, c, plugin.ID()))
}
