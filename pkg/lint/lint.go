package lint

import (
	"context"
	"fmt"

	"github.com/yaklabco/pgmllint/pkg/fsutil"
)

// LintText builds a context for text and runs plugins over it.
func LintText(ctx context.Context, text string, opts Options, plugins []Plugin) (*FileResult, error) {
	return RunPlugins(ctx, BuildContext(text, opts), plugins)
}

// LintFile reads path and lints its content. opts.Path is set to path.
func LintFile(ctx context.Context, path string, opts Options, plugins []Plugin) (*FileResult, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("lint %s: %w", path, err)
	}
	opts.Path = path
	return LintText(ctx, fsutil.DecodeText(content), opts, plugins)
}
