// Package analysis groups the issues of a lint run by file and by plugin.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/runner"
)

// unattributed labels issues that carry no plugin ID.
const unattributed = "(none)"

// makeRelativePath converts path to one relative to workDir when it lies
// below it.
func makeRelativePath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	pluginMap   map[string]*PluginAnalysis
	fileMap     map[string]*FileAnalysis
	pluginFiles map[string]map[string]bool
	filePlugins map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		pluginMap:   make(map[string]*PluginAnalysis),
		fileMap:     make(map[string]*FileAnalysis),
		pluginFiles: make(map[string]map[string]bool),
		filePlugins: make(map[string]map[string]bool),
	}
}

func (ctx *analysisContext) file(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.filePlugins[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

func (ctx *analysisContext) plugin(id string) *PluginAnalysis {
	if _, ok := ctx.pluginMap[id]; !ok {
		ctx.pluginMap[id] = &PluginAnalysis{Plugin: id}
		ctx.pluginFiles[id] = make(map[string]bool)
	}
	return ctx.pluginMap[id]
}

// tally adds one issue to the three counters.
func tally(severity diag.Severity, issues, errors, warnings *int) {
	*issues++
	switch severity {
	case diag.SeverityError:
		*errors++
	case diag.SeverityWarning:
		*warnings++
	}
}

// Analyze groups the issues of result in a single pass.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{}
	if result == nil {
		return report
	}

	ctx := newAnalysisContext()

	for _, file := range result.Files {
		report.Totals.Files++
		if file.Result == nil || len(file.Result.Issues) == 0 {
			continue
		}
		report.Totals.FilesWithIssues++

		path := makeRelativePath(file.Path, opts.WorkingDir)
		fa := ctx.file(path)

		for _, issue := range file.Result.Issues {
			id := issue.Plugin
			if id == "" {
				id = unattributed
			}

			tally(issue.Severity, &report.Totals.Issues, &report.Totals.Errors, &report.Totals.Warnings)
			tally(issue.Severity, &fa.Issues, &fa.Errors, &fa.Warnings)

			pa := ctx.plugin(id)
			tally(issue.Severity, &pa.Issues, &pa.Errors, &pa.Warnings)

			ctx.filePlugins[path][id] = true
			ctx.pluginFiles[id][path] = true
		}
	}

	report.ByPlugin = ctx.buildByPlugin(opts)
	report.ByFile = ctx.buildByFile(opts)
	return report
}

func (ctx *analysisContext) buildByPlugin(opts Options) []PluginAnalysis {
	out := make([]PluginAnalysis, 0, len(ctx.pluginMap))
	for id, pa := range ctx.pluginMap {
		pa.Files = sortedKeys(ctx.pluginFiles[id])
		out = append(out, *pa)
	}
	sortBy(out, opts, func(p PluginAnalysis) (string, counts) {
		return p.Plugin, counts{p.Issues, p.Errors, p.Warnings}
	})
	return out
}

func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	out := make([]FileAnalysis, 0, len(ctx.fileMap))
	for path, fa := range ctx.fileMap {
		fa.Plugins = sortedKeys(ctx.filePlugins[path])
		out = append(out, *fa)
	}
	sortBy(out, opts, func(f FileAnalysis) (string, counts) {
		return f.Path, counts{f.Issues, f.Errors, f.Warnings}
	})
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// sortBy orders items by the configured field. Ties always fall back to
// the name so the output is stable.
func sortBy[T any](items []T, opts Options, key func(T) (string, counts)) {
	slices.SortFunc(items, func(left, right T) int {
		ln, lc := key(left)
		rn, rc := key(right)

		var result int
		switch opts.SortBy {
		case SortByAlpha:
		case SortBySeverity:
			// Errors first, then warnings, then total; always descending.
			result = cmp.Or(
				cmp.Compare(rc.errors, lc.errors),
				cmp.Compare(rc.warnings, lc.warnings),
				cmp.Compare(rc.issues, lc.issues),
			)
		default:
			result = cmp.Compare(lc.issues, rc.issues)
			if opts.SortDesc {
				result = -result
			}
		}
		return cmp.Or(result, cmp.Compare(ln, rn))
	})
}
