package lint

import (
	"context"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/parser"
	"github.com/yaklabco/pgmllint/pkg/pgml"
	"github.com/yaklabco/pgmllint/pkg/pgversion"
	"github.com/yaklabco/pgmllint/pkg/rules"
	"github.com/yaklabco/pgmllint/pkg/source"
)

// excerptWidth caps the length of issue excerpts.
const excerptWidth = 80

// Options configures context assembly.
type Options struct {
	// Path labels the file in results. It is never opened by BuildContext.
	Path string

	// Rules holds the block and macro rule tables. Nil means the defaults.
	Rules *rules.Set

	// PGVersion is the targeted PG release. Empty or unparsable strings
	// fall back to pgversion.DefaultVersion.
	PGVersion string

	// PluginOptions holds per-plugin options keyed by plugin ID.
	PluginOptions map[string]map[string]any
}

// Context is everything derived from one source text that plugins share.
// The eager fields are filled by BuildContext. Per-region scans and call
// lookups are computed on first use and cached; the accessors are safe for
// concurrent use.
type Context struct {
	Path string
	Text string

	// Stripped is Text with comments and heredoc bodies blanked.
	Stripped string

	Index *source.Index

	MacrosLoaded map[string]struct{}
	AssignedVars map[string]struct{}
	UsesPGML     bool

	// BlockRegions holds every paired BEGIN_X/END_X block.
	BlockRegions []source.Region

	// PGMLBlockRegions is the PGML subset of BlockRegions.
	PGMLBlockRegions []source.Region

	// PGMLHeredocRegions holds the bodies of PGML heredocs.
	PGMLHeredocRegions []source.Region

	// PGMLRegions merges the PGML block and heredoc regions by start offset.
	PGMLRegions []source.Region

	BlockMarkerIssues []diag.Issue

	// HeredocIssues reports unterminated heredocs that do not carry PGML.
	HeredocIssues []diag.Issue

	// PGMLHeredocIssues reports unterminated PGML heredocs.
	PGMLHeredocIssues []diag.Issue

	BlockRules []rules.BlockRule
	MacroRules []rules.MacroRule
	PGVersion  pgversion.Version

	PluginOptions map[string]map[string]any

	scansOnce sync.Once
	scans     []*pgml.RegionScan
	blankVars map[string]struct{}

	linesOnce sync.Once
	lines     []string

	callsMu sync.Mutex
	calls   map[string][]parser.Call
}

// BuildContext runs the position index, normalizer, extractors and region
// finders over text.
func BuildContext(text string, opts Options) *Context {
	set := opts.Rules
	if set == nil {
		set = rules.Defaults()
	}
	version, err := pgversion.Parse(opts.PGVersion)
	if err != nil {
		version = pgversion.Default()
	}

	idx := source.BuildIndex(text)
	layout := parser.ScanLayout(text)
	stripped := layout.Stripped()

	heredocs := layout.Heredocs()
	pgmlHeredocs := parser.PGMLHeredocs(stripped, heredocs, idx)
	heredocRegions, pgmlHeredocIssues := parser.PGMLHeredocRegions(pgmlHeredocs, idx)

	var heredocIssues []diag.Issue
	for _, h := range heredocs {
		if h.Terminated || slices.ContainsFunc(pgmlHeredocs, func(p parser.Heredoc) bool {
			return p.Opener == h.Opener
		}) {
			continue
		}
		heredocIssues = append(heredocIssues, h.Issue(idx))
	}

	blocks, markerIssues := layout.BlockRegions(idx)
	var pgmlBlocks []source.Region
	for _, r := range blocks {
		if parser.IsPGMLKind(r.Kind) {
			pgmlBlocks = append(pgmlBlocks, r)
		}
	}

	pgmlRegions := slices.Concat(pgmlBlocks, heredocRegions)
	slices.SortStableFunc(pgmlRegions, func(a, b source.Region) int {
		return a.Start - b.Start
	})

	return &Context{
		Path:               opts.Path,
		Text:               text,
		Stripped:           stripped,
		Index:              idx,
		MacrosLoaded:       parser.ExtractLoadedMacros(stripped),
		AssignedVars:       parser.ExtractAssignedVars(stripped),
		UsesPGML:           parser.DetectPGMLUsage(stripped) || len(pgmlHeredocs) > 0,
		BlockRegions:       blocks,
		PGMLBlockRegions:   pgmlBlocks,
		PGMLHeredocRegions: heredocRegions,
		PGMLRegions:        pgmlRegions,
		BlockMarkerIssues:  markerIssues,
		HeredocIssues:      heredocIssues,
		PGMLHeredocIssues:  pgmlHeredocIssues,
		BlockRules:         set.BlockRules,
		MacroRules:         set.MacroRules,
		PGVersion:          version,
		PluginOptions:      opts.PluginOptions,
	}
}

// HasMacro reports whether a macro file is loaded. Names compare
// case-insensitively.
func (c *Context) HasMacro(name string) bool {
	_, ok := c.MacrosLoaded[strings.ToLower(name)]
	return ok
}

// RegionScans returns the PGML scan of every entry of PGMLRegions, in the
// same order.
func (c *Context) RegionScans() []*pgml.RegionScan {
	c.scansOnce.Do(c.scanRegions)
	return c.scans
}

// RegionScan returns the scan of PGMLRegions[i], or nil when out of range.
func (c *Context) RegionScan(i int) *pgml.RegionScan {
	scans := c.RegionScans()
	if i < 0 || i >= len(scans) {
		return nil
	}
	return scans[i]
}

// BlankVars returns every variable named in an answer spec of any PGML
// region.
func (c *Context) BlankVars() map[string]struct{} {
	c.scansOnce.Do(c.scanRegions)
	return c.blankVars
}

func (c *Context) scanRegions() {
	c.scans = make([]*pgml.RegionScan, 0, len(c.PGMLRegions))
	c.blankVars = make(map[string]struct{})
	for _, region := range c.PGMLRegions {
		scan := pgml.ScanRegion(c.Text, region, c.Index)
		for name := range scan.BlankVars {
			c.blankVars[name] = struct{}{}
		}
		c.scans = append(c.scans, scan)
	}
}

// Calls returns the calls to any of names in the stripped text, sorted by
// offset. Results are cached per name list.
func (c *Context) Calls(names ...string) []parser.Call {
	key := strings.Join(names, "\x00")

	c.callsMu.Lock()
	defer c.callsMu.Unlock()

	if calls, ok := c.calls[key]; ok {
		return calls
	}
	if c.calls == nil {
		c.calls = make(map[string][]parser.Call)
	}
	calls := parser.IterCalls(c.Stripped, names, c.Index)
	c.calls[key] = calls
	return calls
}

// Lines returns the original text split on newlines.
func (c *Context) Lines() []string {
	c.linesOnce.Do(func() {
		c.lines = strings.Split(c.Text, "\n")
	})
	return c.lines
}

// Excerpt returns the trimmed text of a 1-based line, shortened for
// display.
func (c *Context) Excerpt(line int) string {
	lines := c.Lines()
	if line < 1 || line > len(lines) {
		return ""
	}
	text := strings.TrimSpace(strings.TrimSuffix(lines[line-1], "\r"))
	if utf8.RuneCountInString(text) > excerptWidth {
		text = string([]rune(text)[:excerptWidth-3]) + "..."
	}
	return text
}

// PluginContext is the view of a Context handed to one plugin.
type PluginContext struct {
	*Context

	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// Plugin is the ID of the running plugin.
	Plugin string

	// Options holds the plugin's configured options (may be nil).
	Options map[string]any
}

// NewPluginContext creates the view of c for the plugin with the given ID.
func NewPluginContext(ctx context.Context, c *Context, id string) *PluginContext {
	return &PluginContext{
		Context: c,
		Ctx:     ctx,
		Plugin:  id,
		Options: c.PluginOptions[id],
	}
}

// Cancelled returns true if the context has been cancelled.
func (pc *PluginContext) Cancelled() bool {
	select {
	case <-pc.Ctx.Done():
		return true
	default:
		return false
	}
}

// Option returns a plugin option value, or the default if not set.
func (pc *PluginContext) Option(key string, defaultValue any) any {
	if v, ok := pc.Options[key]; ok {
		return v
	}
	return defaultValue
}

// OptionInt returns an integer plugin option, or the default.
func (pc *PluginContext) OptionInt(key string, defaultValue int) int {
	switch val := pc.Option(key, defaultValue).(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	default:
		return defaultValue
	}
}

// OptionBool returns a boolean plugin option, or the default.
func (pc *PluginContext) OptionBool(key string, defaultValue bool) bool {
	if b, ok := pc.Option(key, defaultValue).(bool); ok {
		return b
	}
	return defaultValue
}
