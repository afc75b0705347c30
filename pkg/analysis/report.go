package analysis

// Report contains grouped views of a lint run.
type Report struct {
	// ByFile groups issues by file path. Files without issues are left out.
	ByFile []FileAnalysis `json:"by_file,omitempty"`

	// ByPlugin groups issues by the plugin that reported them.
	ByPlugin []PluginAnalysis `json:"by_plugin,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"files_checked"`
	FilesWithIssues int `json:"files_with_issues"`
	Issues          int `json:"total_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
}

// HasIssues returns true if there are any issues.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors returns true if there are any errors.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Plugins  []string `json:"plugins,omitempty"`
}

// PluginAnalysis contains aggregated data for a single plugin.
type PluginAnalysis struct {
	Plugin   string   `json:"plugin"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Files    []string `json:"files,omitempty"`
}

// counts is the severity tally shared by files and plugins.
type counts struct {
	issues, errors, warnings int
}
