package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"

	// Configuration fields.
	FieldConfigFile = "config_file"
	FieldRulesFile  = "rules_file"
	FieldPGVersion  = "pg_version"
	FieldJobs       = "jobs"
	FieldFormat     = "format"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesFailed     = "files_failed"
	FieldErrors          = "errors"
	FieldWarnings        = "warnings"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Plugin fields.
	FieldPlugin  = "plugin"
	FieldPlugins = "plugins"
)
