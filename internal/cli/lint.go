package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/pgmllint/internal/configloader"
	"github.com/yaklabco/pgmllint/internal/logging"
	"github.com/yaklabco/pgmllint/pkg/config"
	"github.com/yaklabco/pgmllint/pkg/lint"
	_ "github.com/yaklabco/pgmllint/pkg/lint/plugins" // Register built-in plugins
	"github.com/yaklabco/pgmllint/pkg/reporter"
	"github.com/yaklabco/pgmllint/pkg/runner"
)

type lintFlags struct {
	only           []string
	enable         []string
	disable        []string
	rulesFile      string
	pgVersion      string
	format         string
	jobs           int
	exclude        []string
	extensions     []string
	showPlugin     bool
	verbose        bool
	quiet          bool
	compact        bool
	followSymlinks bool
}

func newLintCommand() *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint PG problem files",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags)
		},
	}

	addLintFlags(cmd, flags)

	return cmd
}

const lintLongDescription = `Lint WeBWorK PG problem files.

By default, lints all .pg files in the current directory and its
subdirectories. Files named on the command line are linted whatever their
extension; directories are walked for files with a PG extension.

Examples:
  pgmllint lint                        # Lint current directory
  pgmllint lint problems/              # Lint a directory
  pgmllint lint setA/prob1.pg          # Lint a single file
  pgmllint lint --pg-version 2.19      # Check against a newer PG release
  pgmllint lint --only pgml_blanks     # Run a single plugin
  pgmllint lint --format json          # Output as JSON for scripts`

func addLintFlags(cmd *cobra.Command, flags *lintFlags) {
	cmd.Flags().StringSliceVar(&flags.only, "only", nil, "run only these plugin IDs")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "plugin IDs to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "plugin IDs to disable")
	cmd.Flags().StringVar(&flags.rulesFile, "rules", "", "JSON, YAML or TOML file replacing the block and macro rules")
	cmd.Flags().StringVar(&flags.pgVersion, "pg-version", "", "target PG version (default "+config.NewConfig().PGVersion+")")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, table, summary")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns to skip")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to lint in directories (default .pg)")
	cmd.Flags().BoolVar(&flags.showPlugin, "show-plugin", true, "show the plugin ID with each issue")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "show source context and active checks")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "only show problems, no summary")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "compact JSON output")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow directory symlinks")

	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// cliConfig builds the flag layer of the configuration. Only flags the
// user actually set take part, so config file values survive defaults.
func (f *lintFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{Verbose: f.verbose}
	changed := cmd.Flags().Changed

	if changed("pg-version") {
		cfg.PGVersion = f.pgVersion
	}
	if changed("rules") {
		cfg.RulesFile = f.rulesFile
	}
	if changed("format") {
		cfg.Format = config.OutputFormat(f.format)
	}
	if changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if changed("exclude") {
		cfg.Ignore = f.exclude
	}
	if changed("ext") {
		cfg.Extensions = f.extensions
	}
	if changed("only") {
		cfg.Only = f.only
	}
	if changed("enable") {
		cfg.Enable = f.enable
	}
	if changed("disable") {
		cfg.Disable = f.disable
	}
	return cfg
}

func runLint(cmd *cobra.Command, args []string, flags *lintFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), logging.LevelFor(debug, flags.quiet))
	ctx = logging.WithLogger(ctx, logger)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("%w: get working directory: %w", ErrIO, err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    flags.cliConfig(cmd),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	cfg := loadResult.Config
	cfg.ShowPlugin = flags.showPlugin

	logger.Debug("configuration loaded",
		logging.FieldConfigFile, strings.Join(loadResult.LoadedFrom, ","),
		logging.FieldPGVersion, cfg.PGVersion,
		logging.FieldRulesFile, cfg.RulesFile,
		logging.FieldFormat, cfg.Format,
		logging.FieldJobs, cfg.Jobs,
	)

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	engine, err := lint.NewEngineFromConfig(lint.DefaultRegistry, cfg)
	if err != nil {
		if errors.Is(err, lint.ErrUnknownPlugin) {
			return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
		}
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:     cmd.OutOrStdout(),
		Format:     format,
		Color:      colorMode,
		ShowPlugin: cfg.ShowPlugin,
		Verbose:    cfg.Verbose,
		Quiet:      flags.quiet,
		Compact:    flags.compact,
		WorkingDir: workDir,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	runOpts := runner.Options{
		WorkingDir:     workDir,
		Extensions:     cfg.Extensions,
		ExcludeGlobs:   cfg.Ignore,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           cfg.Jobs,
	}

	files, err := runner.Discover(ctx, args, runOpts)
	if err != nil {
		if errors.Is(err, runner.ErrBadPattern) {
			return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
		}
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	logger.Debug("starting lint run",
		logging.FieldPaths, args,
		logging.FieldWorkingDir, workDir,
		logging.FieldFilesDiscovered, len(files),
	)

	if cfg.Verbose && format == reporter.FormatText {
		printRunHeader(cmd, engine, files)
	}

	result, err := runner.New(engine).Run(ctx, files, runOpts)
	if err != nil {
		return fmt.Errorf("%w: lint run failed: %w", ErrInternal, err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("%w: report results: %w", ErrIO, err)
	}

	switch ExitCodeFromResult(result) {
	case ExitLintErrors:
		return ErrLintIssuesFound
	case ExitIOError:
		return ErrUnreadableFiles
	default:
		return nil
	}
}

// printRunHeader lists the active checks and the number of files ahead of
// verbose text output.
func printRunHeader(cmd *cobra.Command, engine *lint.Engine, files []string) {
	ids := make([]string, len(engine.Plugins))
	for i, p := range engine.Plugins {
		ids[i] = p.ID()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Active checks: %s\n", strings.Join(ids, ", "))
	fmt.Fprintf(out, "Checking %d files\n", len(files))
}
