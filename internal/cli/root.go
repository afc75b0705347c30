// Package cli provides the Cobra command structure for pgmllint.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/pgmllint/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root pgmllint command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "pgmllint",
		Short: "A linter for WeBWorK PG and PGML problem files",
		Long: `pgmllint checks WeBWorK .pg problem files for common PG and PGML mistakes.

It finds unbalanced BEGIN_/END_ blocks and heredocs, broken PGML inline code,
answer blanks and brackets, functions used without the macros that define
them, legacy PG constructs, and text hygiene problems such as non-breaking
spaces or embedded blobs.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	})

	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newPluginsCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
