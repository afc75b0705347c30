package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/pgmllint/internal/logging"
	"github.com/yaklabco/pgmllint/pkg/config"
	"github.com/yaklabco/pgmllint/pkg/lint"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// defaultConfigName is the file written by init when no --output is given.
const defaultConfigName = ".pgmllint.yml"

type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new pgmllint configuration file",
		Long: `Create a new .pgmllint.yml configuration file in the current directory.

Examples:
  pgmllint init                      Create a minimal .pgmllint.yml
  pgmllint init --full               Also list every plugin with its description
  pgmllint init --output ci.yml      Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "document every plugin in the template")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigName, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, flags.output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	content := config.GenerateTemplate(config.TemplateOptions{
		Full:    flags.full,
		Plugins: pluginCatalog(),
	})

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("%w: write file: %w", ErrIO, err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'pgmllint plugins list' to see all available plugins")

	return nil
}

func pluginCatalog() []config.PluginInfo {
	plugins := lint.DefaultRegistry.Plugins()
	infos := make([]config.PluginInfo, 0, len(plugins))
	for _, p := range plugins {
		infos = append(infos, config.PluginInfo{
			ID:             p.ID(),
			Name:           p.Name(),
			Description:    p.Description(),
			DefaultEnabled: p.DefaultEnabled(),
		})
	}
	return infos
}
