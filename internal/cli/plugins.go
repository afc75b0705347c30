package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yaklabco/pgmllint/pkg/lint"
)

const formatJSON = "json"

// pluginInfo represents a plugin in JSON output.
type pluginInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	DefaultEnabled bool   `json:"default_enabled"`
}

func newPluginsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect the available lint plugins",
	}
	cmd.AddCommand(newPluginsListCommand())
	return cmd
}

func newPluginsListCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available lint plugins",
		Long: `List every registered lint plugin with its ID, name, whether it runs
by default, and a description of what it checks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plugins := lint.DefaultRegistry.Plugins()
			out := cmd.OutOrStdout()

			switch format {
			case formatJSON:
				return outputPluginsJSON(out, plugins)
			case "text":
				return outputPluginsText(out, plugins)
			default:
				return fmt.Errorf("%w: invalid format %q: must be text or json", ErrInvalidUsage, format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

func outputPluginsText(out io.Writer, plugins []lint.Plugin) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDEFAULT\tDESCRIPTION")
	for _, p := range plugins {
		enabled := "off"
		if p.DefaultEnabled() {
			enabled = "on"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID(), enabled, p.Description())
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("%w: write plugins: %w", ErrIO, err)
	}
	return nil
}

func outputPluginsJSON(out io.Writer, plugins []lint.Plugin) error {
	infos := make([]pluginInfo, 0, len(plugins))
	for _, p := range plugins {
		infos = append(infos, pluginInfo{
			ID:             p.ID(),
			Name:           p.Name(),
			Description:    p.Description(),
			DefaultEnabled: p.DefaultEnabled(),
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("%w: encoding plugins: %w", ErrIO, err)
	}
	return nil
}
