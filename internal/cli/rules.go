package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/pgmllint/pkg/rules"
)

// rulesOutput is the JSON shape of the rules command, matching the keys
// accepted by --rules files.
type rulesOutput struct {
	BlockRules []rules.BlockRule `json:"block_rules"`
	MacroRules []rules.MacroRule `json:"macro_rules"`
}

func newRulesCommand() *cobra.Command {
	var format string
	var rulesFile string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the block and macro rule tables",
		Long: `Show the block-pair and macro rules in effect. With --rules, the given
JSON, YAML or TOML file is loaded and validated the same way lint does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := rules.Load(rulesFile)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrConfig, err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				return outputRulesJSON(out, set)
			case "text":
				outputRulesText(out, set)
				return nil
			default:
				return fmt.Errorf("%w: invalid format %q: must be text or json", ErrInvalidUsage, format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "rules file to load instead of the built-in tables")

	return cmd
}

func outputRulesText(out io.Writer, set *rules.Set) {
	fmt.Fprintf(out, "Block rules (%d):\n", len(set.BlockRules))
	for _, r := range set.BlockRules {
		fmt.Fprintf(out, "  %s: %s ... %s\n", r.Label, r.StartPattern, r.EndPattern)
	}

	fmt.Fprintf(out, "Macro rules (%d):\n", len(set.MacroRules))
	for _, r := range set.MacroRules {
		line := fmt.Sprintf("  %s: %s", r.Label, strings.Join(r.RequiredMacros, ", "))
		if r.MinPGVersion != "" {
			line += " (PG " + r.MinPGVersion + "+)"
		}
		if r.MaxPGVersion != "" {
			line += " (up to PG " + r.MaxPGVersion + ")"
		}
		fmt.Fprintln(out, line)
	}
}

func outputRulesJSON(out io.Writer, set *rules.Set) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rulesOutput{BlockRules: set.BlockRules, MacroRules: set.MacroRules}); err != nil {
		return fmt.Errorf("%w: encoding rules: %w", ErrIO, err)
	}
	return nil
}
