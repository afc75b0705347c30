package plugins

import "github.com/yaklabco/pgmllint/pkg/lint"

// All returns a fresh instance of every built-in plugin in run order.
func All() []lint.Plugin {
	return []lint.Plugin{
		// Structure
		NewBlockMarkersPlugin(),
		NewHeredocsPlugin(),
		NewInlinePlugin(),
		NewBlanksPlugin(),
		NewBracketsPlugin(),
		NewBlockRulesPlugin(),
		NewDocumentPairsPlugin(),

		// Macros and variables
		NewMacroRulesPlugin(),
		NewRequiredMacrosPlugin(),
		NewBlankAssignmentsPlugin(),
		NewLoadMacrosIntegrityPlugin(),

		// Calls and metadata
		NewFunctionSignaturesPlugin(),
		NewIncludePGproblemPlugin(),
		NewHeaderTagsPlugin(),
		NewSeedStabilityPlugin(),
		NewSeedVariationPlugin(),

		// PGML content
		NewInlineBracesPlugin(),
		NewUnderscoreEmphasisPlugin(),
		NewInlinePGMLSyntaxPlugin(),
		NewParseHazardsPlugin(),
		NewTagWrapperTeXPlugin(),
		NewStyleStringQuotesPlugin(),
		NewWrapperInStringPlugin(),
		NewLabelDotPlugin(),
		NewTeXColorPlugin(),

		// HTML and MODES
		NewHTMLDivPlugin(),
		NewHTMLForbiddenTagsPlugin(),
		NewHTMLInTextPlugin(),
		NewHTMLPolicyPlugin(),
		NewHTMLVarPassthroughPlugin(),
		NewSpanInterpolationPlugin(),
		NewModesHTMLEscapePlugin(),
		NewModesHTMLPlainTextPlugin(),
		NewModesTeXPayloadPlugin(),
		NewModesInInlinePlugin(),

		// Legacy syntax
		NewTextBlocksPlugin(),
		NewBRVariablePlugin(),
		NewAnsRulePlugin(),
		NewOldAnswerCheckersPlugin(),
		NewSolutionHintMacrosPlugin(),
		NewAnsStylePlugin(),

		// Text hygiene
		NewNBSPPlugin(),
		NewLineLengthPlugin(),
		NewBlobPayloadsPlugin(),
		NewMojibakePlugin(),
	}
}

// RegisterAll registers all built-in plugins with the given registry.
func RegisterAll(registry *lint.Registry) error {
	for _, p := range All() {
		if err := registry.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// init registers all built-in plugins with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic plugin registration
func init() {
	if err := RegisterAll(lint.DefaultRegistry); err != nil {
		panic(err)
	}
}
