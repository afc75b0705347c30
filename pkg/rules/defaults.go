package rules

// DefaultBlockRules returns the built-in block rules.
func DefaultBlockRules() []BlockRule {
	return []BlockRule{
		{
			Label:        "DOCUMENT()/ENDDOCUMENT()",
			StartPattern: `\bDOCUMENT\s*\(\s*\)`,
			EndPattern:   `\bENDDOCUMENT\s*\(\s*\)`,
		},
	}
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	choiceMacros   = []string{"parserMultipleChoice.pl", "PGchoicemacros.pl"}
	popUpMacros    = append([]string{"parserPopUp.pl"}, choiceMacros...)
	radioMacros    = append([]string{"parserRadioButtons.pl"}, choiceMacros...)
	checkboxMacros = append([]string{"parserCheckboxList.pl"}, choiceMacros...)
)

// DefaultMacroRules returns the built-in function-to-macro rules.
func DefaultMacroRules() []MacroRule {
	return []MacroRule{
		{
			// PGML.pl loads MathObjects.pl itself, so either satisfies the rule.
			Label:          "MathObjects functions",
			Pattern:        `\b(?:Context|Compute|Formula|Real)\s*\(`,
			RequiredMacros: []string{"MathObjects.pl", "PGML.pl"},
		},
		{Label: "RadioButtons", Pattern: `\bRadioButtons\s*\(`, RequiredMacros: clone(radioMacros)},
		{Label: "CheckboxList", Pattern: `\bCheckboxList\s*\(`, RequiredMacros: clone(checkboxMacros), MinPGVersion: "2.18"},
		{Label: "PopUp", Pattern: `\bPopUp\s*\(`, RequiredMacros: clone(popUpMacros)},
		{Label: "DropDown", Pattern: `\bDropDown\s*\(`, RequiredMacros: clone(popUpMacros), MinPGVersion: "2.18"},
		{Label: "MultiAnswer", Pattern: `\bMultiAnswer\s*\(`, RequiredMacros: []string{"parserMultiAnswer.pl"}},
		{Label: "OneOf", Pattern: `\bOneOf\s*\(`, RequiredMacros: []string{"parserOneOf.pl"}},
		{Label: "NchooseK", Pattern: `\bNchooseK\s*\(`, RequiredMacros: []string{"PGchoicemacros.pl"}},
		{
			Label:          "FormulaUpToConstant",
			Pattern:        `\bFormulaUpToConstant\s*\(`,
			RequiredMacros: []string{"parserFormulaUpToConstant.pl"},
		},
		{Label: "DataTable", Pattern: `\bDataTable\s*\(`, RequiredMacros: []string{"niceTables.pl"}},
		{Label: "LayoutTable", Pattern: `\bLayoutTable\s*\(`, RequiredMacros: []string{"niceTables.pl"}},
		{
			Label:          "NumberWithUnits",
			Pattern:        `\bNumberWithUnits\s*\(`,
			RequiredMacros: []string{"parserNumberWithUnits.pl", "contextUnits.pl"},
		},
		{
			Label:          "Context('Fraction')",
			Pattern:        `\bContext\s*\(\s*['"]Fraction['"]\s*\)`,
			RequiredMacros: []string{"contextFraction.pl"},
		},
		{Label: "DraggableSubsets", Pattern: `\bDraggableSubsets\s*\(`, RequiredMacros: []string{"draggableSubsets.pl"}},
	}
}

// Defaults returns both built-in tables, compiled.
func Defaults() *Set {
	set := &Set{BlockRules: DefaultBlockRules(), MacroRules: DefaultMacroRules()}
	if err := set.Compile(); err != nil {
		panic(err)
	}
	return set
}

func clone(in []string) []string {
	return append([]string(nil), in...)
}
