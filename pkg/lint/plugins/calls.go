package plugins

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lexer"
	"github.com/yaklabco/pgmllint/pkg/lint"
)

// arity bounds the argument count of a PG function. maxArgs 0 means
// unbounded.
type arity struct {
	minArgs, maxArgs int
	severity         diag.Severity
}

//nolint:gochecknoglobals // Compiled once.
var (
	callNameRx  = regexp.MustCompile(`\b([A-Za-z_]\w*)\s*\(`)
	subTailRx   = regexp.MustCompile(`\bsub\s+$`)
	includeRx   = regexp.MustCompile(`\bincludePGproblem\s*\(`)
	docLineRx   = regexp.MustCompile(`^(?:END)?DOCUMENT\s*\(\s*\)\s*;?$`)
	loadStartRx = regexp.MustCompile(`\bloadMacros\b`)

	functionTypos = map[string]string{
		"Popup":        "PopUp",
		"Dropdown":     "DropDown",
		"Radiobuttons": "RadioButtons",
		"Checkboxes":   "CheckboxList",
	}

	functionArity = map[string]arity{
		"random":              {minArgs: 3, maxArgs: 3, severity: diag.SeverityError},
		"NchooseK":            {minArgs: 2, maxArgs: 2, severity: diag.SeverityError},
		"includePGproblem":    {minArgs: 1, severity: diag.SeverityError},
		"Compute":             {minArgs: 1, severity: diag.SeverityWarning},
		"Formula":             {minArgs: 1, severity: diag.SeverityWarning},
		"Real":                {minArgs: 1, severity: diag.SeverityWarning},
		"Vector":              {minArgs: 1, severity: diag.SeverityWarning},
		"Matrix":              {minArgs: 1, severity: diag.SeverityWarning},
		"DropDown":            {minArgs: 2, severity: diag.SeverityWarning},
		"PopUp":               {minArgs: 2, severity: diag.SeverityWarning},
		"RadioButtons":        {minArgs: 1, severity: diag.SeverityWarning},
		"CheckboxList":        {minArgs: 1, severity: diag.SeverityWarning},
		"NumberWithUnits":     {minArgs: 1, severity: diag.SeverityWarning},
		"MultiAnswer":         {minArgs: 1, severity: diag.SeverityWarning},
		"OneOf":               {minArgs: 1, severity: diag.SeverityWarning},
		"FormulaUpToConstant": {minArgs: 1, severity: diag.SeverityWarning},
	}
)

// FunctionSignaturesPlugin checks argument counts of common PG functions
// and catches misspelled constructor names.
type FunctionSignaturesPlugin struct {
	lint.BasePlugin
}

// NewFunctionSignaturesPlugin creates the pgml_function_signatures plugin.
func NewFunctionSignaturesPlugin() *FunctionSignaturesPlugin {
	return &FunctionSignaturesPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_function_signatures",
			"Function signatures and empty args",
			"Calls such as random(a, b, step) need the right number of non-empty arguments",
		),
	}
}

// Run checks calls whose argument list closes on the same line. Method
// calls, package-qualified calls and sub definitions are skipped.
func (p *FunctionSignaturesPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for i, line := range strings.Split(pc.Stripped, "\n") {
		mask := stringMask(line)
		for _, loc := range callNameRx.FindAllStringSubmatchIndex(line, -1) {
			if mask[loc[0]] || isQualified(line, loc[0]) || subTailRx.MatchString(line[:loc[0]]) {
				continue
			}
			name := line[loc[2]:loc[3]]
			if want, ok := functionTypos[name]; ok {
				msg := fmt.Sprintf("Function name '%s' looks wrong; use '%s'", name, want)
				issues = append(issues, diag.Error(msg).AtLine(i+1))
				continue
			}
			rule, ok := functionArity[name]
			if !ok {
				continue
			}
			args, ok := splitArgs(line, loc[1]-1)
			if !ok {
				continue
			}
			if msg := rule.check(name, args); msg != "" {
				issue := diag.Issue{Severity: rule.severity, Message: msg}
				issues = append(issues, issue.AtLine(i+1))
			}
		}
	}
	return issues, nil
}

// check returns the complaint about args, or "" when they fit.
func (a arity) check(name string, args []string) string {
	n := len(args)
	switch {
	case n == 0 && a.minArgs > 0:
		return fmt.Sprintf("%s() called with no arguments; expected at least %d", name, a.minArgs)
	case n < a.minArgs:
		return fmt.Sprintf("%s() called with %d args; expected at least %d", name, n, a.minArgs)
	case a.maxArgs > 0 && n > a.maxArgs:
		return fmt.Sprintf("%s() called with %d args; expected %d", name, n, a.maxArgs)
	}
	for _, arg := range args {
		if arg == "" {
			return fmt.Sprintf("%s() has an empty argument", name)
		}
	}
	return ""
}

// splitArgs splits the argument list whose '(' is at open into trimmed
// top-level arguments. An empty list yields no arguments; ok is false when
// the list does not close on line.
func splitArgs(line string, open int) ([]string, bool) {
	var sc lexer.Scanner
	var args []string
	depth := 0
	start := open + 1
	for i := open + 1; i < len(line); i++ {
		if sc.Step(line[i]) != lexer.Code {
			continue
		}
		switch line[i] {
		case '(', '[', '{':
			depth++
		case ']', '}':
			depth = max(0, depth-1)
		case ')':
			if depth > 0 {
				depth--
				continue
			}
			last := strings.TrimSpace(line[start:i])
			if len(args) > 0 || last != "" {
				args = append(args, last)
			}
			return args, true
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(line[start:i]))
				start = i + 1
			}
		}
	}
	return nil, false
}

// IncludePGproblemPlugin flags includePGproblem() calls, whose targets are
// not linted, and files that are nothing but such a call.
type IncludePGproblemPlugin struct {
	lint.BasePlugin
}

// NewIncludePGproblemPlugin creates the pgml_include_pgproblem plugin.
func NewIncludePGproblemPlugin() *IncludePGproblemPlugin {
	return &IncludePGproblemPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_include_pgproblem",
			"includePGproblem usage",
			"includePGproblem() pulls in another file that this run does not check",
		),
	}
}

// Run reports every include, then checks whether anything besides the
// includes, DOCUMENT()/ENDDOCUMENT() and loadMacros() remains.
func (p *IncludePGproblemPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	var includes []int
	payload := false
	inLoad := false

	for i, raw := range strings.Split(pc.Stripped, "\n") {
		line := strings.TrimSpace(codeLine(raw))
		if includeRx.MatchString(line) {
			includes = append(includes, i+1)
			issues = append(issues, diag.Warning("includePGproblem() used; target file not verified by linter").AtLine(i+1))
			continue
		}
		if !inLoad && loadStartRx.MatchString(line) {
			inLoad = true
		}
		if inLoad {
			if strings.Contains(line, ");") {
				inLoad = false
			}
			continue
		}
		if line != "" && !docLineRx.MatchString(line) {
			payload = true
		}
	}

	if len(includes) > 0 && !payload {
		issues = append(issues, diag.Warning("includePGproblem() appears to be the only content in this file").AtLine(includes[0]))
	}
	return issues, nil
}
