package parser

import (
	"path"
	"regexp"
	"strings"
)

// LoadMacrosCall is the name of the macro-loading function.
const LoadMacrosCall = "loadMacros"

//nolint:gochecknoglobals // Compiled once.
var (
	qwListRx    = regexp.MustCompile(`^qw\s*[(\[{<]([^)\]}>]*)[)\]}>]$`)
	pgmlUsageRx = regexp.MustCompile(`\bBEGIN_PGML|\bPGML::`)
)

// ExtractLoadedMacros returns the macro files named in loadMacros() calls,
// lower-cased and reduced to their base names, so "macros/ParserPopUp.pl"
// becomes "parserpopup.pl". Entries that are not literal names, such as
// variables, are skipped. Like IterCalls, it expects normalized text.
func ExtractLoadedMacros(text string) map[string]struct{} {
	macros := make(map[string]struct{})
	for _, call := range IterCalls(text, []string{LoadMacrosCall}, nil) {
		for _, entry := range MacroEntries(call.Args) {
			macros[entry] = struct{}{}
		}
	}
	return macros
}

// MacroEntries normalizes the entries of one loadMacros() argument list.
func MacroEntries(args string) []string {
	var entries []string
	for _, part := range SplitTopLevel(args) {
		if m := qwListRx.FindStringSubmatch(part); m != nil {
			for _, word := range strings.Fields(m[1]) {
				entries = append(entries, normalizeMacro(word))
			}
			continue
		}
		name, ok := unquote(part)
		if !ok {
			continue
		}
		if name = normalizeMacro(name); name != "" {
			entries = append(entries, name)
		}
	}
	return entries
}

func normalizeMacro(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.ToLower(path.Base(name))
}

// unquote strips one level of matching quotes. Bare words are accepted;
// anything starting with a sigil is not a literal.
func unquote(s string) (string, bool) {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], true
	}
	if s == "" || strings.ContainsAny(s[:1], `$@%&\`) {
		return "", false
	}
	return s, true
}

// DetectPGMLUsage reports whether text uses PGML, either through a
// BEGIN_PGML block or through the PGML:: package.
func DetectPGMLUsage(text string) bool {
	return pgmlUsageRx.MatchString(text)
}
