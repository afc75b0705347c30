package plugins

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lint"
)

const (
	minKeywords        = 3
	maxKeywords        = 10
	maxDescriptionRows = 4
)

//nolint:gochecknoglobals // Compiled once.
var (
	keywordsRx      = regexp.MustCompile(`^##\s*KEYWORDS\s*\((.*)\)\s*$`)
	quotedKeywordRx = regexp.MustCompile(`['"]([^'"]*)['"]`)
	placeholderRx   = regexp.MustCompile(`(?i)refer to|taxonomy`)
	smartQuotesRx   = regexp.MustCompile("[\u2018\u2019\u201c\u201d\u2013\u2014]")

	noisySubjects = map[string]bool{
		"":                  true,
		"WeBWorK":           true,
		"ZZZ-Inserted Text": true,
		"Subject":           true,
		"TBA":               true,
		"History":           true,
		"NECAP":             true,
		"Middle School":     true,
		"Elementary School": true,
		"Demos":             true,
		"algeba":            true,
	}
)

// headerTag is a DBsubject/DBchapter/DBsection value and its line.
type headerTag struct {
	value string
	line  int
}

// header is what the leading "##" comment block of a problem declares.
type header struct {
	descStart, descEnd int
	descRows           int

	keywords     []string
	keywordsLine int
	hasKeywords  bool

	tags map[string]headerTag
}

// HeaderTagsPlugin checks the library metadata in the header comment.
type HeaderTagsPlugin struct {
	lint.BasePlugin
}

// NewHeaderTagsPlugin creates the pgml_header_tags plugin.
func NewHeaderTagsPlugin() *HeaderTagsPlugin {
	return &HeaderTagsPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_header_tags",
			"PG header tag quality",
			"Problem headers need a short DESCRIPTION, 3 to 10 KEYWORDS and real DBsubject, DBchapter and DBsection values",
		),
	}
}

// Run only looks at problem files, those calling DOCUMENT(). The header is
// the run of "##" lines at the top, blank lines allowed.
func (p *HeaderTagsPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	if !isProblemFile(pc) {
		return nil, nil
	}

	var issues []diag.Issue
	h := header{tags: make(map[string]headerTag)}
	inDescription := false

	for i, raw := range pc.Lines() {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "##") {
			break
		}
		num := i + 1
		if smartQuotesRx.MatchString(line) {
			issues = append(issues, diag.Warning("Header contains smart quotes or non-ASCII punctuation").AtLine(num))
		}

		switch {
		case strings.HasPrefix(line, "## DESCRIPTION"):
			h.descStart, inDescription = num, true
			continue
		case strings.HasPrefix(line, "## ENDDESCRIPTION"):
			h.descEnd, inDescription = num, false
			continue
		}
		if inDescription && strings.TrimSpace(line[2:]) != "" {
			h.descRows++
		}

		if strings.HasPrefix(line, "## KEYWORDS") {
			m := keywordsRx.FindStringSubmatch(line)
			switch {
			case m == nil:
				issues = append(issues, diag.Warning("KEYWORDS tag is malformed; expected KEYWORDS('k1','k2',...)").AtLine(num))
			case !h.hasKeywords:
				h.keywords, h.keywordsLine, h.hasKeywords = parseKeywords(m[1]), num, true
			}
		}

		for _, tag := range []string{"DBsubject", "DBchapter", "DBsection"} {
			if value, ok := tagValue(line, tag); ok {
				h.tags[tag] = headerTag{value: value, line: num}
				break
			}
		}
	}

	issues = append(issues, h.descriptionIssues()...)
	issues = append(issues, h.keywordIssues()...)
	return append(issues, h.tagIssues()...), nil
}

func (h *header) descriptionIssues() []diag.Issue {
	switch {
	case h.descStart == 0:
		var issues []diag.Issue
		if h.descEnd > 0 {
			issues = append(issues, diag.Warning("ENDDESCRIPTION present without DESCRIPTION").AtLine(h.descEnd))
		}
		return append(issues, diag.Warning("Missing DESCRIPTION block in header").AtLine(1))
	case h.descEnd == 0:
		return []diag.Issue{diag.Warning("DESCRIPTION block missing ENDDESCRIPTION").AtLine(h.descStart)}
	case h.descRows == 0:
		return []diag.Issue{diag.Warning("DESCRIPTION block is empty").AtLine(h.descStart)}
	case h.descRows > maxDescriptionRows:
		return []diag.Issue{diag.Warning("DESCRIPTION block is long; keep to 1-4 sentences").AtLine(h.descStart)}
	}
	return nil
}

func (h *header) keywordIssues() []diag.Issue {
	if !h.hasKeywords {
		return []diag.Issue{diag.Warning("Missing KEYWORDS tag in header").AtLine(1)}
	}
	if len(h.keywords) == 0 {
		return []diag.Issue{diag.Warning("KEYWORDS tag is empty").AtLine(h.keywordsLine)}
	}

	var issues []diag.Issue
	if len(h.keywords) < minKeywords {
		issues = append(issues, diag.Warning("KEYWORDS should include at least 3 entries").AtLine(h.keywordsLine))
	}
	if len(h.keywords) > maxKeywords {
		issues = append(issues, diag.Warning("KEYWORDS should include at most 10 entries").AtLine(h.keywordsLine))
	}

	seen := make(map[string]bool)
	var dupes []string
	for _, k := range h.keywords {
		key := strings.ToLower(k)
		if seen[key] && !slices.Contains(dupes, k) {
			dupes = append(dupes, k)
		}
		seen[key] = true
	}
	if len(dupes) > 0 {
		slices.Sort(dupes)
		msg := "KEYWORDS contains duplicates: " + strings.Join(dupes, ", ")
		issues = append(issues, diag.Warning(msg).AtLine(h.keywordsLine))
	}
	return issues
}

func (h *header) tagIssues() []diag.Issue {
	var issues []diag.Issue
	for _, name := range []string{"DBsubject", "DBchapter", "DBsection"} {
		tag, ok := h.tags[name]
		if !ok {
			issues = append(issues, diag.Warning(fmt.Sprintf("Missing %s tag in header", name)).AtLine(1))
			continue
		}
		if name == "DBsubject" {
			if noisySubjects[tag.value] {
				msg := fmt.Sprintf("DBsubject '%s' is a placeholder or noisy value", tag.value)
				issues = append(issues, diag.Warning(msg).AtLine(tag.line))
			}
			continue
		}
		if tag.value == "" {
			issues = append(issues, diag.Warning(name+" is empty").AtLine(tag.line))
		}
		if placeholderRx.MatchString(tag.value) {
			issues = append(issues, diag.Warning(name+" uses placeholder reference text").AtLine(tag.line))
		}
	}
	return issues
}

// parseKeywords splits the inside of KEYWORDS(...). Quoted entries win;
// otherwise the list is split on commas.
func parseKeywords(raw string) []string {
	var out []string
	for _, m := range quotedKeywordRx.FindAllStringSubmatch(raw, -1) {
		if v := strings.TrimSpace(m[1]); v != "" {
			out = append(out, v)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, chunk := range strings.Split(raw, ",") {
		if v := strings.Trim(strings.TrimSpace(chunk), `'"`); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// tagValue returns the trimmed, unquoted value of "## tag(value)".
func tagValue(line, tag string) (string, bool) {
	if !strings.HasPrefix(line, "## "+tag) {
		return "", false
	}
	open := strings.IndexByte(line, '(')
	end := strings.LastIndexByte(line, ')')
	if open < 0 || end <= open {
		return "", true
	}
	value := strings.TrimSpace(line[open+1 : end])
	if len(value) >= 2 && strings.ContainsRune(`'"`, rune(value[0])) && strings.ContainsRune(`'"`, rune(value[len(value)-1])) {
		value = strings.TrimSpace(value[1 : len(value)-1])
	}
	return value, true
}
