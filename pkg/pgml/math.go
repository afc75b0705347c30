package pgml

import (
	"strings"

	"github.com/yaklabco/pgmllint/pkg/source"
)

// ExtractMathSpans finds math spans: [`...`], [``...``], [:...:] and
// [::...::] (any run of the delimiter closes with the same run). Openers
// at masked offsets are skipped; an unclosed opener produces no span.
func ExtractMathSpans(body string, mask []bool) []source.Span {
	return delimitedSpans(body, mask, "`:")
}

// ExtractVerbatimSpans finds verbatim [|...|] and comment [%...%] spans,
// whose interiors are not markup.
func ExtractVerbatimSpans(body string, mask []bool) []source.Span {
	return delimitedSpans(body, mask, "|%")
}

func delimitedSpans(body string, mask []bool, delims string) []source.Span {
	var spans []source.Span
	for i := 0; i+1 < len(body); i++ {
		if body[i] != '[' || !strings.ContainsRune(delims, rune(body[i+1])) {
			continue
		}
		if (i < len(mask) && mask[i]) || escaped(body, i) {
			continue
		}
		delim := body[i+1]
		run := 1
		for i+1+run < len(body) && body[i+1+run] == delim {
			run++
		}
		closer := strings.Repeat(string(delim), run) + "]"
		from := i + 1 + run
		rel := strings.Index(body[from:], closer)
		if rel < 0 {
			continue
		}
		end := from + rel + len(closer)
		spans = append(spans, source.Span{Start: i, End: end})
		i = end - 1
	}
	return spans
}
