package source

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if both line and column are positive.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Region is a half-open byte range [Start, End) of the whole text,
// tagged with what the range holds (a block kind such as "BEGIN_PGML", or
// "HEREDOC_PGML" for a formatter heredoc body).
type Region struct {
	Kind  string
	Start int
	End   int
}

// Len returns the length of the region in bytes.
func (r Region) Len() int {
	return r.End - r.Start
}

// Text returns the slice of text covered by the region.
func (r Region) Text(text string) string {
	start, end := clampRange(r.Start, r.End, len(text))
	return text[start:end]
}

// Abs converts a region-relative span to an absolute one.
func (r Region) Abs(s Span) Span {
	return Span{Start: r.Start + s.Start, End: r.Start + s.End}
}

// Span is a half-open byte range relative to the region that contains it.
// Add the enclosing region's Start before resolving a position.
type Span struct {
	Start int
	End   int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Mask marks every offset covered by spans in a boolean slice of length n.
// Spans are clamped to [0, n).
func Mask(n int, spans ...[]Span) []bool {
	mask := make([]bool, n)
	for _, group := range spans {
		for _, s := range group {
			start, end := clampRange(s.Start, s.End, n)
			for i := start; i < end; i++ {
				mask[i] = true
			}
		}
	}
	return mask
}

func clampRange(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}
