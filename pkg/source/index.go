// Package source provides byte-offset bookkeeping for PG problem files:
// a newline index for offset to line/column conversion, and the Region and
// Span range types shared by every scanner.
package source

import "sort"

// Index maps byte offsets of one immutable text to 1-based lines and columns.
// It holds the offset of every newline byte in ascending order.
type Index struct {
	newlines []int
	size     int
}

// BuildIndex scans text once and records the offset of every '\n'.
func BuildIndex(text string) *Index {
	idx := &Index{size: len(text)}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx.newlines = append(idx.newlines, i)
		}
	}
	return idx
}

// LineCount returns the number of lines, counting a trailing partial line.
func (x *Index) LineCount() int {
	return len(x.newlines) + 1
}

// LineOf returns the 1-based line containing offset.
// A newline byte belongs to the line it starts, so the offset of the final
// newline maps one past the last terminated line. Negative offsets clamp to
// the first line and offsets past the end clamp to the last line.
func (x *Index) LineOf(offset int) int {
	if offset < 0 {
		offset = 0
	}
	return sort.Search(len(x.newlines), func(i int) bool {
		return x.newlines[i] > offset
	}) + 1
}

// ColumnOf returns the 1-based byte column of offset. It never returns less
// than 1.
func (x *Index) ColumnOf(offset int) int {
	if offset < 0 {
		offset = 0
	}
	line := x.LineOf(offset)
	start := x.LineStart(line)
	col := offset - start + 1
	if col < 1 {
		return 1
	}
	return col
}

// Position converts offset to a line/column pair.
func (x *Index) Position(offset int) Position {
	return Position{Line: x.LineOf(offset), Column: x.ColumnOf(offset)}
}

// LineStart returns the offset of the first byte of a 1-based line.
func (x *Index) LineStart(line int) int {
	if line <= 1 || len(x.newlines) == 0 {
		return 0
	}
	if line-2 >= len(x.newlines) {
		return x.newlines[len(x.newlines)-1] + 1
	}
	return x.newlines[line-2] + 1
}

// LineEnd returns the offset just past the last byte of a 1-based line,
// excluding its newline.
func (x *Index) LineEnd(line int) int {
	if line < 1 {
		line = 1
	}
	if line-1 < len(x.newlines) {
		return x.newlines[line-1]
	}
	return x.size
}
