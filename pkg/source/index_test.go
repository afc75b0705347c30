package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/pgmllint/pkg/source"
)

func TestIndex_LineOf(t *testing.T) {
	t.Parallel()

	idx := source.BuildIndex("a\nb\nc\n")

	tests := []struct {
		offset int
		want   int
	}{
		{offset: 0, want: 1},
		{offset: 1, want: 2},
		{offset: 2, want: 2},
		{offset: 4, want: 3},
		{offset: 5, want: 4},
		{offset: 99, want: 4},
		{offset: -3, want: 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, idx.LineOf(tt.offset), "offset %d", tt.offset)
	}
}

func TestBuildIndex(t *testing.T) {
	t.Parallel()

	text := "ab\ncd\n\nef"
	idx := source.BuildIndex(text)

	require.Equal(t, 4, idx.LineCount())
	assert.Equal(t, []int{0, 3, 6, 7}, []int{idx.LineStart(1), idx.LineStart(2), idx.LineStart(3), idx.LineStart(4)})

	assert.Equal(t, source.Position{Line: 1, Column: 1}, idx.Position(0))
	assert.Equal(t, source.Position{Line: 2, Column: 2}, idx.Position(4))
	assert.Equal(t, source.Position{Line: 4, Column: 2}, idx.Position(8))
}

func TestIndex_LineBounds(t *testing.T) {
	t.Parallel()

	text := "one\ntwo\nthree"
	idx := source.BuildIndex(text)

	assert.Equal(t, "one", text[idx.LineStart(1):idx.LineEnd(1)])
	assert.Equal(t, "two", text[idx.LineStart(2):idx.LineEnd(2)])
	assert.Equal(t, "three", text[idx.LineStart(3):idx.LineEnd(3)])
}

func TestIndex_EmptyText(t *testing.T) {
	t.Parallel()

	idx := source.BuildIndex("")

	assert.Equal(t, 1, idx.LineOf(0))
	assert.Equal(t, 1, idx.ColumnOf(0))
	assert.Equal(t, 1, idx.LineCount())
}

func TestMask(t *testing.T) {
	t.Parallel()

	mask := source.Mask(6, []source.Span{{Start: 1, End: 3}}, []source.Span{{Start: 5, End: 9}})
	assert.Equal(t, []bool{false, true, true, false, false, true}, mask)
}

func TestRegion_Abs(t *testing.T) {
	t.Parallel()

	r := source.Region{Kind: "BEGIN_PGML", Start: 10, End: 40}
	assert.Equal(t, source.Span{Start: 13, End: 15}, r.Abs(source.Span{Start: 3, End: 5}))
	assert.Equal(t, "", r.Text("short"))
}
