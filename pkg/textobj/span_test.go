package textobj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpan(t *testing.T) {
	s := Span{Start: 2, End: 5}
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.IsEmpty())
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(5))
	assert.True(t, s.ContainsSpan(Span{Start: 3, End: 5}))
	assert.False(t, s.ContainsSpan(Span{Start: 1, End: 4}))
	assert.Equal(t, "[2,5)", s.String())
	assert.Equal(t, "cde", s.Text([]byte("abcdefg")))
	assert.Equal(t, "c", s.Text([]byte("abc")))
	assert.Equal(t, Span{Start: 3, End: 3}, Span{Start: 7, End: 2}.Clamp(3))
	assert.True(t, Span{Start: 4, End: 4}.IsEmpty())
}

func TestSpan_Lines(t *testing.T) {
	src := []byte("a\nbb\nccc\n")

	first, last := Span{Start: 2, End: 9}.Lines(src)
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, last)

	first, last = Span{Start: 0, End: 1}.Lines(src)
	assert.Equal(t, 0, first)
	assert.Equal(t, 0, last)
}

func TestPositions(t *testing.T) {
	src := []byte("ab\n\tcd\n")

	assert.Equal(t, Position{Line: 0, Column: 0}, OffsetToPosition(src, 0))
	assert.Equal(t, Position{Line: 1, Column: 2}, OffsetToPosition(src, 5))
	assert.Equal(t, Position{Line: 2, Column: 0}, OffsetToPosition(src, 100))

	assert.Equal(t, 5, PositionToOffset(src, Position{Line: 1, Column: 2}))
	assert.Equal(t, 6, PositionToOffset(src, Position{Line: 1, Column: 40}))
	assert.Equal(t, 7, PositionToOffset(src, Position{Line: 2, Column: 3}))
	assert.Equal(t, len(src), PositionToOffset(src, Position{Line: 9}))
	assert.Equal(t, 0, PositionToOffset(src, Position{Line: -1}))
}

func TestLineHelpers(t *testing.T) {
	src := []byte("one\n  \n  two\n")

	assert.Equal(t, 4, lineStart(src, 5))
	assert.Equal(t, 6, lineEnd(src, 4))
	assert.Equal(t, 7, nextLine(src, 4))
	assert.Equal(t, len(src), nextLine(src, len(src)))
	assert.True(t, onlySpaceBefore(src, 9))
	assert.False(t, onlySpaceBefore(src, 10))
	assert.True(t, onlySpaceAfter(src, 3))
	assert.Equal(t, 3, trimSpaceLeft(src, 9, 0))
	assert.Equal(t, 8, trimSpaceLeft(src, 9, 8))
	assert.Equal(t, 7, skipBlankLines(src, 4))
	assert.True(t, blankLineAbove(src, 9))
	assert.False(t, blankLineAbove(src, 2))
}
