package textobj

import (
	"bytes"
	"fmt"
)

// Span is a half-open [Start, End) byte range into a document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Position is a zero-based line/column pair. Column counts bytes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// ContainsSpan reports whether other lies entirely within s.
func (s Span) ContainsSpan(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Text returns the bytes of src covered by the span, clamped to src.
func (s Span) Text(src []byte) string {
	c := s.Clamp(len(src))
	return string(src[c.Start:c.End])
}

// Clamp limits the span to [0, n].
func (s Span) Clamp(n int) Span {
	start := min(max(s.Start, 0), n)
	end := min(max(s.End, start), n)
	return Span{Start: start, End: end}
}

// Lines returns the zero-based first and last line touched by the span.
// A span ending right after a newline does not touch the following line.
func (s Span) Lines(src []byte) (first, last int) {
	c := s.Clamp(len(src))
	first = bytes.Count(src[:c.Start], []byte{'\n'})
	end := c.End
	if end > c.Start && src[end-1] == '\n' {
		end--
	}
	last = bytes.Count(src[:end], []byte{'\n'})
	return first, last
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// OffsetToPosition converts a byte offset to a line/column pair.
func OffsetToPosition(src []byte, offset int) Position {
	offset = min(max(offset, 0), len(src))
	line := bytes.Count(src[:offset], []byte{'\n'})
	col := offset - (bytes.LastIndexByte(src[:offset], '\n') + 1)
	return Position{Line: line, Column: col}
}

// PositionToOffset converts a line/column pair to a byte offset. Columns past
// the end of the line clamp to the line end; lines past the end clamp to EOF.
func PositionToOffset(src []byte, pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	start := 0
	for range pos.Line {
		i := bytes.IndexByte(src[start:], '\n')
		if i < 0 {
			return len(src)
		}
		start += i + 1
	}
	end := lineEnd(src, start)
	return min(start+max(pos.Column, 0), end)
}

// lineStart returns the offset of the first byte of the line containing offset.
func lineStart(src []byte, offset int) int {
	offset = min(max(offset, 0), len(src))
	return bytes.LastIndexByte(src[:offset], '\n') + 1
}

// lineEnd returns the offset of the newline ending the line containing
// offset, or len(src) for the last line.
func lineEnd(src []byte, offset int) int {
	offset = min(max(offset, 0), len(src))
	if i := bytes.IndexByte(src[offset:], '\n'); i >= 0 {
		return offset + i
	}
	return len(src)
}

// nextLine returns the offset just past the newline ending the line
// containing offset, or len(src).
func nextLine(src []byte, offset int) int {
	end := lineEnd(src, offset)
	if end < len(src) {
		return end + 1
	}
	return end
}

func isBlank(b []byte) bool {
	return len(bytes.TrimSpace(b)) == 0
}

// onlySpaceBefore reports whether offset is preceded on its line by
// whitespace only.
func onlySpaceBefore(src []byte, offset int) bool {
	return isBlank(src[lineStart(src, offset):offset])
}

// onlySpaceAfter reports whether the rest of the line after offset is
// whitespace only.
func onlySpaceAfter(src []byte, offset int) bool {
	return isBlank(src[offset:lineEnd(src, offset)])
}

// trimSpaceLeft moves offset backwards over whitespace, not below floor.
func trimSpaceLeft(src []byte, offset, floor int) int {
	for offset > floor && isSpace(src[offset-1]) {
		offset--
	}
	return offset
}

// trimSpaceRight moves offset forwards over whitespace, not past ceil.
func trimSpaceRight(src []byte, offset, ceil int) int {
	ceil = min(ceil, len(src))
	for offset < ceil && isSpace(src[offset]) {
		offset++
	}
	return offset
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
