package textobj

// Compute derives the inner and around ranges of a classified function.
//
// Inner is the body, or the signature of a stub. Around starts at the leading
// comment block (or the signature) and ends after the function's last line.
//
// Blank lines after the function are absorbed when a blank line separates
// it from what precedes it. At the end of the file every trailing blank line
// goes with the function, leaving the file ending where the code before it
// ends. When nothing blank follows but a blank line precedes, as for the last
// member of a block, the blank lines above are taken instead.
func Compute(c Classification, src []byte) (inner, around Span) {
	if c.Body != nil {
		inner = *c.Body
	} else {
		inner = c.Signature
	}

	start := c.Signature.Start
	if c.Leading != nil {
		start = c.Leading.Start
	}
	if onlySpaceBefore(src, start) {
		start = lineStart(src, start)
	}

	end := c.Extent.End
	if end > 0 && src[end-1] != '\n' && onlySpaceAfter(src, end) {
		end = nextLine(src, end)
	}
	if end == lineStart(src, end) {
		blanks := skipBlankLines(src, end)
		switch {
		case blanks == len(src) && (blanks > end || !nested(src, start)):
			end = blanks
		case !blankLineAbove(src, start) || start != lineStart(src, start):
		case blanks > end:
			end = blanks
		default:
			start = blankLinesAbove(src, start)
		}
	}

	around = Span{Start: start, End: end}
	inner = inner.Clamp(len(src))
	if !around.ContainsSpan(inner) {
		around = Span{Start: min(around.Start, inner.Start), End: max(around.End, inner.End)}
	}
	return inner, around
}

// skipBlankLines returns the start of the first non-blank line at or after
// offset, which must be a line start, or len(src).
func skipBlankLines(src []byte, offset int) int {
	for offset < len(src) {
		end := lineEnd(src, offset)
		if !isBlank(src[offset:end]) {
			return offset
		}
		offset = nextLine(src, offset)
	}
	return offset
}

// blankLineAbove reports whether the line before the one holding offset is
// blank. The first line has nothing above it.
func blankLineAbove(src []byte, offset int) bool {
	ls := lineStart(src, offset)
	if ls == 0 {
		return false
	}
	prev := lineStart(src, ls-1)
	return isBlank(src[prev : ls-1])
}

// blankLinesAbove returns the start of the run of blank lines directly above
// the line holding offset.
func blankLinesAbove(src []byte, offset int) int {
	ls := lineStart(src, offset)
	for blankLineAbove(src, ls) {
		ls = lineStart(src, ls-1)
	}
	return ls
}

// nested reports whether the line holding offset is indented.
func nested(src []byte, offset int) bool {
	ls := lineStart(src, offset)
	return ls < len(src) && isSpace(src[ls]) && src[ls] != '\n'
}
