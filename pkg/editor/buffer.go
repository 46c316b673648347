package editor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/panbanda/functextobj/pkg/parser"
	"github.com/panbanda/functextobj/pkg/textobj"
)

// ErrOutOfRange is returned for edits that fall outside the buffer.
var ErrOutOfRange = errors.New("range outside buffer")

// Buffer is an in-memory document with a cursor, an optional selection,
// registers and undo history. It implements textobj.Document.
type Buffer struct {
	path string
	lang parser.Language

	text      []byte
	cursor    int
	selection *textobj.Span

	registers *Registers
	history   *History
	// target is the register the next register write goes to.
	target rune
}

var _ textobj.Document = (*Buffer)(nil)

// NewBuffer creates a buffer holding text. The language is detected from
// path when lang is empty.
func NewBuffer(path string, lang parser.Language, text string) *Buffer {
	if lang == "" {
		lang = parser.DetectLanguage(path)
	}
	return &Buffer{
		path:      path,
		lang:      lang,
		text:      []byte(text),
		registers: NewRegisters(),
		history:   NewHistory(),
		target:    Unnamed,
	}
}

func (b *Buffer) Path() string              { return b.path }
func (b *Buffer) Language() parser.Language { return b.lang }
func (b *Buffer) Registers() *Registers     { return b.registers }
func (b *Buffer) History() *History         { return b.history }
func (b *Buffer) String() string            { return string(b.text) }
func (b *Buffer) Len() int                  { return len(b.text) }

// Text returns the buffer contents. Callers must not modify the slice.
func (b *Buffer) Text() []byte { return b.text }

func (b *Buffer) Cursor() int { return b.cursor }

// SetCursor moves the cursor, clamped to [0, len].
func (b *Buffer) SetCursor(offset int) {
	b.cursor = min(max(offset, 0), len(b.text))
}

// Position returns the cursor as a line/column pair.
func (b *Buffer) Position() textobj.Position {
	return textobj.OffsetToPosition(b.text, b.cursor)
}

func (b *Buffer) Select(s textobj.Span) {
	s = s.Clamp(len(b.text))
	b.selection = &s
}

// Selection returns the active selection, or nil.
func (b *Buffer) Selection() *textobj.Span {
	return b.selection
}

// ClearSelection drops the active selection.
func (b *Buffer) ClearSelection() {
	b.selection = nil
}

// Replace swaps the bytes of s for text and records the edit for undo.
func (b *Buffer) Replace(s textobj.Span, text string) error {
	if s.Start < 0 || s.End > len(b.text) || s.Start > s.End {
		return fmt.Errorf("%w: %s of %d bytes", ErrOutOfRange, s, len(b.text))
	}
	b.history.record(edit{
		at:       s.Start,
		removed:  string(b.text[s.Start:s.End]),
		inserted: text,
		cursor:   b.cursor,
	})
	b.splice(s, text)
	b.selection = nil
	return nil
}

// Insert inserts text at offset.
func (b *Buffer) Insert(offset int, text string) error {
	return b.Replace(textobj.Span{Start: offset, End: offset}, text)
}

func (b *Buffer) splice(s textobj.Span, text string) {
	out := make([]byte, 0, len(b.text)-s.Len()+len(text))
	out = append(out, b.text[:s.Start]...)
	out = append(out, text...)
	out = append(out, b.text[s.End:]...)
	b.text = out
}

// SetRegister writes to the register chosen with UseRegister, then falls
// back to the unnamed register.
func (b *Buffer) SetRegister(text string, linewise bool) {
	b.registers.Set(b.target, text, linewise)
	b.target = Unnamed
}

// UseRegister directs the next register write or paste to name.
func (b *Buffer) UseRegister(name rune) {
	b.target = name
}

func (b *Buffer) BeginUndoGroup(name string) { b.history.BeginGroup(name) }
func (b *Buffer) EndUndoGroup()              { b.history.EndGroup() }

// Undo reverts the most recent undo step and restores the cursor it started
// from. It reports false when there is nothing to undo.
func (b *Buffer) Undo() bool {
	g, ok := b.history.pop()
	if !ok {
		return false
	}
	for i := len(g.edits) - 1; i >= 0; i-- {
		e := g.edits[i]
		b.splice(textobj.Span{Start: e.at, End: e.at + len(e.inserted)}, e.removed)
	}
	b.selection = nil
	b.SetCursor(g.edits[0].cursor)
	return true
}

// Paste inserts the register chosen with UseRegister (default unnamed).
// Linewise content goes above (before) or below the cursor line; other
// content goes at (before) or after the cursor.
func (b *Buffer) Paste(before bool) error {
	reg := b.registers.Get(b.target)
	b.target = Unnamed
	if reg.Content == "" {
		return nil
	}

	b.BeginUndoGroup("paste")
	defer b.EndUndoGroup()

	if reg.Linewise {
		content := reg.Content
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		at := b.LineStart(b.cursor)
		if !before {
			at = b.lineEnd(b.cursor)
			if at == len(b.text) {
				content = "\n" + strings.TrimSuffix(content, "\n")
			} else {
				at++
			}
		}
		if err := b.Insert(at, content); err != nil {
			return err
		}
		if content[0] == '\n' {
			at++
		}
		b.SetCursor(b.firstNonBlank(at))
		return nil
	}

	at := b.cursor
	if !before && at < len(b.text) && b.text[at] != '\n' {
		at++
	}
	if err := b.Insert(at, reg.Content); err != nil {
		return err
	}
	b.SetCursor(at + len(reg.Content) - 1)
	return nil
}

// LineCount returns the number of lines; a trailing newline does not start
// a new line.
func (b *Buffer) LineCount() int {
	n := bytes.Count(b.text, []byte{'\n'})
	if len(b.text) > 0 && b.text[len(b.text)-1] != '\n' {
		n++
	}
	return max(n, 1)
}

// LineOffset returns the offset of the first non-blank character of the
// zero-based line, clamped to the last line.
func (b *Buffer) LineOffset(line int) int {
	line = min(max(line, 0), b.LineCount()-1)
	return b.firstNonBlank(textobj.PositionToOffset(b.text, textobj.Position{Line: line}))
}

// LineStart returns the offset of the first byte of the line holding offset.
func (b *Buffer) LineStart(offset int) int {
	offset = min(max(offset, 0), len(b.text))
	return bytes.LastIndexByte(b.text[:offset], '\n') + 1
}

func (b *Buffer) lineEnd(offset int) int {
	offset = min(max(offset, 0), len(b.text))
	if i := bytes.IndexByte(b.text[offset:], '\n'); i >= 0 {
		return offset + i
	}
	return len(b.text)
}

// LastColumn returns the offset of the last character on the cursor's line,
// or the line start for an empty line.
func (b *Buffer) LastColumn(offset int) int {
	start, end := b.LineStart(offset), b.lineEnd(offset)
	return max(end-1, start)
}

func (b *Buffer) firstNonBlank(offset int) int {
	end := b.lineEnd(offset)
	for offset < end && (b.text[offset] == ' ' || b.text[offset] == '\t') {
		offset++
	}
	return offset
}
