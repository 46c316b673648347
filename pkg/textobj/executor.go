package textobj

import (
	"fmt"
)

// Document is the host editor state an operation reads and mutates.
type Document interface {
	Text() []byte
	Cursor() int
	SetCursor(offset int)
	Select(s Span)
	// Replace swaps the bytes of s for text. It must either apply the whole
	// edit or leave the document untouched.
	Replace(s Span, text string) error
	SetRegister(text string, linewise bool)
	BeginUndoGroup(name string)
	EndUndoGroup()
}

// Apply performs op on the inner or around range of r. The document must
// still hold the exact text r was resolved against.
func Apply(doc Document, r *Resolved, kind Kind, op Operation) Outcome {
	out := Outcome{Cursor: doc.Cursor(), Target: r}
	if r == nil {
		out.Err = ErrNoEnclosingFunction
		return out
	}

	text := doc.Text()
	if !r.Fresh(text) {
		out.Err = ErrStaleTree
		return out
	}

	span := r.Span(kind).Clamp(len(text))
	if op == Change && kind == Around {
		// The leading comment survives a change.
		span = Span{Start: r.Classification.Signature.Start, End: r.Classification.Extent.End}.Clamp(len(text))
	}
	out.Span = span
	out.Text = span.Text(text)

	switch op {
	case Select:
		doc.Select(span)
		out.Selection = &span
		out.Cursor = max(span.End-1, span.Start)
		doc.SetCursor(out.Cursor)

	case Yank:
		doc.SetRegister(out.Text, linewise(text, span))

	case Delete, Change:
		doc.BeginUndoGroup(fmt.Sprintf("%s %s function", op, kind))
		defer doc.EndUndoGroup()

		if err := doc.Replace(span, ""); err != nil {
			out.Err = fmt.Errorf("%s %s function: %w", op, kind, err)
			return out
		}
		doc.SetRegister(out.Text, op == Delete && linewise(text, span))
		out.Cursor = span.Start
		if remaining := len(text) - span.Len(); op == Delete && out.Cursor >= remaining {
			// Normal mode cannot rest past the last character.
			out.Cursor = max(remaining-1, 0)
		}
		doc.SetCursor(out.Cursor)

	default:
		out.Err = fmt.Errorf("%w: %d", ErrUnknownOperation, int(op))
		return out
	}

	out.Applied = true
	return out
}

// linewise reports whether span covers whole lines of text.
func linewise(text []byte, span Span) bool {
	if span.IsEmpty() || span.Start != lineStart(text, span.Start) {
		return false
	}
	return span.End == len(text) || text[span.End-1] == '\n'
}
