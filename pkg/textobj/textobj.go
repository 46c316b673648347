package textobj

import (
	"fmt"
	"strings"

	"github.com/panbanda/functextobj/pkg/parser"
)

// Kind selects the inner or around range of a function.
type Kind int

const (
	Inner Kind = iota
	Around
)

func (k Kind) String() string {
	if k == Around {
		return "around"
	}
	return "inner"
}

// ParseKind accepts "inner"/"i" and "around"/"a".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inner", "i", "if":
		return Inner, nil
	case "around", "a", "af":
		return Around, nil
	}
	return Inner, fmt.Errorf("%w: text object %q", ErrUnknownOperation, s)
}

// Operation is what a text object invocation does with its range.
type Operation int

const (
	Select Operation = iota
	Change
	Delete
	Yank
)

var operationNames = map[Operation]string{
	Select: "select",
	Change: "change",
	Delete: "delete",
	Yank:   "yank",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// ParseOperation accepts operation names and their vim operator keys
// (v, c, d, y).
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "select", "v":
		return Select, nil
	case "change", "c":
		return Change, nil
	case "delete", "d":
		return Delete, nil
	case "yank", "y":
		return Yank, nil
	}
	return Select, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// Outcome reports what an invocation did. When Applied is false the document
// was not modified and Err says why.
type Outcome struct {
	Applied   bool      `json:"applied"`
	Cursor    int       `json:"cursor"`
	Selection *Span     `json:"selection,omitempty"`
	Span      Span      `json:"span"`
	Text      string    `json:"text"`
	Target    *Resolved `json:"target,omitempty"`
	Err       error     `json:"-"`
}

// ResolveAndApply locates the function enclosing cursor in result and applies
// op to its inner or around range. result must be parsed from doc's current
// text.
func ResolveAndApply(result *parser.ParseResult, doc Document, cursor int, kind Kind, op Operation, opts ...Option) Outcome {
	if result == nil {
		return Outcome{Cursor: doc.Cursor(), Err: ErrNoEnclosingFunction}
	}
	if !result.Matches(doc.Text()) {
		return Outcome{Cursor: doc.Cursor(), Err: ErrStaleTree}
	}

	r, err := Locate(result, cursor, ForLanguage(result.Language, opts...))
	if err != nil {
		return Outcome{Cursor: doc.Cursor(), Err: err}
	}
	return Apply(doc, r, kind, op)
}
