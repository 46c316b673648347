package editor

import (
	"fmt"
	"strings"

	"github.com/panbanda/functextobj/pkg/parser"
	"github.com/panbanda/functextobj/pkg/textobj"
)

// Mode is the modal editing state of a Session.
type Mode int

const (
	ModeNormal Mode = iota
	ModeOperatorPending
	ModeVisual
	ModeInsert
)

func (m Mode) String() string {
	switch m {
	case ModeOperatorPending:
		return "operator-pending"
	case ModeVisual:
		return "visual"
	case ModeInsert:
		return "insert"
	default:
		return "normal"
	}
}

// DefaultChar is the key that names the function text object after `i`/`a`.
const DefaultChar = "f"

// Session drives a Buffer with vim-style keys. Text objects are resolved
// against a tree parsed from the buffer at the moment they are invoked.
type Session struct {
	buf  *Buffer
	psr  *parser.Parser
	char string
	opts []textobj.Option

	mode   Mode
	count  int
	op     textobj.Operation
	object string // "i" or "a" while waiting for the object key
	prefix string // "g" or `"` while waiting for the second key
	anchor int

	explicitRegister bool
	insertGroup      bool

	last textobj.Outcome
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTextObjectChar sets the key that follows `i`/`a` to name the function
// text object.
func WithTextObjectChar(c string) SessionOption {
	return func(s *Session) {
		if c != "" {
			s.char = c
		}
	}
}

// WithAdapterOptions passes options through to textobj.ForLanguage.
func WithAdapterOptions(opts ...textobj.Option) SessionOption {
	return func(s *Session) {
		s.opts = append(s.opts, opts...)
	}
}

// NewSession creates a session in normal mode with the cursor at the start
// of buf.
func NewSession(buf *Buffer, opts ...SessionOption) *Session {
	s := &Session{
		buf:  buf,
		psr:  parser.New(),
		char: DefaultChar,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the session's parser.
func (s *Session) Close() {
	s.psr.Close()
}

func (s *Session) Buffer() *Buffer { return s.buf }
func (s *Session) Mode() Mode      { return s.mode }

// LastOutcome returns the result of the most recent text object invocation,
// or of the most recent buffer edit that failed after it.
func (s *Session) LastOutcome() textobj.Outcome { return s.last }

func (s *Session) record(action string, err error) {
	if err != nil {
		s.last = textobj.Outcome{Cursor: s.buf.Cursor(), Err: fmt.Errorf("%s: %w", action, err)}
	}
}

// Feed parses a key script and presses each key in turn.
func (s *Session) Feed(script string) error {
	keys, err := ParseKeys(script)
	if err != nil {
		return err
	}
	for _, key := range keys {
		s.Press(key)
	}
	return nil
}

// Press handles one key. Keys that mean nothing in the current state
// return the session to normal mode.
func (s *Session) Press(key string) {
	if s.mode == ModeInsert {
		s.insertKey(key)
		return
	}

	if s.prefix != "" {
		s.prefixKey(key)
		return
	}
	if s.object != "" {
		s.objectKey(key)
		return
	}
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && (key != "0" || s.count > 0) {
		s.count = s.count*10 + int(key[0]-'0')
		return
	}
	if key == KeyEsc {
		s.toNormal()
		return
	}

	switch s.mode {
	case ModeOperatorPending:
		if key == "i" || key == "a" {
			s.object = key
			return
		}
		s.toNormal()
	case ModeVisual:
		s.visualKey(key)
	default:
		s.normalKey(key)
	}
}

func (s *Session) normalKey(key string) {
	if s.motion(key) {
		return
	}
	switch key {
	case "v":
		s.mode = ModeVisual
		s.anchor = s.buf.Cursor()
		s.extendSelection()
	case "d":
		s.pending(textobj.Delete)
	case "c":
		s.pending(textobj.Change)
	case "y":
		s.pending(textobj.Yank)
	case "p", "P":
		s.explicitRegister = false
		s.record("paste", s.buf.Paste(key == "P"))
	case "u":
		for range max(s.count, 1) {
			if !s.buf.Undo() {
				break
			}
		}
	case "i", "a":
		if key == "a" && s.buf.Cursor() < s.buf.Len() && s.buf.Text()[s.buf.Cursor()] != '\n' {
			s.buf.SetCursor(s.buf.Cursor() + 1)
		}
		s.startInsert("insert")
	case "g", `"`:
		s.prefix = key
		return
	}
	s.count = 0
}

func (s *Session) pending(op textobj.Operation) {
	s.mode = ModeOperatorPending
	s.op = op
}

func (s *Session) visualKey(key string) {
	if s.motion(key) {
		s.extendSelection()
		return
	}
	switch key {
	case "i", "a":
		s.object = key
		return
	case "d", "x", "y", "c":
		s.applySelection(key)
	case "v":
		s.toNormal()
	case "g", `"`:
		s.prefix = key
		return
	}
	s.count = 0
}

func (s *Session) prefixKey(key string) {
	prefix := s.prefix
	s.prefix = ""
	switch prefix {
	case "g":
		if key == "g" {
			s.gotoLine(max(s.count, 1))
			if s.mode == ModeVisual {
				s.extendSelection()
			}
		}
	case `"`:
		if r := []rune(key); len(r) == 1 {
			s.buf.UseRegister(r[0])
			s.explicitRegister = true
		}
	}
	s.count = 0
}

func (s *Session) objectKey(key string) {
	kind := textobj.Inner
	if s.object == "a" {
		kind = textobj.Around
	}
	s.object = ""
	if key != s.char {
		s.toNormal()
		return
	}
	op := textobj.Select
	if s.mode == ModeOperatorPending {
		op = s.op
	}
	s.invoke(kind, op)
	s.count = 0
}

// invoke parses the buffer as it is now and runs the text object.
func (s *Session) invoke(kind textobj.Kind, op textobj.Operation) {
	result, err := s.psr.Parse(s.buf.Text(), s.buf.Language(), s.buf.Path())
	if err != nil {
		s.last = textobj.Outcome{
			Cursor: s.buf.Cursor(),
			Err:    fmt.Errorf("%w: %s", textobj.ErrUnsupportedLanguage, s.buf.Language()),
		}
		s.toNormal()
		return
	}

	if op == textobj.Change {
		s.buf.BeginUndoGroup("change function")
	}
	out := textobj.ResolveAndApply(result, s.buf, s.buf.Cursor(), kind, op, s.opts...)
	s.last = out
	if out.Err != nil {
		if op == textobj.Change {
			s.buf.EndUndoGroup()
		}
		if s.mode != ModeVisual {
			s.toNormal()
		}
		return
	}

	switch op {
	case textobj.Select:
		s.mode = ModeVisual
		s.anchor = out.Span.Start
	case textobj.Change:
		s.mode = ModeInsert
		s.insertGroup = true
	case textobj.Yank:
		if !s.explicitRegister {
			s.buf.Registers().SetYank(out.Text, s.buf.Registers().Get(Unnamed).Linewise)
		}
		s.toNormal()
	default:
		s.toNormal()
	}
	s.explicitRegister = false
}

// applySelection runs a visual-mode operator over the selection.
func (s *Session) applySelection(key string) {
	sel := s.buf.Selection()
	if sel == nil {
		s.toNormal()
		return
	}
	span := *sel
	text := span.Text(s.buf.Text())
	linewise := span.Start == s.buf.LineStart(span.Start) && strings.HasSuffix(text, "\n")

	switch key {
	case "y":
		s.buf.SetRegister(text, linewise)
		if !s.explicitRegister {
			s.buf.Registers().SetYank(text, linewise)
		}
		s.buf.SetCursor(span.Start)
		s.toNormal()
	case "d", "x":
		s.buf.BeginUndoGroup("delete selection")
		s.buf.SetRegister(text, linewise)
		s.record("delete selection", s.buf.Replace(span, ""))
		s.buf.EndUndoGroup()
		s.buf.SetCursor(span.Start)
		s.toNormal()
	case "c":
		s.buf.SetRegister(text, false)
		s.buf.SetCursor(span.Start)
		s.startInsert("change selection")
		s.record("change selection", s.buf.Replace(span, ""))
		s.buf.SetCursor(span.Start)
	}
	s.explicitRegister = false
}

func (s *Session) startInsert(name string) {
	s.buf.ClearSelection()
	s.buf.BeginUndoGroup(name)
	s.insertGroup = true
	s.mode = ModeInsert
}

func (s *Session) insertKey(key string) {
	cursor := s.buf.Cursor()
	switch key {
	case KeyEsc:
		if s.insertGroup {
			s.buf.EndUndoGroup()
			s.insertGroup = false
		}
		if cursor > s.buf.LineStart(cursor) {
			s.buf.SetCursor(cursor - 1)
		}
		s.mode = ModeNormal
	case KeyBackspace:
		if cursor > 0 {
			s.record("backspace", s.buf.Replace(textobj.Span{Start: cursor - 1, End: cursor}, ""))
			s.buf.SetCursor(cursor - 1)
		}
	default:
		if key == KeyEnter {
			key = "\n"
		}
		s.record("insert", s.buf.Insert(cursor, key))
		s.buf.SetCursor(cursor + len(key))
	}
}

// motion moves the cursor for G, j, k, h, l, 0, ^ and $.
func (s *Session) motion(key string) bool {
	pos := s.buf.Position()
	n := max(s.count, 1)
	switch key {
	case "G":
		line := s.buf.LineCount()
		if s.count > 0 {
			line = s.count
		}
		s.gotoLine(line)
	case "j", "k":
		if key == "k" {
			n = -n
		}
		line := min(max(pos.Line+n, 0), s.buf.LineCount()-1)
		offset := textobj.PositionToOffset(s.buf.Text(), textobj.Position{Line: line, Column: pos.Column})
		s.buf.SetCursor(min(offset, s.buf.LastColumn(offset)))
	case "h":
		s.buf.SetCursor(max(s.buf.Cursor()-n, s.buf.LineStart(s.buf.Cursor())))
	case "l":
		s.buf.SetCursor(min(s.buf.Cursor()+n, s.buf.LastColumn(s.buf.Cursor())))
	case "0":
		s.buf.SetCursor(s.buf.LineStart(s.buf.Cursor()))
	case "^":
		s.buf.SetCursor(s.buf.LineOffset(pos.Line))
	case "$":
		s.buf.SetCursor(s.buf.LastColumn(s.buf.Cursor()))
	default:
		return false
	}
	s.count = 0
	return true
}

func (s *Session) gotoLine(line int) {
	s.buf.SetCursor(s.buf.LineOffset(line - 1))
}

func (s *Session) extendSelection() {
	start := min(s.anchor, s.buf.Cursor())
	end := max(s.anchor, s.buf.Cursor()) + 1
	s.buf.Select(textobj.Span{Start: start, End: end})
}

func (s *Session) toNormal() {
	if s.mode == ModeVisual {
		s.buf.ClearSelection()
	}
	s.mode = ModeNormal
	s.count = 0
	s.object = ""
	s.prefix = ""
	s.explicitRegister = false
	s.buf.UseRegister(Unnamed)
}
