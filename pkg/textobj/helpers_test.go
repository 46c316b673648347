package textobj

import (
	"strings"
	"testing"

	"github.com/panbanda/functextobj/pkg/parser"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, lang parser.Language, src string) *parser.ParseResult {
	t.Helper()
	p := parser.New()
	t.Cleanup(p.Close)
	result, err := p.Parse([]byte(src), lang, "")
	require.NoError(t, err)
	return result
}

func offsetOf(t *testing.T, src, needle string) int {
	t.Helper()
	i := strings.Index(src, needle)
	require.GreaterOrEqual(t, i, 0, "%q not found", needle)
	return i
}

// locateAt parses src and resolves the function around the first occurrence
// of needle.
func locateAt(t *testing.T, lang parser.Language, src, needle string, opts ...Option) *Resolved {
	t.Helper()
	result := parse(t, lang, src)
	r, err := Locate(result, offsetOf(t, src, needle), ForLanguage(lang, opts...))
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

// memDoc is a minimal Document over a byte slice.
type memDoc struct {
	text      []byte
	cursor    int
	selection *Span
	register  string
	linewise  bool
	groups    []string
	open      int
	failWith  error
}

func newMemDoc(src string) *memDoc {
	return &memDoc{text: []byte(src)}
}

func (d *memDoc) Text() []byte         { return d.text }
func (d *memDoc) Cursor() int          { return d.cursor }
func (d *memDoc) SetCursor(offset int) { d.cursor = offset }
func (d *memDoc) Select(s Span)        { d.selection = &s }

func (d *memDoc) Replace(s Span, text string) error {
	if d.failWith != nil {
		return d.failWith
	}
	out := make([]byte, 0, len(d.text)-s.Len()+len(text))
	out = append(out, d.text[:s.Start]...)
	out = append(out, text...)
	out = append(out, d.text[s.End:]...)
	d.text = out
	return nil
}

func (d *memDoc) SetRegister(text string, linewise bool) {
	d.register = text
	d.linewise = linewise
}

func (d *memDoc) BeginUndoGroup(name string) {
	d.groups = append(d.groups, name)
	d.open++
}

func (d *memDoc) EndUndoGroup() { d.open-- }
