package editor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadKey is returned for malformed key notation.
var ErrBadKey = errors.New("invalid key notation")

// Special keys, written in angle-bracket notation.
const (
	KeyEsc       = "<Esc>"
	KeyEnter     = "<CR>"
	KeyBackspace = "<BS>"
)

var specialKeys = map[string]string{
	"esc":       KeyEsc,
	"escape":    KeyEsc,
	"cr":        KeyEnter,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"bs":        KeyBackspace,
	"backspace": KeyBackspace,
	"lt":        "<",
	"tab":       "\t",
	"space":     " ",
}

// ParseKeys splits a key script into keys. Plain characters are one key
// each; `<Esc>`, `<CR>`, `<BS>`, `<Tab>`, `<Space>` and `<lt>` (a literal
// '<') are recognized case-insensitively.
func ParseKeys(script string) ([]string, error) {
	var keys []string
	rest := script
	for rest != "" {
		if rest[0] == '<' {
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated %q", ErrBadKey, rest)
			}
			name := strings.ToLower(rest[1:end])
			key, ok := specialKeys[name]
			if !ok {
				return nil, fmt.Errorf("%w: unknown key %q", ErrBadKey, rest[:end+1])
			}
			keys = append(keys, key)
			rest = rest[end+1:]
			continue
		}
		r := []rune(rest)[0]
		keys = append(keys, string(r))
		rest = rest[len(string(r)):]
	}
	return keys, nil
}
