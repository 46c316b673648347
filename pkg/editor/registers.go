package editor

import "unicode"

// Unnamed is the default register written by every yank, delete and change.
const Unnamed = '"'

// Register is a named storage location for text.
type Register struct {
	Name    rune
	Content string
	// Linewise content pastes as whole lines.
	Linewise bool
}

// Registers holds the unnamed register, the last-yank register '0' and the
// named registers a-z.
type Registers struct {
	regs map[rune]*Register
}

// NewRegisters creates an empty register store.
func NewRegisters() *Registers {
	rs := &Registers{regs: make(map[rune]*Register)}
	rs.regs[Unnamed] = &Register{Name: Unnamed}
	rs.regs['0'] = &Register{Name: '0'}
	for r := 'a'; r <= 'z'; r++ {
		rs.regs[r] = &Register{Name: r}
	}
	return rs
}

// Get returns the content of a register. Uppercase names read the lowercase
// register; unknown names read as empty.
func (rs *Registers) Get(name rune) Register {
	name = unicode.ToLower(name)
	if reg, ok := rs.regs[name]; ok {
		return *reg
	}
	return Register{Name: name}
}

// Set stores content in a register and mirrors it into the unnamed one.
// '_' discards everything.
func (rs *Registers) Set(name rune, content string, linewise bool) {
	if name == '_' {
		return
	}
	name = unicode.ToLower(name)
	reg, ok := rs.regs[name]
	if !ok {
		return
	}
	reg.Content = content
	reg.Linewise = linewise
	if name != Unnamed {
		rs.regs[Unnamed].Content = content
		rs.regs[Unnamed].Linewise = linewise
	}
}

// SetYank records a yank: it fills the unnamed register and register '0'.
func (rs *Registers) SetYank(content string, linewise bool) {
	rs.Set('0', content, linewise)
}
