package editor

// edit is one reversible replacement: at offset, removed was replaced by
// inserted.
type edit struct {
	at       int
	removed  string
	inserted string
	cursor   int
}

// group is one undo step.
type group struct {
	name  string
	edits []edit
}

// History records edits as undo steps. Groups nest; only the outermost
// group produces a step.
type History struct {
	undo  []group
	open  *group
	depth int
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// BeginGroup starts collecting edits into one undo step.
func (h *History) BeginGroup(name string) {
	if h.depth == 0 {
		h.open = &group{name: name}
	}
	h.depth++
}

// EndGroup closes the innermost group. Closing the outermost group pushes
// the step unless it recorded nothing.
func (h *History) EndGroup() {
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	if len(h.open.edits) > 0 {
		h.undo = append(h.undo, *h.open)
	}
	h.open = nil
}

// InGroup reports whether a group is open.
func (h *History) InGroup() bool {
	return h.depth > 0
}

func (h *History) record(e edit) {
	if h.open != nil {
		h.open.edits = append(h.open.edits, e)
		return
	}
	h.undo = append(h.undo, group{name: "edit", edits: []edit{e}})
}

// CanUndo reports whether there is a step to undo.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// Len returns the number of undo steps.
func (h *History) Len() int {
	return len(h.undo)
}

// LastName returns the name of the most recent undo step.
func (h *History) LastName() string {
	if len(h.undo) == 0 {
		return ""
	}
	return h.undo[len(h.undo)-1].name
}

func (h *History) pop() (group, bool) {
	if len(h.undo) == 0 {
		return group{}, false
	}
	g := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return g, true
}
