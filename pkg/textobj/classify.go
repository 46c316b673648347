package textobj

import (
	"bytes"
	"strings"

	"github.com/panbanda/functextobj/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// grammarAdapter is the table-driven Adapter shared by every language.
type grammarAdapter struct {
	g       *grammar
	lambdas bool
}

func (a *grammarAdapter) Language() parser.Language {
	return a.g.lang
}

// Classify implements Adapter.
func (a *grammarAdapter) Classify(node *sitter.Node, src []byte) Classification {
	if !usable(node, src) {
		return Classification{}
	}

	g := a.g
	kind := node.Type()
	switch {
	case g.wrappers[kind]:
		if fn := a.wrapped(node); fn != nil {
			return a.Classify(fn, src)
		}
	case g.functions[kind]:
		return a.classify(node, node, src)
	case g.bindings[kind]:
		if value := a.boundFunction(node); value != nil {
			return a.classify(node, value, src)
		}
	case g.prototypes[kind]:
		if hasFunctionDeclarator(node) {
			return a.classify(node, nil, src)
		}
	case g.stubs[kind]:
		return a.classify(node, nil, src)
	case g.lambdas[kind] && a.lambdas:
		return a.classify(node, node, src)
	}
	return Classification{}
}

// candidate reports whether nodes of kind can classify as functions at all.
func (a *grammarAdapter) candidate(kind string) bool {
	g := a.g
	return g.functions[kind] || g.stubs[kind] || g.prototypes[kind] ||
		g.bindings[kind] || g.wrappers[kind] || (a.lambdas && g.lambdas[kind])
}

// usable rejects nil, ERROR and MISSING nodes and nodes whose range falls
// outside src.
func usable(node *sitter.Node, src []byte) bool {
	if node == nil || node.IsMissing() || node.Type() == "ERROR" {
		return false
	}
	return node.StartByte() <= node.EndByte() && int(node.EndByte()) <= len(src)
}

// qualifies is the kind-level half of Classify: it reports whether node
// would classify as a function without computing any ranges.
func (a *grammarAdapter) qualifies(node *sitter.Node) bool {
	if node == nil || node.IsMissing() {
		return false
	}
	g := a.g
	kind := node.Type()
	switch {
	case g.wrappers[kind]:
		return a.wrapped(node) != nil
	case g.functions[kind], g.stubs[kind]:
		return true
	case g.bindings[kind]:
		return a.boundFunction(node) != nil
	case g.prototypes[kind]:
		return hasFunctionDeclarator(node)
	case g.lambdas[kind]:
		return a.lambdas
	}
	return false
}

// classify builds the Classification for a function node. host is the node
// owning the body (the node itself, or the bound lambda of a binding); nil
// marks a declaration that never has a body.
func (a *grammarAdapter) classify(node, host *sitter.Node, src []byte) Classification {
	outer := a.outermost(node)
	start := trimSpaceRight(src, int(outer.StartByte()), int(outer.EndByte()))
	indent := start - lineStart(src, start)
	end := trimSpaceLeft(src, contentEnd(outer, a.g.comments, src, indent), start)
	extent := Span{Start: start, End: end}

	c := Classification{
		IsFunction: true,
		Node:       node,
		Kind:       node.Type(),
		Name:       strings.TrimSpace(functionName(node, src)),
		Extent:     extent,
	}

	sigEnd := extent.End
	if host != nil {
		if body, bodyStart, ok := a.body(host, src, indent); ok {
			c.HasBody = true
			c.Body = &body
			sigEnd = trimSpaceLeft(src, bodyStart, extent.Start)
		}
	}

	sigStart, leadStart := a.attached(outer, start, src)
	c.Signature = Span{Start: sigStart, End: sigEnd}
	if leadStart < sigStart {
		c.Leading = &Span{Start: leadStart, End: lineStart(src, sigStart)}
	}
	if host == nil {
		c.Extent.End = terminatorEnd(outer, c.Extent.End, src)
	}
	return c
}

// terminatorEnd extends end over a `;` or `,` that follows a declaration as
// a sibling token on the same line, as in TypeScript interface members.
func terminatorEnd(outer *sitter.Node, end int, src []byte) int {
	next := outer.NextSibling()
	if next == nil || next.IsNamed() {
		return end
	}
	switch next.Type() {
	case ";", ",":
	default:
		return end
	}
	at := int(next.StartByte())
	if at < end || int(next.EndByte()) > len(src) || !isBlank(src[end:at]) || bytes.IndexByte(src[end:at], '\n') >= 0 {
		return end
	}
	return int(next.EndByte())
}

// outermost climbs through wrappers whose single function is node.
func (a *grammarAdapter) outermost(node *sitter.Node) *sitter.Node {
	outer := node
	for p := outer.Parent(); p != nil && a.g.wrappers[p.Type()]; p = p.Parent() {
		fn := a.wrapped(p)
		if fn == nil || !sameNode(fn, outer) {
			break
		}
		outer = p
	}
	return outer
}

// wrapped returns the function carried by a wrapper node, if any.
func (a *grammarAdapter) wrapped(wrapper *sitter.Node) *sitter.Node {
	for i := range int(wrapper.NamedChildCount()) {
		child := wrapper.NamedChild(i)
		if child == nil {
			continue
		}
		kind := child.Type()
		if a.g.comments[kind] || a.g.decorations[kind] {
			continue
		}
		if a.qualifies(child) {
			return child
		}
	}
	return nil
}

// boundFunction returns the anonymous function bound by a single-declarator
// declaration such as `const f = function () {}`.
func (a *grammarAdapter) boundFunction(decl *sitter.Node) *sitter.Node {
	var value *sitter.Node
	declarators := 0
	for i := range int(decl.NamedChildCount()) {
		child := decl.NamedChild(i)
		if child == nil || child.Type() != "variable_declarator" {
			continue
		}
		declarators++
		value = child.ChildByFieldName("value")
	}
	if declarators != 1 || value == nil || !a.g.lambdas[value.Type()] {
		return nil
	}
	return value
}

// body locates the editable body of host. bodyStart is where the body
// syntax begins (the opening brace, `=`, or first statement) and bounds the
// signature.
func (a *grammarAdapter) body(host *sitter.Node, src []byte, indent int) (body Span, bodyStart int, ok bool) {
	if a.g.style == keywordBody {
		if len(a.g.bodyKinds) > 0 {
			return a.keywordBlockBody(host, src)
		}
		return keywordDelimitedBody(host, a.g.headFields)
	}

	node := a.bodyNode(host)
	if node == nil || node.StartByte() == node.EndByte() {
		return Span{}, 0, false
	}
	bodyStart = int(node.StartByte())
	if a.g.style == indentBody {
		return Span{Start: bodyStart, End: contentEnd(node, a.g.comments, src, indent)}, bodyStart, true
	}
	return delimitedInterior(node), bodyStart, true
}

func (a *grammarAdapter) bodyNode(host *sitter.Node) *sitter.Node {
	for _, field := range a.g.bodyFields {
		if n := host.ChildByFieldName(field); n != nil && n.IsNamed() && !n.IsMissing() {
			return n
		}
	}
	for i := range int(host.NamedChildCount()) {
		if n := host.NamedChild(i); n != nil && a.g.bodyKinds[n.Type()] {
			return n
		}
	}
	return nil
}

// delimitedInterior strips `{`/`}` from a block, or the leading `=`/`=>`
// from an expression clause. Anything else is an expression body and is
// returned whole.
func delimitedInterior(n *sitter.Node) Span {
	count := int(n.ChildCount())
	if count >= 2 {
		first := n.Child(0)
		last := n.Child(count - 1)
		switch {
		case first.Type() == "{" && last.Type() == "}":
			return Span{Start: int(first.EndByte()), End: int(last.StartByte())}
		case first.Type() == "=" || first.Type() == "=>":
			return Span{Start: int(n.Child(1).StartByte()), End: int(n.EndByte())}
		}
	}
	return nodeSpan(n)
}

// keywordDelimitedBody covers the children between the declaration head
// (keyword, receiver, name, parameters) and the closing `end`. An empty body
// is a zero-width span at the end of the head.
func keywordDelimitedBody(host *sitter.Node, headFields []string) (Span, int, bool) {
	count := int(host.ChildCount())
	if count == 0 {
		return Span{}, 0, false
	}
	headEnd := int(host.Child(0).EndByte())
	for _, field := range headFields {
		if n := host.ChildByFieldName(field); n != nil && int(n.EndByte()) > headEnd {
			headEnd = int(n.EndByte())
		}
	}

	start, end := -1, -1
	for i := range count {
		child := host.Child(i)
		if child == nil || int(child.StartByte()) < headEnd || child.StartByte() == child.EndByte() {
			continue
		}
		if !child.IsNamed() {
			switch child.Type() {
			case "end", "=", ";", "then", "do":
				continue
			}
		}
		if start < 0 {
			start = int(child.StartByte())
		}
		end = int(child.EndByte())
	}
	if start < 0 {
		return Span{Start: headEnd, End: headEnd}, headEnd, true
	}
	return Span{Start: start, End: end}, start, true
}

// keywordBlockBody is the trimmed span of a named body node ahead of the
// closing keyword. Without statements the body is a zero-width span just
// before the closer.
func (a *grammarAdapter) keywordBlockBody(host *sitter.Node, src []byte) (Span, int, bool) {
	if n := a.bodyNode(host); n != nil {
		start := trimSpaceRight(src, int(n.StartByte()), int(n.EndByte()))
		end := trimSpaceLeft(src, int(n.EndByte()), start)
		if start < end {
			return Span{Start: start, End: end}, start, true
		}
	}
	for i := int(host.ChildCount()) - 1; i >= 0; i-- {
		child := host.Child(i)
		if child != nil && a.g.closers[child.Type()] {
			at := trimSpaceRight(src, int(child.StartByte()), int(child.EndByte()))
			return Span{Start: at, End: at}, at, true
		}
	}
	return Span{}, 0, false
}

// attached returns where the signature starts once decorations directly
// above it are included, and where the leading comment block starts.
func (a *grammarAdapter) attached(outer *sitter.Node, start int, src []byte) (sigStart, leadStart int) {
	if !onlySpaceBefore(src, start) {
		return start, start
	}
	indent := start - lineStart(src, start)
	root := rootOf(outer)

	sigStart = attachAbove(root, src, start, indent, a.g.decorations)
	leading := make(kinds, len(a.g.comments)+len(a.g.decorations))
	for k := range a.g.comments {
		leading[k] = true
	}
	for k := range a.g.decorations {
		leading[k] = true
	}
	leadStart = attachAbove(root, src, sigStart, indent, leading)
	return sigStart, leadStart
}

// hasFunctionDeclarator reports whether a C-style declaration declares a
// function rather than a variable or a function pointer.
func hasFunctionDeclarator(decl *sitter.Node) bool {
	found := false
	for d := decl.ChildByFieldName("declarator"); d != nil; d = d.ChildByFieldName("declarator") {
		switch d.Type() {
		case "function_declarator":
			found = true
		case "parenthesized_declarator", "init_declarator":
			return false
		}
	}
	return found
}

func functionName(n *sitter.Node, src []byte) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return parser.GetNodeText(name, src)
	}
	if d := n.ChildByFieldName("declarator"); d != nil {
		for inner := d.ChildByFieldName("declarator"); inner != nil; inner = d.ChildByFieldName("declarator") {
			d = inner
		}
		return parser.GetNodeText(d, src)
	}
	for i := range int(n.NamedChildCount()) {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "variable_declarator":
			return functionName(child, src)
		case "simple_identifier", "identifier", "name":
			return parser.GetNodeText(child, src)
		}
	}
	return ""
}

// contentEnd is the end of the last token of n, passing over trailing
// comments that start a line at no deeper indentation than indent.
// Indentation grammars hang comments that follow a suite onto the suite;
// those belong to whatever comes next, while deeper ones are still body.
func contentEnd(n *sitter.Node, comments kinds, src []byte, indent int) int {
	for i := int(n.ChildCount()) - 1; i >= 0; i-- {
		child := n.Child(i)
		if child == nil || child.StartByte() == child.EndByte() {
			continue
		}
		if comments[child.Type()] && outdented(src, int(child.StartByte()), indent) {
			continue
		}
		return contentEnd(child, comments, src, indent)
	}
	return int(n.EndByte())
}

// outdented reports whether offset starts its line at an indentation of at
// most indent.
func outdented(src []byte, offset, indent int) bool {
	offset = min(offset, len(src))
	return onlySpaceBefore(src, offset) && offset-lineStart(src, offset) <= indent
}

func nodeSpan(n *sitter.Node) Span {
	return Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func rootOf(n *sitter.Node) *sitter.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		n = p
	}
	return n
}
