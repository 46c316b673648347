package textobj

import (
	"github.com/panbanda/functextobj/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// attachAbove walks upward from offset, line by line, absorbing nodes of an
// accepted kind that sit alone on their lines at no deeper indentation than
// indent. It stops at the first blank line or at anything else, and returns
// the start of the topmost absorbed node (offset when none).
func attachAbove(root *sitter.Node, src []byte, offset, indent int, accept kinds) int {
	if len(accept) == 0 || root == nil {
		return offset
	}

	start := offset
	for {
		ls := lineStart(src, start)
		if ls == 0 {
			return start
		}
		prev := lineStart(src, ls-1)
		if isBlank(src[prev : ls-1]) {
			return start
		}

		first := prev
		for first < ls-1 && isSpace(src[first]) {
			first++
		}
		n := acceptedAt(root, first, ls, accept)
		if n == nil {
			return start
		}

		nEnd := int(n.EndByte())
		nStart := trimSpaceRight(src, int(n.StartByte()), nEnd)
		if nStart-lineStart(src, nStart) > indent ||
			!onlySpaceBefore(src, nStart) ||
			(nEnd < ls && !onlySpaceAfter(src, nEnd)) {
			return start
		}
		start = nStart
	}
}

// acceptedAt climbs from the node at offset to the nearest ancestor of an
// accepted kind that ends before limit.
func acceptedAt(root *sitter.Node, offset, limit int, accept kinds) *sitter.Node {
	_, n := parser.DeepestNodeAt(root, uint32(offset))
	for ; n != nil; n = n.Parent() {
		if int(n.EndByte()) > limit {
			return nil
		}
		if accept[n.Type()] {
			return n
		}
	}
	return nil
}
