package textobj

import (
	"fmt"
	"sort"

	"github.com/panbanda/functextobj/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Resolved is a located function together with both of its ranges. It is
// tied to the snapshot it was computed from and must not outlive an edit.
type Resolved struct {
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Language parser.Language `json:"language"`
	Inner    Span            `json:"inner"`
	Around   Span            `json:"around"`
	HasBody  bool            `json:"has_body"`

	Node           *sitter.Node   `json:"-"`
	Classification Classification `json:"-"`

	fingerprint uint64
	size        int
}

// Locate finds the innermost function enclosing offset. Offsets outside the
// document are clamped to it.
func Locate(result *parser.ParseResult, offset int, a Adapter) (*Resolved, error) {
	if a == nil {
		lang := parser.LangUnknown
		if result != nil {
			lang = result.Language
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	if result == nil || result.Tree == nil {
		return nil, ErrNoEnclosingFunction
	}

	src := result.Source
	if len(src) == 0 {
		return nil, ErrNoEnclosingFunction
	}
	offset = min(max(offset, 0), len(src)-1)

	_, node := parser.DeepestNodeAt(result.Tree.RootNode(), uint32(offset))
	for n := node; n != nil; n = n.Parent() {
		c := a.Classify(n, src)
		if c.IsFunction {
			return resolve(result, c), nil
		}
	}
	return nil, fmt.Errorf("%w at offset %d", ErrNoEnclosingFunction, offset)
}

// Functions returns every function in the document in source order. A
// function reached through a wrapper is reported once.
func Functions(result *parser.ParseResult, a Adapter) []*Resolved {
	if a == nil || result == nil || result.Tree == nil {
		return nil
	}

	candidate := func(string) bool { return true }
	if ga, ok := a.(*grammarAdapter); ok {
		candidate = ga.candidate
	}

	src := result.Source
	seen := make(map[Span]bool)
	var out []*Resolved
	parser.WalkTyped(result.Tree.RootNode(), src, func(n *sitter.Node, kind string, src []byte) bool {
		if !candidate(kind) {
			return true
		}
		c := a.Classify(n, src)
		if !c.IsFunction || seen[c.Extent] {
			return true
		}
		seen[c.Extent] = true
		out = append(out, resolve(result, c))
		return true
	})

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Around.Start != out[j].Around.Start {
			return out[i].Around.Start < out[j].Around.Start
		}
		return out[i].Around.End > out[j].Around.End
	})
	return out
}

func resolve(result *parser.ParseResult, c Classification) *Resolved {
	inner, around := Compute(c, result.Source)
	return &Resolved{
		Name:           c.Name,
		Kind:           c.Kind,
		Language:       result.Language,
		Inner:          inner,
		Around:         around,
		HasBody:        c.HasBody,
		Node:           c.Node,
		Classification: c,
		fingerprint:    result.Fingerprint,
		size:           len(result.Source),
	}
}

// Span returns the inner or around range.
func (r *Resolved) Span(kind Kind) Span {
	if kind == Around {
		return r.Around
	}
	return r.Inner
}

// Fresh reports whether text is still the document r was resolved against.
func (r *Resolved) Fresh(text []byte) bool {
	return len(text) == r.size && parser.Fingerprint(text) == r.fingerprint
}
