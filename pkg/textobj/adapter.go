package textobj

import (
	"sort"

	"github.com/panbanda/functextobj/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Classification describes how an adapter sees a single syntax node.
type Classification struct {
	IsFunction bool
	HasBody    bool

	// Body is the editable body: the interior of a brace block, an indented
	// suite, the statements before a closing `end`, or a bare expression
	// body. Nil for stubs.
	Body *Span

	// Signature runs from the first attached decoration (annotation,
	// attribute, decorator) to the end of the declaration head. For stubs it
	// covers the whole declaration.
	Signature Span

	// Leading covers the comment/decoration lines directly above the
	// signature, with no blank line in between. Nil when there are none.
	Leading *Span

	// Extent is the function's own span widened to wrapper nodes such as
	// export statements or decorated definitions.
	Extent Span

	Node *sitter.Node
	Kind string
	Name string
}

// Adapter classifies syntax nodes of one language.
// Classify must not panic on partial or malformed trees.
type Adapter interface {
	Language() parser.Language
	Classify(node *sitter.Node, src []byte) Classification
}

// Option configures adapter lookup.
type Option func(*options)

type options struct {
	lambdas  map[parser.Language]bool
	disabled map[parser.Language]bool
}

// WithLambdas lets anonymous functions (closures, lambdas, arrow functions)
// qualify as functions in the given languages.
func WithLambdas(langs ...parser.Language) Option {
	return func(o *options) {
		for _, l := range langs {
			o.lambdas[l] = true
		}
	}
}

// WithDisabled makes ForLanguage treat the given languages as unsupported.
func WithDisabled(langs ...parser.Language) Option {
	return func(o *options) {
		for _, l := range langs {
			o.disabled[l] = true
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		lambdas:  make(map[parser.Language]bool),
		disabled: make(map[parser.Language]bool),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ForLanguage returns the Adapter for lang, or nil when the language has no
// adapter or is disabled.
func ForLanguage(lang parser.Language, opts ...Option) Adapter {
	o := buildOptions(opts)
	if o.disabled[lang] {
		return nil
	}
	g, ok := grammars[lang]
	if !ok {
		return nil
	}
	return &grammarAdapter{g: g, lambdas: o.lambdas[lang]}
}

// SupportedLanguages returns languages with Adapter implementations, sorted.
func SupportedLanguages() []parser.Language {
	langs := make([]parser.Language, 0, len(grammars))
	for l := range grammars {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// FunctionKinds lists the node kinds an adapter accepts as functions,
// including bodiless declarations.
func FunctionKinds(lang parser.Language) []string {
	g, ok := grammars[lang]
	if !ok {
		return nil
	}
	var out []string
	for _, set := range []kinds{g.functions, g.stubs, g.prototypes, g.bindings} {
		out = append(out, set.sorted()...)
	}
	return out
}
