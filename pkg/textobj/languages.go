package textobj

import (
	"sort"

	"github.com/panbanda/functextobj/pkg/parser"
)

type kinds map[string]bool

func set(names ...string) kinds {
	k := make(kinds, len(names))
	for _, n := range names {
		k[n] = true
	}
	return k
}

func (k kinds) sorted() []string {
	out := make([]string, 0, len(k))
	for n := range k {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

type bodyStyle int

const (
	// braceBody: `{ ... }` blocks, `= expr` / `=> expr` clauses, or a bare
	// expression.
	braceBody bodyStyle = iota
	// indentBody: an indented suite (Python).
	indentBody
	// keywordBody: statements between the head and a closing `end`.
	keywordBody
)

// grammar is the node-kind vocabulary an adapter needs for one language.
type grammar struct {
	lang  parser.Language
	style bodyStyle

	functions kinds // named functions, methods, constructors
	stubs     kinds // declarations that never have a body
	// prototypes are C-style declarations; they are stubs only when their
	// declarator chain ends in a function declarator.
	prototypes kinds
	// bindings declare a name bound to an anonymous function,
	// e.g. `const f = () => {}`.
	bindings kinds
	lambdas  kinds
	// wrappers carry exactly one function and widen its extent.
	wrappers    kinds
	comments    kinds
	decorations kinds

	bodyFields []string
	bodyKinds  kinds
	// headFields end the declaration head in keyword-delimited languages.
	headFields []string
	// closers are the closing keyword of a keyword-delimited body, used to
	// place an empty body when the grammar emits no body node.
	closers kinds
}

var grammars = map[parser.Language]*grammar{
	parser.LangGo: {
		lang:       parser.LangGo,
		functions:  set("function_declaration", "method_declaration"),
		stubs:      set("method_spec", "method_elem"),
		lambdas:    set("func_literal"),
		comments:   set("comment"),
		bodyFields: []string{"body"},
		bodyKinds:  set("block"),
	},
	parser.LangRust: {
		lang:        parser.LangRust,
		functions:   set("function_item"),
		stubs:       set("function_signature_item"),
		lambdas:     set("closure_expression"),
		comments:    set("line_comment", "block_comment"),
		decorations: set("attribute_item"),
		bodyFields:  []string{"body"},
		bodyKinds:   set("block"),
	},
	parser.LangPython: {
		lang:        parser.LangPython,
		style:       indentBody,
		functions:   set("function_definition"),
		lambdas:     set("lambda"),
		wrappers:    set("decorated_definition"),
		comments:    set("comment"),
		decorations: set("decorator"),
		bodyFields:  []string{"body"},
		bodyKinds:   set("block"),
	},
	parser.LangJavaScript: ecmascript(parser.LangJavaScript),
	parser.LangTypeScript: ecmascript(parser.LangTypeScript),
	parser.LangTSX:        ecmascript(parser.LangTSX),
	parser.LangJava: {
		lang:        parser.LangJava,
		functions:   set("method_declaration", "constructor_declaration", "compact_constructor_declaration"),
		lambdas:     set("lambda_expression"),
		comments:    set("line_comment", "block_comment", "comment"),
		decorations: set("annotation", "marker_annotation"),
		bodyFields:  []string{"body"},
		bodyKinds:   set("block", "constructor_body"),
	},
	parser.LangC: {
		lang:       parser.LangC,
		functions:  set("function_definition"),
		prototypes: set("declaration"),
		comments:   set("comment"),
		bodyFields: []string{"body"},
		bodyKinds:  set("compound_statement"),
	},
	parser.LangCPP: {
		lang:        parser.LangCPP,
		functions:   set("function_definition"),
		prototypes:  set("declaration", "field_declaration"),
		lambdas:     set("lambda_expression"),
		wrappers:    set("template_declaration"),
		comments:    set("comment"),
		decorations: set("attribute_declaration"),
		bodyFields:  []string{"body"},
		bodyKinds:   set("compound_statement"),
	},
	parser.LangCSharp: {
		lang: parser.LangCSharp,
		functions: set(
			"method_declaration", "constructor_declaration", "destructor_declaration",
			"operator_declaration", "conversion_operator_declaration", "local_function_statement",
		),
		lambdas:     set("lambda_expression", "anonymous_method_expression"),
		comments:    set("comment"),
		decorations: set("attribute_list"),
		bodyFields:  []string{"body"},
		bodyKinds:   set("block", "arrow_expression_clause"),
	},
	parser.LangKotlin: {
		lang:        parser.LangKotlin,
		functions:   set("function_declaration"),
		lambdas:     set("anonymous_function", "lambda_literal"),
		comments:    set("line_comment", "multiline_comment", "comment"),
		decorations: set("annotation"),
		bodyKinds:   set("function_body"),
	},
	parser.LangScala: {
		lang:        parser.LangScala,
		functions:   set("function_definition"),
		stubs:       set("function_declaration"),
		lambdas:     set("lambda_expression"),
		comments:    set("comment", "block_comment"),
		decorations: set("annotation"),
		bodyFields:  []string{"body"},
		bodyKinds:   set("block", "indented_block"),
	},
	parser.LangPHP: {
		lang:        parser.LangPHP,
		functions:   set("function_definition", "method_declaration"),
		lambdas:     set("anonymous_function_creation_expression", "anonymous_function", "arrow_function"),
		comments:    set("comment"),
		decorations: set("attribute_list"),
		bodyFields:  []string{"body"},
		bodyKinds:   set("compound_statement"),
	},
	parser.LangRuby: {
		lang:       parser.LangRuby,
		style:      keywordBody,
		functions:  set("method", "singleton_method"),
		lambdas:    set("lambda", "block", "do_block"),
		comments:   set("comment"),
		headFields: []string{"object", "name", "parameters"},
	},
	parser.LangLua: {
		lang:      parser.LangLua,
		style:     keywordBody,
		functions: set("function_statement"),
		lambdas:   set("function"),
		comments:  set("comment"),
		bodyKinds: set("function_body"),
		closers:   set("function_end"),
	},
	parser.LangBash: {
		lang:       parser.LangBash,
		functions:  set("function_definition"),
		comments:   set("comment"),
		bodyFields: []string{"body"},
		bodyKinds:  set("compound_statement"),
	},
}

// ecmascript builds the shared JavaScript/TypeScript vocabulary. Only the
// TypeScript grammars produce the signature kinds, so listing them for
// JavaScript is harmless.
func ecmascript(lang parser.Language) *grammar {
	return &grammar{
		lang: lang,
		functions: set(
			"function_declaration", "generator_function_declaration", "method_definition",
		),
		stubs:       set("function_signature", "method_signature", "abstract_method_signature"),
		bindings:    set("lexical_declaration", "variable_declaration"),
		lambdas:     set("arrow_function", "function", "function_expression", "generator_function"),
		wrappers:    set("export_statement"),
		comments:    set("comment"),
		decorations: set("decorator"),
		bodyFields:  []string{"body"},
		bodyKinds:   set("statement_block"),
	}
}
