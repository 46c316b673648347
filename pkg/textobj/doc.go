// Package textobj implements the "function" text object: selecting, changing,
// deleting or yanking a whole function, either its body (inner) or the
// function together with its attached leading comments and its own trailing
// separation (around).
//
// Resolution runs in three steps over a tree-sitter syntax tree:
//
//	adapter := textobj.ForLanguage(result.Language)
//	fn, err := textobj.Locate(result, cursor, adapter)   // innermost function
//	outcome := textobj.Apply(doc, fn, textobj.Around, textobj.Delete)
//
// ResolveAndApply bundles the three steps. Nothing is cached between calls:
// every invocation needs a tree parsed from the document's current text, and
// a tree whose fingerprint does not match the document is rejected with
// ErrStaleTree.
package textobj
