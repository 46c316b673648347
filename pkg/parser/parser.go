package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/scala"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language represents a supported programming language.
type Language string

const (
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangPython     Language = "python"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangTSX        Language = "tsx"
	LangJava       Language = "java"
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangCSharp     Language = "csharp"
	LangRuby       Language = "ruby"
	LangPHP        Language = "php"
	LangBash       Language = "bash"
	LangKotlin     Language = "kotlin"
	LangScala      Language = "scala"
	LangLua        Language = "lua"
	LangUnknown    Language = "unknown"
)

// Languages lists every language with a tree-sitter grammar, in display order.
func Languages() []Language {
	return []Language{
		LangBash, LangC, LangCPP, LangCSharp, LangGo, LangJava,
		LangJavaScript, LangKotlin, LangLua, LangPHP, LangPython,
		LangRuby, LangRust, LangScala, LangTSX, LangTypeScript,
	}
}

// ParseLanguage converts a user supplied identifier to a Language.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "go", "golang":
		return LangGo
	case "rust", "rs":
		return LangRust
	case "python", "py":
		return LangPython
	case "typescript", "ts":
		return LangTypeScript
	case "javascript", "js":
		return LangJavaScript
	case "tsx", "jsx":
		return LangTSX
	case "java":
		return LangJava
	case "c":
		return LangC
	case "cpp", "c++":
		return LangCPP
	case "csharp", "c#", "cs":
		return LangCSharp
	case "ruby", "rb":
		return LangRuby
	case "php":
		return LangPHP
	case "bash", "sh":
		return LangBash
	case "kotlin", "kt":
		return LangKotlin
	case "scala":
		return LangScala
	case "lua":
		return LangLua
	default:
		return LangUnknown
	}
}

// Parser wraps tree-sitter for multi-language parsing.
// A Parser is not safe for concurrent use; give each goroutine its own.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	Tree     *sitter.Tree
	Language Language
	Source   []byte
	Path     string

	// Fingerprint identifies the exact bytes the tree was built from.
	Fingerprint uint64
}

// Fingerprint hashes document text the same way ParseResult.Fingerprint is computed.
func Fingerprint(source []byte) uint64 {
	return xxhash.Sum64(source)
}

// Matches reports whether the tree was parsed from exactly this text.
func (r *ParseResult) Matches(source []byte) bool {
	if r == nil {
		return false
	}
	return len(r.Source) == len(source) && r.Fingerprint == Fingerprint(source)
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// ParseFile parses a source file and returns the AST.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	lang := DetectLanguage(path)
	if lang == LangUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", path)
	}

	return p.Parse(source, lang, path)
}

// Parse parses source code with a specified language.
func (p *Parser) Parse(source []byte, lang Language, path string) (*ParseResult, error) {
	return p.ParseCtx(context.Background(), source, lang, path)
}

// ParseCtx is Parse with a caller supplied context.
func (p *Parser) ParseCtx(ctx context.Context, source []byte, lang Language, path string) (*ParseResult, error) {
	tsLang, err := GetTreeSitterLanguage(lang)
	if err != nil {
		return nil, err
	}

	// The tree keeps pointers into the buffer it was parsed from, so it gets
	// its own copy and later edits to the caller's slice cannot corrupt it.
	src := make([]byte, len(source))
	copy(src, source)

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	return &ParseResult{
		Tree:        tree,
		Language:    lang,
		Source:      src,
		Path:        path,
		Fingerprint: Fingerprint(src),
	}, nil
}

// GetTreeSitterLanguage returns the tree-sitter language for a Language enum.
func GetTreeSitterLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangGo:
		return golang.GetLanguage(), nil
	case LangRust:
		return rust.GetLanguage(), nil
	case LangPython:
		return python.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	case LangJava:
		return java.GetLanguage(), nil
	case LangC:
		return c.GetLanguage(), nil
	case LangCPP:
		return cpp.GetLanguage(), nil
	case LangCSharp:
		return csharp.GetLanguage(), nil
	case LangRuby:
		return ruby.GetLanguage(), nil
	case LangPHP:
		return php.GetLanguage(), nil
	case LangBash:
		return bash.GetLanguage(), nil
	case LangKotlin:
		return kotlin.GetLanguage(), nil
	case LangScala:
		return scala.GetLanguage(), nil
	case LangLua:
		return lua.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// DetectLanguage determines the language from a file path.
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	base := strings.ToLower(filepath.Base(path))

	switch base {
	case ".bashrc", ".bash_profile", ".zshrc":
		return LangBash
	}

	switch ext {
	case ".go":
		return LangGo
	case ".rs":
		return LangRust
	case ".py", ".pyw", ".pyi":
		return LangPython
	case ".ts", ".mts", ".cts":
		return LangTypeScript
	case ".tsx":
		return LangTSX
	case ".js", ".mjs", ".cjs":
		return LangJavaScript
	case ".jsx":
		return LangTSX // Use TSX parser for JSX
	case ".java":
		return LangJava
	case ".c", ".h":
		return LangC
	case ".cpp", ".cc", ".cxx", ".hpp", ".hxx", ".hh":
		return LangCPP
	case ".cs":
		return LangCSharp
	case ".rb", ".rake":
		return LangRuby
	case ".php":
		return LangPHP
	case ".sh", ".bash":
		return LangBash
	case ".kt", ".kts":
		return LangKotlin
	case ".scala", ".sc":
		return LangScala
	case ".lua":
		return LangLua
	default:
		return LangUnknown
	}
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// TypedNodeVisitor visits AST nodes with pre-cached node type to avoid CGO overhead.
type TypedNodeVisitor func(node *sitter.Node, nodeType string, source []byte) bool

// WalkTyped traverses the AST with cached node types to reduce CGO overhead.
func WalkTyped(node *sitter.Node, source []byte, visitor TypedNodeVisitor) {
	if node == nil {
		return
	}

	nodeType := node.Type()
	if !visitor(node, nodeType, source) {
		return
	}

	for i := range int(node.ChildCount()) {
		WalkTyped(node.Child(i), source, visitor)
	}
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// DeepestNodeAt returns the smallest node whose byte range contains offset,
// together with the smallest named node on the same path. Zero-width nodes
// (tree-sitter MISSING tokens) never contain an offset.
func DeepestNodeAt(root *sitter.Node, offset uint32) (deepest, named *sitter.Node) {
	if root == nil || offset < root.StartByte() || offset >= root.EndByte() {
		return nil, nil
	}

	node := root
	for {
		deepest = node
		if node.IsNamed() {
			named = node
		}

		var next *sitter.Node
		for i := range int(node.ChildCount()) {
			child := node.Child(i)
			if child == nil || child.StartByte() == child.EndByte() {
				continue
			}
			if child.StartByte() > offset {
				break
			}
			if offset < child.EndByte() {
				next = child
				break
			}
		}
		if next == nil {
			return deepest, named
		}
		node = next
	}
}
