package textobj

import (
	"strings"
	"testing"

	"github.com/panbanda/functextobj/internal/testutil"
	"github.com/panbanda/functextobj/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate_Factorials(t *testing.T) {
	for _, fx := range testutil.Factorials() {
		t.Run(fx.Name, func(t *testing.T) {
			result := parse(t, fx.Language, fx.Source)
			r, err := Locate(result, fx.Cursor(), ForLanguage(fx.Language))
			require.NoError(t, err)

			src := result.Source
			inner := r.Inner.Text(src)
			around := r.Around.Text(src)

			assert.True(t, strings.HasPrefix(inner, fx.InnerPrefix), "inner %q", inner)
			assert.True(t, strings.HasSuffix(inner, fx.InnerSuffix), "inner %q", inner)
			assert.True(t, strings.HasPrefix(around, fx.AroundPrefix), "around %q", around)
			assert.True(t, strings.HasSuffix(around, fx.AroundSuffix), "around %q", around)
			assert.True(t, r.Around.ContainsSpan(r.Inner))
			assert.True(t, r.HasBody)
			if fx.Language != parser.LangLua {
				assert.Equal(t, "factorial", strings.ToLower(r.Name))
			}
		})
	}
}

func TestLocate_NestingPrefersInnermost(t *testing.T) {
	src := "def outer():\n    def inner():\n        return 1\n    return inner()\n"

	r := locateAt(t, parser.LangPython, src, "return 1")
	assert.Equal(t, "inner", r.Name)
	assert.Equal(t, "    def inner():\n        return 1\n", r.Around.Text([]byte(src)))

	r = locateAt(t, parser.LangPython, src, "return inner")
	assert.Equal(t, "outer", r.Name)
}

func TestLocate_LambdasAreOptIn(t *testing.T) {
	src := "package main\n\nfunc outer() {\n\tf := func() {\n\t\tprintln(1)\n\t}\n\tf()\n}\n"

	r := locateAt(t, parser.LangGo, src, "println")
	assert.Equal(t, "outer", r.Name)
	assert.Equal(t, "function_declaration", r.Kind)

	r = locateAt(t, parser.LangGo, src, "println", WithLambdas(parser.LangGo))
	assert.Equal(t, "func_literal", r.Kind)
	assert.Equal(t, "\n\t\tprintln(1)\n\t", r.Inner.Text([]byte(src)))
}

func TestLocate_Delimiters(t *testing.T) {
	src := "int f(void) {\n  return 0;\n}\n"
	result := parse(t, parser.LangC, src)
	adapter := ForLanguage(parser.LangC)

	for _, offset := range []int{strings.Index(src, "{"), strings.Index(src, "}")} {
		r, err := Locate(result, offset, adapter)
		require.NoError(t, err)
		assert.Equal(t, "f", r.Name)
	}
}

func TestLocate_LeadingCommentIsOutsideTheNode(t *testing.T) {
	src := "// doc\nint f(void) {\n  return 0;\n}\n"
	result := parse(t, parser.LangC, src)

	_, err := Locate(result, strings.Index(src, "doc"), ForLanguage(parser.LangC))
	assert.ErrorIs(t, err, ErrNoEnclosingFunction)
	assert.True(t, IsNoTarget(err))
}

func TestLocate_NoFunction(t *testing.T) {
	src := "package main\n\nvar x = 1\n"
	result := parse(t, parser.LangGo, src)

	_, err := Locate(result, strings.Index(src, "x"), ForLanguage(parser.LangGo))
	assert.ErrorIs(t, err, ErrNoEnclosingFunction)
}

func TestLocate_ClampsOffsets(t *testing.T) {
	src := "func f() {}"
	result := parse(t, parser.LangGo, "package main\n"+src)
	adapter := ForLanguage(parser.LangGo)

	r, err := Locate(result, len(result.Source)+50, adapter)
	require.NoError(t, err)
	assert.Equal(t, "f", r.Name)

	_, err = Locate(result, -10, adapter)
	assert.ErrorIs(t, err, ErrNoEnclosingFunction)
}

func TestLocate_UnsupportedLanguage(t *testing.T) {
	result := parse(t, parser.LangGo, "package main\n\nfunc f() {}\n")

	_, err := Locate(result, 20, nil)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.True(t, IsNoTarget(err))

	assert.Nil(t, ForLanguage(parser.LangUnknown))
	assert.Nil(t, ForLanguage(parser.LangGo, WithDisabled(parser.LangGo)))
	assert.NotNil(t, ForLanguage(parser.LangGo, WithDisabled(parser.LangRust)))
}

func TestLocate_EmptyDocument(t *testing.T) {
	result := parse(t, parser.LangGo, "")
	_, err := Locate(result, 0, ForLanguage(parser.LangGo))
	assert.ErrorIs(t, err, ErrNoEnclosingFunction)

	_, err = Locate(nil, 0, ForLanguage(parser.LangGo))
	assert.ErrorIs(t, err, ErrNoEnclosingFunction)
}

func TestLocate_MalformedSourceNeverPanics(t *testing.T) {
	tests := []struct {
		lang parser.Language
		src  string
	}{
		{parser.LangC, "int f() {\n  return (;\n}\n"},
		{parser.LangGo, "package main\n\nfunc (\n\tx := {\n"},
		{parser.LangPython, "def f(:\n    return\n  pass\n"},
		{parser.LangJavaScript, "function f( {\n  }}} const = ;\n"},
		{parser.LangRuby, "def f(\n  end end\n"},
		{parser.LangJava, "class A { void m( { } }"},
		{parser.LangRust, "fn f() -> { let = ; }\n#[\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			result := parse(t, tt.lang, tt.src)
			adapter := ForLanguage(tt.lang)
			assert.NotPanics(t, func() {
				for offset := range len(tt.src) {
					r, err := Locate(result, offset, adapter)
					if err != nil {
						assert.True(t, IsNoTarget(err))
						continue
					}
					assert.True(t, r.Around.ContainsSpan(r.Inner))
				}
			})
		})
	}
}

func TestClassify_RejectsErrorNodes(t *testing.T) {
	src := "int f() {\n  return (;\n}\n@@@ ### int\n"
	result := parse(t, parser.LangC, src)
	adapter := ForLanguage(parser.LangC)

	errorNodes := 0
	parser.WalkTyped(result.Tree.RootNode(), result.Source, func(n *sitter.Node, kind string, src []byte) bool {
		if kind == "ERROR" {
			errorNodes++
			assert.False(t, adapter.Classify(n, src).IsFunction)
		}
		return true
	})
	assert.Positive(t, errorNodes)
	assert.False(t, adapter.Classify(nil, result.Source).IsFunction)
}

func TestClassify_Stubs(t *testing.T) {
	tests := []struct {
		name   string
		lang   parser.Language
		src    string
		needle string
		inner  string
	}{
		{"java interface", parser.LangJava, "interface Shape {\n    double area();\n    double perimeter();\n}\n", "area", "double area();"},
		{"rust trait", parser.LangRust, "trait Shape {\n    fn area(&self) -> f64;\n}\n", "area", "fn area(&self) -> f64;"},
		{"c prototype", parser.LangC, "int area(int w, int h);\nint x;\n", "area", "int area(int w, int h);"},
		{"typescript interface", parser.LangTypeScript, "interface Shape {\n  area(): number;\n}\n", "area", "area(): number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := locateAt(t, tt.lang, tt.src, tt.needle)
			assert.False(t, r.HasBody)
			assert.Nil(t, r.Classification.Body)
			assert.Equal(t, r.Classification.Signature, r.Inner)
			assert.True(t, strings.HasPrefix(r.Inner.Text([]byte(tt.src)), tt.inner), r.Inner.Text([]byte(tt.src)))
		})
	}
}

func TestClassify_VariableDeclarationIsNotAPrototype(t *testing.T) {
	src := "int area(int w, int h);\nint x;\nint (*fp)(int);\n"
	result := parse(t, parser.LangC, src)
	adapter := ForLanguage(parser.LangC)

	_, err := Locate(result, strings.Index(src, "x;"), adapter)
	assert.ErrorIs(t, err, ErrNoEnclosingFunction)
	_, err = Locate(result, strings.Index(src, "fp"), adapter)
	assert.ErrorIs(t, err, ErrNoEnclosingFunction)
}

func TestClassify_ExpressionBodies(t *testing.T) {
	tests := []struct {
		name   string
		lang   parser.Language
		src    string
		needle string
		inner  string
	}{
		{"kotlin", parser.LangKotlin, "fun square(x: Int) = x * x\n", "square", "x * x"},
		{"csharp", parser.LangCSharp, "class M {\n    int Square(int x) => x * x;\n}\n", "Square", "x * x"},
		{"javascript arrow", parser.LangJavaScript, "const square = (x) => x * x;\n", "square", "x * x"},
		{"scala", parser.LangScala, "object M {\n  def square(x: Int): Int = x * x\n}\n", "square", "x * x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := locateAt(t, tt.lang, tt.src, tt.needle)
			assert.True(t, r.HasBody)
			assert.Equal(t, tt.inner, r.Inner.Text([]byte(tt.src)))
		})
	}
}

func TestClassify_WrappersAndDecorations(t *testing.T) {
	t.Run("python decorator", func(t *testing.T) {
		src := "# doc\n@cache\ndef f():\n    pass\n"
		r := locateAt(t, parser.LangPython, src, "pass")
		assert.Equal(t, strings.Index(src, "@cache"), r.Classification.Extent.Start)
		require.NotNil(t, r.Classification.Leading)
		assert.Equal(t, "# doc\n", r.Classification.Leading.Text([]byte(src)))
		assert.Equal(t, src, r.Around.Text([]byte(src)))
	})

	t.Run("rust attribute", func(t *testing.T) {
		src := "/// Docs\n#[inline]\nfn f() {}\n"
		r := locateAt(t, parser.LangRust, src, "fn f")
		assert.Equal(t, strings.Index(src, "#[inline]"), r.Classification.Signature.Start)
		require.NotNil(t, r.Classification.Leading)
		assert.Equal(t, "/// Docs\n", r.Classification.Leading.Text([]byte(src)))
	})

	t.Run("typescript export", func(t *testing.T) {
		src := "// doc\nexport function f(): void {\n  return;\n}\n"
		r := locateAt(t, parser.LangTypeScript, src, "return")
		assert.Equal(t, "f", r.Name)
		assert.Equal(t, strings.Index(src, "export"), r.Classification.Extent.Start)
		assert.Equal(t, src, r.Around.Text([]byte(src)))
	})

	t.Run("cpp template", func(t *testing.T) {
		src := "template <typename T>\nT id(T v) {\n  return v;\n}\n"
		r := locateAt(t, parser.LangCPP, src, "return")
		assert.Equal(t, 0, r.Classification.Extent.Start)
		assert.Equal(t, "\n  return v;\n", r.Inner.Text([]byte(src)))
	})
}

func TestFunctions(t *testing.T) {
	src := "function a() {}\n\n" +
		"const b = () => {\n  return 1;\n};\n\n" +
		"export function c() {}\n\n" +
		"class K {\n  m() {}\n}\n\n" +
		"let x = 1, y = () => 2;\n"
	result := parse(t, parser.LangJavaScript, src)

	fns := Functions(result, ForLanguage(parser.LangJavaScript))
	names := make([]string, 0, len(fns))
	for _, fn := range fns {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "m"}, names)
	assert.Equal(t, "\n  return 1;\n", fns[1].Inner.Text(result.Source))

	assert.Nil(t, Functions(result, nil))
}

func TestSupportedLanguages(t *testing.T) {
	langs := SupportedLanguages()
	assert.Len(t, langs, len(parser.Languages()))
	for _, lang := range langs {
		_, err := parser.GetTreeSitterLanguage(lang)
		assert.NoError(t, err, lang)
		assert.NotEmpty(t, FunctionKinds(lang), lang)
	}
	assert.Empty(t, FunctionKinds(parser.LangUnknown))
}
