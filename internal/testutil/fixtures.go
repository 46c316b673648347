package testutil

import (
	"strings"

	"github.com/panbanda/functextobj/pkg/parser"
)

// Fixture is a factorial function in one language together with what the
// function text object should produce on it. Line is the zero-based line a
// `6G` lands on; every fixture has it inside the function body.
type Fixture struct {
	Name     string
	File     string
	Language parser.Language
	Source   string
	Line     int

	InnerPrefix  string
	InnerSuffix  string
	AroundPrefix string
	AroundSuffix string

	// Changed is present in the buffer after changing the inner function.
	Changed string
	// Deleted is the whole buffer after change-inner followed by
	// delete-around, when CheckDelete is set.
	Deleted     string
	CheckDelete bool
}

// Cursor returns the offset of the first non-blank character on Line.
func (f Fixture) Cursor() int {
	offset := 0
	for range f.Line {
		i := strings.IndexByte(f.Source[offset:], '\n')
		if i < 0 {
			return len(f.Source)
		}
		offset += i + 1
	}
	for offset < len(f.Source) && (f.Source[offset] == ' ' || f.Source[offset] == '\t') {
		offset++
	}
	return offset
}

// Factorials returns one fixture per language with a factorial function
// preceded by a comment.
func Factorials() []Fixture {
	return []Fixture{
		{
			Name:     "c",
			File:     "test.c",
			Language: parser.LangC,
			Source: "#include <stdio.h>\n\n// A factorial function\nint factorial(int n) {\n" +
				"    if (n < 0) {\n        fprintf(stderr, \"Error: Input must be non-negative\\n\");\n" +
				"        return -1;\n    }\n    int result = 1;\n    for (int i = 1; i <= n; i++) {\n" +
				"        result *= i;\n    }\n    return result;\n}",
			Line:         5,
			InnerPrefix:  "\n    if (n < 0)",
			InnerSuffix:  "return result;\n",
			AroundPrefix: "// A factorial function\nint factorial",
			AroundSuffix: "return result;\n}",
			Changed:      "int factorial(int n) {}",
			Deleted:      "#include <stdio.h>\n\n",
			CheckDelete:  true,
		},
		{
			Name:     "cpp",
			File:     "test.cpp",
			Language: parser.LangCPP,
			Source: "#include <iostream>\n\n// A factorial function\nint factorial(int n) {\n" +
				"    if (n < 0) {\n        throw std::invalid_argument(\"Input must be non-negative\");\n" +
				"    }\n    int result = 1;\n    for (int i = 1; i <= n; i++) {\n        result *= i;\n" +
				"    }\n    return result;\n}",
			Line:         5,
			InnerPrefix:  "\n    if (n < 0)",
			InnerSuffix:  "return result;\n",
			AroundPrefix: "// A factorial function\nint factorial",
			AroundSuffix: "return result;\n}",
			Changed:      "int factorial(int n) {}",
			Deleted:      "#include <iostream>\n\n",
			CheckDelete:  true,
		},
		{
			Name:     "csharp",
			File:     "test.cs",
			Language: parser.LangCSharp,
			Source: "using System;\n\nclass Program\n{\n    // A factorial function\n" +
				"    public static int Factorial(int n) {\n        if (n < 0)\n        {\n" +
				"            throw new ArgumentException(\"Input must be non-negative\");\n        }\n" +
				"        int result = 1;\n        for (int i = 1; i <= n; i++)\n        {\n" +
				"            result *= i;\n        }\n        return result;\n    }\n}\n",
			Line:         5,
			InnerPrefix:  "\n        if (n < 0)",
			InnerSuffix:  "return result;\n    ",
			AroundPrefix: "    // A factorial function\n    public static int Factorial(int n)",
			AroundSuffix: "return result;\n    }\n",
			Changed:      "    public static int Factorial(int n) {}\n",
			Deleted:      "using System;\n\nclass Program\n{\n}\n",
			CheckDelete:  true,
		},
		{
			Name:     "go",
			File:     "test.go",
			Language: parser.LangGo,
			Source: "package intellij_plugin_test_project\n\n// A factorial function\nfunc factorial(n int) int {\n" +
				"\tif n < 0 {\n\t\tpanic(\"Input must be non-negative\")\n\t}\n\tresult := 1\n" +
				"\tfor i := 1; i <= n; i++ {\n\t\tresult *= i\n\t}\n\treturn result\n}\n",
			Line:         5,
			InnerPrefix:  "\n\tif n < 0",
			InnerSuffix:  "return result\n",
			AroundPrefix: "// A factorial function\nfunc factorial(n int)",
			AroundSuffix: "return result\n}\n",
			Changed:      "func factorial(n int) int {}\n",
			Deleted:      "package intellij_plugin_test_project\n\n",
			CheckDelete:  true,
		},
		{
			Name:     "java",
			File:     "test.java",
			Language: parser.LangJava,
			Source: "import a.b.c.Defg;\n\nclass Main {\n    // A factorial function\n" +
				"    public static int factorial(int n) {\n        if (n < 0) {\n" +
				"            throw new IllegalArgumentException(\"Input must be non-negative\");\n" +
				"        }\n        int result = 1;\n        for (int i = 1; i <= n; i++) {\n" +
				"            result *= i;\n        }\n        return result;\n    }\n}\n",
			Line:         5,
			InnerPrefix:  "\n        if (n < 0)",
			InnerSuffix:  "return result;\n    ",
			AroundPrefix: "    // A factorial function\n    public static int factorial(int n)",
			AroundSuffix: "return result;\n    }\n",
			Changed:      "public static int factorial(int n) {}",
			Deleted:      "import a.b.c.Defg;\n\nclass Main {\n}\n",
			CheckDelete:  true,
		},
		{
			Name:     "javascript",
			File:     "test-js.js",
			Language: parser.LangJavaScript,
			Source: "// A factorial function\nfunction factorial(n) {\n  if (!Number.isInteger(n)) {\n" +
				"    throw new TypeError(\"Input must be an integer\");\n  }\n  if (n < 0) {\n" +
				"    throw new Error(\"Input must be non-negative\");\n  }\n  let result = 1;\n" +
				"  for (let i = 1; i <= n; i++) {\n    result *= i;\n  }\n  return result;\n}",
			Line:         5,
			InnerPrefix:  "\n  if (!Number.isInteger(n))",
			InnerSuffix:  "return result;\n",
			AroundPrefix: "// A factorial function\nfunction factorial(n)",
			AroundSuffix: "return result;\n}",
			Changed:      "function factorial(n) {}",
			Deleted:      "",
			CheckDelete:  true,
		},
		{
			Name:     "typescript",
			File:     "test-ts.ts",
			Language: parser.LangTypeScript,
			Source: "// A factorial function\nfunction factorial(n: number): number {\n" +
				"    if (!Number.isInteger(n)) {\n        throw new TypeError(\"Input must be an integer\");\n" +
				"    }\n    if (n < 0) {\n        throw new Error(\"Input must be non-negative\");\n    }\n" +
				"    let result: number = 1;\n    for (let i: number = 1; i <= n; i++) {\n" +
				"        result *= i;\n    }\n    return result;\n}",
			Line:         5,
			InnerPrefix:  "\n    if (!Number.isInteger(n))",
			InnerSuffix:  "return result;\n",
			AroundPrefix: "// A factorial function\nfunction factorial(n: number)",
			AroundSuffix: "return result;\n}",
			Changed:      "function factorial(n: number): number {}",
			Deleted:      "",
			CheckDelete:  true,
		},
		{
			Name:     "kotlin",
			File:     "test.kts",
			Language: parser.LangKotlin,
			Source: "import a.c.b.Defg\n\n// A factorial function\nfun factorial(n: Int): Int {\n" +
				"    require(n >= 0) {\n        \"Input must be non-negative\"\n    }\n    var result = 1\n" +
				"    for (i in 1..n) {\n        result *= i\n    }\n    return result\n}",
			Line:         5,
			InnerPrefix:  "\n    require",
			InnerSuffix:  "return result\n",
			AroundPrefix: "// A factorial function\nfun factorial",
			AroundSuffix: "return result\n}",
			Changed:      "fun factorial(n: Int): Int {}",
			Deleted:      "import a.c.b.Defg\n\n",
			CheckDelete:  true,
		},
		{
			Name:     "php",
			File:     "test.php",
			Language: parser.LangPHP,
			Source: "<?php\n\n// A factorial function\nfunction factorial($n) {\n    if (!is_int($n)) {\n" +
				"        throw new InvalidArgumentException(\"Input must be an integer\");\n    }\n" +
				"    if ($n < 0) {\n        throw new InvalidArgumentException(\"Input must be non-negative\");\n" +
				"    }\n    $result = 1;\n    for ($i = 1; $i <= $n; $i++) {\n        $result *= $i;\n" +
				"    }\n    return $result;\n}",
			Line:         5,
			InnerPrefix:  "\n    if (!is_int($n))",
			InnerSuffix:  "return $result;\n",
			AroundPrefix: "// A factorial function\nfunction factorial($n)",
			AroundSuffix: "return $result;\n}",
			Changed:      "function factorial($n) {}",
			Deleted:      "<?php\n\n",
			CheckDelete:  true,
		},
		{
			Name:     "python",
			File:     "test.py",
			Language: parser.LangPython,
			Source: "# A factorial function\ndef factorial(n):\n    if not isinstance(n, int):\n" +
				"        raise TypeError(\"Input must be an integer\")\n    if n < 0:\n" +
				"        raise ValueError(\"Input must be non-negative\")\n    result = 1\n" +
				"    for i in range(1, n + 1):\n        result *= i\n    return result",
			Line:         5,
			InnerPrefix:  "if not isinstance(n, int):",
			InnerSuffix:  "return result",
			AroundPrefix: "# A factorial function\ndef factorial(n):",
			AroundSuffix: "return result",
			Changed:      "def factorial(n):\n    ",
		},
		{
			Name:     "ruby",
			File:     "test.rb",
			Language: parser.LangRuby,
			Source: "# A factorial function\ndef factorial(n)\n" +
				"  raise TypeError, \"Input must be an integer\" unless n.is_a? Integer\n" +
				"  raise ArgumentError, \"Input must be non-negative\" if n < 0\n  result = 1\n" +
				"  (1..n).each do |i|\n    result *= i\n  end\n  return result\nend",
			Line:         5,
			InnerPrefix:  "raise TypeError",
			InnerSuffix:  "return result",
			AroundPrefix: "# A factorial function\ndef factorial(n)",
			AroundSuffix: "return result\nend",
			Changed:      "def factorial(n)\n  \nend",
			Deleted:      "",
			CheckDelete:  true,
		},
		{
			Name:     "rust",
			File:     "test.rs",
			Language: parser.LangRust,
			Source: "// This is a Rust file\n\n// A factorial function\n" +
				"fn factorial(n: i32) -> Result<i32, &'static str> {\n    if n < 0 {\n" +
				"        return Err(\"Input must be non-negative\");\n    }\n    let mut result = 1;\n" +
				"    for i in 1..=n {\n        result *= i;\n    }\n    Ok(result)\n}",
			Line:         5,
			InnerPrefix:  "\n    if n < 0",
			InnerSuffix:  "Ok(result)\n",
			AroundPrefix: "// A factorial function\nfn factorial",
			AroundSuffix: "Ok(result)\n}",
			Changed:      "fn factorial(n: i32) -> Result<i32, &'static str> {}",
			Deleted:      "// This is a Rust file\n\n",
			CheckDelete:  true,
		},
		{
			Name:     "scala",
			File:     "test.scala",
			Language: parser.LangScala,
			Source: "object Main {\n  // A factorial function\n  def factorial(n: Int): Int = {\n" +
				"    require(n >= 0, \"Input must be non-negative\")\n    var result = 1\n" +
				"    for (i <- 1 to n) {\n      result *= i\n    }\n    result\n  }\n}\n",
			Line:         5,
			InnerPrefix:  "\n    require(n >= 0",
			InnerSuffix:  "result\n  ",
			AroundPrefix: "  // A factorial function\n  def factorial",
			AroundSuffix: "result\n  }\n",
			Changed:      "def factorial(n: Int): Int = {}",
			Deleted:      "object Main {\n}\n",
			CheckDelete:  true,
		},
		{
			Name:     "lua",
			File:     "test.lua",
			Language: parser.LangLua,
			Source: "-- A factorial function\nlocal function factorial(n)\n  if n < 0 then\n" +
				"    error(\"Input must be non-negative\")\n  end\n  local result = 1\n" +
				"  for i = 1, n do\n    result = result * i\n  end\n  return result\nend\n",
			Line:         5,
			InnerPrefix:  "if n < 0 then",
			InnerSuffix:  "return result",
			AroundPrefix: "-- A factorial function\nlocal function factorial(n)",
			AroundSuffix: "return result\nend\n",
			Changed:      "local function factorial(n)\n  \nend\n",
			Deleted:      "",
			CheckDelete:  true,
		},
		{
			Name:     "bash",
			File:     "test.sh",
			Language: parser.LangBash,
			Source: "# A factorial function\nfactorial() {\n  local n=$1\n  local result=1\n" +
				"  for ((i = 1; i <= n; i++)); do\n    result=$((result * i))\n  done\n" +
				"  echo \"$result\"\n}\n",
			Line:         5,
			InnerPrefix:  "\n  local n=$1",
			InnerSuffix:  "echo \"$result\"\n",
			AroundPrefix: "# A factorial function\nfactorial()",
			AroundSuffix: "}\n",
			Changed:      "factorial() {}\n",
			Deleted:      "",
			CheckDelete:  true,
		},
	}
}
