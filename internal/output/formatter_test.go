package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatTOON},
		{"TOON", FormatTOON},
		{"", FormatText},
		{"invalid", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseFormat(tt.input)
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormatterWithFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "output.txt")

	f, err := NewFormatter(FormatJSON, outputPath, true)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}

	if f.file == nil {
		t.Error("file should not be nil for file output")
	}
	if f.Colored() {
		t.Error("colored should be false when writing to file")
	}

	if err := f.Output(map[string]int{"functions": 3}); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), `"functions": 3`) {
		t.Errorf("file content = %q", data)
	}
}

func TestNewFormatterInvalidPath(t *testing.T) {
	_, err := NewFormatter(FormatText, "/nonexistent/directory/file.txt", false)
	if err == nil {
		t.Error("NewFormatter() should error for invalid path")
	}
}

func TestFormatterGetters(t *testing.T) {
	var buf bytes.Buffer
	f := New(FormatMarkdown, &buf, true)

	if f.Format() != FormatMarkdown {
		t.Errorf("Format() = %q, want %q", f.Format(), FormatMarkdown)
	}
	if !f.Colored() {
		t.Error("Colored() = false, want true")
	}
	if f.Writer() != &buf {
		t.Error("Writer() should return the supplied writer")
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close() should not error without a file: %v", err)
	}
}

func functionsTable() *Table {
	return NewTable(
		"Functions",
		[]string{"File", "Function", "Inner"},
		[][]string{
			{"main.go", "main", "3-5"},
			{"util.go", "a|b", "7-9"},
		},
		[]string{"Total", "2", ""},
		nil,
	)
}

func TestTableRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := functionsTable().RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Functions", "=========", "FILE", "FUNCTION", "main.go", "3-5", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderText() output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := functionsTable().RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"## Functions",
		"| File | Function | Inner |",
		"| --- | --- | --- |",
		"| main.go | main | 3-5 |",
		`| util.go | a\|b | 7-9 |`,
		"| Total | 2 |  |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderMarkdown() output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderData(t *testing.T) {
	rows, ok := functionsTable().RenderData().([]map[string]string)
	if !ok {
		t.Fatalf("RenderData() type = %T", functionsTable().RenderData())
	}
	if len(rows) != 2 || rows[0]["Function"] != "main" {
		t.Errorf("RenderData() = %v", rows)
	}

	withData := NewTable("", nil, nil, nil, []int{1, 2})
	if got, ok := withData.RenderData().([]int); !ok || len(got) != 2 {
		t.Errorf("RenderData() should return Data when set, got %v", withData.RenderData())
	}
}

func TestSectionRender(t *testing.T) {
	s := &Section{
		Title:   "factorial",
		Content: "go function_declaration",
		Sections: []Section{
			{Title: "Inner", Code: "\treturn 1\n"},
		},
	}

	var text bytes.Buffer
	if err := s.RenderText(&text, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	for _, want := range []string{"factorial\n=========", "go function_declaration", "Inner\n-----", "    \treturn 1\n"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("RenderText() output missing %q:\n%s", want, text.String())
		}
	}

	var md bytes.Buffer
	if err := s.RenderMarkdown(&md); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	for _, want := range []string{"## factorial", "### Inner", "```\n\treturn 1\n```"} {
		if !strings.Contains(md.String(), want) {
			t.Errorf("RenderMarkdown() output missing %q:\n%s", want, md.String())
		}
	}
}

func TestFormatterOutputRenderable(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "FUNCTION"},
		{FormatMarkdown, "| File | Function | Inner |"},
		{FormatJSON, `"Function": "main"`},
		{FormatTOON, "main"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := New(tt.format, &buf, false).Output(functionsTable()); err != nil {
				t.Fatalf("Output() error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Output() missing %q:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestFormatterOutputRaw(t *testing.T) {
	data := map[string]any{"language": "go", "count": 2}

	var buf bytes.Buffer
	if err := New(FormatText, &buf, false).Output(data); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("text output of raw data should be JSON: %v", err)
	}
	if decoded["language"] != "go" {
		t.Errorf("decoded = %v", decoded)
	}

	buf.Reset()
	if err := New(FormatMarkdown, &buf, false).Output(data); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "```json\n") || !strings.HasSuffix(buf.String(), "```\n") {
		t.Errorf("markdown output = %q", buf.String())
	}
}

func TestFormatterMessageMethods(t *testing.T) {
	var buf bytes.Buffer
	f := New(FormatText, &buf, false)

	f.Success("wrote %s", "a.go")
	f.Warning("no function at %d", 3)

	want := "wrote a.go\nWARNING: no function at 3\n"
	if buf.String() != want {
		t.Errorf("messages = %q, want %q", buf.String(), want)
	}
}
