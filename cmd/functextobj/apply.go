package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/panbanda/functextobj/internal/output"
	"github.com/panbanda/functextobj/pkg/editor"
	"github.com/panbanda/functextobj/pkg/parser"
	"github.com/panbanda/functextobj/pkg/textobj"
	"github.com/urfave/cli/v2"
)

func applyCmd() *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Apply a function text object at a position in a file",
		ArgsUsage: "<file>",
		Description: `Resolves the function enclosing the position and selects, changes,
deletes or yanks its inner or around range.

Examples:
  functextobj apply main.go --line 12                 # select inner function
  functextobj apply main.go --line 12 --around --op yank
  functextobj apply app.py --line 4 --op delete --around --write`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "line",
				Aliases: []string{"l"},
				Usage:   "1-based line of the cursor",
			},
			&cli.IntFlag{
				Name:  "col",
				Usage: "1-based byte column of the cursor (default: first non-blank)",
			},
			&cli.IntFlag{
				Name:  "offset",
				Value: -1,
				Usage: "0-based byte offset of the cursor, instead of --line/--col",
			},
			&cli.BoolFlag{
				Name:    "around",
				Aliases: []string{"a"},
				Usage:   "Use the around range instead of the inner range",
			},
			&cli.StringFlag{
				Name:  "op",
				Value: "select",
				Usage: "Operation: select, change, delete, yank",
			},
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write the edited file back for change and delete",
			},
		},
		Action: runApplyCmd,
	}
}

// applyResult is the serialized form of an apply invocation.
type applyResult struct {
	File      string            `json:"file"`
	Language  parser.Language   `json:"language"`
	Operation string            `json:"operation"`
	Kind      string            `json:"kind"`
	Function  *textobj.Resolved `json:"function"`
	Span      textobj.Span      `json:"span"`
	StartLine int               `json:"start_line"`
	EndLine   int               `json:"end_line"`
	Cursor    textobj.Position  `json:"cursor"`
	Text      string            `json:"text"`
	Buffer    string            `json:"buffer,omitempty"`
	Written   bool              `json:"written,omitempty"`
}

func runApplyCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("apply expects exactly one file, got %d", c.NArg())
	}
	path := c.Args().First()

	kind := textobj.Inner
	if c.Bool("around") {
		kind = textobj.Around
	}
	op, err := textobj.ParseOperation(c.String("op"))
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	buf := editor.NewBuffer(path, "", string(src))

	cursor, err := cursorFromFlags(c, buf)
	if err != nil {
		return err
	}
	buf.SetCursor(cursor)

	psr := parser.New()
	defer psr.Close()

	result, err := psr.Parse(buf.Text(), buf.Language(), path)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", path, textobj.ErrUnsupportedLanguage, err)
	}

	cfg := appConfig(c)
	out := textobj.ResolveAndApply(result, buf, cursor, kind, op, cfg.AdapterOptions()...)
	if out.Err != nil {
		return fmt.Errorf("%s: %w", path, out.Err)
	}
	verbosef(c, "%s: %s %q (%s) inner=%s around=%s", path, result.Language,
		out.Target.Name, out.Target.Kind, out.Target.Inner, out.Target.Around)

	first, last := out.Span.Lines(src)
	res := applyResult{
		File:      path,
		Language:  result.Language,
		Operation: op.String(),
		Kind:      kind.String(),
		Function:  out.Target,
		Span:      out.Span,
		StartLine: first + 1,
		EndLine:   last + 1,
		Cursor:    buf.Position(),
		Text:      out.Text,
	}

	if op == textobj.Change || op == textobj.Delete {
		if c.Bool("write") {
			if err := os.WriteFile(path, buf.Text(), 0644); err != nil {
				return err
			}
			res.Written = true
		} else {
			res.Buffer = buf.String()
		}
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(applyReport(res)); err != nil {
		return err
	}
	if res.Written && formatter.Format() == output.FormatText {
		formatter.Success("wrote %s", res.File)
	}
	return nil
}

// cursorFromFlags turns --offset or --line/--col into a byte offset.
func cursorFromFlags(c *cli.Context, buf *editor.Buffer) (int, error) {
	if offset := c.Int("offset"); offset >= 0 {
		if offset > buf.Len() {
			return 0, fmt.Errorf("--offset %d is past the end of the file (%d bytes)", offset, buf.Len())
		}
		return offset, nil
	}

	line := c.Int("line")
	if line < 1 || line > buf.LineCount() {
		return 0, errors.New("--line must be between 1 and the number of lines in the file")
	}
	if col := c.Int("col"); col > 0 {
		return textobj.PositionToOffset(buf.Text(), textobj.Position{Line: line - 1, Column: col - 1}), nil
	}
	return buf.LineOffset(line - 1), nil
}

func applyReport(res applyResult) *output.Section {
	name := res.Function.Name
	if name == "" {
		name = "(anonymous)"
	}

	s := &output.Section{
		Title: fmt.Sprintf("%s %s function %s", res.Operation, res.Kind, name),
		Content: fmt.Sprintf("%s  %s  %s:%d-%d  cursor %d:%d",
			res.Language, res.Function.Kind, res.File, res.StartLine, res.EndLine,
			res.Cursor.Line+1, res.Cursor.Column+1),
		Data: res,
	}

	label := "Selected"
	switch res.Operation {
	case "yank":
		label = "Yanked"
	case "change":
		label = "Changed"
	case "delete":
		label = "Deleted"
	}
	s.Sections = append(s.Sections, output.Section{Title: label, Code: res.Text})

	if res.Buffer != "" {
		s.Sections = append(s.Sections, output.Section{Title: "Result", Code: res.Buffer})
	}
	return s
}
