package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/panbanda/functextobj/internal/output"
	"github.com/panbanda/functextobj/pkg/editor"
	"github.com/panbanda/functextobj/pkg/textobj"
	"github.com/urfave/cli/v2"
)

func keysCmd() *cli.Command {
	return &cli.Command{
		Name:      "keys",
		Usage:     "Replay vim-style keys against a file",
		ArgsUsage: "<file> <keys>...",
		Description: `Opens the file in a modal editing session and presses the given keys.
Special keys are written in angle brackets: <Esc>, <CR>, <BS>, <Tab>, <lt>.
The function text object is "if" / "af" unless the config changes it.

Examples:
  functextobj keys main.go '12Gdaf'
  functextobj keys app.py '4Gcifreturn 1<Esc>' --write
  functextobj keys lib.rs '20Gvaf'`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write the edited buffer back to the file",
			},
		},
		Action: runKeysCmd,
	}
}

// keysResult is the editor state after replaying keys.
type keysResult struct {
	File      string           `json:"file"`
	Keys      string           `json:"keys"`
	Mode      string           `json:"mode"`
	Cursor    textobj.Position `json:"cursor"`
	Selection *textobj.Span    `json:"selection,omitempty"`
	Register  string           `json:"register"`
	Linewise  bool             `json:"register_linewise"`
	Modified  bool             `json:"modified"`
	Error     string           `json:"error,omitempty"`
	Buffer    string           `json:"buffer"`
	Written   bool             `json:"written,omitempty"`
}

func runKeysCmd(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("keys expects a file and at least one key sequence")
	}
	path := c.Args().First()
	script := strings.Join(c.Args().Tail(), "")

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cfg := appConfig(c)
	buf := editor.NewBuffer(path, "", string(src))
	session := editor.NewSession(buf,
		editor.WithTextObjectChar(cfg.TextObject.Char),
		editor.WithAdapterOptions(cfg.AdapterOptions()...),
	)
	defer session.Close()

	if err := session.Feed(script); err != nil {
		return err
	}

	last := session.LastOutcome()
	if last.Target != nil {
		verbosef(c, "%s: last text object %q (%s) inner=%s around=%s", path,
			last.Target.Name, last.Target.Kind, last.Target.Inner, last.Target.Around)
	}

	reg := buf.Registers().Get(editor.Unnamed)
	res := keysResult{
		File:      path,
		Keys:      script,
		Mode:      session.Mode().String(),
		Cursor:    buf.Position(),
		Selection: buf.Selection(),
		Register:  reg.Content,
		Linewise:  reg.Linewise,
		Modified:  buf.String() != string(src),
		Buffer:    buf.String(),
	}
	if last.Err != nil {
		res.Error = last.Err.Error()
	}

	if c.Bool("write") && res.Modified {
		if err := os.WriteFile(path, buf.Text(), 0644); err != nil {
			return err
		}
		res.Written = true
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if res.Error != "" && formatter.Format() == output.FormatText {
		formatter.Warning("%s", res.Error)
	}
	if err := formatter.Output(keysReport(res)); err != nil {
		return err
	}
	if res.Written && formatter.Format() == output.FormatText {
		formatter.Success("wrote %s", res.File)
	}
	return nil
}

func keysReport(res keysResult) *output.Section {
	state := fmt.Sprintf("mode %s  cursor %d:%d", res.Mode, res.Cursor.Line+1, res.Cursor.Column+1)
	if res.Selection != nil {
		state += "  selection " + res.Selection.String()
	}

	s := &output.Section{
		Title:   res.File,
		Content: state,
		Data:    res,
	}
	if res.Register != "" {
		title := "Register"
		if res.Linewise {
			title += " (linewise)"
		}
		s.Sections = append(s.Sections, output.Section{Title: title, Code: res.Register})
	}
	switch {
	case !res.Modified:
		s.Sections = append(s.Sections, output.Section{Content: "buffer unchanged"})
	case !res.Written:
		s.Sections = append(s.Sections, output.Section{Title: "Buffer", Code: res.Buffer})
	}
	return s
}
