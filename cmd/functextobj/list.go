package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/panbanda/functextobj/internal/cache"
	"github.com/panbanda/functextobj/internal/fileproc"
	"github.com/panbanda/functextobj/internal/output"
	"github.com/panbanda/functextobj/internal/progress"
	"github.com/panbanda/functextobj/internal/scanner"
	"github.com/panbanda/functextobj/pkg/parser"
	"github.com/panbanda/functextobj/pkg/textobj"
	"github.com/urfave/cli/v2"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List every function text object in files or directories",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Number of parallel workers (default: 2x CPUs)",
			},
			&cli.StringFlag{
				Name:    "cache",
				Usage:   "Directory to cache per-file listings in (disabled when empty)",
				EnvVars: []string{"FUNCTEXTOBJ_CACHE"},
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Do not show a progress bar",
			},
		},
		Action: runListCmd,
	}
}

// listedFunction is one function with its ranges as 1-based line numbers.
type listedFunction struct {
	File        string          `json:"file"`
	Language    parser.Language `json:"language"`
	Name        string          `json:"name"`
	Kind        string          `json:"kind"`
	HasBody     bool            `json:"has_body"`
	Inner       textobj.Span    `json:"inner"`
	Around      textobj.Span    `json:"around"`
	InnerLines  [2]int          `json:"inner_lines"`
	AroundLines [2]int          `json:"around_lines"`
}

func runListCmd(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg := appConfig(c)
	files, err := scanner.NewScanner(cfg).ScanPaths(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported source files found")
	}
	verbosef(c, "scanning %d files", len(files))

	var onProgress fileproc.ProgressFunc
	var tracker *progress.Tracker
	if !c.Bool("no-progress") && len(files) > 1 {
		tracker = progress.NewTrackerTo(c.App.ErrWriter, "Listing functions", len(files))
		onProgress = tracker.Tick
	}

	store, err := cache.New(c.String("cache"))
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	opts := cfg.AdapterOptions()
	lambdas := strings.Join(cfg.Languages.Lambdas, ",")
	perFile, errs := fileproc.MapFilesN(c.Context, files, c.Int("jobs"), func(psr *parser.Parser, path string) ([]listedFunction, error) {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		key, hash := path+"\x00"+lambdas, cache.HashBytes(src)
		if data, ok := store.Get(key, hash); ok {
			var fns []listedFunction
			if json.Unmarshal(data, &fns) == nil {
				return fns, nil
			}
		}

		result, err := psr.Parse(src, parser.DetectLanguage(path), path)
		if err != nil {
			return nil, err
		}
		fns := listFunctions(result, textobj.Functions(result, textobj.ForLanguage(result.Language, opts...)))

		if store.Enabled() {
			if data, err := json.Marshal(fns); err == nil {
				_ = store.Set(key, hash, data)
			}
		}
		return fns, nil
	}, onProgress)

	if tracker != nil {
		if errs != nil {
			tracker.FinishError(errs)
		} else {
			tracker.FinishSuccess()
		}
	}

	var fns []listedFunction
	for _, f := range perFile {
		fns = append(fns, f...)
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if errs != nil {
		for _, e := range errs.Errors {
			verbosef(c, "%s", e.Error())
		}
		if formatter.Format() == output.FormatText {
			formatter.Warning("%s", errs.Error())
		}
	}

	return formatter.Output(listTable(fns))
}

func listFunctions(result *parser.ParseResult, resolved []*textobj.Resolved) []listedFunction {
	out := make([]listedFunction, 0, len(resolved))
	for _, r := range resolved {
		innerFirst, innerLast := r.Inner.Lines(result.Source)
		aroundFirst, aroundLast := r.Around.Lines(result.Source)
		out = append(out, listedFunction{
			File:        result.Path,
			Language:    r.Language,
			Name:        r.Name,
			Kind:        r.Kind,
			HasBody:     r.HasBody,
			Inner:       r.Inner,
			Around:      r.Around,
			InnerLines:  [2]int{innerFirst + 1, innerLast + 1},
			AroundLines: [2]int{aroundFirst + 1, aroundLast + 1},
		})
	}
	return out
}

func listTable(fns []listedFunction) *output.Table {
	rows := make([][]string, 0, len(fns))
	files := make(map[string]bool)
	for _, fn := range fns {
		files[fn.File] = true
		name := fn.Name
		if name == "" {
			name = "(anonymous)"
		}
		inner := fmt.Sprintf("%d-%d", fn.InnerLines[0], fn.InnerLines[1])
		if !fn.HasBody {
			inner += " (signature)"
		}
		rows = append(rows, []string{
			filepath.ToSlash(fn.File),
			name,
			fn.Kind,
			inner,
			fmt.Sprintf("%d-%d", fn.AroundLines[0], fn.AroundLines[1]),
		})
	}

	if fns == nil {
		fns = []listedFunction{}
	}
	return output.NewTable(
		"Functions",
		[]string{"File", "Function", "Kind", "Inner", "Around"},
		rows,
		[]string{fmt.Sprintf("%d files", len(files)), fmt.Sprintf("%d functions", len(fns)), "", "", ""},
		fns,
	)
}
