package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/functextobj/internal/output"
	"github.com/panbanda/functextobj/pkg/config"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "functextobj",
		Usage:    "Select, change, delete or yank whole functions in source files",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `functextobj resolves the "inner function" and "around function" text objects
of vim-style editors against a tree-sitter parse of the file.

Supports: Bash, C, C++, C#, Go, Java, JavaScript, Kotlin, Lua, PHP, Python,
Ruby, Rust, Scala, TSX, TypeScript`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"FUNCTEXTOBJ_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Print resolution details to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, source, err := loadConfig(c.String("config"))
			if err != nil {
				// The config commands report a broken file themselves.
				if c.Args().First() != "config" {
					return err
				}
				cfg = config.DefaultConfig()
			}
			c.App.Metadata["config"] = cfg
			c.App.Metadata["configSource"] = source
			if c.Bool("no-color") || !cfg.Output.Color {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			applyCmd(),
			keysCmd(),
			listCmd(),
			languagesCmd(),
			configCmd(),
		},
	}
}

// loadConfig loads the config at path, or the first config file found in
// the working directory, or the defaults. source names the file used.
func loadConfig(path string) (cfg *config.Config, source string, err error) {
	if path == "" {
		path = config.Find(".")
	}
	if path == "" {
		return config.DefaultConfig(), "", nil
	}
	cfg, err = config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// appConfig returns the config loaded by the app's Before hook.
func appConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata["config"].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

// newFormatter builds the formatter for the global --format, --output and
// --no-color flags, falling back to the config's output settings.
func newFormatter(c *cli.Context) (*output.Formatter, error) {
	cfg := appConfig(c)

	format := cfg.Output.Format
	if c.IsSet("format") {
		format = c.String("format")
	}
	switch format {
	case "", "text", "json", "markdown", "md", "toon":
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json, markdown or toon)", format)
	}

	colored := cfg.Output.Color && !c.Bool("no-color")
	if path := c.String("output"); path != "" {
		return output.NewFormatter(output.ParseFormat(format), path, false)
	}
	return output.New(output.ParseFormat(format), c.App.Writer, colored), nil
}

// verbosef prints a diagnostic line to stderr when --verbose is set.
func verbosef(c *cli.Context, format string, args ...any) {
	if !c.Bool("verbose") {
		return
	}
	w := c.App.ErrWriter
	if w == nil {
		w = os.Stderr
	}
	color.New(color.Faint).Fprintf(w, format+"\n", args...)
}
