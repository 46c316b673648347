package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/functextobj/pkg/config"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate a configuration file",
				ArgsUsage: "[file]",
				Description: `Validates a functextobj configuration file for syntax errors and invalid values.

Examples:
  functextobj config validate                    # Validates default config locations
  functextobj config validate functextobj.toml   # Validates specific file`,
				Action: runConfigValidate,
			},
			{
				Name:      "show",
				Usage:     "Show the effective configuration",
				ArgsUsage: "[file]",
				Action:    runConfigShow,
			},
			{
				Name:      "init",
				Usage:     "Create a configuration file with the defaults",
				ArgsUsage: "[file]",
				Description: `Creates functextobj.toml in the current directory, or at the given path.

Examples:
  functextobj config init
  functextobj config init .functextobj/functextobj.toml
  functextobj config init --force`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite existing config file",
					},
				},
				Action: runConfigInit,
			},
		},
	}
}

// configPath returns the file named on the command line, falling back to
// the global --config flag.
func configPath(c *cli.Context) string {
	if c.NArg() > 0 {
		return c.Args().First()
	}
	return c.String("config")
}

func runConfigValidate(c *cli.Context) error {
	w := c.App.Writer
	_, source, err := loadConfig(configPath(c))
	if err != nil {
		color.New(color.FgRed).Fprintln(w, "Configuration validation failed:")
		fmt.Fprintf(w, "  - %s\n", err)
		return err
	}

	if source != "" {
		color.New(color.FgGreen).Fprintf(w, "Configuration valid: %s\n", source)
	} else {
		color.New(color.FgYellow).Fprintln(w, "No config file found. Default configuration is valid.")
	}
	return nil
}

func runConfigShow(c *cli.Context) error {
	cfg, source, err := loadConfig(configPath(c))
	if err != nil {
		return err
	}

	w := c.App.Writer
	if source != "" {
		fmt.Fprintf(w, "# Configuration from: %s\n\n", source)
	} else {
		fmt.Fprintln(w, "# Default configuration (no config file found)")
	}

	content, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprint(w, string(content))
	return nil
}

func runConfigInit(c *cli.Context) error {
	outputPath := config.FileNames[0]
	if c.NArg() > 0 {
		outputPath = c.Args().First()
	}

	if _, err := os.Stat(outputPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	content, err := generateDefaultConfig()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	color.New(color.FgGreen).Fprintf(c.App.Writer, "Created %s\n", outputPath)
	return nil
}

func generateDefaultConfig() (string, error) {
	content, err := toml.Marshal(config.DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# functextobj configuration\n")
	buf.WriteString("# text_object.char is the key after i/a, languages.lambdas opts anonymous functions in.\n\n")
	buf.Write(content)
	return buf.String(), nil
}
