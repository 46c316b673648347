package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/panbanda/functextobj/pkg/parser"
	"github.com/panbanda/functextobj/pkg/textobj"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration options for functextobj.
type Config struct {
	// Text object key binding
	TextObject TextObjectConfig `koanf:"text_object" toml:"text_object"`

	// Per-language behavior
	Languages LanguagesConfig `koanf:"languages" toml:"languages"`

	// File exclusion patterns for multi-file listing
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// TextObjectConfig controls how the text object is invoked.
type TextObjectConfig struct {
	// Char follows `i`/`a` to name the function text object.
	Char string `koanf:"char" toml:"char"`
}

// LanguagesConfig adjusts which languages and constructs qualify.
type LanguagesConfig struct {
	// Disabled languages behave as unsupported.
	Disabled []string `koanf:"disabled" toml:"disabled"`
	// Lambdas lists languages where anonymous functions count as functions.
	Lambdas []string `koanf:"lambdas" toml:"lambdas"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TextObject: TextObjectConfig{
			Char: "f",
		},
		Languages: LanguagesConfig{
			Disabled: []string{},
			Lambdas:  []string{},
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				"dist",
				"build",
				"__pycache__",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var p koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		p = toml.Parser()
	case ".yaml", ".yml":
		p = yaml.Parser()
	case ".json":
		p = json.Parser()
	default:
		p = toml.Parser()
	}

	if err := k.Load(file.Provider(path), p); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// FileNames lists the config file names LoadOrDefault looks for, in order.
var FileNames = []string{
	"functextobj.toml",
	"functextobj.yaml",
	"functextobj.yml",
	"functextobj.json",
	".functextobj.toml",
	".functextobj.yaml",
	".functextobj.yml",
	".functextobj.json",
}

// Find returns the first config file under dir or dir/.functextobj, or ""
// when there is none.
func Find(dir string) string {
	for _, d := range []string{dir, filepath.Join(dir, ".functextobj")} {
		for _, name := range FileNames {
			path := filepath.Join(d, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	if path := Find("."); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.TextObject.Char) != 1 {
		return fmt.Errorf("%w: text_object.char must be a single character, got %q", ErrInvalid, c.TextObject.Char)
	}
	switch c.TextObject.Char {
	case " ", "\t", "\n", "<":
		return fmt.Errorf("%w: text_object.char %q cannot be typed as a key", ErrInvalid, c.TextObject.Char)
	}

	for _, group := range []struct {
		key   string
		langs []string
	}{
		{"languages.disabled", c.Languages.Disabled},
		{"languages.lambdas", c.Languages.Lambdas},
	} {
		for _, name := range group.langs {
			if parser.ParseLanguage(name) == parser.LangUnknown {
				return fmt.Errorf("%w: %s: unknown language %q", ErrInvalid, group.key, name)
			}
		}
	}

	switch c.Output.Format {
	case "", "text", "json", "markdown", "toon":
	default:
		return fmt.Errorf("%w: output.format must be text, json, markdown or toon, got %q", ErrInvalid, c.Output.Format)
	}

	return nil
}

// AdapterOptions translates the language settings into adapter options.
func (c *Config) AdapterOptions() []textobj.Option {
	var opts []textobj.Option
	if langs := toLanguages(c.Languages.Disabled); len(langs) > 0 {
		opts = append(opts, textobj.WithDisabled(langs...))
	}
	if langs := toLanguages(c.Languages.Lambdas); len(langs) > 0 {
		opts = append(opts, textobj.WithLambdas(langs...))
	}
	return opts
}

func toLanguages(names []string) []parser.Language {
	var langs []parser.Language
	for _, name := range names {
		if lang := parser.ParseLanguage(name); lang != parser.LangUnknown {
			langs = append(langs, lang)
		}
	}
	return langs
}

// ShouldExclude checks if a path should be skipped when listing.
func (c *Config) ShouldExclude(path string) bool {
	// Check directory exclusions
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	// Check pattern exclusions
	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
