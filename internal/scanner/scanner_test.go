package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/functextobj/internal/testutil"
	"github.com/panbanda/functextobj/pkg/config"
	"github.com/panbanda/functextobj/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScanner(t *testing.T) {
	s := NewScanner(nil)
	require.NotNil(t, s)
	assert.NotNil(t, s.config)

	cfg := config.DefaultConfig()
	s = NewScanner(cfg)
	assert.Same(t, cfg, s.config)
}

func TestScanDir(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.CreateFileTree(t, tmpDir, map[string]string{
		"main.go":          "package main\n",
		"util/helper.go":   "package util\n",
		"util/helper.py":   "# python\n",
		"internal/core.rs": "fn main() {}\n",
		"scripts/run.sh":   "echo hi\n",
		"README.md":        "# readme\n",
		"notes.txt":        "notes\n",
	})

	result, err := NewScanner(nil).ScanDir(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"internal/core.rs",
		"main.go",
		"scripts/run.sh",
		"util/helper.go",
		"util/helper.py",
	}, testutil.RelFiles(t, tmpDir, result))
}

func TestScanDirExcludesDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.CreateFileTree(t, tmpDir, map[string]string{
		"vendor/file.go":           "package x\n",
		"node_modules/pkg/file.js": "function f() {}\n",
		"src/vendor/deep.go":       "package x\n",
		"src/vendor_utils.go":      "package src\n",
		"main.go":                  "package main\n",
	})

	result, err := NewScanner(nil).ScanDir(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"main.go", "src/vendor_utils.go"}, testutil.RelFiles(t, tmpDir, result))
}

func TestScanDirExcludesPatterns(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.CreateFileTree(t, tmpDir, map[string]string{
		"app.js":           "function a() {}\n",
		"app.min.js":       "function a(){}\n",
		"gen/model_gen.go": "package gen\n",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, "*_gen.go")

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"app.js"}, testutil.RelFiles(t, tmpDir, result))
}

func TestScanDirDisabledLanguage(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.CreateFileTree(t, tmpDir, map[string]string{
		"a.py": "def f():\n    pass\n",
		"b.go": "package b\n",
	})

	cfg := config.DefaultConfig()
	cfg.Languages.Disabled = []string{"python"}

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"b.go"}, testutil.RelFiles(t, tmpDir, result))
}

func TestScanDirWithGitignore(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0755))
	testutil.CreateFileTree(t, tmpDir, map[string]string{
		".gitignore":     "skipme\n*.gen.ts\n",
		"main.go":        "package main\n",
		"skipme/skip.go": "package skipme\n",
		"src/app.go":     "package src\n",
		"src/api.gen.ts": "export function f() {}\n",
	})

	result, err := NewScanner(nil).ScanDir(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "src/app.go"}, testutil.RelFiles(t, tmpDir, result))

	// A subdirectory scan still honors the repository's .gitignore.
	result, err = NewScanner(nil).ScanDir(filepath.Join(tmpDir, "src"))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app.go"}, testutil.RelFiles(t, tmpDir, result))

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	result, err = NewScanner(cfg).ScanDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, result, 4)
}

func TestScanDirEmptyDirectory(t *testing.T) {
	result, err := NewScanner(nil).ScanDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestScanFile(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.CreateFileTree(t, tmpDir, map[string]string{
		"main.go":    "package main\n",
		"app.min.js": "function a(){}\n",
		"notes.txt":  "notes\n",
	})

	s := NewScanner(nil)
	tests := []struct {
		name string
		want bool
	}{
		{"main.go", true},
		{"app.min.js", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ScanFile(filepath.Join(tmpDir, tt.name))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := s.ScanFile(tmpDir)
	require.NoError(t, err)
	assert.False(t, got)

	_, err = s.ScanFile(filepath.Join(tmpDir, "missing.go"))
	assert.Error(t, err)
}

func TestScanPaths(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.CreateFileTree(t, tmpDir, map[string]string{
		"a/one.go":   "package a\n",
		"a/two.rb":   "def two; end\n",
		"b/three.kt": "fun three() {}\n",
	})

	s := NewScanner(nil)
	result, err := s.ScanPaths([]string{
		filepath.Join(tmpDir, "a"),
		filepath.Join(tmpDir, "a", "one.go"),
		filepath.Join(tmpDir, "b", "three.kt"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one.go", "a/two.rb", "b/three.kt"}, testutil.RelFiles(t, tmpDir, result))

	_, err = s.ScanPaths([]string{filepath.Join(tmpDir, "nope")})
	assert.Error(t, err)
}

func TestGroupByLanguage(t *testing.T) {
	groups := NewScanner(nil).GroupByLanguage([]string{"a.go", "b.go", "c.py", "d.txt"})

	assert.Len(t, groups, 2)
	assert.Equal(t, []string{"a.go", "b.go"}, groups[parser.LangGo])
	assert.Equal(t, []string{"c.py"}, groups[parser.LangPython])
}

func TestIsWithinRoot(t *testing.T) {
	tests := []struct {
		path string
		root string
		want bool
	}{
		{"/root/file.go", "/root", true},
		{"/root/sub/file.go", "/root", true},
		{"/root", "/root", true},
		{"/root2/file.go", "/root", false},
		{"/other/file.go", "/root", false},
		{"/root/../etc/passwd", "/root", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, isWithinRoot(tt.path, tt.root))
		})
	}
}

func TestFindGitRoot(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0755))
	sub := filepath.Join(tmpDir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))

	assert.Equal(t, tmpDir, findGitRoot(sub))
	assert.Equal(t, tmpDir, findGitRoot(tmpDir))
}

func TestScanDirWithSymlinkDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(tmpDir, "real", "file.go"), "package real\n")

	outsideDir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(outsideDir, "outside.go"), "package outside\n")

	if err := os.Symlink(outsideDir, filepath.Join(tmpDir, "linked")); err != nil {
		t.Skip("Symlinks not supported on this system")
	}
	if err := os.Symlink("/nonexistent/path/file.go", filepath.Join(tmpDir, "dangling.go")); err != nil {
		t.Skip("Symlinks not supported on this system")
	}

	result, err := NewScanner(nil).ScanDir(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"real/file.go"}, testutil.RelFiles(t, tmpDir, result))
}
