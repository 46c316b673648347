package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/functextobj/pkg/config"
	"github.com/panbanda/functextobj/pkg/parser"
	"github.com/panbanda/functextobj/pkg/textobj"
)

// Scanner finds source files whose language has a function text object.
type Scanner struct {
	config   *config.Config
	opts     []textobj.Option
	matchers []gitignore.Matcher
	// base is the directory matcher paths are relative to.
	base string
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg, opts: cfg.AdapterOptions()}
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns loads exclusion patterns from both config and .gitignore files.
// Config patterns are parsed as gitignore patterns and combined with .gitignore files.
func (s *Scanner) loadExcludePatterns(root string) {
	s.matchers = nil
	s.base, _ = filepath.Abs(root)

	var patterns []gitignore.Pattern
	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	if s.config.Exclude.Gitignore {
		if gitRoot := findGitRoot(root); gitRoot != "" {
			// ReadPatterns walks every .gitignore below the repository root.
			if gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil); err == nil {
				patterns = append(patterns, gitPatterns...)
			}
			s.base = gitRoot
		}
	}

	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// isExcluded checks if a path matches any exclusion pattern or configured
// directory.
func (s *Scanner) isExcluded(path string, isDir bool) bool {
	rel := path
	if abs, err := filepath.Abs(path); err == nil && s.base != "" {
		if r, err := filepath.Rel(s.base, abs); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}

	if isDir && rel != "." && s.config.ShouldExclude(rel+string(filepath.Separator)) {
		return true
	}

	pathParts := strings.Split(rel, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(pathParts, isDir) {
			return true
		}
	}
	return false
}

// Supported reports whether path is in a language with an enabled adapter.
func (s *Scanner) Supported(path string) bool {
	return textobj.ForLanguage(parser.DetectLanguage(path), s.opts...) != nil
}

// ScanDir recursively scans a directory for source files.
// Symlinks resolving outside the root are skipped.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(root)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			if path != root && s.isExcluded(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(path, false) {
			return nil
		}
		if s.Supported(path) {
			files = append(files, path)
		}

		return nil
	})

	return files, walkErr
}

// ScanPaths expands each path: directories are scanned, files are kept when
// ScanFile accepts them. The result is sorted and free of duplicates.
func (s *Scanner) ScanPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := s.ScanDir(p)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
			continue
		}
		ok, err := s.ScanFile(p)
		if err != nil {
			return nil, err
		}
		if ok {
			add(p)
		}
	}

	sort.Strings(files)
	return files, nil
}

// isWithinRoot checks if a path is contained within the root directory.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// The separator keeps "/root2" from matching "/root".
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// ScanFile checks if a single file should be listed. Files named explicitly
// are only excluded by configured patterns, never by .gitignore.
func (s *Scanner) ScanFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	if info.IsDir() {
		return false, nil
	}

	base := filepath.Base(path)
	for _, pattern := range s.config.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return false, nil
		}
	}

	return s.Supported(path), nil
}

// GroupByLanguage groups files by their detected language.
func (s *Scanner) GroupByLanguage(files []string) map[parser.Language][]string {
	groups := make(map[parser.Language][]string)
	for _, f := range files {
		lang := parser.DetectLanguage(f)
		if lang != parser.LangUnknown {
			groups[lang] = append(groups[lang], f)
		}
	}
	return groups
}
