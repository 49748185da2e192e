// Package discovery finds Python sources under a directory using include and
// ignore globs.
package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled globs. A leading
// "**/" is optional, so loose also matches paths at the root.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
	loose   glob.Glob
}

func (cp compiledPattern) match(path string) bool {
	if cp.glob.Match(path) {
		return true
	}
	return cp.loose != nil && cp.loose.Match(path)
}

// Finder matches relative paths against include and ignore patterns.
type Finder struct {
	rootDir        string
	includePattern []compiledPattern
	ignorePattern  []compiledPattern
}

// NewFinder compiles the patterns for files under rootDir.
func NewFinder(rootDir string, include, ignore []string) (*Finder, error) {
	f := &Finder{rootDir: rootDir}

	var err error
	if f.includePattern, err = compile(include); err != nil {
		return nil, err
	}
	if f.ignorePattern, err = compile(ignore); err != nil {
		return nil, err
	}
	return f, nil
}

func compile(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		cp := compiledPattern{pattern: pattern, glob: g}

		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if loose, err := glob.Compile(rest, '/'); err == nil {
				cp.loose = loose
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

// Root returns the directory the finder walks.
func (f *Finder) Root() string {
	return f.rootDir
}

// Discover walks the root and returns matching files in lexical order.
// Ignored directories are not descended into.
func (f *Finder) Discover() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(f.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(f.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath != "." && f.ignoreDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if f.Match(relPath) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", f.rootDir, err)
	}

	sort.Strings(files)
	return files, nil
}

// Match reports whether a slash-separated path relative to the root is
// included and not ignored.
func (f *Finder) Match(relPath string) bool {
	if f.shouldIgnore(relPath) {
		return false
	}
	return matchesAnyPattern(relPath, f.includePattern)
}

// MatchPath is Match for an absolute or root-joined path.
func (f *Finder) MatchPath(path string) bool {
	relPath, err := filepath.Rel(f.rootDir, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return false
	}
	return f.Match(filepath.ToSlash(relPath))
}

// SkipDir reports whether the directory at path is ignored. Paths outside
// the root are skipped.
func (f *Finder) SkipDir(path string) bool {
	relPath, err := filepath.Rel(f.rootDir, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return true
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		return false
	}
	return f.ignoreDir(relPath)
}

// shouldIgnore checks if a path matches any ignore pattern.
func (f *Finder) shouldIgnore(relPath string) bool {
	if relPath == ".docstrings" || strings.HasPrefix(relPath, ".docstrings/") {
		return true
	}
	if matchesAnyPattern(relPath, f.ignorePattern) {
		return true
	}
	// Files inside an ignored directory
	for dir := parentDir(relPath); dir != ""; dir = parentDir(dir) {
		if f.ignoreDir(dir) {
			return true
		}
	}
	return false
}

// ignoreDir checks a directory; "node_modules" matches "node_modules/**".
func (f *Finder) ignoreDir(relPath string) bool {
	if relPath == ".docstrings" {
		return true
	}
	return matchesAnyPattern(relPath, f.ignorePattern) ||
		matchesAnyPattern(relPath+"/**", f.ignorePattern)
}

func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.match(path) {
			return true
		}
	}
	return false
}

func parentDir(relPath string) string {
	i := strings.LastIndex(relPath, "/")
	if i < 0 {
		return ""
	}
	return relPath[:i]
}
