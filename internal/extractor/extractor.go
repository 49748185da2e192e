// Package extractor builds a tree of documented declarations from Python source.
package extractor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/docstrings/internal/syntax"
)

// Extractor parses Python source and walks it into a declaration tree.
// It is safe for concurrent use.
type Extractor struct {
	parser syntax.Parser
	cache  *Cache
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithParser replaces the tree-sitter parser.
func WithParser(p syntax.Parser) Option {
	return func(e *Extractor) {
		e.parser = p
	}
}

// WithCache serves repeated extractions of identical source from c.
func WithCache(c *Cache) Option {
	return func(e *Extractor) {
		e.cache = c
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.parser == nil {
		e.parser = syntax.NewPythonParser()
	}
	return e
}

// ExtractSource extracts the declaration tree of source. A non-empty
// moduleName becomes the name of the root module node.
func (e *Extractor) ExtractSource(ctx context.Context, source []byte, moduleName string) (*Node, error) {
	if e.cache != nil {
		if tree, ok := e.cache.get(source, moduleName); ok {
			return tree, nil
		}
	}

	root, err := e.parser.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	tree := Walk(ctx, root)
	if tree == nil {
		return nil, fmt.Errorf("parser returned %s node, expected module", root.Kind)
	}
	if moduleName != "" {
		tree.Name = moduleName
	}

	if e.cache != nil {
		e.cache.set(source, moduleName, tree)
	}
	return tree, nil
}

// ExtractReader reads r to the end and extracts it. When moduleName is empty
// and r has a Name method (as *os.File does), the module is named after the
// base name of r.Name() without its extension.
func (e *Extractor) ExtractReader(ctx context.Context, r io.Reader, moduleName string) (*Node, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	if moduleName == "" {
		if named, ok := r.(interface{ Name() string }); ok {
			moduleName = ModuleName(named.Name())
		}
	}
	return e.ExtractSource(ctx, source, moduleName)
}

// ExtractFile extracts the file at path; see ExtractReader for module naming.
func (e *Extractor) ExtractFile(ctx context.Context, path, moduleName string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	tree, err := e.ExtractReader(ctx, f, moduleName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// ModuleName derives a module name from a file name: "pkg/util.py" is "util".
func ModuleName(filename string) string {
	if filename == "" {
		return ""
	}
	base := filepath.Base(filename)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); strings.Trim(name, ".") != "" {
		return name
	}
	// Dotfiles such as ".pythonrc" keep their full name.
	return base
}
