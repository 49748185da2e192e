package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/docstrings/internal/discovery"
	"github.com/mvp-joe/docstrings/internal/extractor"
	"github.com/mvp-joe/docstrings/internal/output"
	"github.com/mvp-joe/docstrings/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-extract Python files as they change",
	Long: `Watch extracts every Python file under a directory, prints the results,
then keeps running and prints a new document for each debounced batch of
changed files until interrupted.

Unchanged content is served from an in-memory cache (cache.max_entries), so
saving a file without edits does not re-parse it. Removed files are reported
with the error "removed".

Examples:
  # Watch the current project, one compact JSON document per change
  DOCSTRINGS_OUTPUT_INDENT=0 docstrings watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	rootDir, err := resolveRoot(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(cfg)
	if err != nil {
		return err
	}

	finder, err := discovery.NewFinder(rootDir, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return err
	}

	cache, err := extractor.NewCache(cfg.Cache.MaxEntries)
	if err != nil {
		return err
	}
	defer cache.Close()

	session := &watchSession{
		extractor: extractor.New(extractor.WithCache(cache)),
		finder:    finder,
		formatter: formatter,
		out:       cmd.OutOrStdout(),
	}

	results, _, err := extractAll(ctx, session.extractor, finder, cfg.Extract.Workers, NoOpProgressReporter{})
	if err != nil {
		return err
	}
	if err := session.write(results); err != nil {
		return err
	}

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	w, err := watcher.New([]string{rootDir}, finder, debounce)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, func(files []string) {
		if err := session.handleChanges(ctx, files); err != nil {
			slog.ErrorContext(ctx, "failed to write results", "error", err)
		}
	}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "watching for changes", "root", rootDir, "files", len(results))

	<-ctx.Done()
	if err := w.Stop(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "watch stopped", "cached", cache.Len(), "cache_hits", cache.Hits())
	return nil
}

// watchSession re-extracts changed files and writes one document per batch.
type watchSession struct {
	extractor *extractor.Extractor
	finder    *discovery.Finder
	formatter output.Formatter
	out       io.Writer

	mu      sync.Mutex
	written int
}

// handleChanges extracts the changed files in order and writes them as one
// document. Files that no longer exist are reported as removed.
func (s *watchSession) handleChanges(ctx context.Context, files []string) error {
	results := make([]BatchResult, 0, len(files))

	for _, path := range files {
		result := BatchResult{Path: relativePath(s.finder.Root(), path)}

		tree, err := s.extractor.ExtractFile(ctx, path, "")
		switch {
		case err == nil:
			result.Module = tree
		case errors.Is(err, fs.ErrNotExist):
			result.Error = "removed"
		default:
			slog.WarnContext(ctx, "extraction failed", "path", path, "error", err)
			result.Error = err.Error()
		}

		results = append(results, result)
	}

	slog.DebugContext(ctx, "re-extracted changed files", "count", len(results))
	return s.write(results)
}

// write renders results as the next document; YAML documents after the
// first are separated by "---".
func (s *watchSession) write(results []BatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.formatter.(*output.YAMLFormatter); ok && s.written > 0 {
		if _, err := io.WriteString(s.out, "---\n"); err != nil {
			return fmt.Errorf("failed to write document separator: %w", err)
		}
	}

	if err := s.formatter.Write(s.out, results); err != nil {
		return err
	}
	s.written++
	return nil
}
