package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/docstrings/internal/discovery"
	"github.com/mvp-joe/docstrings/internal/extractor"
)

var (
	batchQuietFlag   bool
	batchWorkersFlag int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Extract every Python file under a directory",
	Long: `Batch discovers Python files under a directory (default: the current
directory) using paths.include and paths.ignore, extracts them concurrently
and prints one entry per file in path order.

Files that fail to parse are reported with their error and do not stop the
batch; the command exits non-zero when any file failed.

Examples:
  # Extract the current project
  docstrings batch

  # Extract a package with 8 workers, YAML output, no progress bar
  docstrings batch ./src --workers 8 --format yaml --quiet
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().BoolVarP(&batchQuietFlag, "quiet", "q", false, "Disable the progress bar")
	batchCmd.Flags().IntVarP(&batchWorkersFlag, "workers", "w", 0, "Concurrent files (default from extract.workers)")
}

// BatchResult is the outcome for one file.
type BatchResult struct {
	Path   string          `json:"path" yaml:"path"`
	Module *extractor.Node `json:"module,omitempty" yaml:"module,omitempty"`
	Error  string          `json:"error,omitempty" yaml:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
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

	workers := cfg.Extract.Workers
	if batchWorkersFlag > 0 {
		workers = batchWorkersFlag
	}

	var progress ProgressReporter = NoOpProgressReporter{}
	if !batchQuietFlag {
		progress = NewCLIProgressReporter(cmd.ErrOrStderr())
	}

	results, stats, err := extractAll(ctx, extractor.New(), finder, workers, progress)
	if err != nil {
		return err
	}

	if err := formatter.Write(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d files failed to extract", stats.Failed, stats.Files)
	}
	return nil
}

// resolveRoot returns the absolute directory named by args, or the working
// directory.
func resolveRoot(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	rootDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	info, err := os.Stat(rootDir)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", rootDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", rootDir)
	}
	return rootDir, nil
}

// extractAll extracts every file the finder discovers using up to workers
// goroutines. Per-file failures are recorded in the results; only
// cancellation aborts the run. Results are in discovery order.
func extractAll(ctx context.Context, ex *extractor.Extractor, finder *discovery.Finder, workers int, progress ProgressReporter) ([]BatchResult, BatchStats, error) {
	start := time.Now()

	files, err := finder.Discover()
	if err != nil {
		return nil, BatchStats{}, err
	}
	progress.OnDiscoveryComplete(len(files))

	results := make([]BatchResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i].Path = relativePath(finder.Root(), path)

			tree, err := ex.ExtractFile(gctx, path, "")
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				slog.DebugContext(gctx, "extraction failed", "path", path, "error", err)
				results[i].Error = err.Error()
			} else {
				results[i].Module = tree
			}

			progress.OnFileProcessed(path, err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, BatchStats{}, fmt.Errorf("batch cancelled: %w", err)
	}

	stats := BatchStats{Files: len(files), Duration: time.Since(start)}
	for _, r := range results {
		if r.Module == nil {
			stats.Failed++
			continue
		}
		stats.Declarations += r.Module.Count()
	}

	progress.OnComplete(stats)
	return results, stats, nil
}

func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
