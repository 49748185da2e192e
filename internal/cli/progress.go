package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// BatchStats summarizes a batch run.
type BatchStats struct {
	Files        int
	Failed       int
	Declarations int
	Duration     time.Duration
}

// ProgressReporter receives batch extraction progress. OnFileProcessed is
// called concurrently from worker goroutines.
type ProgressReporter interface {
	OnDiscoveryComplete(files int)
	OnFileProcessed(path string, err error)
	OnComplete(stats BatchStats)
}

// NoOpProgressReporter discards all progress.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnDiscoveryComplete(int) {}
func (NoOpProgressReporter) OnFileProcessed(string, error) {}
func (NoOpProgressReporter) OnComplete(BatchStats) {}

// CLIProgressReporter draws a progress bar on w, normally stderr.
type CLIProgressReporter struct {
	w       io.Writer
	mu      sync.Mutex
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a progress bar reporter writing to w.
func NewCLIProgressReporter(w io.Writer) *CLIProgressReporter {
	return &CLIProgressReporter{w: w}
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.w, "Extracting %d Python files\n", files)
	c.fileBar = progressbar.NewOptions(files,
		progressbar.OptionSetWriter(c.w),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.w)
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fileBar != nil {
		_ = c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats BatchStats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fileBar != nil {
		_ = c.fileBar.Finish()
		c.fileBar = nil
	}
	fmt.Fprintf(c.w, "✓ Extraction complete: %d declarations from %d files in %.1fs\n",
		stats.Declarations, stats.Files, stats.Duration.Seconds())
	if stats.Failed > 0 {
		fmt.Fprintf(c.w, "  Failed: %d\n", stats.Failed)
	}
}
