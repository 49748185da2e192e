// Package watcher reports debounced batches of changed Python files.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Filter decides which files are reported and which directories are watched.
// *discovery.Finder satisfies it.
type Filter interface {
	MatchPath(path string) bool
	SkipDir(path string) bool
}

// Watcher monitors directory trees for file changes.
type Watcher struct {
	watcher       *fsnotify.Watcher
	filter        Filter
	debounceTime  time.Duration        // Quiet period before firing callback
	callback      func(files []string) // Invoked with sorted, de-duplicated paths
	ctx           context.Context
	cancel        context.CancelFunc
	accumulated   map[string]bool // Changes since the last callback
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once
	doneCh        chan struct{} // Closed when the watch goroutine exits
}

// New creates a watcher over dirs, recursively. A zero debounce fires on
// every event.
func New(dirs []string, filter Filter, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:      fw,
		filter:       filter,
		debounceTime: debounce,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	for _, dir := range dirs {
		if _, err := w.addDirectoriesRecursively(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}

	return w, nil
}

// Start begins watching; callback runs on the watch goroutine.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return fmt.Errorf("watcher callback is required")
	}
	if w.cancel != nil {
		return fmt.Errorf("watcher already started")
	}

	w.callback = callback
	w.ctx, w.cancel = context.WithCancel(ctx)

	go w.watch()
	return nil
}

// Stop stops the watcher and waits for the watch goroutine. It is safe to
// call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.watcher.Close()
	})
	return err
}

// Done is closed when the watch goroutine exits.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

func (w *Watcher) watch() {
	defer close(w.doneCh)

	flushCh := make(chan struct{}, 1)

	for {
		select {
		case <-w.ctx.Done():
			w.stopDebounceTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// New directories are watched as they appear, and files that
			// arrived with them (a checkout, a copied tree) are reported.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if w.filter.SkipDir(event.Name) {
						continue
					}
					files, err := w.addDirectoriesRecursively(event.Name)
					if err != nil {
						slog.WarnContext(w.ctx, "failed to watch new directory", "dir", event.Name, "error", err)
					}
					if len(files) > 0 {
						w.accumulatedMu.Lock()
						for _, file := range files {
							w.accumulated[file] = true
						}
						w.accumulatedMu.Unlock()
						w.resetDebounceTimer(flushCh)
					}
					continue
				}
			}

			if !w.shouldProcessEvent(event) {
				continue
			}

			w.accumulatedMu.Lock()
			w.accumulated[event.Name] = true
			w.accumulatedMu.Unlock()

			w.resetDebounceTimer(flushCh)

		case <-flushCh:
			w.flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.WarnContext(w.ctx, "file watcher error", "error", err)
		}
	}
}

// flush hands the accumulated files to the callback.
func (w *Watcher) flush() {
	w.accumulatedMu.Lock()
	if len(w.accumulated) == 0 {
		w.accumulatedMu.Unlock()
		return
	}

	files := make([]string, 0, len(w.accumulated))
	for file := range w.accumulated {
		files = append(files, file)
	}
	w.accumulated = make(map[string]bool)
	w.accumulatedMu.Unlock()

	sort.Strings(files)
	w.callback(files)
}

// resetDebounceTimer restarts the quiet period.
func (w *Watcher) resetDebounceTimer(flushCh chan struct{}) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounceTime, func() {
		select {
		case flushCh <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopDebounceTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}

// shouldProcessEvent keeps writes, creates, removes and renames of matching files.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.filter.MatchPath(event.Name)
}

// addDirectoriesRecursively adds every non-skipped directory under rootPath
// and returns the files under it that the filter matches.
func (w *Watcher) addDirectoriesRecursively(rootPath string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == rootPath {
				return fmt.Errorf("failed to watch %s: %w", rootPath, err)
			}
			slog.Warn("error accessing path", "path", path, "error", err)
			return nil
		}

		if !d.IsDir() {
			if w.filter.MatchPath(path) {
				files = append(files, path)
			}
			return nil
		}
		if path != rootPath && w.filter.SkipDir(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			slog.Warn("failed to watch directory", "dir", path, "error", err)
		}
		return nil
	})
	return files, err
}
