// Package watch re-runs a callback when watched files change.
//
// It follows files through editors that save by renaming a temporary file
// over the original, which shows up as a Remove or Rename of the watched
// path followed by a Create.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures the watcher behavior.
type Options struct {
	Paths    []string                                     // Files to watch
	Debounce time.Duration                                // Quiet period before a change is reported
	OnChange func(ctx context.Context, path string) error // Called once per settled change
	Logger   *slog.Logger
}

// Watcher reports changes to a fixed set of files.
type Watcher struct {
	opts    Options
	watched map[string]struct{}
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	fired   chan string
	done    chan struct{}
}

// New creates a new Watcher with the given options.
func New(opts Options) (*Watcher, error) {
	if len(opts.Paths) == 0 {
		return nil, errors.New("no paths to watch")
	}
	if opts.OnChange == nil {
		return nil, errors.New("OnChange callback is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}

	watched := make(map[string]struct{}, len(opts.Paths))
	for _, p := range opts.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		watched[abs] = struct{}{}
	}

	return &Watcher{
		opts:    opts,
		watched: watched,
		pending: make(map[string]*time.Timer),
		fired:   make(chan string, len(watched)),
		done:    make(chan struct{}),
	}, nil
}

// Run watches until ctx is cancelled or an error occurs. Errors returned by
// OnChange stop the watcher. Run must be called at most once.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()
	if err := w.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)

		case path := <-w.fired:
			w.opts.Logger.Info("file changed", "path", path)
			if err := w.opts.OnChange(ctx, path); err != nil {
				return err
			}
		}
	}
}

// setupWatcher watches the parent directories of all paths. Watching the
// directory rather than the file survives atomic-rename saves.
func (w *Watcher) setupWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	dirs := make(map[string]struct{})
	for path := range w.watched {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
		w.opts.Logger.Debug("watching directory", "dir", dir)
	}
	return nil
}

// handleEvent schedules a debounced change for writes and creates of a
// watched path.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := w.watched[path]; !ok {
		return
	}

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.schedule(path)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// The replacement arrives as a Create.
		w.opts.Logger.Debug("file moved away", "path", path)
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Stop fails once the timer has fired; that run reports the earlier
	// change and a fresh timer covers this one.
	if t, ok := w.pending[path]; ok && t.Stop() {
		t.Reset(w.opts.Debounce)
		return
	}

	var t *time.Timer
	t = time.AfterFunc(w.opts.Debounce, func() {
		w.mu.Lock()
		if w.pending[path] == t {
			delete(w.pending, path)
		}
		w.mu.Unlock()
		select {
		case w.fired <- path:
		case <-w.done:
		}
	})
	w.pending[path] = t
}

// close stops pending timers and the fsnotify watcher.
func (w *Watcher) close() {
	close(w.done)

	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if w.watcher != nil {
		w.watcher.Close()
	}
}
