// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch is delivered. Editors
// often write a temp file then rename it; both events land in one batch.
const DefaultDebounce = 300 * time.Millisecond

var errRunTwice = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the project directory to watch. Empty means the working
		// directory.
		Root string
		// Patterns select source files (doublestar syntax, relative to Root).
		// Empty means DefaultPatterns.
		Patterns []string
		// Ignore adds to the built-in ignores (elm-stuff, VCS and editor
		// files).
		Ignore []string
		// Debounce overrides DefaultDebounce when positive.
		Debounce time.Duration
		// OnChange receives each non-empty batch. Calls never overlap.
		OnChange func(ctx context.Context, batch Batch) error
		// Logger defaults to slog.Default().
		Logger *slog.Logger
	}

	// Watcher delivers debounced change batches for an Elm project.
	Watcher struct {
		fsw      *fsnotify.Watcher
		filter   filter
		root     string
		debounce time.Duration
		onChange func(ctx context.Context, batch Batch) error
		logger   *slog.Logger
		pending  *collector
		started  atomic.Bool
	}
)

// New creates a Watcher and registers every non-ignored directory under
// Root.
func New(cfg Config) (*Watcher, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		root = wd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	f, err := newFilter(cfg.Patterns, cfg.Ignore)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		filter:   f,
		root:     absRoot,
		debounce: DefaultDebounce,
		onChange: cfg.OnChange,
		logger:   cfg.Logger,
		pending:  newCollector(),
	}
	if cfg.Debounce > 0 {
		w.debounce = cfg.Debounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	if err := w.addTree(absRoot); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Root returns the absolute watch root.
func (w *Watcher) Root() string {
	return w.root
}

// Run processes events until ctx ends. It returns nil on cancellation and an
// error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errRunTwice
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("watch: close fsnotify", "error", err)
		}
	}()

	var (
		mu    sync.Mutex
		timer *time.Timer
		busy  atomic.Bool
	)

	schedule := func(fire func()) {
		mu.Lock()
		defer mu.Unlock()
		if timer == nil {
			timer = time.AfterFunc(w.debounce, fire)
			return
		}
		timer.Reset(w.debounce)
	}

	var fire func()
	fire = func() {
		if ctx.Err() != nil {
			return
		}
		// A slow rebuild keeps its batch pending; retry after another window.
		if !busy.CompareAndSwap(false, true) {
			w.logger.Debug("watch: rebuild in progress, deferring batch")
			schedule(fire)
			return
		}
		defer busy.Store(false)

		batch := w.pending.drain()
		if batch.Empty() || w.onChange == nil {
			return
		}
		if err := w.onChange(ctx, batch); err != nil {
			w.logger.Error("watch: rebuild failed", "error", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if w.record(evt) {
				schedule(fire)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// record files evt into the pending batch and reports whether it was
// relevant.
func (w *Watcher) record(evt fsnotify.Event) bool {
	if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
		return false
	}

	rel, err := filepath.Rel(w.root, evt.Name)
	if err != nil {
		rel = evt.Name
	}
	if w.filter.ignored(rel) {
		return false
	}

	if evt.Has(fsnotify.Create) {
		w.addNewDir(evt.Name, rel)
	}

	switch {
	case isConfigFile(rel):
		w.pending.addConfig()
	case w.filter.source(rel):
		w.pending.addSource(evt.Name)
	default:
		return false
	}
	return true
}

// addTree registers dir and every non-ignored directory below it.
// Unreadable directories are logged and skipped.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("watch: skipping inaccessible path", "path", p, "error", walkErr)
			return nil //nolint:nilerr // unreadable directories are not fatal
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.root, p)
		if relErr == nil && rel != "." && w.filter.ignoredDir(rel) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(p); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", p, addErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", dir, err)
	}
	return nil
}

// addNewDir extends the watch to a directory created after startup.
func (w *Watcher) addNewDir(path, rel string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.filter.ignoredDir(rel) {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("watch: add new directory", "path", path, "error", err)
	}
}
