// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

type runningWatcher struct {
	batches chan Batch
	cancel  context.CancelFunc
	errCh   chan error
}

func startWatcher(t *testing.T, cfg Config) *runningWatcher {
	t.Helper()

	batches := make(chan Batch, 10)
	if cfg.OnChange == nil {
		cfg.OnChange = func(_ context.Context, b Batch) error {
			batches <- b
			return nil
		}
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = 50 * time.Millisecond
	}

	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	rw := &runningWatcher{batches: batches, cancel: cancel, errCh: make(chan error, 1)}
	go func() { rw.errCh <- w.Run(ctx) }()
	t.Cleanup(cancel)

	// Let the event loop start.
	time.Sleep(50 * time.Millisecond)
	return rw
}

func (rw *runningWatcher) next(t *testing.T) Batch {
	t.Helper()
	select {
	case b := <-rw.batches:
		return b
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for batch")
		return Batch{}
	}
}

func (rw *runningWatcher) stop(t *testing.T) {
	t.Helper()
	rw.cancel()
	select {
	case err := <-rw.errCh:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatcher_DebouncesSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rw := startWatcher(t, Config{Root: dir, Debounce: 100 * time.Millisecond})

	for _, name := range []string{"A.elm", "B.elm", "C.elm"} {
		write(t, filepath.Join(dir, name), "module X exposing (..)")
		time.Sleep(10 * time.Millisecond)
	}

	b := rw.next(t)
	for _, name := range []string{"A.elm", "B.elm", "C.elm"} {
		if !slices.Contains(b.Sources, filepath.Join(dir, name)) {
			t.Errorf("expected %s in batch, got %v", name, b.Sources)
		}
	}
	if b.ConfigChanged {
		t.Error("ConfigChanged should be false")
	}
	if !slices.IsSorted(b.Sources) {
		t.Errorf("sources not sorted: %v", b.Sources)
	}

	rw.stop(t)
}

func TestWatcher_IgnoresNonElmAndElmStuff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "elm-stuff", "0.19.1"), 0o755); err != nil {
		t.Fatal(err)
	}
	rw := startWatcher(t, Config{Root: dir, Ignore: []string{"**/Generated/**"}})

	write(t, filepath.Join(dir, "notes.txt"), "text")
	write(t, filepath.Join(dir, "elm-stuff", "0.19.1", "Main.elm"), "cached")
	time.Sleep(200 * time.Millisecond)

	write(t, filepath.Join(dir, "Main.elm"), "module Main exposing (..)")

	b := rw.next(t)
	if !slices.Equal(b.Sources, []string{filepath.Join(dir, "Main.elm")}) {
		t.Errorf("unexpected sources %v", b.Sources)
	}

	rw.stop(t)
}

func TestWatcher_ConfigChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rw := startWatcher(t, Config{Root: dir})

	write(t, filepath.Join(dir, "elm.json"), `{"source-directories": ["src"]}`)

	b := rw.next(t)
	if !b.ConfigChanged {
		t.Error("expected ConfigChanged")
	}
	if len(b.Sources) != 0 {
		t.Errorf("config change should not list sources, got %v", b.Sources)
	}

	rw.stop(t)
}

func TestWatcher_NewDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rw := startWatcher(t, Config{Root: dir})

	if err := os.MkdirAll(filepath.Join(dir, "src", "Page"), 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	write(t, filepath.Join(dir, "src", "Page", "Home.elm"), "module Page.Home exposing (..)")

	b := rw.next(t)
	if !slices.Contains(b.Sources, filepath.Join(dir, "src", "Page", "Home.elm")) {
		t.Errorf("expected file in new directory to be reported, got %v", b.Sources)
	}

	rw.stop(t)
}

func TestWatcher_CallbacksNeverOverlap(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu      sync.Mutex
		active  int
		overlap bool
		calls   int
	)
	firstDone := make(chan struct{})

	rw := startWatcher(t, Config{
		Root: dir,
		OnChange: func(_ context.Context, _ Batch) error {
			mu.Lock()
			active++
			calls++
			call := calls
			if active > 1 {
				overlap = true
			}
			mu.Unlock()

			if call == 1 {
				time.Sleep(300 * time.Millisecond)
				close(firstDone)
			}

			mu.Lock()
			active--
			mu.Unlock()
			return nil
		},
	})

	write(t, filepath.Join(dir, "First.elm"), "1")
	time.Sleep(100 * time.Millisecond)
	write(t, filepath.Join(dir, "Second.elm"), "2")

	select {
	case <-firstDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first callback")
	}
	time.Sleep(300 * time.Millisecond)
	rw.stop(t)

	mu.Lock()
	defer mu.Unlock()
	if overlap {
		t.Error("callbacks overlapped")
	}
	if calls != 2 {
		t.Errorf("deferred batch should be delivered after the busy callback, got %d calls", calls)
	}
}

func TestWatcher_RunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	if err := w.Run(ctx); err != errRunTwice {
		t.Errorf("second Run() = %v, want %v", err, errRunTwice)
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Root: t.TempDir(), Patterns: []string{"[invalid"}}); err == nil {
		t.Error("New() should reject an invalid watch pattern")
	}
	if _, err := New(Config{Root: t.TempDir(), Ignore: []string{"[invalid"}}); err == nil {
		t.Error("New() should reject an invalid ignore pattern")
	}
}
