package batch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ledgewell/mdcheck/pkg/batch"
)

const watchDebounce = 50 * time.Millisecond

// startWatcher creates and starts a watcher over dir, wiring its
// shutdown into the test cleanup.
func startWatcher(t *testing.T, dir string) *batch.Watcher {
	t.Helper()

	w, err := batch.NewWatcher(batch.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	}, watchDebounce)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(func() { _ = w.Close() })

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return w
}

// waitFor reads batches until one contains a path with the given base
// name, returning every batch seen along the way.
func waitFor(t *testing.T, w *batch.Watcher, base string) [][]string {
	t.Helper()

	deadline := time.After(5 * time.Second)
	var batches [][]string
	for {
		select {
		case b, ok := <-w.Events():
			if !ok {
				t.Fatalf("events channel closed before %s appeared; saw %v", base, batches)
			}
			batches = append(batches, b)
			for _, p := range b {
				if filepath.Base(p) == base {
					return batches
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s; saw %v", base, batches)
		}
	}
}

func assertNeverReported(t *testing.T, batches [][]string, base string) {
	t.Helper()
	for _, b := range batches {
		for _, p := range b {
			if filepath.Base(p) == base {
				t.Errorf("%s was reported: %v", base, batches)
			}
		}
	}
}

func TestWatcher_ReportsNewFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, "existing.md")

	w := startWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "new.md"), []byte("# New\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	waitFor(t, w, "new.md")
}

func TestWatcher_ReportsContentChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, "doc.md")

	w := startWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "doc.md"), []byte("# Changed\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	waitFor(t, w, "doc.md")
}

func TestWatcher_SuppressesUnchangedRewrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	original := []byte("# Same\n")
	if err := os.WriteFile(filepath.Join(dir, "same.md"), original, 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	w := startWatcher(t, dir)

	// Rewrite with identical content, then give the debounce window
	// time to flush (and suppress) it before the marker file lands.
	if err := os.WriteFile(filepath.Join(dir, "same.md"), original, 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	time.Sleep(4 * watchDebounce)

	if err := os.WriteFile(filepath.Join(dir, "marker.md"), []byte("# Marker\n"), 0644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	batches := waitFor(t, w, "marker.md")
	assertNeverReported(t, batches, "same.md")
}

func TestWatcher_ReportsDeletion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, "gone.md")

	w := startWatcher(t, dir)

	if err := os.Remove(filepath.Join(dir, "gone.md")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	waitFor(t, w, "gone.md")
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := startWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "build.log"), []byte("noise\n"), 0644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	time.Sleep(4 * watchDebounce)

	if err := os.WriteFile(filepath.Join(dir, "marker.md"), []byte("# Marker\n"), 0644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	batches := waitFor(t, w, "marker.md")
	assertNeverReported(t, batches, "build.log")
}

func TestWatcher_PicksUpNewDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := startWatcher(t, dir)

	sub := filepath.Join(dir, "docs")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Let the watcher register the new directory before writing into
	// it.
	time.Sleep(4 * watchDebounce)

	if err := os.WriteFile(filepath.Join(sub, "guide.md"), []byte("# Guide\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	waitFor(t, w, "guide.md")
}

func TestWatcher_CloseStopsEvents(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := startWatcher(t, dir)

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	select {
	case _, ok := <-w.Events():
		if ok {
			t.Error("expected the events channel to close")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("events channel did not close")
	}
}
