package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/ledgewell/mdcheck/pkg/fsio"
)

// DefaultDebounce is the window in which filesystem events are folded
// into a single batch. Editors tend to fire several events per save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches the paths named by its options and emits batches of
// changed Markdown files. Writes that leave the content identical are
// suppressed by hash, so touch and atomic-save rewrites stay quiet.
type Watcher struct {
	opts     Options
	debounce time.Duration

	fsw     *fsnotify.Watcher
	workDir string

	events chan []string
	errs   chan error

	pendingMu sync.Mutex
	pending   map[string]struct{}

	// hashes maps path to content hash. Written by Start before the
	// event loop exists, then owned by the loop goroutine.
	hashes map[string]string
}

// NewWatcher creates a watcher for the paths in opts. A non-positive
// debounce selects DefaultDebounce.
func NewWatcher(opts Options, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Watcher{
		opts:     opts,
		debounce: debounce,
		fsw:      fsw,
		events:   make(chan []string, 1),
		errs:     make(chan error, 1),
		pending:  make(map[string]struct{}),
		hashes:   make(map[string]string),
	}, nil
}

// Events returns the channel of change batches. Each batch is a sorted
// list of paths whose content changed since the last batch. The channel
// closes when the watcher stops.
func (w *Watcher) Events() <-chan []string {
	return w.events
}

// Errors returns the channel of watch errors. Errors are advisory; the
// watcher keeps running after reporting one.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Start seeds content hashes from the current state of the tree, adds
// the filesystem watches, and begins delivering batches. It returns
// once the watcher is running.
func (w *Watcher) Start(ctx context.Context) error {
	workDir, err := resolveWorkDir(w.opts.WorkingDir)
	if err != nil {
		return err
	}
	w.workDir = workDir

	// Seed hashes so a rewrite with identical content after startup
	// does not produce a batch, and a deletion of a known file does.
	files, err := Discover(ctx, w.opts)
	if err != nil {
		return err
	}
	for _, path := range files {
		content, readErr := fsio.ReadFileCapped(ctx, path, w.opts.MaxFileSize)
		if readErr != nil {
			continue
		}
		w.hashes[path] = fsio.Sum(content)
	}

	for _, arg := range w.opts.effectivePaths() {
		abs := arg
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, statErr := os.Stat(abs)
		switch {
		case statErr == nil && info.IsDir():
			if err := w.addRecursive(abs); err != nil {
				return err
			}

		case statErr == nil:
			// Watch the parent directory; editors replace files by
			// rename, which unwatches the file itself.
			if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
				return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
			}

		case isPattern(arg):
			base, _ := doublestar.SplitPattern(filepath.ToSlash(abs))
			if err := w.addRecursive(filepath.FromSlash(base)); err != nil {
				return err
			}

		default:
			return fmt.Errorf("stat %s: %w", arg, statErr)
		}
	}

	go w.loop(ctx)
	return nil
}

// Close stops the watcher. The events channel closes once the loop
// drains.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// addRecursive watches root and every non-hidden, non-excluded
// directory below it.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}

		if path != root {
			if strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if excludedDir(relTo(w.workDir, path), w.opts.Exclude) {
				return filepath.SkipDir
			}
		}

		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// loop is the event-processing goroutine. It exits when the context is
// cancelled or the watcher is closed, closing the events channel.
func (w *Watcher) loop(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// handle records a single filesystem event. New directories are added
// to the watch set; file events accumulate until the next flush.
func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			name := filepath.Base(ev.Name)
			if !strings.HasPrefix(name, ".") && !excludedDir(relTo(w.workDir, ev.Name), w.opts.Exclude) {
				if err := w.addRecursive(ev.Name); err != nil {
					select {
					case w.errs <- err:
					default:
					}
				}
			}
			return
		}
	}

	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	if !w.wants(ev.Name) {
		return
	}

	w.pendingMu.Lock()
	w.pending[ev.Name] = struct{}{}
	w.pendingMu.Unlock()
}

// wants applies the discovery filters to an event path.
func (w *Watcher) wants(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	if !hasExtension(path, w.opts.effectiveExtensions()) {
		return false
	}

	rel := relTo(w.workDir, path)
	if matchAny(rel, w.opts.Exclude) {
		return false
	}
	if len(w.opts.Include) > 0 && !matchAny(rel, w.opts.Include) {
		return false
	}
	return true
}

// flush turns the pending set into a batch, dropping paths whose
// content hash is unchanged.
func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	var changed []string
	for _, path := range paths {
		content, err := fsio.ReadFileCapped(ctx, path, w.opts.MaxFileSize)
		if err != nil {
			// Deleted or unreadable. Report it once if we knew it.
			if _, known := w.hashes[path]; known {
				delete(w.hashes, path)
				changed = append(changed, path)
			}
			continue
		}

		sum := fsio.Sum(content)
		if w.hashes[path] == sum {
			continue
		}
		w.hashes[path] = sum
		changed = append(changed, path)
	}

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)

	select {
	case w.events <- changed:
	case <-ctx.Done():
	}
}
