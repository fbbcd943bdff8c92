// Package scm provides the repository abstraction gitbar observes.
// This file watches the working tree and .git metadata for changes.
package scm

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/mrz1836/gitbar/internal/constants"
	gitbarerrors "github.com/mrz1836/gitbar/internal/errors"
)

// Watcher observes a git working tree and invokes a callback, debounced,
// whenever the repository state may have changed. Both the worktree (edits,
// new files) and the .git directory (commits, branch switches, ref updates)
// are watched.
type Watcher struct {
	root     string
	onChange func()
	debounce time.Duration
	logger   zerolog.Logger

	fs *fsnotify.Watcher

	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	closeOnce sync.Once
	done      chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides the quiet period before onChange fires.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger used for watcher diagnostics.
func WithWatcherLogger(logger zerolog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher creates a watcher for the working tree rooted at root.
// onChange runs on the watcher's own goroutine after the debounce window;
// it must not block for long.
func NewWatcher(root string, onChange func(), opts ...WatcherOption) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, gitbarerrors.Wrap(err, "failed to create filesystem watcher")
	}

	w := &Watcher{
		root:     root,
		onChange: onChange,
		debounce: constants.DefaultDebounce,
		logger:   zerolog.Nop(),
		fs:       fs,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With().Str("component", "watcher").Logger()

	if err := w.addTargets(); err != nil {
		_ = fs.Close()
		return nil, err
	}

	go w.observe()
	return w, nil
}

// addTargets registers the worktree directories and the .git metadata paths.
func (w *Watcher) addTargets() error {
	if err := addRecursive(w.fs, w.root); err != nil {
		return gitbarerrors.Wrapf(err, "failed to watch %s", w.root)
	}

	// HEAD and refs flips arrive via the .git directory itself; refs/heads
	// covers branch tip updates that bypass the packed-refs file.
	gitDir := filepath.Join(w.root, constants.GitDir)
	for _, p := range []string{gitDir, filepath.Join(gitDir, "refs", "heads")} {
		if err := w.fs.Add(p); err != nil {
			w.logger.Warn().Err(err).Str("path", p).Msg("watch add failed")
		}
	}
	return nil
}

// addRecursive walks root and watches every directory, skipping .git.
func addRecursive(fs *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Unreadable entries are skipped, not fatal
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == constants.GitDir && p != root {
			return filepath.SkipDir
		}
		if err := fs.Add(p); err != nil {
			return err
		}
		return nil
	})
}

// observe consumes filesystem events until Close.
func (w *Watcher) observe() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// handleEvent schedules the debounced callback and keeps the directory set
// current as new directories appear.
func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if isTransient(ev.Name) {
		return
	}

	// Newly created directories inside the worktree need their own watch.
	if ev.Op.Has(fsnotify.Create) && !strings.Contains(ev.Name, string(filepath.Separator)+constants.GitDir+string(filepath.Separator)) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := addRecursive(w.fs, ev.Name); err != nil {
				w.logger.Warn().Err(err).Str("path", ev.Name).Msg("watch add failed")
			}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

// isTransient reports whether the path is git scratch state that churns
// during normal operation and never reflects a status change by itself.
func isTransient(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, ".lock") || base == "FETCH_HEAD" || strings.HasPrefix(base, ".#")
}

// Close stops the watcher and releases its resources. Safe to call more
// than once; a pending debounced callback is canceled.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		close(w.done)
		err = w.fs.Close()
	})
	return err
}
