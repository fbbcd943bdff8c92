package config

import (
	"context"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/mrz1836/gitbar/internal/constants"
	"github.com/mrz1836/gitbar/internal/errors"
	"github.com/mrz1836/gitbar/internal/event"
)

// Change describes a configuration reload delivered to subscribers.
// Both snapshots are deep copies; handlers may keep them.
type Change struct {
	// Old is the configuration before the reload.
	Old *Config
	// New is the configuration after the reload.
	New *Config
}

// Store holds the materialized configuration for one repository root and
// re-reads it when the backing files change. Subscribers are notified only
// when a reload actually changed a recognized key, so file touches that
// leave the content identical stay silent.
type Store struct {
	root       string
	globalPath string
	logger     zerolog.Logger

	mu  sync.RWMutex
	cfg *Config

	changed event.Emitter[Change]

	watcher   *fsnotify.Watcher
	timer     *time.Timer
	timerMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for store diagnostics.
func WithStoreLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore loads the configuration scoped to root and returns a Store
// holding it. Call Watch to start observing the config files for changes.
func NewStore(ctx context.Context, root string, opts ...StoreOption) (*Store, error) {
	s := &Store{
		root:   root,
		logger: zerolog.Nop(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "config").Str("root", root).Logger()

	if p, err := GlobalConfigPath(); err == nil {
		s.globalPath = p
	}

	cfg, err := LoadFromPaths(ctx, RepoConfigPath(root), s.globalPath)
	if err != nil {
		return nil, err
	}
	s.cfg = cfg
	return s, nil
}

// Config returns a copy of the current configuration.
func (s *Store) Config() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// OnDidChange registers fn to run whenever a reload changed any recognized
// key. The handler receives the old and new snapshots.
func (s *Store) OnDidChange(fn func(Change)) event.Subscription {
	return s.changed.Subscribe(fn)
}

// Watch starts observing the global and repository config files for changes.
// The parent directories are watched so file creation and editor
// rename-into-place saves are both caught.
func (s *Store) Watch() error {
	select {
	case <-s.done:
		return errors.ErrWatcherClosed
	default:
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create config watcher")
	}
	s.watcher = watcher

	dirs := map[string]struct{}{
		filepath.Join(s.root, constants.GitbarHome): {},
	}
	if s.globalPath != "" {
		dirs[filepath.Dir(s.globalPath)] = struct{}{}
	}
	for dir := range dirs {
		// A missing .gitbar directory is fine; the repo simply has no
		// scoped config yet.
		if err := watcher.Add(dir); err != nil {
			s.logger.Debug().Err(err).Str("dir", dir).Msg("config dir not watched")
		}
	}

	go s.observe()
	return nil
}

// observe consumes watcher events until Close.
func (s *Store) observe() {
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != constants.ConfigFileName {
				continue
			}
			s.scheduleReload()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn().Err(err).Msg("config watcher error")
		}
	}
}

// scheduleReload debounces bursts of writes into a single reload.
func (s *Store) scheduleReload() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(constants.DefaultDebounce, func() {
		s.Reload(context.Background())
	})
}

// Reload re-reads the configuration and notifies subscribers if anything
// changed. A failed read keeps the previous snapshot.
func (s *Store) Reload(ctx context.Context) {
	cfg, err := LoadFromPaths(ctx, RepoConfigPath(s.root), s.globalPath)
	if err != nil {
		s.logger.Warn().Err(err).Msg("config reload failed, keeping previous configuration")
		return
	}

	s.mu.Lock()
	old := s.cfg
	if reflect.DeepEqual(old, cfg) {
		s.mu.Unlock()
		return
	}
	s.cfg = cfg
	s.mu.Unlock()

	s.logger.Debug().Msg("configuration changed")
	s.changed.Fire(Change{Old: old.Clone(), New: cfg.Clone()})
}

// Close stops watching. Safe to call more than once, and valid even if
// Watch was never called.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.timerMu.Lock()
		if s.timer != nil {
			s.timer.Stop()
		}
		s.timerMu.Unlock()
		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
