package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// Loader implements ports.TableLoader and ports.Watchable over a directory of
// table files. Tables are read eagerly; a failed reload keeps the last good set.
type Loader struct {
	dir    string
	logger *slog.Logger

	mu     sync.RWMutex
	tables map[string]*domain.Table
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader reads every table file in dir. Any invalid table fails the load.
func NewLoader(dir string, opts ...LoaderOption) (*Loader, error) {
	l := &Loader{
		dir:    dir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Dir returns the directory the loader reads.
func (l *Loader) Dir() string {
	return l.dir
}

// Reload re-reads the directory and swaps the table set if every file is valid.
func (l *Loader) Reload() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("failed to read table directory: %w", err)
	}

	tables := make(map[string]*domain.Table)
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !IsTableFile(e.Name()) {
			continue
		}
		t, err := LoadTable(filepath.Join(l.dir, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := tables[t.Name()]; dup {
			errs = append(errs, fmt.Errorf("%s: table %q defined twice", e.Name(), t.Name()))
			continue
		}
		tables[t.Name()] = t
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	l.mu.Lock()
	l.tables = tables
	l.mu.Unlock()
	l.logger.Debug("Tables loaded", "dir", l.dir, "count", len(tables))
	return nil
}

// GetTable retrieves a table by name.
func (l *Loader) GetTable(name string) (*domain.Table, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTableNotFound, name)
	}
	return t, nil
}

// ListTables returns all table names, sorted.
func (l *Loader) ListTables() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.tables))
	for n := range l.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Watch reloads the tables whenever a table file in the directory changes and
// signals on the returned channel after each successful reload. Bursts of
// events are coalesced. The channel is closed when ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(l.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", l.dir, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()

		const debounce = 100 * time.Millisecond
		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !IsTableFile(ev.Name) || ev.Op == fsnotify.Chmod {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				fire = timer.C
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Warn("Watcher error", "dir", l.dir, "err", err)
			case <-fire:
				fire = nil
				if err := l.Reload(); err != nil {
					l.logger.Warn("Reload failed, keeping previous tables", "dir", l.dir, "err", err)
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			}
		}
	}()
	return changes, nil
}
