package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mchmarny/menued/pkg/menu"
)

// DefaultDebounce is how long the watcher waits for writes to settle before
// reloading.
const DefaultDebounce = 200 * time.Millisecond

// ErrSeedRemoved is reported when the watched seed file is deleted.
var ErrSeedRemoved = errors.New("seed file was removed")

// Watcher reloads a seed file whenever it changes on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	onLoad   func(*menu.Menu)
	onError  func(error)

	mu    sync.Mutex
	timer *time.Timer
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithOnError sets the callback for load and watch errors. Errors are logged
// when unset.
func WithOnError(fn func(error)) WatchOption {
	return func(w *Watcher) { w.onError = fn }
}

// NewWatcher returns a watcher that calls onLoad with every successfully
// parsed version of the seed at path.
func NewWatcher(path string, onLoad func(*menu.Menu), opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		onLoad:   onLoad,
		onError: func(err error) {
			slog.Error("seed watch error", "path", abs, "error", err)
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Run watches until ctx is canceled. The parent directory is watched rather
// than the file so editors that replace the file atomically are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	slog.Info("watching seed", "path", w.path)
	defer w.stopTimer()

	target := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}

			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(ErrSeedRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.schedule()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) reload() {
	m, err := Load(w.path)
	if err != nil {
		w.onError(err)
		return
	}
	slog.Debug("seed reloaded", "path", w.path, "nodes", menu.Count(m.Items))
	w.onLoad(m)
}
