package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is how long Watch waits for writes to settle before
// reloading.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	clock    clockz.Clock
}

// NewWatcher creates a Watcher for the config file at path.
func NewWatcher(path string) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
	}
}

// WithClock sets the clock used for debouncing.
func (w *Watcher) WithClock(clock clockz.Clock) *Watcher {
	w.clock = clock
	return w
}

// WithDebounce sets the debounce delay.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch calls fn with the result of LoadFile after each burst of changes
// to the file, until ctx is cancelled. The directory is watched rather than
// the file so editors that replace the file on save are followed.
func (w *Watcher) Watch(ctx context.Context, fn func(*Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()

		var pending clockz.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				if pending != nil {
					pending.Stop()
				}
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if pending == nil {
					pending = w.clock.NewTimer(w.debounce)
				} else {
					pending.Reset(w.debounce)
				}
				fire = pending.C()

			case <-fire:
				fire = nil
				fn(LoadFile(w.path))

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Keep watching.
			}
		}
	}()

	return nil
}
