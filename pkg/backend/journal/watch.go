package journal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tableflip.dev/todor/pkg/logging"
)

// DefaultSettle is how long the watcher waits for a burst of writes to end
// before reporting a change.
const DefaultSettle = 100 * time.Millisecond

// Watch calls changed once per burst of filesystem activity under the
// journal until ctx is cancelled. It returns once the watcher is running.
func (s *Store) Watch(ctx context.Context, settle time.Duration, changed func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("journal: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				logging.Warnf("journal: watcher close: %v", err)
			}
		})
	}

	dirs, err := collectDirs(s.basePath)
	if err != nil {
		closeWatcher()
		return fmt.Errorf("journal: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return fmt.Errorf("journal: watch %s: %w", dir, err)
		}
	}

	if settle <= 0 {
		settle = DefaultSettle
	}
	debounce := newDebouncer(settle, changed)

	go func() {
		defer closeWatcher()
		defer debounce.Stop()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warnf("journal: watcher: %v", err)
				debounce.Poke()
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				// New day directories need their own watch to see the
				// files written into them.
				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						added, err := collectDirs(evt.Name)
						if err != nil {
							logging.Warnf("journal: enumerate %s: %v", evt.Name, err)
						}
						for _, dir := range added {
							if _, found := watched[dir]; found {
								continue
							}
							if err := watcher.Add(dir); err != nil {
								logging.Warnf("journal: watch %s: %v", dir, err)
								continue
							}
							watched[dir] = struct{}{}
						}
					}
				}
				debounce.Poke()
			}
		}
	}()
	return nil
}

func collectDirs(base string) ([]string, error) {
	dirs := []string{filepath.Clean(base)}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, filepath.Clean(path))
		}
		return nil
	})
	return dirs, err
}

// debouncer fires fn once, delay after the first Poke of a burst.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	fn    func()
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

func (d *debouncer) Poke() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.fire)
	}
}

func (d *debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
}
