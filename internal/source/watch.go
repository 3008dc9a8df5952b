package source

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the event bursts editors produce on save.
const watchDebounce = 500 * time.Millisecond

// Watch monitors the data directory and reloads the current month and the
// annotations when a JSON data file changes. It returns after the watcher
// is running; the watch goroutine stops when ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var (
			mu      sync.Mutex
			pending *time.Timer
		)
		reload := func() {
			s.log.Infow("data directory changed, reloading")
			if err := s.Reload(context.Background()); err != nil {
				s.log.Warnw("reload after file change failed", "error", err)
			}
			s.LoadAnnotations()
		}

		for {
			select {
			case <-ctx.Done():
				mu.Lock()
				if pending != nil {
					pending.Stop()
				}
				mu.Unlock()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				name := filepath.Base(event.Name)
				if !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, TmpSuffix) {
					continue
				}
				mu.Lock()
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(watchDebounce, reload)
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warnw("file watcher error", "error", err)
			}
		}
	}()

	s.log.Infow("watching data directory", "dir", s.dir)
	return nil
}
