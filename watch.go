package subpage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pthm/subpage/lib/timing"
)

// WatchDebounce is how long fragment files must stay quiet before a change
// resets the caches.
const WatchDebounce = 50 * time.Millisecond

// Watch resets the site caches whenever a file below dir changes, so edits
// show on the next session without a restart. dir should be the directory
// the site's file system reads from. Watch blocks until ctx is done.
func (s *Site) Watch(ctx context.Context, dir string) error {
	return s.watch(ctx, dir, WatchDebounce, nil)
}

// watch calls reloaded after every reset.
func (s *Site) watch(ctx context.Context, dir string, quiet time.Duration, reloaded func()) error {
	log := Logger(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("subpage: watch: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, dir); err != nil {
		return err
	}

	var debounce timing.Retrigger
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					if err := addDirs(watcher, evt.Name); err != nil {
						log.Warn("watch: add directory failed", "path", evt.Name, "error", err)
					}
				}
			}
			if evt.Op == fsnotify.Chmod {
				continue
			}
			debounce.Trigger(dir, quiet, func() {
				s.Reset()
				log.Info("fragments changed, caches reset", "path", evt.Name)
				if reloaded != nil {
					reloaded()
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", "error", err)
		}
	}
}

func addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("subpage: watch %s: %w", p, err)
		}
		if d.IsDir() {
			if err := watcher.Add(p); err != nil {
				return fmt.Errorf("subpage: watch %s: %w", p, err)
			}
		}
		return nil
	})
}
