package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long Watch waits for a burst of events to settle.
var WatchDebounce = 100 * time.Millisecond

// Watch calls onChange with the set of changed files whenever files under
// paths are written or created and accepted by keep (nil keeps all).
// Directories are watched recursively, including ones created later. Watch
// returns nil when ctx is cancelled.
func Watch(ctx context.Context, paths []string, keep func(path string) bool, onChange func(changed []string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	for _, p := range paths {
		if err := addRecursive(w, p); err != nil {
			return err
		}
	}

	pending := make(map[string]struct{})
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch failed: %w", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if ev.Has(fsnotify.Create) {
					_ = addRecursive(w, ev.Name)
				}
				continue
			}
			if keep != nil && !keep(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			fire = time.After(WatchDebounce)
		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			onChange(changed)
		}
	}
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.Add(p); err != nil {
				return fmt.Errorf("cannot watch %s: %w", p, err)
			}
		}
		return nil
	})
}
