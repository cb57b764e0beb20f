package storage

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the quiet period before a burst of file events is
// reported as one change.
var WatchDebounce = 100 * time.Millisecond

// Watch calls onChange after path is written, created or replaced. The
// parent directory is watched because FileStore replaces the file by rename.
// Close the returned io.Closer to stop watching.
func Watch(path string, onChange func(), logf func(string, ...any)) (io.Closer, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch storage: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(path)

	go func() {
		var mu sync.Mutex
		var timer *time.Timer
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
					continue
				}
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(WatchDebounce, onChange)
				mu.Unlock()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if logf != nil {
					logf("storage watch: %v", err)
				}
			}
		}
	}()
	return w, nil
}
