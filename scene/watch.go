package scene

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the scene at path whenever it is written, created or renamed
// into place, until ctx is done. Successful loads go to onLoad; decode and
// watcher failures go to onErr and watching continues. The returned channel
// is closed once the watcher has stopped and no callback is running.
func Watch(ctx context.Context, path string, onLoad func(*World), onErr func(error)) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating scene watcher: %w", err)
	}
	// Editors often replace the file, so watch the directory.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %q: %w", dir, err)
	}
	target := filepath.Clean(path)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				w, err := Load(path)
				if err != nil {
					onErr(err)
					continue
				}
				onLoad(w)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				onErr(err)
			}
		}
	}()
	return done, nil
}
