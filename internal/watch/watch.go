// Package watch reports when the file being edited changes on disk behind the
// editor's back. It is polled, never blocking, so the editor stays
// single-threaded: the key decoder's idle hook calls Changed between reads.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/xyproto/rowed/internal/log"
)

// Watcher monitors one file for modifications made by other processes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	base      string
	pending   bool
	synced    stamp
}

// stamp identifies a version of the file contents.
type stamp struct {
	exists  bool
	size    int64
	modTime time.Time
}

// New starts watching path. The directory is watched rather than the file
// so that replace-by-rename writes from other programs are seen too.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}
	w := &Watcher{
		fsWatcher: fsw,
		path:      abs,
		base:      filepath.Base(abs),
	}
	w.Sync()
	return w, nil
}

// Sync records the file's current state as known to the editor, so that a
// change we made ourselves (a save) is not reported.
func (w *Watcher) Sync() {
	w.drain()
	w.pending = false
	w.synced = w.stat()
}

// Changed drains pending events and reports true once per external
// modification.
func (w *Watcher) Changed() bool {
	w.drain()
	if !w.pending {
		return false
	}
	w.pending = false
	now := w.stat()
	if now == w.synced {
		return false
	}
	w.synced = now
	log.Info(log.CatWatch, "file changed on disk", "path", w.path)
	return true
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

func (w *Watcher) drain() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.isRelevantEvent(event) {
				w.pending = true
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatch, "watcher error", err)
		default:
			return
		}
	}
}

func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(event.Name) == w.base
}

func (w *Watcher) stat() stamp {
	info, err := os.Stat(w.path)
	if err != nil {
		return stamp{}
	}
	return stamp{exists: true, size: info.Size(), modTime: info.ModTime()}
}
