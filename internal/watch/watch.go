// Package watch re-runs a callback when level files under the game root
// change. It backs the CLI watch subcommand only; the library proper
// stays synchronous.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/rmoravec/llean/internal/logger"
)

var log = logger.ForComponent("watch")

type Watcher struct {
	root      string
	ignore    []string
	fsWatcher *fsnotify.Watcher
	debounce  *debouncer
}

// New watches every directory under root, ignoring doublestar patterns.
// onChange receives the batch of changed paths after a quiet window.
func New(root string, ignore []string, window time.Duration, onChange func(paths []string)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:      root,
		ignore:    ignore,
		fsWatcher: fsWatcher,
		debounce:  newDebouncer(window, onChange),
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fsWatcher.Add(path); err != nil {
			log.Debug("cannot watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks, dispatching events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debounce.stop()
	defer w.fsWatcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}
			// New directories join the watch set so nested level files
			// keep reporting.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.fsWatcher.Add(event.Name)
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.debounce.add(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("watch error", "error", err)
		}
	}
}

func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
