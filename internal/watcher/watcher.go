// Package watcher monitors a workspace for source file changes and feeds
// debounced batches to a handler, typically the index.
package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"gitlab.com/tozd/go/errors"
)

// ChangeHandler is called when files change
type ChangeHandler func(changed, removed []string)

// Watcher monitors source files for changes using fsnotify. Only files
// whose extension appears in exts are reported.
type Watcher struct {
	watcher   *fsnotify.Watcher
	rootPath  string
	exts      map[string]bool
	handler   ChangeHandler
	debouncer *Debouncer
	done      chan struct{}
}

// New creates a file watcher for the root path, reporting files with the
// given extensions (lowercase, with leading dot).
func New(rootPath string, exts []string, handler ChangeHandler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[e] = true
	}

	w := &Watcher{
		watcher:   fsw,
		rootPath:  rootPath,
		exts:      extSet,
		handler:   handler,
		debouncer: NewDebouncer(100), // 100ms debounce
		done:      make(chan struct{}),
	}

	return w, nil
}

// Start begins watching for file changes
func (w *Watcher) Start() error {
	// Add all directories recursively
	err := filepath.WalkDir(w.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden and vendor directories
			if strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules" {
				return filepath.SkipDir
			}

			if err := w.watcher.Add(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("failed to watch directory")
			}
		}
		return nil
	})
	if err != nil {
		return errors.WithMessage(err, "walking workspace")
	}

	// Start the event loop
	go w.eventLoop()

	log.Info().Str("root", w.rootPath).Msg("file watcher started")
	return nil
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// Check if it's a directory event
	if event.Has(fsnotify.Create) {
		// If a new directory was created, watch it
		if info, err := os.Lstat(path); err == nil && info.IsDir() {
			name := filepath.Base(path)
			if !strings.HasPrefix(name, ".") && name != "vendor" && name != "node_modules" {
				if err := w.watcher.Add(path); err != nil {
					log.Warn().Err(err).Str("path", path).Msg("failed to watch new directory")
				}
			}
			return
		}
	}

	if !w.exts[strings.ToLower(filepath.Ext(path))] {
		return
	}

	// Debounce and dispatch changes
	w.debouncer.Add(path, event.Op)
	w.debouncer.Flush(func(changed, removed []string) {
		if len(changed) > 0 || len(removed) > 0 {
			log.Debug().Int("changed", len(changed)).Int("removed", len(removed)).Msg("file changes")
			w.handler(changed, removed)
		}
	})
}

// Close stops the watcher
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
