package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debouncer batches file change events so a burst of saves triggers one
// re-parse per file instead of one per event.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]fsnotify.Op
	interval time.Duration
	timer    *time.Timer
}

// NewDebouncer creates a debouncer with the given interval in milliseconds.
func NewDebouncer(intervalMs int) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]fsnotify.Op),
		interval: time.Duration(intervalMs) * time.Millisecond,
	}
}

// Add records a file change event. Repeated events for the same path
// combine their operations.
func (d *Debouncer) Add(path string, op fsnotify.Op) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[path] |= op
}

// Flush processes pending changes after the debounce interval. A removal
// wins over a write for the same path.
func (d *Debouncer) Flush(callback func(changed, removed []string)) {
	d.mu.Lock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		if len(d.pending) == 0 {
			return
		}

		var changed, removed []string
		for path, op := range d.pending {
			if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
				removed = append(removed, path)
			} else if op.Has(fsnotify.Write) || op.Has(fsnotify.Create) {
				changed = append(changed, path)
			}
		}

		d.pending = make(map[string]fsnotify.Op)

		// callback runs outside the lock
		if len(changed) > 0 || len(removed) > 0 {
			go callback(changed, removed)
		}
	})

	d.mu.Unlock()
}
