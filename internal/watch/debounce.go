package watch

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of file events into one flush per quiet
// window, keyed by path so editors that write twice count once.
type debouncer struct {
	window  time.Duration
	onFlush func(paths []string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	stopped bool
}

func newDebouncer(window time.Duration, onFlush func([]string)) *debouncer {
	return &debouncer{
		window:  window,
		onFlush: onFlush,
		pending: make(map[string]struct{}),
	}
}

func (d *debouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.pending))
	for path := range d.pending {
		paths = append(paths, path)
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	d.onFlush(paths)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
