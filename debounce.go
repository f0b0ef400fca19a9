package treasury

import (
	"sync"
	"time"
)

// debouncer coalesces a burst of events into the last one. Both the
// selection and deselection paths share a single instance, so a
// superseding event always cancels the pending one outright, never
// queues both.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

// do schedules fn after the settle delay, cancelling any pending call.
// A non-positive delay runs fn synchronously.
func (d *debouncer) do(fn func()) {
	if d.delay <= 0 {
		d.cancel()
		fn()
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// cancel drops the pending call, if any.
func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
