package debounce

import (
	"sync"
	"time"
)

// Timer is the cancellable pending-slot handle. The stdlib timer
// satisfies it; tests inject manual timers and fire them explicitly.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules fn after d and returns its handle
type TimerFactory func(d time.Duration, fn func()) Timer

// Debouncer collapses a burst of triggers into a single downstream
// call after a quiescence window. Each trigger cancels and resets the
// pending timer slot.
type Debouncer struct {
	window   time.Duration
	newTimer TimerFactory

	mu      sync.Mutex
	pending Timer
}

// New creates a debouncer with the given quiescence window
func New(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		newTimer: func(d time.Duration, fn func()) Timer {
			return time.AfterFunc(d, fn)
		},
	}
}

// NewWithFactory creates a debouncer driven by an injected timer
// factory, so tests can advance a virtual clock instead of sleeping.
func NewWithFactory(window time.Duration, factory TimerFactory) *Debouncer {
	return &Debouncer{window: window, newTimer: factory}
}

// Trigger schedules fn after the quiescence window, cancelling any
// previously pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.pending = d.newTimer(d.window, func() {
		d.mu.Lock()
		d.pending = nil
		d.mu.Unlock()
		fn()
	})
}

// Stop cancels any pending call
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
