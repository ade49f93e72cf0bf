package task

import (
	"context"
	"sync"
)

// Poster delivers task callbacks to the goroutine that owns shared state.
type Poster interface {
	// Post schedules fn and reports whether it was accepted. It must not block on fn's execution.
	Post(fn func()) bool
}

// Inline runs callbacks on the task goroutine. It suits tests and serial batch steps
// whose parent task already serializes access.
type Inline struct{}

// Post runs fn immediately.
func (Inline) Post(fn func()) bool {
	fn()

	return true
}

// Dispatcher is an unbounded FIFO of callbacks drained by a single Run loop.
// Producers never block, so a slow coordinator cannot stall a download.
type Dispatcher struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		wake: make(chan struct{}, 1),
	}
}

// Post enqueues fn. Posts after Close are dropped and return false.
func (d *Dispatcher) Post(fn func()) bool {
	d.mu.Lock()

	if d.closed {
		d.mu.Unlock()

		return false
	}

	d.queue = append(d.queue, fn)
	d.mu.Unlock()

	d.signal()

	return true
}

// Close stops Run once the already queued callbacks have executed.
// Later posts are dropped; a task whose delivery is dropped ends as cancelled
// without firing a callback, and its Done channel still closes.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.signal()
}

// Run executes callbacks in posting order on the calling goroutine until Close
// drains the queue or ctx ends.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		fn, closed := d.next()
		if fn != nil {
			fn()

			continue
		}

		if closed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.wake:
		}
	}
}

// Pending returns the number of queued callbacks.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.queue)
}

func (d *Dispatcher) next() (func(), bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.queue) == 0 {
		return nil, d.closed
	}

	fn := d.queue[0]
	d.queue[0] = nil
	d.queue = d.queue[1:]

	return fn, false
}

func (d *Dispatcher) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}
