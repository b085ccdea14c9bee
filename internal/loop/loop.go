// Package loop serializes work onto a single control goroutine. Network
// readers and timers hand their events to a Dispatcher instead of touching
// scene or document state directly.
package loop

import (
	"context"
	"sync"
)

// Dispatcher runs fn on the control goroutine.
type Dispatcher interface {
	Do(fn func())
}

// Func adapts a function such as fyne.Do to a Dispatcher.
type Func func(fn func())

func (f Func) Do(fn func()) { f(fn) }

// Inline runs fn on the calling goroutine. Tests use it.
type Inline struct{}

func (Inline) Do(fn func()) { fn() }

// Queue is a Dispatcher backed by a channel, drained by Run.
type Queue struct {
	work     chan func()
	done     chan struct{}
	stopOnce sync.Once
}

func NewQueue(size int) *Queue {
	return &Queue{
		work: make(chan func(), size),
		done: make(chan struct{}),
	}
}

// Do queues fn. It is dropped once Run has returned.
func (q *Queue) Do(fn func()) {
	select {
	case q.work <- fn:
	case <-q.done:
	}
}

// Run executes queued functions one at a time until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	defer q.stopOnce.Do(func() { close(q.done) })
	for {
		select {
		case fn := <-q.work:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
