package combat

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLoopStopped is returned when work is handed to a stopped Loop.
var ErrLoopStopped = errors.New("combat: loop stopped")

// Loop is a single-goroutine task queue. Every task posted to a Loop runs
// on the goroutine executing Run, one at a time, in posting order, so a
// Scheduler driven only through its Loop needs no locking.
//
// Loop implements Pacer: Defer posts the continuation once its timer fires.
// Stop cancels every pending timer.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	timers  map[*time.Timer]struct{}
	stopped bool

	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a Loop. Tasks run only once Run is called.
func NewLoop() *Loop {
	return &Loop{
		timers: make(map[*time.Timer]struct{}),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Post queues fn. Post never blocks and may be called from within a task.
//
// Postcondition: Returns ErrLoopStopped if the loop has been stopped.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrLoopStopped
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Defer posts fn after d. Nothing runs if the loop stops first.
func (l *Loop) Defer(d time.Duration, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		l.mu.Lock()
		delete(l.timers, t)
		l.mu.Unlock()
		_ = l.Post(fn)
	})
	l.timers[t] = struct{}{}
}

// Call posts fn and waits for it to finish.
//
// Postcondition: Returns nil once fn has run, ctx.Err() if ctx ends first,
// or ErrLoopStopped if the loop stops first.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		fn()
		close(finished)
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		// fn may have completed right before Stop.
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopStopped
		}
	}
}

// Run executes tasks until ctx is cancelled or Stop is called. It stops the
// loop on return.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-l.wake:
		}
		for {
			fn := l.pop()
			if fn == nil {
				break
			}
			fn()
		}
	}
}

func (l *Loop) pop() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped || len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

// Stop discards queued tasks and pending timers. Safe to call multiple times.
//
// Postcondition: no task runs after Stop returns, other than one already executing.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		for t := range l.timers {
			t.Stop()
		}
		l.timers = nil
		l.mu.Unlock()
		close(l.done)
	})
}

// Done is closed once the loop has stopped.
func (l *Loop) Done() <-chan struct{} { return l.done }
