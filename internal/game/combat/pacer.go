package combat

import "time"

// Pacer schedules a continuation to run after a delay. The engine never
// blocks; every pause between turns goes through a Pacer.
type Pacer interface {
	Defer(d time.Duration, fn func())
}

// ImmediatePacer runs every continuation inline, ignoring the delay.
type ImmediatePacer struct{}

// Defer runs fn immediately.
func (ImmediatePacer) Defer(_ time.Duration, fn func()) { fn() }

type pacedTask struct {
	delay time.Duration
	fn    func()
}

// ManualPacer queues continuations until the caller steps them, so a test
// can observe the encounter between turns.
type ManualPacer struct {
	queue []pacedTask
}

// Defer queues fn.
func (m *ManualPacer) Defer(d time.Duration, fn func()) {
	m.queue = append(m.queue, pacedTask{delay: d, fn: fn})
}

// Pending returns the number of queued continuations.
func (m *ManualPacer) Pending() int { return len(m.queue) }

// NextDelay returns the delay requested by the oldest queued continuation.
func (m *ManualPacer) NextDelay() (time.Duration, bool) {
	if len(m.queue) == 0 {
		return 0, false
	}
	return m.queue[0].delay, true
}

// Step runs the oldest queued continuation.
//
// Postcondition: Returns false when nothing was queued.
func (m *ManualPacer) Step() bool {
	if len(m.queue) == 0 {
		return false
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	next.fn()
	return true
}

// Drain steps until the queue is empty, including continuations queued
// while draining, and returns how many ran.
func (m *ManualPacer) Drain() int {
	n := 0
	for m.Step() {
		n++
	}
	return n
}
