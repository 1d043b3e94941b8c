// Package sched implements the tick-ordered event queue that paces every
// peripheral against the CPU clock. It knows nothing about what drives the
// clock: callers pass the current tick in.
package sched

// Tick is the abstract unit of elapsed bus time. It wraps around, so tick
// comparisons must go through half-range arithmetic (see Pending) instead of
// plain ordering.
type Tick uint32

const halfRange = 1 << 31

// An Event is a callback bound to a due tick. Events are owned by whoever
// created them; a List only links them together. An Event can sit in at most
// one list at a time.
type Event struct {
	Due Tick
	Do  func()

	queued bool
	list   *List
	next   *Event
}

// Queued reports whether the event is currently linked into a list.
func (ev *Event) Queued() bool { return ev.queued }

// Dequeue unlinks the event from its list. Idempotent: dequeueing an event
// that is not queued is a no-op.
func (ev *Event) Dequeue() {
	if !ev.queued {
		return
	}
	for p := &ev.list.head; *p != nil; p = &(*p).next {
		if *p == ev {
			*p = ev.next
			break
		}
	}
	ev.queued = false
	ev.list = nil
	ev.next = nil
}

// List is a queue of pending events ordered by due tick. Events with equal
// due ticks fire in insertion order.
type List struct {
	head *Event
}

// Enqueue inserts the event sorted by due tick, after any already-queued
// event with the same due tick. Enqueueing an already-queued event moves it:
// it is first removed from its current list, so it can never appear twice.
func (l *List) Enqueue(ev *Event) {
	if ev.queued {
		ev.Dequeue()
	}

	p := &l.head
	for *p != nil && ev.Due-(*p).Due < halfRange {
		// (*p).Due <= ev.Due in wraparound order: keep going so that
		// equal-tick events preserve FIFO.
		p = &(*p).next
	}
	ev.next = *p
	*p = ev
	ev.queued = true
	ev.list = l
}

// Pending reports whether the head event is due at tick now. "Due" includes
// any tick in the past half of the wrapping tick range, so an event scheduled
// just before the counter wrapped is still recognized as overdue.
func (l *List) Pending(now Tick) bool {
	return l.head != nil && now-l.head.Due <= halfRange
}

// RunQueue fires every event due at tick now, in due-tick order with FIFO
// tie-break. A callback may enqueue further events into the same list; they
// are picked up by the same scan if they are due.
func (l *List) RunQueue(now Tick) {
	for l.Pending(now) {
		ev := l.head
		l.head = ev.next
		ev.queued = false
		ev.list = nil
		ev.next = nil
		ev.Do()
	}
}
