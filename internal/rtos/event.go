package rtos

import "sync/atomic"

// EventCell is a single event bit with one producer and one consumer.
// Setting an already set cell is a no-op; consuming a clear cell is a no-op.
type EventCell struct {
	set atomic.Bool
}

// Set raises the event.
func (e *EventCell) Set() {
	e.set.Store(true)
}

// Consume clears the event and reports whether it was set.
func (e *EventCell) Consume() bool {
	return e.set.Swap(false)
}

// Pending reports whether the event is set without consuming it.
func (e *EventCell) Pending() bool {
	return e.set.Load()
}
