package rtos

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by Queue.Post when every slot is occupied.
var ErrQueueFull = errors.New("rtos: queue full")

// Queue is a bounded FIFO message queue. Posting never blocks.
type Queue[T any] struct {
	ch chan T
}

// NewQueue creates a queue holding at most capacity messages.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return cap(q.ch)
}

// Len returns the number of queued messages.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Post enqueues v or returns ErrQueueFull.
func (q *Queue[T]) Post(v T) error {
	select {
	case q.ch <- v:
		return nil
	default:
		return ErrQueueFull
	}
}

// PostDropOldest enqueues v, discarding the oldest message if the queue is
// full. It reports whether a message was dropped.
//
// Only safe with a single producer: another producer could refill the freed
// slot between the drop and the retry.
func (q *Queue[T]) PostDropOldest(v T) bool {
	dropped := false
	for {
		select {
		case q.ch <- v:
			return dropped
		default:
		}
		select {
		case <-q.ch:
			dropped = true
		default:
		}
	}
}

// Accept dequeues the oldest message without blocking.
func (q *Queue[T]) Accept() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Pend waits for the next message.
func (q *Queue[T]) Pend(ctx context.Context) (T, error) {
	select {
	case v := <-q.ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
