package rtos

import "context"

// Mailbox is a single-slot rendezvous between one sender and one receiver.
// Post does not return until a Pend has taken the value, so at most one
// value is ever in flight.
type Mailbox[T any] struct {
	ch chan T
}

// NewMailbox creates an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T)}
}

// Post hands v to the receiver, blocking until it is taken or ctx is done.
func (m *Mailbox[T]) Post(ctx context.Context, v T) error {
	select {
	case m.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pend waits for the next value.
func (m *Mailbox[T]) Pend(ctx context.Context) (T, error) {
	select {
	case v := <-m.ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
