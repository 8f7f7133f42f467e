// Package rtos provides the small set of kernel-style primitives the game
// tasks are built on: a single-slot mailbox, a bounded message queue,
// one-shot event cells and a tick clock.
//
// The primitives are thin wrappers over channels and atomics. They exist so
// that each task states its synchronization contract in the type it holds
// rather than in how it happens to use a channel.
package rtos
