package rtos

import (
	"context"
	"sync/atomic"
	"time"
)

// Clock suspends the calling task for a number of scheduler ticks.
type Clock interface {
	Sleep(ctx context.Context, ticks int) error
}

// TickClock sleeps in real time, Tick per tick.
type TickClock struct {
	Tick time.Duration
}

// Sleep blocks for ticks*Tick or until ctx is done. Zero or negative ticks
// only check the context.
func (c TickClock) Sleep(ctx context.Context, ticks int) error {
	if ticks <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(ticks) * c.Tick)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Instant is a Clock that never blocks. It counts the ticks it was asked to
// sleep, which lets tests assert on timing without waiting for it.
type Instant struct {
	ticks atomic.Int64
}

// Sleep records ticks and yields the processor.
func (c *Instant) Sleep(ctx context.Context, ticks int) error {
	if ticks > 0 {
		c.ticks.Add(int64(ticks))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	yield()
	return nil
}

// Ticks returns the total number of ticks slept so far.
func (c *Instant) Ticks() int64 {
	return c.ticks.Load()
}

// Reset zeroes the tick counter.
func (c *Instant) Reset() {
	c.ticks.Store(0)
}
