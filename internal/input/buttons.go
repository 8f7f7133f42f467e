package input

import (
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrQuit is returned by Pump when the player asks to leave.
var ErrQuit = errors.New("input: quit")

// DebounceInterval is the minimum spacing between accepted action presses.
const DebounceInterval = 10 * time.Millisecond

// Buttons holds the action and pause buttons. The key pump is the single
// writer; game tasks read once per tick and may see a value up to one tick
// old.
type Buttons struct {
	action   atomic.Bool
	paused   atomic.Bool
	debounce *rate.Limiter
}

// NewButtons creates released buttons.
func NewButtons() *Buttons {
	return &Buttons{
		debounce: rate.NewLimiter(rate.Every(DebounceInterval), 1),
	}
}

// PressAction latches an action press. Bounces inside DebounceInterval are
// ignored. It reports whether the press was accepted.
func (b *Buttons) PressAction() bool {
	if !b.debounce.Allow() {
		return false
	}
	b.action.Store(true)
	return true
}

// ActionPressed reports whether the action button was pressed since the last
// call, and clears the latch.
func (b *Buttons) ActionPressed() bool {
	return b.action.Swap(false)
}

// TogglePause flips the pause level and returns the new value.
func (b *Buttons) TogglePause() bool {
	for {
		old := b.paused.Load()
		if b.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// SetPaused forces the pause level.
func (b *Buttons) SetPaused(paused bool) {
	b.paused.Store(paused)
}

// Paused reports the pause level.
func (b *Buttons) Paused() bool {
	return b.paused.Load()
}
