package input

import (
	"sync/atomic"

	"github.com/tomz197/reflex/internal/game/config"
)

const dialStep = 50

// LightDial simulates the ambient light sensor with a value the player can
// move with the keyboard.
type LightDial struct {
	level atomic.Int32
}

// NewLightDial creates a dial at the given raw reading.
func NewLightDial(level int) *LightDial {
	d := &LightDial{}
	d.Set(level)
	return d
}

// ReadLightLevel returns the raw sensor reading.
func (d *LightDial) ReadLightLevel() int {
	return int(d.level.Load())
}

// Set moves the dial, clamped to the converter range.
func (d *LightDial) Set(level int) {
	d.level.Store(int32(min(max(level, 0), config.LightMax)))
}

// Adjust moves the dial by delta.
func (d *LightDial) Adjust(delta int) {
	for {
		old := d.level.Load()
		next := int32(min(max(int(old)+delta, 0), config.LightMax))
		if d.level.CompareAndSwap(old, next) {
			return
		}
	}
}

// Toggle flips between a dark and a bright room.
func (d *LightDial) Toggle() {
	if d.ReadLightLevel() < config.LightThreshold {
		d.Set(config.LightBright)
	} else {
		d.Set(config.LightDark)
	}
}
