// Package config centralizes the fixed game rules and timing.
//
// Durations are in scheduler ticks; the tick length itself is a process
// setting (see cmd/game).
package config

import "time"

// DefaultTick is the scheduler tick length the rules were tuned for.
const DefaultTick = 10 * time.Millisecond

// Levels
const (
	StartLevel = 1
	ClearLevel = 10             // Passing this level clears the game
	MaxLevel   = ClearLevel + 1 // Level value that denotes "cleared"
)

// Lives and rounds
const (
	InitialLife = 5
	Deadline    = 3 // Sweeps per round before a timeout miss
)

// Sweep
const (
	Positions  = 8
	CycleBegin = 0
	CycleEnd   = 15
)

// Timing, in ticks
const (
	RoundInterval  = 300               // Hold after a miss or timeout
	BlinkInterval  = RoundInterval / 6 // Half period of the level-up blink
	BlinkCount     = 3
	PauseInterval  = 10 // Poll period while paused
	SensorInterval = 10 // Light sensor sampling period
)

// Speed returns the sweep step delay in ticks for a level.
func Speed(level int) int {
	s := (MaxLevel - level) * 2
	if s < 0 {
		return 0
	}
	return s
}

// Display
const (
	SlideFast     = 20 // Refresh passes per slide step, life messages
	SlideSlow     = 40 // Refresh passes per slide step, PAUSE and CLEAr
	SlidePadding  = 3  // Blank slots on each side of slid content
	SlideCapacity = 16 // Largest padded slide buffer
	PassTicks     = 1  // One multiplex pass: 4 slots at 2.5ms each
	FlashTicks    = 50 // All-LED attention flash after a life message
	LevelPasses   = 1  // Static refresh passes per renderer tick
)

// Messages
const (
	MessageQueueSize = 6
	MessageLength    = 6 // "LIFE" + blank + digit
)

// Light sensor
const (
	LightThreshold = 871  // Raw readings below this are Dark
	LightMax       = 1023 // 10-bit converter
	LightBright    = 950
	LightDark      = 400
)
