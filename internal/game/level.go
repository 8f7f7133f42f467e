package game

import (
	"sync"

	"github.com/tomz197/reflex/internal/game/config"
)

// Level is the one value shared by several tasks. Every access takes the
// lock for a single read or a single write.
type Level struct {
	mu    sync.Mutex
	value int
}

// NewLevel starts at config.StartLevel.
func NewLevel() *Level {
	return &Level{value: config.StartLevel}
}

// Get returns the current level.
func (l *Level) Get() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}

// Increment raises the level by one, saturating at config.MaxLevel, and
// returns the new value.
func (l *Level) Increment() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.value < config.MaxLevel {
		l.value++
	}
	return l.value
}

// Cleared reports whether the last level has been passed.
func Cleared(level int) bool {
	return level > config.ClearLevel
}
