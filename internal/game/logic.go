package game

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomz197/reflex/internal/display"
	"github.com/tomz197/reflex/internal/game/config"
	"github.com/tomz197/reflex/internal/rtos"
)

// sweep is the indicator path: left to right edge and back.
var sweep = [config.CycleEnd]byte{
	0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02, 0x01,
	0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80,
}

// LogicState is what the sweep is doing.
type LogicState int

const (
	LogicSweeping LogicState = iota
	LogicLevelUp
	LogicPaused
)

func (s LogicState) String() string {
	switch s {
	case LogicSweeping:
		return "sweeping"
	case LogicLevelUp:
		return "level-up"
	case LogicPaused:
		return "paused"
	}
	return "unknown"
}

// MissCause tells a wrong press from a timeout.
type MissCause int

const (
	MissPress MissCause = iota
	MissTimeout
)

func (c MissCause) String() string {
	if c == MissTimeout {
		return "timeout"
	}
	return "press"
}

// LogicSnapshot is a copy of the sweep state published after every step.
type LogicSnapshot struct {
	State      LogicState
	Life       int
	Position   int
	Token      byte
	Deadline   int
	Speed      int
	Pattern    byte
	Brightness Brightness
}

// Logic is the indicator sweep state machine. Its fields are owned by the
// goroutine running Step; other goroutines read Snapshot.
type Logic struct {
	level  *Level
	inputs Inputs
	events *LightEvents
	lives  *rtos.Mailbox[int]
	mux    *display.Mux
	leds   display.Driver
	clock  rtos.Clock
	rng    Random
	log    zerolog.Logger

	state      LogicState
	life       int
	pos        int
	token      byte
	deadline   int
	speed      int
	pattern    byte
	brightness Brightness

	snapshot atomic.Pointer[LogicSnapshot]
}

// NewLogic creates the sweep at the start of a game.
func NewLogic(level *Level, inputs Inputs, events *LightEvents, lives *rtos.Mailbox[int], mux *display.Mux, clock rtos.Clock, rng Random, log zerolog.Logger) *Logic {
	l := &Logic{
		level:      level,
		inputs:     inputs,
		events:     events,
		lives:      lives,
		mux:        mux,
		leds:       mux.Driver(),
		clock:      clock,
		rng:        rng,
		log:        log,
		life:       config.InitialLife,
		pos:        config.CycleBegin,
		deadline:   config.Deadline,
		speed:      config.Speed(level.Get()),
		brightness: Bright,
	}
	l.newToken()
	l.publish()
	return l
}

// Snapshot returns the state after the last completed step.
func (l *Logic) Snapshot() LogicSnapshot {
	return *l.snapshot.Load()
}

// Run steps the sweep until ctx is done.
func (l *Logic) Run(ctx context.Context) error {
	for {
		if err := l.Step(ctx); err != nil {
			return err
		}
	}
}

// Step runs one tick of the sweep, including the delay that paces it.
func (l *Logic) Step(ctx context.Context) error {
	if l.inputs.Paused() {
		// Presses made while paused are dropped.
		l.inputs.ActionPressed()
		l.state = LogicPaused
		l.publish()
		return l.clock.Sleep(ctx, config.PauseInterval)
	}
	l.state = LogicSweeping
	l.refreshBrightness()

	var err error
	if l.inputs.ActionPressed() {
		if l.isHit() {
			err = l.hit(ctx)
		} else {
			err = l.miss(ctx, MissPress)
		}
	} else {
		err = l.advance(ctx)
	}
	l.publish()
	if err != nil {
		return err
	}
	return l.clock.Sleep(ctx, l.speed)
}

func (l *Logic) refreshBrightness() {
	if l.events.Dark.Consume() {
		l.brightness = Dark
	}
	if l.events.Bright.Consume() {
		l.brightness = Bright
	}
}

func (l *Logic) isHit() bool {
	return l.pattern == l.token || l.pattern == l.token^0xff
}

// advance moves the indicator one step and handles the end of a sweep.
func (l *Logic) advance(ctx context.Context) error {
	pattern := sweep[l.pos] | l.token
	if l.brightness == Dark {
		pattern ^= 0xff
	}
	l.pos++
	l.show(pattern)

	if l.pos < config.CycleEnd {
		return nil
	}
	l.pos = config.CycleBegin + 1
	l.deadline--
	if l.deadline > 0 {
		return nil
	}
	return l.miss(ctx, MissTimeout)
}

func (l *Logic) hit(ctx context.Context) error {
	lvl := l.level.Increment()
	l.speed = config.Speed(lvl)
	l.resetRound()
	l.log.Info().Int("level", lvl).Msg("hit")

	l.state = LogicLevelUp
	l.publish()
	for range config.BlinkCount {
		l.show(0xff)
		if err := l.clock.Sleep(ctx, config.BlinkInterval); err != nil {
			return err
		}
		l.show(0x00)
		if err := l.clock.Sleep(ctx, config.BlinkInterval); err != nil {
			return err
		}
	}
	l.state = LogicSweeping

	if Cleared(lvl) {
		// Let the supervisor arbitrate the clear now rather than on the
		// next miss.
		if err := l.lives.Post(ctx, l.life); err != nil {
			return err
		}
	}
	l.newToken()
	l.inputs.ActionPressed()
	return nil
}

func (l *Logic) miss(ctx context.Context, cause MissCause) error {
	if l.life > 0 {
		l.life--
	}
	l.log.Info().Stringer("cause", cause).Int("life", l.life).Msg("miss")
	l.publish()

	if err := l.lives.Post(ctx, l.life); err != nil {
		return err
	}
	l.resetRound()
	if err := l.clock.Sleep(ctx, config.RoundInterval); err != nil {
		return err
	}
	l.newToken()
	if cause == MissPress {
		l.inputs.ActionPressed()
	}
	return nil
}

func (l *Logic) resetRound() {
	l.pos = config.CycleBegin
	l.deadline = config.Deadline
	l.show(0x00)
}

func (l *Logic) show(pattern byte) {
	l.pattern = pattern
	l.leds.SetLEDs(pattern)
}

func (l *Logic) newToken() {
	l.token = 1 << l.rng.Intn(config.Positions)
}

func (l *Logic) publish() {
	l.snapshot.Store(&LogicSnapshot{
		State:      l.state,
		Life:       l.life,
		Position:   l.pos,
		Token:      l.token,
		Deadline:   l.deadline,
		Speed:      l.speed,
		Pattern:    l.pattern,
		Brightness: l.brightness,
	})
}
