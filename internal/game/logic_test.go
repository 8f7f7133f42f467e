package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/reflex/internal/game/config"
)

// Token index 3 is the 0x08 LED, reached at sweep position 4.
const tokenAt3 = byte(0x08)

func TestLogic_Initial(t *testing.T) {
	r := newLogicRig(t, 3)
	s := r.logic.Snapshot()

	assert.Equal(t, LogicSweeping, s.State)
	assert.Equal(t, config.InitialLife, s.Life)
	assert.Equal(t, config.CycleBegin, s.Position)
	assert.Equal(t, config.Deadline, s.Deadline)
	assert.Equal(t, config.Speed(config.StartLevel), s.Speed)
	assert.Equal(t, tokenAt3, s.Token)
	assert.Equal(t, Bright, s.Brightness)
}

func TestLogic_SweepBounces(t *testing.T) {
	r := newLogicRig(t, 3)

	var patterns []byte
	var positions []int
	for range 16 {
		r.step(t, 1)
		s := r.logic.Snapshot()
		patterns = append(patterns, s.Pattern)
		positions = append(positions, s.Position)
	}

	want := []byte{
		0x88, 0x48, 0x28, 0x18, 0x08, 0x0c, 0x0a, 0x09,
		0x0a, 0x0c, 0x08, 0x18, 0x28, 0x48, 0x88,
		0x48, // second sweep restarts at position 1, not 0
	}
	if diff := cmp.Diff(want, patterns); diff != "" {
		t.Fatalf("sweep patterns (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 1, 2}, positions)
	assert.Equal(t, config.Deadline-1, r.logic.Snapshot().Deadline)
	assert.Equal(t, int64(16*config.Speed(1)), r.clock.Ticks())
}

func TestLogic_DarkInvertsPattern(t *testing.T) {
	r := newLogicRig(t, 3)
	r.events.Dark.Set()

	r.step(t, 1)
	s := r.logic.Snapshot()
	assert.Equal(t, Dark, s.Brightness)
	assert.Equal(t, byte(0x88^0xff), s.Pattern)
	assert.False(t, r.events.Dark.Pending(), "event consumed")

	r.events.Bright.Set()
	r.step(t, 1)
	s = r.logic.Snapshot()
	assert.Equal(t, Bright, s.Brightness)
	assert.Equal(t, byte(0x48), s.Pattern)
}

func TestLogic_NoEventKeepsBrightness(t *testing.T) {
	r := newLogicRig(t, 3)
	r.events.Dark.Set()
	r.step(t, 1)

	// Nothing pending: consuming is a no-op and brightness stays.
	r.step(t, 3)
	assert.Equal(t, Dark, r.logic.Snapshot().Brightness)
}

func TestLogic_Hit(t *testing.T) {
	r := newLogicRig(t, 3, 6)

	r.step(t, 5)
	require.Equal(t, tokenAt3, r.logic.Snapshot().Pattern)

	r.press(t)
	s := r.logic.Snapshot()
	assert.Equal(t, 2, r.level.Get())
	assert.Equal(t, config.Speed(2), s.Speed)
	assert.Equal(t, config.CycleBegin, s.Position)
	assert.Equal(t, config.Deadline, s.Deadline)
	assert.Equal(t, config.InitialLife, s.Life)
	assert.Equal(t, byte(0x40), s.Token, "token re-drawn")
	assert.Equal(t, LogicSweeping, s.State)
	assert.False(t, r.inputs.action.Load(), "latch cleared")

	want := []byte{0x88, 0x48, 0x28, 0x18, 0x08, 0x00, 0xff, 0x00, 0xff, 0x00, 0xff, 0x00}
	if diff := cmp.Diff(want, ledTrail(r.rec.Frames())); diff != "" {
		t.Fatalf("LED trail (-want +got):\n%s", diff)
	}

	blink := 2 * config.BlinkCount * config.BlinkInterval
	assert.Equal(t, int64(5*config.Speed(1)+blink+config.Speed(2)), r.clock.Ticks())
	assert.Empty(t, r.reports, "a hit below the last level reports nothing")
}

func TestLogic_HitWhileDark(t *testing.T) {
	r := newLogicRig(t, 3)
	r.events.Dark.Set()

	r.step(t, 5)
	require.Equal(t, tokenAt3^0xff, r.logic.Snapshot().Pattern)

	r.press(t)
	assert.Equal(t, 2, r.level.Get())
}

func TestLogic_MissPress(t *testing.T) {
	r := newLogicRig(t, 3, 5)

	r.step(t, 2)
	r.press(t)

	assert.Equal(t, 4, <-r.reports)
	s := r.logic.Snapshot()
	assert.Equal(t, 4, s.Life)
	assert.Equal(t, config.CycleBegin, s.Position)
	assert.Equal(t, config.Deadline, s.Deadline)
	assert.Equal(t, byte(0x20), s.Token, "token re-drawn")
	assert.Equal(t, 1, r.level.Get())
	assert.Equal(t, int64(3*config.Speed(1)+config.RoundInterval), r.clock.Ticks())
}

func TestLogic_PressBeforeFirstStepIsMiss(t *testing.T) {
	r := newLogicRig(t, 3)
	r.press(t)
	assert.Equal(t, 4, <-r.reports)
}

func TestLogic_Timeout(t *testing.T) {
	r := newLogicRig(t, 3, 1)

	// First sweep is 15 steps, later ones 14.
	steps := config.CycleEnd + (config.Deadline-1)*(config.CycleEnd-1)
	r.step(t, steps-1)
	assert.Equal(t, 1, r.logic.Snapshot().Deadline)
	assert.Empty(t, r.reports)

	r.step(t, 1)
	assert.Equal(t, 4, <-r.reports)
	s := r.logic.Snapshot()
	assert.Equal(t, 4, s.Life)
	assert.Equal(t, config.CycleBegin, s.Position)
	assert.Equal(t, config.Deadline, s.Deadline)
	assert.Equal(t, byte(0x02), s.Token)
}

func TestLogic_LifeStopsAtZero(t *testing.T) {
	r := newLogicRig(t, 3)

	var got []int
	for range 6 {
		r.press(t)
		got = append(got, <-r.reports)
	}
	assert.Equal(t, []int{4, 3, 2, 1, 0, 0}, got)
	assert.Zero(t, r.logic.Snapshot().Life)
}

func TestLogic_Paused(t *testing.T) {
	r := newLogicRig(t, 3)
	r.step(t, 3)
	before := r.logic.Snapshot()
	r.clock.Reset()

	r.inputs.paused.Store(true)
	r.inputs.action.Store(true)
	r.step(t, 10)

	s := r.logic.Snapshot()
	assert.Equal(t, LogicPaused, s.State)
	assert.Equal(t, before.Position, s.Position)
	assert.Equal(t, before.Pattern, s.Pattern)
	assert.False(t, r.inputs.action.Load(), "presses while paused are dropped")
	assert.Equal(t, int64(10*config.PauseInterval), r.clock.Ticks())

	r.inputs.paused.Store(false)
	r.step(t, 1)
	s = r.logic.Snapshot()
	assert.Equal(t, LogicSweeping, s.State)
	assert.Equal(t, before.Position+1, s.Position)
	assert.Equal(t, 1, r.level.Get())
}

func TestLogic_ClearReportsLife(t *testing.T) {
	r := newLogicRig(t, 3)
	for range config.ClearLevel - 1 {
		r.level.Increment()
	}
	require.Equal(t, config.ClearLevel, r.level.Get())

	r.step(t, 5)
	r.press(t)

	assert.Equal(t, config.MaxLevel, r.level.Get())
	assert.Equal(t, config.InitialLife, <-r.reports)
	assert.Zero(t, r.logic.Snapshot().Speed)
}

func TestLogic_TokenIsOneHot(t *testing.T) {
	r := newLogicRig(t, 0, 1, 2, 3, 4, 5, 6, 7)
	for range 8 {
		tok := r.logic.Snapshot().Token
		assert.NotZero(t, tok)
		assert.Zero(t, tok&(tok-1), "token %08b has more than one bit", tok)
		r.press(t)
		<-r.reports
	}
}
