package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/reflex/internal/display"
	"github.com/tomz197/reflex/internal/game/config"
	"github.com/tomz197/reflex/internal/rtos"
)

type gameRig struct {
	game   *Game
	inputs *fakeInputs
	sensor *fixedSensor
	rec    *display.Recorder
	clock  rtos.Clock
	cancel context.CancelFunc
	done   chan error
}

func startGame(t *testing.T, setup func(*gameRig)) *gameRig {
	t.Helper()
	rig := &gameRig{
		inputs: &fakeInputs{},
		sensor: newSensor(config.LightBright),
		rec:    &display.Recorder{},
		clock:  &rtos.Instant{},
		done:   make(chan error, 1),
	}
	if setup != nil {
		setup(rig)
	}
	rig.game = New(Options{
		Driver: rig.rec,
		Inputs: rig.inputs,
		Sensor: rig.sensor,
		Clock:  rig.clock,
		Rand:   &seqRand{vals: []int{3, 0, 7, 5, 1, 6, 2, 4}},
		ID:     t.Name(),
		Logger: zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	rig.cancel = cancel
	go func() { rig.done <- rig.game.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-rig.done
	})
	return rig
}

func (r *gameRig) waitTerminal(t *testing.T) {
	t.Helper()
	select {
	case <-r.game.Terminal():
	case <-time.After(10 * time.Second):
		t.Fatalf("game did not finish; status %q", r.game.Status())
	}
}

func (r *gameRig) stop(t *testing.T) {
	t.Helper()
	r.cancel()
	select {
	case err := <-r.done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("game did not stop after cancel")
	}
	r.done <- nil // for the cleanup
}

func TestGame_TasksInPriorityOrder(t *testing.T) {
	g := New(Options{Driver: &display.Recorder{}, Inputs: &fakeInputs{}, Sensor: newSensor(0), Logger: zerolog.Nop()})
	assert.NotEmpty(t, g.ID)

	var names []string
	prev := 0
	for _, task := range g.Tasks() {
		assert.Greater(t, task.Priority, prev)
		prev = task.Priority
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"supervisor", "light", "logic", "renderer", "announcer"}, names)
}

func TestGame_TimeoutsEndTheGame(t *testing.T) {
	rig := startGame(t, nil)
	rig.waitTerminal(t)

	assert.Equal(t, StateOver, rig.game.Supervisor.State())
	assert.Equal(t, config.StartLevel, rig.game.Level.Get())
	assert.Zero(t, rig.game.Logic.Snapshot().Life)
	assert.Equal(t, "GAME OVER - press Q to leave", rig.game.Status())

	require.Eventually(t, func() bool {
		return rig.rec.Current().Digits == display.OverWord
	}, 5*time.Second, time.Millisecond)
	rig.stop(t)
}

func TestGame_FiveMissesEndTheGame(t *testing.T) {
	rig := startGame(t, func(r *gameRig) {
		// Press on every sweep step where the indicator is off target.
		r.inputs.press = func() bool {
			s := r.game.Logic.Snapshot()
			return s.State == LogicSweeping && s.Pattern != 0 && s.Pattern != s.Token
		}
	})
	rig.waitTerminal(t)

	assert.Equal(t, StateOver, rig.game.Supervisor.State())
	assert.Equal(t, config.StartLevel, rig.game.Level.Get())
	assert.Zero(t, rig.game.Supervisor.Dropped())
	rig.stop(t)
}

func TestGame_TenHitsClearTheGame(t *testing.T) {
	rig := startGame(t, func(r *gameRig) {
		// A perfect player.
		r.inputs.press = func() bool {
			s := r.game.Logic.Snapshot()
			return s.State == LogicSweeping && s.Pattern == s.Token
		}
	})
	rig.waitTerminal(t)

	assert.Equal(t, StateCleared, rig.game.Supervisor.State())
	assert.Equal(t, config.MaxLevel, rig.game.Level.Get())
	assert.Equal(t, config.InitialLife, rig.game.Logic.Snapshot().Life)
	rig.stop(t)
}

func TestGame_PerfectPlayerInTheDark(t *testing.T) {
	rig := startGame(t, func(r *gameRig) {
		r.sensor.level.Store(config.LightDark)
		r.inputs.press = func() bool {
			s := r.game.Logic.Snapshot()
			return s.State == LogicSweeping && s.Brightness == Dark && s.Pattern == s.Token^0xff
		}
	})
	rig.waitTerminal(t)

	assert.Equal(t, StateCleared, rig.game.Supervisor.State())
	rig.stop(t)
}

func TestGame_PauseFreezesProgress(t *testing.T) {
	rig := startGame(t, func(r *gameRig) {
		// Real time, so the unpaused game does not run to its end before
		// the assertions below look at it.
		r.clock = rtos.TickClock{Tick: time.Millisecond}
		r.inputs.paused.Store(true)
	})

	require.Eventually(t, func() bool {
		return rig.game.Logic.Snapshot().State == LogicPaused
	}, 5*time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	s := rig.game.Logic.Snapshot()
	assert.Equal(t, config.CycleBegin, s.Position)
	assert.Equal(t, config.Deadline, s.Deadline)
	assert.Contains(t, rig.game.Status(), "PAUSED")
	for _, f := range rig.rec.Frames() {
		assert.NotEqual(t, display.LevelFrame(1), f.Digits, "renderer must not draw while paused")
	}

	rig.inputs.paused.Store(false)
	require.Eventually(t, func() bool {
		return rig.game.Logic.Snapshot().Position > config.CycleBegin
	}, 5*time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		return rig.rec.Current().Digits == display.LevelFrame(1)
	}, 5*time.Second, time.Millisecond)
	rig.stop(t)
}

func TestGame_ExtraTaskErrorStopsGame(t *testing.T) {
	boom := errors.New("display gone")
	g := New(Options{
		Driver: &display.Recorder{},
		Inputs: &fakeInputs{},
		Sensor: newSensor(config.LightBright),
		Clock:  &rtos.Instant{},
		Logger: zerolog.Nop(),
	})
	err := g.Run(context.Background(), rtos.Task{
		Name:     "painter",
		Priority: 10,
		Run:      func(context.Context) error { return boom },
	})
	assert.ErrorIs(t, err, boom)
}
