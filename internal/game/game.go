// Package game runs the reflex game as a set of cooperating tasks.
//
// Five tasks share the board: the Supervisor arbitrates the end of the game,
// the LightClassifier watches the ambient light, Logic sweeps the indicator
// and judges presses, the Renderer shows the level and life messages, and
// the PauseAnnouncer shows PAUSE. They talk only through the shared Level,
// the light event cells, the life mailbox and the display queue.
package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomz197/reflex/internal/display"
	"github.com/tomz197/reflex/internal/game/config"
	"github.com/tomz197/reflex/internal/rtos"
)

// PauseSignal is the pause button level.
type PauseSignal interface {
	Paused() bool
}

// Inputs are the two buttons as seen by Logic.
type Inputs interface {
	PauseSignal
	ActionPressed() bool
}

// Sensor is the ambient light sensor.
type Sensor interface {
	ReadLightLevel() int
}

// Random picks target positions. *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
}

// Task priorities, most urgent first.
const (
	PrioritySupervisor = iota + 1
	PriorityLight
	PriorityLogic
	PriorityRenderer
	PriorityAnnouncer
)

// Options wires a game to its hardware.
type Options struct {
	Driver display.Driver
	Inputs Inputs
	Sensor Sensor

	// Clock defaults to a real clock at config.DefaultTick.
	Clock rtos.Clock
	// Rand defaults to a time-seeded source.
	Rand Random
	// ID names the game in logs; a random UUID is used when empty.
	ID     string
	Logger zerolog.Logger

	// AnnounceAlways plays the PAUSE animation even while the game runs.
	AnnounceAlways bool
}

// Game is one session on the board, from power-on to a terminal state.
type Game struct {
	ID         string
	Level      *Level
	Logic      *Logic
	Supervisor *Supervisor
	Renderer   *Renderer
	Light      *LightClassifier
	Announcer  *PauseAnnouncer

	log zerolog.Logger
}

// New builds a game and all its tasks. Nothing runs until Run.
func New(opts Options) *Game {
	if opts.Clock == nil {
		opts.Clock = rtos.TickClock{Tick: config.DefaultTick}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	log := opts.Logger.With().Str("game", opts.ID).Logger()

	level := NewLevel()
	events := &LightEvents{}
	lifeBox := rtos.NewMailbox[int]()
	queue := rtos.NewQueue[Message](config.MessageQueueSize)
	mux := display.NewMux(opts.Driver, opts.Clock, config.SlidePadding, config.SlideCapacity, config.PassTicks)

	return &Game{
		ID:         opts.ID,
		Level:      level,
		Logic:      NewLogic(level, opts.Inputs, events, lifeBox, mux, opts.Clock, opts.Rand, taskLogger(log, "logic")),
		Supervisor: NewSupervisor(level, lifeBox, queue, mux, taskLogger(log, "supervisor")),
		Renderer:   NewRenderer(level, opts.Inputs, queue, mux, opts.Clock, taskLogger(log, "renderer")),
		Light:      NewLightClassifier(opts.Sensor, events, opts.Clock, taskLogger(log, "light")),
		Announcer:  NewPauseAnnouncer(opts.Inputs, mux, opts.Clock, opts.AnnounceAlways, taskLogger(log, "announcer")),
		log:        log,
	}
}

func taskLogger(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("task", name).Logger()
}

// Tasks returns the game's tasks. All but the Supervisor stop once the game
// reaches a terminal state; the Supervisor keeps the final animation going
// until ctx is done.
func (g *Game) Tasks() []rtos.Task {
	return []rtos.Task{
		{Name: "supervisor", Priority: PrioritySupervisor, Run: g.Supervisor.Run},
		{Name: "light", Priority: PriorityLight, Run: g.untilHalt(g.Light.Run)},
		{Name: "logic", Priority: PriorityLogic, Run: g.untilHalt(g.Logic.Run)},
		{Name: "renderer", Priority: PriorityRenderer, Run: g.untilHalt(g.Renderer.Run)},
		{Name: "announcer", Priority: PriorityAnnouncer, Run: g.untilHalt(g.Announcer.Run)},
	}
}

// Run plays the game until ctx is done. Extra tasks (a terminal painter, a
// key pump) run alongside and share the same lifetime.
func (g *Game) Run(ctx context.Context, extra ...rtos.Task) error {
	g.log.Info().Msg("game started")
	if g.Announcer.always {
		g.log.Warn().Msg("pause announcer runs unconditionally and competes with the renderer for the display")
	}

	err := rtos.RunTasks(ctx, g.log, append(g.Tasks(), extra...)...)

	g.log.Info().Str("result", g.Supervisor.State().String()).Int("level", g.Level.Get()).Msg("game stopped")
	if err != nil {
		return fmt.Errorf("game %s: %w", g.ID, err)
	}
	return nil
}

// Terminal is closed once the game is cleared or over.
func (g *Game) Terminal() <-chan struct{} {
	return g.Supervisor.Terminal()
}

// Status is a one-line summary for the front ends.
func (g *Game) Status() string {
	switch g.Supervisor.State() {
	case StateCleared:
		return "CLEARED! press Q to leave"
	case StateOver:
		return "GAME OVER - press Q to leave"
	}
	s := g.Logic.Snapshot()
	status := fmt.Sprintf("LEVEL %02d  LIFE %d", g.Level.Get(), s.Life)
	if s.State == LogicPaused {
		status += "  PAUSED"
	}
	if s.Brightness == Dark {
		status += "  DARK"
	}
	return status
}

// untilHalt runs fn with a context that is also cancelled when the game
// reaches a terminal state.
func (g *Game) untilHalt(fn rtos.TaskFunc) rtos.TaskFunc {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-g.Supervisor.Terminal():
				cancel()
			case <-ctx.Done():
			}
		}()
		return fn(ctx)
	}
}
