package game

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tomz197/reflex/internal/display"
	"github.com/tomz197/reflex/internal/game/config"
	"github.com/tomz197/reflex/internal/rtos"
)

// Renderer shows the current level, interrupted by life messages.
type Renderer struct {
	level *Level
	pause PauseSignal
	queue *rtos.Queue[Message]
	mux   *display.Mux
	clock rtos.Clock
	log   zerolog.Logger
}

// NewRenderer creates the level display task.
func NewRenderer(level *Level, pause PauseSignal, queue *rtos.Queue[Message], mux *display.Mux, clock rtos.Clock, log zerolog.Logger) *Renderer {
	return &Renderer{
		level: level,
		pause: pause,
		queue: queue,
		mux:   mux,
		clock: clock,
		log:   log,
	}
}

// Run renders until ctx is done.
func (r *Renderer) Run(ctx context.Context) error {
	for {
		if err := r.Step(ctx); err != nil {
			return err
		}
	}
}

// Step renders one tick: a queued message if there is one, the level
// otherwise. While paused it only waits.
func (r *Renderer) Step(ctx context.Context) error {
	if r.pause.Paused() {
		return r.clock.Sleep(ctx, config.PauseInterval)
	}

	if msg, ok := r.queue.Accept(); ok {
		err := r.mux.Slide(ctx, msg.Body[:], config.SlideFast)
		if errors.Is(err, display.ErrBufferTooSmall) {
			r.log.Error().Err(err).Int("life", msg.Life).Msg("life message skipped")
		} else if err != nil {
			return err
		}
		return r.mux.Flash(ctx, config.FlashTicks)
	}

	lvl := r.level.Get()
	if Cleared(lvl) {
		lvl = 0
	}
	return r.mux.Static(ctx, display.LevelFrame(lvl), config.LevelPasses)
}
