package game

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tomz197/reflex/internal/display"
	"github.com/tomz197/reflex/internal/game/config"
	"github.com/tomz197/reflex/internal/rtos"
)

// PauseAnnouncer slides PAUSE across the display while the game is paused.
// With always set it plays regardless of the pause button.
type PauseAnnouncer struct {
	pause  PauseSignal
	mux    *display.Mux
	clock  rtos.Clock
	always bool
	log    zerolog.Logger
}

// NewPauseAnnouncer creates the announcer task.
func NewPauseAnnouncer(pause PauseSignal, mux *display.Mux, clock rtos.Clock, always bool, log zerolog.Logger) *PauseAnnouncer {
	return &PauseAnnouncer{
		pause:  pause,
		mux:    mux,
		clock:  clock,
		always: always,
		log:    log,
	}
}

// Run announces until ctx is done.
func (a *PauseAnnouncer) Run(ctx context.Context) error {
	for {
		if err := a.Step(ctx); err != nil {
			return err
		}
	}
}

// Step plays one PAUSE slide, or waits a poll interval if there is nothing
// to announce. A slide stops early when the game resumes.
func (a *PauseAnnouncer) Step(ctx context.Context) error {
	if !a.active() {
		return a.clock.Sleep(ctx, config.PauseInterval)
	}
	err := a.mux.SlideWhile(ctx, display.PauseWord, config.SlideSlow, a.active)
	if errors.Is(err, display.ErrBufferTooSmall) {
		a.log.Error().Err(err).Msg("pause animation does not fit the display buffer")
		return a.clock.Sleep(ctx, config.PauseInterval)
	}
	return err
}

func (a *PauseAnnouncer) active() bool {
	return a.always || a.pause.Paused()
}
