package game

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomz197/reflex/internal/display"
	"github.com/tomz197/reflex/internal/game/config"
	"github.com/tomz197/reflex/internal/rtos"
)

// SupervisorState is the game outcome as decided by the Supervisor.
type SupervisorState int32

const (
	StateRunning SupervisorState = iota
	StateCleared
	StateOver
)

func (s SupervisorState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCleared:
		return "cleared"
	case StateOver:
		return "over"
	}
	return "unknown"
}

// Terminal reports whether s has no way out.
func (s SupervisorState) Terminal() bool {
	return s != StateRunning
}

// MessageKind tags display messages.
type MessageKind int

const (
	MessageLife MessageKind = iota
)

// Message is queued from the Supervisor to the Renderer.
type Message struct {
	Kind MessageKind
	Life int
	Body [config.MessageLength]byte
}

// NewLifeMessage builds the "LIFE n" message.
func NewLifeMessage(life int) Message {
	m := Message{Kind: MessageLife, Life: life}
	copy(m.Body[:], display.LifeMessage(life))
	return m
}

// Supervisor receives life reports and decides whether the game goes on.
type Supervisor struct {
	level *Level
	lives *rtos.Mailbox[int]
	queue *rtos.Queue[Message]
	mux   *display.Mux
	log   zerolog.Logger

	state    atomic.Int32
	terminal chan struct{}
	once     sync.Once
	dropped  atomic.Int64
}

// NewSupervisor creates a supervisor for a running game.
func NewSupervisor(level *Level, lives *rtos.Mailbox[int], queue *rtos.Queue[Message], mux *display.Mux, log zerolog.Logger) *Supervisor {
	return &Supervisor{
		level:    level,
		lives:    lives,
		queue:    queue,
		mux:      mux,
		log:      log,
		terminal: make(chan struct{}),
	}
}

// State returns the current outcome.
func (s *Supervisor) State() SupervisorState {
	return SupervisorState(s.state.Load())
}

// Terminal is closed when the supervisor enters a terminal state.
func (s *Supervisor) Terminal() <-chan struct{} {
	return s.terminal
}

// Dropped counts life messages discarded because the display queue was full.
func (s *Supervisor) Dropped() int64 {
	return s.dropped.Load()
}

// Handle judges one life report and returns the resulting state. Once a
// terminal state is reached further reports are ignored.
func (s *Supervisor) Handle(life int) SupervisorState {
	if st := s.State(); st.Terminal() {
		return st
	}

	lvl := s.level.Get()
	switch {
	case Cleared(lvl):
		s.enter(StateCleared, lvl, life)
	case life <= 0:
		s.enter(StateOver, lvl, life)
	default:
		if s.queue.PostDropOldest(NewLifeMessage(life)) {
			s.dropped.Add(1)
			s.log.Warn().Int("life", life).Msg("display queue full, dropped oldest message")
		}
	}
	return s.State()
}

func (s *Supervisor) enter(st SupervisorState, level, life int) {
	s.state.Store(int32(st))
	s.once.Do(func() { close(s.terminal) })
	s.log.Info().Stringer("state", st).Int("level", level).Int("life", life).Msg("game finished")
}

// Run waits for life reports until the game ends, then keeps the final
// animation on the display until ctx is done.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		life, err := s.lives.Pend(ctx)
		if err != nil {
			return err
		}
		if st := s.Handle(life); st.Terminal() {
			return s.showOutcome(ctx, st)
		}
	}
}

func (s *Supervisor) showOutcome(ctx context.Context, st SupervisorState) error {
	if st == StateOver {
		s.mux.Driver().SetLEDs(0x00)
		for {
			if err := s.mux.Static(ctx, display.OverWord, config.SlideSlow); err != nil {
				return err
			}
		}
	}
	for {
		err := s.mux.Slide(ctx, display.ClearWord, config.SlideSlow)
		if errors.Is(err, display.ErrBufferTooSmall) {
			s.log.Error().Err(err).Msg("clear animation does not fit the display buffer")
			var head [display.Slots]byte
			copy(head[:], display.ClearWord)
			err = s.mux.Static(ctx, head, config.SlideSlow)
		}
		if err != nil {
			return err
		}
	}
}
