package game

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomz197/reflex/internal/display"
	"github.com/tomz197/reflex/internal/game/config"
	"github.com/tomz197/reflex/internal/rtos"
)

// fakeInputs stands in for the buttons. press, when set, is consulted on
// every ActionPressed call in addition to the latch.
type fakeInputs struct {
	action atomic.Bool
	paused atomic.Bool
	press  func() bool
}

func (f *fakeInputs) ActionPressed() bool {
	if f.press != nil && f.press() {
		return true
	}
	return f.action.Swap(false)
}

func (f *fakeInputs) Paused() bool { return f.paused.Load() }

// seqRand returns vals in order, cycling.
type seqRand struct {
	mu   sync.Mutex
	vals []int
	i    int
}

func (r *seqRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

type fixedSensor struct {
	level atomic.Int32
}

func (s *fixedSensor) ReadLightLevel() int { return int(s.level.Load()) }

func newSensor(level int) *fixedSensor {
	s := &fixedSensor{}
	s.level.Store(int32(level))
	return s
}

// logicRig is a Logic with its collaborators exposed and a goroutine playing
// the receiving end of the life mailbox.
type logicRig struct {
	level   *Level
	inputs  *fakeInputs
	events  *LightEvents
	rec     *display.Recorder
	clock   *rtos.Instant
	logic   *Logic
	reports chan int
}

func newLogicRig(t *testing.T, tokens ...int) *logicRig {
	t.Helper()
	r := &logicRig{
		level:   NewLevel(),
		inputs:  &fakeInputs{},
		events:  &LightEvents{},
		rec:     &display.Recorder{},
		clock:   &rtos.Instant{},
		reports: make(chan int, 16),
	}
	lives := rtos.NewMailbox[int]()
	mux := display.NewMux(r.rec, r.clock, config.SlidePadding, config.SlideCapacity, config.PassTicks)
	r.logic = NewLogic(r.level, r.inputs, r.events, lives, mux, r.clock, &seqRand{vals: tokens}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		for {
			v, err := lives.Pend(ctx)
			if err != nil {
				return
			}
			r.reports <- v
		}
	}()
	return r
}

func (r *logicRig) step(t *testing.T, n int) {
	t.Helper()
	for range n {
		if err := r.logic.Step(context.Background()); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
}

func (r *logicRig) press(t *testing.T) {
	t.Helper()
	r.inputs.action.Store(true)
	r.step(t, 1)
}

// ledTrail extracts the LED values from recorded frames.
func ledTrail(frames []display.Frame) []byte {
	var out []byte
	for _, f := range frames {
		if n := len(out); n > 0 && out[n-1] == f.LEDs {
			continue
		}
		out = append(out, f.LEDs)
	}
	return out
}
