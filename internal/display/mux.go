package display

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomz197/reflex/internal/rtos"
)

// Slots is the number of digit positions on the display.
const Slots = 4

// ErrBufferTooSmall is returned when padded slide content does not fit the
// slide buffer.
var ErrBufferTooSmall = errors.New("display: slide buffer too small")

// SlideBuffer is a fixed capacity window buffer for sliding text.
type SlideBuffer struct {
	buf     []byte
	padding int
	length  int
}

// NewSlideBuffer allocates a buffer of the given capacity. The capacity must
// hold at least one visible window with padding on both sides.
func NewSlideBuffer(capacity, padding int) (*SlideBuffer, error) {
	if padding < 0 || padding >= Slots {
		return nil, fmt.Errorf("display: padding %d out of range [0, %d)", padding, Slots)
	}
	if capacity < Slots+padding {
		return nil, fmt.Errorf("%w: capacity %d, need at least %d", ErrBufferTooSmall, capacity, Slots+padding)
	}
	return &SlideBuffer{buf: make([]byte, capacity), padding: padding}, nil
}

// Load clears the buffer and places content between the margins.
func (s *SlideBuffer) Load(content []byte) error {
	n := len(content) + 2*s.padding
	if n > len(s.buf) {
		return fmt.Errorf("%w: %d bytes padded to %d, capacity %d", ErrBufferTooSmall, len(content), n, len(s.buf))
	}
	clear(s.buf)
	copy(s.buf[s.padding:], content)
	s.length = n
	return nil
}

// Steps returns how many windows the loaded content slides through.
func (s *SlideBuffer) Steps() int {
	return s.length - s.padding
}

// Window returns the slots visible at step i.
func (s *SlideBuffer) Window(i int) [4]byte {
	var w [4]byte
	copy(w[:], s.buf[i:])
	return w
}

// Mux multiplexes buffers onto a Driver. One refresh pass costs PassTicks.
type Mux struct {
	drv       Driver
	clock     rtos.Clock
	padding   int
	capacity  int
	passTicks int
}

// NewMux creates a multiplexer. padding and capacity configure slides.
func NewMux(drv Driver, clock rtos.Clock, padding, capacity, passTicks int) *Mux {
	return &Mux{
		drv:       drv,
		clock:     clock,
		padding:   padding,
		capacity:  capacity,
		passTicks: passTicks,
	}
}

// Driver returns the underlying output.
func (m *Mux) Driver() Driver {
	return m.drv
}

// Static shows buf for the given number of refresh passes.
func (m *Mux) Static(ctx context.Context, buf [4]byte, passes int) error {
	for range passes {
		m.drv.Render(buf)
		if err := m.clock.Sleep(ctx, m.passTicks); err != nil {
			return err
		}
	}
	return nil
}

// Slide scrolls content from right to left through the display, holding
// each step for passes refreshes. The LED bar shows a one-hot marker of the
// current step; steps past the eighth leave it dark.
func (m *Mux) Slide(ctx context.Context, content []byte, passes int) error {
	return m.SlideWhile(ctx, content, passes, nil)
}

// SlideWhile is Slide that stops after any step for which keep returns
// false. A nil keep never stops.
func (m *Mux) SlideWhile(ctx context.Context, content []byte, passes int, keep func() bool) error {
	sb, err := NewSlideBuffer(m.capacity, m.padding)
	if err != nil {
		return err
	}
	if err := sb.Load(content); err != nil {
		return err
	}
	for i := range sb.Steps() {
		if keep != nil && !keep() {
			return nil
		}
		m.drv.SetLEDs(stepMask(i))
		if err := m.Static(ctx, sb.Window(i), passes); err != nil {
			return err
		}
	}
	return nil
}

// Flash lights every LED for ticks, then turns them off.
func (m *Mux) Flash(ctx context.Context, ticks int) error {
	m.drv.SetLEDs(0xff)
	err := m.clock.Sleep(ctx, ticks)
	m.drv.SetLEDs(0x00)
	return err
}

func stepMask(i int) byte {
	if i >= 8 {
		return 0
	}
	return 1 << i
}
