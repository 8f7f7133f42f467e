// Package input turns terminal key presses into the board's two buttons and
// the simulated ambient light sensor.
package input

import (
	"bufio"
	"context"
)

// Key is a decoded key press.
type Key int

const (
	KeyNone Key = iota
	KeyAction
	KeyPause
	KeyLight
	KeyDimmer
	KeyBrighter
	KeyQuit
)

// Stream delivers input bytes via a channel.
type Stream struct {
	ch chan byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The channel is closed when r returns an error (EOF included).
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Decode maps a byte to a Key.
func Decode(b byte) Key {
	switch b {
	case ' ', '\n', '\r':
		return KeyAction
	case 'p', 'P':
		return KeyPause
	case 'l', 'L':
		return KeyLight
	case '[':
		return KeyDimmer
	case ']':
		return KeyBrighter
	case 'q', 'Q', 0x03: // Ctrl-C arrives as a byte in raw mode
		return KeyQuit
	}
	return KeyNone
}

// Board is what key presses act on.
type Board struct {
	Buttons *Buttons
	Light   *LightDial
}

// Pump applies key presses from s to the board until ctx is done, the
// stream ends, or the quit key is pressed. It returns ErrQuit in the last
// case so callers can stop the game.
func Pump(ctx context.Context, s *Stream, b Board) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-s.ch:
			if !ok {
				return ErrQuit
			}
			if Apply(Decode(c), b) {
				return ErrQuit
			}
		}
	}
}

// Apply performs a single key on the board and reports whether it was quit.
func Apply(k Key, b Board) bool {
	switch k {
	case KeyAction:
		b.Buttons.PressAction()
	case KeyPause:
		b.Buttons.TogglePause()
	case KeyLight:
		b.Light.Toggle()
	case KeyDimmer:
		b.Light.Adjust(-dialStep)
	case KeyBrighter:
		b.Light.Adjust(dialStep)
	case KeyQuit:
		return true
	}
	return false
}
