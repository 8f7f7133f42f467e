// Package display drives a four digit seven-segment display and an eight
// LED bar, the only output device of the game.
package display

// Segment bits, one byte per digit slot.
//
//	 aaa
//	f   b
//	 ggg
//	e   c
//	 ddd  dp
const (
	SegA  byte = 0x01
	SegB  byte = 0x02
	SegC  byte = 0x04
	SegD  byte = 0x08
	SegE  byte = 0x10
	SegF  byte = 0x20
	SegG  byte = 0x40
	SegDP byte = 0x80
	Blank byte = 0x00
)

// Digits holds the glyphs for 0-9.
var Digits = [10]byte{0x3f, 0x06, 0x5b, 0x4f, 0x66, 0x6d, 0x7d, 0x27, 0x7f, 0x6f}

// Words shown by the game.
var (
	LifeWord  = []byte{0x38, 0x06, 0x71, 0x79}       // LIFE
	ClearWord = []byte{0x39, 0x38, 0x79, 0x77, 0x50} // CLEAr
	OverWord  = [4]byte{0x5c, 0x1c, 0x79, 0x50}      // ovEr
	PauseWord = []byte{0x73, 0x77, 0x3e, 0x6d, 0x79} // PAUSE
)

// Digit returns the glyph for n modulo 10.
func Digit(n int) byte {
	if n < 0 {
		n = -n
	}
	return Digits[n%10]
}

// LevelFrame formats "Lv.NN". Levels past 99 or below 0 are shown as 00.
func LevelFrame(level int) [4]byte {
	if level < 0 || level > 99 {
		level = 0
	}
	return [4]byte{0x38, 0x1c | SegDP, Digit(level / 10), Digit(level % 10)}
}

// LifeMessage builds the "LIFE n" message slid across the display when a
// life is lost.
func LifeMessage(life int) []byte {
	msg := make([]byte, 0, len(LifeWord)+2)
	msg = append(msg, LifeWord...)
	return append(msg, Blank, Digit(life))
}
