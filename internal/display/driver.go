package display

import "sync"

// Driver is the output hardware. Render shows one multiplexed frame of the
// four digit slots; callers repeat it to keep the image visible.
type Driver interface {
	Render(buf [4]byte)
	SetLEDs(mask byte)
}

// Frame is the visible state of the board.
type Frame struct {
	Digits [4]byte
	LEDs   byte
}

// Recorder is a Driver that keeps every distinct frame it was given.
type Recorder struct {
	mu      sync.Mutex
	current Frame
	frames  []Frame
}

// Render implements Driver.
func (r *Recorder) Render(buf [4]byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current.Digits = buf
	r.push()
}

// SetLEDs implements Driver.
func (r *Recorder) SetLEDs(mask byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current.LEDs = mask
	r.push()
}

func (r *Recorder) push() {
	if n := len(r.frames); n > 0 && r.frames[n-1] == r.current {
		return
	}
	r.frames = append(r.frames, r.current)
}

// Frames returns a copy of the recorded frames.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Current returns the latest frame.
func (r *Recorder) Current() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Reset forgets the recorded history.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = nil
}
