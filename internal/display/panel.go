package display

import "sync"

// Panel is the board state shared between the tasks that write to it and the
// refresher that paints it. It implements Driver.
type Panel struct {
	mu      sync.RWMutex
	frame   Frame
	version uint64
}

// NewPanel creates a dark panel.
func NewPanel() *Panel {
	return &Panel{}
}

// Render implements Driver.
func (p *Panel) Render(buf [4]byte) {
	p.mu.Lock()
	if p.frame.Digits != buf {
		p.frame.Digits = buf
		p.version++
	}
	p.mu.Unlock()
}

// SetLEDs implements Driver.
func (p *Panel) SetLEDs(mask byte) {
	p.mu.Lock()
	if p.frame.LEDs != mask {
		p.frame.LEDs = mask
		p.version++
	}
	p.mu.Unlock()
}

// Snapshot returns the current frame and a version number that changes
// whenever the frame does.
func (p *Panel) Snapshot() (Frame, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.frame, p.version
}
