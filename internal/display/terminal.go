package display

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/tomz197/reflex/internal/draw"
)

// Terminal layout, in character cells.
const (
	ledWidth    = 3
	boardWidth  = 8 * ledWidth
	boardHeight = 9
)

// StatusFunc returns a one-line status shown under the board.
type StatusFunc func() string

// Terminal paints a Panel onto an ANSI terminal.
type Terminal struct {
	panel    *Panel
	writer   io.Writer
	cw       *draw.ChunkWriter
	sizeFunc draw.TermSizeFunc
	status   StatusFunc
	fps      int
}

// NewTerminal creates a painter for panel writing to w. sizeFunc may be nil
// for the local terminal; status may be nil.
func NewTerminal(panel *Panel, w io.Writer, sizeFunc draw.TermSizeFunc, status StatusFunc, fps int) *Terminal {
	if sizeFunc == nil {
		sizeFunc = draw.DefaultTermSizeFunc
	}
	if fps <= 0 {
		fps = 30
	}
	return &Terminal{
		panel:    panel,
		writer:   w,
		cw:       draw.NewChunkWriter(w, 0, 0),
		sizeFunc: sizeFunc,
		status:   status,
		fps:      fps,
	}
}

// Run repaints the board whenever it changes until ctx is done.
func (t *Terminal) Run(ctx context.Context) error {
	draw.HideCursor(t.writer)
	defer draw.ShowCursor(t.writer)
	draw.ClearScreen(t.writer)

	ticker := time.NewTicker(time.Second / time.Duration(t.fps))
	defer ticker.Stop()

	var (
		lastVersion        uint64
		lastStatus         string
		lastCols, lastRows int
		painted            bool
	)
	for {
		select {
		case <-ctx.Done():
			draw.ClearScreen(t.writer)
			return ctx.Err()
		case <-ticker.C:
		}

		frame, version := t.panel.Snapshot()
		status := ""
		if t.status != nil {
			status = t.status()
		}
		cols, rows, err := t.sizeFunc()
		if err != nil {
			cols, rows = boardWidth, boardHeight
		}

		resized := cols != lastCols || rows != lastRows
		if painted && !resized && version == lastVersion && status == lastStatus {
			continue
		}
		if resized {
			t.cw.WriteString("\033[H\033[2J")
			t.cw.SetOffset(draw.CenterOffset(cols, rows, boardWidth, boardHeight))
		}
		t.paint(frame, status)
		if err := t.cw.Flush(); err != nil {
			return err
		}
		lastVersion, lastStatus, lastCols, lastRows = version, status, cols, rows
		painted = true
	}
}

func (t *Terminal) paint(f Frame, status string) {
	t.cw.WriteAt(1, 1, LEDRow(f.LEDs))
	for row, line := range DigitRows(f.Digits) {
		t.cw.WriteAt(3, 3+row, line)
	}
	t.cw.WriteAt(1, 7, "\033[2K")
	t.cw.WriteAt(1, 7, status)
	t.cw.WriteAt(1, 9, "SPACE hit  P pause  L light  Q quit")
}

// LEDRow draws the LED bar, most significant bit on the left.
func LEDRow(mask byte) string {
	var b strings.Builder
	for bit := 7; bit >= 0; bit-- {
		if mask&(1<<bit) != 0 {
			b.WriteString(" ● ")
		} else {
			b.WriteString(" ○ ")
		}
	}
	return b.String()
}

// DigitRows draws the four digits as three rows of ASCII segments.
func DigitRows(digits [4]byte) [3]string {
	var rows [3]strings.Builder
	for _, d := range digits {
		rows[0].WriteByte(' ')
		rows[0].WriteByte(seg(d, SegA, '_'))
		rows[0].WriteString("   ")

		rows[1].WriteByte(seg(d, SegF, '|'))
		rows[1].WriteByte(seg(d, SegG, '_'))
		rows[1].WriteByte(seg(d, SegB, '|'))
		rows[1].WriteString("  ")

		rows[2].WriteByte(seg(d, SegE, '|'))
		rows[2].WriteByte(seg(d, SegD, '_'))
		rows[2].WriteByte(seg(d, SegC, '|'))
		rows[2].WriteByte(seg(d, SegDP, '.'))
		rows[2].WriteByte(' ')
	}
	return [3]string{rows[0].String(), rows[1].String(), rows[2].String()}
}

func seg(d, mask, ch byte) byte {
	if d&mask != 0 {
		return ch
	}
	return ' '
}
