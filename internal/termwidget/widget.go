// Package termwidget renders an OutputBuffer into a clipped rectangle of a
// frame (C2). It never writes outside the rectangle it was given — the
// bleed of stray glyphs into neighboring widgets was the root cause of a
// border-corruption bug in prior implementations, so every write here is
// bounds-checked against area.
package termwidget

import (
	"fmt"
	"strings"

	"github.com/hinshun/vt10x"

	"github.com/hive-org/hive/internal/vt"
)

// Rect is a target rectangle in frame coordinates: left <= x < right,
// top <= y < bottom.
type Rect struct {
	Left, Top, Right, Bottom int
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

func (r Rect) contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Frame is a full-screen grid of styled runes that TerminalWidget writes
// into. The app reactor owns one Frame per draw and renders it to a string
// for the terminal.
type Frame struct {
	Width, Height int
	cells         [][]vt.Cell
}

// NewFrame allocates a blank frame of the given dimensions.
func NewFrame(width, height int) *Frame {
	f := &Frame{Width: width, Height: height}
	f.cells = make([][]vt.Cell, height)
	for y := range f.cells {
		f.cells[y] = make([]vt.Cell, width)
		for x := range f.cells[y] {
			f.cells[y][x] = vt.Cell{Ch: ' ', Width: 1}
		}
	}
	return f
}

// Set writes a single cell, silently doing nothing if (x, y) is outside
// the frame entirely (callers are still responsible for rectangle clipping
// via Rect; this is only the final backstop).
func (f *Frame) Set(x, y int, c vt.Cell) {
	if x < 0 || y < 0 || y >= f.Height || x >= f.Width {
		return
	}
	f.cells[y][x] = c
}

func (f *Frame) Get(x, y int) vt.Cell {
	if x < 0 || y < 0 || y >= f.Height || x >= f.Width {
		return vt.Cell{Ch: ' ', Width: 1}
	}
	return f.cells[y][x]
}

// TerminalWidget renders an OutputBuffer's current grid into a Frame,
// clipped to area.
type TerminalWidget struct{}

// Render writes buf's visible cells into frame, restricted to area. Any
// write outside area is a bug by construction: every coordinate is
// range-checked before Frame.Set is called.
func (TerminalWidget) Render(buf *vt.OutputBuffer, area Rect, frame *Frame) {
	if area.Width() <= 0 || area.Height() <= 0 {
		return
	}

	for _, pc := range buf.Cells() {
		if pc.Row >= area.Height() || pc.Col >= area.Width() {
			continue
		}
		x := area.Left + pc.Col
		y := area.Top + pc.Row
		if !area.contains(x, y) {
			continue
		}

		c := pc.Cell
		if c.Hidden {
			c = vt.Cell{Ch: ' ', Width: 1, BG: c.BG}
		}

		if c.Width == 2 {
			// A wide glyph occupying col, col+1: if the continuation cell
			// would land on or past the border, render a single space
			// instead of letting the glyph straddle the boundary.
			if x+1 >= area.Right {
				frame.Set(x, y, vt.Cell{Ch: ' ', Width: 1, BG: c.BG})
				continue
			}
			frame.Set(x, y, c)
			// The width-0 continuation cell itself is skipped: vt10x's
			// Cells() doesn't emit a separate continuation entry for the
			// second column of a wide glyph, so nothing to write there
			// beyond leaving whatever was already painted (typically
			// blank) — but guard explicitly in case a future grid does
			// emit one, per the width-0 rule.
			continue
		}
		if c.Width == 0 {
			// Combining mark: this widget's Frame has no grapheme
			// clustering support, so width-0 continuation/combining cells
			// are dropped rather than drawn as a stray glyph.
			continue
		}

		frame.Set(x, y, c)
	}

	renderScrollIndicator(buf, area, frame)
}

// renderScrollIndicator overlays "↑N" at the top-right corner of area when
// the buffer is scrolled back, provided it fits.
func renderScrollIndicator(buf *vt.OutputBuffer, area Rect, frame *Frame) {
	offset := buf.ScrollOffset()
	if offset <= 0 {
		return
	}

	label := fmt.Sprintf("↑%d", offset)
	runes := []rune(label)
	if len(runes) > area.Width() {
		return
	}

	startX := area.Right - len(runes)
	y := area.Top
	if startX < area.Left {
		return
	}

	for i, r := range runes {
		frame.Set(startX+i, y, vt.Cell{Ch: r, Width: 1, Reverse: true})
	}
}

// CursorOverlay marks the emulator's cursor cell, if visible and within
// area, with reverse video. Called separately from Render so the app can
// skip it while a pane isn't focused.
func (TerminalWidget) CursorOverlay(buf *vt.OutputBuffer, area Rect, frame *Frame) {
	if buf.ScrollOffset() > 0 {
		return
	}
	x, y, visible := buf.Cursor()
	if !visible {
		return
	}
	fx, fy := area.Left+x, area.Top+y
	if !area.contains(fx, fy) {
		return
	}
	c := frame.Get(fx, fy)
	c.Reverse = !c.Reverse
	frame.Set(fx, fy, c)
}

// RenderToANSI renders every cell of area for rows [top, bottom) as an
// ANSI string, batching runs of identical style the same way the teacher's
// pane.go batches glyphs before flushing an SGR sequence.
func RenderToANSI(frame *Frame, area Rect) string {
	var out strings.Builder
	for y := area.Top; y < area.Bottom && y < frame.Height; y++ {
		if y > area.Top {
			out.WriteByte('\n')
		}
		var batch strings.Builder
		var cur vt.Cell
		first := true
		flush := func() {
			if batch.Len() == 0 {
				return
			}
			out.WriteString(buildANSI(cur))
			out.WriteString(batch.String())
			out.WriteString("\x1b[0m")
			batch.Reset()
		}
		for x := area.Left; x < area.Right && x < frame.Width; x++ {
			c := frame.Get(x, y)
			if !first && styleDiffers(c, cur) {
				flush()
			}
			cur = c
			first = false
			batch.WriteRune(c.Ch)
		}
		flush()
	}
	return out.String()
}

func styleDiffers(a, b vt.Cell) bool {
	return a.FG != b.FG || a.BG != b.BG || a.Bold != b.Bold || a.Dim != b.Dim ||
		a.Italic != b.Italic || a.Underline != b.Underline || a.Reverse != b.Reverse
}

func buildANSI(c vt.Cell) string {
	var parts []string
	if fg := colorANSI(c.FG, true); fg != "" {
		parts = append(parts, fg)
	}
	if bg := colorANSI(c.BG, false); bg != "" {
		parts = append(parts, bg)
	}
	if c.Bold {
		parts = append(parts, "1")
	}
	if c.Italic {
		parts = append(parts, "3")
	}
	if c.Underline {
		parts = append(parts, "4")
	}
	if c.Reverse {
		parts = append(parts, "7")
	}
	if len(parts) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(parts, ";") + "m"
}

func colorANSI(c vt10x.Color, isFG bool) string {
	if c >= 0x01000000 {
		return ""
	}
	base := 38
	if !isFG {
		base = 48
	}
	if c < 256 {
		return fmt.Sprintf("%d;5;%d", base, c)
	}
	r := (c >> 16) & 0xFF
	g := (c >> 8) & 0xFF
	b := c & 0xFF
	return fmt.Sprintf("%d;2;%d;%d;%d", base, r, g, b)
}
