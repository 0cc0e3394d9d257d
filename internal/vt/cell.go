package vt

import (
	"unicode/utf8"

	"github.com/hinshun/vt10x"
	"github.com/mattn/go-runewidth"
)

// Cell is a single rendered grapheme plus its style, the unit TerminalWidget
// consumes from Cells().
type Cell struct {
	Ch   rune
	Width int // 0, 1 or 2
	FG   vt10x.Color
	BG   vt10x.Color

	Bold      bool
	Dim       bool
	Italic    bool
	Underline bool
	Reverse   bool
	Hidden    bool
}

// vt10x mode bits, mirrored from the teacher's ANSI-building helpers in
// internal/terminal/pane.go (buildANSI/colorToANSI).
const (
	modeReverse   int16 = 1 << 0
	modeUnderline int16 = 1 << 1
	modeBold      int16 = 1 << 2
	modeHidden    int16 = 1 << 3
	modeItalic    int16 = 1 << 4
)

func cellFromGlyph(g vt10x.Glyph) Cell {
	ch := g.Char
	if ch == 0 {
		ch = ' '
	}
	if !utf8.ValidRune(ch) {
		ch = utf8.RuneError
	}

	w := runewidth.RuneWidth(ch)
	if w < 0 {
		w = 0
	}

	return Cell{
		Ch:        ch,
		Width:     w,
		FG:        g.FG,
		BG:        g.BG,
		Bold:      g.Mode&modeBold != 0,
		Underline: g.Mode&modeUnderline != 0,
		Italic:    g.Mode&modeItalic != 0,
		Reverse:   g.Mode&modeReverse != 0,
		Hidden:    g.Mode&modeHidden != 0,
	}
}

// PositionedCell is one cell at a specific row/column of the visible grid,
// as yielded by OutputBuffer.Cells().
type PositionedCell struct {
	Row, Col int
	Cell     Cell
}
