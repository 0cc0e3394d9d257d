// Package layout implements the deterministic grid layout engine (C8):
// mapping a count of visible panes and a main area to per-pane rectangles,
// per §4.6.
package layout

import "github.com/hive-org/hive/internal/termwidget"

// Cell is a pane's assigned rectangle plus its grid coordinates, used by
// the reactor's focus-direction navigation (§4.8).
type Cell struct {
	Rect termwidget.Rect
	Row  int
	Col  int
}

// Compute returns one Cell per visible pane, in insertion order, per the
// §4.6 table. n must equal len of the visible-pane slice the caller is
// laying out; Compute itself is pane-agnostic.
func Compute(n int, area termwidget.Rect) []Cell {
	switch {
	case n == 0:
		return nil
	case n == 1:
		return []Cell{{Rect: area, Row: 0, Col: 0}}
	case n == 2:
		return splitHorizontal(area)
	case n == 3:
		return threePane(area)
	case n == 4:
		return grid(area, 2, 2)
	default:
		rows := (n + 1) / 2
		return wideGrid(area, n, rows, 2)
	}
}

// splitHorizontal divides area into left/right halves of equal width (the
// "50/50 horizontal" case for N=2).
func splitHorizontal(area termwidget.Rect) []Cell {
	mid := area.Left + area.Width()/2
	return []Cell{
		{Rect: termwidget.Rect{Left: area.Left, Top: area.Top, Right: mid, Bottom: area.Bottom}, Row: 0, Col: 0},
		{Rect: termwidget.Rect{Left: mid, Top: area.Top, Right: area.Right, Bottom: area.Bottom}, Row: 0, Col: 1},
	}
}

// threePane gives the first pane the left half and splits the right half
// 50/50 vertically between the other two, per the §4.6 table's N=3 row.
func threePane(area termwidget.Rect) []Cell {
	mid := area.Left + area.Width()/2
	left := termwidget.Rect{Left: area.Left, Top: area.Top, Right: mid, Bottom: area.Bottom}

	rightTop, rightBottom := splitVertical(termwidget.Rect{Left: mid, Top: area.Top, Right: area.Right, Bottom: area.Bottom})
	return []Cell{
		{Rect: left, Row: 0, Col: 0},
		{Rect: rightTop, Row: 0, Col: 1},
		{Rect: rightBottom, Row: 1, Col: 1},
	}
}

func splitVertical(area termwidget.Rect) (top, bottom termwidget.Rect) {
	midY := area.Top + area.Height()/2
	top = termwidget.Rect{Left: area.Left, Top: area.Top, Right: area.Right, Bottom: midY}
	bottom = termwidget.Rect{Left: area.Left, Top: midY, Right: area.Right, Bottom: area.Bottom}
	return
}

// grid divides area into a fixed rows x cols grid, filled row-major in
// insertion order — used for the exact N=4 case.
func grid(area termwidget.Rect, rows, cols int) []Cell {
	cellW := area.Width() / cols
	cellH := area.Height() / rows

	out := make([]Cell, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			left := area.Left + c*cellW
			top := area.Top + r*cellH
			right := left + cellW
			bottom := top + cellH
			if c == cols-1 {
				right = area.Right
			}
			if r == rows-1 {
				bottom = area.Bottom
			}
			out = append(out, Cell{
				Rect: termwidget.Rect{Left: left, Top: top, Right: right, Bottom: bottom},
				Row:  r, Col: c,
			})
		}
	}
	return out
}

// wideGrid handles N≥5: ⌈N/2⌉ rows of 2 columns, with the last row getting
// only its first column when N is odd.
func wideGrid(area termwidget.Rect, n, rows, cols int) []Cell {
	cellW := area.Width() / cols
	cellH := area.Height() / rows

	out := make([]Cell, 0, n)
	placed := 0
	for r := 0; r < rows && placed < n; r++ {
		colsThisRow := cols
		if n%2 == 1 && r == rows-1 {
			colsThisRow = 1
		}
		for c := 0; c < colsThisRow && placed < n; c++ {
			left := area.Left + c*cellW
			top := area.Top + r*cellH
			right := left + cellW
			bottom := top + cellH
			if c == cols-1 || colsThisRow == 1 {
				right = area.Right
			}
			if r == rows-1 {
				bottom = area.Bottom
			}
			out = append(out, Cell{
				Rect: termwidget.Rect{Left: left, Top: top, Right: right, Bottom: bottom},
				Row:  r, Col: c,
			})
			placed++
		}
	}
	return out
}

// Adjacent returns the index into cells whose (Row, Col) is the nearest
// neighbor of cells[from] in the given direction, or -1 if there is none —
// the basis for §4.8 "Focus direction navigation".
func Adjacent(cells []Cell, from int, dRow, dCol int) int {
	if from < 0 || from >= len(cells) {
		return -1
	}
	origin := cells[from]
	best := -1
	bestDist := -1
	for i, c := range cells {
		if i == from {
			continue
		}
		rowDelta := c.Row - origin.Row
		colDelta := c.Col - origin.Col
		if dRow != 0 && (rowDelta == 0 || sign(rowDelta) != sign(dRow)) {
			continue
		}
		if dCol != 0 && (colDelta == 0 || sign(colDelta) != sign(dCol)) {
			continue
		}
		if dRow == 0 && rowDelta != 0 {
			continue
		}
		if dCol == 0 && colDelta != 0 {
			continue
		}
		dist := abs(rowDelta) + abs(colDelta)
		if best == -1 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
