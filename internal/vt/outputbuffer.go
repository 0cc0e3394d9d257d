// Package vt implements the output buffer (C1): a VT parser plus screen
// grid and scrollback, consuming raw PTY byte streams and exposing a
// stable scrollback-mode view.
package vt

import (
	"sync"

	"github.com/hinshun/vt10x"
)

// OutputBuffer owns a VT emulator of fixed rows x cols, a bounded raw-byte
// history ring used to rebuild scrollback for alternate-screen programs,
// and a scroll_offset tracking how far the viewport has scrolled back from
// the live view.
type OutputBuffer struct {
	mu sync.Mutex

	vt   vt10x.Terminal
	rows int
	cols int

	scrollback     *scrollbackBuffer
	rawHistory     *rawHistoryRing
	scrollbackSize int

	altScreenActive bool
	lastTopRow      []vt10x.Glyph

	scrollOffset int

	// rebuild holds the scratch emulator + scrollback built the first time
	// scroll mode is entered while the alternate screen is active. It is
	// discarded when scroll mode exits.
	rebuild *rebuildState
}

type rebuildState struct {
	vt         vt10x.Terminal
	scrollback *scrollbackBuffer
	rows, cols int
}

// New creates an OutputBuffer of the given size. scrollbackLines <= 0 uses
// a default of 10000 retained rows; rawHistoryBytes <= 0 uses the spec
// default of 512 KiB.
func New(rows, cols, scrollbackLines, rawHistoryBytes int) *OutputBuffer {
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}
	ob := &OutputBuffer{
		rows:           rows,
		cols:           cols,
		scrollback:     newScrollbackBuffer(scrollbackLines),
		rawHistory:     newRawHistoryRing(rawHistoryBytes),
		scrollbackSize: scrollbackLines,
	}
	ob.vt = vt10x.New(vt10x.WithSize(cols, rows))
	return ob
}

// NewWithWriter creates an OutputBuffer whose emulator writes escape-query
// responses (e.g. cursor position reports) back to w — the PTY master.
func NewWithWriter(rows, cols, scrollbackLines, rawHistoryBytes int, w interface {
	Write([]byte) (int, error)
}) *OutputBuffer {
	ob := New(rows, cols, scrollbackLines, rawHistoryBytes)
	ob.vt = vt10x.New(vt10x.WithSize(cols, rows), vt10x.WithWriter(w))
	return ob
}

// PushBytes feeds raw bytes through the VT parser, updates the screen grid,
// captures scrollback for lines that scroll off the primary screen, and
// appends to the raw-byte history ring used for alternate-screen rebuild.
func (ob *OutputBuffer) PushBytes(data []byte) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	ob.rawHistory.append(data)
	ob.detectAltScreenChanges(data)

	ob.captureScrollbackBeforeWriteLocked()
	ob.vt.Write(data)
	ob.captureScrollbackAfterWriteLocked()
}

// Resize reshapes the grid, preserving content where possible (vt10x
// handles the reflow; OutputBuffer just forwards and clamps scroll state).
func (ob *OutputBuffer) Resize(rows, cols int) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if rows <= 0 || cols <= 0 {
		return
	}
	ob.rows, ob.cols = rows, cols
	ob.vt.Resize(cols, rows)
	ob.scrollOffset = 0
}

// Size returns the live grid dimensions.
func (ob *OutputBuffer) Size() (rows, cols int) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.rows, ob.cols
}

// ScrollOffset returns how many lines above the live view the viewport is
// scrolled. 0 means live mode.
func (ob *OutputBuffer) ScrollOffset() int {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.scrollOffset
}

// IsAltScreenActive reports whether the child is currently using the
// alternate screen buffer.
func (ob *OutputBuffer) IsAltScreenActive() bool {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.altScreenActive
}

func (ob *OutputBuffer) detectAltScreenChanges(data []byte) {
	enable := [][]byte{[]byte("\x1b[?1049h"), []byte("\x1b[?47h")}
	disable := [][]byte{[]byte("\x1b[?1049l"), []byte("\x1b[?47l")}

	for _, seq := range enable {
		if containsSeq(data, seq) {
			ob.altScreenActive = true
			ob.scrollOffset = 0
			return
		}
	}
	for _, seq := range disable {
		if containsSeq(data, seq) {
			ob.altScreenActive = false
			return
		}
	}
}

func containsSeq(data, seq []byte) bool {
	if len(seq) == 0 || len(data) < len(seq) {
		return false
	}
	for i := 0; i+len(seq) <= len(data); i++ {
		if hasPrefix(data[i:], seq) {
			return true
		}
	}
	return false
}

// captureScrollbackBeforeWriteLocked snapshots row 0 so a post-write
// comparison can detect a scroll and push the departing line into
// scrollback. Mirrors the teacher's pane.go technique. Called with mu held.
func (ob *OutputBuffer) captureScrollbackBeforeWriteLocked() {
	if ob.altScreenActive {
		ob.lastTopRow = nil
		return
	}

	ob.vt.Lock()
	cols, _ := ob.vt.Size()
	if cols <= 0 {
		ob.vt.Unlock()
		ob.lastTopRow = nil
		return
	}
	row := make([]vt10x.Glyph, cols)
	for c := 0; c < cols; c++ {
		row[c] = ob.vt.Cell(c, 0)
	}
	ob.vt.Unlock()
	ob.lastTopRow = row
}

func (ob *OutputBuffer) captureScrollbackAfterWriteLocked() {
	if ob.altScreenActive || ob.lastTopRow == nil {
		return
	}

	ob.vt.Lock()
	defer ob.vt.Unlock()

	cols, rows := ob.vt.Size()
	if cols <= 0 || cols != len(ob.lastTopRow) {
		return
	}

	changed := false
	for c := 0; c < cols; c++ {
		if ob.vt.Cell(c, 0) != ob.lastTopRow[c] {
			changed = true
			break
		}
	}

	if changed && !ob.lineVisibleLocked(ob.lastTopRow, cols, rows) {
		ob.scrollback.push(ob.lastTopRow)
	}
	ob.lastTopRow = nil
}

// lineVisibleLocked must be called with vt.Lock held.
func (ob *OutputBuffer) lineVisibleLocked(line []vt10x.Glyph, cols, rows int) bool {
	if len(line) != cols {
		return false
	}
	for row := 0; row < rows; row++ {
		match := true
		for col := 0; col < cols; col++ {
			if ob.vt.Cell(col, row) != line[col] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// EnterScrollMode prepares the buffer to navigate scrollback. If the
// alternate screen is active, it builds a fresh emulator from the raw-byte
// history with alt-screen and full-erase sequences filtered out (per
// spec's "Scrollback-mode rebuild"), giving an otherwise-scrollback-less
// alt-screen program real history to scroll through. A concurrent
// PushBytes cannot mutate the snapshot used for the rebuild, since
// rawHistory.snapshot() is a one-shot copy.
func (ob *OutputBuffer) EnterScrollMode() {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if !ob.altScreenActive {
		return
	}
	if ob.rebuild != nil {
		return
	}

	raw := ob.rawHistory.snapshot()
	filtered := filterAltScreen(raw)

	rb := &rebuildState{
		rows:       ob.rows,
		cols:       ob.cols,
		scrollback: newScrollbackBuffer(ob.scrollbackSize),
	}
	rb.vt = vt10x.New(vt10x.WithSize(ob.cols, ob.rows))

	replayIntoRebuild(rb, filtered)
	ob.rebuild = rb
}

// replayIntoRebuild feeds filtered bytes through the rebuild emulator,
// capturing scrollback the same way the live buffer does.
func replayIntoRebuild(rb *rebuildState, data []byte) {
	// Replay in chunks so row-0-before/after comparisons happen at roughly
	// the same granularity a live PTY read would produce, instead of one
	// giant write that could miss multiple scroll events compressed into a
	// single top-row transition.
	const chunk = 4096
	var lastTop []vt10x.Glyph

	snapshotTop := func() []vt10x.Glyph {
		rb.vt.Lock()
		cols, _ := rb.vt.Size()
		row := make([]vt10x.Glyph, cols)
		for c := 0; c < cols; c++ {
			row[c] = rb.vt.Cell(c, 0)
		}
		rb.vt.Unlock()
		return row
	}

	for i := 0; i < len(data); i += chunk {
		end := i + chunk
		if end > len(data) {
			end = len(data)
		}
		lastTop = snapshotTop()
		rb.vt.Write(data[i:end])

		rb.vt.Lock()
		cols, rows := rb.vt.Size()
		if cols == len(lastTop) {
			changed := false
			for c := 0; c < cols; c++ {
				if rb.vt.Cell(c, 0) != lastTop[c] {
					changed = true
					break
				}
			}
			if changed && !lineVisibleIn(rb.vt, lastTop, cols, rows) {
				rb.scrollback.push(lastTop)
			}
		}
		rb.vt.Unlock()
	}
}

func lineVisibleIn(t vt10x.Terminal, line []vt10x.Glyph, cols, rows int) bool {
	if len(line) != cols {
		return false
	}
	for row := 0; row < rows; row++ {
		match := true
		for col := 0; col < cols; col++ {
			if t.Cell(col, row) != line[col] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// ExitScrollMode discards the rebuild buffer (if any) and reverts to the
// live buffer, unaffected by anything that happened during scroll mode.
func (ob *OutputBuffer) ExitScrollMode() {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.rebuild = nil
	ob.scrollOffset = 0
}

func (ob *OutputBuffer) activeScrollback() *scrollbackBuffer {
	if ob.rebuild != nil {
		return ob.rebuild.scrollback
	}
	return ob.scrollback
}

// ScrollUp scrolls the viewport back into scrollback by n lines.
func (ob *OutputBuffer) ScrollUp(n int) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	sb := ob.activeScrollback()
	max := sb.len()
	ob.scrollOffset += n
	if ob.scrollOffset > max {
		ob.scrollOffset = max
	}
}

// ScrollDown scrolls the viewport toward the live view by n lines.
func (ob *OutputBuffer) ScrollDown(n int) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	ob.scrollOffset -= n
	if ob.scrollOffset < 0 {
		ob.scrollOffset = 0
	}
}

// ScrollToBottom returns the viewport to the live view.
func (ob *OutputBuffer) ScrollToBottom() {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.scrollOffset = 0
}

// ScrollToTop jumps to the oldest retained scrollback line.
func (ob *OutputBuffer) ScrollToTop() {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.scrollOffset = ob.activeScrollback().len()
}

// Cells yields the currently visible grid as (row, col, Cell) triples. When
// scroll_offset is non-zero, the result mixes the scrollback view with the
// top part of the live screen (or, if a rebuild is active, the rebuild
// emulator's own live screen).
func (ob *OutputBuffer) Cells() []PositionedCell {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	target := ob.vt
	rows, cols := ob.rows, ob.cols
	if ob.rebuild != nil {
		target = ob.rebuild.vt
		rows, cols = ob.rebuild.rows, ob.rebuild.cols
	}

	if ob.scrollOffset > 0 {
		return ob.renderScrolledLocked(target, ob.activeScrollback(), rows, cols)
	}
	return renderLiveLocked(target, rows, cols)
}

func renderLiveLocked(t vt10x.Terminal, rows, cols int) []PositionedCell {
	t.Lock()
	defer t.Unlock()

	out := make([]PositionedCell, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			out = append(out, PositionedCell{Row: row, Col: col, Cell: cellFromGlyph(t.Cell(col, row))})
		}
	}
	return out
}

func (ob *OutputBuffer) renderScrolledLocked(t vt10x.Terminal, sb *scrollbackBuffer, rows, cols int) []PositionedCell {
	sbLen := sb.len()
	offset := ob.scrollOffset
	if offset > sbLen {
		offset = sbLen
	}

	scrollbackRowsVisible := offset
	if scrollbackRowsVisible > rows {
		scrollbackRowsVisible = rows
	}
	scrollbackStart := sbLen - offset

	out := make([]PositionedCell, 0, rows*cols)

	for viewRow := 0; viewRow < rows; viewRow++ {
		if viewRow < scrollbackRowsVisible {
			line := sb.get(scrollbackStart + viewRow)
			for col := 0; col < cols; col++ {
				var g vt10x.Glyph
				if col < len(line) {
					g = line[col]
				}
				out = append(out, PositionedCell{Row: viewRow, Col: col, Cell: cellFromGlyph(g)})
			}
			continue
		}

		liveRow := viewRow - scrollbackRowsVisible
		t.Lock()
		for col := 0; col < cols; col++ {
			out = append(out, PositionedCell{Row: viewRow, Col: col, Cell: cellFromGlyph(t.Cell(col, liveRow))})
		}
		t.Unlock()
	}

	return out
}

// Cursor returns the current cursor position and visibility in the active
// emulator (live or rebuild).
func (ob *OutputBuffer) Cursor() (x, y int, visible bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	target := ob.vt
	if ob.rebuild != nil {
		target = ob.rebuild.vt
	}
	target.Lock()
	defer target.Unlock()
	c := target.Cursor()
	return c.X, c.Y, target.CursorVisible()
}

// Write implements io.Writer so the emulator can be fed directly (used by
// tests and the fleet reader).
func (ob *OutputBuffer) Write(p []byte) (int, error) {
	ob.PushBytes(p)
	return len(p), nil
}
