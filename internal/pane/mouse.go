package pane

import (
	"bytes"
	"fmt"
)

// mouseModeSequences are the DEC private mode toggles a program uses to ask
// the terminal to start/stop reporting mouse events, ported from the
// teacher's detectMouseModeChanges byte-scanner.
var mouseModeSequences = []struct {
	seq     []byte
	enabled bool
}{
	{[]byte("\x1b[?1000h"), true}, {[]byte("\x1b[?1000l"), false},
	{[]byte("\x1b[?1002h"), true}, {[]byte("\x1b[?1002l"), false},
	{[]byte("\x1b[?1003h"), true}, {[]byte("\x1b[?1003l"), false},
	{[]byte("\x1b[?1006h"), true}, {[]byte("\x1b[?1006l"), false},
}

// detectMouseModeChanges scans freshly-written child output for mouse mode
// toggles and returns the resulting enabled state, or (false, false) if the
// data contained no toggle.
func detectMouseModeChanges(data []byte) (enabled bool, changed bool) {
	last := -1
	for _, m := range mouseModeSequences {
		if idx := bytes.LastIndex(data, m.seq); idx > last {
			last = idx
			enabled = m.enabled
			changed = true
		}
	}
	return enabled, changed
}

// MouseEventKind mirrors the subset of mouse actions a child program cares
// about once SGR mouse reporting is enabled.
type MouseEventKind int

const (
	MouseDown MouseEventKind = iota
	MouseUp
	MouseDrag
	MouseWheelUp
	MouseWheelDown
)

// HandleMouse consumes a single mouse event. When the child has enabled
// mouse tracking, the event is translated into an SGR mouse report and
// forwarded to the PTY so the child program's own mouse handling works
// (e.g. vim, htop). Otherwise the event drives this pane's local text
// selection.
func (p *Pane) HandleMouse(kind MouseEventKind, pos Position) error {
	if p.mouseTrackingEnabled() {
		seq := translateMouseToSGR(kind, pos)
		return p.WriteInput(seq)
	}

	switch kind {
	case MouseDown:
		p.selection.Start(pos)
	case MouseDrag:
		p.selection.Update(pos)
	case MouseUp:
		p.selection.Finish()
	}
	return nil
}

func (p *Pane) mouseTrackingEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mouseEnabled
}

// noteOutputForMouseMode is called by the fleet reader pump on every chunk
// of child output, before the chunk is handed to the OutputBuffer, so mouse
// mode tracking stays current even while the pane is scrolled back.
func (p *Pane) noteOutputForMouseMode(data []byte) {
	enabled, changed := detectMouseModeChanges(data)
	if !changed {
		return
	}
	p.mu.Lock()
	p.mouseEnabled = enabled
	p.mu.Unlock()
}

// translateMouseToSGR builds an SGR (1006) mouse report, the mode every
// backend here negotiates since it has no 223-column limit.
func translateMouseToSGR(kind MouseEventKind, pos Position) []byte {
	btn := 0
	final := byte('M')
	switch kind {
	case MouseDown:
		btn = 0
	case MouseUp:
		btn = 0
		final = 'm'
	case MouseDrag:
		btn = 32
	case MouseWheelUp:
		btn = 64
	case MouseWheelDown:
		btn = 65
	}
	// SGR reports are 1-indexed.
	return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", btn, pos.Col+1, pos.Row+1, final))
}
