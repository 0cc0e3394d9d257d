package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hive-org/hive/internal/pane"
	"github.com/hive-org/hive/internal/vt"
)

func (m *Model) focusedOutputBuffer() *vt.OutputBuffer {
	p := m.paneByID(m.focused)
	if p == nil {
		return nil
	}
	return p.Output
}

func (m *Model) focusedDims() (cols, rows int) {
	if ob := m.focusedOutputBuffer(); ob != nil {
		rows, cols = ob.Size()
		return cols, rows
	}
	return 0, 0
}

// nudgeAll sends a manual nudge to every registered lane, per the `n`
// keybinding (§6).
func (m *Model) nudgeAll() {
	for paneID, lane := range m.laneOf {
		m.nudgeLane(paneID, lane)
	}
}

// nudgeFocused sends a manual nudge to the focused pane's lane only, per
// the `N` keybinding.
func (m *Model) nudgeFocused() {
	lane, ok := m.laneOf[m.focused]
	if !ok {
		return
	}
	m.nudgeLane(m.focused, lane)
}

func (m *Model) nudgeLane(paneID, lane string) {
	lt, ok := m.lastSnapshot.Lanes[lane]
	if !ok {
		return
	}
	backlog, inProgress, _ := lt.Counts()
	sent, err := m.nudger.Specific(lane, backlog, inProgress)
	if err != nil {
		m.statusWarning = "nudge failed: " + err.Error()
		return
	}
	if !sent {
		m.statusWarning = "no backlog to nudge for " + lane
	}
}

// translateMouseEventKind maps a bubbletea mouse event to the pane package's
// own event kind, matching the teacher's HandleMouse dispatch.
func translateMouseEventKind(msg tea.MouseMsg) (pane.MouseEventKind, bool) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonWheelUp {
			return pane.MouseWheelUp, true
		}
		if msg.Button == tea.MouseButtonWheelDown {
			return pane.MouseWheelDown, true
		}
		return pane.MouseDown, true
	case tea.MouseActionRelease:
		return pane.MouseUp, true
	case tea.MouseActionMotion:
		return pane.MouseDrag, true
	}
	return pane.MouseDown, false
}
