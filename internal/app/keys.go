package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hive-org/hive/internal/layout"
	"github.com/hive-org/hive/internal/pane"
)

// handleKey routes a key event by the §4.8 precedence: help dismissal first,
// then mode-entry keys, then the active mode's own handler, then (Input
// mode only) passthrough to the focused pane.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.mode == ModeHelp {
		switch key {
		case "?", "esc", "q":
			m.mode = m.prevMode
			m.paletteOpen = false
		}
		return m, nil
	}

	if key == "?" {
		m.prevMode = m.mode
		m.mode = ModeHelp
		return m, nil
	}

	switch m.mode {
	case ModeInput:
		return m.handleInputKey(msg, key)
	case ModeNav:
		return m.handleNavKey(key)
	case ModeSidebarFocus:
		return m.handleSidebarKey(key)
	case ModeScrollback:
		return m.handleScrollbackKey(key)
	case ModeZoom:
		return m.handleZoomKey(key)
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg, key string) (tea.Model, tea.Cmd) {
	if key == "esc" {
		m.mode = ModeNav
		return m, nil
	}
	if p := m.paneByID(m.focused); p != nil {
		if err := p.WriteInput([]byte(translateKey(msg))); err != nil {
			m.statusWarning = "dropped keystroke: " + err.Error()
		}
	}
	return m, nil
}

func (m *Model) handleNavKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		m.mode = ModeInput
		return m, nil

	case "tab":
		m.mode = ModeSidebarFocus
		return m, nil

	case "h", "left":
		m.moveFocus(0, -1)
	case "l", "right":
		m.moveFocus(0, 1)
	case "k", "up":
		m.moveFocus(-1, 0)
	case "j", "down":
		m.moveFocus(1, 0)

	case "[":
		m.pageBy(-1)
	case "]":
		m.pageBy(1)

	case "p":
		m.prevMode = m.mode
		m.paletteOpen = true
		m.mode = ModeHelp

	case "ctrl+u":
		if ob := m.focusedOutputBuffer(); ob != nil {
			ob.EnterScrollMode()
			_, rows := 0, 0
			_, rows = m.focusedDims()
			ob.ScrollUp(rows / 2)
			m.mode = ModeScrollback
		}
	case "ctrl+d":
		if ob := m.focusedOutputBuffer(); ob != nil {
			ob.EnterScrollMode()
			_, rows := 0, 0
			_, rows = m.focusedDims()
			ob.ScrollDown(rows / 2)
			m.mode = ModeScrollback
		}
	case "home":
		if ob := m.focusedOutputBuffer(); ob != nil {
			ob.EnterScrollMode()
			ob.ScrollToTop()
			m.mode = ModeScrollback
		}
	case "end":
		if ob := m.focusedOutputBuffer(); ob != nil {
			ob.EnterScrollMode()
			ob.ScrollToBottom()
			m.mode = ModeScrollback
		}
	case "esc":
		if ob := m.focusedOutputBuffer(); ob != nil {
			ob.EnterScrollMode()
			m.mode = ModeScrollback
		}

	case "z":
		m.toggleZoom()

	case "n":
		m.nudgeAll()
	case "N":
		m.nudgeFocused()

	case "d":
		m.quitting = true
		return m, m.quitCmd()
	}
	return m, nil
}

func (m *Model) handleSidebarKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "tab", "esc":
		m.mode = ModeNav
	case "j", "down":
		m.sidebar.MoveSelection(1)
	case "k", "up":
		m.sidebar.MoveSelection(-1)
	case " ":
		m.sidebar.ToggleSelected()
		m.recomputeLayout(m.mainAreaRect())
		m.resizeVisiblePanes()
	case "a":
		m.sidebar.SelectAll()
		m.recomputeLayout(m.mainAreaRect())
		m.resizeVisiblePanes()
	case "A":
		m.sidebar.SelectNone()
		m.recomputeLayout(m.mainAreaRect())
		m.resizeVisiblePanes()
	case "left", "h":
		m.sidebar.ToggleGroupExpanded()
	case "right", "l":
		m.sidebar.ToggleGroupExpanded()
	case "enter":
		if id, ok := m.sidebar.ActivatePane(); ok {
			m.focused = id
			m.recomputeLayout(m.mainAreaRect())
			m.resizeVisiblePanes()
			m.mode = ModeInput
		}
	}
	return m, nil
}

func (m *Model) handleScrollbackKey(key string) (tea.Model, tea.Cmd) {
	ob := m.focusedOutputBuffer()
	if ob == nil {
		m.mode = ModeNav
		return m, nil
	}
	switch key {
	case "j", "down":
		ob.ScrollDown(1)
	case "k", "up":
		ob.ScrollUp(1)
	case "ctrl+u":
		_, rows := m.focusedDims()
		ob.ScrollUp(rows / 2)
	case "ctrl+d":
		_, rows := m.focusedDims()
		ob.ScrollDown(rows / 2)
	case "home":
		ob.ScrollToTop()
	case "end":
		ob.ScrollToBottom()
	case "q", "esc":
		ob.ExitScrollMode()
		m.mode = ModeNav
	}
	return m, nil
}

func (m *Model) handleZoomKey(key string) (tea.Model, tea.Cmd) {
	if key == "z" || key == "esc" {
		m.toggleZoom()
		return m, nil
	}
	return m.handleNavKey(key)
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	idx := m.indexOf(m.focused)
	if idx < 0 || idx >= len(m.cells) {
		return m, nil
	}
	area := m.cells[idx].Rect
	if msg.X < area.Left || msg.X >= area.Right || msg.Y < area.Top || msg.Y >= area.Bottom {
		return m, nil
	}
	p := m.paneByID(m.focused)
	if p == nil {
		return m, nil
	}
	pos := pane.Position{Row: msg.Y - area.Top, Col: msg.X - area.Left}
	kind, ok := translateMouseEventKind(msg)
	if !ok {
		return m, nil
	}
	p.HandleMouse(kind, pos)
	return m, nil
}

// moveFocus moves keyboard focus to the visible pane in the adjacent grid
// cell, per §4.8 "Focus direction navigation". At edges it pages instead of
// wrapping, matching the "wraps to the previous/next page" rule.
func (m *Model) moveFocus(dRow, dCol int) {
	from := m.indexOf(m.focused)
	if from < 0 {
		return
	}
	next := layout.Adjacent(m.cells, from, dRow, dCol)
	if next < 0 {
		if dCol > 0 || dRow > 0 {
			m.pageBy(1)
		} else {
			m.pageBy(-1)
		}
		return
	}
	m.focused = m.order[next]
}

func (m *Model) pageBy(delta int) {
	m.page += delta
	if m.page < 0 {
		m.page = 0
	}
}

func (m *Model) toggleZoom() {
	if m.mode == ModeZoom {
		m.mode = ModeNav
		m.zoomed = ""
	} else {
		m.zoomed = m.focused
		m.mode = ModeZoom
	}
	m.recomputeLayout(m.mainAreaRect())
	m.resizeVisiblePanes()
}

func (m *Model) quitCmd() tea.Cmd {
	return func() tea.Msg {
		m.fleet.Teardown(teardownTimeout)
		return tea.Quit()
	}
}

// translateKey maps a bubbletea KeyMsg back to the raw bytes a real
// terminal would have sent, the same direction-of-translation the teacher's
// translateKey performed for pane passthrough.
func translateKey(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyEnter:
		return "\r"
	case tea.KeyTab:
		return "\t"
	case tea.KeyBackspace:
		return "\x7f"
	case tea.KeyEsc:
		return "\x1b"
	case tea.KeySpace:
		return " "
	case tea.KeyUp:
		return "\x1b[A"
	case tea.KeyDown:
		return "\x1b[B"
	case tea.KeyRight:
		return "\x1b[C"
	case tea.KeyLeft:
		return "\x1b[D"
	case tea.KeyCtrlC:
		return "\x03"
	case tea.KeyCtrlD:
		return "\x04"
	case tea.KeyCtrlU:
		return "\x15"
	case tea.KeyCtrlA:
		return "\x01"
	case tea.KeyCtrlE:
		return "\x05"
	case tea.KeyRunes:
		return string(msg.Runes)
	default:
		return fmt.Sprintf("%s", msg.String())
	}
}
