package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hive-org/hive/internal/fleet"
	"github.com/hive-org/hive/internal/tasksource"
	"github.com/hive-org/hive/internal/termwidget"
)

// tasksourceSnapshot is a named conversion so call sites read clearly; the
// underlying type is identical to snapshotMsg's.
func tasksourceSnapshot(s snapshotMsg) tasksource.TaskSnapshot {
	return tasksource.TaskSnapshot(s)
}

// mainAreaRect reserves a fixed-width left column for the sidebar, the
// remainder for the pane grid, and one row at the bottom for the status
// bar.
func (m *Model) mainAreaRect() termwidget.Rect {
	const sidebarWidth = 28
	left := sidebarWidth
	if m.width-left < 20 {
		left = 0
	}
	bottom := m.height - 1
	if bottom < 0 {
		bottom = 0
	}
	return termwidget.Rect{Left: left, Top: 0, Right: m.width, Bottom: bottom}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recomputeLayout(m.mainAreaRect())
		m.resizeVisiblePanes()
		return m, nil

	case paneEventMsg:
		return m.handlePaneEvent(msg)

	case snapshotMsg:
		m.lastSnapshot = tasksourceSnapshot(msg)
		m.sourceStale = false
		m.nudger.ApplySnapshot(m.lastSnapshot)
		return m, listenWatcher(m.watcher)

	case sourceErrMsg:
		m.sourceStale = true
		m.statusWarning = "task source: " + msg.err.Error()
		return m, listenWatcher(m.watcher)

	case renderTickMsg:
		return m, scheduleRenderTick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// handlePaneEvent updates pane bookkeeping for an exit and always re-listens
// for the next fleet event.
func (m *Model) handlePaneEvent(ev paneEventMsg) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case fleet.EventExited:
		if ev.PaneID == m.focused && m.mode == ModeInput {
			m.statusWarning = "pane exited"
		}
	case fleet.EventError:
		m.statusWarning = "pane I/O error"
	}
	return m, listenFleet(m.fleet)
}

// resizeVisiblePanes pushes each visible pane's assigned cell size to the
// fleet so the PTY and emulator stay in sync with the grid.
func (m *Model) resizeVisiblePanes() {
	for i, id := range m.order {
		if i >= len(m.cells) {
			break
		}
		cell := m.cells[i]
		rows, cols := cell.Rect.Height(), cell.Rect.Width()
		if rows <= 2 || cols <= 2 {
			continue
		}
		// Reserve one row/column on each side for the border the view
		// draws, matching termwidget's own clipping contract.
		m.fleet.Resize(id, rows-2, cols-2)
	}
}
