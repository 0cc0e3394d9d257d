package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hive-org/hive/internal/config"
	"github.com/hive-org/hive/internal/sidebar"
	"github.com/hive-org/hive/internal/termwidget"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "starting hive..."
	}

	sidebarView := m.renderSidebar()
	panesView := m.renderPanes()
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebarView, panesView)

	statusBar := m.renderStatusBar()
	screen := lipgloss.JoinVertical(lipgloss.Left, body, statusBar)

	if m.mode == ModeHelp {
		return m.overlayHelp()
	}
	return screen
}

func (m *Model) renderSidebar() string {
	const width = 28
	if m.width-width < 20 {
		return ""
	}

	var b strings.Builder
	for _, item := range m.sidebar.VisibleItems() {
		selected := m.sidebar.Selected() != nil && sameItem(*m.sidebar.Selected(), item)
		switch item.Kind {
		case sidebar.ItemGroup:
			marker := "v"
			if !item.Group.Expanded {
				marker = ">"
			}
			b.WriteString(cursorPrefix(selected) + marker + " " + item.Group.Name + "\n")
		case sidebar.ItemPane:
			label := item.PaneID
			if item.PaneID == m.architectID {
				label = "architect"
			} else if lane, ok := m.laneOf[item.PaneID]; ok {
				label = lane
			}
			vis := " "
			if m.sidebar.IsVisible(item.PaneID) {
				vis = "*"
			}
			indent := ""
			if m.sidebar.GroupOf(item.PaneID) != "" {
				indent = "  "
			}
			b.WriteString(cursorPrefix(selected) + indent + vis + " " + label + "\n")
		}
	}

	style := lipgloss.NewStyle().Width(width).Height(m.height - 1).
		BorderStyle(lipgloss.NormalBorder()).BorderRight(true)
	if m.mode == ModeSidebarFocus {
		style = style.BorderForeground(lipgloss.Color(m.theme.BorderColor(config.BorderNav)))
	}
	return style.Render(b.String())
}

func sameItem(a, b sidebar.Item) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == sidebar.ItemPane {
		return a.PaneID == b.PaneID
	}
	return a.Group == b.Group
}

func cursorPrefix(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

// renderPanes draws each visible pane's content with termwidget into its
// own small frame (so the width-2/clipping invariants apply per pane, not
// across the whole screen), then wraps it in a lipgloss border whose color
// carries the focus/mode/exited state from §4.8, and assembles the grid by
// joining rows/columns in the layout engine's own Row/Col coordinates.
func (m *Model) renderPanes() string {
	area := m.mainAreaRect()
	if area.Width() <= 0 || area.Height() <= 0 || len(m.cells) == 0 {
		return strings.Repeat("\n", max(area.Height()-1, 0))
	}
	widget := termwidget.TerminalWidget{}

	boxes := make(map[int]map[int]string)
	maxRow, maxCol := 0, 0
	for i, id := range m.order {
		if i >= len(m.cells) {
			break
		}
		cell := m.cells[i]
		p := m.paneByID(id)
		if p == nil {
			continue
		}

		innerW, innerH := cell.Rect.Width()-2, cell.Rect.Height()-2
		if innerW <= 0 || innerH <= 0 {
			continue
		}
		frame := termwidget.NewFrame(innerW, innerH)
		inner := termwidget.Rect{Left: 0, Top: 0, Right: innerW, Bottom: innerH}
		widget.Render(p.Output, inner, frame)
		if id == m.focused && m.mode == ModeInput {
			widget.CursorOverlay(p.Output, inner, frame)
		}
		content := termwidget.RenderToANSI(frame, inner)

		style := lipgloss.NewStyle().
			Width(innerW).Height(innerH).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(m.borderColor(id)))

		if boxes[cell.Row] == nil {
			boxes[cell.Row] = make(map[int]string)
		}
		boxes[cell.Row][cell.Col] = style.Render(content)
		if cell.Row > maxRow {
			maxRow = cell.Row
		}
		if cell.Col > maxCol {
			maxCol = cell.Col
		}
	}

	var rows []string
	for r := 0; r <= maxRow; r++ {
		var cols []string
		for c := 0; c <= maxCol; c++ {
			if box, ok := boxes[r][c]; ok {
				cols = append(cols, box)
			}
		}
		if len(cols) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) borderColor(paneID string) string {
	switch {
	case m.paneByID(paneID) != nil && !m.paneByID(paneID).Running():
		return m.theme.BorderColor(config.BorderExited)
	case paneID != m.focused:
		return m.theme.BorderColor(config.BorderUnfocused)
	case m.mode == ModeInput:
		return m.theme.BorderColor(config.BorderInput)
	default:
		return m.theme.BorderColor(config.BorderNav)
	}
}

func (m *Model) renderStatusBar() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("session:%s", m.cfg.Session))
	parts = append(parts, modeName(m.mode))
	if m.sourceStale {
		parts = append(parts, "STALE")
	}
	if m.statusWarning != "" {
		parts = append(parts, m.statusWarning)
	}
	return lipgloss.NewStyle().Width(m.width).Background(lipgloss.Color(m.theme.Colors.Surface)).
		Render(strings.Join(parts, " | "))
}

func modeName(mode Mode) string {
	switch mode {
	case ModeInput:
		return "INPUT"
	case ModeNav:
		return "NAV"
	case ModeSidebarFocus:
		return "SIDEBAR"
	case ModeScrollback:
		return "SCROLL"
	case ModeZoom:
		return "ZOOM"
	case ModeHelp:
		return "HELP"
	}
	return ""
}

func (m *Model) overlayHelp() string {
	content := helpText
	if m.paletteOpen {
		content = paletteText
	}
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

const helpText = `Nav <-> Input: Escape / Enter
grid move: h/j/k/l or arrows
page: [ / ]
scroll: Ctrl+U / Ctrl+D, Home / End
zoom: z    nudge all/one: n / N
detach: d    sidebar focus: Tab
dismiss: ?`

const paletteText = `p  command palette (stub)
n  nudge all lanes
N  nudge focused lane
z  toggle zoom
d  detach`
