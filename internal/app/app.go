// Package app implements the reactor (C9): the single bubbletea Model that
// owns the terminal, multiplexes keyboard/PTY/watcher events, and draws the
// sidebar + pane grid each frame, per §4.8. It is the one place every other
// package (fleet, pane, sidebar, layout, nudge, tasksource, termwidget,
// config) is wired together.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hive-org/hive/internal/config"
	"github.com/hive-org/hive/internal/fleet"
	"github.com/hive-org/hive/internal/layout"
	"github.com/hive-org/hive/internal/nudge"
	"github.com/hive-org/hive/internal/pane"
	"github.com/hive-org/hive/internal/sidebar"
	"github.com/hive-org/hive/internal/tasksource"
	"github.com/hive-org/hive/internal/termwidget"
)

// Mode is the reactor's current input-routing state, per §4.8 "Modes".
type Mode int

const (
	ModeInput Mode = iota
	ModeNav
	ModeSidebarFocus
	ModeScrollback
	ModeZoom
	ModeHelp
)

// teardownTimeout is the graceful-then-forceful window quit uses for each
// child, per §5 "Cancellation & timeouts".
const teardownTimeout = 2 * time.Second

// renderInterval throttles full-frame redraws the same way the teacher
// throttled per-pane renders, matching §5's "no unbounded queues" via a
// single coalesced tick rather than one redraw per PTY byte.
const renderInterval = 33 * time.Millisecond

// Model is the top-level bubbletea model. Exactly one goroutine (bubbletea's
// own Update loop) mutates it; fleet/nudge/watcher events arrive as Msgs
// rather than through shared mutation, per §5 "Shared resources".
type Model struct {
	cfg   *config.Config
	theme config.Theme

	fleet   *fleet.Fleet
	sidebar *sidebar.Tree
	nudger  *nudge.Engine
	watcher *nudge.Watcher

	architectID string
	laneOf      map[string]string // pane id -> lane, workers only

	mode     Mode
	prevMode Mode // mode Help/Scrollback returns to on dismiss
	focused  string
	zoomed   string

	cells  []layout.Cell
	order  []string // pane ids, insertion order, in sync with cells
	page   int
	width  int
	height int

	paletteOpen   bool
	statusWarning string

	lastSnapshot tasksource.TaskSnapshot
	sourceStale  bool

	quitting bool
}

// New constructs a Model wired to every subsystem. Panes are expected to
// already be spawned onto f (the caller, cmd/up.go, owns config-driven
// spawn ordering and startup-message injection).
func New(cfg *config.Config, theme config.Theme, f *fleet.Fleet, nudger *nudge.Engine, watcher *nudge.Watcher, architectID string, workers []sidebar.PaneState, laneOf map[string]string) *Model {
	archState := sidebar.PaneState{ID: architectID, Visible: true}
	for i := range workers {
		workers[i].Visible = true
	}
	tree := sidebar.Build(archState, workers)

	return &Model{
		cfg:         cfg,
		theme:       theme,
		fleet:       f,
		sidebar:     tree,
		nudger:      nudger,
		watcher:     watcher,
		architectID: architectID,
		laneOf:      laneOf,
		mode:        ModeInput,
		focused:     architectID,
	}
}

// Init starts the three event pumps the reactor listens on for the rest of
// its life: fleet pane events, watcher snapshots/errors, and the render
// throttle tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(listenFleet(m.fleet), listenWatcher(m.watcher), scheduleRenderTick())
}

// visiblePaneIDs returns pane ids currently flagged visible in the sidebar,
// in the Tree's insertion order, restricted to the zoom pane when zoomed.
func (m *Model) visiblePaneIDs() []string {
	if m.mode == ModeZoom && m.zoomed != "" {
		return []string{m.zoomed}
	}

	live := make(map[string]bool)
	for _, p := range m.fleet.Panes() {
		live[p.ID] = true
	}
	var ids []string
	for _, it := range m.sidebar.Items {
		members := []string{it.PaneID}
		if it.Kind == sidebar.ItemGroup {
			members = it.Group.Children
		}
		for _, id := range members {
			if (id == m.architectID || live[id]) && m.sidebar.IsVisible(id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func (m *Model) recomputeLayout(area termwidget.Rect) {
	ids := m.visiblePaneIDs()
	m.order = ids
	m.cells = layout.Compute(len(ids), area)
}

func (m *Model) paneByID(id string) *pane.Pane {
	for _, p := range m.fleet.Panes() {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *Model) indexOf(id string) int {
	for i, pid := range m.order {
		if pid == id {
			return i
		}
	}
	return -1
}
