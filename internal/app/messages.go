package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hive-org/hive/internal/fleet"
	"github.com/hive-org/hive/internal/nudge"
	"github.com/hive-org/hive/internal/tasksource"
)

// paneEventMsg wraps one fleet.PaneEvent. The reactor re-issues listenFleet
// after handling each one, mirroring the teacher's OutputMsg/readOutput
// self-repeating Cmd pattern.
type paneEventMsg fleet.PaneEvent

// snapshotMsg wraps a task-source snapshot delivered by the watcher.
type snapshotMsg tasksource.TaskSnapshot

// sourceErrMsg wraps a non-fatal task-source error (§7 "Task-source
// error" — the previous snapshot is kept, only a status-bar hint changes).
type sourceErrMsg struct{ err error }

// renderTickMsg throttles full-frame redraws.
type renderTickMsg struct{}

// listenFleet returns a Cmd that blocks for exactly one fleet event. Update
// re-issues it after each delivery so the reactor never stops listening.
func listenFleet(f *fleet.Fleet) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-f.Events
		if !ok {
			return nil
		}
		return paneEventMsg(ev)
	}
}

// listenWatcher returns a Cmd that blocks for exactly one snapshot or
// error from the watcher's two channels, whichever arrives first.
func listenWatcher(w *nudge.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case snap, ok := <-w.Snapshots:
			if !ok {
				return nil
			}
			return snapshotMsg(snap)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return sourceErrMsg{err: err}
		}
	}
}

// scheduleRenderTick throttles redraws to renderInterval, matching the
// teacher's scheduleRenderTick technique applied to the whole frame instead
// of one pane.
func scheduleRenderTick() tea.Cmd {
	return tea.Tick(renderInterval, func(time.Time) tea.Msg {
		return renderTickMsg{}
	})
}
