package nudge

import (
	"sync"
	"testing"
	"time"

	"github.com/hive-org/hive/internal/tasksource"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []struct {
		paneID, text string
	}
}

func (f *fakeSender) Send(paneID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, struct{ paneID, text string }{paneID, text})
	return nil
}

func (f *fakeSender) count(paneID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sent {
		if s.paneID == paneID {
			n++
		}
	}
	return n
}

func (f *fakeSender) last(paneID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].paneID == paneID {
			return f.sent[i].text
		}
	}
	return ""
}

func newTestEngine(sender Sender) *Engine {
	return NewEngine(Templates{
		Nudge:     "You have {backlog_count} task(s) for lane '{lane}'.",
		Startup:   "Starting worker for lane '{lane}'.",
		Architect: "Read .hive/ARCHITECT.md and coordinate the workers.",
	}, sender)
}

func snapshot(lane string, backlog, inProgress int) tasksource.TaskSnapshot {
	bl := make([]tasksource.TaskEntry, backlog)
	for i := range bl {
		bl[i] = tasksource.TaskEntry{ID: "t"}
	}
	ip := make([]tasksource.TaskEntry, inProgress)
	return tasksource.TaskSnapshot{Lanes: map[string]tasksource.LaneTasks{
		lane: {Backlog: bl, InProgress: ip},
	}}
}

func TestRegisterWorker_SendsStartupInjection(t *testing.T) {
	sender := &fakeSender{}
	e := newTestEngine(sender)

	if err := e.RegisterWorker("pane-1", "api"); err != nil {
		t.Fatal(err)
	}

	if got := sender.last("pane-1"); got != "Starting worker for lane 'api'.\n" {
		t.Errorf("startup message = %q", got)
	}
}

func TestApplySnapshot_NudgesWhenBacklogAndNoInProgress(t *testing.T) {
	sender := &fakeSender{}
	e := newTestEngine(sender)
	e.RegisterWorker("pane-1", "api")

	e.ApplySnapshot(snapshot("api", 1, 0))

	if sender.count("pane-1") != 2 { // startup + nudge
		t.Fatalf("expected a nudge after startup, got %d sends", sender.count("pane-1"))
	}
	if got := sender.last("pane-1"); got != "You have 1 task(s) for lane 'api'.\n" {
		t.Errorf("nudge message = %q", got)
	}
}

func TestApplySnapshot_NoNudgeWhenInProgress(t *testing.T) {
	sender := &fakeSender{}
	e := newTestEngine(sender)
	e.RegisterWorker("pane-1", "api")

	e.ApplySnapshot(snapshot("api", 3, 1))

	if sender.count("pane-1") != 1 { // only the startup injection
		t.Fatalf("expected no nudge while in_progress > 0, got %d sends", sender.count("pane-1"))
	}
}

func TestApplySnapshot_CooldownSuppressesRepeatNudge(t *testing.T) {
	sender := &fakeSender{}
	e := newTestEngine(sender)
	e.RegisterWorker("pane-1", "api")

	clock := time.Unix(0, 0)
	e.SetClock(func() time.Time { return clock })

	e.ApplySnapshot(snapshot("api", 1, 0))
	first := sender.count("pane-1")

	clock = clock.Add(3 * time.Second)
	e.ApplySnapshot(snapshot("api", 2, 0))
	if sender.count("pane-1") != first {
		t.Fatalf("expected cooldown to suppress a nudge 3s later, sends went from %d to %d", first, sender.count("pane-1"))
	}

	clock = clock.Add(15 * time.Second)
	e.ApplySnapshot(snapshot("api", 2, 0))
	if sender.count("pane-1") != first+1 {
		t.Fatalf("expected a nudge after cooldown elapsed, sends = %d", sender.count("pane-1"))
	}
}

func TestSpecific_BypassesCooldownAndInProgress(t *testing.T) {
	sender := &fakeSender{}
	e := newTestEngine(sender)
	e.RegisterWorker("pane-1", "api")

	sent, err := e.Specific("api", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !sent {
		t.Fatal("expected manual nudge to bypass in_progress precondition")
	}

	sent, err = e.Specific("api", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !sent {
		t.Fatal("expected manual nudge to bypass cooldown")
	}
}

func TestSpecific_StillRequiresBacklog(t *testing.T) {
	sender := &fakeSender{}
	e := newTestEngine(sender)
	e.RegisterWorker("pane-1", "api")
	before := sender.count("pane-1")

	sent, err := e.Specific("api", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sent || sender.count("pane-1") != before {
		t.Error("expected manual nudge with zero backlog to be a no-op")
	}
}

func TestTrack_RegistersLaneWithoutSendingStartup(t *testing.T) {
	sender := &fakeSender{}
	e := newTestEngine(sender)
	e.Track("pane-1", "api")

	if len(sender.sent) != 0 {
		t.Fatalf("expected Track to send nothing, got %v", sender.sent)
	}

	sent, err := e.Specific("api", 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !sent {
		t.Fatal("expected Specific to nudge a tracked lane")
	}
}

func TestRender_CollapsesWhitespaceAndSubstitutes(t *testing.T) {
	got := render("You have  {backlog_count}\ntask(s)   for '{lane}'", "api", 4, "")
	want := "You have 4 task(s) for 'api'"
	if got != want {
		t.Errorf("render() = %q, want %q", got, want)
	}
}

func TestRender_AppendsBranchClauseWhenPresent(t *testing.T) {
	got := render("Claim a task for '{lane}'.", "api", 2, "Use branch worker/api.")
	want := "Claim a task for 'api'. Use branch worker/api."
	if got != want {
		t.Errorf("render() = %q, want %q", got, want)
	}
}
