package nudge

import (
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/hive-org/hive/internal/tasksource"
)

const cooldown = 10 * time.Second

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	laneRe        = regexp.MustCompile(`\{lane\}`)
	backlogRe     = regexp.MustCompile(`\{backlog_count\}`)
)

// Templates holds the placeholder message templates the spec names (filled
// in by regexp substitution, not text/template): the per-lane
// nudge message, the per-worker startup injection, and the fixed architect
// startup message.
type Templates struct {
	Nudge     string // substitutions {lane}, {backlog_count}
	Startup   string // substitution {lane}
	Architect string // fixed, no substitutions
	// BranchClause, if non-empty, is appended to a nudge message whenever a
	// branch naming policy is in effect (§4.4 "if a branch policy exists").
	BranchClause string
}

// laneState is the per-lane bookkeeping the cooldown policy needs.
type laneState struct {
	lastSentAt time.Time
	inFlight   bool
}

// Engine evaluates the nudge policy against incoming snapshots and writes
// messages through a Sender.
type Engine struct {
	Templates Templates
	Sender    Sender

	mu     sync.Mutex
	lanes  map[string]*laneState
	paneOf map[string]string // lane -> pane id, registered at spawn time
	clock  func() time.Time
}

// Sender is the narrow interface the nudger needs from the fleet: write
// text to a specific pane's input stream.
type Sender interface {
	Send(paneID string, text string) error
}

// NewEngine returns an Engine ready to track lanes as panes register.
func NewEngine(templates Templates, sender Sender) *Engine {
	return &Engine{
		Templates: templates,
		Sender:    sender,
		lanes:     make(map[string]*laneState),
		paneOf:    make(map[string]string),
	}
}

// RegisterWorker associates a lane with the pane id that owns it, and sends
// the startup injection immediately, per §4.4 "Startup injection".
func (e *Engine) RegisterWorker(paneID, lane string) error {
	e.mu.Lock()
	e.paneOf[lane] = paneID
	if _, ok := e.lanes[lane]; !ok {
		e.lanes[lane] = &laneState{}
	}
	e.mu.Unlock()

	msg := render(e.Templates.Startup, lane, 0, "")
	return e.Sender.Send(paneID, msg+"\n")
}

// Track associates a lane with a pane id without sending the startup
// injection, for callers (e.g. a one-shot CLI nudge) that want Specific to
// work against a lane it didn't itself spawn.
func (e *Engine) Track(paneID, lane string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paneOf[lane] = paneID
	if _, ok := e.lanes[lane]; !ok {
		e.lanes[lane] = &laneState{}
	}
}

// SendArchitectStartup sends the fixed architect startup message.
func (e *Engine) SendArchitectStartup(paneID string) error {
	return e.Sender.Send(paneID, e.Templates.Architect+"\n")
}

// ApplySnapshot evaluates the automatic nudge policy for every lane in
// snap, per §4.4 "Nudge policy".
func (e *Engine) ApplySnapshot(snap tasksource.TaskSnapshot) {
	now := e.now()
	for lane, tasks := range snap.Lanes {
		backlog, inProgress, _ := tasks.Counts()
		e.maybeNudge(lane, backlog, inProgress, now, false)
	}
}

func (e *Engine) now() time.Time {
	if e.clock != nil {
		return e.clock()
	}
	return time.Now()
}

// SetClock overrides the clock used for cooldown comparisons (test hook);
// nil restores time.Now.
func (e *Engine) SetClock(now func() time.Time) {
	e.clock = now
}

// Specific issues a manual nudge for one lane/pane bypassing the cooldown
// and in_progress precondition, but still requiring backlog > 0, per §4.4
// "Manual nudge".
func (e *Engine) Specific(lane string, backlog, inProgress int) (bool, error) {
	return e.maybeNudge(lane, backlog, inProgress, e.now(), true)
}

func (e *Engine) maybeNudge(lane string, backlog, inProgress int, now time.Time, bypass bool) (bool, error) {
	e.mu.Lock()
	state, ok := e.lanes[lane]
	if !ok {
		state = &laneState{}
		e.lanes[lane] = state
	}
	paneID := e.paneOf[lane]
	e.mu.Unlock()

	if paneID == "" {
		return false, nil
	}
	if backlog <= 0 {
		return false, nil
	}
	if !bypass {
		if inProgress != 0 {
			return false, nil
		}
		e.mu.Lock()
		eligible := now.Sub(state.lastSentAt) >= cooldown && !state.inFlight
		e.mu.Unlock()
		if !eligible {
			return false, nil
		}
	}

	e.mu.Lock()
	state.inFlight = true
	e.mu.Unlock()

	msg := render(e.Templates.Nudge, lane, backlog, e.Templates.BranchClause)
	err := e.Sender.Send(paneID, msg+"\n")

	e.mu.Lock()
	state.inFlight = false
	state.lastSentAt = now
	e.mu.Unlock()

	return err == nil, err
}

// render applies the two placeholders the spec names — {lane} and
// {backlog_count} — and nothing else (§6 "Message templating": "No other
// substitution is performed").
func render(tmpl, lane string, backlogCount int, branchClause string) string {
	out := laneRe.ReplaceAllString(tmpl, lane)
	out = backlogRe.ReplaceAllString(out, strconv.Itoa(backlogCount))
	if branchClause != "" {
		out = out + " " + branchClause
	}
	return collapseWhitespace(out)
}

func collapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}
