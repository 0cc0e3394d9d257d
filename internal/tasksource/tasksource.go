// Package tasksource implements the task source contract (C5): loading a
// per-lane snapshot of backlog/in_progress/done counts from either a YAML
// file or a GitHub Projects board, without ever turning a source failure
// into a fatal error — the watcher retains the last good snapshot per
// §7 "Task-source error".
package tasksource

import "time"

// TaskEntry is one item in a lane's backlog/in_progress/done list.
type TaskEntry struct {
	ID             string   `yaml:"id" json:"id"`
	Description    string   `yaml:"description" json:"description"`
	Acceptance     []string `yaml:"acceptance,omitempty" json:"acceptance,omitempty"`
	ClaimedBy      string   `yaml:"claimed_by,omitempty" json:"claimed_by,omitempty"`
	ClaimedAt      string   `yaml:"claimed_at,omitempty" json:"claimed_at,omitempty"`
	Summary        string   `yaml:"summary,omitempty" json:"summary,omitempty"`
	FilesChanged   []string `yaml:"files_changed,omitempty" json:"files_changed,omitempty"`
	Question       string   `yaml:"question,omitempty" json:"question,omitempty"`
}

// LaneTasks holds the three lists the spec assigns to each lane.
type LaneTasks struct {
	Backlog    []TaskEntry `yaml:"backlog" json:"backlog"`
	InProgress []TaskEntry `yaml:"in_progress" json:"in_progress"`
	Done       []TaskEntry `yaml:"done" json:"done"`
}

// Counts reduces a LaneTasks to the three numbers the nudge policy needs.
func (l LaneTasks) Counts() (backlog, inProgress, done int) {
	return len(l.Backlog), len(l.InProgress), len(l.Done)
}

// TaskSnapshot is the result of a successful load: one LaneTasks per lane
// plus a last-modified token the watcher uses to detect whether a new read
// actually changed anything.
type TaskSnapshot struct {
	Lanes        map[string]LaneTasks
	ModifiedToken string
	LoadedAt     time.Time
}

// TaskSourceErrorKind distinguishes why a load failed.
type TaskSourceErrorKind int

const (
	ErrorKindParse TaskSourceErrorKind = iota
	ErrorKindNetwork
	ErrorKindNotFound
)

// TaskSourceError is the typed, non-fatal error the contract promises:
// load() failures never crash the app, they leave the previous snapshot in
// place (§4.5 "Contract").
type TaskSourceError struct {
	Kind TaskSourceErrorKind
	Err  error
}

func (e *TaskSourceError) Error() string {
	return e.Err.Error()
}

func (e *TaskSourceError) Unwrap() error {
	return e.Err
}

// Source is the contract every task source implements: YAML file, GitHub
// Projects, or (in tests) a static fixture.
type Source interface {
	Load() (TaskSnapshot, error)
}
