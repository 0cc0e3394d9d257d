// Package pane implements Pane (C3): one PTY, its child process, an
// output buffer, and the metadata the reactor and sidebar need (id, kind,
// lane, working directory, visibility/focus flags).
package pane

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/creack/pty"
	"github.com/google/uuid"

	"github.com/hive-org/hive/internal/vt"
)

// Role distinguishes the architect pane from worker panes.
type Role int

const (
	RoleArchitect Role = iota
	RoleWorker
)

// Kind is the closed Architect|Worker{lane} union from §3.
type Kind struct {
	Role Role
	Lane string // only meaningful when Role == RoleWorker
}

func (k Kind) String() string {
	if k.Role == RoleArchitect {
		return "architect"
	}
	return "worker:" + k.Lane
}

// BranchScope is the optional branch naming policy on a Pane.
type BranchScope int

const (
	BranchScopeNone BranchScope = iota
	BranchScopeLocal
	BranchScopeRemote
)

// ErrPaneNotRunning is returned by operations that require a live child
// process.
var ErrPaneNotRunning = fmt.Errorf("pane is not running")

const defaultScrollbackLines = 10000

// Pane owns a PTY pair, its child process, and an OutputBuffer. The fields
// that mutate concurrently with the reactor (running/exitErr, and the
// mouse-mode flag set from the reader goroutine) are guarded by mu.
// Visible/Focused are reactor-owned flags mutated only from the
// reactor's own goroutine (§5 "no cross-thread mutation").
type Pane struct {
	ID   string
	Kind Kind

	Workdir     string
	BranchScope BranchScope
	BranchName  string
	SessionName string

	Backend Backend

	mu           sync.Mutex
	ptmx         *os.File
	cmd          *exec.Cmd
	running      bool
	exitErr      error
	mouseEnabled bool

	writeMu sync.Mutex // serializes writes per pane, independent of mu

	Output *vt.OutputBuffer

	Visible bool
	Focused bool

	selection *SelectionState
}

// New constructs a Pane with a fresh id if one isn't supplied.
func New(id string, kind Kind, backend Backend) *Pane {
	if id == "" {
		id = uuid.NewString()
	}
	rows, cols := CapabilityFor(backend).InitialSize()
	return &Pane{
		ID:        id,
		Kind:      kind,
		Backend:   backend,
		Output:    vt.New(rows, cols, defaultScrollbackLines, 0),
		selection: NewSelectionState(),
	}
}

// Spawn starts the backend's process in a PTY, wiring its master into the
// pane's OutputBuffer so escape-sequence query responses (cursor position
// reports, etc.) are written back to the child, matching the teacher's
// `vt10x.WithWriter(p.pty)` technique.
func (p *Pane) Spawn(startupMessage string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("pane %s already running", p.ID)
	}

	capSet := CapabilityFor(p.Backend)
	rows, cols := capSet.InitialSize()

	cmdName, args, extraEnv := capSet.BuildCommand(startupMessage)
	cmd := exec.Command(cmdName, args...)
	cmd.Env = buildCleanEnv(p.SessionName, extraEnv)
	if p.Workdir != "" {
		cmd.Dir = p.Workdir
	}

	ptmx, err := pty.Start(cmd)
	if err != nil {
		p.exitErr = err
		return fmt.Errorf("spawn %s: %w", p.Backend, err)
	}

	pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})

	p.ptmx = ptmx
	p.cmd = cmd
	p.running = true
	p.exitErr = nil
	p.Output = vt.NewWithWriter(rows, cols, defaultScrollbackLines, 0, ptmx)

	return nil
}

// Running reports whether the child process is alive.
func (p *Pane) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// ExitErr returns the error (if any) observed when the child exited.
func (p *Pane) ExitErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitErr
}

// MarkExited records that the reader observed EOF/error on the master.
// Called by the fleet manager's reader goroutine, not by the reactor.
func (p *Pane) MarkExited(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	p.exitErr = err
	if p.ptmx != nil {
		p.ptmx.Close()
	}
}

// ReadFD exposes the master for the fleet manager's reader pump.
func (p *Pane) ReadFD() *os.File {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ptmx
}

// IngestOutput is the fleet reader pump's single entry point for a chunk of
// freshly-read child output: it updates mouse-mode tracking and feeds the
// bytes to the terminal emulator.
func (p *Pane) IngestOutput(data []byte) {
	p.noteOutputForMouseMode(data)
	p.Output.PushBytes(data)
}

// Resize resizes both the PTY and the OutputBuffer to the backend-clamped
// dimensions.
func (p *Pane) Resize(rows, cols int) {
	rows, cols = ClampSize(p.Backend, rows, cols)

	p.mu.Lock()
	ptmx := p.ptmx
	running := p.running
	p.mu.Unlock()

	if running && ptmx != nil {
		pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	}
	p.Output.Resize(rows, cols)
}

// SendText writes msg to the PTY master as a single write, serialized
// against any concurrent write to the same pane.
func (p *Pane) SendText(msg string) error {
	return p.WriteInput([]byte(msg))
}

// WriteInput writes raw bytes to the PTY master.
func (p *Pane) WriteInput(data []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	ptmx := p.ptmx
	running := p.running
	p.mu.Unlock()

	if !running || ptmx == nil {
		return ErrPaneNotRunning
	}
	_, err := ptmx.Write(data)
	return err
}

// Stop kills the child immediately and closes the PTY.
func (p *Pane) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	if p.ptmx != nil {
		p.ptmx.Close()
	}
	p.running = false
	return nil
}

// StopGraceful sends SIGTERM, waits up to timeout, then SIGKILLs
// stragglers, per §4.3 teardown.
func (p *Pane) StopGraceful(timeout time.Duration) error {
	p.mu.Lock()
	if !p.running || p.cmd == nil || p.cmd.Process == nil {
		p.mu.Unlock()
		return nil
	}
	proc := p.cmd.Process
	p.mu.Unlock()

	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return p.Stop()
	}

	done := make(chan error, 1)
	go func() {
		_, err := proc.Wait()
		done <- err
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		proc.Kill()
	}

	p.mu.Lock()
	if p.ptmx != nil {
		p.ptmx.Close()
	}
	p.running = false
	p.mu.Unlock()

	return nil
}

// Selection exposes the pane's mouse text-selection state.
func (p *Pane) Selection() *SelectionState {
	return p.selection
}

// CopySelection extracts the currently selected text (if any) and writes
// it to the system clipboard.
func (p *Pane) CopySelection() error {
	if !p.selection.IsActive() {
		return nil
	}

	text := p.extractSelectionText()
	if text == "" {
		return nil
	}
	p.selection.Clear()
	return clipboard.WriteAll(text)
}

func (p *Pane) extractSelectionText() string {
	// The OutputBuffer doesn't expose raw vt10x glyphs outside the package,
	// so selection text extraction walks Cells() for the current view —
	// sufficient for copying what's on screen/in the visible scrollback
	// window, matching what the teacher's selection.ExtractText did for
	// the equivalent viewport.
	start, end := p.selection.Bounds()
	cells := p.Output.Cells()

	byRow := map[int][]vt.PositionedCell{}
	for _, c := range cells {
		byRow[c.Row] = append(byRow[c.Row], c)
	}

	var sb strings.Builder
	for row := start.Row; row <= end.Row; row++ {
		line := byRow[row]
		for _, c := range line {
			if row == start.Row && c.Col < start.Col {
				continue
			}
			if row == end.Row && c.Col > end.Col {
				continue
			}
			sb.WriteRune(c.Cell.Ch)
		}
		if row < end.Row {
			sb.WriteRune('\n')
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func buildCleanEnv(sessionName string, extra []string) []string {
	var env []string
	for _, e := range os.Environ() {
		key := strings.SplitN(e, "=", 2)[0]
		switch {
		case key == "CLAUDE" || strings.HasPrefix(key, "CLAUDE_"):
			continue
		case key == "CODEX" || strings.HasPrefix(key, "CODEX_"):
			continue
		}
		env = append(env, e)
	}
	env = append(env, "TERM=xterm-256color")
	if sessionName != "" {
		env = append(env, "HIVE_SESSION="+sessionName)
	}
	env = append(env, extra...)
	return env
}
