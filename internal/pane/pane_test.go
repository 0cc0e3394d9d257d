package pane

import "testing"

func TestKindString(t *testing.T) {
	arch := Kind{Role: RoleArchitect}
	if arch.String() != "architect" {
		t.Errorf("architect.String() = %q", arch.String())
	}
	worker := Kind{Role: RoleWorker, Lane: "api"}
	if worker.String() != "worker:api" {
		t.Errorf("worker.String() = %q", worker.String())
	}
}

func TestCapabilityFor_Codex(t *testing.T) {
	capSet := CapabilityFor(BackendCodex)

	rows, cols := capSet.InitialSize()
	if rows != 40 || cols != 120 {
		t.Errorf("codex initial size = %dx%d, want 40x120", rows, cols)
	}

	minRows, minCols := capSet.MinSize()
	if minRows != 16 || minCols != 60 {
		t.Errorf("codex min size = %dx%d, want 16x60", minRows, minCols)
	}

	cmd, args, _ := capSet.BuildCommand("hello")
	if cmd != "env" {
		t.Errorf("codex command = %q, want env", cmd)
	}
	wantArgs := []string{
		"-u", "CODEX_SANDBOX",
		"-u", "CODEX_SANDBOX_NETWORK_DISABLED",
		"codex",
		"--sandbox", "danger-full-access",
		"--ask-for-approval", "never",
		"hello",
	}
	if len(args) != len(wantArgs) {
		t.Fatalf("codex args = %v, want %v", args, wantArgs)
	}
	for i := range wantArgs {
		if args[i] != wantArgs[i] {
			t.Errorf("codex args[%d] = %q, want %q", i, args[i], wantArgs[i])
		}
	}
}

func TestCapabilityFor_Claude(t *testing.T) {
	capSet := CapabilityFor(BackendClaude)
	rows, cols := capSet.InitialSize()
	if rows != 24 || cols != 80 {
		t.Errorf("claude initial size = %dx%d, want 24x80", rows, cols)
	}

	cmd, args, _ := capSet.BuildCommand("do the thing")
	if cmd != "claude" || len(args) != 1 || args[0] != "do the thing" {
		t.Errorf("claude command = %q %v", cmd, args)
	}
}

func TestClampSize_EnforcesCodexFloor(t *testing.T) {
	rows, cols := ClampSize(BackendCodex, 10, 40)
	if rows != 16 || cols != 60 {
		t.Errorf("ClampSize = %dx%d, want 16x60", rows, cols)
	}

	rows, cols = ClampSize(BackendCodex, 50, 100)
	if rows != 50 || cols != 100 {
		t.Errorf("ClampSize should not raise already-sufficient size, got %dx%d", rows, cols)
	}
}

func TestWriteInput_NotRunningReturnsError(t *testing.T) {
	p := New("p1", Kind{Role: RoleWorker, Lane: "api"}, BackendClaude)
	if err := p.WriteInput([]byte("x")); err != ErrPaneNotRunning {
		t.Errorf("WriteInput on unstarted pane = %v, want ErrPaneNotRunning", err)
	}
}

func TestSelectionState_StartUpdateFinish(t *testing.T) {
	s := NewSelectionState()
	if s.IsActive() {
		t.Fatal("new selection should be idle")
	}

	s.Start(Position{Row: 0, Col: 2})
	s.Update(Position{Row: 1, Col: 5})
	s.Finish()

	if !s.IsActive() {
		t.Fatal("selection should be active after a drag")
	}

	start, end := s.Bounds()
	if start != (Position{Row: 0, Col: 2}) || end != (Position{Row: 1, Col: 5}) {
		t.Errorf("Bounds() = %v, %v", start, end)
	}

	if !s.Contains(Position{Row: 0, Col: 3}) {
		t.Error("expected (0,3) to be contained in selection")
	}
	if s.Contains(Position{Row: 2, Col: 0}) {
		t.Error("expected (2,0) to be outside selection")
	}
}

func TestSelectionState_ClickWithoutDragClears(t *testing.T) {
	s := NewSelectionState()
	s.Start(Position{Row: 3, Col: 3})
	s.Finish()

	if s.IsActive() {
		t.Error("a click without drag should leave the selection idle")
	}
}

func TestDetectMouseModeChanges(t *testing.T) {
	enabled, changed := detectMouseModeChanges([]byte("\x1b[?1006h"))
	if !changed || !enabled {
		t.Errorf("enabling sequence: enabled=%v changed=%v, want true true", enabled, changed)
	}

	enabled, changed = detectMouseModeChanges([]byte("\x1b[?1000l"))
	if !changed || enabled {
		t.Errorf("disabling sequence: enabled=%v changed=%v, want false true", enabled, changed)
	}

	_, changed = detectMouseModeChanges([]byte("hello world"))
	if changed {
		t.Error("plain text should not report a mouse mode change")
	}
}

func TestHandleMouse_SelectsWhenTrackingDisabled(t *testing.T) {
	p := New("p1", Kind{Role: RoleWorker, Lane: "api"}, BackendClaude)

	if err := p.HandleMouse(MouseDown, Position{Row: 0, Col: 1}); err != nil {
		t.Fatalf("HandleMouse down: %v", err)
	}
	if err := p.HandleMouse(MouseDrag, Position{Row: 0, Col: 4}); err != nil {
		t.Fatalf("HandleMouse drag: %v", err)
	}
	if err := p.HandleMouse(MouseUp, Position{Row: 0, Col: 4}); err != nil {
		t.Fatalf("HandleMouse up: %v", err)
	}

	if !p.Selection().IsActive() {
		t.Error("expected a local selection to be active after a mouse drag with tracking disabled")
	}
}

func TestBuildCleanEnv_StripsAgentVars(t *testing.T) {
	t.Setenv("CLAUDE_API_KEY", "secret")
	t.Setenv("CODEX_SANDBOX", "1")

	env := buildCleanEnv("mysession", nil)
	for _, e := range env {
		if len(e) >= 7 && e[:7] == "CLAUDE_" {
			t.Errorf("expected CLAUDE_* stripped, found %q", e)
		}
		if len(e) >= 6 && e[:6] == "CODEX_" {
			t.Errorf("expected CODEX_* stripped, found %q", e)
		}
	}

	found := false
	for _, e := range env {
		if e == "HIVE_SESSION=mysession" {
			found = true
		}
	}
	if !found {
		t.Error("expected HIVE_SESSION to be set")
	}
}
