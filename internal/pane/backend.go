package pane

// Backend identifies which agent CLI a pane runs, dispatching spawn
// behavior through a small capability set rather than runtime
// polymorphism — the set of backends is closed (§9 "Dynamic-to-static").
type Backend int

const (
	BackendClaude Backend = iota
	BackendCodex
)

func (b Backend) String() string {
	switch b {
	case BackendClaude:
		return "claude"
	case BackendCodex:
		return "codex"
	default:
		return "unknown"
	}
}

// Capability is the per-backend spawn behavior: how to build the command
// line, and the initial/minimum PTY size.
type Capability struct {
	BuildCommand func(startupMessage string) (cmd string, args []string, env []string)
	InitialSize  func() (rows, cols int)
	MinSize      func() (rows, cols int)
}

var capabilities = map[Backend]Capability{
	BackendClaude: {
		BuildCommand: func(startup string) (string, []string, []string) {
			return "claude", []string{startup}, nil
		},
		InitialSize: func() (int, int) { return 24, 80 },
		MinSize:     func() (int, int) { return 1, 1 },
	},
	BackendCodex: {
		BuildCommand: func(startup string) (string, []string, []string) {
			return "env", []string{
				"-u", "CODEX_SANDBOX",
				"-u", "CODEX_SANDBOX_NETWORK_DISABLED",
				"codex",
				"--sandbox", "danger-full-access",
				"--ask-for-approval", "never",
				startup,
			}, nil
		},
		// Codex is known to corrupt output at smaller sizes.
		InitialSize: func() (int, int) { return 40, 120 },
		MinSize:     func() (int, int) { return 16, 60 },
	},
}

// CapabilityFor returns the capability set for a backend, falling back to
// the Claude capability for an unrecognized value rather than panicking.
func CapabilityFor(b Backend) Capability {
	if cap, ok := capabilities[b]; ok {
		return cap
	}
	return capabilities[BackendClaude]
}

// ClampSize enforces a backend's minimum PTY size.
func ClampSize(b Backend, rows, cols int) (int, int) {
	minRows, minCols := CapabilityFor(b).MinSize()
	if rows < minRows {
		rows = minRows
	}
	if cols < minCols {
		cols = minCols
	}
	return rows, cols
}
