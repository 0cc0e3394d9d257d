package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hive-org/hive/internal/app"
	"github.com/hive-org/hive/internal/config"
	"github.com/hive-org/hive/internal/fleet"
	"github.com/hive-org/hive/internal/git"
	"github.com/hive-org/hive/internal/nudge"
	"github.com/hive-org/hive/internal/pane"
	"github.com/hive-org/hive/internal/project"
	"github.com/hive-org/hive/internal/roles"
	"github.com/hive-org/hive/internal/sidebar"
	"github.com/hive-org/hive/internal/tasksource"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the fleet and attach the terminal UI",
	RunE:  runUp,
}

func init() {
	rootCmd.AddCommand(upCmd)
}

// runUp is cmd/up.go's entire contract from §6: run setup, spawn the
// architect and every worker, inject startup messages, then hand the
// terminal to the reactor. Exit 2 on a bad config, 1 if setup fails, 0
// otherwise (the reactor's own quit path always returns nil here).
func runUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := runSetup(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "setup failed:", err)
		os.Exit(1)
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	if reg, rerr := project.Load(); rerr == nil {
		reg.Touch(cfg.Session, wd, nowStamp())
		reg.Save()
	}
	if err := git.EnsureHiveExcluded(wd); err != nil {
		fmt.Fprintln(os.Stderr, "warning: git exclude:", err)
	}

	theme := config.GetTheme(cfg.Theme, nil)

	f := fleet.New(64)
	nudger := nudge.NewEngine(nudge.Templates{
		Nudge:     "Backlog for {lane} has {backlog_count} item(s) waiting — please pick one up.",
		Startup:   "You are the worker for lane {lane}. Read WORKER-{lane}.md for your protocol.",
		Architect: "You are the architect. Read ARCHITECT.md for the lanes you coordinate.",
	}, senderFunc(f.Send))

	architectID := "architect"
	archBackend := backendFor(cfg.Architect)
	archPane := pane.New(architectID, pane.Kind{Role: pane.RoleArchitect}, archBackend)
	archPane.Workdir = wd
	archPane.SessionName = cfg.Session

	var lanes []string
	laneOf := make(map[string]string)
	var workerStates []sidebar.PaneState
	var workerPanes []*pane.Pane

	workerBackend := backendFor(cfg.Workers)
	for _, win := range cfg.Windows {
		for _, w := range win.Workers {
			dir := w.Dir
			if dir == "" {
				dir = wd
			}
			p := pane.New(w.ID, pane.Kind{Role: pane.RoleWorker, Lane: w.Lane}, workerBackend)
			p.Workdir = dir
			p.SessionName = cfg.Session
			workerPanes = append(workerPanes, p)
			workerStates = append(workerStates, sidebar.PaneState{ID: w.ID, Dir: dir})
			laneOf[w.ID] = w.Lane
			lanes = append(lanes, w.Lane)

			content := roles.RenderWorker("", roles.WorkerData{Lane: w.Lane})
			if werr := roles.WriteWorker(dir, w.Lane, content); werr != nil {
				fmt.Fprintln(os.Stderr, "warning: write role file:", werr)
			}
		}
	}
	archContent := roles.RenderArchitect("", roles.ArchitectData{Session: cfg.Session, Lanes: lanes})
	if err := roles.WriteArchitect(wd, archContent); err != nil {
		fmt.Fprintln(os.Stderr, "warning: write architect role file:", err)
	}

	if err := f.Spawn(archPane, ""); err != nil {
		return fmt.Errorf("spawn architect: %w", err)
	}
	if err := nudger.SendArchitectStartup(architectID); err != nil {
		fmt.Fprintln(os.Stderr, "warning: architect startup message:", err)
	}

	for _, p := range workerPanes {
		if err := f.Spawn(p, ""); err != nil {
			fmt.Fprintln(os.Stderr, "warning: spawn worker", p.ID, err)
			continue
		}
		lane := laneOf[p.ID]
		if err := nudger.RegisterWorker(p.ID, lane); err != nil {
			fmt.Fprintln(os.Stderr, "warning: worker startup message:", err)
		}
	}

	var watcher *nudge.Watcher
	switch cfg.TaskSource.Kind {
	case "yaml":
		path := cfg.TaskSource.Path
		if !strings.HasPrefix(path, "/") {
			path = wd + "/" + path
		}
		watcher = nudge.NewFileWatcher(tasksource.NewYAMLSource(path), path)
	case "github":
		// No GraphQL client ships in this tree (no GitHub SDK is wired into
		// go.mod): github.GitHubSource needs a GraphQLClient, and without a
		// concrete implementation there is nothing to poll.
		fmt.Fprintln(os.Stderr, "warning: task_source.kind=github has no wired API client, nudge automation is disabled")
	}
	if watcher != nil {
		stop := make(chan struct{})
		go watcher.Run(stop)
		defer close(stop)
	}

	model := app.New(cfg, theme, f, nudger, watcher, architectID, workerStates, laneOf)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, runErr := p.Run()
	return runErr
}

// runSetup runs cfg.Setup's shell commands in order, stopping on the first
// failure, per §6 "Setup commands run once, stop on first failure".
func runSetup(cfg *config.Config) error {
	for _, line := range cfg.Setup {
		c := exec.Command("sh", "-c", line)
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("%s: %w", line, err)
		}
	}
	return nil
}

func backendFor(name string) pane.Backend {
	if name == "codex" {
		return pane.BackendCodex
	}
	return pane.BackendClaude
}

// senderFunc adapts fleet.Send to the nudge.Sender interface.
type senderFunc func(paneID, text string) error

func (f senderFunc) Send(paneID, text string) error { return f(paneID, text) }

func nowStamp() string {
	return time.Now().Format(time.RFC3339)
}
