// Package cmd implements the CLI surface (§6): up, attach, down, status,
// nudge, role, list, open, doctor, deinit, plus the daemon management
// subcommands, all as cobra commands the way the teacher structured its
// own daemon subcommand tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hive",
	Short: "Orchestrate a fleet of AI agent panes in one terminal",
	Long: `Hive runs an architect and a set of worker agents (claude or codex),
each in its own PTY, behind a single terminal UI with a sidebar, a
deterministic pane grid, and a task-aware nudge engine.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".hive.yaml", "path to the project config file")
}

// Execute runs the root command, matching the convention main.go uses for
// every cobra-based CLI in this codebase.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
