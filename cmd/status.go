package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hive-org/hive/internal/config"
	"github.com/hive-org/hive/internal/daemon"
	"github.com/hive-org/hive/internal/tasksource"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a non-interactive summary of the session",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// runStatus implements §6 "status": session name, backends, task source,
// running/stopped, and per-worker lane/backlog/in_progress — without
// attaching the TUI.
func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("session:    %s\n", cfg.Session)
	fmt.Printf("architect:  %s\n", cfg.Architect)
	fmt.Printf("workers:    %s\n", cfg.Workers)
	if cfg.TaskSource.Kind != "" {
		fmt.Printf("task source: %s (%s)\n", cfg.TaskSource.Kind, cfg.TaskSource.Path)
	} else {
		fmt.Println("task source: none")
	}

	sockPath := daemon.DefaultSocketPath()
	running := false
	if daemon.DaemonAvailable(sockPath) {
		client := daemon.NewClient(sockPath)
		if err := client.Connect(); err == nil {
			defer client.Close()
			ids, err := client.ListSessions()
			if err == nil {
				for _, id := range ids {
					if id == cfg.Session {
						running = true
						break
					}
				}
			}
		}
	}
	if running {
		fmt.Println("status:     RUNNING (detached)")
	} else {
		fmt.Println("status:     STOPPED")
	}

	var snap tasksource.TaskSnapshot
	if cfg.TaskSource.Kind == "yaml" {
		wd, _ := os.Getwd()
		path := cfg.TaskSource.Path
		if !strings.HasPrefix(path, "/") {
			path = wd + "/" + path
		}
		if s, err := tasksource.NewYAMLSource(path).Load(); err == nil {
			snap = s
		}
	}

	fmt.Println("workers:")
	for _, win := range cfg.Windows {
		for _, w := range win.Workers {
			line := fmt.Sprintf("  - %s  lane=%s dir=%s", w.ID, w.Lane, w.Dir)
			if lt, ok := snap.Lanes[w.Lane]; ok {
				backlog, inProgress, done := lt.Counts()
				line += fmt.Sprintf("  backlog=%d in_progress=%d done=%d", backlog, inProgress, done)
			}
			fmt.Println(line)
		}
	}

	return nil
}
