package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hive-org/hive/internal/config"
	"github.com/hive-org/hive/internal/daemon"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop a detached session's daemon-held PTY",
	RunE:  runDown,
}

func init() {
	rootCmd.AddCommand(downCmd)
}

// runDown implements §6 "down": stop the session, SIGTERM its process (then
// SIGKILL after a grace period), then exit. It is a no-op (exit 0) if no
// daemon is running, matching §6 "down: idempotent".
func runDown(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	sockPath := daemon.DefaultSocketPath()
	if !daemon.DaemonAvailable(sockPath) {
		fmt.Println("no daemon running")
		return nil
	}

	client := daemon.NewClient(sockPath)
	if err := client.Connect(); err != nil {
		fmt.Println("no daemon running")
		return nil
	}
	defer client.Close()

	if err := client.KillSession(cfg.Session); err != nil {
		fmt.Println("session not running:", cfg.Session)
		return nil
	}

	fmt.Println("stopped session:", cfg.Session)
	return nil
}
