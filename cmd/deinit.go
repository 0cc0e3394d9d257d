package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deinitCmd = &cobra.Command{
	Use:   "deinit",
	Short: "Remove this project's Hive config and generated role files",
	RunE:  runDeinit,
}

func init() {
	rootCmd.AddCommand(deinitCmd)
}

// runDeinit implements §6 "deinit": remove the project config and the
// generated .hive/ directory, leaving worktrees and the cross-project
// registry untouched (removing a registry entry is a `list`/`open`
// bookkeeping concern, not a deinit one).
func runDeinit(cmd *cobra.Command, args []string) error {
	if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", configPath, err)
	}
	if err := os.RemoveAll(".hive"); err != nil {
		return fmt.Errorf("remove .hive: %w", err)
	}
	fmt.Println("removed", configPath, "and .hive/")
	return nil
}
