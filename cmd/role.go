package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hive-org/hive/internal/config"
	"github.com/hive-org/hive/internal/roles"
)

var roleCmd = &cobra.Command{
	Use:   "role [worker]",
	Short: "Regenerate role markdown, for one worker or the architect and all workers",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRole,
}

func init() {
	rootCmd.AddCommand(roleCmd)
}

// runRole implements §6 "role [worker]": rewrite WORKER-<lane>.md for one
// lane, or every worker plus ARCHITECT.md with no argument.
func runRole(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	var lanes []string
	found := false
	for _, win := range cfg.Windows {
		for _, w := range win.Workers {
			lanes = append(lanes, w.Lane)
			if len(args) == 1 && w.ID != args[0] {
				continue
			}
			found = true
			dir := w.Dir
			if dir == "" {
				dir = wd
			}
			content := roles.RenderWorker("", roles.WorkerData{Lane: w.Lane})
			if err := roles.WriteWorker(dir, w.Lane, content); err != nil {
				return fmt.Errorf("write role for %s: %w", w.ID, err)
			}
			fmt.Printf("wrote WORKER-%s.md\n", w.Lane)
		}
	}
	if len(args) == 1 {
		if !found {
			return fmt.Errorf("no worker named %q in %s", args[0], configPath)
		}
		return nil
	}

	archContent := roles.RenderArchitect("", roles.ArchitectData{Session: cfg.Session, Lanes: lanes})
	if err := roles.WriteArchitect(wd, archContent); err != nil {
		return fmt.Errorf("write architect role: %w", err)
	}
	fmt.Println("wrote ARCHITECT.md")
	return nil
}
