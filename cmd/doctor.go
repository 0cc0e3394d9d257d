package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/hive-org/hive/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment and fix trivial setup issues",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// runDoctor implements §6 "doctor": a sequence of environment checks,
// fixing what's trivially fixable (creating .hive/) and reporting the
// rest. Exit 1 if any unfixable check fails.
func runDoctor(cmd *cobra.Command, args []string) error {
	ok := true

	for _, bin := range []string{"git"} {
		if _, err := exec.LookPath(bin); err != nil {
			fmt.Printf("FAIL  %s not found on PATH\n", bin)
			ok = false
		} else {
			fmt.Printf("OK    %s found\n", bin)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("FAIL  %s: %v\n", configPath, err)
		ok = false
	} else {
		fmt.Printf("OK    %s parses\n", configPath)
		for _, backend := range []string{cfg.Architect, cfg.Workers} {
			if _, err := exec.LookPath(backend); err != nil {
				fmt.Printf("FAIL  backend %q not found on PATH\n", backend)
				ok = false
			} else {
				fmt.Printf("OK    backend %q found\n", backend)
			}
		}

		if err := os.MkdirAll(".hive", 0o755); err != nil {
			fmt.Printf("FAIL  create .hive/: %v\n", err)
			ok = false
		} else {
			fmt.Println("OK    .hive/ directory present")
		}
	}

	if !ok {
		os.Exit(1)
	}
	return nil
}
