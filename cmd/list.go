package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hive-org/hive/internal/project"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known projects, most recently opened first",
	RunE:  runList,
}

var openCmd = &cobra.Command{
	Use:   "open <project>",
	Short: "cd-equivalent: print a registered project's path",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(openCmd)
}

// runList implements §6 "list": print every project in the registry.
func runList(cmd *cobra.Command, args []string) error {
	reg, err := project.Load()
	if err != nil {
		return fmt.Errorf("load project registry: %w", err)
	}
	for _, e := range reg.Sorted() {
		fmt.Printf("%s\t%s\t%s\n", e.Name, e.Path, e.LastOpenedAt)
	}
	return nil
}

// runOpen implements §6 "open <project>": resolve a registered project by
// name and print its path (a shell alias/function does the actual cd,
// since a child process can't change its parent shell's directory).
func runOpen(cmd *cobra.Command, args []string) error {
	reg, err := project.Load()
	if err != nil {
		return fmt.Errorf("load project registry: %w", err)
	}
	entry, ok := reg.Find(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "no project named %q\n", args[0])
		os.Exit(1)
	}
	fmt.Println(entry.Path)
	return nil
}
