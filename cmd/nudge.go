package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hive-org/hive/internal/config"
	"github.com/hive-org/hive/internal/daemon"
	"github.com/hive-org/hive/internal/nudge"
	"github.com/hive-org/hive/internal/tasksource"
)

var nudgeCmd = &cobra.Command{
	Use:   "nudge [worker]",
	Short: "Send a one-shot nudge, to one worker's lane or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNudge,
}

func init() {
	rootCmd.AddCommand(nudgeCmd)
}

// runNudge implements §6 "nudge [worker]": bypasses the cooldown and
// in_progress precondition the way app.Model's manual n/N keys do, via
// nudge.Engine.Specific, but talks to a live detached session's panes
// through the daemon rather than an in-process fleet.
func runNudge(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	wd, _ := os.Getwd()
	var snap tasksource.TaskSnapshot
	if cfg.TaskSource.Kind == "yaml" {
		path := cfg.TaskSource.Path
		if !strings.HasPrefix(path, "/") {
			path = wd + "/" + path
		}
		if s, lerr := tasksource.NewYAMLSource(path).Load(); lerr == nil {
			snap = s
		}
	}

	sockPath := daemon.DefaultSocketPath()
	if !daemon.DaemonAvailable(sockPath) {
		fmt.Println("no running session to nudge")
		return nil
	}
	client := daemon.NewClient(sockPath)
	if err := client.Connect(); err != nil {
		fmt.Println("no running session to nudge")
		return nil
	}
	defer client.Close()

	engine := nudge.NewEngine(nudge.Templates{
		Nudge: "Backlog for {lane} has {backlog_count} item(s) waiting — please pick one up.",
	}, daemonSender{client: client, session: cfg.Session})

	var lanes []string
	for _, win := range cfg.Windows {
		for _, w := range win.Workers {
			if len(args) == 1 && w.ID != args[0] {
				continue
			}
			engine.Track(w.ID, w.Lane)
			lanes = append(lanes, w.Lane)
		}
	}
	if len(args) == 1 && len(lanes) == 0 {
		return fmt.Errorf("no worker named %q in %s", args[0], configPath)
	}

	for _, lane := range lanes {
		lt := snap.Lanes[lane]
		backlog, inProgress, _ := lt.Counts()
		sent, err := engine.Specific(lane, backlog, inProgress)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nudge %s: %v\n", lane, err)
			continue
		}
		if sent {
			fmt.Printf("nudged %s\n", lane)
		} else {
			fmt.Printf("nothing to nudge for %s\n", lane)
		}
	}
	return nil
}

// daemonSender adapts the session-scoped daemon wire protocol to
// nudge.Sender. The current protocol addresses data at the connection's
// attached session, not per-pane, so Send attaches first.
type daemonSender struct {
	client  *daemon.Client
	session string
}

func (d daemonSender) Send(paneID, text string) error {
	if err := d.client.AttachSession(d.session); err != nil {
		return err
	}
	_, err := d.client.Write([]byte(text))
	return err
}
