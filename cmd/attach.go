package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hive-org/hive/internal/config"
	"github.com/hive-org/hive/internal/daemon"
)

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Attach the terminal to a detached session's daemon-held PTY",
	RunE:  runAttach,
}

func init() {
	rootCmd.AddCommand(attachCmd)
}

// runAttach implements §6 "attach": connect to the daemon, create-or-join
// the session for this project, and copy bytes between the local terminal
// (in raw mode, like the teacher's own terminal handling) and the daemon
// connection until the session exits or the client disconnects.
func runAttach(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := EnsureDaemon(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sockPath := daemon.DefaultSocketPath()
	client := daemon.NewClient(sockPath)
	if err := client.Connect(); err != nil {
		fmt.Fprintln(os.Stderr, "connect to daemon:", err)
		os.Exit(1)
	}
	defer client.Close()

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	if err := client.CreateSession(cfg.Session, wd, self, []string{"up", "--config", configPath}); err != nil {
		fmt.Fprintln(os.Stderr, "attach:", err)
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		prev, err := term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, prev)
		}
	}

	if w, h, err := term.GetSize(fd); err == nil {
		client.Resize(uint16(h), uint16(w))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			typ, data, err := client.ReadMessage()
			if err != nil {
				return
			}
			switch typ {
			case daemon.MsgData:
				os.Stdout.Write(data)
			case daemon.MsgExit:
				return
			}
		}
	}()

	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			client.Write(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintln(os.Stderr, "stdin:", err)
			}
			break
		}
		select {
		case <-done:
			return nil
		default:
		}
	}

	<-done
	return nil
}
