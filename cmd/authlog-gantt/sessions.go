package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"authlog-gantt/internal/procstate"
	"authlog-gantt/internal/session"
)

func newSessionsCmd(configPath *string) *cobra.Command {
	var (
		checkLive bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Print the reconstructed sessions",
		Long: `Print every reconstructed session sorted by process id: who logged in,
through which daemon, and from when to when. Sessions without a matching
close line are reported as open.`,
		Example: `  authlog-gantt sessions -i /var/log/auth.log
  authlog-gantt sessions --journal --check-live
  authlog-gantt sessions -i auth.log --year 2023 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			res, err := parseSessions(cfg, logger)
			if err != nil {
				return err
			}

			var live map[int]bool
			if checkLive {
				live = procstate.LivePIDs(res.Entries, procstate.NewHostChecker(logger))
			}

			if asJSON {
				return printSessionsJSON(cmd.OutOrStdout(), res.Entries, live)
			}
			printSessions(cmd.OutOrStdout(), res.Entries, live)
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkLive, "check-live", false, "Mark open sessions whose process is still running on this host")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print sessions as JSON")

	return cmd
}

type sessionView struct {
	session.Entry
	Live bool `json:"live,omitempty"`
}

func printSessionsJSON(w io.Writer, entries []session.Entry, live map[int]bool) error {
	views := make([]sessionView, 0, len(entries))
	for _, e := range entries {
		views = append(views, sessionView{Entry: e, Live: live[e.PID]})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}

// printSessions prints the sessions table with colored states
func printSessions(w io.Writer, entries []session.Entry, live map[int]bool) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	if len(entries) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tUSER\tDAEMON\tLOGIN\tLOGOFF\tDURATION\tSTATE")

	for _, e := range entries {
		logoff := e.Logoff.Format(time.DateTime)
		state := green.Sprint("closed")
		if !e.Closed {
			logoff = "-"
			state = yellow.Sprint("open")
			if live[e.PID] {
				state = cyan.Sprint("open (running)")
			}
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.PID,
			e.Username,
			e.Daemon,
			e.Login.Format(time.DateTime),
			logoff,
			e.Duration(),
			state,
		)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d sessions\n", len(entries))
}
