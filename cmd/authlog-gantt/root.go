package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// newRootCmd builds the command tree. The root command renders the chart;
// subcommands reuse the same input and parse flags.
func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "authlog-gantt",
		Short: "Reconstruct login sessions from an auth.log and draw them as a Gantt chart",
		Long: `authlog-gantt reads an authentication log (auth.log / secure) line by line,
pairs every "session opened for user" line with the "session closed" line of
the same process id and draws one bar per session, grouped by user.

Syslog timestamps carry no year; every timestamp gets the reference year
(--year, default: the current year).`,
		Example: `  authlog-gantt -i /var/log/auth.log -o sessions.png
  authlog-gantt -i logdaten.txt -o chart.jpg --width 1200 --height 600 -f
  authlog-gantt sessions -i /var/log/auth.log --check-live`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, configPath)
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	pf.StringP("input", "i", "/var/log/auth.log", "The input logfile to parse")
	pf.Bool("journal", false, "Read journalctl output instead of a logfile")
	pf.Int("year", 0, "Reference year for timestamps (0 = current year)")
	pf.String("timezone", "Local", "Timezone of the log timestamps")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.String("metrics-file", "", "Write parse counters in Prometheus text format to this file")

	// Render flags
	f := rootCmd.Flags()
	f.StringP("output", "o", "gantt_chart.png", "The output image file to write (.png, .jpg, .jpeg)")
	f.Int("width", 500, "The width of the output image [pixels]")
	f.Int("height", 270, "The height of the output image [pixels]")
	f.BoolP("force", "f", false, "Force overwriting an existing output file")
	f.String("title", "Sessions", "Chart title")
	f.Bool("clamp-open", false, "Extend sessions still open at end of log to the last log timestamp")

	rootCmd.AddCommand(newSessionsCmd(&configPath))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
