package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"authlog-gantt/internal/chart"
	"authlog-gantt/internal/config"
)

func runRender(cmd *cobra.Command, configPath string) error {
	cfg, logger, err := loadConfig(cmd, configPath)
	if err != nil {
		return err
	}

	if err := validateRender(cfg); err != nil {
		return err
	}
	// Arguments are fine from here on; later failures are not usage errors.
	cmd.SilenceUsage = true

	res, err := parseSessions(cfg, logger)
	if err != nil {
		return err
	}

	opts := chart.Options{Title: cfg.Output.Title}
	if cfg.Output.ClampOpen {
		opts.ClampOpen = res.Last
	}
	g := chart.Build(res.Entries, opts)

	if err := chart.WriteFile(cfg.Output.Path, g, cfg.Output.Width, cfg.Output.Height); err != nil {
		return fmt.Errorf("error writing output image file %s: %w", cfg.Output.Path, err)
	}

	logger.Info().
		Str("output", cfg.Output.Path).
		Int("users", len(g.Tasks)).
		Int("sessions", len(res.Entries)).
		Str("from", formatBound(g.Start)).
		Str("to", formatBound(g.End)).
		Msg("Gantt chart written")

	return nil
}

// validateRender checks the input and output paths before any work is done.
func validateRender(cfg *config.Config) error {
	if !cfg.Input.Journal {
		info, err := os.Stat(cfg.Input.Path)
		if err != nil || !info.Mode().IsRegular() {
			return fmt.Errorf("the logfile %q does not exist", cfg.Input.Path)
		}
	}

	if _, err := chart.FormatFromPath(cfg.Output.Path); err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Output.Path); err == nil && !cfg.Output.Force {
		return fmt.Errorf("the output image file %q already exists; set --force to overwrite", cfg.Output.Path)
	}

	return nil
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateTime)
}
