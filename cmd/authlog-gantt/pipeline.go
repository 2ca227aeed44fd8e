package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"authlog-gantt/internal/collector"
	"authlog-gantt/internal/config"
	"authlog-gantt/internal/ingest"
	"authlog-gantt/internal/journald"
	"authlog-gantt/internal/parser"
	"authlog-gantt/internal/tailer"
)

func loadConfig(cmd *cobra.Command, configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger := setupLogger(cfg.Logging, cmd.ErrOrStderr())
	return cfg, logger, nil
}

func source(cfg *config.Config) ingest.Source {
	if cfg.Input.Journal {
		return journald.NewReader(cfg.Input.JournalArgs...)
	}
	return tailer.File{Path: cfg.Input.Path}
}

// parseSessions runs one full pass over the configured input.
func parseSessions(cfg *config.Config, logger zerolog.Logger) (*ingest.Result, error) {
	loc, err := cfg.Parse.Location()
	if err != nil {
		return nil, err
	}
	classifier := parser.NewClassifier(cfg.Parse.Year, loc)

	coll := collector.NewSessionCollector()
	reg := prometheus.NewRegistry()
	coll.Register(reg)

	src := source(cfg)
	logger.Info().
		Str("source", fmt.Sprint(src)).
		Int("year", classifier.Year()).
		Msg("Parsing sessions")

	res, err := ingest.Run(src, classifier, coll, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Metrics.Textfile != "" {
		if err := collector.WriteTextfile(cfg.Metrics.Textfile, reg); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", cfg.Metrics.Textfile).Msg("Metrics written")
	}

	return res, nil
}
