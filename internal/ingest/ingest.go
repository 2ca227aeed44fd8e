package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"authlog-gantt/internal/collector"
	"authlog-gantt/internal/parser"
	"authlog-gantt/internal/session"
)

// Source yields raw log lines in file order.
type Source interface {
	Each(fn func(line string)) error
}

// Result is what one parse run produced.
type Result struct {
	Entries      []session.Entry
	Lines        int
	Recognized   int
	Unrecognized int
	BadTimestamp int
	First        time.Time
	Last         time.Time
}

// Run feeds every line of src through the classifier and into a fresh session
// table. Unrecognized lines are skipped; lines with a broken timestamp are
// logged and skipped. Only a failing source aborts the run.
func Run(src Source, classifier *parser.Classifier, coll *collector.SessionCollector, logger zerolog.Logger) (*Result, error) {
	var observer session.Observer
	if coll != nil {
		observer = coll
	}
	corr := session.NewCorrelator(session.NewTable(), observer, logger)

	res := &Result{}
	err := src.Each(func(line string) {
		res.Lines++

		rec, err := classifier.Classify(line)
		switch {
		case err == nil:
			res.Recognized++
			observe(coll, collector.ResultRecognized)
			corr.Apply(rec)
		case errors.Is(err, parser.ErrBadTimestamp):
			res.BadTimestamp++
			observe(coll, collector.ResultBadTimestamp)
			logger.Warn().
				Err(err).
				Int("line", res.Lines).
				Msg("Skipping line with unusable timestamp")
		default:
			res.Unrecognized++
			observe(coll, collector.ResultUnrecognized)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	res.Entries = corr.Entries()
	res.First = corr.First()
	res.Last = corr.Last()

	logger.Info().
		Int("lines", res.Lines).
		Int("recognized", res.Recognized).
		Int("unrecognized", res.Unrecognized).
		Int("bad_timestamp", res.BadTimestamp).
		Int("sessions", len(res.Entries)).
		Msg("Log parsed")

	return res, nil
}

func observe(coll *collector.SessionCollector, result string) {
	if coll != nil {
		coll.ObserveLine(result)
	}
}
