package session

import (
	"time"

	"github.com/rs/zerolog"

	"authlog-gantt/internal/parser"
)

// Observer is notified about every table transition.
type Observer interface {
	SessionOpened(e Entry, replaced bool)
	SessionClosed(e Entry)
	OrphanClose(rec *parser.Record)
}

// Correlator applies classified records, in file order, to a Table it owns.
type Correlator struct {
	table    *Table
	observer Observer
	logger   zerolog.Logger

	first time.Time
	last  time.Time
}

// NewCorrelator returns a correlator over table. A nil table gets a fresh one;
// observer may be nil.
func NewCorrelator(table *Table, observer Observer, logger zerolog.Logger) *Correlator {
	if table == nil {
		table = NewTable()
	}
	return &Correlator{
		table:    table,
		observer: observer,
		logger:   logger,
	}
}

// Apply folds one record into the table.
func (c *Correlator) Apply(rec *parser.Record) {
	c.track(rec.Timestamp)

	switch rec.Action {
	case parser.ActionOpen:
		c.open(rec)
	case parser.ActionClose:
		c.close(rec)
	}
}

func (c *Correlator) open(rec *parser.Record) {
	entry := &Entry{
		PID:      rec.PID,
		Username: rec.Username,
		Daemon:   rec.Daemon,
		Login:    rec.Timestamp,
		Logoff:   rec.Timestamp,
	}

	// Last open wins: pid reuse drops whatever the earlier session had.
	replaced := c.table.Put(entry)
	if replaced {
		c.logger.Debug().
			Int("pid", rec.PID).
			Str("user", rec.Username).
			Msg("Session reopened before close, replacing entry")
	}

	if c.observer != nil {
		c.observer.SessionOpened(*entry, replaced)
	}
}

func (c *Correlator) close(rec *parser.Record) {
	entry := c.table.Get(rec.PID)
	if entry == nil {
		c.logger.Debug().
			Int("pid", rec.PID).
			Str("daemon", rec.Daemon).
			Msg("Close without matching open, discarding")
		if c.observer != nil {
			c.observer.OrphanClose(rec)
		}
		return
	}

	// No monotonicity check: a close stamped before its open still wins.
	entry.Logoff = rec.Timestamp
	entry.Closed = true

	if c.observer != nil {
		c.observer.SessionClosed(*entry)
	}
}

func (c *Correlator) track(ts time.Time) {
	if c.first.IsZero() || ts.Before(c.first) {
		c.first = ts
	}
	if ts.After(c.last) {
		c.last = ts
	}
}

// Entries returns the table contents sorted by ascending pid.
func (c *Correlator) Entries() []Entry {
	return c.table.Sorted()
}

// Table returns the table the correlator writes to.
func (c *Correlator) Table() *Table {
	return c.table
}

// First returns the earliest timestamp of any applied record.
func (c *Correlator) First() time.Time {
	return c.first
}

// Last returns the latest timestamp of any applied record.
func (c *Correlator) Last() time.Time {
	return c.last
}
