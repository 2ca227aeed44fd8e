package ingest

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authlog-gantt/internal/collector"
	"authlog-gantt/internal/parser"
	"authlog-gantt/internal/session"
	"authlog-gantt/internal/tailer"
)

type sliceSource []string

func (s sliceSource) Each(fn func(string)) error {
	for _, line := range s {
		fn(line)
	}
	return nil
}

type failingSource struct{}

func (failingSource) Each(fn func(string)) error {
	fn("Jan 27 21:19:46 localhost sshd[1]: session opened for user max")
	return errors.New("disk on fire")
}

func run(t *testing.T, lines ...string) *Result {
	t.Helper()
	res, err := Run(sliceSource(lines), parser.NewClassifier(2024, time.UTC), nil, zerolog.Nop())
	require.NoError(t, err)
	return res
}

func ts(month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(2024, month, day, hour, min, sec, 0, time.UTC)
}

func TestRunOpenClose(t *testing.T) {
	res := run(t,
		"Jan 27 21:19:46 localhost sshd[25065]: session opened for user max by (uid=0)",
		"Jan 27 21:25:10 localhost sshd[25065]: session closed for user max",
	)

	require.Len(t, res.Entries, 1)
	assert.Equal(t, session.Entry{
		PID:      25065,
		Username: "max",
		Daemon:   "sshd",
		Login:    ts(time.January, 27, 21, 19, 46),
		Logoff:   ts(time.January, 27, 21, 25, 10),
		Closed:   true,
	}, res.Entries[0])
	assert.Equal(t, 2, res.Recognized)
}

func TestRunOrphanClose(t *testing.T) {
	res := run(t, "Jan 27 21:25:10 localhost sshd[99]: session closed for user max")

	assert.Empty(t, res.Entries)
	assert.Equal(t, 1, res.Recognized)
}

func TestRunReopenSamePID(t *testing.T) {
	res := run(t,
		"Jan 27 10:00:00 localhost sshd[5]: session opened for user max by (uid=0)",
		"Jan 27 10:05:00 localhost sshd[5]: session opened for user max by (uid=0)",
	)

	require.Len(t, res.Entries, 1)
	assert.Equal(t, ts(time.January, 27, 10, 5, 0), res.Entries[0].Login)
	assert.Equal(t, ts(time.January, 27, 10, 5, 0), res.Entries[0].Logoff)
}

func TestRunSkipsNoise(t *testing.T) {
	coll := collector.NewSessionCollector()
	coll.Register(prometheus.NewRegistry())

	res, err := Run(sliceSource{
		"",
		"-- Logs begin at Mon 2024-01-01 --",
		"Jan 27 21:19:40 localhost sshd[25065]: Accepted password for max from 10.0.0.1 port 22 ssh2",
		"Jan 27 21:19:46 localhost sshd[25065]: session opened for user max by (uid=0)",
		"Jan 32 21:20:00 localhost sshd[25066]: session opened for user eve by (uid=0)",
		"Jan 27 21:21:00 localhost CRON[301]: (pam_unix) session opened for user root by (uid=0)",
		"Jan 27 21:21:01 localhost CRON[301]: (pam_unix) session closed for user root",
		"Jan 27 21:22:00 localhost sshd[444]: session closed for user bob",
	}, parser.NewClassifier(2024, time.UTC), coll, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 8, res.Lines)
	assert.Equal(t, 5, res.Recognized)
	assert.Equal(t, 2, res.Unrecognized)
	assert.Equal(t, 1, res.BadTimestamp)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, 301, res.Entries[0].PID)
	assert.True(t, res.Entries[0].Closed)
	assert.Equal(t, 25065, res.Entries[1].PID)
	assert.False(t, res.Entries[1].Closed)

	assert.Equal(t, ts(time.January, 27, 21, 19, 40), res.First)
	assert.Equal(t, ts(time.January, 27, 21, 22, 0), res.Last)

	assert.Equal(t, 5.0, testutil.ToFloat64(coll.Lines.WithLabelValues(collector.ResultRecognized)))
	assert.Equal(t, 2.0, testutil.ToFloat64(coll.Lines.WithLabelValues(collector.ResultUnrecognized)))
	assert.Equal(t, 1.0, testutil.ToFloat64(coll.Lines.WithLabelValues(collector.ResultBadTimestamp)))
	assert.Equal(t, 1.0, testutil.ToFloat64(coll.OrphanCloses.WithLabelValues("sshd")))
	assert.Equal(t, 1.0, testutil.ToFloat64(coll.SessionsClosed.WithLabelValues("CRON")))
}

func TestRunSourceError(t *testing.T) {
	res, err := Run(failingSource{}, parser.NewClassifier(2024, time.UTC), nil, zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestRunMissingFileNamesPathOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.log")

	_, err := Run(tailer.File{Path: path}, parser.NewClassifier(2024, time.UTC), nil, zerolog.Nop())

	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), path))
	assert.True(t, strings.HasPrefix(err.Error(), "ingest: "))
}

func TestRunFreshTablePerRun(t *testing.T) {
	lines := sliceSource{"Jan 27 10:00:00 localhost sshd[5]: session opened for user max"}
	c := parser.NewClassifier(2024, time.UTC)

	first, err := Run(lines, c, nil, zerolog.Nop())
	require.NoError(t, err)
	second, err := Run(sliceSource{}, c, nil, zerolog.Nop())
	require.NoError(t, err)

	assert.Len(t, first.Entries, 1)
	assert.Empty(t, second.Entries)
}
