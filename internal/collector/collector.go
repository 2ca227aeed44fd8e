package collector

import (
	"authlog-gantt/internal/parser"
	"authlog-gantt/internal/session"

	"github.com/prometheus/client_golang/prometheus"
)

// Line results used as the "result" label of authlog_lines_total.
const (
	ResultRecognized   = "recognized"
	ResultUnrecognized = "unrecognized"
	ResultBadTimestamp = "bad_timestamp"
)

// SessionCollector counts what a parse run saw. It implements
// session.Observer so the correlator can feed it directly.
type SessionCollector struct {
	// Line Metrics
	Lines *prometheus.CounterVec

	// Session Metrics
	SessionsOpened   *prometheus.CounterVec
	SessionsClosed   *prometheus.CounterVec
	SessionsReplaced prometheus.Counter
	OrphanCloses     *prometheus.CounterVec
	SessionSeconds   *prometheus.HistogramVec
}

func NewSessionCollector() *SessionCollector {
	return &SessionCollector{
		Lines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authlog_lines_total",
				Help: "Total number of log lines read, by classification result.",
			},
			[]string{"result"},
		),
		SessionsOpened: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authlog_sessions_opened_total",
				Help: "Total number of session opened lines applied.",
			},
			[]string{"daemon"},
		),
		SessionsClosed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authlog_sessions_closed_total",
				Help: "Total number of session closed lines matched to an open session.",
			},
			[]string{"daemon"},
		),
		SessionsReplaced: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "authlog_sessions_replaced_total",
				Help: "Total number of open sessions overwritten by a later open for the same pid.",
			},
		),
		OrphanCloses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authlog_orphan_closes_total",
				Help: "Total number of session closed lines without a matching open.",
			},
			[]string{"daemon"},
		),
		SessionSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authlog_session_duration_seconds",
				Help:    "Duration of closed sessions in seconds.",
				Buckets: []float64{1, 10, 60, 300, 900, 3600, 4 * 3600, 12 * 3600, 24 * 3600},
			},
			[]string{"daemon"},
		),
	}
}

func (c *SessionCollector) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		c.Lines,
		c.SessionsOpened,
		c.SessionsClosed,
		c.SessionsReplaced,
		c.OrphanCloses,
		c.SessionSeconds,
	)
}

// ObserveLine counts one line by its classification result.
func (c *SessionCollector) ObserveLine(result string) {
	c.Lines.WithLabelValues(result).Inc()
}

func (c *SessionCollector) SessionOpened(e session.Entry, replaced bool) {
	c.SessionsOpened.WithLabelValues(e.Daemon).Inc()
	if replaced {
		c.SessionsReplaced.Inc()
	}
}

func (c *SessionCollector) SessionClosed(e session.Entry) {
	c.SessionsClosed.WithLabelValues(e.Daemon).Inc()
	if d := e.Duration(); d >= 0 {
		c.SessionSeconds.WithLabelValues(e.Daemon).Observe(d.Seconds())
	}
}

func (c *SessionCollector) OrphanClose(rec *parser.Record) {
	c.OrphanCloses.WithLabelValues(rec.Daemon).Inc()
}
