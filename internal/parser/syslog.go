package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Jan 27 21:19:46 localhost sshd[25065]: pam_unix(sshd:session): session opened for user max by (uid=0)
// Aug  3 16:39:01 localhost CRON[27747]: pam_unix(cron:session): session closed for user root
var syslogLineRegex = regexp.MustCompile(`^([A-Za-z]{3} [ \d]\d \d{2}:\d{2}:\d{2}) (\S+) ([\w./-]+)\[(\d+)\]: (.*)$`)

const syslogStamp = "Jan _2 15:04:05"

// Classifier turns raw auth.log lines into Records. Syslog timestamps carry no
// year, so every record gets the classifier's reference year.
type Classifier struct {
	year int
	loc  *time.Location
}

// NewClassifier returns a Classifier stamping year onto every timestamp.
// A zero year means the current year; a nil loc means time.Local.
func NewClassifier(year int, loc *time.Location) *Classifier {
	if year == 0 {
		year = time.Now().Year()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Classifier{year: year, loc: loc}
}

// Year returns the reference year applied to parsed timestamps.
func (c *Classifier) Year() int {
	return c.year
}

// Classify parses one line. It returns ErrNotRecognized for foreign lines and
// an error wrapping ErrBadTimestamp when only the date is unusable.
func (c *Classifier) Classify(line string) (*Record, error) {
	line = strings.TrimRight(line, "\r")

	matches := syslogLineRegex.FindStringSubmatch(line)
	if matches == nil {
		return nil, ErrNotRecognized
	}

	// matches[1] = Timestamp (no year)
	// matches[2] = Host
	// matches[3] = Daemon
	// matches[4] = PID
	// matches[5] = Message
	pid, err := strconv.Atoi(matches[4])
	if err != nil {
		return nil, ErrNotRecognized
	}

	ts, err := c.timestamp(matches[1])
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Timestamp: ts,
		Host:      matches[2],
		Daemon:    matches[3],
		PID:       pid,
		Message:   matches[5],
	}
	rec.Action, rec.Username = classifyMessage(rec.Message)

	return rec, nil
}

func (c *Classifier) timestamp(stamp string) (time.Time, error) {
	parsed, err := time.Parse(syslogStamp, stamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrBadTimestamp, stamp, err)
	}

	// time.Parse validated the day against year 0, which is a leap year.
	// Feb 29 has to exist in the reference year too.
	ts := time.Date(c.year, parsed.Month(), parsed.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, c.loc)
	if ts.Day() != parsed.Day() {
		return time.Time{}, fmt.Errorf("%w: %q does not exist in %d", ErrBadTimestamp, stamp, c.year)
	}
	return ts, nil
}
