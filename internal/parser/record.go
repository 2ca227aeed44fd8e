package parser

import (
	"errors"
	"time"
)

// Action is the session transition a line describes.
type Action int

const (
	ActionNone Action = iota
	ActionOpen
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionOpen:
		return "open"
	case ActionClose:
		return "close"
	default:
		return "none"
	}
}

var (
	// ErrNotRecognized is returned for lines that do not follow the syslog
	// "<ts> <host> <daemon>[<pid>]: <msg>" shape. Callers skip them.
	ErrNotRecognized = errors.New("line not recognized")

	// ErrBadTimestamp is returned for structurally valid lines whose date
	// cannot be turned into a time.
	ErrBadTimestamp = errors.New("invalid timestamp")
)

// Record is one classified auth.log line.
type Record struct {
	Timestamp time.Time
	Host      string
	Daemon    string
	PID       int
	Message   string
	Action    Action
	Username  string
}
