package session

import (
	"sort"
	"time"
)

// Entry is the reconstructed session of one process.
//
// Logoff starts out equal to Login and is only moved by a matching close, so
// every entry carries a usable interval. Closed tells whether that close was
// seen; entries still open at end of log keep Closed == false.
type Entry struct {
	PID      int       `json:"pid"`
	Username string    `json:"username"`
	Daemon   string    `json:"daemon"`
	Login    time.Time `json:"login"`
	Logoff   time.Time `json:"logoff"`
	Closed   bool      `json:"closed"`
}

// Duration returns Logoff - Login.
func (e Entry) Duration() time.Duration {
	return e.Logoff.Sub(e.Login)
}

// Table maps process ids to their session. A pid holds at most one entry.
type Table struct {
	entries map[int]*Entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[int]*Entry)}
}

// Put stores e under its pid and reports whether an entry was replaced.
func (t *Table) Put(e *Entry) bool {
	_, replaced := t.entries[e.PID]
	t.entries[e.PID] = e
	return replaced
}

// Get returns the entry for pid, or nil.
func (t *Table) Get(pid int) *Entry {
	return t.entries[pid]
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Sorted returns copies of all entries in ascending pid order.
func (t *Table) Sorted() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PID < out[j].PID
	})
	return out
}
