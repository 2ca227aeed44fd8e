package chart

import (
	"sort"
	"strconv"
	"time"

	"authlog-gantt/internal/session"
)

// Gantt is the chart model: one task per user, one subtask per session.
// Every task spans the same run-global interval so all rows share an axis.
type Gantt struct {
	Title string
	Start time.Time
	End   time.Time
	Tasks []Task
}

// Task is one user's row.
type Task struct {
	Name     string
	Start    time.Time
	End      time.Time
	Subtasks []Subtask
}

// Subtask is one session interval, labelled with its pid.
type Subtask struct {
	Label  string
	PID    int
	Daemon string
	Start  time.Time
	End    time.Time
	Open   bool
}

// Options tune how entries become a Gantt.
type Options struct {
	Title string
	// ClampOpen, when set, stretches sessions still open at end of log up to
	// this instant (normally the last timestamp in the log).
	ClampOpen time.Time
}

// Build groups entries by username. Subtasks keep the ascending pid order of
// entries; tasks are ordered by username.
func Build(entries []session.Entry, opts Options) *Gantt {
	g := &Gantt{Title: opts.Title}

	sorted := append([]session.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PID < sorted[j].PID
	})

	byUser := make(map[string]*Task)
	var names []string

	for _, e := range sorted {
		end := e.Logoff
		if !e.Closed && !opts.ClampOpen.IsZero() && opts.ClampOpen.After(end) {
			end = opts.ClampOpen
		}

		if g.Start.IsZero() || e.Login.Before(g.Start) {
			g.Start = e.Login
		}
		if g.End.IsZero() || end.After(g.End) {
			g.End = end
		}

		task, ok := byUser[e.Username]
		if !ok {
			task = &Task{Name: e.Username}
			byUser[e.Username] = task
			names = append(names, e.Username)
		}
		task.Subtasks = append(task.Subtasks, Subtask{
			Label:  strconv.Itoa(e.PID),
			PID:    e.PID,
			Daemon: e.Daemon,
			Start:  e.Login,
			End:    end,
			Open:   !e.Closed,
		})
	}

	sort.Strings(names)
	g.Tasks = make([]Task, 0, len(names))
	for _, name := range names {
		task := byUser[name]
		task.Start = g.Start
		task.End = g.End
		g.Tasks = append(g.Tasks, *task)
	}

	return g
}

// Empty reports whether the chart has no sessions to draw.
func (g *Gantt) Empty() bool {
	return len(g.Tasks) == 0
}
