package procstate

import (
	"math"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/process"

	"authlog-gantt/internal/session"
)

// Checker answers whether a pid is running on this host.
type Checker interface {
	Alive(pid int) bool
}

// HostChecker asks the local process table through gopsutil.
type HostChecker struct {
	logger zerolog.Logger
}

func NewHostChecker(logger zerolog.Logger) *HostChecker {
	return &HostChecker{logger: logger}
}

// Alive reports whether pid exists. Lookup errors count as not alive, and so
// do pids outside the kernel's int32 range.
func (h *HostChecker) Alive(pid int) bool {
	if pid <= 0 || pid > math.MaxInt32 {
		return false
	}
	ok, err := process.PidExists(int32(pid))
	if err != nil {
		h.logger.Debug().Err(err).Int("pid", pid).Msg("Process lookup failed")
		return false
	}
	return ok
}

// LivePIDs returns the pids of still-open entries whose process is running.
// A pid may have been reused by an unrelated process since the log was
// written, so this is a hint, not proof the session is still active.
func LivePIDs(entries []session.Entry, c Checker) map[int]bool {
	live := make(map[int]bool)
	for _, e := range entries {
		if e.Closed {
			continue
		}
		if c.Alive(e.PID) {
			live[e.PID] = true
		}
	}
	return live
}
