package journald

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// DefaultArgs makes journalctl print the journal in classic syslog layout
// ("Jan 27 21:19:46 host sshd[25065]: ..."), which the classifier understands.
var DefaultArgs = []string{"--no-pager", "--quiet", "-o", "short"}

// Reader runs journalctl once and yields its output line by line.
// Note: the process needs read access to the journal (root or the
// systemd-journal group).
type Reader struct {
	Binary string
	Args   []string
}

// NewReader returns a Reader for journalctl with DefaultArgs plus any
// extra arguments (for example "--since", "yesterday" or "-u", "ssh").
func NewReader(extra ...string) *Reader {
	args := append(append([]string{}, DefaultArgs...), extra...)
	return &Reader{Binary: "journalctl", Args: args}
}

// Each calls fn for every output line and waits for the command to exit.
func (r *Reader) Each(fn func(line string)) error {
	cmd := exec.Command(r.Binary, r.Args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("journald: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("journald: start %s (is it installed/accessible?): %w", r.Binary, err)
	}

	// Lines have no length cap; journalctl must never block on a full pipe.
	readErr := readLines(stdout, fn)
	if readErr != nil {
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("journald: %s exited: %w", r.Binary, err)
	}
	if readErr != nil {
		return fmt.Errorf("journald: read output: %w", readErr)
	}
	return nil
}

func readLines(r io.Reader, fn func(line string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			fn(strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// String implements fmt.Stringer.
func (r *Reader) String() string {
	return strings.Join(append([]string{r.Binary}, r.Args...), " ")
}
