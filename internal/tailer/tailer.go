package tailer

import (
	"fmt"

	"github.com/nxadm/tail"
)

// File reads a log file once from start to end.
type File struct {
	Path string
}

// Each calls fn for every line of the file, in order. It returns once the
// end of the file is reached; the file handle is released on every path.
func (f File) Each(fn func(line string)) error {
	t, err := tail.TailFile(f.Path, tail.Config{
		// One pass over the file: stop at EOF instead of waiting for writes.
		Follow:    false,
		ReOpen:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("open log %s: %w", f.Path, err)
	}

	var lineErr error
	for line := range t.Lines {
		if line.Err != nil {
			if lineErr == nil {
				lineErr = fmt.Errorf("read log %s: %w", f.Path, line.Err)
			}
			continue
		}
		fn(line.Text)
	}

	// Lines is closed once the tailer has hit EOF and closed the file.
	if err := t.Wait(); err != nil {
		return fmt.Errorf("read log %s: %w", f.Path, err)
	}
	return lineErr
}

// String implements fmt.Stringer.
func (f File) String() string {
	return f.Path
}
