//go:build !windows

package report

import (
	"fmt"
	"os"
)

// Channel is the opaque, append-only byte sink identified by a
// filesystem path (spec.md §2's ReportChannel). It holds no open
// descriptor: Write opens the path in append mode, writes one
// complete record, and closes it immediately, so a channel survives
// exec without needing re-open logic (spec.md §4.4's "Opening
// policy").
type Channel struct {
	path string
}

// NewChannel returns a Channel writing to path. path is normally read
// from the __BUILDXL_REPORT_PATH environment variable by the observer
// package; NewChannel itself performs no I/O.
func NewChannel(path string) *Channel {
	return &Channel{path: path}
}

// Write appends one pre-framed record (as produced by Frame) to the
// channel. Each call opens, writes, and closes the path — relying, as
// spec.md §4.4 and §5 require, on the OS's atomic-write guarantee for
// writes no larger than PIPE_BUF rather than any locking of its own.
func (c *Channel) Write(record []byte) error {
	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("report: open channel %s: %w", c.path, err)
	}
	defer f.Close()

	n, err := f.Write(record)
	if err != nil {
		return fmt.Errorf("report: write channel %s: %w", c.path, err)
	}
	if n != len(record) {
		return fmt.Errorf("report: short write to channel %s: wrote %d of %d bytes", c.path, n, len(record))
	}
	return nil
}
