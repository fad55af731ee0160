//go:build !windows

// Package report implements the Observer's EventFramer and
// ReportChannel: turning a decided access event into the exact
// length-prefixed wire record spec.md §4.4 describes, and appending
// it atomically to a path-identified byte sink.
//
// The Observer this package serves is POSIX-only (spec.md §1), so
// PIPE_BUF is a single local constant (pipeBufSize below) rather than
// abstracted behind a build-tag split the way canonpath's OS
// primitives are.
package report

import (
	"encoding/binary"
	"fmt"

	"github.com/scalebuild/sandboxcore/accessevent"
)

// pipeBufSize is POSIX PIPE_BUF for Linux: golang.org/x/sys/unix does
// not export this constant (it is sourced from limits.h, not the
// syscall headers the generator parses), so it is defined locally
// here rather than abstracted behind a build-tag split.
const pipeBufSize = 4096

// ErrRecordTooLarge is returned by Frame when the prefix+payload would
// exceed PIPE_BUF. Per spec.md §4.4 this is fatal for the caller —
// truncating the record would desynchronize the orchestrator's
// line-delimited parser.
var ErrRecordTooLarge = fmt.Errorf("report: framed record exceeds PIPE_BUF")

// boolField renders a Go bool the way the original wire format
// expects its reportExplicitly field: "1" or "0", not "true"/"false".
func boolField(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Frame renders event and decision into one complete wire record: a
// 4-byte little-endian length prefix followed by the pipe-delimited
// payload
//
//	<progname>|<pid>|<reqAccess>|<status>|<reportExplicitly>|<errno>|<opCode>|<primaryPath>\n
//
// progName identifies the reporting executable on the wire, distinct
// from event.ExecutablePath which is the canonicalized path used for
// policy evaluation.
func Frame(event accessevent.Event, decision accessevent.AccessDecision, progName string) ([]byte, error) {
	payload := fmt.Sprintf(
		"%s|%d|%s|%s|%d|%d|%s|%s\n",
		progName,
		event.PID,
		event.RequestedAccess,
		event.Status,
		boolField(decision.Reported),
		event.ErrorCode,
		event.Kind.String(),
		event.PrimaryPath,
	)

	if len(payload) > maxRecordBodyLen() {
		return nil, ErrRecordTooLarge
	}

	record := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(record[:4], uint32(len(payload)))
	copy(record[4:], payload)

	if len(record) > pipeBufSize {
		return nil, ErrRecordTooLarge
	}
	return record, nil
}

// maxRecordBodyLen is the largest payload that can still fit under
// PIPE_BUF once the 4-byte prefix is accounted for.
func maxRecordBodyLen() int {
	return pipeBufSize - 4
}
