// Package eventquery reads the framed records a report.Channel writes
// and exposes them for ad hoc inspection, the way the teacher's web
// package exposed recorded rows over an HTTP API. There is no live
// dashboard here (spec.md's reporting surface is a file, not a
// service) — instead this package gives test harnesses and
// command-line tooling a way to read back and filter what the
// Observer emitted, using the same JSON-row shape web/types.go used
// for its ProcessRow.
package eventquery

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Record is one decoded report.Frame wire record, reshaped into named
// fields the way web.ProcessRow reshaped a database row for JSON
// consumers.
type Record struct {
	ProgramName      string `json:"programName"`
	PID              uint32 `json:"pid"`
	RequestedAccess  string `json:"requestedAccess"`
	Status           string `json:"status"`
	ReportExplicitly bool   `json:"reportExplicitly"`
	ErrorCode        int    `json:"errorCode"`
	OpCode           string `json:"opCode"`
	PrimaryPath      string `json:"primaryPath"`
}

// ReadAll decodes every length-prefixed record in r into a Record
// slice, in the order they were written.
func ReadAll(r io.Reader) ([]Record, error) {
	var records []Record
	for {
		var lenBuf [4]byte
		_, err := io.ReadFull(r, lenBuf[:])
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("eventquery: read length prefix: %w", err)
		}

		n := binary.LittleEndian.Uint32(lenBuf[:])
		payload := make([]byte, n)
		if _, err := io.ReadFull(r, payload); err != nil {
			return records, fmt.Errorf("eventquery: read payload: %w", err)
		}

		rec, err := parseRecord(string(payload))
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// ReadFile opens path and decodes every record in it.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eventquery: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadAll(f)
}

// parseRecord splits one pipe-delimited payload line back into its
// fields, the inverse of report.Frame.
func parseRecord(payload string) (Record, error) {
	payload = strings.TrimSuffix(payload, "\n")
	fields := strings.SplitN(payload, "|", 8)
	if len(fields) != 8 {
		return Record{}, fmt.Errorf("eventquery: malformed record %q: want 8 fields, got %d", payload, len(fields))
	}

	pid, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return Record{}, fmt.Errorf("eventquery: parse pid in %q: %w", payload, err)
	}
	errno, err := strconv.Atoi(fields[5])
	if err != nil {
		return Record{}, fmt.Errorf("eventquery: parse errno in %q: %w", payload, err)
	}

	return Record{
		ProgramName:      fields[0],
		PID:              uint32(pid),
		RequestedAccess:  fields[2],
		Status:           fields[3],
		ReportExplicitly: fields[4] == "1",
		ErrorCode:        errno,
		OpCode:           fields[6],
		PrimaryPath:      fields[7],
	}, nil
}

// MarshalJSON renders records the same way the teacher's web API
// marshaled ProcessRow slices for its HTTP responses.
func MarshalJSON(records []Record) ([]byte, error) {
	return json.Marshal(records)
}
