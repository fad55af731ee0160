package eventquery

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func frameFixture(payload string) []byte {
	record := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(record[:4], uint32(len(payload)))
	copy(record[4:], payload)
	return record
}

func TestReadAllDecodesMultipleRecords(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(frameFixture("shimprobe|123|Read|Allowed|1|0|Open|/build/src/a.c\n"))
	buf.Write(frameFixture("shimprobe|124|Write|Denied|0|13|Write|/etc/passwd\n"))

	records, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	if records[0].PID != 123 || records[0].OpCode != "Open" || !records[0].ReportExplicitly {
		t.Fatalf("records[0] = %+v", records[0])
	}
	if records[1].PID != 124 || records[1].Status != "Denied" || records[1].ErrorCode != 13 {
		t.Fatalf("records[1] = %+v", records[1])
	}
	if records[1].PrimaryPath != "/etc/passwd" {
		t.Fatalf("records[1].PrimaryPath = %q", records[1].PrimaryPath)
	}
}

func TestReadAllEmptyStreamReturnsNoRecords(t *testing.T) {
	records, err := ReadAll(&bytes.Buffer{})
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0", len(records))
	}
}

func TestReadAllMalformedPayloadErrors(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(frameFixture("not-enough-fields\n"))

	if _, err := ReadAll(&buf); err == nil {
		t.Fatalf("expected an error for a malformed payload")
	}
}
