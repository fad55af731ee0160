//go:build !windows

package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scalebuild/sandboxcore/accessevent"
)

func TestChannelWriteAppendsAndDoesNotHoldDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report-channel")
	ch := NewChannel(path)

	event := accessevent.Event{PID: 1, Kind: accessevent.KindExec, PrimaryPath: "/bin/cc"}
	decision := accessevent.AccessDecision{Reported: true, Allowed: true}
	record, err := Frame(event, decision, "p")
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}

	if err := ch.Write(record); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := ch.Write(record); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := len(record) * 2
	if len(got) != want {
		t.Fatalf("channel file has %d bytes, want %d (two appended records)", len(got), want)
	}
}
