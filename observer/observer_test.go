//go:build !windows

package observer

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scalebuild/sandboxcore/accessevent"
)

func writeTestManifest(t *testing.T, dir string) string {
	t.Helper()
	rulesDir := filepath.Join(dir, "rules")
	if err := os.MkdirAll(rulesDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	rule := `
title: allow everything
id: allow-everything
access-decision: allow
logsource:
    category: file_event
detection:
    selection:
        Operation|contains: ''
    condition: selection
`
	if err := os.WriteFile(filepath.Join(rulesDir, "allow.yml"), []byte(rule), 0o644); err != nil {
		t.Fatalf("WriteFile rule: %v", err)
	}
	manifestPath := filepath.Join(dir, "manifest.yaml")
	if err := os.WriteFile(manifestPath, []byte("rules_dir: rules\n"), 0o644); err != nil {
		t.Fatalf("WriteFile manifest: %v", err)
	}
	return manifestPath
}

func newTestObserver(t *testing.T) (*Observer, string) {
	t.Helper()
	dir := t.TempDir()
	manifestPath := writeTestManifest(t, dir)
	reportPath := filepath.Join(dir, "report-channel")

	obs, err := New(Config{
		FAMPath:     manifestPath,
		ReportPath:  reportPath,
		ProgramName: "test-observer",
		RootPID:     -1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return obs, reportPath
}

// readPrimaryPaths parses every length-prefixed record in the report
// channel file and returns the decoded primaryPath field (index 7) of
// each, in write order.
func readPrimaryPaths(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open report channel: %v", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var paths []string
	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(r, lenBuf); err != nil {
			break
		}
		n := binary.LittleEndian.Uint32(lenBuf)
		payload := make([]byte, n)
		if _, err := io.ReadFull(r, payload); err != nil {
			t.Fatalf("short payload read: %v", err)
		}
		fields := strings.Split(strings.TrimSuffix(string(payload), "\n"), "|")
		paths = append(paths, fields[len(fields)-1])
	}
	return paths
}

// TestReportExecOrder covers scenario S2: reportExec emits an Exec
// event for the unresolved procName first, then one for the
// canonicalized file path.
func TestReportExecOrder(t *testing.T) {
	obs, reportPath := newTestObserver(t)

	obs.ReportExec("execve", "/tmp/prog", "/tmp/./prog")

	got := readPrimaryPaths(t, reportPath)
	want := []string{"/tmp/prog", "/tmp/prog"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestReportAccessByFdNonAbsoluteSuppressed covers the NotChecked
// sentinel: a descriptor that doesn't resolve to an absolute path
// (e.g. a socket) must neither emit a report nor return an error.
func TestReportAccessByFdNonAbsoluteSuppressed(t *testing.T) {
	obs, reportPath := newTestObserver(t)

	prevFdToPath := fdToPath
	fdToPath = func(fd int) (string, error) { return "socket:[12345]", nil }
	t.Cleanup(func() { fdToPath = prevFdToPath })

	decision := obs.ReportAccessByFd("read", accessevent.KindOpen, 9)
	if decision != accessevent.NotChecked {
		t.Fatalf("decision = %+v, want NotChecked", decision)
	}

	if _, err := os.Stat(reportPath); err == nil {
		data, _ := os.ReadFile(reportPath)
		if len(data) != 0 {
			t.Fatalf("expected no report written for a non-absolute fd, got %d bytes", len(data))
		}
	}
}

func TestReportAccessByFdAbsoluteEmits(t *testing.T) {
	obs, reportPath := newTestObserver(t)

	prevFdToPath := fdToPath
	fdToPath = func(fd int) (string, error) { return "/var/build/out.o", nil }
	t.Cleanup(func() { fdToPath = prevFdToPath })

	decision := obs.ReportAccessByFd("write", accessevent.KindWrite, 3)
	if !decision.Allowed {
		t.Fatalf("expected allowed decision")
	}

	got := readPrimaryPaths(t, reportPath)
	if len(got) != 1 || got[0] != "/var/build/out.o" {
		t.Fatalf("got %v, want [/var/build/out.o]", got)
	}
}

func TestReportAccessByPathCanonicalizes(t *testing.T) {
	obs, reportPath := newTestObserver(t)

	obs.ReportAccessByPath("open", accessevent.KindOpen, "/a/./b/../c", true)

	got := readPrimaryPaths(t, reportPath)
	if len(got) != 1 || got[0] != "/a/c" {
		t.Fatalf("got %v, want [/a/c]", got)
	}
}

func TestConfigFromEnvRequiresFAMPath(t *testing.T) {
	os.Unsetenv("__BUILDXL_FAM_PATH")
	os.Unsetenv("__BUILDXL_REPORT_PATH")

	_, err := ConfigFromEnv("prog")
	if err == nil {
		t.Fatalf("expected error when __BUILDXL_FAM_PATH is unset")
	}
}

func TestConfigFromEnvDefaultsRootPID(t *testing.T) {
	t.Setenv("__BUILDXL_FAM_PATH", "/dev/null")
	t.Setenv("__BUILDXL_REPORT_PATH", "/dev/null")
	t.Setenv("__BUILDXL_ROOT_PID", "not-a-number")

	cfg, err := ConfigFromEnv("prog")
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.RootPID != defaultRootPID {
		t.Fatalf("RootPID = %d, want default %d", cfg.RootPID, defaultRootPID)
	}
}
