package configio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matches.yaml")
	body := "matches:\n  - process_name: cmd.exe\n  - process_name: cl.exe\n    argument_match: /showIncludes\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	matches, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ProcessName != "cmd.exe" {
		t.Fatalf("matches[0].ProcessName = %q", matches[0].ProcessName)
	}
	if matches[1].ArgumentMatch != "/showIncludes" {
		t.Fatalf("matches[1].ArgumentMatch = %q", matches[1].ArgumentMatch)
	}
}

func TestLoadMatchList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matches.txt")
	body := "shim \"cmd.exe\"\nshim \"cl.exe\" arg \"/showIncludes\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	matches, err := LoadMatchList(path)
	if err != nil {
		t.Fatalf("LoadMatchList: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ProcessName != "cmd.exe" {
		t.Fatalf("matches[0].ProcessName = %q", matches[0].ProcessName)
	}
	if matches[1].ArgumentMatch != "/showIncludes" {
		t.Fatalf("matches[1].ArgumentMatch = %q", matches[1].ArgumentMatch)
	}
}
