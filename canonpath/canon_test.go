package canonpath

import (
	"reflect"
	"testing"
)

// withLinks installs a fake readlink table for the duration of one
// test and restores the previous hook afterward, the same override
// pattern used throughout this package's non-test files.
func withLinks(t *testing.T, links map[string]string) {
	t.Helper()
	prev := readlink
	readlink = func(path string) (string, error) {
		if target, ok := links[path]; ok {
			return target, nil
		}
		return "", ErrNotSymlink
	}
	t.Cleanup(func() { readlink = prev })
}

func TestCanonicalizeNoSymlinks(t *testing.T) {
	withLinks(t, nil)

	got, events, err := Canonicalize("/a/./b/../c//d", true)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got != "/a/c/d" {
		t.Fatalf("got %q, want /a/c/d", got)
	}
	if len(events) != 0 {
		t.Fatalf("expected no link events, got %v", events)
	}
}

// TestCanonicalizeIdempotent covers property 1: canonicalizing an
// already-canonical path is a no-op.
func TestCanonicalizeIdempotent(t *testing.T) {
	withLinks(t, nil)

	first, _, err := Canonicalize("/a/b/c", true)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	second, events, err := Canonicalize(first, true)
	if err != nil {
		t.Fatalf("Canonicalize (second pass): %v", err)
	}
	if first != second {
		t.Fatalf("not idempotent: %q != %q", first, second)
	}
	if len(events) != 0 {
		t.Fatalf("re-canonicalizing should expand no links, got %v", events)
	}
}

// TestCanonicalizeNoResidualDotSegments covers property 2.
func TestCanonicalizeNoResidualDotSegments(t *testing.T) {
	withLinks(t, nil)

	cases := []string{
		"/../a",
		"/a/../../b",
		"/a/./././b",
		"//a///b//",
	}
	for _, in := range cases {
		got, _, err := Canonicalize(in, true)
		if err != nil {
			t.Fatalf("Canonicalize(%q): %v", in, err)
		}
		for _, seg := range splitSegments(got) {
			if seg == "." || seg == ".." {
				t.Fatalf("Canonicalize(%q) = %q still has a %q segment", in, got, seg)
			}
		}
	}
}

// TestCanonicalizeSymlinkExpansion mirrors scenario S1: /a -> /b,
// resolving /a/c should yield /b/c with one ReadLink event for /a.
func TestCanonicalizeSymlinkExpansion(t *testing.T) {
	withLinks(t, map[string]string{"/a": "/b"})

	got, events, err := Canonicalize("/a/c", true)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got != "/b/c" {
		t.Fatalf("got %q, want /b/c", got)
	}
	want := []LinkEvent{{Path: "/a"}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

// TestCanonicalizeRelativeSymlinkTarget checks that a relative symlink
// target is resolved against the symlink's own directory, not the
// filesystem root.
func TestCanonicalizeRelativeSymlinkTarget(t *testing.T) {
	withLinks(t, map[string]string{"/a/link": "../sibling"})

	got, _, err := Canonicalize("/a/link/file", true)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got != "/sibling/file" {
		t.Fatalf("got %q, want /sibling/file", got)
	}
}

// TestCanonicalizeFinalSymlinkNotFollowed covers the followFinalSymlink
// == false branch (lstat-style calls never resolve the last segment).
func TestCanonicalizeFinalSymlinkNotFollowed(t *testing.T) {
	withLinks(t, map[string]string{"/x/a": "/b"})

	got, events, err := Canonicalize("/x/a", false)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got != "/x/a" {
		t.Fatalf("got %q, want /x/a (final symlink left unresolved)", got)
	}
	if len(events) != 0 {
		t.Fatalf("expected no expansion of the final segment, got %v", events)
	}
}

// TestCanonicalizeLoopDetected covers property 3 / the MaxLinkExpansions
// bound: a symlink cycle must terminate with ErrLoopDetected rather than
// spinning forever.
func TestCanonicalizeLoopDetected(t *testing.T) {
	withLinks(t, map[string]string{
		"/a": "/b",
		"/b": "/a",
	})

	_, _, err := Canonicalize("/a/file", true)
	if err != ErrLoopDetected {
		t.Fatalf("err = %v, want ErrLoopDetected", err)
	}
}

func TestCanonicalizeRejectsRelativeInput(t *testing.T) {
	_, _, err := Canonicalize("a/b", true)
	if err != ErrNotAbsolute {
		t.Fatalf("err = %v, want ErrNotAbsolute", err)
	}
}

func TestJoinAtAbsoluteNamePassesThrough(t *testing.T) {
	got, err := JoinAt(FDCwd, "/already/absolute")
	if err != nil {
		t.Fatalf("JoinAt: %v", err)
	}
	if got != "/already/absolute" {
		t.Fatalf("got %q", got)
	}
}

func TestJoinAtRelativeToCwd(t *testing.T) {
	prev := getCwd
	getCwd = func() (string, error) { return "/home/user", nil }
	t.Cleanup(func() { getCwd = prev })

	got, err := JoinAt(FDCwd, "proj/file.c")
	if err != nil {
		t.Fatalf("JoinAt: %v", err)
	}
	if got != "/home/user/proj/file.c" {
		t.Fatalf("got %q, want /home/user/proj/file.c", got)
	}
}

func TestJoinAtRelativeToDirFd(t *testing.T) {
	prev := fdToPath
	fdToPath = func(fd int) (string, error) {
		if fd == 7 {
			return "/opt/build", nil
		}
		return "", ErrLoopDetected
	}
	t.Cleanup(func() { fdToPath = prev })

	got, err := JoinAt(7, "out.obj")
	if err != nil {
		t.Fatalf("JoinAt: %v", err)
	}
	if got != "/opt/build/out.obj" {
		t.Fatalf("got %q, want /opt/build/out.obj", got)
	}
}

func TestProbeModeDefaultsToZero(t *testing.T) {
	prev := probeMode
	probeMode = func(string) uint32 { return 0 }
	t.Cleanup(func() { probeMode = prev })

	if got := ProbeMode("/does/not/matter"); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}
