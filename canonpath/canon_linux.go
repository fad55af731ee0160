//go:build linux

// This file wires canonpath's algorithm (canon.go, canon_at.go, mode.go)
// to the real OS primitives, following the same build-tag split the
// teacher uses for its platform-specific eBPF loader (bpf_linux.go /
// bpf_darwin.go) — the portable logic lives in files with no build
// tag, and a single platform file supplies the syscalls.

package canonpath

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func init() {
	readlink = unixReadlink
	fdToPath = unixFdToPath
	getCwd = os.Getwd
	probeMode = unixProbeMode
}

// maxPathLen bounds the readlink buffer. Real paths never approach
// this; a target that did would indicate a misbehaving filesystem,
// not a longer-buffer bug worth chasing.
const maxPathLen = 4096

func unixReadlink(path string) (string, error) {
	buf := make([]byte, maxPathLen)
	n, err := unix.Readlink(path, buf)
	if err != nil {
		if err == unix.EINVAL || err == unix.ENOENT {
			return "", ErrNotSymlink
		}
		return "", err
	}
	return string(buf[:n]), nil
}

// fdProcPath maps an open file descriptor to the magic /proc/self/fd
// symlink the kernel maintains for it — the same indirection the
// original source uses to turn an *at() dirfd into a path string.
func fdProcPath(fd int) string {
	return fmt.Sprintf("/proc/self/fd/%d", fd)
}

func unixFdToPath(fd int) (string, error) {
	target, err := unixReadlink(fdProcPath(fd))
	if err == ErrNotSymlink {
		// /proc/self/fd/<fd> is always itself a symlink when fd is
		// open; ErrNotSymlink here means the fd is stale or closed.
		return "", fmt.Errorf("canonpath: fd %d: not an open descriptor", fd)
	}
	return target, err
}

func unixProbeMode(path string) uint32 {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return 0
	}
	return uint32(st.Mode)
}
