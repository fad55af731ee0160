//go:build darwin

// The interception layer this package serves targets the Linux sandbox;
// darwin gets the same stubbed-out treatment the teacher's bpf_darwin.go
// gives its eBPF loader. readlink and probeMode still work (they're
// plain POSIX calls available on darwin too); fdToPath has no
// /proc/self/fd equivalent here and is left returning its default
// "not available on this platform" error.

package canonpath

import (
	"os"

	"golang.org/x/sys/unix"
)

func init() {
	readlink = darwinReadlink
	probeMode = darwinProbeMode
	getCwd = os.Getwd
}

func darwinReadlink(path string) (string, error) {
	buf := make([]byte, 4096)
	n, err := unix.Readlink(path, buf)
	if err != nil {
		if err == unix.EINVAL || err == unix.ENOENT {
			return "", ErrNotSymlink
		}
		return "", err
	}
	return string(buf[:n]), nil
}

func darwinProbeMode(path string) uint32 {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return 0
	}
	return uint32(st.Mode)
}
