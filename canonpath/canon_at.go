package canonpath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FDCwd is the sentinel dirfd value meaning "resolve relative to the
// process's current working directory" (AT_FDCWD on POSIX).
const FDCwd = -100

// fdToPath is overridden by canon_linux.go to resolve a directory file
// descriptor to its absolute path via /proc/self/fd/<fd>; on other
// platforms it keeps this default. Kept as a package variable for the same
// testability reason as readlink above.
var fdToPath = func(fd int) (string, error) {
	return "", fmt.Errorf("canonpath: fd-to-path resolution not available on this platform")
}

// getCwd is overridden by canon_linux.go/canon_darwin.go. Exists as a variable so tests
// can supply a deterministic working directory.
var getCwd = func() (string, error) {
	return "", fmt.Errorf("canonpath: getcwd not available on this platform")
}

// JoinAt resolves name against dirfd the way the kernel's *at()
// syscall family does: an absolute name is used as-is; a relative name
// is joined against the current directory (dirfd == FDCwd) or against
// the path the dirfd itself refers to.
//
// This is the "relative-path entry" helper from spec.md §4.1. The
// caller (observer) derives followFinalSymlink from the syscall's
// open flags and passes it to CanonicalizeAt — JoinAt only computes
// the unresolved join, so this package never needs to know the
// platform's O_NOFOLLOW bit value.
func JoinAt(dirfd int, name string) (string, error) {
	if name == "" {
		if dirfd == FDCwd {
			return getCwd()
		}
		return fdToPath(dirfd)
	}
	if strings.HasPrefix(name, "/") {
		return name, nil
	}

	var base string
	var err error
	if dirfd == FDCwd {
		base, err = getCwd()
	} else {
		base, err = fdToPath(dirfd)
	}
	if err != nil {
		return "", fmt.Errorf("canonpath: resolve dirfd %d: %w", dirfd, err)
	}
	return filepath.Join(base, name), nil
}

// FDToPath resolves fd to the absolute path it currently refers to,
// using the same platform primitive JoinAt uses internally. Callers
// that need to distinguish "resolves to a path" from "not a
// file-backed descriptor" (e.g. observer.ReportAccessByFd) use this
// directly rather than going through JoinAt/CanonicalizeAt.
func FDToPath(fd int) (string, error) {
	return fdToPath(fd)
}

// CanonicalizeAt joins name against dirfd and canonicalizes the
// result in one step.
func CanonicalizeAt(dirfd int, name string, followFinalSymlink bool) (string, []LinkEvent, error) {
	joined, err := JoinAt(dirfd, name)
	if err != nil {
		return "", nil, err
	}
	return Canonicalize(joined, followFinalSymlink)
}
