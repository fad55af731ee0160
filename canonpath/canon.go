package canonpath

import (
	"fmt"
	"strings"
)

// ErrNotSymlink is the sentinel a readlink implementation returns when
// the queried path exists but is not a symlink (POSIX EINVAL) or does
// not exist yet (POSIX ENOENT) — both are "not a symlink, continue"
// per spec.md §7's PathResolutionSoft class. Any other error from
// readlink is treated as a hard PathResolutionError and aborts
// Canonicalize.
var ErrNotSymlink = fmt.Errorf("canonpath: not a symlink")

// readlink is overridden by canon_linux.go/canon_darwin.go (and by tests in this
// package) to call the real OS primitive. Kept as a package variable
// so the segment-rewrite algorithm below has no OS dependency of its
// own and is fully unit-testable on any platform.
var readlink = func(path string) (string, error) {
	return "", ErrNotSymlink
}

// LinkEvent records one symlink expansion performed by Canonicalize.
// Path is the prefix ending at (and including) the symlink, exactly
// as it stood before substitution — the ReadLink access event the
// Observer must report per spec.md §4.1.
type LinkEvent struct {
	Path string
}

// Canonicalize reduces path to an absolute, dot-free, symlink-resolved
// form. Every intermediate directory symlink is resolved; the final
// segment is resolved only when followFinalSymlink is true. Each
// expansion appends one LinkEvent, in the order it was performed.
//
// path must already be absolute — CanonicalizeAt joins relative paths
// against a directory before calling in, matching the dirfd-relative
// contract in spec.md §4.1.
func Canonicalize(path string, followFinalSymlink bool) (string, []LinkEvent, error) {
	if !strings.HasPrefix(path, "/") {
		return "", nil, ErrNotAbsolute
	}

	queue := splitSegments(path)
	var resolved []string
	var events []LinkEvent
	expansions := 0

	for len(queue) > 0 {
		seg := queue[0]
		queue = queue[1:]

		switch seg {
		case ".":
			continue
		case "..":
			if len(resolved) > 0 {
				resolved = resolved[:len(resolved)-1]
			}
			continue
		}

		isFinal := len(queue) == 0
		if isFinal && !followFinalSymlink {
			resolved = append(resolved, seg)
			continue
		}

		prefix := "/" + strings.Join(append(append([]string{}, resolved...), seg), "/")
		target, err := readlink(prefix)
		switch {
		case err == nil:
			expansions++
			if expansions > MaxLinkExpansions {
				return "", nil, ErrLoopDetected
			}
			events = append(events, LinkEvent{Path: prefix})
			targetSegs := splitSegments(target)
			if strings.HasPrefix(target, "/") {
				resolved = nil
			}
			queue = append(targetSegs, queue...)
		case err == ErrNotSymlink:
			resolved = append(resolved, seg)
		default:
			return "", nil, fmt.Errorf("canonpath: readlink %q: %w", prefix, err)
		}
	}

	if len(resolved) == 0 {
		return "/", events, nil
	}
	return "/" + strings.Join(resolved, "/"), events, nil
}

// splitSegments splits an absolute path into its non-empty segments,
// so that "//a//./b/" -> ["a", ".", "b"] — the "." and ".." handling
// happens in the caller's queue-processing loop, not here, matching
// the segment-boundary rules in spec.md §4.1 ("//" removal, "/./"
// removal, "/../" removal are all just empty/"."/".." segments once
// split this way).
func splitSegments(path string) []string {
	parts := strings.Split(path, "/")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}
