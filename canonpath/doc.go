// Package canonpath implements the Observer's path canonicalization
// step: reducing any path reference into an absolute, symlink-free
// form while returning one LinkEvent for every symlink expansion it
// performs along the way; the observer reports each LinkEvent as a
// ReadLink access event.
//
// The algorithm is ported from the upstream C++ sandbox's
// resolve_path/normalize_path_at (see original_source in the retrieval
// pack this module was built from) into a Go implementation over a
// queue of path segments — no in-place pointer arithmetic, but the same
// left-to-right segment scan and the same symlink-substitution rules.
package canonpath

import "errors"

// MaxLinkExpansions bounds the number of symlink substitutions a
// single Canonicalize call will perform before giving up. The
// original source has no such bound and will spin forever on a
// symlink cycle; this is the bound this port introduces to resolve
// that open question (see SPEC_FULL.md §9).
const MaxLinkExpansions = 40

// ErrLoopDetected is returned when MaxLinkExpansions is exceeded.
// Callers (observer.Observer) treat this as Fatal per the error
// taxonomy in spec.md §7.
var ErrLoopDetected = errors.New("canonpath: symlink loop detected")

// ErrNotAbsolute is returned when Canonicalize is asked to resolve a
// path that is not already absolute; callers are responsible for
// joining relative paths against a directory (CWD or a dirfd-derived
// path) before calling in — see CanonicalizeAt for that join.
var ErrNotAbsolute = errors.New("canonpath: path is not absolute")
