//go:build !windows

package shiminjector

import "errors"

// ErrUnsupportedPlatform is returned by RealCreateProcess on any
// platform other than Windows — the Injector's target is Windows
// process creation (spec.md §1), so there is no POSIX equivalent to
// fall back to.
var ErrUnsupportedPlatform = errors.New("shiminjector: shim process creation is only supported on windows")

// RealCreateProcess is a stand-in SpawnFunc on non-Windows builds so
// this package still compiles cross-platform (useful for exercising
// MaybeInject's decision pipeline in tests on any OS); it always
// fails, since there is no process to create here.
func RealCreateProcess(params SpawnParams) error {
	return ErrUnsupportedPlatform
}
