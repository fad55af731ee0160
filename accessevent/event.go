// Package accessevent defines the event and decision types shared by
// the Observer pipeline. It holds no behavior of its own — every
// exported type here is a plain data shape produced by one package
// (canonpath, policy, report) and consumed by another.
package accessevent

// EventKind identifies the syscall category an Event describes. The
// set mirrors the fixed tag enumeration the real interception layer
// reports (execve, open-family, readlink, write, unlink, rename, probe).
type EventKind int

const (
	KindExec EventKind = iota
	KindOpen
	KindReadLink
	KindWrite
	KindUnlink
	KindRename
	KindProbe
)

// String renders the kind the same way it appears in a framed report
// record's opCode field (see report.Frame).
func (k EventKind) String() string {
	switch k {
	case KindExec:
		return "Exec"
	case KindOpen:
		return "Open"
	case KindReadLink:
		return "ReadLink"
	case KindWrite:
		return "Write"
	case KindUnlink:
		return "Unlink"
	case KindRename:
		return "Rename"
	case KindProbe:
		return "Probe"
	default:
		return "Unknown"
	}
}

// Event describes one observed filesystem-relevant access.
//
// PrimaryPath is always absolute, with every intermediate directory
// symlink resolved, once it reaches the AccessEvaluator — canonpath
// is responsible for that invariant before an Event is constructed
// for anything other than the unresolved half of a ReportExec call.
type Event struct {
	PID  uint32
	PPID uint32

	Kind EventKind

	PrimaryPath   string
	SecondaryPath string

	// ExecutablePath is the absolute path of the reporting process,
	// or — for a Kind == KindExec event — the program being launched.
	ExecutablePath string

	// Mode holds file mode bits from canonpath.ProbeMode, or 0 if
	// unavailable. Advisory only; never affects the decision.
	Mode uint32

	// The following fields are set by whoever constructs the Event
	// (the observer fills in RequestedAccess and Status); policy.Evaluate
	// reads the Event and never modifies it.
	RequestedAccess string
	Status          string
	ReportExplicitly bool
	ErrorCode       int
}

// AccessDecision is the pure output of policy.Evaluate.
type AccessDecision struct {
	Reported bool
	Allowed  bool
	Blocking bool
}

// NotChecked is returned when an access was never evaluated against a
// manifest — e.g. reportAccessByFd on a non-file descriptor (§4.5/§4.9
// of the spec this package implements).
var NotChecked = AccessDecision{Reported: false, Allowed: true, Blocking: false}
