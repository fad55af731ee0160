//go:build !windows

package observer

import (
	"fmt"
	"log"
	"os"

	"github.com/scalebuild/sandboxcore/accessevent"
	"github.com/scalebuild/sandboxcore/canonpath"
	"github.com/scalebuild/sandboxcore/policy"
	"github.com/scalebuild/sandboxcore/report"
)

// Observer is the process-wide singleton spec.md §5 describes: one
// instance per monitored process, constructed once by New and called
// into from every intercepted syscall for the rest of the process's
// life. It holds no mutable state beyond what its fields already fix
// at construction — the manifest is read-only, and every report write
// opens and closes the channel independently, so concurrent callers
// from different threads need no lock of their own.
type Observer struct {
	manifest *policy.Manifest
	channel  *report.Channel
	progName string
	logger   *log.Logger
	rootPID  int
}

// New constructs the Observer for the current process: loads the
// manifest named by cfg.FAMPath and binds the report channel named by
// cfg.ReportPath. Any failure here is a ConfigError per spec.md §7 and
// is fatal — there is no degraded mode for a process that cannot load
// its policy.
func New(cfg Config) (*Observer, error) {
	manifest, err := policy.LoadManifest(cfg.FAMPath)
	if err != nil {
		return nil, fmt.Errorf("observer: load manifest: %w", err)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if cfg.LogPath != "" {
		f, err := os.OpenFile(cfg.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return nil, fmt.Errorf("observer: open log path %s: %w", cfg.LogPath, err)
		}
		logger = log.New(f, "", log.LstdFlags)
	}

	return &Observer{
		manifest: manifest,
		channel:  report.NewChannel(cfg.ReportPath),
		progName: cfg.ProgramName,
		logger:   logger,
		rootPID:  cfg.RootPID,
	}, nil
}

// emit evaluates event against the manifest, frames the decided
// record, and appends it to the report channel. A channel failure is
// fatal per spec.md §5/§7: a missed report is a correctness hole in
// the downstream orchestrator, so emit terminates the host process
// rather than swallow the error.
func (o *Observer) emit(event accessevent.Event) accessevent.AccessDecision {
	decision := policy.Evaluate(event, o.manifest)

	record, err := report.Frame(event, decision, o.progName)
	if err != nil {
		o.logger.Fatalf("observer: frame event: %v", err)
	}
	if err := o.channel.Write(record); err != nil {
		o.logger.Fatalf("observer: write report channel: %v", err)
	}
	return decision
}

// ReportExec implements spec.md §4.5's reportExec: it emits an Exec
// event naming procName exactly as received — unresolved, so the
// process's raw identity reaches the channel before any path
// resolution work — followed by a second Exec event for the
// canonicalized file path (scenario S2).
func (o *Observer) ReportExec(syscallName, procName, file string) accessevent.AccessDecision {
	o.emit(accessevent.Event{
		Kind:           accessevent.KindExec,
		PrimaryPath:    procName,
		ExecutablePath: procName,
		RequestedAccess: syscallName,
		Status:          "success",
	})

	canonical, _, err := canonpath.Canonicalize(file, true)
	if err != nil {
		o.logger.Fatalf("observer: canonicalize exec target %s: %v", file, err)
	}
	return o.emit(accessevent.Event{
		Kind:            accessevent.KindExec,
		PrimaryPath:     canonical,
		ExecutablePath:  canonical,
		RequestedAccess: syscallName,
		Status:          "success",
	})
}

// ReportAccessByPath implements spec.md §4.5's reportAccessByPath:
// canonicalize path and emit one event of the given kind.
func (o *Observer) ReportAccessByPath(syscallName string, kind accessevent.EventKind, path string, followFinalSymlink bool) accessevent.AccessDecision {
	canonical, links, err := canonpath.Canonicalize(path, followFinalSymlink)
	if err != nil {
		o.logger.Fatalf("observer: canonicalize %s: %v", path, err)
	}
	o.reportSymlinkExpansions(syscallName, links)

	return o.emit(accessevent.Event{
		Kind:            kind,
		PrimaryPath:     canonical,
		RequestedAccess: syscallName,
		Status:          "success",
	})
}

// fdToPath is a package variable (rather than a direct call to
// canonpath.FDToPath) purely so tests in this package can substitute a
// fake fd->path mapping without touching the real filesystem.
var fdToPath = canonpath.FDToPath

// ReportAccessByFd implements spec.md §4.5's reportAccessByFd: resolve
// fd to a path. If the fd does not map to an absolute path (a
// non-file descriptor such as a socket), the event is suppressed and
// the NotChecked sentinel decision is returned without touching the
// report channel.
func (o *Observer) ReportAccessByFd(syscallName string, kind accessevent.EventKind, fd int) accessevent.AccessDecision {
	path, err := fdToPath(fd)
	if err != nil || len(path) == 0 || path[0] != '/' {
		return accessevent.NotChecked
	}

	canonical, links, err := canonpath.Canonicalize(path, true)
	if err != nil {
		o.logger.Fatalf("observer: canonicalize fd %d path %s: %v", fd, path, err)
	}
	o.reportSymlinkExpansions(syscallName, links)

	return o.emit(accessevent.Event{
		Kind:            kind,
		PrimaryPath:     canonical,
		RequestedAccess: syscallName,
		Status:          "success",
	})
}

// ReportAccessAt implements spec.md §4.5's reportAccessAt: join dirfd
// and name, then canonicalize and emit. A failure to resolve an
// explicitly referenced dirfd is a PathResolutionError per §7 and is
// fatal — the access cannot be correctly reported without it.
func (o *Observer) ReportAccessAt(syscallName string, kind accessevent.EventKind, dirfd int, name string, followFinalSymlink bool) accessevent.AccessDecision {
	canonical, links, err := canonpath.CanonicalizeAt(dirfd, name, followFinalSymlink)
	if err != nil {
		o.logger.Fatalf("observer: canonicalize-at dirfd=%d name=%s: %v", dirfd, name, err)
	}
	o.reportSymlinkExpansions(syscallName, links)

	return o.emit(accessevent.Event{
		Kind:            kind,
		PrimaryPath:     canonical,
		RequestedAccess: syscallName,
		Status:          "success",
	})
}

// reportSymlinkExpansions emits one ReadLink event per symlink
// canonpath resolved along the way, satisfying property 3 (symlink
// event parity) at the Observer boundary.
func (o *Observer) reportSymlinkExpansions(syscallName string, links []canonpath.LinkEvent) {
	for _, link := range links {
		o.emit(accessevent.Event{
			Kind:            accessevent.KindReadLink,
			PrimaryPath:     link.Path,
			RequestedAccess: syscallName,
			Status:          "success",
		})
	}
}
