package policy

import (
	"context"

	"github.com/scalebuild/sandboxcore/accessevent"
)

// Evaluate is the AccessEvaluator from spec.md §4.3: a pure, total
// function over an event and a loaded manifest. It performs no I/O
// and never blocks — every rule evaluator was compiled in
// LoadManifest, so Matches only walks in-memory structures.
//
// reported is true iff at least one rule's detection clause matches
// the event. allowed defaults to true (default permissive, manifest
// narrows) and is set false by the first matching rule whose
// access-decision is "deny". blocking holds iff the access ended up
// denied and the manifest was loaded with fail_on_unexpected_access.
func Evaluate(event accessevent.Event, manifest *Manifest) accessevent.AccessDecision {
	fields := projectEvent(event)
	ctx := context.Background()

	reported := false
	allowed := true

	for ruleID, ruleEvaluator := range manifest.evaluators {
		result, err := ruleEvaluator.Matches(ctx, fields)
		if err != nil || !result.Match {
			continue
		}
		reported = true
		if manifest.decisions[ruleID] == "deny" {
			allowed = false
		}
	}

	return accessevent.AccessDecision{
		Reported: reported,
		Allowed:  allowed,
		Blocking: !allowed && manifest.failOnUnexpectedAccess,
	}
}

// projectEvent builds the map[string]interface{} shape sigma-go's
// RuleEvaluator.Matches expects, mirroring the teacher's CheckEvent
// projection of its own process-event rows.
func projectEvent(event accessevent.Event) map[string]interface{} {
	return map[string]interface{}{
		"PrimaryPath":     event.PrimaryPath,
		"SecondaryPath":   event.SecondaryPath,
		"ExecutablePath":  event.ExecutablePath,
		"Operation":       event.Kind.String(),
		"ProcessId":       event.PID,
		"ParentProcessId": event.PPID,
	}
}
