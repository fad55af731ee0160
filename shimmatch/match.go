// Package shimmatch implements the MatchEngine from spec.md §4.7:
// deciding whether a spawned command's process name and arguments
// match one configured ShimProcessMatch entry.
package shimmatch

import "strings"

// ProcessMatch is one configured match rule: a process name to anchor
// against the command, and an optional substring (or expr:-prefixed
// expression, see ArgumentMatch) the command's arguments must
// contain.
type ProcessMatch struct {
	ProcessName   string
	ArgumentMatch string
}

// isDirSeparator reports whether r is a path separator under either
// Windows or POSIX conventions — the injector's real target is
// Windows command lines, but this keeps the anchoring rule usable in
// tests built on any platform.
func isDirSeparator(r byte) bool {
	return r == '\\' || r == '/'
}

// matchProcessName implements the anchoring rule from spec.md §4.7:
// an exact case-insensitive match when processName and command are
// the same length, or a suffix match preceded by a directory
// separator when processName is shorter.
func matchProcessName(processName, command string) bool {
	pLen := len(processName)
	cLen := len(command)

	switch {
	case pLen == cLen:
		return strings.EqualFold(processName, command)
	case pLen < cLen:
		sepIndex := cLen - pLen - 1
		if sepIndex < 0 || !isDirSeparator(command[sepIndex]) {
			return false
		}
		return strings.EqualFold(command[cLen-pLen:], processName)
	default:
		return false
	}
}

// Match reports whether command/commandArgs satisfies rule: the
// process-name anchoring rule must hit, and, when rule.ArgumentMatch
// is non-empty, EvaluateArgumentMatch(rule.ArgumentMatch, commandArgs)
// must also hold.
func Match(rule ProcessMatch, command, commandArgs string) (bool, error) {
	if !matchProcessName(rule.ProcessName, command) {
		return false, nil
	}
	if rule.ArgumentMatch == "" {
		return true, nil
	}
	return EvaluateArgumentMatch(rule.ArgumentMatch, commandArgs)
}

// MatchAny evaluates rules in order and stops at the first match, as
// spec.md §4.7 requires ("Stop at the first overall match").
func MatchAny(rules []ProcessMatch, command, commandArgs string) (bool, error) {
	for _, rule := range rules {
		matched, err := Match(rule, command, commandArgs)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
