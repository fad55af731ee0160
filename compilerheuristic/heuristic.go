// Package compilerheuristic implements the CompilerHeuristic from
// spec.md §4.9: estimating a cl.exe invocation's input count to decide
// whether it clears a configured minParallelism threshold, including
// the response-file handling and the exact "@…"-splicing rewrite.
package compilerheuristic

import (
	"log"
	"strings"

	ahocorasick "github.com/BobuSumisu/aho-corasick"
)

// inputPatterns are counted, case-insensitively and non-overlapping,
// the same way the original's CountMatches(s, find, findLen) scans:
// ".c " deliberately misses a .c file at the very end of a string —
// a known limitation of the original heuristic, preserved here rather
// than "fixed", since this port's job is behavioral parity.
var inputPatterns = []string{".cpp", ".c ", ".idl"}

var inputTrie = ahocorasick.NewTrieBuilder().
	AddStrings(inputPatterns).
	Build()

// countInputs counts non-overlapping, case-insensitive occurrences of
// inputPatterns in s, matching CountMatches' "advance past the match"
// scan exactly (a library match landing inside a just-counted match
// is skipped, the same way the original's StrStrI resumes the search
// at current+findLen rather than current+1).
func countInputs(s string) int {
	matches := inputTrie.MatchString(strings.ToLower(s))

	count := 0
	nextAllowed := int64(0)
	for _, m := range matches {
		if m.Pos() < nextAllowed {
			continue
		}
		count++
		nextAllowed = m.Pos() + int64(len(m.Match()))
	}
	return count
}

// Result is what Analyze returns.
type Result struct {
	Shim          bool
	RewrittenArgs string

	// ReplaceCommandNameForTrackedBuildEngine is set on the direct
	// cl.exe branch (not Tracker.exe) per spec.md §4.9, instructing
	// the Injector to present the shim under the original tool's
	// filename (spec.md §4.10).
	ReplaceCommandNameForTrackedBuildEngine bool
}

// analysisWindow locates where within commandArgs the cl.exe analysis
// should begin: index 0 for a direct cl.exe invocation, or the
// position of "cl.exe" within commandArgs for a Tracker.exe wrapper.
// ok is false when command doesn't trigger the heuristic at all, or
// triggers as Tracker.exe but no cl.exe substring is found in its
// arguments.
func analysisWindow(command, commandArgs string) (start int, trackedBuildEngine bool, ok bool) {
	lower := strings.ToLower(command)

	if strings.HasSuffix(lower, "tracker.exe") {
		idx := strings.Index(strings.ToLower(commandArgs), "cl.exe")
		if idx == -1 {
			return 0, false, false
		}
		return idx, false, true
	}

	if strings.HasSuffix(lower, "cl.exe") {
		return 0, true, true
	}

	return 0, false, false
}

// Applies reports whether command/commandArgs would trigger the
// compiler heuristic at all — a direct cl.exe invocation, or a
// Tracker.exe wrapper whose arguments contain cl.exe. Callers (the
// injector) use this to decide whether the heuristic's decision
// should override the ordinary process/plugin match polarity table,
// per spec.md §4.9's gating on the process-match result.
func Applies(command, commandArgs string) bool {
	_, _, ok := analysisWindow(command, commandArgs)
	return ok
}

// Analyze implements spec.md §4.9. minParallelism is passed in by the
// caller (shiminjector), which is responsible for reading and caching
// __ANYBUILD_MINPARALLELISM per spec.md §6/§9.
func Analyze(command, commandArgs string, minParallelism int) (Result, error) {
	start, trackedBuildEngine, ok := analysisWindow(command, commandArgs)
	if !ok {
		return Result{}, nil
	}

	window := commandArgs[start:]
	numInputs := countInputs(window)

	tokenStart, tokenEnd, rspPath, hasToken := locateResponseFileToken(commandArgs, start)

	var decoded string
	if hasToken {
		raw, err := readResponseFile(rspPath)
		if err != nil {
			// ShimReadError per spec.md §7: logged here and treated
			// as "no inputs found" — the heuristic proceeds with the
			// direct-argument count only.
			log.Printf("compilerheuristic: read response file %s: %v", rspPath, err)
			hasToken = false
		} else {
			decoded = decodeResponseFileBytes(raw)
			numInputs += countInputs(decoded)
		}
	}

	if numInputs < 1 {
		// Conform to managed-code semantics: every command is assumed
		// to carry at least parallelism 1.
		numInputs = 1
	}

	if numInputs < minParallelism {
		return Result{Shim: false}, nil
	}

	rewrittenArgs := commandArgs
	if hasToken {
		rewrittenArgs = commandArgs[:tokenStart] + decoded + commandArgs[tokenEnd:]
	}

	return Result{
		Shim:          true,
		RewrittenArgs: rewrittenArgs,
		ReplaceCommandNameForTrackedBuildEngine: trackedBuildEngine,
	}, nil
}
