package shimmatch

import (
	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize bounds Engine's process-name decision cache. Build
// engines commonly re-spawn the same handful of tool paths (cmd.exe,
// cl.exe, link.exe, ...) thousands of times per build; this is sized
// generously above that working set.
const DefaultCacheSize = 4096

// Engine evaluates a fixed set of ProcessMatch rules against spawned
// commands, caching the process-name anchoring half of the decision
// per distinct command string the same way the teacher's binary.Cache
// wraps an LRU around binary-hash lookups.
//
// Caching only ever short-circuits matchProcessName: ArgumentMatch is
// always re-evaluated against the current commandArgs, so a cache hit
// never returns a stale argument-dependent answer.
type Engine struct {
	rules []ProcessMatch
	cache *lru.Cache
}

// NewEngine builds an Engine for rules, backed by an LRU cache of the
// given size. A size of 0 falls back to DefaultCacheSize.
func NewEngine(rules []ProcessMatch, size int) (*Engine, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: rules, cache: cache}, nil
}

// processNameHit returns the configured rules whose process name
// anchors onto command, in configuration order, consulting (and
// populating) the cache.
func (e *Engine) processNameHit(command string) []ProcessMatch {
	if cached, ok := e.cache.Get(command); ok {
		return cached.([]ProcessMatch)
	}

	var hits []ProcessMatch
	for _, rule := range e.rules {
		if matchProcessName(rule.ProcessName, command) {
			hits = append(hits, rule)
		}
	}
	e.cache.Add(command, hits)
	return hits
}

// Match reports whether command/commandArgs matches any rule in the
// engine, honoring the "stop at the first overall match" rule from
// spec.md §4.7 among the process-name hits for this command.
func (e *Engine) Match(command, commandArgs string) (bool, error) {
	for _, rule := range e.processNameHit(command) {
		if rule.ArgumentMatch == "" {
			return true, nil
		}
		matched, err := EvaluateArgumentMatch(rule.ArgumentMatch, commandArgs)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
