// Package policy implements the Observer's AccessEvaluator: a pure,
// total function from an accessevent.Event and a loaded Manifest to an
// accessevent.AccessDecision.
//
// The manifest format itself is explicitly out of scope ("FAM" is
// external per the build orchestrator's contract); this package
// implements one concrete realization of it as a directory of Sigma
// rule files, reusing the teacher's bradleyjkemp/sigma-go plumbing
// (sigma/sigma.go) rather than inventing a bespoke rule language.
package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sigma "github.com/bradleyjkemp/sigma-go"
	"github.com/bradleyjkemp/sigma-go/evaluator"
	"gopkg.in/yaml.v3"
)

// ErrEmptyManifest is returned by LoadManifest when the rules
// directory contains no usable rule files — the manifest invariant in
// spec.md §2 requires a non-empty manifest.
var ErrEmptyManifest = fmt.Errorf("policy: manifest has no rules")

// manifestConfig is the top-level document LoadManifest reads: a
// small index naming where the actual Sigma rules live and whether an
// unexpected (denied) access should be treated as blocking.
type manifestConfig struct {
	RulesDir               string `yaml:"rules_dir"`
	FailOnUnexpectedAccess bool   `yaml:"fail_on_unexpected_access"`
}

// ruleMeta captures the one field sigma.Rule itself doesn't model:
// the access decision this rule expresses when it matches. Parsed
// from the same YAML bytes sigma.ParseRule consumes, independently,
// so this package never needs to reach into sigma-go's internal
// struct layout.
type ruleMeta struct {
	ID             string `yaml:"id"`
	AccessDecision string `yaml:"access-decision"`
}

// Manifest is the opaque, immutable policy document the Observer
// singleton loads once at process start (spec.md §2). Every field is
// unexported and set only by LoadManifest — there is no mutator,
// matching the "never mutated after load" invariant.
type Manifest struct {
	evaluators             map[string]*evaluator.RuleEvaluator
	decisions              map[string]string
	failOnUnexpectedAccess bool
}

// sigmaFieldConfig maps the event projection Evaluate builds (see
// evaluator.go) onto the field names a rule's detection clause may
// reference. Kept fixed rather than configurable — every manifest
// realized by this package describes the same event shape.
func sigmaFieldConfig() sigma.Config {
	return sigma.Config{
		Title: "sandboxcore access policy",
		FieldMappings: map[string]sigma.FieldMapping{
			"PrimaryPath":      {TargetNames: []string{"PrimaryPath"}},
			"SecondaryPath":    {TargetNames: []string{"SecondaryPath"}},
			"ExecutablePath":   {TargetNames: []string{"ExecutablePath"}},
			"Operation":        {TargetNames: []string{"Operation"}},
			"ProcessId":        {TargetNames: []string{"ProcessId"}},
			"ParentProcessId":  {TargetNames: []string{"ParentProcessId"}},
		},
	}
}

// LoadManifest reads a manifest index file at path — a small YAML
// document naming a rules directory and the fail-on-unexpected-access
// flag — and compiles every *.yml/*.yaml rule file in that directory
// into a sigma-go evaluator.
//
// Unlike the teacher's sigma.Detector, LoadManifest does not install a
// filesystem watcher: the Manifest is immutable after init per
// spec.md §2, so a live-reload path would violate the contract this
// package implements (see DESIGN.md).
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy: read manifest %s: %w", path, err)
	}

	var cfg manifestConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("policy: parse manifest %s: %w", path, err)
	}
	if cfg.RulesDir == "" {
		return nil, fmt.Errorf("policy: manifest %s: rules_dir is required", path)
	}
	rulesDir := cfg.RulesDir
	if !filepath.IsAbs(rulesDir) {
		rulesDir = filepath.Join(filepath.Dir(path), rulesDir)
	}

	entries, err := os.ReadDir(rulesDir)
	if err != nil {
		return nil, fmt.Errorf("policy: read rules dir %s: %w", rulesDir, err)
	}

	m := &Manifest{
		evaluators:             make(map[string]*evaluator.RuleEvaluator),
		decisions:              make(map[string]string),
		failOnUnexpectedAccess: cfg.FailOnUnexpectedAccess,
	}
	fieldConfig := sigmaFieldConfig()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}

		filePath := filepath.Join(rulesDir, entry.Name())
		content, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("policy: read rule %s: %w", filePath, err)
		}

		rule, err := sigma.ParseRule(content)
		if err != nil {
			return nil, fmt.Errorf("policy: parse rule %s: %w", filePath, err)
		}

		var meta ruleMeta
		if err := yaml.Unmarshal(content, &meta); err != nil {
			return nil, fmt.Errorf("policy: parse rule metadata %s: %w", filePath, err)
		}
		decision := strings.ToLower(meta.AccessDecision)
		if decision == "" {
			decision = "allow"
		}

		ruleEvaluator := evaluator.ForRule(rule, evaluator.WithConfig(fieldConfig))
		m.evaluators[rule.ID] = ruleEvaluator
		m.decisions[rule.ID] = decision
	}

	if len(m.evaluators) == 0 {
		return nil, ErrEmptyManifest
	}
	return m, nil
}
