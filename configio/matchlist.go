// Package configio loads ShimProcessMatch lists (spec.md §4.7) from
// two concrete file formats: a small YAML document, and a compact
// line-oriented match-list grammar parsed with a participle grammar —
// useful for build engines that hand-author a short rule file rather
// than reach for YAML.
package configio

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle"
	"gopkg.in/yaml.v3"

	"github.com/scalebuild/sandboxcore/shimmatch"
)

// yamlMatch mirrors shimmatch.ProcessMatch with YAML tags; kept
// separate so shimmatch itself carries no serialization concerns.
type yamlMatch struct {
	ProcessName   string `yaml:"process_name"`
	ArgumentMatch string `yaml:"argument_match"`
}

type yamlMatchList struct {
	Matches []yamlMatch `yaml:"matches"`
}

// LoadYAML reads a YAML document of the form:
//
//	matches:
//	  - process_name: cmd.exe
//	  - process_name: cl.exe
//	    argument_match: /showIncludes
func LoadYAML(path string) ([]shimmatch.ProcessMatch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("configio: read %s: %w", path, err)
	}

	var doc yamlMatchList
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("configio: parse %s: %w", path, err)
	}

	matches := make([]shimmatch.ProcessMatch, 0, len(doc.Matches))
	for _, m := range doc.Matches {
		matches = append(matches, shimmatch.ProcessMatch{
			ProcessName:   m.ProcessName,
			ArgumentMatch: m.ArgumentMatch,
		})
	}
	return matches, nil
}

// matchFile is the participle grammar for the line-oriented DSL:
//
//	shim "cmd.exe"
//	shim "cl.exe" arg "/showIncludes"
type matchFile struct {
	Rules []*matchRule `parser:"@@*"`
}

type matchRule struct {
	ProcessName   string  `parser:"'shim' @String"`
	ArgumentMatch *string `parser:"('arg' @String)?"`
}

var matchListParser = buildMatchListParser()

func buildMatchListParser() *participle.Parser {
	parser, err := participle.Build(&matchFile{})
	if err != nil {
		panic(fmt.Sprintf("configio: build match-list grammar: %v", err))
	}
	return parser
}

// LoadMatchList parses the compact "shim ... arg ..." grammar from
// path into a ProcessMatch list.
func LoadMatchList(path string) ([]shimmatch.ProcessMatch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("configio: read %s: %w", path, err)
	}

	var file matchFile
	if err := matchListParser.ParseString(string(raw), &file); err != nil {
		return nil, fmt.Errorf("configio: parse %s: %w", path, err)
	}

	matches := make([]shimmatch.ProcessMatch, 0, len(file.Rules))
	for _, rule := range file.Rules {
		m := shimmatch.ProcessMatch{ProcessName: unquote(rule.ProcessName)}
		if rule.ArgumentMatch != nil {
			m.ArgumentMatch = unquote(*rule.ArgumentMatch)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// unquote strips a pair of enclosing double quotes if present; the
// grammar's String token may or may not retain them depending on the
// lexer's tokenization, so this is defensive either way.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
