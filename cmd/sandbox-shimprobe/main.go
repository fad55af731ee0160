// Command sandbox-shimprobe is a dry-run harness for the
// shiminjector pipeline: given a raw command line and a match-list
// file, it reports whether the Injector would substitute a shim
// executable, without actually spawning anything.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/scalebuild/sandboxcore/configio"
	"github.com/scalebuild/sandboxcore/shimmatch"
	"github.com/scalebuild/sandboxcore/shiminjector"
)

func main() {
	var (
		matchList        = flag.String("matches", "", "path to a YAML or shim-grammar match-list file")
		shimPath         = flag.String("shim", "", "path to the shim executable")
		shimAllProcesses = flag.Bool("shim-all", false, "substitute the shim for every spawned process")
		workingDir       = flag.String("cwd", "", "working directory the spawn would use")
	)
	flag.Parse()

	if *matchList == "" || *shimPath == "" {
		log.Fatalf("sandbox-shimprobe: -matches and -shim are required")
	}
	if flag.NArg() == 0 {
		log.Fatalf("sandbox-shimprobe: usage: sandbox-shimprobe -matches=... -shim=... \"<command line>\"")
	}
	commandLine := flag.Arg(0)

	matches, err := loadMatches(*matchList)
	if err != nil {
		log.Fatalf("sandbox-shimprobe: %v", err)
	}

	inj, err := shiminjector.New(shiminjector.Config{
		ShimPath:         *shimPath,
		ShimAllProcesses: *shimAllProcesses,
		Matches:          matches,
	})
	if err != nil {
		log.Fatalf("sandbox-shimprobe: build injector: %v", err)
	}

	var spawned *shiminjector.SpawnParams
	dryRunSpawn := func(p shiminjector.SpawnParams) error {
		spawned = &p
		return nil
	}

	injected, err := inj.MaybeInject(commandLine, nil, *workingDir, dryRunSpawn)
	if err != nil {
		log.Fatalf("sandbox-shimprobe: %v", err)
	}

	if !injected {
		fmt.Println("decision: pass-through (no shim substituted)")
		return
	}

	fmt.Println("decision: shim substituted")
	fmt.Printf("  application name: %s\n", spawned.ApplicationName)
	fmt.Printf("  command line:     %s\n", spawned.CommandLine)
}

// loadMatches tries the line-oriented grammar first, falling back to
// YAML — match-list files in the wild are more often hand-authored
// with the compact "shim ... arg ..." DSL than with YAML, so that
// parse is attempted first; a YAML parse failure on genuinely
// shim-grammar input is unlikely to also succeed as YAML, so trying
// both in order is safe.
func loadMatches(path string) ([]shimmatch.ProcessMatch, error) {
	if matches, err := configio.LoadMatchList(path); err == nil {
		return matches, nil
	}
	return configio.LoadYAML(path)
}
