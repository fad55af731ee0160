package shiminjector

import (
	"fmt"
	"os"
	"strings"

	"github.com/scalebuild/sandboxcore/cmdline"
	"github.com/scalebuild/sandboxcore/compilerheuristic"
	"github.com/scalebuild/sandboxcore/shimmatch"
	"github.com/scalebuild/sandboxcore/shimplugin"
)

// SpawnParams is what Injector hands to the platform's process-
// creation primitive once a shim substitution has been decided.
// ApplicationName and CommandLine are computed by MaybeInject per
// spec.md §4.10; Environment and WorkingDirectory are forwarded from
// the caller verbatim. No other process-creation arguments are carried.
type SpawnParams struct {
	ApplicationName  string
	CommandLine      string
	Environment      []string
	WorkingDirectory string
}

// SpawnFunc performs the actual OS process creation. injector_windows.go
// supplies the real implementation over golang.org/x/sys/windows;
// injector_other.go supplies a platform-unsupported stub, since the
// Injector's target (detoured Windows process creation) has no POSIX
// analogue.
type SpawnFunc func(params SpawnParams) error

// Injector runs the full shim-substitution pipeline: command
// splitting, process-name matching, plugin polarity, the compiler
// heuristic, and command-line rewriting, for one process about to
// spawn a child. It is single-threaded per call, matching spec.md §5
// ("the caller holds no locks").
type Injector struct {
	cfg            Config
	engine         *shimmatch.Engine
	minParallelism minParallelismCache
}

// New builds an Injector from cfg. Config is expected to be loaded
// once, lazily, by the caller (spec.md §5's "global configuration is
// loaded lazily").
func New(cfg Config) (*Injector, error) {
	engine, err := shimmatch.NewEngine(cfg.Matches, cfg.MatchCacheSize)
	if err != nil {
		return nil, fmt.Errorf("shiminjector: build match engine: %w", err)
	}
	return &Injector{cfg: cfg, engine: engine}, nil
}

// MaybeInject runs rawCommandLine through the full decision pipeline
// and, if a shim substitution is warranted, invokes spawn with the
// rewritten application name and command line. injectedShim reports
// whether the substitution ran; when false the caller must proceed
// with its own normal (detoured) process creation, per spec.md §6's
// "Process-creation fallback".
func (inj *Injector) MaybeInject(rawCommandLine string, environment []string, workingDirectory string, spawn SpawnFunc) (injectedShim bool, err error) {
	command, commandArgs := cmdline.Split(rawCommandLine)
	if command == "" {
		return false, nil
	}

	processMatched, err := inj.engine.Match(command, commandArgs)
	if err != nil {
		return false, fmt.Errorf("shiminjector: match command: %w", err)
	}

	replaceCommandName := false

	shouldShim, err := inj.decide(command, commandArgs, processMatched, environment, workingDirectory, &commandArgs, &replaceCommandName)
	if err != nil {
		return false, err
	}
	if !shouldShim {
		return false, nil
	}

	applicationName := inj.cfg.ShimPath
	if replaceCommandName {
		applicationName = conformShimFileNameToTool(inj.cfg.ShimPath, command)
	}

	if err := spawn(SpawnParams{
		ApplicationName:  applicationName,
		CommandLine:      buildCommandLine(command, commandArgs),
		Environment:      environment,
		WorkingDirectory: workingDirectory,
	}); err != nil {
		return false, fmt.Errorf("shiminjector: spawn shim: %w", err)
	}
	return true, nil
}

// decide implements the gating between the compiler heuristic and the
// ordinary plugin-polarity table: the heuristic only ever runs when
// shimAllProcesses is false, the process matched, and the command
// looks like a cl.exe invocation (spec.md §4.9) — any other
// combination falls through to shimplugin.Decide's table (spec.md
// §4.8). A heuristic run overrides the table's answer entirely,
// including rewriting commandArgs in place via the *string out
// parameter, matching the original's in-place commandArgs mutation.
func (inj *Injector) decide(command, commandArgs string, processMatched bool, environment []string, workingDirectory string, rewrittenArgs *string, replaceCommandName *bool) (bool, error) {
	if !inj.cfg.ShimAllProcesses && processMatched && compilerheuristic.Applies(command, commandArgs) {
		result, err := compilerheuristic.Analyze(command, commandArgs, inj.minParallelism.Get())
		if err != nil {
			return false, fmt.Errorf("shiminjector: compiler heuristic: %w", err)
		}
		if result.Shim {
			*rewrittenArgs = result.RewrittenArgs
			*replaceCommandName = result.ReplaceCommandNameForTrackedBuildEngine
		}
		return result.Shim, nil
	}

	return shimplugin.Decide(
		inj.cfg.ShimAllProcesses,
		processMatched,
		inj.cfg.PluginFilter,
		command,
		commandArgs,
		environment,
		workingDirectory,
		os.Environ,
		os.Getwd,
	)
}

// buildCommandLine renders the shim's received command line exactly
// per spec.md §4.10: the original command always quoted, a single
// space, then the (possibly rewritten) arguments.
func buildCommandLine(command, commandArgs string) string {
	return `"` + command + `" ` + commandArgs
}

// conformShimFileNameToTool builds the applicationName the "tracked
// build engine" branch uses: the shim's own directory, but the
// original tool's basename, so a file-path-based tracker believes the
// shim is the tool it expects (spec.md §4.10).
func conformShimFileNameToTool(shimPath, originalCommand string) string {
	dir := windowsDir(shimPath)
	base := windowsBase(originalCommand)
	if dir == "" {
		return base
	}
	return dir + `\` + base
}

func windowsDir(path string) string {
	idx := strings.LastIndexAny(path, `\/`)
	if idx == -1 {
		return ""
	}
	return path[:idx]
}

func windowsBase(path string) string {
	idx := strings.LastIndexAny(path, `\/`)
	if idx == -1 {
		return path
	}
	return path[idx+1:]
}
