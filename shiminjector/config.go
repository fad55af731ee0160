// Package shiminjector implements the Injector from spec.md §3/§4.10:
// the shim-substitution decision pipeline a process about to spawn a
// child runs through, and the OS process-creation call that either
// launches the shim or falls through to the original spawn.
package shiminjector

import (
	"os"
	"strconv"

	"github.com/scalebuild/sandboxcore/shimmatch"
	"github.com/scalebuild/sandboxcore/shimplugin"
)

// envMinParallelism is read once per process and cached — spec.md §6
// names it __ANYBUILD_MINPARALLELISM and §5/§9 note the original's
// cache is not thread-safe. That is preserved deliberately: the
// Injector runs single-threaded per call on the caller's own thread
// (no internal locking the original has either), so a data race here
// would only ever surface under a usage pattern the source itself
// never supported.
const envMinParallelism = "__ANYBUILD_MINPARALLELISM"

// minParallelismCache mirrors g_ParsedMinParallelism/g_MinParallelism:
// read-once, process-lifetime cache with no synchronization.
type minParallelismCache struct {
	parsed bool
	value  int
}

func (c *minParallelismCache) Get() int {
	if !c.parsed {
		c.value, _ = strconv.Atoi(os.Getenv(envMinParallelism))
		c.parsed = true
	}
	return c.value
}

// Config is the ShimConfig from spec.md §2/§3: the process-wide,
// lazily-loaded configuration governing shim substitution decisions.
type Config struct {
	// ShimPath is the executable substituted for a matched spawn.
	ShimPath string

	// ShimAllProcesses flips the polarity of the process/plugin match
	// per spec.md §4.8's table (opt-out list vs. opt-in list).
	ShimAllProcesses bool

	// Matches is the configured ShimProcessMatch list (spec.md §4.7).
	Matches []shimmatch.ProcessMatch

	// PluginFilter is the optional external plugin predicate (spec.md
	// §4.8). nil means no plugin configured.
	PluginFilter shimplugin.Filter

	// MatchCacheSize overrides shimmatch.DefaultCacheSize when > 0.
	MatchCacheSize int
}
