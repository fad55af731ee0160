// Package shimplugin implements the PluginFilter polarity table from
// spec.md §4.8: combining an optional external plugin predicate with
// the process-name match result according to shimAllProcesses.
package shimplugin

// Filter is the external plugin predicate: given the command, its
// arguments, the effective environment, and working directory, it
// returns whether the process matches the plugin's own criteria. A
// nil Filter means no plugin is configured.
type Filter func(command, commandArgs string, environment []string, workingDirectory string) (bool, error)

// resolveEnv and resolveWorkingDir resolve the "null pointer means use current"
// substitution spec.md §4.8 describes: when the caller passes a nil
// environment or empty working directory, the plugin receives the
// process's own.
func resolveEnv(environment []string, currentEnv func() []string) []string {
	if environment != nil {
		return environment
	}
	return currentEnv()
}

func resolveWorkingDir(workingDirectory string, currentWorkingDir func() (string, error)) (string, error) {
	if workingDirectory != "" {
		return workingDirectory, nil
	}
	return currentWorkingDir()
}

// Decide implements the full table from spec.md §4.8:
//
//	shimAllProcesses | matches empty? | Rule
//	false             | yes            | shim iff plugin returns true
//	true              | yes            | shim iff plugin returns false (plugin is exclusion)
//	false             | no             | shim iff processMatch OR pluginMatch
//	true              | no             | shim iff NOT processMatch AND NOT pluginMatch
//
// "matches empty" means no process-match rule is configured, so
// processMatched is always false and the plugin result alone decides.
// When filter is nil there is no plugin at all, and the decision rests
// entirely on shimAllProcesses and processMatched.
func Decide(shimAllProcesses, processMatched bool, filter Filter, command, commandArgs string, environment []string, workingDirectory string, currentEnv func() []string, currentWorkingDir func() (string, error)) (bool, error) {
	if filter == nil {
		if shimAllProcesses {
			return !processMatched, nil
		}
		return processMatched, nil
	}

	env := resolveEnv(environment, currentEnv)
	workingDir, err := resolveWorkingDir(workingDirectory, currentWorkingDir)
	if err != nil {
		return false, err
	}

	pluginMatched, err := filter(command, commandArgs, env, workingDir)
	if err != nil {
		return false, err
	}

	if shimAllProcesses {
		return !processMatched && !pluginMatched, nil
	}
	return processMatched || pluginMatched, nil
}
