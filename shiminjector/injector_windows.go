//go:build windows

package shiminjector

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// RealCreateProcess is the SpawnFunc backed by the real Windows
// process-creation primitive. Besides application name and command
// line it passes only params.Environment and params.WorkingDirectory;
// the security attributes are nil, handles are not inherited, the
// creation flags are CREATE_UNICODE_ENVIRONMENT only, and a zero
// StartupInfo is used.
func RealCreateProcess(params SpawnParams) error {
	appName, err := windows.UTF16PtrFromString(params.ApplicationName)
	if err != nil {
		return fmt.Errorf("shiminjector: encode application name: %w", err)
	}
	cmdLine, err := windows.UTF16PtrFromString(params.CommandLine)
	if err != nil {
		return fmt.Errorf("shiminjector: encode command line: %w", err)
	}

	var envBlock *uint16
	if params.Environment != nil {
		block, err := buildEnvironmentBlock(params.Environment)
		if err != nil {
			return fmt.Errorf("shiminjector: encode environment: %w", err)
		}
		envBlock = block
	}

	var workingDir *uint16
	if params.WorkingDirectory != "" {
		wd, err := windows.UTF16PtrFromString(params.WorkingDirectory)
		if err != nil {
			return fmt.Errorf("shiminjector: encode working directory: %w", err)
		}
		workingDir = wd
	}

	var startupInfo windows.StartupInfo
	var processInfo windows.ProcessInformation

	err = windows.CreateProcess(
		appName,
		cmdLine,
		nil,
		nil,
		false,
		windows.CREATE_UNICODE_ENVIRONMENT,
		envBlock,
		workingDir,
		&startupInfo,
		&processInfo,
	)
	if err != nil {
		return fmt.Errorf("shiminjector: CreateProcess: %w", err)
	}
	windows.CloseHandle(processInfo.Thread)
	windows.CloseHandle(processInfo.Process)
	return nil
}

// buildEnvironmentBlock renders a "KEY=VALUE" slice into the
// double-null-terminated wide-character block CreateProcess expects.
func buildEnvironmentBlock(environment []string) (*uint16, error) {
	var block []uint16
	for _, kv := range environment {
		encoded, err := windows.UTF16FromString(kv)
		if err != nil {
			return nil, err
		}
		block = append(block, encoded...) // includes the trailing NUL
	}
	block = append(block, 0) // final extra NUL terminates the block
	return &block[0], nil
}
