package process

import (
	"errors"
	"fmt"
)

var (
	ErrSpawn         = errors.New("command could not be started")
	ErrCommandFailed = errors.New("command failed")
	ErrEmptyCommand  = errors.New("empty command")
)

// Returned when the executable cannot be launched at all (missing binary,
// permission denied). A process that starts and exits nonzero is not a spawn
// error.
type SpawnError struct {
	Args []string // Command that was attempted.
	Err  error    // Underlying cause from the operating system.
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSpawn, Quote(e.Args), e.Err)
}

func (e *SpawnError) Unwrap() []error {
	return []error{ErrSpawn, e.Err}
}

// Returned when a command exits nonzero and the call site did not allow it.
type CommandError struct {
	Args     []string // Command that failed.
	ExitCode int      // Exit code reported by the process.
	Stderr   string   // Captured standard error, for diagnostics.
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s (exit=%d): %s", ErrCommandFailed, e.ExitCode, Quote(e.Args))
}

func (e *CommandError) Unwrap() error {
	return ErrCommandFailed
}
