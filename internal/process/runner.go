package process

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Interval between exit polls while a process runs.
const DefaultPollInterval = 100 * time.Millisecond

// Describes one command to spawn.
type Invocation struct {
	Args   []string  // Argument vector; Args[0] is the executable.
	Dir    string    // Working directory. Empty uses the current directory.
	Env    []string  // Extra "KEY=value" entries on top of the host environment.
	Stdin  io.Reader // Standard input. Nil leaves it disconnected.
	Stdout io.Writer // Receives each stdout line as it is drained.
	Stderr io.Writer // Receives each stderr line as it is drained.
	Echo   io.Writer // Live echo of both streams. Nil disables echo.
}

// Output of a completed command.
type Result struct {
	Stdout   string // Concatenated standard output, in emission order.
	Stderr   string // Concatenated standard error, in emission order.
	ExitCode int    // Exit code, or -1 if the process was killed by a signal.
}

// Spawns commands and captures their output.
type Runner struct {
	PollInterval time.Duration // Zero uses [DefaultPollInterval].
}

// Creates a [Runner] with the default poll interval.
func NewRunner() *Runner {
	return &Runner{PollInterval: DefaultPollInterval}
}

// Runs the invocation to completion and returns its captured output.
//
// The process writes into two OS pipes, each drained by its own goroutine
// into a queue. The caller's goroutine wakes every poll interval, moves
// queued lines into the result (and the sinks and echo writer), and stops
// once the process has exited. It then waits for both drains to reach
// end-of-data and takes a final pass, so lines written just before exit are
// never lost.
//
// A nonzero exit is reported in [Result.ExitCode], not as an error. If the
// executable cannot be launched a [SpawnError] is returned. Cancelling ctx
// kills the process; the partial result is returned together with the
// context error.
func (r *Runner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if len(inv.Args) == 0 {
		return nil, &SpawnError{Err: ErrEmptyCommand}
	}

	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, &SpawnError{Args: inv.Args, Err: err}
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		closeAll(outR, outW)
		return nil, &SpawnError{Args: inv.Args, Err: err}
	}
	defer closeAll(outR, errR)

	cmd := exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = environ(inv.Env)
	cmd.Stdin = inv.Stdin
	cmd.Stdout = outW
	cmd.Stderr = errW

	if err := cmd.Start(); err != nil {
		closeAll(outW, errW)
		return nil, &SpawnError{Args: inv.Args, Err: err}
	}

	// The child holds its own copies of the write ends. Closing ours lets
	// the drains see end-of-data once the child (and anything it spawned
	// that inherited the pipes) is gone.
	closeAll(outW, errW)

	slog.Debug("process started", "pid", cmd.Process.Pid, "command", Quote(inv.Args))

	stdout, stderr := &lineQueue{}, &lineQueue{}

	var drains errgroup.Group
	drains.Go(func() error { return drain(outR, stdout) })
	drains.Go(func() error { return drain(errR, stderr) })

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	var out, errOut strings.Builder
	collect := func() {
		move(&out, stdout, inv.Stdout, inv.Echo)
		move(&errOut, stderr, inv.Stderr, inv.Echo)
	}

	ticker := time.NewTicker(r.interval())
	defer ticker.Stop()

	var waitErr error
poll:
	for {
		select {
		case waitErr = <-exited:
			break poll
		case <-ticker.C:
			collect()
		}
	}

	// A killed process may leave descendants holding the pipes open.
	// Closing the read ends unblocks the drains.
	if ctx.Err() != nil {
		closeAll(outR, errR)
	}

	drainErr := drains.Wait()
	collect()

	result := &Result{
		Stdout:   out.String(),
		Stderr:   errOut.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	slog.Debug("process exited", "pid", cmd.Process.Pid, "exit", result.ExitCode)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return result, waitErr
	}

	return result, drainErr
}

// Runs the invocation with the terminal's stdio attached and returns the
// exit code.
//
// Nothing is captured; sinks and echo on inv are ignored. Used for
// interactive shells.
func (r *Runner) Attach(ctx context.Context, inv Invocation) (int, error) {
	if len(inv.Args) == 0 {
		return 0, &SpawnError{Err: ErrEmptyCommand}
	}

	cmd := exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = environ(inv.Env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return 0, &SpawnError{Args: inv.Args, Err: err}
	}

	err := cmd.Wait()
	code := cmd.ProcessState.ExitCode()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return code, err
	}
	return code, ctx.Err()
}

func (r *Runner) interval() time.Duration {
	if r.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return r.PollInterval
}

// Moves every queued line into acc, the sink and the echo writer.
//
// Write errors on sink and echo are ignored; a broken log file must not
// fail the build it is recording.
func move(acc *strings.Builder, q *lineQueue, sink, echo io.Writer) {
	for _, line := range q.takeAll() {
		acc.WriteString(line)
		if sink != nil {
			_, _ = io.WriteString(sink, line)
		}
		if echo != nil {
			_, _ = io.WriteString(echo, line)
		}
	}
}

// Returns the environment for a child process. Nil inherits the host
// environment unchanged.
func environ(extra []string) []string {
	if len(extra) == 0 {
		return nil
	}
	return append(os.Environ(), extra...)
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
