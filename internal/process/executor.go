package process

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Command execution as seen by the build pipeline.
//
// Implemented by [Executor]; tests substitute a recording fake.
type Commander interface {

	// Runs a command and captures its output. Returns (nil, nil) in dry-run
	// mode. A nonzero exit is a [CommandError] unless opts.CanFail is set.
	Run(ctx context.Context, args []string, opts RunOptions) (*Result, error)

	// Runs a command quietly to query state; a nonzero exit is never an
	// error. Returns (nil, nil) in dry-run mode.
	Probe(ctx context.Context, args []string) (*Result, error)

	// Runs a command with the terminal attached and returns its exit code.
	// In dry-run mode the command is printed and 0 is returned.
	Attach(ctx context.Context, args []string) (int, error)

	// Whether commands are printed instead of executed.
	DryRun() bool
}

// Per-call options for [Executor.Run].
type RunOptions struct {
	CanFail bool      // Return a nonzero exit as data instead of a [CommandError].
	Log     io.Writer // Receives stdout lines as they are drained.
	ErrLog  io.Writer // Receives stderr lines as they are drained.
	Stdin   io.Reader // Standard input for the command.
	Dir     string    // Working directory.
	Env     []string  // Extra "KEY=value" environment entries.
}

// Configures an [Executor].
type ExecutorOptions struct {
	DryRun       bool          // Print commands instead of running them.
	Quiet        bool          // Disable live echo of captured output.
	Out          io.Writer     // Destination for dry-run lines and live echo. Nil uses stdout.
	PollInterval time.Duration // Exit poll interval. Zero uses [DefaultPollInterval].
}

// Applies dry-run and fail-fast policy around a [Runner].
type Executor struct {
	runner  *Runner   // Spawns and captures processes.
	dryRun  bool      // Print instead of execute.
	verbose bool      // Echo captured output live.
	out     io.Writer // Dry-run and echo destination.
}

// Creates a new [Executor].
func NewExecutor(opts ExecutorOptions) *Executor {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Executor{
		runner:  &Runner{PollInterval: opts.PollInterval},
		dryRun:  opts.DryRun,
		verbose: !opts.Quiet,
		out:     out,
	}
}

// Whether the executor is in dry-run mode.
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Runs a command under the executor's policy.
//
// In dry-run mode the quoted command line is printed and nothing is spawned.
// Otherwise captured output is echoed live when verbose, stdout lines are
// written to opts.Log and stderr lines to opts.ErrLog as they arrive. A
// nonzero exit is returned as a [CommandError] unless opts.CanFail is set,
// in which case the result is returned as data.
func (e *Executor) Run(ctx context.Context, args []string, opts RunOptions) (*Result, error) {
	if e.dryRun {
		e.print(args, opts.Dir)
		return nil, nil
	}

	inv := Invocation{
		Args:   args,
		Dir:    opts.Dir,
		Env:    opts.Env,
		Stdin:  opts.Stdin,
		Stdout: opts.Log,
		Stderr: opts.ErrLog,
	}
	if e.verbose {
		inv.Echo = e.out
	}

	slog.Debug("running", "command", Quote(args))

	result, err := e.runner.Run(ctx, inv)
	if err != nil {
		return result, err
	}

	if result.ExitCode != 0 {
		slog.Debug("command exited nonzero", "command", Quote(args), "exit", result.ExitCode, "stderr", result.Stderr)
		if !opts.CanFail {
			return result, &CommandError{Args: args, ExitCode: result.ExitCode, Stderr: result.Stderr}
		}
	}

	return result, nil
}

// Runs a command without echo and without fail-fast.
func (e *Executor) Probe(ctx context.Context, args []string) (*Result, error) {
	if e.dryRun {
		slog.Debug("dry run, skipping probe", "command", Quote(args))
		return nil, nil
	}
	return e.runner.Run(ctx, Invocation{Args: args})
}

// Runs a command with the terminal attached.
//
// A nonzero exit of an interactive session is returned as the code, never
// as an error; the last command typed in a shell decides it.
func (e *Executor) Attach(ctx context.Context, args []string) (int, error) {
	if e.dryRun {
		e.print(args, "")
		return 0, nil
	}

	slog.Debug("attaching", "command", Quote(args))
	return e.runner.Attach(ctx, Invocation{Args: args})
}

// Prints the command that would run.
func (e *Executor) print(args []string, dir string) {
	if dir != "" {
		fmt.Fprintf(e.out, "[DRY RUN in %s] %s\n", dir, Quote(args))
		return
	}
	fmt.Fprintf(e.out, "[DRY RUN] %s\n", Quote(args))
}
