// Package process spawns external commands and captures their output.
//
// A [Runner] starts one command with its standard output and standard error
// attached to OS pipes. Two goroutines drain the pipes line by line into
// unbounded queues, so the child never blocks on a full pipe, while the
// calling goroutine polls for exit on a fixed interval and collects whatever
// has been queued. Line order is preserved within each stream; nothing is
// promised about the relative order of the two streams.
//
// An [Executor] wraps the runner with the policy used by the build pipeline:
// dry-run mode prints the command instead of running it, and a nonzero exit
// is reported as a [CommandError] unless the call site allows failure.
//
// Example usage:
//
//	exec := process.NewExecutor(process.ExecutorOptions{Out: os.Stdout})
//
//	result, err := exec.Run(ctx, []string{"podman", "pull", ref}, process.RunOptions{})
//	if err != nil {
//	    return err
//	}
//
//	fmt.Print(result.Stdout)
package process
