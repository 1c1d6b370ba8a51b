// Package fakecmd provides a recording [process.Commander] for tests.
package fakecmd

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/cruciblehq/relbuild/internal/process"
)

// Call records one command issued through the fake.
type Call struct {
	Kind  string   // "run", "probe" or "attach".
	Args  []string // Argument vector.
	Stdin string   // Contents of stdin, if any.
	Opts  process.RunOptions
}

// Commander records every command and answers with Respond.
//
// It applies the same fail-fast policy as [process.Executor]: a nonzero exit
// from Run becomes a [process.CommandError] unless the call allowed failure.
// With Dry set it behaves like a dry-run executor and never calls Respond.
type Commander struct {
	Dry     bool
	Respond func(args []string) (*process.Result, error) // Nil answers exit 0.

	mu    sync.Mutex
	calls []Call
}

func (c *Commander) Run(ctx context.Context, args []string, opts process.RunOptions) (*process.Result, error) {
	call := Call{Kind: "run", Args: clone(args), Opts: opts}
	if opts.Stdin != nil {
		b, _ := io.ReadAll(opts.Stdin)
		call.Stdin = string(b)
	}
	c.record(call)

	if c.Dry {
		return nil, nil
	}

	res, err := c.respond(args)
	if err != nil {
		return res, err
	}
	if opts.Log != nil && res.Stdout != "" {
		io.WriteString(opts.Log, res.Stdout)
	}
	if res.ExitCode != 0 && !opts.CanFail {
		return res, &process.CommandError{Args: args, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return res, nil
}

func (c *Commander) Probe(ctx context.Context, args []string) (*process.Result, error) {
	c.record(Call{Kind: "probe", Args: clone(args)})
	if c.Dry {
		return nil, nil
	}
	return c.respond(args)
}

func (c *Commander) Attach(ctx context.Context, args []string) (int, error) {
	c.record(Call{Kind: "attach", Args: clone(args)})
	if c.Dry {
		return 0, nil
	}
	res, err := c.respond(args)
	if err != nil {
		return 0, err
	}
	return res.ExitCode, nil
}

func (c *Commander) DryRun() bool {
	return c.Dry
}

// Returns a copy of the recorded calls.
func (c *Commander) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Returns the quoted command lines of recorded calls whose argv contains
// every given word, in order of issue.
func (c *Commander) Matching(words ...string) []string {
	var out []string
	for _, call := range c.Calls() {
		if containsAll(call.Args, words) {
			out = append(out, process.Quote(call.Args))
		}
	}
	return out
}

func (c *Commander) record(call Call) {
	c.mu.Lock()
	c.calls = append(c.calls, call)
	c.mu.Unlock()
}

func (c *Commander) respond(args []string) (*process.Result, error) {
	if c.Respond == nil {
		return &process.Result{}, nil
	}
	res, err := c.Respond(args)
	if res == nil && err == nil {
		res = &process.Result{}
	}
	return res, err
}

// Returns a Respond func failing with exitCode for any argv that contains
// every word, and succeeding otherwise.
func FailWhen(exitCode int, words ...string) func([]string) (*process.Result, error) {
	return func(args []string) (*process.Result, error) {
		if containsAll(args, words) {
			return &process.Result{ExitCode: exitCode, Stderr: "failed: " + strings.Join(words, " ")}, nil
		}
		return &process.Result{}, nil
	}
}

func containsAll(args, words []string) bool {
	for _, w := range words {
		found := false
		for _, a := range args {
			if a == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func clone(args []string) []string {
	return append([]string(nil), args...)
}
