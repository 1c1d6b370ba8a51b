package cli

import (
	"context"

	"github.com/cruciblehq/relbuild/internal/build"
)

// Represents the 'relbuild run' command.
type RunCmd struct {
	Build       string   `short:"b" help:"Variant to build: all, classical or mono." enum:"all,classical,mono" default:"all"`
	Container   []string `short:"k" help:"Target to build, repeatable. All targets by default." placeholder:"TARGET"`
	Remote      bool     `short:"r" help:"Use registry images instead of locally built ones."`
	Interactive bool     `short:"i" help:"Open a shell in the container instead of running the build."`
}

// Runs the selected targets in order, stopping at the first failure.
func (c *RunCmd) Run(ctx context.Context) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	targets, err := build.Select(c.Container)
	if err != nil {
		return err
	}

	flags, err := s.flags(c.Build)
	if err != nil {
		return err
	}

	reg, err := s.registry()
	if err != nil {
		return err
	}

	mode := build.Mode{Local: !c.Remote, Interactive: c.Interactive}
	return build.New(s.cmd, reg, s.base).RunAll(ctx, targets, flags, mode)
}
