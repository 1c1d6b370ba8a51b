package cli

import (
	"context"

	"github.com/cruciblehq/relbuild/internal/build"
	"github.com/cruciblehq/relbuild/internal/release"
)

// Represents the 'relbuild release' command.
type ReleaseCmd struct {
	Version       string `arg:"" help:"Release version, e.g. 3.3-stable."`
	Build         string `short:"b" help:"Variant to build: all, classical or mono." enum:"all,classical,mono" default:"all"`
	SkipDownload  bool   `short:"s" help:"Do not log in or fetch images."`
	SkipGit       bool   `short:"c" help:"Use the existing checkout."`
	Git           string `short:"g" help:"Git treeish to release." default:"origin/master" placeholder:"TREEISH"`
	ForceDownload bool   `short:"f" help:"Pull images even when they are present locally."`
	Localhost     bool   `short:"l" help:"Build with locally built images."`
}

// Runs the full release pipeline over the whole catalog.
func (c *ReleaseCmd) Run(ctx context.Context) error {
	s, err := newSession()
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

	p := release.New(reg, s.git(), build.New(s.cmd, reg, s.base))
	return p.Run(ctx, release.Options{
		Version:       c.Version,
		Ref:           c.Git,
		Flags:         flags,
		Local:         c.Localhost,
		SkipDownload:  c.SkipDownload,
		SkipCheckout:  c.SkipGit,
		ForceDownload: c.ForceDownload,
		Username:      s.cfg.Username,
		Password:      s.cfg.Password,
	})
}
