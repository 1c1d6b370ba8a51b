package cli

import (
	"context"
)

// Represents the 'relbuild checkout' command.
type CheckoutCmd struct {
	Treeish      string `arg:"" help:"Git treeish to check out: a ref or a commit hash."`
	Version      string `arg:"" help:"Expected version, e.g. 3.3-stable."`
	SkipCheckout bool   `short:"c" help:"Use the existing checkout."`
	SkipTar      bool   `short:"t" help:"Do not create the source archive."`
	SkipCheck    bool   `help:"Do not verify the version."`
}

// Checks out the source, verifies its version and archives it.
func (c *CheckoutCmd) Run(ctx context.Context) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	git := s.git()

	if !c.SkipCheckout {
		if err := git.Checkout(ctx, c.Treeish); err != nil {
			return err
		}
	}
	if !c.SkipCheck {
		if err := git.CheckVersion(c.Version); err != nil {
			return err
		}
	}
	if !c.SkipTar {
		if _, err := git.Archive(ctx, c.Version, ""); err != nil {
			return err
		}
	}
	return nil
}
