package cli

import (
	"context"
	"log/slog"
)

// Represents the 'relbuild fetch' command.
type FetchCmd struct {
	ForceDownload bool     `short:"f" help:"Pull images even when they are present locally."`
	Image         []string `short:"i" help:"Image to fetch, repeatable. All images by default." placeholder:"IMAGE"`
}

// Logs into the registry when credentials are configured, then fetches the
// requested images. Private images are skipped when not logged in.
func (c *FetchCmd) Run(ctx context.Context) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	reg, err := s.registry()
	if err != nil {
		return err
	}

	if err := reg.Login(ctx, s.cfg.Username, s.cfg.Password); err != nil {
		return err
	}

	skipped, err := reg.FetchAll(ctx, c.Image, c.ForceDownload)
	if err != nil {
		return err
	}
	if len(skipped) > 0 {
		slog.Warn("private images not fetched, set username and password to fetch them", "images", skipped)
	}
	return nil
}
