package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cruciblehq/relbuild/internal/config"
)

// Represents the 'relbuild config' command.
type ConfigCmd struct {
	Save string `short:"s" help:"Also save the configuration to this file (.json or .toml), relative to the base directory." placeholder:"PATH"`
}

// Prints the effective configuration as JSON, and saves it when asked.
func (c *ConfigCmd) Run(ctx context.Context) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	if err := config.Write(os.Stdout, s.cfg, config.FormatJSON); err != nil {
		return err
	}

	if c.Save == "" {
		return nil
	}

	path := c.Save
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.base, path)
	}
	if err := config.Save(path, s.cfg); err != nil {
		return err
	}

	slog.Info("configuration saved", "path", path)
	return nil
}
