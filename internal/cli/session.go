package cli

import (
	"os"
	"os/exec"

	"github.com/cruciblehq/relbuild/internal"
	"github.com/cruciblehq/relbuild/internal/build"
	"github.com/cruciblehq/relbuild/internal/config"
	"github.com/cruciblehq/relbuild/internal/process"
	"github.com/cruciblehq/relbuild/internal/runtime"
	"github.com/cruciblehq/relbuild/internal/source"
)

// Shared state of a single command invocation.
type session struct {
	cfg  config.Config     // Effective configuration.
	cmd  *process.Executor // Runs external commands.
	base string            // Build base directory.
}

// Creates a session from the global flags.
func newSession() (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	if err := config.LoadEnvFile(cwd); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cwd, RootCmd.ConfigFile, RootCmd.Overrides, os.LookupEnv)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg: cfg,
		cmd: process.NewExecutor(process.ExecutorOptions{
			DryRun: RootCmd.DryRun,
			Quiet:  internal.IsQuiet(),
		}),
		base: RootCmd.BaseDir,
	}, nil
}

// Layers the configuration: defaults, then the file (explicit or looked up
// from dir), then the environment, then the override flags.
func loadConfig(dir, file string, overrides ConfigFlags, lookup func(string) (string, bool)) (config.Config, error) {
	cfg := config.Default()

	var err error
	if file != "" {
		cfg, err = config.Load(file, cfg)
	} else {
		cfg, err = config.LoadDefault(dir, cfg)
	}
	if err != nil {
		return cfg, err
	}

	cfg, err = cfg.WithEnv(lookup)
	if err != nil {
		return cfg, err
	}

	if err := overrides.apply(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Detects the container runtime and returns a registry over it.
func (s *session) registry() (*runtime.Registry, error) {
	rt, err := runtime.Detect(exec.LookPath)
	if err != nil {
		return nil, err
	}
	return runtime.NewRegistry(rt, s.cmd, s.cfg), nil
}

func (s *session) git() *source.Git {
	return source.NewGit(s.cmd, s.base, "")
}

// Returns build flags for the variant, with cores and build name from the
// configuration.
func (s *session) flags(variant string) (build.Flags, error) {
	flags, err := build.ParseVariant(variant)
	if err != nil {
		return flags, err
	}
	flags.Cores = s.cfg.NumCore
	flags.BuildName = s.cfg.BuildName
	return flags, nil
}
