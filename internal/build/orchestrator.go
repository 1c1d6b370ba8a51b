package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cruciblehq/relbuild/internal/paths"
	"github.com/cruciblehq/relbuild/internal/process"
	"github.com/cruciblehq/relbuild/internal/runtime"
)

// Build variants accepted by [ParseVariant].
const (
	VariantAll       = "all"
	VariantClassical = "classical"
	VariantMono      = "mono"
)

// Global build settings passed to every target.
type Flags struct {
	Classical bool   // Build the classical variant.
	Mono      bool   // Build the mono variant.
	Cores     int    // Parallel jobs inside the container.
	BuildName string // Build name tag.
}

// Returns flags selecting the given variant.
func ParseVariant(variant string) (Flags, error) {
	switch strings.ToLower(variant) {
	case VariantAll, "":
		return Flags{Classical: true, Mono: true}, nil
	case VariantClassical:
		return Flags{Classical: true}, nil
	case VariantMono:
		return Flags{Mono: true}, nil
	}
	return Flags{}, wrapf(ErrInvalidVariant, "%q (want %s, %s or %s)", variant, VariantAll, VariantClassical, VariantMono)
}

// Selects how a target runs.
type Mode struct {
	Local       bool // Use locally built images instead of registry ones.
	Interactive bool // Open a shell in the container instead of building.
}

// Turns targets into container invocations and runs them.
type Orchestrator struct {
	cmd      process.Commander // Executes the container runtime.
	registry *runtime.Registry // Resolves target images.
	base     string            // Host base directory.
}

// Creates a new [Orchestrator] building under base.
func New(cmd process.Commander, registry *runtime.Registry, base string) *Orchestrator {
	return &Orchestrator{
		cmd:      cmd,
		registry: registry,
		base:     base,
	}
}

// Composes the runtime invocation for t, up to but excluding the image.
//
// The shared glue and source archive mounts come first, then the target's
// own mounts, then its output directory as /root/out, then its extra flags.
func (o *Orchestrator) Compose(t Target, flags Flags) []string {
	f := newRunFlags(o.base)
	f.env("BUILD_NAME", flags.BuildName)
	f.envInt("NUM_CORES", flags.Cores)
	f.envBool("CLASSICAL", flags.Classical)
	f.envBool("MONO", flags.Mono)

	f.mount(
		Mount{Host: paths.GlueDir, Container: paths.GlueDir},
		Mount{Host: paths.SourceArchive, Container: paths.SourceArchive},
	)
	f.mount(t.Mounts...)
	if t.OutDir != "" {
		f.mount(Mount{Host: paths.OutDir + "/" + t.OutDir, Container: paths.OutDir})
	}
	f.raw(t.ExtraFlags...)

	return append([]string{o.registry.Binary(), "run"}, f.list()...)
}

// Runs a single target.
//
// Interactive mode attaches a shell to the container and bypasses logging;
// its exit code is reported in the result but never fails the run. In batch
// mode the target's command runs with stdout and stderr written to its log
// file, if it declares one. Returns (nil, nil) in dry-run mode.
func (o *Orchestrator) RunTarget(ctx context.Context, t Target, flags Flags, mode Mode) (*process.Result, error) {
	if err := o.ensureDirs(t); err != nil {
		return nil, err
	}

	ref, err := o.registry.Resolve(t.Image, t.ImageVersion, mode.Local)
	if err != nil {
		return nil, wrap(ErrBuild, err)
	}

	args := o.Compose(t, flags)

	if mode.Interactive {
		args = append(args, "-it", ref.String(), "bash")
		code, err := o.cmd.Attach(ctx, args)
		if err != nil {
			return nil, fmt.Errorf("%w: target %s: %w", ErrBuild, t.Name, err)
		}
		if o.cmd.DryRun() {
			return nil, nil
		}
		return &process.Result{ExitCode: code}, nil
	}

	args = append(args, ref.String())
	args = append(args, t.Command...)

	var opts process.RunOptions
	if t.Log != "" && !o.cmd.DryRun() {
		log, err := o.openLog(t.Log)
		if err != nil {
			return nil, err
		}
		defer log.Close()
		opts.Log, opts.ErrLog = log, log
	}

	slog.Info("building target", "target", t.Name, "image", ref.String())

	res, err := o.cmd.Run(ctx, args, opts)
	if err != nil {
		return res, fmt.Errorf("%w: target %s: %w", ErrBuild, t.Name, err)
	}
	return res, nil
}

// Runs targets one at a time, stopping at the first failure.
func (o *Orchestrator) RunAll(ctx context.Context, targets []Target, flags Flags, mode Mode) error {
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := o.RunTarget(ctx, t, flags, mode); err != nil {
			return err
		}
	}
	return nil
}

// Creates the target's declared directories, the shared glue directory and
// its output directory. Nothing is created in dry-run mode.
func (o *Orchestrator) ensureDirs(t Target) error {
	if o.cmd.DryRun() {
		return nil
	}

	dirs := []string{paths.GlueDir}
	dirs = append(dirs, t.Dirs...)
	if t.OutDir != "" {
		dirs = append(dirs, paths.OutDir+"/"+t.OutDir)
	}

	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(o.base, filepath.FromSlash(d)), paths.DefaultDirMode); err != nil {
			return wrap(ErrFileSystemOperation, err)
		}
	}
	return nil
}

// Creates (truncating) the named log file under the log directory.
func (o *Orchestrator) openLog(name string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Join(o.base, filepath.FromSlash(paths.LogDir)), paths.DefaultDirMode); err != nil {
		return nil, wrap(ErrFileSystemOperation, err)
	}
	f, err := os.OpenFile(paths.Log(o.base, name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return nil, wrap(ErrFileSystemOperation, err)
	}
	return f, nil
}
