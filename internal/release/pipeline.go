package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cruciblehq/relbuild/internal/build"
	"github.com/cruciblehq/relbuild/internal/runtime"
	"github.com/cruciblehq/relbuild/internal/source"
	"github.com/google/uuid"
)

var ErrRelease = errors.New("release failed")

// Default ref checked out for a release.
const DefaultRef = "origin/master"

// Controls a release run.
type Options struct {
	Version       string         // Release version, checked against the source tree.
	Ref           string         // Git ref to release. Empty uses [DefaultRef].
	Flags         build.Flags    // Build settings for every target.
	Local         bool           // Build with locally built images.
	SkipDownload  bool           // Do not log in or fetch images.
	SkipCheckout  bool           // Use the existing checkout as is.
	ForceDownload bool           // Pull images even when present.
	Username      string         // Registry user. Either credential empty skips login.
	Password      string         // Registry password.
	Targets       []build.Target // Targets to build. Empty builds the whole catalog.
}

// Runs the full release: images, source, then every target in order.
type Pipeline struct {
	registry *runtime.Registry   // Authenticates and fetches images.
	git      *source.Git         // Prepares the source tree and archive.
	builder  *build.Orchestrator // Runs the targets.
}

// Creates a new [Pipeline].
func New(registry *runtime.Registry, git *source.Git, builder *build.Orchestrator) *Pipeline {
	return &Pipeline{
		registry: registry,
		git:      git,
		builder:  builder,
	}
}

// Runs the release.
//
// Steps run strictly in order: login and image fetch (unless building with
// local images or skipping downloads), checkout (unless skipped), version
// check, archive of the checked out HEAD, then each target. The first
// failure aborts everything after it.
func (p *Pipeline) Run(ctx context.Context, opts Options) error {
	log := slog.With("run", uuid.NewString(), "version", opts.Version)
	log.Info("starting release")

	ref := opts.Ref
	if ref == "" {
		ref = DefaultRef
	}
	targets := opts.Targets
	if len(targets) == 0 {
		targets = build.Targets()
	}

	if !opts.Local && !opts.SkipDownload {
		log.Info("fetching images")
		if err := p.registry.Login(ctx, opts.Username, opts.Password); err != nil {
			return fail("login", err)
		}
		skipped, err := p.registry.FetchAll(ctx, nil, opts.ForceDownload)
		if err != nil {
			return fail("fetch", err)
		}
		if len(skipped) > 0 {
			log.Warn("private images not fetched", "images", skipped)
		}
	}

	if !opts.SkipCheckout {
		log.Info("checking out source", "ref", ref)
		if err := p.git.Checkout(ctx, ref); err != nil {
			return fail("checkout", err)
		}
	}

	if err := p.git.CheckVersion(opts.Version); err != nil {
		return fail("version check", err)
	}

	if _, err := p.git.Archive(ctx, opts.Version, ""); err != nil {
		return fail("archive", err)
	}

	mode := build.Mode{Local: opts.Local}
	for i, t := range targets {
		if err := ctx.Err(); err != nil {
			return fail("build", err)
		}
		log.Info("building target", "target", t.Name, "step", fmt.Sprintf("%d/%d", i+1, len(targets)))
		if _, err := p.builder.RunTarget(ctx, t, opts.Flags, mode); err != nil {
			return fail("build", err)
		}
	}

	log.Info("release complete", "targets", len(targets))
	return nil
}

func fail(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRelease, step, err)
}
