package source

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cruciblehq/relbuild/internal/paths"
	"github.com/cruciblehq/relbuild/internal/process"
	"github.com/opencontainers/go-digest"
)

// Upstream repository cloned by [Git.Checkout].
const DefaultRepository = "https://github.com/godotengine/godot"

// Name of the version file at the root of the source tree.
const versionFile = "version.py"

// Prepares the source tree and archive under a base directory.
type Git struct {
	cmd  process.Commander // Executes git.
	base string            // Host base directory.
	repo string            // Repository to clone.
}

// Creates a new [Git] for the given base directory. An empty repo uses
// [DefaultRepository].
func NewGit(cmd process.Commander, base, repo string) *Git {
	if repo == "" {
		repo = DefaultRepository
	}
	return &Git{cmd: cmd, base: base, repo: repo}
}

// Path to the source checkout.
func (g *Git) Dir() string {
	return filepath.Join(g.base, paths.SourceDir)
}

// Path to the source archive.
func (g *Git) ArchivePath() string {
	return filepath.Join(g.base, paths.SourceArchive)
}

// Checks out ref, cloning the repository first.
//
// The clone is allowed to fail because the checkout usually exists already;
// a broken checkout then surfaces in the fetch.
func (g *Git) Checkout(ctx context.Context, ref string) error {
	slog.Info("checking out source", "ref", ref, "dir", g.Dir())

	if _, err := g.cmd.Run(ctx, []string{"git", "clone", g.repo, g.Dir()}, process.RunOptions{CanFail: true}); err != nil {
		return wrap(ErrSource, err)
	}

	steps := [][]string{
		{"git", "-C", g.Dir(), "fetch", "--all"},
		{"git", "-C", g.Dir(), "checkout", "--detach", ref},
	}
	for _, args := range steps {
		if _, err := g.cmd.Run(ctx, args, process.RunOptions{}); err != nil {
			return wrap(ErrSource, err)
		}
	}
	return nil
}

// Verifies that the checkout reports the expected version.
//
// Skipped in dry-run mode, where the checkout has not actually happened.
func (g *Git) CheckVersion(expected string) error {
	if g.cmd.DryRun() {
		slog.Warn("skipping version check in dry run mode")
		return nil
	}

	f, err := os.Open(filepath.Join(g.Dir(), versionFile))
	if err != nil {
		return wrap(ErrFileSystemOperation, err)
	}
	defer f.Close()

	v, err := ParseVersion(f)
	if err != nil {
		return err
	}

	if actual := v.String(); actual != expected {
		return &VersionMismatchError{Expected: expected, Actual: actual}
	}

	slog.Info("version verified", "version", expected)
	return nil
}

// Archives ref from the checkout into the source archive, with every path
// prefixed by "godot-<version>/". An empty ref archives HEAD.
//
// Returns the archive digest, or "" in dry-run mode.
func (g *Git) Archive(ctx context.Context, version, ref string) (digest.Digest, error) {
	if ref == "" {
		ref = "HEAD"
	}

	args := []string{"git", "-C", g.Dir(), "archive", "--prefix=godot-" + version + "/", "-o", g.ArchivePath(), ref}
	if _, err := g.cmd.Run(ctx, args, process.RunOptions{}); err != nil {
		return "", wrap(ErrSource, err)
	}
	if g.cmd.DryRun() {
		return "", nil
	}

	f, err := os.Open(g.ArchivePath())
	if err != nil {
		return "", wrap(ErrFileSystemOperation, err)
	}
	defer f.Close()

	dgst, err := digest.FromReader(f)
	if err != nil {
		return "", wrap(ErrFileSystemOperation, err)
	}

	slog.Info("source archived", "path", g.ArchivePath(), "digest", dgst.String())
	return dgst, nil
}
