package runtime

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cruciblehq/relbuild/internal/config"
	"github.com/cruciblehq/relbuild/internal/process"
)

// Attempts per image pull before giving up.
const pullAttempts = 3

// Resolves image names to references and fetches them through the container
// runtime.
//
// Authentication state only moves from logged out to logged in. All access
// happens from the single pipeline goroutine, so no locking is needed.
type Registry struct {
	rt          *Runtime               // Container runtime CLI.
	cmd         process.Commander      // Executes runtime commands.
	host        string                 // Registry host.
	publicPath  string                 // Namespace path of public images.
	privatePath string                 // Namespace path of private images.
	version     string                 // Default image tag.
	loggedIn    bool                   // Whether Login succeeded.
	newBackOff  func() backoff.BackOff // Retry policy for pulls.
}

// Creates a [Registry] using the registry settings of cfg.
func NewRegistry(rt *Runtime, cmd process.Commander, cfg config.Config) *Registry {
	return &Registry{
		rt:          rt,
		cmd:         cmd,
		host:        cfg.Registry,
		publicPath:  cfg.PublicPath,
		privatePath: cfg.PrivatePath,
		version:     cfg.ImageVersion,
		newBackOff:  defaultBackOff,
	}
}

// Returns the container runtime executable.
func (r *Registry) Binary() string {
	return r.rt.Binary()
}

// Returns the default image tag.
func (r *Registry) Version() string {
	return r.version
}

// Whether a registry login has succeeded.
func (r *Registry) LoggedIn() bool {
	return r.loggedIn
}

// Resolves an image name to a reference.
//
// Local references are "localhost/<name>:<tag>". Registry references use the
// private namespace path for private images and the public path otherwise.
// An empty tag uses the configured image version.
func (r *Registry) Resolve(name, tag string, local bool) (ImageRef, error) {
	if tag == "" {
		tag = r.version
	}

	ref := ImageRef{Registry: localRegistry, Name: name, Tag: tag}
	if !local {
		ref.Registry = r.host
		ref.Path = r.publicPath
		if IsPrivate(name) {
			ref.Path = r.privatePath
		}
	}

	if err := ref.Validate(); err != nil {
		return ImageRef{}, err
	}
	return ref, nil
}

// Whether ref is present in the local image store.
//
// Always false in dry-run mode, where nothing is queried.
func (r *Registry) Exists(ctx context.Context, ref ImageRef) (bool, error) {
	res, err := r.cmd.Probe(ctx, r.rt.existsArgs(ref.String()))
	if err != nil {
		return false, wrap(ErrRuntime, err)
	}
	if res == nil {
		return false, nil
	}
	return res.ExitCode == 0, nil
}

// Pulls ref unless it is already present and force is not set.
//
// Failed pulls are retried with exponential backoff. The last failure is
// returned as a [process.CommandError].
func (r *Registry) Fetch(ctx context.Context, ref ImageRef, force bool) error {
	if !force {
		ok, err := r.Exists(ctx, ref)
		if err != nil {
			return err
		}
		if ok {
			slog.Debug("image present, skipping pull", "image", ref.String())
			return nil
		}
	}

	slog.Info("pulling image", "image", ref.String())

	args := r.rt.pullArgs(ref.String())
	pull := func() error {
		res, err := r.cmd.Run(ctx, args, process.RunOptions{CanFail: true})
		if err != nil {
			return backoff.Permanent(err)
		}
		if res == nil || res.ExitCode == 0 {
			return nil
		}
		return &process.CommandError{Args: args, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), pullAttempts-1), ctx)
	return backoff.RetryNotify(pull, policy, func(err error, next time.Duration) {
		slog.Warn("pull failed, retrying", "image", ref.String(), "in", next, "error", err)
	})
}

// Fetches the named images, or the whole catalog when names is empty.
//
// Private images are skipped with a warning while not logged in; the skipped
// names are returned. Any other failure stops the batch.
func (r *Registry) FetchAll(ctx context.Context, names []string, force bool) ([]string, error) {
	if len(names) == 0 {
		names = Images()
	}

	var skipped []string
	for _, name := range names {
		if !IsKnown(name) {
			return skipped, wrapf(ErrUnknownImage, "%q (known: %s)", name, strings.Join(Images(), ", "))
		}

		if IsPrivate(name) && !r.loggedIn {
			slog.Warn("can't fetch private image, not logged in", "image", name)
			skipped = append(skipped, name)
			continue
		}

		ref, err := r.Resolve(name, "", false)
		if err != nil {
			return skipped, err
		}
		if err := r.Fetch(ctx, ref, force); err != nil {
			return skipped, err
		}
	}

	return skipped, nil
}

// Logs into the registry.
//
// Skipped silently when either credential is empty. A rejected login is
// logged and leaves the registry unauthenticated; only a failure to run the
// runtime at all is returned. Once logged in, further calls do nothing.
func (r *Registry) Login(ctx context.Context, username, password string) error {
	if r.loggedIn {
		return nil
	}
	if username == "" || password == "" {
		slog.Debug("skipping login, missing username or password")
		return nil
	}

	res, err := r.cmd.Run(ctx, r.rt.loginArgs(r.host, username), process.RunOptions{
		CanFail: true,
		Stdin:   strings.NewReader(password + "\n"),
	})
	if err != nil {
		return wrap(ErrRuntime, err)
	}
	if res == nil {
		return nil
	}
	if res.ExitCode != 0 {
		slog.Warn("registry login failed", "registry", r.host, "exit", res.ExitCode)
		return nil
	}

	slog.Info("logged in", "registry", r.host, "username", username)
	r.loggedIn = true
	return nil
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxElapsedTime = 5 * time.Minute
	return b
}
