// Package runtime drives the container runtime CLI and the image registry.
//
// [Detect] locates podman, falling back to docker. A [Registry] maps image
// names from the catalog to references, either local ("localhost/<image>")
// or registry-qualified with a public or private namespace path, and pulls
// images that are missing locally. Private images need a successful
// [Registry.Login]; without one they are skipped with a warning instead of
// failing the batch.
//
// All commands go through a [process.Commander], so dry-run mode prints
// them instead of running them.
//
// Example usage:
//
//	rt, err := runtime.Detect(exec.LookPath)
//	if err != nil {
//	    return err
//	}
//
//	reg := runtime.NewRegistry(rt, executor, cfg)
//	if err := reg.Login(ctx, cfg.Username, cfg.Password); err != nil {
//	    return err
//	}
//
//	skipped, err := reg.FetchAll(ctx, nil, false)
//	if err != nil {
//	    return err
//	}
package runtime
