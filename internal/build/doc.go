// Package build runs platform targets inside containers.
//
// The catalog ([Targets]) is a fixed list of declarative [Target] records,
// one per platform plus the glue generation and AOT compiler staging steps.
// An [Orchestrator] turns a target and the global [Flags] into a container
// runtime invocation: environment for the build name, core count and the
// classical/mono variant switches, the shared glue and source archive
// mounts, the target's own mounts, and its output directory mounted as
// /root/out. Batch runs capture the target's output into out/logs/<log>;
// interactive runs attach a shell instead.
//
// Targets run strictly one at a time and the first failure stops the rest.
//
// Example usage:
//
//	flags, err := build.ParseVariant("all")
//	if err != nil {
//	    return err
//	}
//	flags.Cores, flags.BuildName = cfg.NumCore, cfg.BuildName
//
//	orch := build.New(executor, registry, baseDir)
//	if err := orch.RunAll(ctx, build.Targets(), flags, build.Mode{}); err != nil {
//	    return err
//	}
package build
