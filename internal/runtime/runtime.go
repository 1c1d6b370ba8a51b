package runtime

import (
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// Container runtimes, in order of preference.
var candidates = []string{"podman", "docker"}

// Handle to a container runtime CLI.
//
// Podman and Docker share the subcommand grammar used here (run, pull,
// login) except for the image presence check, which Docker spells
// "image inspect".
type Runtime struct {
	path string // Executable path or name.
}

// Creates a [Runtime] for the executable at path.
func New(path string) *Runtime {
	return &Runtime{path: path}
}

// Finds the first available container runtime.
//
// Each candidate is resolved with lookPath (normally [exec.LookPath]).
// Returns [ErrNoContainerRuntime] if none is installed.
func Detect(lookPath func(string) (string, error)) (*Runtime, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	for _, name := range candidates {
		path, err := lookPath(name)
		if err != nil || path == "" {
			continue
		}
		slog.Debug("container runtime found", "path", path)
		return New(path), nil
	}

	return nil, wrapf(ErrNoContainerRuntime, "install one of %s", strings.Join(candidates, ", "))
}

// Returns the runtime executable.
func (rt *Runtime) Binary() string {
	return rt.path
}

// Whether the runtime is Docker rather than Podman.
func (rt *Runtime) IsDocker() bool {
	return strings.TrimSuffix(filepath.Base(rt.path), ".exe") == "docker"
}

// Returns the argv that exits zero iff ref is present locally.
func (rt *Runtime) existsArgs(ref string) []string {
	if rt.IsDocker() {
		return []string{rt.path, "image", "inspect", "--format", "{{.Id}}", ref}
	}
	return []string{rt.path, "image", "exists", ref}
}

// Returns the argv pulling ref.
func (rt *Runtime) pullArgs(ref string) []string {
	return []string{rt.path, "pull", ref}
}

// Returns the argv logging into registry with the password read from stdin.
func (rt *Runtime) loginArgs(registry, username string) []string {
	return []string{rt.path, "login", registry, "-u", username, "--password-stdin"}
}
