package build

import (
	"slices"
	"strings"

	"github.com/cruciblehq/relbuild/internal/paths"
)

// Command run by every target that does not declare its own.
var defaultCommand = []string{"bash", "/root/build/build.sh"}

// Binds a host directory, relative to the base directory, to a path under
// /root in the container.
type Mount struct {
	Host      string // Relative to the base directory.
	Container string // Relative to /root.
}

// Declarative description of one platform's container build.
//
// Targets are plain values. The catalog hands out copies, so a caller can
// adjust one without affecting later lookups.
type Target struct {
	Name         string   // Catalog name, as given to "run -k".
	Image        string   // Image name, resolved through the registry.
	ImageVersion string   // Image tag. Empty uses the configured version.
	OutDir       string   // Output subdirectory under out/. Empty for none.
	Command      []string // Command run inside the container.
	Mounts       []Mount  // Target-specific mounts, in composition order.
	ExtraFlags   []string // Raw runtime flags appended after the mounts.
	Log          string   // Log file name under out/logs. Empty disables logging.
	Dirs         []string // Host directories created before running.
}

// Returns a target with the shared defaults filled in.
func newTarget(name, image string) Target {
	return Target{
		Name:    name,
		Image:   image,
		Command: slices.Clone(defaultCommand),
		Dirs:    []string{paths.OutDir},
	}
}

// Returns a platform target building from its own build-<name> directory.
func platformTarget(name, image, outDir, buildDir string) Target {
	t := newTarget(name, image)
	t.OutDir = outDir
	t.Mounts = []Mount{{Host: buildDir, Container: "build"}}
	t.Log = name
	return t
}

// Builds the catalog. Order is the release order.
func catalog() []Target {
	glue := newTarget("mono-glue", "godot-mono-glue")
	glue.Dirs = []string{paths.GlueDir}
	glue.Mounts = []Mount{{Host: "build-mono-glue", Container: "build"}}
	glue.Log = "mono-glue"

	uwp := platformTarget("uwp", "uwp", "uwp", "build-uwp")
	uwp.ExtraFlags = []string{"--ulimit", "nofile=32768:32768"}

	aot := newTarget("aot-compilers", "godot-ios")
	aot.OutDir = "aot-compilers"
	aot.Command = []string{"bash", "-c", "cp -r /root/aot-compilers/* /root/out"}

	return []Target{
		glue,
		platformTarget("windows", "godot-windows", "windows", "build-windows"),
		platformTarget("linux64", "godot-ubuntu-64", "linux/x64", "build-linux"),
		platformTarget("linux32", "godot-ubuntu-32", "linux/x86", "build-linux"),
		platformTarget("javascript", "godot-javascript", "javascript", "build-javascript"),
		platformTarget("macosx", "godot-osx", "macosx", "build-macosx"),
		platformTarget("android", "godot-android", "android", "build-android"),
		platformTarget("ios", "godot-ios", "ios", "build-ios"),
		platformTarget("server", "godot-ubuntu-64", "server/x64", "build-server"),
		uwp,
		aot,
	}
}

// Returns every target in release order.
func Targets() []Target {
	return catalog()
}

// Returns the target names in release order.
func Names() []string {
	targets := catalog()
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}
	return names
}

// Returns the named target. Names are matched case-insensitively.
func Lookup(name string) (Target, error) {
	for _, t := range catalog() {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return Target{}, wrapf(ErrUnknownTarget, "%q (known: %s)", name, strings.Join(Names(), ", "))
}

// Looks up each name in turn. An empty list selects the whole catalog.
func Select(names []string) ([]Target, error) {
	if len(names) == 0 {
		return Targets(), nil
	}
	targets := make([]Target, 0, len(names))
	for _, name := range names {
		t, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}
