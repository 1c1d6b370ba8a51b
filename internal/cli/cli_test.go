package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/cruciblehq/relbuild/internal/config"
	"github.com/google/go-cmp/cmp"
)

func TestOverridesCoverEveryKey(t *testing.T) {
	var keys []string
	for _, v := range (ConfigFlags{}).values() {
		keys = append(keys, v.key)
	}
	if diff := cmp.Diff(config.Keys(), keys); diff != "" {
		t.Fatalf("override keys mismatch (-want +got):\n%s", diff)
	}
}

func TestOverridesApply(t *testing.T) {
	cfg := config.Default()
	flags := ConfigFlags{Registry: "registry.example.com", NumCore: "3", AppleID: "dev@example.com"}

	if err := flags.apply(&cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Registry != "registry.example.com" || cfg.NumCore != 3 || cfg.AppleID != "dev@example.com" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.PublicPath != config.DefaultPublicPath {
		t.Fatalf("unset flag changed public_path to %q", cfg.PublicPath)
	}

	bad := ConfigFlags{NumCore: "many"}
	if err := bad.apply(&cfg); !errors.Is(err, config.ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
}

func isolateUserConfig(t *testing.T) {
	t.Helper()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
}

func TestLoadConfigLayers(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()

	file := `{"registry": "file.example.com", "build_name": "from_file", "num_core": 2}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(file), 0644); err != nil {
		t.Fatal(err)
	}

	env := map[string]string{"BUILD_NAME": "from_env", "NUM_CORES": "6"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg, err := loadConfig(dir, "", ConfigFlags{NumCore: "12"}, lookup)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Registry != "file.example.com" {
		t.Errorf("registry = %q, want value from file", cfg.Registry)
	}
	if cfg.BuildName != "from_env" {
		t.Errorf("build_name = %q, want value from environment", cfg.BuildName)
	}
	if cfg.NumCore != 12 {
		t.Errorf("num_core = %d, want value from flag", cfg.NumCore)
	}
	if cfg.PrivatePath != config.DefaultPrivatePath {
		t.Errorf("private_path = %q, want default", cfg.PrivatePath)
	}
}

func TestLoadConfigExplicitFile(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	noEnv := func(string) (string, bool) { return "", false }

	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"registry": "ignored.example.com"}`), 0644); err != nil {
		t.Fatal(err)
	}
	explicit := filepath.Join(dir, "release.toml")
	if err := os.WriteFile(explicit, []byte("registry = \"toml.example.com\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(dir, explicit, ConfigFlags{}, noEnv)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Registry != "toml.example.com" {
		t.Fatalf("registry = %q, want value from explicit file", cfg.Registry)
	}

	if _, err := loadConfig(dir, filepath.Join(dir, "missing.json"), ConfigFlags{}, noEnv); !errors.Is(err, config.ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestParseCommandLine(t *testing.T) {
	parser, err := kong.New(&RootCmd, kong.Name("relbuild"), kong.Exit(func(int) { t.Fatal("parser exited") }))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	ctx, err := parser.Parse([]string{"-n", "--num-core", "4", "run", "-b", "mono", "-k", "windows", "-k", "uwp", "-r"})
	if err != nil {
		t.Fatalf("Parse run: %v", err)
	}
	if ctx.Command() != "run" {
		t.Fatalf("command = %q, want run", ctx.Command())
	}
	if !RootCmd.DryRun || RootCmd.Overrides.NumCore != "4" {
		t.Fatalf("globals not parsed: dry=%v num_core=%q", RootCmd.DryRun, RootCmd.Overrides.NumCore)
	}
	if diff := cmp.Diff([]string{"windows", "uwp"}, RootCmd.Run.Container); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
	if RootCmd.Run.Build != "mono" || !RootCmd.Run.Remote {
		t.Fatalf("run flags = %+v", RootCmd.Run)
	}

	ctx, err = parser.Parse([]string{"release", "3.3-stable", "-c", "-l"})
	if err != nil {
		t.Fatalf("Parse release: %v", err)
	}
	if ctx.Command() != "release <version>" {
		t.Fatalf("command = %q", ctx.Command())
	}
	if RootCmd.Release.Version != "3.3-stable" || !RootCmd.Release.SkipGit || !RootCmd.Release.Localhost {
		t.Fatalf("release flags = %+v", RootCmd.Release)
	}
	if RootCmd.Release.Git != "origin/master" || RootCmd.Release.Build != "all" {
		t.Fatalf("release defaults = %+v", RootCmd.Release)
	}

	if _, err := parser.Parse([]string{"run", "-b", "both"}); err == nil {
		t.Fatal("invalid variant accepted")
	}
}
