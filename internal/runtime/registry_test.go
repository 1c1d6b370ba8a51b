package runtime

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/cruciblehq/relbuild/internal/config"
	"github.com/cruciblehq/relbuild/internal/process"
	"github.com/cruciblehq/relbuild/internal/testutil/fakecmd"
	"github.com/google/go-cmp/cmp"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Registry = "registry.example.com"
	cfg.PublicPath = "pub"
	cfg.PrivatePath = "priv"
	cfg.ImageVersion = "4.2-test"
	return cfg
}

func newTestRegistry(cmd *fakecmd.Commander) *Registry {
	r := NewRegistry(New("podman"), cmd, testConfig())
	r.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return r
}

// Answers "image exists" with 1 (absent) and everything else with 0.
func allAbsent(args []string) (*process.Result, error) {
	if len(args) > 2 && args[1] == "image" {
		return &process.Result{ExitCode: 1}, nil
	}
	return &process.Result{}, nil
}

func TestResolve(t *testing.T) {
	r := newTestRegistry(&fakecmd.Commander{})

	tests := []struct {
		name  string
		image string
		tag   string
		local bool
		want  string
	}{
		{name: "local", image: "godot-windows", tag: "1.0", local: true, want: "localhost/godot-windows:1.0"},
		{name: "local private", image: "godot-ios", tag: "1.0", local: true, want: "localhost/godot-ios:1.0"},
		{name: "public", image: "godot-windows", tag: "1.0", want: "registry.example.com/pub/godot-windows:1.0"},
		{name: "private", image: "godot-osx", tag: "1.0", want: "registry.example.com/priv/godot-osx:1.0"},
		{name: "default tag", image: "uwp", want: "registry.example.com/priv/uwp:4.2-test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := r.Resolve(tt.image, tt.tag, tt.local)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if ref.String() != tt.want {
				t.Fatalf("Resolve = %q, want %q", ref.String(), tt.want)
			}
			if ref.IsLocal() != tt.local {
				t.Fatalf("IsLocal = %v, want %v", ref.IsLocal(), tt.local)
			}
		})
	}
}

func TestResolveRejectsInvalidReference(t *testing.T) {
	r := newTestRegistry(&fakecmd.Commander{})
	if _, err := r.Resolve("Not Valid", "1.0", true); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("err = %v, want ErrInvalidReference", err)
	}
}

func TestCatalogsAreDisjoint(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range publicImages {
		seen[name] = true
	}
	for _, name := range privateImages {
		if seen[name] {
			t.Fatalf("%q is both public and private", name)
		}
	}
	if len(Images()) != len(publicImages)+len(privateImages) {
		t.Fatalf("Images() = %v", Images())
	}
}

func TestFetchAllWithoutCredentials(t *testing.T) {
	cmd := &fakecmd.Commander{Respond: allAbsent}
	r := newTestRegistry(cmd)

	if err := r.Login(context.Background(), "", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}

	skipped, err := r.FetchAll(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if diff := cmp.Diff(privateImages, skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
	if r.LoggedIn() {
		t.Fatal("registry reports logged in without credentials")
	}

	var want []string
	for _, name := range publicImages {
		want = append(want, "podman pull registry.example.com/pub/"+name+":4.2-test")
	}
	if diff := cmp.Diff(want, cmd.Matching("pull")); diff != "" {
		t.Fatalf("pulls mismatch (-want +got):\n%s", diff)
	}
	if logins := cmd.Matching("login"); len(logins) != 0 {
		t.Fatalf("login attempted without credentials: %v", logins)
	}
}

func TestFetchAllAfterLoginIncludesPrivate(t *testing.T) {
	cmd := &fakecmd.Commander{Respond: allAbsent}
	r := newTestRegistry(cmd)

	if err := r.Login(context.Background(), "builder", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !r.LoggedIn() {
		t.Fatal("expected logged in")
	}

	skipped, err := r.FetchAll(context.Background(), []string{"godot-osx", "godot-windows"}, false)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v, want none", skipped)
	}

	want := []string{
		"podman pull registry.example.com/priv/godot-osx:4.2-test",
		"podman pull registry.example.com/pub/godot-windows:4.2-test",
	}
	if diff := cmp.Diff(want, cmd.Matching("pull")); diff != "" {
		t.Fatalf("pulls mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchAllUnknownImage(t *testing.T) {
	r := newTestRegistry(&fakecmd.Commander{})
	if _, err := r.FetchAll(context.Background(), []string{"godot-beos"}, false); !errors.Is(err, ErrUnknownImage) {
		t.Fatalf("err = %v, want ErrUnknownImage", err)
	}
}

func TestFetchSkipsPresentImage(t *testing.T) {
	cmd := &fakecmd.Commander{}
	r := newTestRegistry(cmd)
	ref, _ := r.Resolve("godot-windows", "", false)

	if err := r.Fetch(context.Background(), ref, false); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if pulls := cmd.Matching("pull"); len(pulls) != 0 {
		t.Fatalf("pulled a present image: %v", pulls)
	}

	if err := r.Fetch(context.Background(), ref, true); err != nil {
		t.Fatalf("forced Fetch: %v", err)
	}
	if pulls := cmd.Matching("pull"); len(pulls) != 1 {
		t.Fatalf("forced fetch pulls = %v, want one", pulls)
	}
}

func TestFetchRetriesPull(t *testing.T) {
	failures := 2
	cmd := &fakecmd.Commander{Respond: func(args []string) (*process.Result, error) {
		if args[1] == "pull" && failures > 0 {
			failures--
			return &process.Result{ExitCode: 125}, nil
		}
		return &process.Result{}, nil
	}}
	r := newTestRegistry(cmd)
	ref, _ := r.Resolve("godot-windows", "", false)

	if err := r.Fetch(context.Background(), ref, true); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if pulls := cmd.Matching("pull"); len(pulls) != 3 {
		t.Fatalf("pulls = %d, want 3", len(pulls))
	}
}

func TestFetchGivesUpAfterRetries(t *testing.T) {
	cmd := &fakecmd.Commander{Respond: fakecmd.FailWhen(125, "pull")}
	r := newTestRegistry(cmd)
	ref, _ := r.Resolve("godot-windows", "", false)

	err := r.Fetch(context.Background(), ref, true)
	var cmdErr *process.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.ExitCode != 125 {
		t.Fatalf("err = %v, want CommandError with exit 125", err)
	}
	if pulls := cmd.Matching("pull"); len(pulls) != pullAttempts {
		t.Fatalf("pulls = %d, want %d", len(pulls), pullAttempts)
	}
}

func TestFetchDryRun(t *testing.T) {
	cmd := &fakecmd.Commander{Dry: true}
	r := newTestRegistry(cmd)
	ref, _ := r.Resolve("godot-windows", "", false)

	if err := r.Fetch(context.Background(), ref, false); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if pulls := cmd.Matching("pull"); len(pulls) != 1 {
		t.Fatalf("dry-run pulls printed = %v, want one", pulls)
	}
}

func TestLogin(t *testing.T) {
	cmd := &fakecmd.Commander{}
	r := newTestRegistry(cmd)

	if err := r.Login(context.Background(), "builder", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if r.LoggedIn() || len(cmd.Calls()) != 0 {
		t.Fatal("login attempted with empty password")
	}

	if err := r.Login(context.Background(), "builder", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	calls := cmd.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	want := []string{"podman", "login", "registry.example.com", "-u", "builder", "--password-stdin"}
	if diff := cmp.Diff(want, calls[0].Args); diff != "" {
		t.Fatalf("login argv mismatch (-want +got):\n%s", diff)
	}
	if calls[0].Stdin != "pw\n" {
		t.Fatalf("stdin = %q, want password", calls[0].Stdin)
	}

	if err := r.Login(context.Background(), "builder", "pw"); err != nil {
		t.Fatalf("second Login: %v", err)
	}
	if len(cmd.Calls()) != 1 {
		t.Fatal("second login issued a command")
	}
}

func TestLoginRejected(t *testing.T) {
	cmd := &fakecmd.Commander{Respond: fakecmd.FailWhen(1, "login")}
	r := newTestRegistry(cmd)

	if err := r.Login(context.Background(), "builder", "wrong"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if r.LoggedIn() {
		t.Fatal("rejected login marked as logged in")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		installed map[string]string
		want      string
		wantErr   bool
	}{
		{name: "podman preferred", installed: map[string]string{"podman": "/usr/bin/podman", "docker": "/usr/bin/docker"}, want: "/usr/bin/podman"},
		{name: "docker fallback", installed: map[string]string{"docker": "/usr/bin/docker"}, want: "/usr/bin/docker"},
		{name: "none", installed: map[string]string{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookPath := func(name string) (string, error) {
				if p, ok := tt.installed[name]; ok {
					return p, nil
				}
				return "", exec.ErrNotFound
			}

			rt, err := Detect(lookPath)
			if tt.wantErr {
				if !errors.Is(err, ErrNoContainerRuntime) {
					t.Fatalf("err = %v, want ErrNoContainerRuntime", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if rt.Binary() != tt.want {
				t.Fatalf("Binary = %q, want %q", rt.Binary(), tt.want)
			}
		})
	}
}

func TestExistsArgs(t *testing.T) {
	podman := New("/usr/bin/podman").existsArgs("img:1")
	if diff := cmp.Diff([]string{"/usr/bin/podman", "image", "exists", "img:1"}, podman); diff != "" {
		t.Fatalf("podman mismatch (-want +got):\n%s", diff)
	}

	docker := New("/usr/bin/docker").existsArgs("img:1")
	if diff := cmp.Diff([]string{"/usr/bin/docker", "image", "inspect", "--format", "{{.Id}}", "img:1"}, docker); diff != "" {
		t.Fatalf("docker mismatch (-want +got):\n%s", diff)
	}
}
