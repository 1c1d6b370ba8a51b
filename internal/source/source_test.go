package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cruciblehq/relbuild/internal/process"
	"github.com/cruciblehq/relbuild/internal/testutil/fakecmd"
	"github.com/google/go-cmp/cmp"
	"github.com/opencontainers/go-digest"
)

const versionFile3 = `short_name = "godot"
name = "Godot Engine"
major = 3
minor = 3
patch = 4
status = "stable"  # release channel
module_config = ""
year = 2021
website = 'https://godotengine.org'
`

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "with patch", input: versionFile3, want: "3.3.4-stable"},
		{name: "without patch", input: "major = 3\nminor = 1\nstatus = 'alpha5'\n", want: "3.1-alpha5"},
		{name: "comments ignored", input: "# major = 9\nmajor = 4\nminor = 0\nstatus = \"rc1\"\n", want: "4.0-rc1"},
		{name: "missing status", input: "major = 3\nminor = 1\n", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVersion(strings.NewReader(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrVersionFile) {
					t.Fatalf("err = %v, want ErrVersionFile", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion: %v", err)
			}
			if v.String() != tt.want {
				t.Fatalf("version = %q, want %q", v.String(), tt.want)
			}
		})
	}
}

func writeVersionFile(t *testing.T, base, content string) {
	t.Helper()
	dir := filepath.Join(base, "git")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "version.py"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCheckVersion(t *testing.T) {
	base := t.TempDir()
	writeVersionFile(t, base, versionFile3)
	g := NewGit(&fakecmd.Commander{}, base, "")

	if err := g.CheckVersion("3.3.4-stable"); err != nil {
		t.Fatalf("CheckVersion: %v", err)
	}

	err := g.CheckVersion("3.3.5-stable")
	var mismatch *VersionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want VersionMismatchError", err)
	}
	if mismatch.Expected != "3.3.5-stable" || mismatch.Actual != "3.3.4-stable" {
		t.Fatalf("mismatch = %+v", mismatch)
	}
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}

func TestCheckVersionMissingFile(t *testing.T) {
	g := NewGit(&fakecmd.Commander{}, t.TempDir(), "")
	if err := g.CheckVersion("3.3-stable"); !errors.Is(err, ErrFileSystemOperation) {
		t.Fatalf("err = %v, want ErrFileSystemOperation", err)
	}
}

func TestCheckVersionDryRun(t *testing.T) {
	g := NewGit(&fakecmd.Commander{Dry: true}, t.TempDir(), "")
	if err := g.CheckVersion("anything"); err != nil {
		t.Fatalf("dry-run CheckVersion: %v", err)
	}
}

func TestCheckout(t *testing.T) {
	cmd := &fakecmd.Commander{Respond: fakecmd.FailWhen(128, "clone")}
	g := NewGit(cmd, "/work", "https://example.com/repo.git")

	if err := g.Checkout(context.Background(), "3.3-stable"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	var got [][]string
	for _, c := range cmd.Calls() {
		got = append(got, c.Args)
	}
	want := [][]string{
		{"git", "clone", "https://example.com/repo.git", "/work/git"},
		{"git", "-C", "/work/git", "fetch", "--all"},
		{"git", "-C", "/work/git", "checkout", "--detach", "3.3-stable"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("git commands mismatch (-want +got):\n%s", diff)
	}
	if !cmd.Calls()[0].Opts.CanFail {
		t.Fatal("clone must be allowed to fail")
	}
}

func TestCheckoutFetchFailureAborts(t *testing.T) {
	cmd := &fakecmd.Commander{Respond: fakecmd.FailWhen(1, "fetch")}
	g := NewGit(cmd, "/work", "")

	err := g.Checkout(context.Background(), "master")
	if !errors.Is(err, process.ErrCommandFailed) {
		t.Fatalf("err = %v, want ErrCommandFailed", err)
	}
	if got := cmd.Matching("checkout"); len(got) != 0 {
		t.Fatalf("checkout ran after failed fetch: %v", got)
	}
}

func TestArchive(t *testing.T) {
	base := t.TempDir()
	content := []byte("archive bytes")

	cmd := &fakecmd.Commander{Respond: func(args []string) (*process.Result, error) {
		if len(args) > 3 && args[3] == "archive" {
			if err := os.WriteFile(filepath.Join(base, "godot.tar.gz"), content, 0644); err != nil {
				return nil, err
			}
		}
		return &process.Result{}, nil
	}}
	g := NewGit(cmd, base, "")

	dgst, err := g.Archive(context.Background(), "3.3-stable", "")
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if dgst != digest.FromBytes(content) {
		t.Fatalf("digest = %s, want %s", dgst, digest.FromBytes(content))
	}

	want := []string{"git", "-C", filepath.Join(base, "git"), "archive", "--prefix=godot-3.3-stable/", "-o", filepath.Join(base, "godot.tar.gz"), "HEAD"}
	if diff := cmp.Diff(want, cmd.Calls()[0].Args); diff != "" {
		t.Fatalf("archive argv mismatch (-want +got):\n%s", diff)
	}
}

func TestArchiveDryRun(t *testing.T) {
	cmd := &fakecmd.Commander{Dry: true}
	g := NewGit(cmd, t.TempDir(), "")

	dgst, err := g.Archive(context.Background(), "3.3-stable", "origin/3.x")
	if err != nil || dgst != "" {
		t.Fatalf("Archive = (%q, %v), want empty digest", dgst, err)
	}
	if got := cmd.Matching("origin/3.x"); len(got) != 1 {
		t.Fatalf("archive not printed: %v", cmd.Calls())
	}
}
