// Package testutil builds throwaway git repositories for tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grokify/releaseconductor/internal/vcs"
)

// DefaultManifest is the package.json written into fixture repositories.
const DefaultManifest = `{
  "name": "fixture",
  "version": "1.4.2",
  "private": true,
  "scripts": {
    "release": "releaseconductor release"
  }
}
`

// Fixture is a bare "remote" repository plus a working clone of it.
type Fixture struct {
	t      *testing.T
	Remote string
	Work   string
}

// RequireGit skips the test when git is not on PATH.
func RequireGit(t *testing.T) {
	t.Helper()
	if !vcs.IsGitInstalled() {
		t.Skip("git is not installed")
	}
}

// NewFixture creates a bare remote whose main branch holds a package.json at
// version 1.4.2 tagged Release-1.4.2, and clones it into a working copy.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	RequireGit(t)

	dir := t.TempDir()
	seed := filepath.Join(dir, "seed")
	remote := filepath.Join(dir, "remote.git")
	work := filepath.Join(dir, "work")

	run(t, dir, "git", "init", "--quiet", "-b", "main", seed)
	configure(t, seed)
	writeFile(t, filepath.Join(seed, "package.json"), DefaultManifest)
	writeFile(t, filepath.Join(seed, "README.md"), "# fixture\n")
	run(t, seed, "git", "add", ".")
	run(t, seed, "git", "commit", "--quiet", "-m", "initial commit")
	run(t, seed, "git", "tag", "-a", "Release-1.4.2", "-m", "FEA-1.4.2")

	run(t, dir, "git", "clone", "--quiet", "--bare", seed, remote)
	run(t, dir, "git", "clone", "--quiet", remote, work)
	configure(t, work)

	return &Fixture{t: t, Remote: remote, Work: work}
}

// Git runs a git command in the working copy and returns trimmed stdout.
func (f *Fixture) Git(args ...string) string {
	f.t.Helper()
	return output(f.t, f.Work, "git", args...)
}

// RemoteGit runs a git command against the bare remote and returns trimmed stdout.
func (f *Fixture) RemoteGit(args ...string) string {
	f.t.Helper()
	return output(f.t, f.Remote, "git", args...)
}

// WriteFile writes a file relative to the working copy.
func (f *Fixture) WriteFile(name, content string) {
	f.t.Helper()
	writeFile(f.t, filepath.Join(f.Work, name), content)
}

// ReadFile reads a file relative to the working copy.
func (f *Fixture) ReadFile(name string) string {
	f.t.Helper()
	data, err := os.ReadFile(filepath.Join(f.Work, name)) //nolint:gosec // test file
	if err != nil {
		f.t.Fatal(err)
	}
	return string(data)
}

// CommitFile writes a file and commits it in the working copy.
func (f *Fixture) CommitFile(name, content, message string) {
	f.t.Helper()
	f.WriteFile(name, content)
	f.Git("add", name)
	f.Git("commit", "--quiet", "-m", message)
}

// PushFromClone commits a change through a second clone and pushes it, so the
// remote moves ahead of the working copy.
func (f *Fixture) PushFromClone(name, content, message string) {
	f.t.Helper()
	other := filepath.Join(f.t.TempDir(), "other")
	run(f.t, filepath.Dir(other), "git", "clone", "--quiet", f.Remote, other)
	configure(f.t, other)
	writeFile(f.t, filepath.Join(other, name), content)
	run(f.t, other, "git", "add", name)
	run(f.t, other, "git", "commit", "--quiet", "-m", message)
	run(f.t, other, "git", "push", "--quiet", "origin", "HEAD")
}

// CommitCount returns the number of commits reachable from ref in the remote.
func (f *Fixture) CommitCount(ref string) string {
	f.t.Helper()
	return f.RemoteGit("rev-list", "--count", ref)
}

func configure(t *testing.T, dir string) {
	t.Helper()
	run(t, dir, "git", "config", "user.email", "test@example.com")
	run(t, dir, "git", "config", "user.name", "Test")
	run(t, dir, "git", "config", "commit.gpgsign", "false")
	run(t, dir, "git", "config", "tag.gpgsign", "false")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	output(t, dir, name, args...)
}

func output(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("command %s %v failed: %v\n%s", name, args, err, out)
	}
	return strings.TrimSpace(string(out))
}
