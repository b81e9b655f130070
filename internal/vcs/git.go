package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
)

// CommandError is returned when a git command exits unsuccessfully.
// Stderr carries git's own explanation, which callers surface verbatim.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code of the failed command, or -1 if it did not run.
func (e *CommandError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// waitDelay bounds how long a cancelled command may take to return.
const waitDelay = time.Second

// Git implements Client by running the git CLI inside Dir.
type Git struct {
	Dir string
}

// NewGit creates a git client for the repository at dir.
func NewGit(dir string) *Git {
	return &Git{Dir: dir}
}

var _ Client = (*Git)(nil)

// IsGitInstalled returns true if git is available on the system PATH.
func IsGitInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// CurrentBranch returns the current branch name, or empty string if detached.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.output(ctx, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode() == 1 {
			// Detached HEAD.
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RemoteBranches lists refs/remotes/<remote>/*, skipping the symbolic HEAD.
func (g *Git) RemoteBranches(ctx context.Context, remote string) ([]string, error) {
	prefix := "refs/remotes/" + remote + "/"
	out, err := g.output(ctx, "for-each-ref", "--format=%(refname)", prefix)
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, line := range lines(out) {
		name := strings.TrimPrefix(line, prefix)
		if name == "HEAD" || name == line {
			continue
		}
		branches = append(branches, name)
	}
	return branches, nil
}

// Fetch fetches all tags plus the given refs from the remote.
func (g *Git) Fetch(ctx context.Context, remote string, refs ...string) error {
	args := append([]string{"fetch", "--quiet", "--tags", remote}, refs...)
	return g.run(ctx, args...)
}

// LatestTaggedCommitTags finds the newest commit carrying a tag that matches
// pattern and returns the matching tags on that commit.
func (g *Git) LatestTaggedCommitTags(ctx context.Context, pattern string) ([]string, error) {
	out, err := g.output(ctx, "rev-list", "--tags="+pattern, "--max-count=1")
	if err != nil {
		return nil, err
	}
	sha := strings.TrimSpace(out)
	if sha == "" {
		return nil, nil
	}

	out, err = g.output(ctx, "tag", "--list", "--points-at", sha, pattern)
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// Status returns `git status --porcelain` lines.
func (g *Git) Status(ctx context.Context) ([]string, error) {
	out, err := g.output(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// BranchExists checks if a local branch exists.
func (g *Git) BranchExists(ctx context.Context, branch string) (bool, error) {
	err := g.run(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode() == 1 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Divergence runs `git rev-list --left-right --count local...upstream`.
func (g *Git) Divergence(ctx context.Context, local, upstream string) (int, int, error) {
	out, err := g.output(ctx, "rev-list", "--left-right", "--count", local+"..."+upstream)
	if err != nil {
		return 0, 0, err
	}

	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %q", out)
	}
	ahead, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parsing ahead count %q: %w", fields[0], err)
	}
	behind, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parsing behind count %q: %w", fields[1], err)
	}
	return ahead, behind, nil
}

// Checkout checks out the given branch, creating a tracking branch if only
// the remote branch exists.
func (g *Git) Checkout(ctx context.Context, branch string) error {
	return g.run(ctx, "checkout", "--quiet", branch)
}

// Pull fast-forwards the current branch; a non fast-forward fails.
func (g *Git) Pull(ctx context.Context, remote, branch string) error {
	return g.run(ctx, "pull", "--quiet", "--ff-only", remote, branch)
}

// Add stages the given paths in the repository.
func (g *Git) Add(ctx context.Context, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	return g.run(ctx, args...)
}

// Commit creates a commit with the given message.
func (g *Git) Commit(ctx context.Context, message string) error {
	return g.run(ctx, "commit", "--quiet", "-m", message)
}

// TagsAtHead returns `git tag --points-at HEAD`.
func (g *Git) TagsAtHead(ctx context.Context) ([]string, error) {
	out, err := g.output(ctx, "tag", "--list", "--points-at", "HEAD")
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// CreateAnnotatedTag runs `git tag -a name -m message`.
func (g *Git) CreateAnnotatedTag(ctx context.Context, name, message string) error {
	return g.run(ctx, "tag", "-a", name, "-m", message)
}

// PushAtomic runs `git push --atomic remote refs...`.
func (g *Git) PushAtomic(ctx context.Context, remote string, refs ...string) error {
	args := append([]string{"push", "--quiet", "--atomic", remote}, refs...)
	return g.run(ctx, args...)
}

// RemoteURL returns `git remote get-url remote`.
func (g *Git) RemoteURL(ctx context.Context, remote string) (string, error) {
	out, err := g.output(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// run executes a git command, discarding stdout.
func (g *Git) run(ctx context.Context, args ...string) error {
	_, err := g.output(ctx, args...)
	return err
}

// output executes a git command and returns its stdout.
// Stderr is captured and included in the error on failure.
func (g *Git) output(ctx context.Context, args ...string) (string, error) {
	ctxlog.From(ctx).Debug("running git", "dir", g.Dir, "args", args)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	// Helpers spawned by git (ssh, upload-pack) can hold the output pipes
	// open after git itself is killed.
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// A killed process reports "signal: killed"; keep the cancellation visible.
			err = errors.Join(err, ctxErr)
		}
		return "", &CommandError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

// lines splits command output into non-empty trimmed lines.
func lines(out string) []string {
	var result []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return result
}
