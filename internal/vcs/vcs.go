// Package vcs defines the version control operations the release workflow
// consumes and provides a git CLI implementation of them.
package vcs

import (
	"context"
)

// Client defines the version control operations used by the release workflow.
type Client interface {
	// CurrentBranch returns the checked out branch, or "" when HEAD is detached.
	CurrentBranch(ctx context.Context) (string, error)

	// RemoteBranches returns the branch names known for the remote, without the remote prefix.
	RemoteBranches(ctx context.Context, remote string) ([]string, error)

	// Fetch fetches tags and the given refs from the remote.
	Fetch(ctx context.Context, remote string, refs ...string) error

	// LatestTaggedCommitTags returns the tags matching pattern that point at the
	// most recent tagged commit. It returns nil when no tag matches.
	LatestTaggedCommitTags(ctx context.Context, pattern string) ([]string, error)

	// Status returns the porcelain status lines of the working tree.
	Status(ctx context.Context) ([]string, error)

	// BranchExists reports whether a local branch exists.
	BranchExists(ctx context.Context, branch string) (bool, error)

	// Divergence counts commits in local not in upstream (ahead) and the reverse (behind).
	Divergence(ctx context.Context, local, upstream string) (ahead, behind int, err error)

	// Checkout checks out the given branch.
	Checkout(ctx context.Context, branch string) error

	// Pull fast-forwards the current branch from the remote branch.
	Pull(ctx context.Context, remote, branch string) error

	// Add stages the given paths.
	Add(ctx context.Context, paths ...string) error

	// Commit creates a commit of the staged changes.
	Commit(ctx context.Context, message string) error

	// TagsAtHead returns the tags pointing at HEAD.
	TagsAtHead(ctx context.Context) ([]string, error)

	// CreateAnnotatedTag creates an annotated tag at HEAD.
	CreateAnnotatedTag(ctx context.Context, name, message string) error

	// PushAtomic pushes all refs to the remote in a single all-or-nothing update.
	PushAtomic(ctx context.Context, remote string, refs ...string) error

	// RemoteURL returns the fetch URL of the remote.
	RemoteURL(ctx context.Context, remote string) (string, error)
}
