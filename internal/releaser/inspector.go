package releaser

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/grokify/releaseconductor/internal/vcs"
	"github.com/grokify/releaseconductor/pkg/model"
)

// Inspector reads repository facts: remote branches, the latest release tag
// and the working tree state against the fetched remote.
type Inspector struct {
	vcs    vcs.Client
	remote string
	// initialVersion is used when no release tag exists. Empty means the
	// missing tag is an error.
	initialVersion string
	now            func() time.Time
}

// NewInspector creates an inspector for the given remote.
func NewInspector(client vcs.Client, remote, initialVersion string) *Inspector {
	return &Inspector{
		vcs:            client,
		remote:         remote,
		initialVersion: initialVersion,
		now:            time.Now,
	}
}

// ResolveBranchCandidates lists the branches known for the remote.
func (i *Inspector) ResolveBranchCandidates(ctx context.Context) ([]string, error) {
	branches, err := i.vcs.RemoteBranches(ctx, i.remote)
	if err != nil {
		return nil, newError(KindVCSError,
			goerr.Wrap(err, "failed to list remote branches", goerr.V("remote", i.remote)), "")
	}
	if len(branches) == 0 {
		return nil, newError(KindNoRemoteBranches,
			goerr.New("no branches found on remote "+i.remote, goerr.V("remote", i.remote)),
			"check the remote name or run git fetch "+i.remote)
	}
	return branches, nil
}

// ResolveLatestReleaseTag finds the release tag on the most recently tagged
// commit. Recency follows commit history, never tag name order; among tags
// sharing that commit the highest version wins.
func (i *Inspector) ResolveLatestReleaseTag(ctx context.Context) (model.VersionTag, error) {
	tags, err := i.vcs.LatestTaggedCommitTags(ctx, model.TagPrefix+"*")
	if err != nil {
		return model.VersionTag{}, newError(KindVCSError,
			goerr.Wrap(err, "failed to read release tags"), "")
	}

	latest, err := LatestReleaseTag(tags)
	if err != nil {
		if KindOf(err) == KindNoPriorRelease && i.initialVersion != "" {
			ctxlog.From(ctx).Info("no release tag found, using initial version",
				"initial_version", i.initialVersion)
			return ParseRelease(i.initialVersion)
		}
		return model.VersionTag{}, err
	}
	return latest, nil
}

// CaptureState fetches tags and the branch from the remote, then snapshots
// the repository.
func (i *Inspector) CaptureState(ctx context.Context, branch string) (model.RepositoryState, error) {
	if err := i.vcs.Fetch(ctx, i.remote, branch); err != nil {
		return model.RepositoryState{}, newError(KindNetworkError,
			goerr.Wrap(err, "failed to fetch from remote",
				goerr.V("remote", i.remote), goerr.V("branch", branch)),
			"check network access and credentials for "+i.remote)
	}
	return i.Snapshot(ctx, branch)
}

// Snapshot reports the repository state without contacting the remote.
func (i *Inspector) Snapshot(ctx context.Context, branch string) (model.RepositoryState, error) {
	state := model.RepositoryState{Branch: branch, CapturedAt: i.now()}

	current, err := i.vcs.CurrentBranch(ctx)
	if err != nil {
		return state, newError(KindVCSError, goerr.Wrap(err, "failed to read current branch"), "")
	}
	state.CurrentBranch = current

	dirty, err := i.vcs.Status(ctx)
	if err != nil {
		return state, newError(KindVCSError, goerr.Wrap(err, "failed to read working tree status"), "")
	}
	state.Dirty = dirty
	state.Clean = len(dirty) == 0

	exists, err := i.vcs.BranchExists(ctx, branch)
	if err != nil {
		return state, newError(KindVCSError,
			goerr.Wrap(err, "failed to look up local branch", goerr.V("branch", branch)), "")
	}
	if exists {
		ahead, behind, err := i.vcs.Divergence(ctx, branch, i.remote+"/"+branch)
		if err != nil {
			return state, newError(KindVCSError,
				goerr.Wrap(err, "failed to compare with remote", goerr.V("branch", branch)), "")
		}
		state.Ahead, state.Behind = ahead, behind
	}

	headTags, err := i.vcs.TagsAtHead(ctx)
	if err != nil {
		return state, newError(KindVCSError, goerr.Wrap(err, "failed to list tags at HEAD"), "")
	}
	state.HeadTags = headTags

	ctxlog.From(ctx).Debug("captured repository state",
		"branch", branch,
		"current_branch", state.CurrentBranch,
		"clean", state.Clean,
		"ahead", state.Ahead,
		"behind", state.Behind,
		"head_tags", state.HeadTags,
	)
	return state, nil
}
