package releaser

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/grokify/releaseconductor/internal/vcs"
	"github.com/grokify/releaseconductor/pkg/model"
)

// Validator enforces the preconditions for publishing. Rules run in a fixed
// order and the first failure wins:
//
//  1. clean working tree
//  2. on the release branch (optionally switching to it)
//  3. no local commits missing from the remote
//  4. no tag on HEAD
type Validator struct {
	vcs          vcs.Client
	inspector    *Inspector
	autoCheckout bool
}

// NewValidator creates a validator. With autoCheckout the validator switches
// to the release branch instead of failing with WrongBranch.
func NewValidator(client vcs.Client, inspector *Inspector, autoCheckout bool) *Validator {
	return &Validator{vcs: client, inspector: inspector, autoCheckout: autoCheckout}
}

// Validate checks state against the release branch. It returns the state the
// checks ran against, which is re-captured after an automatic checkout.
func (v *Validator) Validate(ctx context.Context, state model.RepositoryState, branch string) (model.RepositoryState, error) {
	logger := ctxlog.From(ctx)

	if !state.Clean {
		return state, newError(KindDirtyWorkingTree,
			goerr.New("working tree has uncommitted changes: "+strings.Join(state.Dirty, ", "),
				goerr.V("paths", state.Dirty)),
			"commit or stash your changes before releasing")
	}

	state.Branch = branch
	if !state.OnBranch() {
		if !v.autoCheckout {
			return state, newError(KindWrongBranch,
				goerr.New(fmt.Sprintf("on branch %q, release branch is %q", state.CurrentBranch, branch),
					goerr.V("current", state.CurrentBranch), goerr.V("release", branch)),
				"switch to "+branch+" before releasing, or enable checkout")
		}

		logger.Info("switching to release branch", "from", state.CurrentBranch, "to", branch)
		if err := v.vcs.Checkout(ctx, branch); err != nil {
			return state, newError(KindCheckoutFailed,
				goerr.Wrap(err, "failed to switch branch", goerr.V("branch", branch)), "")
		}

		recaptured, err := v.inspector.Snapshot(ctx, branch)
		if err != nil {
			return state, err
		}
		state = recaptured
		if !state.OnBranch() {
			return state, newError(KindCheckoutFailed,
				goerr.New("checkout did not switch branch",
					goerr.V("current", state.CurrentBranch), goerr.V("release", branch)), "")
		}
	}

	if state.Diverged() {
		return state, newError(KindUnpushedCommits,
			goerr.New(fmt.Sprintf("local %s is %d commit(s) ahead of the remote", branch, state.Ahead),
				goerr.V("branch", branch), goerr.V("ahead", state.Ahead)),
			"push or reset the local commits before releasing")
	}

	if state.HasTagOnHead() {
		return state, newError(KindDuplicateTag,
			goerr.New("HEAD is already tagged "+strings.Join(state.HeadTags, ", "),
				goerr.V("tags", state.HeadTags)),
			"there is nothing new to release on "+branch)
	}

	logger.Debug("preconditions satisfied", "branch", branch)
	return state, nil
}
