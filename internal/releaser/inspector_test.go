package releaser

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestInspector_ResolveBranchCandidates(t *testing.T) {
	fake := newFakeVCS()
	i := NewInspector(fake, "origin", "")

	branches, err := i.ResolveBranchCandidates(context.Background())
	gt.NoError(t, err)
	gt.V(t, branches).Equal([]string{"develop", "main"})

	fake.remoteBranches = nil
	_, err = i.ResolveBranchCandidates(context.Background())
	gt.Equal(t, KindOf(err), KindNoRemoteBranches)

	fake.errs["RemoteBranches"] = errors.New("not a git repository")
	_, err = i.ResolveBranchCandidates(context.Background())
	gt.Equal(t, KindOf(err), KindVCSError)
}

func TestInspector_ResolveLatestReleaseTag(t *testing.T) {
	fake := newFakeVCS()
	fake.latestTags = []string{"Release-1.4.2", "Release-1.4.10"}

	got, err := NewInspector(fake, "origin", "").ResolveLatestReleaseTag(context.Background())
	gt.NoError(t, err)
	gt.Equal(t, got.TagName(), "Release-1.4.10")
	gt.True(t, fake.called("LatestTaggedCommitTags Release-*"))
}

func TestInspector_NoPriorRelease(t *testing.T) {
	fake := newFakeVCS()
	fake.latestTags = nil

	_, err := NewInspector(fake, "origin", "").ResolveLatestReleaseTag(context.Background())
	gt.Equal(t, KindOf(err), KindNoPriorRelease)

	got, err := NewInspector(fake, "origin", "0.1.0").ResolveLatestReleaseTag(context.Background())
	gt.NoError(t, err)
	gt.Equal(t, got.Version(), "0.1.0")

	_, err = NewInspector(fake, "origin", "v0.1").ResolveLatestReleaseTag(context.Background())
	gt.Equal(t, KindOf(err), KindInvalidVersionFormat)
}

func TestInspector_CaptureState(t *testing.T) {
	fake := newFakeVCS()
	fake.status = []string{" M README.md"}
	fake.ahead, fake.behind = 1, 2
	fake.headTags = []string{"Release-1.4.2"}

	state, err := NewInspector(fake, "origin", "").CaptureState(context.Background(), "main")
	gt.NoError(t, err)
	gt.Equal(t, state.CurrentBranch, "main")
	gt.Equal(t, state.Branch, "main")
	gt.True(t, !state.Clean)
	gt.Equal(t, state.Ahead, 1)
	gt.Equal(t, state.Behind, 2)
	gt.V(t, state.HeadTags).Equal([]string{"Release-1.4.2"})

	gt.Equal(t, fake.calls[0], "Fetch origin main")
	gt.True(t, fake.called("Divergence main origin/main"))
	gt.V(t, fake.mutations()).Nil()
}

func TestInspector_CaptureState_NoLocalBranch(t *testing.T) {
	fake := newFakeVCS()
	fake.localBranches = nil
	fake.ahead = 5

	state, err := NewInspector(fake, "origin", "").CaptureState(context.Background(), "develop")
	gt.NoError(t, err)
	gt.Equal(t, state.Ahead, 0)
	gt.True(t, !fake.called("Divergence"))
}

func TestInspector_CaptureState_FetchFails(t *testing.T) {
	fake := newFakeVCS()
	fake.errs["Fetch"] = errors.New("could not resolve host")

	_, err := NewInspector(fake, "origin", "").CaptureState(context.Background(), "main")
	gt.Equal(t, KindOf(err), KindNetworkError)
	gt.True(t, !fake.called("Status"))
}
