package releaser

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/grokify/releaseconductor/internal/operator"
	"github.com/grokify/releaseconductor/internal/policy"
	"github.com/grokify/releaseconductor/internal/report"
	"github.com/grokify/releaseconductor/internal/vcs"
	"github.com/grokify/releaseconductor/pkg/model"
)

type harness struct {
	vcs   *fakeVCS
	store *memStore
	op    *scriptedOperator
	out   *bytes.Buffer
}

func newHarness() *harness {
	return &harness{
		vcs:   newFakeVCS(),
		store: &memStore{version: "1.4.2"},
		op:    &scriptedOperator{},
		out:   &bytes.Buffer{},
	}
}

func (h *harness) releaser(t *testing.T, opts Options, engine *policy.Engine) *Releaser {
	t.Helper()
	r, err := New(Config{
		Options:  opts,
		VCS:      h.vcs,
		Store:    h.store,
		Operator: h.op,
		Engine:   engine,
		Renderer: report.NewTableFormatter(),
		Out:      h.out,
	})
	gt.NoError(t, err)
	return r
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{})
	gt.Error(t, err)
}

func TestReleaser_Run_Publishes(t *testing.T) {
	h := newHarness()
	h.op.confirm = true

	result, err := h.releaser(t, Options{}, nil).Run(context.Background(), Request{Branch: "main", Increment: "patch"})
	gt.NoError(t, err)
	gt.Equal(t, result.Status, model.ReleaseStatusPublished)
	gt.Equal(t, result.Plan.TagName(), "Release-1.4.3")

	gt.V(t, h.store.writes).Equal([]string{"1.4.3"})
	gt.True(t, h.vcs.called("CreateAnnotatedTag Release-1.4.3 FEA-1.4.3"))
	gt.True(t, h.vcs.called("PushAtomic origin main Release-1.4.3"))
	gt.String(t, h.out.String()).Contains("Release-1.4.3")
}

func TestReleaser_Run_Minor(t *testing.T) {
	h := newHarness()

	result, err := h.releaser(t, Options{AssumeYes: true}, nil).Run(context.Background(), Request{Branch: "main", Increment: "minor"})
	gt.NoError(t, err)
	gt.Equal(t, result.Plan.TagName(), "Release-1.5.0")
	gt.True(t, h.vcs.called("PushAtomic origin main Release-1.5.0"))
	gt.Equal(t, len(h.op.asked), 0)
}

func TestReleaser_Run_DeclinedMakesNoMutations(t *testing.T) {
	h := newHarness()
	h.op.confirm = false

	result, err := h.releaser(t, Options{}, nil).Run(context.Background(), Request{Branch: "main", Increment: "patch"})
	gt.NoError(t, err)
	gt.Equal(t, result.Status, model.ReleaseStatusAborted)
	gt.V(t, h.vcs.mutations()).Nil()
	gt.V(t, h.store.writes).Nil()
}

func TestReleaser_Run_CancelledConfirmationAborts(t *testing.T) {
	h := newHarness()
	h.op.confirmErr = operator.ErrAborted

	result, err := h.releaser(t, Options{}, nil).Run(context.Background(), Request{Branch: "main", Increment: "patch"})
	gt.NoError(t, err)
	gt.Equal(t, result.Status, model.ReleaseStatusAborted)
	gt.V(t, h.vcs.mutations()).Nil()
}

func TestReleaser_Run_NoConfirmationInput(t *testing.T) {
	h := newHarness()
	h.op.confirmErr = operator.ErrNoInput

	result, err := h.releaser(t, Options{}, nil).Run(context.Background(), Request{Branch: "main", Increment: "patch"})
	gt.Equal(t, KindOf(err), KindMissingInput)
	gt.Equal(t, result.Status, model.ReleaseStatusFailed)
	gt.V(t, h.vcs.mutations()).Nil()
}

func TestReleaser_Run_AsksOperator(t *testing.T) {
	h := newHarness()
	h.op.selects = []string{"main", "minor"}
	h.op.confirm = true

	result, err := h.releaser(t, Options{}, nil).Run(context.Background(), Request{})
	gt.NoError(t, err)
	gt.Equal(t, result.Plan.TagName(), "Release-1.5.0")
	gt.Equal(t, len(h.op.asked), 3)
}

func TestReleaser_Run_SelectionAborted(t *testing.T) {
	h := newHarness()
	h.op.selectErr = operator.ErrAborted

	result, err := h.releaser(t, Options{}, nil).Run(context.Background(), Request{})
	gt.NoError(t, err)
	gt.Equal(t, result.Status, model.ReleaseStatusAborted)
	gt.V(t, result.Plan).Nil()
}

func TestReleaser_Run_Failures(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		profile string
		setup   func(*harness)
		want    Kind
	}{
		{"no remote branches", Request{Branch: "main", Increment: "patch"}, "", func(h *harness) {
			h.vcs.remoteBranches = nil
		}, KindNoRemoteBranches},
		{"unknown branch", Request{Branch: "release", Increment: "patch"}, "", func(*harness) {}, KindUnknownBranch},
		{"bad increment", Request{Branch: "main", Increment: "hotfix"}, "", func(*harness) {}, KindUnsupportedIncrement},
		{"increment not allowed", Request{Branch: "main", Increment: "minor"}, "conservative", func(*harness) {}, KindIncrementNotAllowed},
		{"major needs aggressive", Request{Branch: "main", Increment: "major"}, "", func(*harness) {}, KindIncrementNotAllowed},
		{"no prior release", Request{Branch: "main", Increment: "patch"}, "", func(h *harness) {
			h.vcs.latestTags = nil
		}, KindNoPriorRelease},
		{"missing branch answer", Request{Increment: "patch"}, "", func(*harness) {}, KindMissingInput},
		{"manifest unreadable", Request{Branch: "main", Increment: "patch"}, "", func(h *harness) {
			h.store.readErr = context.DeadlineExceeded
		}, KindManifestError},
		{"dirty", Request{Branch: "main", Increment: "patch"}, "", func(h *harness) {
			h.vcs.status = []string{" M src/index.js"}
			h.vcs.ahead = 1
		}, KindDirtyWorkingTree},
		{"wrong branch", Request{Branch: "main", Increment: "patch"}, "", func(h *harness) {
			h.vcs.current = "develop"
		}, KindWrongBranch},
		{"unpushed", Request{Branch: "main", Increment: "patch"}, "", func(h *harness) {
			h.vcs.ahead = 1
		}, KindUnpushedCommits},
		{"nothing new", Request{Branch: "main", Increment: "patch"}, "", func(h *harness) {
			h.vcs.headTags = []string{"Release-1.4.2"}
		}, KindDuplicateTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.op.confirm = true
			tt.setup(h)

			engine, err := policy.NewEngine(tt.profile)
			gt.NoError(t, err)

			result, err := h.releaser(t, Options{}, engine).Run(context.Background(), tt.req)
			gt.Equal(t, KindOf(err), tt.want)
			gt.Equal(t, result.Status, model.ReleaseStatusFailed)
			gt.String(t, result.Error).Contains(string(tt.want))
			gt.V(t, h.vcs.mutations()).Nil()
			gt.V(t, h.store.writes).Nil()
		})
	}
}

func TestReleaser_Run_ProfileAutoCheckout(t *testing.T) {
	h := newHarness()
	h.vcs.current = "develop"

	engine, err := policy.NewEngine("aggressive")
	gt.NoError(t, err)

	result, err := h.releaser(t, Options{AssumeYes: true}, engine).Run(context.Background(), Request{Branch: "main", Increment: "major"})
	gt.NoError(t, err)
	gt.Equal(t, result.Plan.TagName(), "Release-2.0.0")
	gt.Equal(t, h.vcs.mutations()[0], "Checkout main")
}

func TestReleaser_Run_ProfileReleaseBranch(t *testing.T) {
	profile := policy.ProfileBalanced
	profile.ReleaseBranch = "main"
	engine := policy.NewEngineWithProfile(&profile)

	h := newHarness()
	h.vcs.current = "develop"
	h.vcs.localBranches = []string{"develop", "main"}

	result, err := h.releaser(t, Options{AssumeYes: true}, engine).Run(context.Background(), Request{Branch: "develop", Increment: "patch"})
	gt.Equal(t, KindOf(err), KindBranchNotAllowed)
	gt.String(t, HintOf(err)).Contains("release from main")
	gt.Equal(t, result.Status, model.ReleaseStatusFailed)
	gt.V(t, h.vcs.mutations()).Nil()

	// A disallowed increment on the right branch keeps its own kind.
	h = newHarness()
	result, err = h.releaser(t, Options{AssumeYes: true}, engine).Run(context.Background(), Request{Branch: "main", Increment: "major"})
	gt.Equal(t, KindOf(err), KindIncrementNotAllowed)
	gt.Equal(t, result.Status, model.ReleaseStatusFailed)
}

func TestReleaser_ProfileRemote(t *testing.T) {
	profile := policy.ProfileBalanced
	profile.Remote = "upstream"
	engine := policy.NewEngineWithProfile(&profile)

	h := newHarness()
	result, err := h.releaser(t, Options{}, engine).Plan(context.Background(), Request{Branch: "main", Increment: "patch"})
	gt.NoError(t, err)
	gt.Equal(t, result.Plan.Remote, "upstream")
	gt.True(t, h.vcs.called("Fetch upstream"))

	h = newHarness()
	result, err = h.releaser(t, Options{Remote: "origin"}, engine).Plan(context.Background(), Request{Branch: "main", Increment: "patch"})
	gt.NoError(t, err)
	gt.Equal(t, result.Plan.Remote, "origin")
	gt.True(t, !h.vcs.called("Fetch upstream"))
}

func TestReleaser_Run_PublishFailureNamesStep(t *testing.T) {
	h := newHarness()
	h.vcs.errs["PushAtomic"] = context.DeadlineExceeded

	result, err := h.releaser(t, Options{AssumeYes: true}, nil).Run(context.Background(), Request{Branch: "main", Increment: "patch"})
	gt.Equal(t, KindOf(err), KindPushRejected)
	gt.Equal(t, result.Status, model.ReleaseStatusFailed)
	gt.Equal(t, result.FailedStep, StepPush)
}

func TestReleaser_Run_CancelledBeforeGate(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.releaser(t, Options{AssumeYes: true}, nil).Run(ctx, Request{Branch: "main", Increment: "patch"})
	gt.NoError(t, err)
	gt.Equal(t, result.Status, model.ReleaseStatusAborted)
	gt.V(t, h.vcs.mutations()).Nil()
}

func TestReleaser_Run_InterruptedGitCommandAborts(t *testing.T) {
	h := newHarness()
	h.vcs.errs["Fetch"] = &vcs.CommandError{
		Args: []string{"fetch", "--quiet", "--tags", "origin", "main"},
		Err:  errors.Join(errors.New("signal: killed"), context.Canceled),
	}

	result, err := h.releaser(t, Options{AssumeYes: true}, nil).Run(context.Background(), Request{Branch: "main", Increment: "patch"})
	gt.NoError(t, err)
	gt.Equal(t, result.Status, model.ReleaseStatusAborted)
	gt.Equal(t, result.Error, "")
	gt.V(t, h.vcs.mutations()).Nil()
}

func TestReleaser_Plan(t *testing.T) {
	h := newHarness()

	result, err := h.releaser(t, Options{}, nil).Plan(context.Background(), Request{Branch: "main", Increment: "patch"})
	gt.NoError(t, err)
	gt.Equal(t, result.Status, model.ReleaseStatusPlanned)
	gt.Equal(t, result.Plan.TagName(), "Release-1.4.3")
	gt.V(t, h.vcs.mutations()).Nil()
	gt.Equal(t, len(h.op.asked), 0)
}

func TestReleaser_Inspect(t *testing.T) {
	h := newHarness()
	h.vcs.status = []string{" M README.md"}

	result, err := h.releaser(t, Options{}, nil).Inspect(context.Background(), "")
	gt.NoError(t, err)
	gt.V(t, result.Branches).Equal([]string{"develop", "main"})
	gt.Equal(t, result.LatestTag, "Release-1.4.2")
	gt.Equal(t, result.State.Branch, "main")
	gt.True(t, !result.State.Clean)
	gt.V(t, h.vcs.mutations()).Nil()
}

func TestReleaser_Inspect_NoRelease(t *testing.T) {
	h := newHarness()
	h.vcs.latestTags = nil

	result, err := h.releaser(t, Options{}, nil).Inspect(context.Background(), "develop")
	gt.NoError(t, err)
	gt.Equal(t, result.LatestTag, "")
	gt.Equal(t, result.State.Branch, "develop")
}

func TestReleaser_Plan_NeverChecksOut(t *testing.T) {
	h := newHarness()
	h.vcs.current = "develop"

	engine, err := policy.NewEngine("aggressive")
	gt.NoError(t, err)

	result, err := h.releaser(t, Options{}, engine).Plan(context.Background(), Request{Branch: "main", Increment: "patch"})
	gt.Equal(t, KindOf(err), KindWrongBranch)
	gt.Equal(t, result.Status, model.ReleaseStatusFailed)
	gt.V(t, h.vcs.mutations()).Nil()
}
