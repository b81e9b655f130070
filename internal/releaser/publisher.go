package releaser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/grokify/releaseconductor/internal/manifest"
	"github.com/grokify/releaseconductor/internal/vcs"
	"github.com/grokify/releaseconductor/pkg/model"
)

// Publish step names, in execution order.
const (
	StepSync     = "sync"
	StepGuard    = "guard"
	StepManifest = "manifest"
	StepCommit   = "commit"
	StepTag      = "tag"
	StepPush     = "push"
	StepAnnounce = "announce"
)

// Announcer publishes a release notice for a pushed tag, such as a GitHub
// release. It returns the URL of the created release.
type Announcer interface {
	Announce(ctx context.Context, plan model.ReleasePlan) (string, error)
}

// Publisher performs the mutating release sequence. Steps never reorder and
// the first failure stops the sequence; nothing is rolled back.
type Publisher struct {
	vcs       vcs.Client
	inspector *Inspector
	store     manifest.Store
	progress  ProgressReporter
	announcer Announcer
}

// NewPublisher creates a publisher. The announcer may be nil.
func NewPublisher(client vcs.Client, inspector *Inspector, store manifest.Store, progress ProgressReporter, announcer Announcer) *Publisher {
	if progress == nil {
		progress = nopProgress{}
	}
	return &Publisher{
		vcs:       client,
		inspector: inspector,
		store:     store,
		progress:  progress,
		announcer: announcer,
	}
}

// Steps returns the names of the steps Publish runs.
func (p *Publisher) Steps() []string {
	steps := []string{StepSync, StepGuard, StepManifest, StepCommit, StepTag, StepPush}
	if p.announcer != nil {
		steps = append(steps, StepAnnounce)
	}
	return steps
}

// Publish runs the sequence for plan. Cancellation of ctx is ignored once
// publishing starts, so an interrupt cannot stop it between commit and push.
// On success it returns the announced release URL, if any.
func (p *Publisher) Publish(ctx context.Context, plan model.ReleasePlan) (string, error) {
	ctx = context.WithoutCancel(ctx)
	logger := ctxlog.From(ctx).With("tag", plan.TagName(), "branch", plan.Branch.Name)

	steps := []struct {
		name string
		run  func(context.Context, model.ReleasePlan) error
	}{
		{StepSync, p.sync},
		{StepGuard, p.guard},
		{StepManifest, p.writeManifest},
		{StepCommit, p.commit},
		{StepTag, p.tag},
		{StepPush, p.push},
	}

	p.progress.Start(plan.TagName(), len(p.Steps()))
	defer p.progress.Complete()

	for _, step := range steps {
		p.progress.Step(step.name)
		logger.Debug("publish step started", "step", step.name)
		if err := step.run(ctx, plan); err != nil {
			p.progress.Error(step.name, err)
			logger.Debug("publish step failed", "step", step.name, "error", err)
			return "", err
		}
		p.progress.StepDone(step.name)
	}
	logger.Info("release pushed", "remote", plan.Remote)

	if p.announcer == nil {
		return "", nil
	}

	p.progress.Step(StepAnnounce)
	url, err := p.announcer.Announce(ctx, plan)
	if err != nil {
		err = stepError(StepAnnounce, KindAnnounceFailed, err,
			plan.TagName()+" is pushed; create the release announcement manually")
		p.progress.Error(StepAnnounce, err)
		return "", err
	}
	p.progress.StepDone(StepAnnounce)
	logger.Info("release announced", "url", url)
	return url, nil
}

func (p *Publisher) sync(ctx context.Context, plan model.ReleasePlan) error {
	branch := plan.Branch.Name

	if err := p.vcs.Fetch(ctx, plan.Remote, branch); err != nil {
		return stepError(StepSync, KindNetworkError,
			goerr.Wrap(err, "failed to fetch before publishing", goerr.V("remote", plan.Remote)), "")
	}
	if err := p.vcs.Checkout(ctx, branch); err != nil {
		return stepError(StepSync, KindCheckoutFailed,
			goerr.Wrap(err, "failed to check out release branch", goerr.V("branch", branch)), "")
	}
	if err := p.vcs.Pull(ctx, plan.Remote, branch); err != nil {
		return stepError(StepSync, KindSyncConflict,
			goerr.Wrap(err, "release branch cannot fast-forward to the remote", goerr.V("branch", branch)),
			"reconcile "+branch+" with "+plan.Remote+"/"+branch+" and run the release again")
	}
	return nil
}

// guard re-checks what may have changed while the operator was confirming:
// a tag landing on HEAD, or another release moving the latest tag.
func (p *Publisher) guard(ctx context.Context, plan model.ReleasePlan) error {
	tags, err := p.vcs.TagsAtHead(ctx)
	if err != nil {
		return stepError(StepGuard, KindVCSError, goerr.Wrap(err, "failed to list tags at HEAD"), "")
	}
	if len(tags) > 0 {
		return stepError(StepGuard, KindDuplicateTag,
			goerr.New("HEAD is already tagged "+strings.Join(tags, ", "), goerr.V("tags", tags)),
			"another release may have been published; inspect the repository and run again")
	}

	latest, err := p.inspector.ResolveLatestReleaseTag(ctx)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Step = StepGuard
			return e
		}
		return err
	}
	if latest != plan.Previous {
		return stepError(StepGuard, KindStalePlan,
			goerr.New(fmt.Sprintf("latest release is %s, plan was based on %s", latest.TagName(), plan.Previous.TagName()),
				goerr.V("latest", latest.TagName()), goerr.V("planned_previous", plan.Previous.TagName())),
			"run the release again to plan from the new latest tag")
	}
	return nil
}

func (p *Publisher) writeManifest(ctx context.Context, plan model.ReleasePlan) error {
	if err := p.store.WriteVersion(plan.Next.Version()); err != nil {
		return stepError(StepManifest, KindManifestError,
			goerr.Wrap(err, "failed to update manifest", goerr.V("path", p.store.Path())), "")
	}
	if err := p.vcs.Add(ctx, plan.Manifest); err != nil {
		return stepError(StepManifest, KindPublishFailed,
			goerr.Wrap(err, "failed to stage manifest", goerr.V("path", plan.Manifest)), "")
	}
	return nil
}

func (p *Publisher) commit(ctx context.Context, plan model.ReleasePlan) error {
	if err := p.vcs.Commit(ctx, plan.CommitMessage()); err != nil {
		return stepError(StepCommit, KindPublishFailed,
			goerr.Wrap(err, "failed to commit release", goerr.V("message", plan.CommitMessage())),
			"the manifest change is staged; inspect with git status")
	}
	return nil
}

func (p *Publisher) tag(ctx context.Context, plan model.ReleasePlan) error {
	if err := p.vcs.CreateAnnotatedTag(ctx, plan.TagName(), plan.Next.Message()); err != nil {
		return stepError(StepTag, KindPublishFailed,
			goerr.Wrap(err, "failed to create tag", goerr.V("tag", plan.TagName())),
			"the release commit exists locally; remove it with git reset --hard HEAD~1 to retry")
	}
	return nil
}

func (p *Publisher) push(ctx context.Context, plan model.ReleasePlan) error {
	refs := plan.Refs()
	if err := p.vcs.PushAtomic(ctx, plan.Remote, refs...); err != nil {
		return stepError(StepPush, KindPushRejected,
			goerr.Wrap(err, "atomic push was rejected; neither ref was updated",
				goerr.V("remote", plan.Remote), goerr.V("refs", refs)),
			fmt.Sprintf("local commit and tag %s were kept; resolve and run git push --atomic %s %s",
				plan.TagName(), plan.Remote, strings.Join(refs, " ")))
	}
	return nil
}
