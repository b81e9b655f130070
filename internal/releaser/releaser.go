// Package releaser implements the release workflow: inspect the repository,
// plan the next version, validate preconditions, confirm with the operator
// and publish the release commit and tag with a single atomic push.
package releaser

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/grokify/releaseconductor/internal/manifest"
	"github.com/grokify/releaseconductor/internal/operator"
	"github.com/grokify/releaseconductor/internal/policy"
	"github.com/grokify/releaseconductor/internal/vcs"
	"github.com/grokify/releaseconductor/pkg/model"
)

// Options configures release behavior.
type Options struct {
	Remote         string // Remote to fetch from and push to, e.g. "origin"
	Manifest       string // Manifest path as staged in git, e.g. "package.json"
	InitialVersion string // Version used when no release tag exists yet
	AutoCheckout   bool   // Switch to the release branch instead of failing
	AssumeYes      bool   // Acknowledge the plan without asking
}

// DefaultOptions returns sensible default release options.
func DefaultOptions() Options {
	return Options{
		Remote:   "origin",
		Manifest: "package.json",
	}
}

// Config holds the collaborators of a Releaser.
type Config struct {
	Options  Options
	VCS      vcs.Client
	Store    manifest.Store
	Operator operator.Operator
	Engine   *policy.Engine
	Renderer PlanRenderer
	// Out receives the rendered plan.
	Out       io.Writer
	Progress  ProgressReporter
	Announcer Announcer // optional
}

// Request selects what to release. Empty fields are asked of the operator.
type Request struct {
	Branch    string
	Increment string
}

// Releaser runs the release pipeline.
type Releaser struct {
	opts      Options
	vcs       vcs.Client
	store     manifest.Store
	operator  operator.Operator
	engine    *policy.Engine
	contexts  *policy.ContextBuilder
	inspector *Inspector
	validator *Validator
	gate      *Gate
	publisher *Publisher
	now       func() time.Time
}

// New creates a Releaser. A nil engine uses the default release profile.
// An empty remote falls back to the profile's remote, then to "origin".
func New(cfg Config) (*Releaser, error) {
	if cfg.VCS == nil || cfg.Store == nil || cfg.Operator == nil || cfg.Renderer == nil {
		return nil, goerr.New("releaser requires a VCS client, manifest store, operator and renderer")
	}
	if cfg.Options.Manifest == "" {
		cfg.Options.Manifest = DefaultOptions().Manifest
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}

	engine := cfg.Engine
	if engine == nil {
		var err error
		if engine, err = policy.NewEngine(""); err != nil {
			return nil, err
		}
	}

	opts := cfg.Options
	if engine.Profile().AutoCheckout {
		opts.AutoCheckout = true
	}
	// An explicit remote wins over the profile's.
	if opts.Remote == "" {
		opts.Remote = engine.Profile().Remote
	}
	if opts.Remote == "" {
		opts.Remote = DefaultOptions().Remote
	}

	inspector := NewInspector(cfg.VCS, opts.Remote, opts.InitialVersion)
	return &Releaser{
		opts:      opts,
		vcs:       cfg.VCS,
		store:     cfg.Store,
		operator:  cfg.Operator,
		engine:    engine,
		contexts:  policy.NewContextBuilder(),
		inspector: inspector,
		validator: NewValidator(cfg.VCS, inspector, opts.AutoCheckout),
		gate:      NewGate(cfg.Operator, cfg.Renderer, cfg.Out, opts.AssumeYes),
		publisher: NewPublisher(cfg.VCS, inspector, cfg.Store, cfg.Progress, cfg.Announcer),
		now:       time.Now,
	}, nil
}

// Run executes the full pipeline. A declined confirmation returns a result
// with status aborted and no error. On failure the result records the failed
// step and the error is returned as well.
func (r *Releaser) Run(ctx context.Context, req Request) (*model.ReleaseResult, error) {
	result := &model.ReleaseResult{Timestamp: r.now()}

	plan, state, err := r.prepare(ctx, req, model.PolicyActionRelease)
	if plan != nil {
		result.Plan = plan
	}
	result.State = state
	if err != nil {
		return r.finish(ctx, result, err)
	}

	// Last point where an interrupt stops the run.
	if err := ctx.Err(); err != nil {
		return r.finish(ctx, result, err)
	}

	confirmed, err := r.gate.Confirm(ctx, *plan)
	if err != nil {
		return r.finish(ctx, result, err)
	}
	if !confirmed {
		result.Status = model.ReleaseStatusAborted
		ctxlog.From(ctx).Info("release aborted by operator", "tag", plan.TagName())
		return result, nil
	}

	url, err := r.publisher.Publish(ctx, *plan)
	if err != nil {
		return r.finish(ctx, result, err)
	}

	result.Status = model.ReleaseStatusPublished
	result.ReleaseURL = url
	ctxlog.From(ctx).Info("release published", "tag", plan.TagName(), "branch", plan.Branch.Name)
	return result, nil
}

// Plan inspects, plans and validates without mutating anything.
func (r *Releaser) Plan(ctx context.Context, req Request) (*model.ReleaseResult, error) {
	result := &model.ReleaseResult{Timestamp: r.now()}

	plan, state, err := r.prepare(ctx, req, model.PolicyActionPlan)
	result.Plan = plan
	result.State = state
	if err != nil {
		return r.finish(ctx, result, err)
	}

	result.Status = model.ReleaseStatusPlanned
	return result, nil
}

// Inspect reports remote branches, the latest release tag and the state of
// branch. An empty branch inspects the checked out branch.
func (r *Releaser) Inspect(ctx context.Context, branch string) (*model.InspectResult, error) {
	result := &model.InspectResult{Timestamp: r.now(), Remote: r.opts.Remote}

	branches, err := r.inspector.ResolveBranchCandidates(ctx)
	if err != nil {
		return nil, err
	}
	result.Branches = branches

	if branch == "" {
		if branch, err = r.vcs.CurrentBranch(ctx); err != nil {
			return nil, newError(KindVCSError, goerr.Wrap(err, "failed to read current branch"), "")
		}
	}

	if branch != "" {
		if result.State, err = r.inspector.CaptureState(ctx, branch); err != nil {
			return nil, err
		}
	} else if result.State, err = r.inspector.Snapshot(ctx, branch); err != nil {
		return nil, err
	}

	latest, err := r.inspector.ResolveLatestReleaseTag(ctx)
	switch {
	case KindOf(err) == KindNoPriorRelease:
	case err != nil:
		return nil, err
	default:
		result.LatestTag = latest.TagName()
	}

	return result, nil
}

// prepare runs everything up to the confirmation gate. The returned plan is
// nil when planning did not complete.
func (r *Releaser) prepare(ctx context.Context, req Request, action model.PolicyAction) (*model.ReleasePlan, model.RepositoryState, error) {
	logger := ctxlog.From(ctx)

	candidates, err := r.inspector.ResolveBranchCandidates(ctx)
	if err != nil {
		return nil, model.RepositoryState{}, err
	}

	branch, err := r.selectBranch(ctx, req.Branch, candidates)
	if err != nil {
		return nil, model.RepositoryState{}, err
	}

	kind, err := r.selectIncrement(ctx, req.Increment)
	if err != nil {
		return nil, model.RepositoryState{}, err
	}
	logger.Debug("release selected", "branch", branch, "increment", kind)

	state, err := r.inspector.CaptureState(ctx, branch)
	if err != nil {
		return nil, state, err
	}

	previous, err := r.inspector.ResolveLatestReleaseTag(ctx)
	if err != nil {
		return nil, state, err
	}

	plan, err := NewReleasePlan(branch, previous, kind, r.opts.Remote, r.opts.Manifest)
	if err != nil {
		return nil, state, err
	}

	decision, err := r.engine.Evaluate(ctx, action, r.contexts.Build(branch, kind, &plan))
	if err != nil {
		return &plan, state, err
	}
	if !decision.Allowed {
		profile := r.engine.Profile()
		kind, hint := KindIncrementNotAllowed, "choose a different increment or profile"
		if decision.Violates(model.PolicyRuleReleaseBranch) {
			kind, hint = KindBranchNotAllowed, "release from "+profile.ReleaseBranch+" or choose a different profile"
		}
		return &plan, state, newError(kind,
			goerr.New("release profile "+profile.Name+" denies "+plan.TagName()+": "+strings.Join(decision.Reasons, "; "),
				goerr.V("profile", profile.Name), goerr.V("reasons", decision.Reasons)),
			hint)
	}

	if err := r.checkManifest(ctx, previous); err != nil {
		return &plan, state, err
	}

	validator := r.validator
	if action == model.PolicyActionPlan {
		// Planning never switches branches.
		validator = NewValidator(r.vcs, r.inspector, false)
	}
	state, err = validator.Validate(ctx, state, branch)
	if err != nil {
		return &plan, state, err
	}

	logger.Info("release planned",
		"branch", branch,
		"previous", previous.TagName(),
		"next", plan.TagName(),
	)
	return &plan, state, nil
}

func (r *Releaser) selectBranch(ctx context.Context, requested string, candidates []string) (string, error) {
	if requested == "" {
		requested = r.engine.Profile().ReleaseBranch
	}

	if requested != "" {
		if !slices.Contains(candidates, requested) {
			return "", newError(KindUnknownBranch,
				goerr.New("branch "+requested+" does not exist on remote "+r.opts.Remote,
					goerr.V("branch", requested), goerr.V("candidates", candidates)),
				"choose one of: "+strings.Join(candidates, ", "))
		}
		return requested, nil
	}

	branch, err := r.operator.Select(ctx, "Which branch do you want to release?", candidates)
	if err != nil {
		return "", operatorError(err, "branch")
	}
	return branch, nil
}

func (r *Releaser) selectIncrement(ctx context.Context, requested string) (model.IncrementKind, error) {
	allowed := r.engine.AllowedIncrements()

	if requested != "" {
		kind, err := model.ParseIncrementKind(requested)
		if err != nil {
			return "", newError(KindUnsupportedIncrement, goerr.Wrap(err, "invalid increment"),
				"use one of: patch, minor, major")
		}
		return kind, nil
	}

	options := make([]string, 0, len(allowed))
	for _, k := range allowed {
		options = append(options, k.String())
	}

	answer, err := r.operator.Select(ctx, "What type of release is this?", options)
	if err != nil {
		return "", operatorError(err, "increment")
	}

	kind, err := model.ParseIncrementKind(answer)
	if err != nil {
		return "", newError(KindUnsupportedIncrement, goerr.Wrap(err, "invalid increment"), "")
	}
	return kind, nil
}

// checkManifest makes sure the manifest is readable before anything is
// mutated, and warns when its version has drifted from the latest tag.
func (r *Releaser) checkManifest(ctx context.Context, previous model.VersionTag) error {
	current, err := r.store.ReadVersion()
	if err != nil {
		return newError(KindManifestError,
			goerr.Wrap(err, "failed to read manifest version", goerr.V("path", r.store.Path())),
			"check that "+r.opts.Manifest+" exists and has a version field")
	}

	if !sameVersion(current, previous) {
		ctxlog.From(ctx).Warn("manifest version differs from latest release tag",
			"manifest", current,
			"tag", previous.TagName(),
		)
	}
	return nil
}

func sameVersion(manifestVersion string, tag model.VersionTag) bool {
	got, err := Parse(manifestVersion)
	if err != nil {
		return false
	}
	want, err := Parse(tag.Version())
	if err != nil {
		return false
	}
	return got.Compare(want) == 0
}

// finish records err in result. A cancelled context is reported as an
// aborted run rather than a failure.
func (r *Releaser) finish(ctx context.Context, result *model.ReleaseResult, err error) (*model.ReleaseResult, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, operator.ErrAborted) {
		result.Status = model.ReleaseStatusAborted
		ctxlog.From(ctx).Info("release aborted", "reason", err.Error())
		return result, nil
	}

	result.Status = model.ReleaseStatusFailed
	result.FailedStep = StepOf(err)
	result.Error = err.Error()
	return result, err
}

func operatorError(err error, question string) error {
	switch {
	case errors.Is(err, operator.ErrAborted):
		return err
	case errors.Is(err, operator.ErrNoInput):
		return newError(KindMissingInput,
			goerr.Wrap(err, "no answer for "+question, goerr.V("question", question)),
			"pass --"+question+" for unattended runs")
	default:
		return goerr.Wrap(err, "failed to ask operator", goerr.V("question", question))
	}
}
