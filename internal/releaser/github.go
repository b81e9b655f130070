package releaser

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v84/github"
	"github.com/grokify/gogithub/release"
	"github.com/grokify/mogo/net/http/retryhttp"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/grokify/releaseconductor/internal/vcs"
	"github.com/grokify/releaseconductor/pkg/model"
)

// GitHubConfig configures the GitHub release announcer.
type GitHubConfig struct {
	// Token is the GitHub token used to create releases.
	Token string

	// MaxRetries is the maximum number of retries for rate-limited requests.
	// Default is 3.
	MaxRetries int

	// InitialBackoff is the initial backoff duration for retries.
	// Default is 1 second.
	InitialBackoff time.Duration

	// GenerateNotes asks GitHub to generate release notes from merged PRs.
	GenerateNotes bool
}

// GitHubAnnouncer creates a GitHub release for a pushed release tag. The
// repository is derived from the URL of the plan's remote.
type GitHubAnnouncer struct {
	client        *github.Client
	vcs           vcs.Client
	generateNotes bool
}

// NewGitHubAnnouncer creates an announcer with a retrying HTTP client.
func NewGitHubAnnouncer(client vcs.Client, cfg GitHubConfig) *GitHubAnnouncer {
	retryOpts := []retryhttp.Option{}

	if cfg.MaxRetries > 0 {
		retryOpts = append(retryOpts, retryhttp.WithMaxRetries(cfg.MaxRetries))
	}
	if cfg.InitialBackoff > 0 {
		retryOpts = append(retryOpts, retryhttp.WithInitialBackoff(cfg.InitialBackoff))
	}

	// Retry transport handles 429 rate limits automatically
	rt := retryhttp.NewWithOptions(retryOpts...)
	gh := github.NewClient(&http.Client{Transport: rt})
	if cfg.Token != "" {
		gh = gh.WithAuthToken(cfg.Token)
	}

	return &GitHubAnnouncer{
		client:        gh,
		vcs:           client,
		generateNotes: cfg.GenerateNotes,
	}
}

// Announce creates the GitHub release for plan's tag and returns its URL.
func (a *GitHubAnnouncer) Announce(ctx context.Context, plan model.ReleasePlan) (string, error) {
	remoteURL, err := a.vcs.RemoteURL(ctx, plan.Remote)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read remote URL", goerr.V("remote", plan.Remote))
	}

	repo, err := model.ParseRemoteURL(remoteURL)
	if err != nil {
		return "", goerr.Wrap(err, "remote is not a GitHub repository", goerr.V("url", remoteURL))
	}

	ghRelease := &github.RepositoryRelease{
		TagName:              github.Ptr(plan.TagName()),
		Name:                 github.Ptr(plan.TagName()),
		Body:                 github.Ptr(plan.Next.Message()),
		TargetCommitish:      github.Ptr(plan.Branch.Name),
		GenerateReleaseNotes: github.Ptr(a.generateNotes),
	}

	created, err := release.CreateRelease(ctx, a.client, repo.Owner, repo.Name, ghRelease)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create GitHub release "+plan.TagName()+" in "+repo.FullName(),
			goerr.V("repo", repo.FullName()), goerr.V("tag", plan.TagName()))
	}

	ctxlog.From(ctx).Debug("created GitHub release",
		"repo", repo.FullName(),
		"id", created.GetID(),
		"url", created.GetHTMLURL(),
	)
	return created.GetHTMLURL(), nil
}
