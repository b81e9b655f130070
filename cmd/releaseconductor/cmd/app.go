package cmd

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/grokify/releaseconductor/internal/manifest"
	"github.com/grokify/releaseconductor/internal/operator"
	"github.com/grokify/releaseconductor/internal/policy"
	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/internal/report"
	"github.com/grokify/releaseconductor/internal/vcs"
)

// pipeline is a configured releaser plus the formatter for its output.
type pipeline struct {
	releaser  *releaser.Releaser
	formatter report.Formatter
}

// pipelineOptions are the command-specific settings of a pipeline.
type pipelineOptions struct {
	assumeYes    bool
	autoCheckout bool
	// announce is set by commands that publish; only they may create a
	// GitHub release, when githubRelease or the profile asks for one.
	announce      bool
	githubRelease bool
}

func (a *app) engine() (*policy.Engine, error) {
	if path := a.v.GetString("profile-file"); path != "" {
		profile, err := policy.LoadProfileFromFile(path)
		if err != nil {
			return nil, err
		}
		return policy.NewEngineWithProfile(profile), nil
	}
	return policy.NewEngine(a.v.GetString("profile"))
}

func (a *app) newPipeline(cmd *cobra.Command, opts pipelineOptions) (*pipeline, error) {
	if !vcs.IsGitInstalled() {
		return nil, goerr.New("git executable not found in PATH")
	}

	formatter, err := report.New(a.v.GetString("format"))
	if err != nil {
		return nil, err
	}

	engine, err := a.engine()
	if err != nil {
		return nil, err
	}

	dir := a.v.GetString("dir")
	manifestPath := a.v.GetString("manifest")
	store, err := manifest.Open(filepath.Join(dir, manifestPath), a.v.GetString("manifest-field"))
	if err != nil {
		return nil, err
	}

	git := vcs.NewGit(dir)

	var announcer releaser.Announcer
	if opts.announce && (opts.githubRelease || engine.Profile().GitHubRelease) {
		token := a.v.GetString("token")
		if token == "" {
			return nil, goerr.New("GitHub release requested but no token is configured; set GITHUB_TOKEN or use --token")
		}
		announcer = releaser.NewGitHubAnnouncer(git, releaser.GitHubConfig{
			Token:          token,
			MaxRetries:     3,
			InitialBackoff: time.Second,
			GenerateNotes:  true,
		})
	}

	format := a.v.GetString("format")
	r, err := releaser.New(releaser.Config{
		Options: releaser.Options{
			Remote:         a.v.GetString("remote"),
			Manifest:       manifestPath,
			InitialVersion: a.v.GetString("initial-version"),
			AutoCheckout:   opts.autoCheckout,
			AssumeYes:      opts.assumeYes,
		},
		VCS:      git,
		Store:    store,
		Operator: operator.New(cmd.InOrStdin(), cmd.ErrOrStderr()),
		Engine:   engine,
		Renderer: formatter,
		Out:      cmd.OutOrStdout(),
		Progress: releaser.NewProgress(releaser.ProgressConfig{
			Writer:  cmd.ErrOrStderr(),
			Enabled: format == "" || format == "table",
		}),
		Announcer: announcer,
	})
	if err != nil {
		return nil, err
	}

	return &pipeline{releaser: r, formatter: formatter}, nil
}

func (a *app) request(section string) releaser.Request {
	return releaser.Request{
		Branch:    a.str(section, "branch"),
		Increment: a.str(section, "increment"),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
