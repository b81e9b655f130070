package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReleaseCmd(a *app) *cobra.Command {
	releaseCmd := &cobra.Command{
		Use:   "release",
		Short: "Plan, confirm and publish the next release",
		Long: `Plan the next Release-X.Y.Z tag for a branch, check that the repository
is ready, show the plan for confirmation and publish it.

Publishing bumps the manifest version, commits it with the tag name as the
message, creates an annotated tag with message FEA-X.Y.Z and pushes the
branch and tag together with git push --atomic.

Examples:
  # Choose the branch and increment interactively
  releaseconductor release

  # Release a patch from main
  releaseconductor release --branch main --increment patch

  # Unattended minor release, then create a GitHub release
  releaseconductor release --branch main --increment minor --yes --github-release`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelease(cmd, a)
		},
	}

	f := releaseCmd.Flags()
	f.String("branch", "", "Branch to release (asked when empty)")
	f.String("increment", "", "Increment: patch, minor, major (asked when empty)")
	f.BoolP("yes", "y", false, "Publish without asking for confirmation")
	f.Bool("checkout", false, "Switch to the release branch instead of failing")
	f.Bool("github-release", false, "Create a GitHub release after pushing")

	for _, name := range []string{"branch", "increment", "yes", "checkout", "github-release"} {
		_ = a.v.BindPFlag("release."+name, f.Lookup(name))
	}
	return releaseCmd
}

func runRelease(cmd *cobra.Command, a *app) error {
	p, err := a.newPipeline(cmd, pipelineOptions{
		assumeYes:     a.flag("release", "yes"),
		autoCheckout:  a.flag("release", "checkout"),
		announce:      true,
		githubRelease: a.flag("release", "github-release"),
	})
	if err != nil {
		return err
	}

	result, err := p.releaser.Run(cmd.Context(), a.request("release"))
	if err != nil {
		return err
	}

	out, err := p.formatter.FormatReleaseResult(result)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
