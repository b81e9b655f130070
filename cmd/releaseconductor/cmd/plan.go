package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlanCmd(a *app) *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the next release without publishing it",
		Long: `Inspect the repository, compute the next release and run every
precondition check, then print the plan. Nothing is committed, tagged,
pushed or checked out.

Examples:
  releaseconductor plan --branch main --increment minor
  releaseconductor plan --branch main --increment patch --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, a)
		},
	}

	f := planCmd.Flags()
	f.String("branch", "", "Branch to release (asked when empty)")
	f.String("increment", "", "Increment: patch, minor, major (asked when empty)")

	_ = a.v.BindPFlag("plan.branch", f.Lookup("branch"))
	_ = a.v.BindPFlag("plan.increment", f.Lookup("increment"))
	return planCmd
}

func runPlan(cmd *cobra.Command, a *app) error {
	p, err := a.newPipeline(cmd, pipelineOptions{})
	if err != nil {
		return err
	}

	result, err := p.releaser.Plan(cmd.Context(), a.request("plan"))
	if err != nil {
		return err
	}
	if result.Plan == nil {
		// Selection was cancelled.
		return nil
	}

	out, err := p.formatter.FormatPlan(result.Plan)
	if err != nil {
		return fmt.Errorf("failed to format plan: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
