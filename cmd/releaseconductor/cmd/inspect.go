package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show remote branches, the latest release and repository state",
		Long: `Fetch from the remote and report what a release would start from:
the remote branches, the latest Release-X.Y.Z tag and the state of the
working tree relative to the remote branch.

Examples:
  releaseconductor inspect
  releaseconductor inspect --branch main --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, a)
		},
	}

	inspectCmd.Flags().String("branch", "", "Branch to inspect (default is the checked out branch)")
	_ = a.v.BindPFlag("inspect.branch", inspectCmd.Flags().Lookup("branch"))
	return inspectCmd
}

func runInspect(cmd *cobra.Command, a *app) error {
	p, err := a.newPipeline(cmd, pipelineOptions{})
	if err != nil {
		return err
	}

	result, err := p.releaser.Inspect(cmd.Context(), a.str("inspect", "branch"))
	if err != nil {
		return err
	}

	out, err := p.formatter.FormatInspectResult(result)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
