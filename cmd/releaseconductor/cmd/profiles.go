package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grokify/releaseconductor/internal/policy"
	"github.com/grokify/releaseconductor/internal/report"
	"github.com/grokify/releaseconductor/pkg/model"
)

func newProfilesCmd(a *app) *cobra.Command {
	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in release profiles",
		Long: `List the built-in release profiles. A profile decides which increments
may be released, whether releases are limited to one branch and whether
the release branch is checked out automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formatter, err := report.New(a.v.GetString("format"))
			if err != nil {
				return err
			}

			var profiles []model.ReleaseProfile
			for _, name := range policy.ListProfiles() {
				profiles = append(profiles, *policy.GetProfile(name))
			}

			out, err := formatter.FormatProfiles(profiles)
			if err != nil {
				return fmt.Errorf("failed to format profiles: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	profilesCmd.AddCommand(&cobra.Command{
		Use:   "export <name> <file>",
		Short: "Write a built-in profile to a YAML file for customizing",
		Long: `Write a built-in profile to a YAML file. Edit the file and pass it
with --profile-file to release with a custom profile.

Example:
  releaseconductor profiles export conservative release-profile.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := policy.GetProfile(args[0])
			if profile == nil {
				return fmt.Errorf("unknown profile %q (available: %v)", args[0], policy.ListProfiles())
			}
			if err := policy.SaveProfileToFile(profile, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote profile %s to %s\n", profile.Name, args[1])
			return nil
		},
	})

	return profilesCmd
}
