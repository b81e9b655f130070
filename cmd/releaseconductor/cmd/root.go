package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grokify/releaseconductor/internal/logging"
)

// app carries the configuration shared by all commands.
type app struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCmd builds the command tree with its own configuration.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "releaseconductor",
		Short: "Safe, atomic releases for a single repository",
		Long: `ReleaseConductor releases a repository the same way every time:
it checks the working tree, plans the next Release-X.Y.Z tag, asks for
confirmation and then publishes the version bump commit and tag with one
atomic push.

Features:
  - Patch, minor and major releases governed by release profiles
  - package.json, YAML, TOML and VERSION manifests
  - Precondition checks: clean tree, release branch, synced, untagged HEAD
  - Optional GitHub release after the push`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.releaseconductor.yaml)")
	pf.String("dir", ".", "Repository directory")
	pf.String("remote", "", "Remote to release to (default is the profile's remote, then origin)")
	pf.String("manifest", "package.json", "Manifest file holding the version, relative to --dir")
	pf.String("manifest-field", "", "Dotted path of the version field (default depends on the manifest type)")
	pf.String("profile", "balanced", "Release profile: aggressive, balanced, conservative")
	pf.String("profile-file", "", "Load the release profile from a YAML file")
	pf.String("initial-version", "", "Previous version to assume when no Release-X.Y.Z tag exists")
	pf.String("token", "", "GitHub token (or set GITHUB_TOKEN env var)")
	pf.String("format", "table", "Output format: table, json, markdown, csv")
	pf.Bool("verbose", false, "Enable verbose output")
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.Bool("log-json", false, "Output logs in JSON format")

	// Bind flags to viper
	for _, name := range []string{
		"dir", "remote", "manifest", "manifest-field", "profile", "profile-file",
		"initial-version", "token", "format", "verbose", "log-level", "log-json",
	} {
		_ = a.v.BindPFlag(name, pf.Lookup(name))
	}

	rootCmd.AddCommand(
		newReleaseCmd(a),
		newPlanCmd(a),
		newInspectCmd(a),
		newProfilesCmd(a),
	)
	return rootCmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return handleError(rootCmd.ErrOrStderr(), err)
	}
	return 0
}

// setup reads configuration and puts the logger into the command context.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.initConfig(cmd)

	level := a.v.GetString("log-level")
	if a.v.GetBool("verbose") && !cmd.Flags().Changed("log-level") {
		level = "info"
	}

	logCfg := &logging.Logger{
		Level: level,
		JSON:  a.v.GetBool("log-json"),
		Color: isTerminal(cmd.ErrOrStderr()),
	}
	logger, err := logCfg.Configure(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	slog.SetDefault(logger)
	cmd.SetContext(ctxlog.With(ctx, logger))

	if a.v.ConfigFileUsed() != "" {
		logger.Info("using config file", "path", a.v.ConfigFileUsed())
	}
	return nil
}

// initConfig reads in config file and ENV variables if set.
func (a *app) initConfig(cmd *cobra.Command) {
	if a.cfgFile != "" {
		// Use config file from the flag.
		a.v.SetConfigFile(a.cfgFile)
	} else {
		// Search config in home directory and the working directory with name
		// ".releaseconductor" (without extension).
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".releaseconductor")
	}

	// Environment variables
	a.v.SetEnvPrefix("RELEASECONDUCTOR")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	// Also check GITHUB_TOKEN directly
	if a.v.GetString("token") == "" {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			a.v.Set("token", token)
		}
	}

	// If a config file is found, read it in.
	if err := a.v.ReadInConfig(); err != nil && a.cfgFile != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: failed to read config file:", err)
	}
}

// str returns section.key when set, falling back to the top-level key, so a
// config file can set "branch" once for every command.
func (a *app) str(section, key string) string {
	if s := a.v.GetString(section + "." + key); s != "" {
		return s
	}
	return a.v.GetString(key)
}

func (a *app) flag(section, key string) bool {
	return a.v.GetBool(section+"."+key) || a.v.GetBool(key)
}
