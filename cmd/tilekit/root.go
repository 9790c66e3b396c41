// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/tilekit/tilekit/internal/issue"
	"github.com/tilekit/tilekit/internal/project"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand creates the tilekit command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tilekit",
		Short: "Compose project descriptors from reusable tiles",
		Long: TitleStyle.Render("tilekit") + SubtitleStyle.Render(" - compose project descriptors from reusable tiles") + `

A tile is a partial project descriptor. Projects list the tiles they use in the
configuration of the tiles plugin; tilekit resolves them transitively, splices them
into the parent chain and computes the effective descriptor.

` + SubtitleStyle.Render("Examples:") + `
  tilekit effective                 Print the effective descriptors of the reactor
  tilekit tiles                     List the tiles applied to each project
  tilekit validate                  Check tile files for forbidden constructs
  tilekit attach --deploy           Install tiles locally and upload them
  tilekit config show               Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd.Context(), cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&app.flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/tilekit/config.cue)")
	flags.BoolVar(&app.flags.release, "release", false, "reject snapshot tiles")
	flags.StringVarP(&app.flags.file, "file", "f", project.DescriptorFileName, "project descriptor or directory of the reactor root")

	rootCmd.AddCommand(
		newEffectiveCommand(app),
		newTilesCommand(app),
		newValidateCommand(app),
		newAttachCommand(app),
		newConfigCommand(app),
		newIssuesCommand(),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err == nil {
		return
	}

	var ae *issue.ActionableError
	if app.flags.verbose && errors.As(err, &ae) {
		fmt.Fprintln(os.Stderr, ae.Format(true))
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(os.Stderr, svcErr)
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	os.Exit(1)
}

// newIssuesCommand lists the issue catalog or renders a single entry.
func newIssuesCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "issues [id]",
		Short:  "Explain known problems and how to fix them",
		Args:   cobra.MaximumNArgs(1),
		Hidden: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, entry := range issue.Values() {
				if len(args) == 1 && fmt.Sprint(int(entry.Id())) != args[0] {
					continue
				}
				rendered, err := entry.Render(issueStyle)
				if err != nil {
					return err
				}
				fmt.Fprint(out, rendered)
			}
			return nil
		},
	}
}
