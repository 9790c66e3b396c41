// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilekit/tilekit/internal/config"
)

// newConfigCommand creates the `tilekit config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tilekit configuration",
		Long: `Manage tilekit configuration.

Configuration is read from $XDG_CONFIG_HOME/tilekit/config.cue (~/.config/tilekit),
then from tilekit.cue in the working directory. TILEKIT_* environment variables and a
.env file override file values, e.g. TILEKIT_REMOTE_BUCKET.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			source := SubtitleStyle.Render("(using defaults)")
			if app.cfgPath != "" {
				source = app.cfgPath
			}
			fmt.Fprintf(out, "%s: %s\n\n", KeyStyle.Render("Config file"), source)
			fmt.Fprint(out, config.GenerateCUE(app.settings))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render(successIcon), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	})

	return cfgCmd
}
