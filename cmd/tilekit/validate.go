// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilekit/tilekit/internal/tiles"
)

func newValidateCommand(app *App) *cobra.Command {
	var smells string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the tile files of the reactor",
		Long: `Check the tile file of every reactor project that publishes one. Tiles must not
carry coordinates, a parent or build extensions, and may only contain dependencies,
dependency management, repositories or plugin management when the matching smell is
allowed with --smells or the buildSmells configuration.

Examples:
  tilekit validate
  tilekit validate --smells dependencies,pluginmanagement`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.openSession()
			if err != nil {
				return classify(err)
			}
			out := cmd.OutOrStdout()
			opts := app.attachOptions(s, smells)

			var errs []error
			for _, p := range s.reactor.Projects {
				if !ownsTile(p) {
					continue
				}
				if err := tiles.ValidateProject(p, opts); err != nil {
					fmt.Fprintf(out, "%s %s: %v\n", ErrorStyle.Render(errorIcon), p.GAV(), err)
					errs = append(errs, fmt.Errorf("%s: %w", p.GAV(), err))
					continue
				}
				fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render(successIcon), p.GAV())
			}
			if len(errs) > 0 {
				return &ExitError{Code: 1, Err: classify(errors.Join(errs...))}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&smells, "smells", "", "comma-separated smells to allow (overrides configuration)")
	return cmd
}
