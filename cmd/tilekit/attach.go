// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilekit/tilekit/internal/repository"
	"github.com/tilekit/tilekit/internal/tiles"
)

// errNoRemote is returned by attach --deploy without a configured remote repository.
var errNoRemote = errors.New("no remote repository configured")

func newAttachCommand(app *App) *cobra.Command {
	var (
		smells string
		deploy bool
	)
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Validate tiles and install them into the repositories",
		Long: `Validate the tile file of every reactor project that publishes one and install it,
together with the project descriptor, into the local repository. Projects with tile
packaging publish the tile as their main artifact. With --deploy the tile is also
uploaded to the configured remote repository.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.openSession()
			if err != nil {
				return classify(err)
			}
			publishers := []repository.Publisher{s.chain.Local()}
			if deploy {
				if s.remote == nil {
					return errNoRemote
				}
				publishers = append(publishers, s.remote)
			}

			out := cmd.OutOrStdout()
			opts := app.attachOptions(s, smells)
			for _, p := range s.reactor.Projects {
				if !ownsTile(p) {
					continue
				}
				att, err := tiles.Attach(cmd.Context(), p, opts, publishers...)
				if err != nil {
					return classify(fmt.Errorf("%s: %w", p.GAV(), err))
				}
				kind := "attached"
				if att.Main {
					kind = "main artifact"
				}
				fmt.Fprintf(out, "%s %s %s\n", SuccessStyle.Render(successIcon), KeyStyle.Render(att.Tile.GAV()), SubtitleStyle.Render("("+kind+")"))
				for _, loc := range att.Locations {
					fmt.Fprintf(out, "  %s %s\n", skipIcon, loc)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&smells, "smells", "", "comma-separated smells to allow (overrides configuration)")
	cmd.Flags().BoolVar(&deploy, "deploy", false, "also upload to the remote repository")
	return cmd
}
