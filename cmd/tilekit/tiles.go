// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/tilekit/tilekit/internal/config"
	"github.com/tilekit/tilekit/internal/tiles"
)

type (
	tilesDocument struct {
		Projects []projectTiles `toml:"projects"`
	}

	projectTiles struct {
		Project        string      `toml:"project"`
		InjectionPoint string      `toml:"injection_point,omitempty"`
		Tiles          []tileEntry `toml:"tiles"`
	}

	tileEntry struct {
		Tile     string `toml:"tile"`
		Location string `toml:"location"`
	}
)

func newTilesCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tiles",
		Short: "List the tiles applied to each project",
		Long: `List, for every project of the reactor that uses tiles, the applied tiles from the
nearest ancestor outwards together with the file each was loaded from.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outcomes, err := app.apply(cmd.Context(), "")
			if err != nil {
				return classify(err)
			}
			if config.OutputFormat(format) == config.FormatTOML {
				return renderTilesTOML(cmd.OutOrStdout(), outcomes)
			}
			renderTiles(cmd.OutOrStdout(), outcomes)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format: toml for a machine readable listing")
	return cmd
}

func renderTiles(w io.Writer, outcomes []*tiles.Outcome) {
	for _, out := range outcomes {
		fmt.Fprintln(w, TitleStyle.Render(out.Project.GAV()))
		if len(out.Tiles) == 0 {
			fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(no tiles)"))
			continue
		}
		if out.InjectionPoint != "" {
			fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("injected before"), KeyStyle.Render(out.InjectionPoint))
		}
		for _, t := range out.Tiles {
			fmt.Fprintf(w, "  %s %s %s\n", skipIcon, KeyStyle.Render(t.Coordinate.GAV()), SubtitleStyle.Render(t.Location))
		}
	}
}

func renderTilesTOML(w io.Writer, outcomes []*tiles.Outcome) error {
	doc := tilesDocument{}
	for _, out := range outcomes {
		entry := projectTiles{Project: out.Project.GAV(), InjectionPoint: out.InjectionPoint}
		for _, t := range out.Tiles {
			entry.Tiles = append(entry.Tiles, tileEntry{Tile: t.Coordinate.GAV(), Location: t.Location})
		}
		doc.Projects = append(doc.Projects, entry)
	}
	return toml.NewEncoder(w).Encode(doc)
}
