// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/tilekit/tilekit/internal/config"
	"github.com/tilekit/tilekit/internal/project"
	"github.com/tilekit/tilekit/internal/tiles"
	"github.com/tilekit/tilekit/pkg/pom"
)

type (
	// effectiveDocument is the TOML rendition of the effective descriptors.
	effectiveDocument struct {
		Projects []effectiveView `toml:"projects"`
	}

	effectiveView struct {
		Project        string            `toml:"project"`
		Packaging      string            `toml:"packaging"`
		Parent         string            `toml:"parent,omitempty"`
		InjectionPoint string            `toml:"injection_point,omitempty"`
		Tiles          []string          `toml:"tiles,omitempty"`
		Properties     map[string]string `toml:"properties,omitempty"`
		Dependencies   []dependencyView  `toml:"dependencies,omitempty"`
		Plugins        []pluginView      `toml:"plugins,omitempty"`
	}

	dependencyView struct {
		Coordinate string `toml:"coordinate"`
		Scope      string `toml:"scope,omitempty"`
	}

	pluginView struct {
		Plugin     string   `toml:"plugin"`
		Version    string   `toml:"version,omitempty"`
		Executions []string `toml:"executions,omitempty"`
	}
)

func newEffectiveCommand(app *App) *cobra.Command {
	var (
		format   string
		selector string
	)
	cmd := &cobra.Command{
		Use:   "effective",
		Short: "Print the effective descriptors after tiles are applied",
		Long: `Apply tiles to every project of the reactor and print the resulting effective
descriptors, as project XML (default) or as a TOML summary.

Examples:
  tilekit effective
  tilekit effective --format toml
  tilekit effective --project com.example:service`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := config.OutputFormat(format)
			if format == "" {
				f = app.settings.UI.Format
			}
			if valid, errs := f.IsValid(); !valid {
				return errs[0]
			}
			outcomes, err := app.apply(cmd.Context(), selector)
			if err != nil {
				return classify(err)
			}
			return renderEffective(cmd.OutOrStdout(), f, outcomes)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format: xml or toml (default from ui.format)")
	cmd.Flags().StringVarP(&selector, "project", "p", "", "only print the project with this groupId:artifactId")
	return cmd
}

// apply runs the orchestrator over the reactor and returns one outcome per project,
// optionally restricted to the project whose group:artifact is selector.
func (a *App) apply(ctx context.Context, selector string) ([]*tiles.Outcome, error) {
	s, err := a.openSession()
	if err != nil {
		return nil, err
	}
	applied, err := s.orchestrator.Run(ctx, s.reactor)
	if err != nil {
		return nil, err
	}
	byProject := make(map[*project.Project]*tiles.Outcome, len(applied))
	for _, out := range applied {
		byProject[out.Project] = out
	}

	outcomes := make([]*tiles.Outcome, 0, len(s.reactor.Projects))
	for _, p := range s.reactor.Projects {
		if selector != "" && p.Key() != selector {
			continue
		}
		out, ok := byProject[p]
		if !ok {
			// No tiles: the descriptor as written is the outcome.
			out = &tiles.Outcome{Project: p, Effective: p.Model}
		}
		outcomes = append(outcomes, out)
	}
	if selector != "" && len(outcomes) == 0 {
		return nil, fmt.Errorf("no project %s in the reactor", selector)
	}
	return outcomes, nil
}

// renderEffective writes outcomes in format f.
func renderEffective(w io.Writer, f config.OutputFormat, outcomes []*tiles.Outcome) error {
	if f == config.FormatTOML {
		doc := effectiveDocument{}
		for _, out := range outcomes {
			doc.Projects = append(doc.Projects, viewOf(out))
		}
		return toml.NewEncoder(w).Encode(doc)
	}
	for _, out := range outcomes {
		if err := pom.Write(w, out.Effective); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func viewOf(out *tiles.Outcome) effectiveView {
	m := out.Effective
	v := effectiveView{
		Project:        out.Project.GAV(),
		Packaging:      m.RealPackaging(),
		InjectionPoint: out.InjectionPoint,
	}
	if m.Parent != nil {
		v.Parent = m.Parent.GAV()
	}
	for _, t := range out.Tiles {
		v.Tiles = append(v.Tiles, t.Coordinate.GAV())
	}
	if m.Properties != nil && m.Properties.Len() > 0 {
		v.Properties = m.Properties.Map()
	}
	for _, d := range m.Dependencies {
		v.Dependencies = append(v.Dependencies, dependencyView{
			Coordinate: d.GroupID + ":" + d.ArtifactID + ":" + d.Version,
			Scope:      d.Scope,
		})
	}
	if m.Build != nil {
		for _, p := range m.Build.Plugins {
			pv := pluginView{Plugin: p.Key(), Version: p.Version}
			for _, e := range p.Executions {
				pv.Executions = append(pv.Executions, e.RealID())
			}
			v.Plugins = append(v.Plugins, pv)
		}
	}
	return v
}
