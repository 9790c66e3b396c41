// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/internal/filtering"
	"github.com/tilekit/tilekit/internal/project"
	"github.com/tilekit/tilekit/internal/repository"
	"github.com/tilekit/tilekit/pkg/coord"
)

type (
	// AttachOptions configures Attach and ValidateProject.
	AttachOptions struct {
		// BuildSmells overrides the smells allowed by the project's tiles configuration.
		BuildSmells string
		// DefaultBuildSmells applies when neither BuildSmells nor the project sets any.
		DefaultBuildSmells string
		// Filtering forces filtering of the tile file on, in addition to the configuration.
		Filtering bool
		Filter    *filtering.Filter
		Logger    *log.Logger
	}

	// Attachment describes a published tile.
	Attachment struct {
		Tile coord.Coordinate
		// Main reports whether the tile is the project's main artifact.
		Main bool
		// Locations lists where the tile and its descriptor were written, per publisher.
		Locations []string
	}
)

// ValidateProject checks the purity of p's own tile file. Aggregator projects are skipped.
func ValidateProject(p *project.Project, opts AttachOptions) error {
	logger := orDiscard(opts.Logger)
	if len(p.Model.Modules) > 0 {
		logger.Info("Skipping tile validation of aggregator project", "project", p.GAV())
		return nil
	}
	_, _, err := validateProject(p, opts, logger)
	return err
}

// Attach validates p's own tile file and installs it through every publisher, together with
// p's descriptor. The tile is p's main artifact when p has tile packaging.
func Attach(ctx context.Context, p *project.Project, opts AttachOptions, publishers ...repository.Publisher) (*Attachment, error) {
	logger := orDiscard(opts.Logger)
	path, _, err := validateProject(p, opts, logger)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	descriptor, err := os.ReadFile(p.File)
	if err != nil {
		return nil, err
	}

	logger.Infof("Tile: attaching tile %s", path)
	c := coord.Coordinate{
		Group:    p.GroupID(),
		Artifact: p.ArtifactID(),
		Type:     ArtifactType,
		Version:  p.Version(),
	}
	out := &Attachment{Tile: c, Main: p.Packaging() == Packaging}
	for _, pub := range publishers {
		loc, err := pub.Install(ctx, c, data)
		if err != nil {
			return nil, fmt.Errorf("installing tile %s: %w", c.GAV(), err)
		}
		descLoc, err := pub.Install(ctx, c.Descriptor(), descriptor)
		if err != nil {
			return nil, fmt.Errorf("installing descriptor %s: %w", c.GAV(), err)
		}
		out.Locations = append(out.Locations, loc, descLoc)
	}
	return out, nil
}

func validateProject(p *project.Project, opts AttachOptions, logger *log.Logger) (string, *Configuration, error) {
	cfg := ParseConfiguration(p.Model)
	if cfg == nil {
		cfg = &Configuration{}
	}
	if opts.Filtering {
		cfg.Filtering = true
	}
	smells := opts.BuildSmells
	if smells == "" {
		smells = cfg.BuildSmells
	}
	if smells == "" {
		smells = opts.DefaultBuildSmells
	}
	if _, err := ParseSmells(smells); err != nil {
		return "", nil, err
	}

	path, err := ProjectTileFile(p, cfg, opts.Filter)
	if err != nil {
		return "", nil, err
	}
	if _, err := ValidateTileFile(path, smells, logger); err != nil {
		return "", nil, err
	}
	return path, cfg, nil
}
