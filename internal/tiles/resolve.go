// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/internal/filtering"
	"github.com/tilekit/tilekit/internal/project"
	"github.com/tilekit/tilekit/internal/repository"
	"github.com/tilekit/tilekit/pkg/coord"
)

type (
	// Resolver resolves tiles from reactor siblings first and from a repository otherwise.
	Resolver struct {
		repo    repository.Repository
		reactor *project.Reactor
		filter  *filtering.Filter
		release bool
		logger  *log.Logger
	}

	// ResolverOption configures a Resolver.
	ResolverOption func(*Resolver)
)

// WithReactor makes the projects of r available as not yet published tiles.
func WithReactor(r *project.Reactor) ResolverOption {
	return func(res *Resolver) { res.reactor = r }
}

// WithRelease rejects snapshot tiles.
func WithRelease(release bool) ResolverOption {
	return func(res *Resolver) { res.release = release }
}

// WithFilter sets the filter applied to sibling tile files that enable filtering.
func WithFilter(f *filtering.Filter) ResolverOption {
	return func(res *Resolver) { res.filter = f }
}

// WithLogger sets the resolver logger.
func WithLogger(l *log.Logger) ResolverOption {
	return func(res *Resolver) { res.logger = l }
}

// NewResolver creates a Resolver over repo.
func NewResolver(repo repository.Repository, opts ...ResolverOption) *Resolver {
	r := &Resolver{repo: repo}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = orDiscard(r.logger)
	return r
}

// Resolve implements TileResolver.
func (r *Resolver) Resolve(ctx context.Context, c coord.Coordinate) (*ResolvedTile, error) {
	if r.reactor != nil {
		if sibling := r.reactor.Find(c.Group, c.Artifact, c.Version); sibling != nil {
			r.logger.Debug("Using tile from reactor", "tile", c.GAV(), "project", sibling.File)
			return r.fromProject(c, sibling)
		}
	}
	if r.repo == nil {
		return nil, &ResolutionError{Tile: c.String(), Reason: "no repository configured"}
	}

	version := c.Version
	rng, err := coord.ParseRange(c.Version)
	if err != nil {
		return nil, &ResolutionError{Tile: c.String(), Reason: "unable to resolve version range", Err: err}
	}
	if !rng.IsSoft() {
		available, err := r.repo.Versions(ctx, c.Group, c.Artifact)
		if err != nil {
			return nil, &ResolutionError{Tile: c.String(), Reason: "unable to list versions", Err: err}
		}
		if version, err = coord.Resolve(c.Version, available); err != nil {
			return nil, &ResolutionError{Tile: c.String(), Reason: "unable to resolve version range", Err: err}
		}
	}
	resolved := c.WithVersion(version)

	tile, err := r.repo.Fetch(ctx, resolved)
	if err != nil {
		return nil, &ResolutionError{Tile: resolved.String(), Err: err}
	}
	if _, err := r.repo.Fetch(ctx, resolved.Descriptor()); err != nil {
		return nil, &ResolutionError{Tile: resolved.String(), Reason: "descriptor missing", Err: err}
	}

	out := &ResolvedTile{Coordinate: resolved, Data: tile.Data, Location: tile.Location}
	// Workspace resolution hands back the project descriptor instead of the attached tile.
	if filepath.Base(tile.Location) == project.DescriptorFileName {
		if out, err = r.fromWorkspace(resolved, tile.Location); err != nil {
			return nil, err
		}
	}

	if r.release && resolved.IsSnapshot() {
		return nil, &SnapshotOnReleaseError{Tile: resolved.GAV()}
	}
	return out, nil
}

func (r *Resolver) fromProject(c coord.Coordinate, p *project.Project) (*ResolvedTile, error) {
	path, err := ProjectTileFile(p, nil, r.filter)
	if err != nil {
		return nil, &ResolutionError{Tile: c.String(), Reason: "cannot filter reactor tile", Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ResolutionError{Tile: c.String(), Err: err}
	}
	return &ResolvedTile{Coordinate: c, Data: data, Location: path}, nil
}

func (r *Resolver) fromWorkspace(c coord.Coordinate, descriptor string) (*ResolvedTile, error) {
	if _, err := os.Stat(filepath.Join(filepath.Dir(descriptor), FileName)); err != nil {
		return nil, &ResolutionError{Tile: c.GAV(), Reason: "cannot be resolved", Err: err}
	}
	p, err := project.Load(descriptor)
	if err != nil {
		return nil, &ResolutionError{Tile: c.GAV(), Err: err}
	}
	return r.fromProject(c, p)
}
