// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/internal/hostbuild"
	"github.com/tilekit/tilekit/internal/modelcache"
	"github.com/tilekit/tilekit/internal/project"
	"github.com/tilekit/tilekit/pkg/pom"
)

type (
	// OrchestratorConfig holds the collaborators of an Orchestrator.
	OrchestratorConfig struct {
		// Tiles resolves tile coordinates. Required.
		Tiles TileResolver
		// Parents resolves real parent descriptors. Required for projects with a parent.
		Parents hostbuild.ParentResolver
		// Reader reads raw descriptors. Defaults to hostbuild.XMLReader.
		Reader hostbuild.RawReader
		// Cache is the session-wide descriptor cache. Defaults to a new LRU.
		Cache modelcache.Cache
		// Builder computes effective descriptors. Defaults to a new hostbuild.Builder.
		Builder *hostbuild.Builder
		Logger  *log.Logger
	}

	// Orchestrator applies tiles to projects.
	Orchestrator struct {
		tiles   TileResolver
		parents hostbuild.ParentResolver
		reader  hostbuild.RawReader
		cache   modelcache.Cache
		builder *hostbuild.Builder
		logger  *log.Logger
	}

	// Outcome describes the tiles applied to one project.
	Outcome struct {
		Project *project.Project
		// Tiles are the applied tiles, nearest ancestor first.
		Tiles []*Tile
		// Effective is the final effective descriptor.
		Effective *pom.Model
		// InjectionPoint is the descriptor the tiles became parents of.
		InjectionPoint string
	}
)

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	if cfg.Tiles == nil {
		return nil, fmt.Errorf("orchestrator: no tile resolver configured")
	}
	o := &Orchestrator{
		tiles:   cfg.Tiles,
		parents: cfg.Parents,
		reader:  cfg.Reader,
		cache:   cfg.Cache,
		builder: cfg.Builder,
		logger:  orDiscard(cfg.Logger),
	}
	if o.reader == nil {
		o.reader = hostbuild.XMLReader{}
	}
	if o.builder == nil {
		o.builder = hostbuild.NewBuilder(o.logger)
	}
	if o.cache == nil {
		lru, err := modelcache.NewLRU(modelcache.DefaultSize)
		if err != nil {
			return nil, err
		}
		o.cache = lru
	}
	return o, nil
}

// Run applies tiles to every project of the reactor in build order. The topology is
// checked before any tile is resolved.
func (o *Orchestrator) Run(ctx context.Context, reactor *project.Reactor) ([]*Outcome, error) {
	if err := CheckTopology(reactor.Projects); err != nil {
		return nil, err
	}
	for _, p := range reactor.Projects {
		if err := InjectTileDependencies(p); err != nil {
			return nil, err
		}
	}
	if err := reactor.Sort(); err != nil {
		return nil, err
	}

	var outcomes []*Outcome
	for _, p := range reactor.Projects {
		out, err := o.Orchestrate(ctx, p)
		if err != nil {
			return outcomes, fmt.Errorf("%s: %w", p.GAV(), err)
		}
		if out != nil {
			outcomes = append(outcomes, out)
		}
	}
	return outcomes, nil
}

// Orchestrate applies the tiles p declares, or inherits, and writes the resulting effective
// descriptor back onto p. It returns nil and no error when p uses no tiles. On error p is
// left untouched.
func (o *Orchestrator) Orchestrate(ctx context.Context, p *project.Project) (*Outcome, error) {
	cfg, err := o.configuration(ctx, p)
	if err != nil || cfg == nil {
		return nil, err
	}

	o.logger.Info("Tiles applied to project", "project", p.GAV(), "tiles", len(cfg.Tiles))
	state := NewDiscoveryState()
	tiles, err := NewDiscoverer(o.tiles, o.logger).Discover(ctx, state, cfg.Tiles, p.File)
	if err != nil {
		return nil, err
	}

	interceptor := NewInterceptor(o.reader, tiles, o.cache, cfg.ApplyBefore, p.Version(), o.logger)
	req := o.request(p, interceptor)
	interim, err := o.builder.Build(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	final, err := o.builder.Build(ctx, req, interim)
	if err != nil {
		return nil, err
	}
	if err := interceptor.Check(p.GAV()); err != nil {
		return nil, err
	}

	out := &Outcome{Project: p, Tiles: tiles, Effective: final.Effective}
	if point := interceptor.InjectionPoint(); point != nil {
		out.InjectionPoint = gav(point)
		// A spliced ancestor must not be served to later projects.
		if cfg.ApplyBefore != "" {
			o.cache.Put(modelcache.RawKey(point.RealGroupID(), point.ArtifactID, point.RealVersion()), nil)
		}
	}

	CopyModel(p, final.Effective)
	FixDistributionRepositories(p)
	return out, nil
}

// configuration returns the tiles configuration p declares, falling back to one inherited
// from its ancestors.
func (o *Orchestrator) configuration(ctx context.Context, p *project.Project) (*Configuration, error) {
	if cfg := ParseConfiguration(p.Model); cfg != nil {
		return cfg, nil
	}
	if p.Model.Parent == nil {
		return nil, nil
	}
	plain, err := o.builder.Build(ctx, o.request(p, o.reader), nil)
	if err != nil {
		return nil, err
	}
	return ParseConfiguration(plain.Effective), nil
}

func (o *Orchestrator) request(p *project.Project, reader hostbuild.RawReader) hostbuild.Request {
	return hostbuild.Request{
		Source:       hostbuild.ModelSource{Location: p.File},
		Reader:       reader,
		Resolver:     o.parents,
		Cache:        o.cache,
		Dependencies: SyntheticDependencies(p.Model),
	}
}
