// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/pkg/coord"
)

type (
	// ResolvedTile is the raw tile file for a resolved coordinate.
	ResolvedTile struct {
		Coordinate coord.Coordinate
		Data       []byte
		Location   string
	}

	// TileResolver resolves a declared tile coordinate to its file.
	TileResolver interface {
		Resolve(ctx context.Context, c coord.Coordinate) (*ResolvedTile, error)
	}

	// Discoverer expands tile references transitively.
	Discoverer struct {
		resolver TileResolver
		logger   *log.Logger
	}
)

// NewDiscoverer creates a Discoverer. A nil logger discards output.
func NewDiscoverer(resolver TileResolver, logger *log.Logger) *Discoverer {
	return &Discoverer{resolver: resolver, logger: orDiscard(logger)}
}

// Discover resolves the tiles named by refs, declared in the descriptor at origin, and
// every tile they reference. Merge-source tiles are merged into their targets once all
// tiles are loaded. The returned tiles are in discovery order.
func (d *Discoverer) Discover(ctx context.Context, state *DiscoveryState, refs []string, origin string) ([]*Tile, error) {
	if err := d.enqueueAll(state, refs, origin, origin); err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, ok := state.next()
		if !ok {
			break
		}

		t, err := d.load(ctx, c)
		if err != nil {
			return nil, err
		}
		if t == nil {
			d.logger.Debug("Skipping artifact that is not a tile", "tile", c.String())
			continue
		}

		if removeFlag(t.Model, PropMergeSource) {
			state.mergeSources = append(state.mergeSources, t)
			continue
		}
		if removeFlag(t.Model, PropMergeTarget) {
			RegisterMergeTarget(t, state.mergeTargets)
		}
		state.markProcessed(c.Key(), t)

		if err := d.enqueueAll(state, t.References, t.Location, t.GAV()); err != nil {
			return nil, err
		}
		if cfg := ParseConfiguration(t.Model); cfg != nil {
			if err := d.enqueueAll(state, cfg.Tiles, t.Location, t.GAV()); err != nil {
				return nil, err
			}
		}
	}

	for _, fragment := range state.mergeSources {
		if err := MergeTile(fragment, state.mergeTargets, d.logger); err != nil {
			return nil, err
		}
	}

	state.prune()
	return state.Tiles(), nil
}

func (d *Discoverer) enqueueAll(state *DiscoveryState, refs []string, origin, requester string) error {
	for _, ref := range refs {
		c, err := coord.Parse(ref, origin)
		if err != nil {
			return err
		}
		if state.enqueue(c) {
			d.logger.Warn("Same tile requested more than once", "project", requester, "tile", c.GAV())
			continue
		}
		d.logger.Debug("Adding tile", "tile", c.GAV())
	}
	return nil
}

func (d *Discoverer) load(ctx context.Context, c coord.Coordinate) (*Tile, error) {
	rt, err := d.resolver.Resolve(ctx, c)
	if err != nil {
		var re *ResolutionError
		if errors.As(err, &re) || errors.Is(err, ErrSnapshotOnRelease) {
			return nil, err
		}
		return nil, &ResolutionError{Tile: c.String(), Err: err}
	}

	t, err := Load(rt.Data, rt.Location)
	if err != nil {
		return nil, &ResolutionError{Tile: c.String(), Reason: "cannot be loaded", Err: err}
	}
	if t == nil {
		return nil, nil
	}
	t.Bind(rt.Coordinate)
	d.logger.Debug("Loaded tile", "tile", t.GAV(), "from", t.Location)
	return t, nil
}
