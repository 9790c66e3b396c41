// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/internal/hostbuild"
	"github.com/tilekit/tilekit/internal/modelcache"
	"github.com/tilekit/tilekit/pkg/pom"
)

// Injection states of an Interceptor.
const (
	// StateArmed means no descriptor has been read yet.
	StateArmed InjectionState = iota
	// StateWatching means reads are being inspected for the injection point.
	StateWatching
	// StateInjected means the tile chain has been spliced in.
	StateInjected
	// StateFailed means the build finished without reaching the named injection point.
	StateFailed
)

type (
	// InjectionState tracks where an Interceptor is in its lifecycle.
	InjectionState int

	// Interceptor decorates the raw-read step of the descriptor-building engine and splices
	// the tile chain into the ancestors at the injection point. Use one Interceptor per
	// project build.
	Interceptor struct {
		delegate       hostbuild.RawReader
		tiles          []*Tile
		cache          modelcache.Cache
		applyBefore    string
		projectVersion string
		logger         *log.Logger
		state          InjectionState
		point          *pom.Model
	}
)

// String returns the state name.
func (s InjectionState) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateWatching:
		return "watching"
	case StateInjected:
		return "injected"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("InjectionState(%d)", int(s))
	}
}

// NewInterceptor creates an interceptor reading through delegate. With an empty applyBefore
// the tiles are injected at the first descriptor read; otherwise at the first ancestor
// whose group:artifact equals applyBefore. projectVersion replaces an unresolved
// ${revision} parent version on descriptors that declare no version of their own.
func NewInterceptor(delegate hostbuild.RawReader, tiles []*Tile, cache modelcache.Cache, applyBefore, projectVersion string, logger *log.Logger) *Interceptor {
	if delegate == nil {
		delegate = hostbuild.XMLReader{}
	}
	return &Interceptor{
		delegate:       delegate,
		tiles:          tiles,
		cache:          cache,
		applyBefore:    applyBefore,
		projectVersion: projectVersion,
		logger:         orDiscard(logger),
	}
}

// State returns the current injection state.
func (i *Interceptor) State() InjectionState {
	return i.state
}

// ReadRaw implements hostbuild.RawReader.
func (i *Interceptor) ReadRaw(ctx context.Context, src hostbuild.ModelSource) (*pom.Model, error) {
	m, err := i.delegate.ReadRaw(ctx, src)
	if err != nil {
		return nil, err
	}
	if i.state == StateArmed {
		i.state = StateWatching
	}

	if m.Version == "" && m.Parent != nil && m.Parent.Version == RevisionPlaceholder && i.projectVersion != "" {
		m.Parent.Version = i.projectVersion
	}

	if i.state == StateWatching && i.isInjectionPoint(m) {
		InjectTiles(i.tiles, m, i.cache, i.logger)
		i.state = StateInjected
		i.point = m
	} else if t := i.materialized(m); t != nil {
		i.logger.Debug("Serving tile from memory", "tile", t.GAV())
		m = t.Model
	}

	// Until the named ancestor is reached, force its parents back through this reader.
	if i.applyBefore != "" && i.state != StateInjected && m.Parent != nil && i.cache != nil {
		i.cache.Put(modelcache.RawKey(m.Parent.GroupID, m.Parent.ArtifactID, m.Parent.Version), nil)
	}
	return m, nil
}

// InjectionPoint returns the descriptor the tiles were spliced into, or nil.
func (i *Interceptor) InjectionPoint() *pom.Model {
	return i.point
}

// Check reports whether a named injection point was reached. Call it after the build.
func (i *Interceptor) Check(project string) error {
	if i.applyBefore == "" || i.state == StateInjected {
		return nil
	}
	i.state = StateFailed
	return &InjectionTargetNotFoundError{Target: i.applyBefore, Project: project}
}

func (i *Interceptor) isInjectionPoint(m *pom.Model) bool {
	return i.applyBefore == "" || m.RealGA() == i.applyBefore
}

// materialized returns the loaded tile with the same group, artifact and version as m.
func (i *Interceptor) materialized(m *pom.Model) *Tile {
	for _, t := range i.tiles {
		tm := t.Model
		if tm.ArtifactID == m.ArtifactID && tm.RealGroupID() == m.RealGroupID() && tm.RealVersion() == m.RealVersion() {
			return t
		}
	}
	return nil
}
