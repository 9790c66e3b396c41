// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/internal/modelcache"
	"github.com/tilekit/tilekit/pkg/pom"
)

// InjectTiles splices tiles into the ancestor chain of target:
// target -> tiles[0] -> ... -> tiles[n-1] -> target's original parent.
//
// A group or version target inherits from its original parent is set explicitly first.
// Every tile is stored in cache under its own coordinate so the descriptor-building engine
// resolves the synthetic parents from memory; target itself is not cached.
func InjectTiles(tiles []*Tile, target *pom.Model, cache modelcache.Cache, logger *log.Logger) {
	logger = orDiscard(logger)
	original := target.Parent

	if len(tiles) > 0 {
		logger.Info("Injecting tiles as intermediary parent artifacts", "count", len(tiles), "project", target.RealGA())
		logger.Infof("Mixed '%s' with tile '%s' as its new parent.", gav(target), tiles[0].GAV())

		if original != nil {
			if target.GroupID == "" {
				target.GroupID = original.GroupID
				logger.Infof("Explicitly set groupId to '%s' from original parent '%s'.", target.GroupID, original.GAV())
			}
			if target.Version == "" {
				target.Version = original.Version
				logger.Infof("Explicitly set version to '%s' from original parent '%s'.", target.Version, original.GAV())
			}
		}
	}

	last := target
	for _, t := range tiles {
		last.Parent = pom.ParentFor(t.Model)
		if last != target {
			seed(cache, last)
			logger.Infof("Mixed '%s' with tile '%s' as its new parent.", gav(last), t.GAV())
		}
		last = t.Model
	}
	last.Parent = original

	if original != nil && len(tiles) > 0 {
		if original.RelativePath != "" {
			logger.Infof("Mixed '%s' with original parent '%s' via %s as its new top level parent.",
				gav(last), original.GAV(), original.RelativePath)
		} else {
			logger.Infof("Mixed '%s' with original parent '%s' as its new top level parent.", gav(last), original.GAV())
		}
	}
	if last != target {
		seed(cache, last)
	}
}

func seed(cache modelcache.Cache, m *pom.Model) {
	if cache == nil {
		return
	}
	cache.Put(modelcache.RawKey(m.GroupID, m.ArtifactID, m.Version), m)
}

func gav(m *pom.Model) string {
	return m.RealGroupID() + ":" + m.ArtifactID + ":" + m.RealVersion()
}
