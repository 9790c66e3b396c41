// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"github.com/tilekit/tilekit/internal/project"
	"github.com/tilekit/tilekit/pkg/coord"
	"github.com/tilekit/tilekit/pkg/pom"
)

// InjectTileDependencies adds a synthetic dependency on each tile p declares so reactor
// ordering builds sibling tiles first. Tiles p already depends on are skipped. The
// dependency version is the version the range recommends, or the raw range when it has none.
func InjectTileDependencies(p *project.Project) error {
	cfg := ParseConfiguration(p.Model)
	if cfg == nil {
		return nil
	}
	for _, ref := range cfg.Tiles {
		c, err := coord.Parse(ref, p.File)
		if err != nil {
			return err
		}
		if hasDependency(p.Model.Dependencies, c) {
			continue
		}
		version := c.Version
		if rng, err := coord.ParseRange(c.Version); err == nil {
			if v := rng.RecommendedVersion(); v != "" {
				version = v
			}
		}
		p.Model.Dependencies = append(p.Model.Dependencies, pom.Dependency{
			GroupID:    c.Group,
			ArtifactID: c.Artifact,
			Version:    version,
			Type:       c.Type,
			Classifier: c.Classifier,
			Scope:      "compile",
			Synthetic:  true,
		})
	}
	return nil
}

// SyntheticDependencies returns the synthetic dependencies of m.
func SyntheticDependencies(m *pom.Model) []pom.Dependency {
	var out []pom.Dependency
	for _, d := range m.Dependencies {
		if d.Synthetic {
			out = append(out, d)
		}
	}
	return out
}

func hasDependency(deps []pom.Dependency, c coord.Coordinate) bool {
	for _, d := range deps {
		if d.GroupID == c.Group && d.ArtifactID == c.Artifact {
			return true
		}
	}
	return false
}
