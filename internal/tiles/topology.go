// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"github.com/tilekit/tilekit/internal/project"
)

// CheckTopology rejects reactors in which a project that declares modules and inherits the
// tiles plugin to its children is also the parent of another reactor project. Partial builds
// of such reactors would inject tiles inconsistently.
func CheckTopology(projects []*project.Project) error {
	for _, agg := range projects {
		if len(agg.Model.Modules) == 0 {
			continue
		}
		cfg := ParseConfiguration(agg.Model)
		if cfg == nil || !cfg.Inherited {
			continue
		}
		for _, other := range projects {
			if other == agg || other.Model.Parent == nil {
				continue
			}
			if other.Model.Parent.GAV() == agg.GAV() {
				return &ProhibitedTopologyError{Project: agg.GAV(), Child: other.GAV(), File: agg.File}
			}
		}
	}
	return nil
}
