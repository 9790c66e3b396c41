// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/pkg/pom"
)

// ExecutionIdentity returns plugin-group:plugin-artifact:execution-id.
func ExecutionIdentity(p *pom.Plugin, e *pom.PluginExecution) string {
	return p.RealGroupID() + ":" + p.ArtifactID + ":" + e.RealID()
}

// RegisterMergeTarget indexes every plugin execution of t under its execution identity.
func RegisterMergeTarget(t *Tile, targets map[string]*Tile) {
	eachExecution(t.Model, func(p *pom.Plugin, e *pom.PluginExecution) {
		targets[ExecutionIdentity(p, e)] = t
	})
}

// MergeTile folds fragment into the targets matching each of its plugin executions. The
// fragment's properties overwrite the target's, and the child element named by the target
// execution's tiles-append attribute is appended to rather than replaced.
//
// Identities are taken after Bind, which prefixes execution ids with the tile's own
// coordinate. A fragment execution therefore only finds its target when both executions
// set tiles-keep-id; otherwise the merge fails with ErrMissingMergeTarget.
func MergeTile(fragment *Tile, targets map[string]*Tile, logger *log.Logger) error {
	logger = orDiscard(logger)
	fragmentID := fragment.Model.GA()
	expected, _ := fragment.Model.Properties.Remove(PropMergeExpectedTarget)

	var err error
	eachExecution(fragment.Model, func(p *pom.Plugin, e *pom.PluginExecution) {
		if err != nil {
			return
		}
		id := ExecutionIdentity(p, e)
		target, ok := targets[id]
		if !ok {
			err = &MissingMergeTargetError{
				Fragment:  fragmentID,
				Execution: id,
				Expected:  expected,
			}
			return
		}

		logger.Info("Merged tile", "fragment", fragmentID, "target", target.Model.GA(), "execution", id)
		target.Model.Props().PutAll(fragment.Model.Properties)
		mergeExecutionConfiguration(target, e, id, logger)
	})
	return err
}

func mergeExecutionConfiguration(target *Tile, source *pom.PluginExecution, id string, logger *log.Logger) {
	eachExecution(target.Model, func(p *pom.Plugin, e *pom.PluginExecution) {
		if ExecutionIdentity(p, e) != id || e.Configuration == nil {
			return
		}
		name := e.Configuration.Attr(AppendAttr)
		if name == "" {
			return
		}
		from := source.Configuration.Child(name)
		if from == nil {
			return
		}
		if into := e.Configuration.Child(name); into != nil {
			into.AppendChildren(from)
		} else {
			e.Configuration.AddChild(from.Clone())
		}
		logger.Debug("Merged execution configuration", "execution", id, "element", name)
	})
}

func eachExecution(m *pom.Model, fn func(p *pom.Plugin, e *pom.PluginExecution)) {
	if m.Build == nil {
		return
	}
	for i := range m.Build.Plugins {
		p := &m.Build.Plugins[i]
		for j := range p.Executions {
			fn(p, &p.Executions[j])
		}
	}
}
