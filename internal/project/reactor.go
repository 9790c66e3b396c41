// SPDX-License-Identifier: MPL-2.0

package project

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/tilekit/tilekit/internal/dag"
)

// Reactor is the ordered set of projects built together.
type Reactor struct {
	Projects []*Project
}

// LoadReactor loads the project at path and, recursively, every module it declares.
// Projects are returned parents first, in declaration order.
func LoadReactor(path string) (*Reactor, error) {
	r := &Reactor{}
	if err := r.load(path, nil); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reactor) load(path string, stack []string) error {
	p, err := Load(path)
	if err != nil {
		return err
	}
	if slices.Contains(stack, p.File) {
		return fmt.Errorf("module cycle at %s", p.File)
	}
	if r.Find(p.GroupID(), p.ArtifactID(), p.Version()) != nil {
		return fmt.Errorf("duplicate project %s at %s", p.GAV(), p.File)
	}
	r.Projects = append(r.Projects, p)

	for _, module := range p.Model.Modules {
		if err := r.load(filepath.Join(p.BaseDir, filepath.FromSlash(module)), append(stack, p.File)); err != nil {
			return fmt.Errorf("module %q of %s: %w", module, p.GAV(), err)
		}
	}
	return nil
}

// Find returns the project with the given identity, or nil. An empty version matches any.
func (r *Reactor) Find(group, artifact, version string) *Project {
	for _, p := range r.Projects {
		if p.GroupID() == group && p.ArtifactID() == artifact && (version == "" || p.Version() == version) {
			return p
		}
	}
	return nil
}

// Sort orders the projects so that each comes after its reactor parent and every reactor
// project it depends on, synthetic dependencies included.
func (r *Reactor) Sort() error {
	g := dag.New()
	byKey := make(map[string]*Project, len(r.Projects))
	for _, p := range r.Projects {
		g.AddNode(p.Key())
		byKey[p.Key()] = p
	}
	for _, p := range r.Projects {
		if parent := p.Model.Parent; parent != nil {
			if key := parent.GroupID + ":" + parent.ArtifactID; g.HasNode(key) && key != p.Key() {
				g.AddEdge(key, p.Key())
			}
		}
		for _, d := range p.Model.Dependencies {
			if key := d.GroupID + ":" + d.ArtifactID; g.HasNode(key) && key != p.Key() {
				g.AddEdge(key, p.Key())
			}
		}
	}

	order, err := g.Sort()
	if err != nil {
		return err
	}
	sorted := make([]*Project, 0, len(order))
	for _, key := range order {
		sorted = append(sorted, byKey[key])
	}
	r.Projects = sorted
	return nil
}
