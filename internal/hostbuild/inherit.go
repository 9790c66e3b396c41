// SPDX-License-Identifier: MPL-2.0

package hostbuild

import (
	"slices"

	"github.com/tilekit/tilekit/pkg/pom"
)

// effective layers lineage[0] over lineage[1] over ... and returns a new model. The inputs
// are not modified.
func effective(lineage []*pom.Model, extra []pom.Dependency, dropSynthetic bool) *pom.Model {
	var out *pom.Model
	for i := len(lineage) - 1; i >= 0; i-- {
		out = inherit(lineage[i], out)
	}

	deps := make([]pom.Dependency, 0, len(out.Dependencies)+len(extra))
	deps = append(deps, out.Dependencies...)
	for _, d := range extra {
		if dropSynthetic && d.Synthetic {
			continue
		}
		if !slices.ContainsFunc(deps, func(e pom.Dependency) bool { return e.Key() == d.Key() }) {
			deps = append(deps, d)
		}
	}
	out.Dependencies = deps
	return out
}

// inherit returns child layered over the already effective parent.
func inherit(child, parent *pom.Model) *pom.Model {
	out := child.Clone()
	if parent == nil {
		return out
	}

	out.ModelVersion = firstNonEmpty(out.ModelVersion, parent.ModelVersion)
	out.GroupID = firstNonEmpty(out.GroupID, parent.GroupID)
	out.Version = firstNonEmpty(out.Version, parent.Version)

	props := parent.Properties.Clone()
	props.PutAll(child.Properties)
	if props.Len() > 0 {
		out.Properties = props
	}

	out.Prerequisites = inheritDom(out.Prerequisites, parent.Prerequisites)
	out.Organization = inheritDom(out.Organization, parent.Organization)
	out.Licenses = inheritDom(out.Licenses, parent.Licenses)
	out.Developers = inheritDom(out.Developers, parent.Developers)
	out.Contributors = inheritDom(out.Contributors, parent.Contributors)
	out.MailingLists = inheritDom(out.MailingLists, parent.MailingLists)
	out.Scm = inheritDom(out.Scm, parent.Scm)
	out.IssueManagement = inheritDom(out.IssueManagement, parent.IssueManagement)
	out.CIManagement = inheritDom(out.CIManagement, parent.CIManagement)
	out.Reporting = inheritDom(out.Reporting, parent.Reporting)

	out.DistributionManagement = inheritDistribution(out.DistributionManagement, parent.DistributionManagement)
	out.Dependencies = mergeDependencies(out.Dependencies, parent.Dependencies)
	if parent.DependencyManagement != nil {
		if out.DependencyManagement == nil {
			out.DependencyManagement = &pom.DependencyManagement{}
		}
		out.DependencyManagement.Dependencies = mergeDependencies(
			out.DependencyManagement.Dependencies, parent.DependencyManagement.Dependencies)
	}
	out.Repositories = mergeRepositories(out.Repositories, parent.Repositories)
	out.PluginRepositories = mergeRepositories(out.PluginRepositories, parent.PluginRepositories)
	out.Build = inheritBuild(out.Build, parent.Build)
	return out
}

func inheritDom(child, parent *pom.Dom) *pom.Dom {
	if child != nil {
		return child
	}
	return parent.Clone()
}

func inheritDistribution(child, parent *pom.DistributionManagement) *pom.DistributionManagement {
	if parent == nil {
		return child
	}
	if child == nil {
		child = &pom.DistributionManagement{}
	}
	if child.Repository == nil && parent.Repository != nil {
		r := *parent.Repository
		child.Repository = &r
	}
	if child.SnapshotRepository == nil && parent.SnapshotRepository != nil {
		r := *parent.SnapshotRepository
		child.SnapshotRepository = &r
	}
	if child.Site == nil {
		child.Site = parent.Site.Clone()
	}
	return child
}

// mergeDependencies keeps child entries and appends parent entries with unseen keys.
func mergeDependencies(child, parent []pom.Dependency) []pom.Dependency {
	out := slices.Clone(child)
	for _, d := range parent {
		if !slices.ContainsFunc(out, func(e pom.Dependency) bool { return e.Key() == d.Key() }) {
			out = append(out, d)
		}
	}
	return out
}

func mergeRepositories(child, parent []pom.Repository) []pom.Repository {
	out := slices.Clone(child)
	for _, r := range parent {
		if !slices.ContainsFunc(out, func(e pom.Repository) bool { return e.ID == r.ID }) {
			out = append(out, r)
		}
	}
	return out
}

func inheritBuild(child, parent *pom.Build) *pom.Build {
	if parent == nil {
		return child
	}
	if child == nil {
		child = &pom.Build{}
	}
	child.Directory = firstNonEmpty(child.Directory, parent.Directory)
	child.SourceDirectory = firstNonEmpty(child.SourceDirectory, parent.SourceDirectory)
	child.TestSourceDirectory = firstNonEmpty(child.TestSourceDirectory, parent.TestSourceDirectory)
	child.FinalName = firstNonEmpty(child.FinalName, parent.FinalName)

	for _, e := range parent.Extensions {
		if !slices.ContainsFunc(child.Extensions, func(c pom.Extension) bool {
			return c.GroupID == e.GroupID && c.ArtifactID == e.ArtifactID
		}) {
			child.Extensions = append(child.Extensions, e)
		}
	}

	child.Plugins = mergePlugins(child.Plugins, parent.Plugins, true)
	if parent.PluginManagement != nil {
		if child.PluginManagement == nil {
			child.PluginManagement = &pom.PluginManagement{}
		}
		child.PluginManagement.Plugins = mergePlugins(child.PluginManagement.Plugins, parent.PluginManagement.Plugins, false)
	}
	return child
}

// mergePlugins merges plugins by key. Parent plugins keep their position ahead of plugins
// only the child declares. With honorInherited, parent plugins and executions marked
// inherited=false are not carried over.
func mergePlugins(child, parent []pom.Plugin, honorInherited bool) []pom.Plugin {
	out := make([]pom.Plugin, 0, len(child)+len(parent))
	used := make([]bool, len(child))

	for _, pp := range parent {
		if honorInherited && !pp.IsInherited() {
			continue
		}
		idx := slices.IndexFunc(child, func(c pom.Plugin) bool { return c.Key() == pp.Key() })
		if idx < 0 {
			out = append(out, inheritedPlugin(pp, honorInherited))
			continue
		}
		used[idx] = true
		out = append(out, mergePlugin(child[idx], pp, honorInherited))
	}
	for i, c := range child {
		if !used[i] {
			out = append(out, c)
		}
	}
	return out
}

func inheritedPlugin(p pom.Plugin, honorInherited bool) pom.Plugin {
	out := p
	out.Configuration = p.Configuration.Clone()
	out.Executions = nil
	for _, e := range p.Executions {
		if honorInherited && e.Inherited == "false" {
			continue
		}
		e.Configuration = e.Configuration.Clone()
		out.Executions = append(out.Executions, e)
	}
	return out
}

func mergePlugin(child, parent pom.Plugin, honorInherited bool) pom.Plugin {
	out := child
	out.Version = firstNonEmpty(child.Version, parent.Version)
	out.Extensions = firstNonEmpty(child.Extensions, parent.Extensions)
	out.Configuration = child.Configuration.MergeOver(parent.Configuration)
	out.Dependencies = mergeDependencies(child.Dependencies, parent.Dependencies)

	out.Executions = nil
	inherited := inheritedPlugin(parent, honorInherited).Executions
	for _, pe := range inherited {
		idx := slices.IndexFunc(child.Executions, func(c pom.PluginExecution) bool { return c.RealID() == pe.RealID() })
		if idx < 0 {
			out.Executions = append(out.Executions, pe)
			continue
		}
		ce := child.Executions[idx]
		ce.Phase = firstNonEmpty(ce.Phase, pe.Phase)
		ce.Goals = mergeGoals(ce.Goals, pe.Goals)
		ce.Configuration = ce.Configuration.MergeOver(pe.Configuration)
		out.Executions = append(out.Executions, ce)
	}
	for _, ce := range child.Executions {
		if !slices.ContainsFunc(inherited, func(pe pom.PluginExecution) bool { return pe.RealID() == ce.RealID() }) {
			out.Executions = append(out.Executions, ce)
		}
	}
	return out
}

func mergeGoals(child, parent []string) []string {
	out := slices.Clone(parent)
	for _, g := range child {
		if !slices.Contains(out, g) {
			out = append(out, g)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
