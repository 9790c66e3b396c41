// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"slices"

	"github.com/tilekit/tilekit/internal/project"
	"github.com/tilekit/tilekit/pkg/pom"
)

// CopyModel writes the sections of the effective descriptor back onto the live project.
// Identity and parent are left untouched. A source or test source directory in the
// effective build replaces the project's first matching source root, and a lifecycle
// mapping plugin in the effective plugin management is also added to the original
// descriptor for IDE tooling that reads it.
func CopyModel(p *project.Project, effective *pom.Model) {
	m := p.Model
	m.Build = effective.Build
	m.DependencyManagement = effective.DependencyManagement
	m.Dependencies = effective.Dependencies
	m.Repositories = effective.Repositories
	m.PluginRepositories = effective.PluginRepositories
	m.Licenses = effective.Licenses
	m.Scm = effective.Scm
	m.DistributionManagement = effective.DistributionManagement
	m.Developers = effective.Developers
	m.Contributors = effective.Contributors
	m.Organization = effective.Organization
	m.MailingLists = effective.MailingLists
	m.IssueManagement = effective.IssueManagement
	m.CIManagement = effective.CIManagement
	m.Profiles = effective.Profiles
	m.Prerequisites = effective.Prerequisites
	m.Properties = effective.Properties
	m.Reporting = effective.Reporting

	if m.Build == nil {
		return
	}
	if m.Build.SourceDirectory != "" {
		p.ReplaceSourceRoot(m.Build.SourceDirectory, false)
	}
	if m.Build.TestSourceDirectory != "" {
		p.ReplaceSourceRoot(m.Build.TestSourceDirectory, true)
	}

	lifecycle, ok := m.Build.PluginManagement.PluginsAsMap()[LifecycleMappingKey]
	if !ok {
		return
	}
	orig := p.OriginalModel
	if orig.Build == nil {
		orig.Build = &pom.Build{}
	}
	if orig.Build.PluginManagement == nil {
		orig.Build.PluginManagement = &pom.PluginManagement{}
	}
	copied := *lifecycle
	copied.Configuration = lifecycle.Configuration.Clone()
	copied.Executions = slices.Clone(lifecycle.Executions)
	plugins := orig.Build.PluginManagement.Plugins
	if idx := slices.IndexFunc(plugins, func(pl pom.Plugin) bool { return pl.Key() == LifecycleMappingKey }); idx >= 0 {
		plugins[idx] = copied
		return
	}
	orig.Build.PluginManagement.Plugins = append(plugins, copied)
}
