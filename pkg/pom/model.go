// SPDX-License-Identifier: MPL-2.0

package pom

import "encoding/xml"

const (
	// DefaultModelVersion is the only descriptor model version understood by this package.
	DefaultModelVersion = "4.0.0"
	// DefaultPluginGroupID is assumed for plugins declared without a groupId.
	DefaultPluginGroupID = "org.apache.maven.plugins"
	// DefaultExecutionID is assumed for executions declared without an id.
	DefaultExecutionID = "default"
	// DefaultPackaging is assumed for descriptors declared without packaging.
	DefaultPackaging = "jar"
)

type (
	// Model is a project descriptor.
	Model struct {
		XMLName      xml.Name `xml:"project"`
		ModelVersion string   `xml:"modelVersion,omitempty"`
		Parent       *Parent  `xml:"parent,omitempty"`
		GroupID      string   `xml:"groupId,omitempty"`
		ArtifactID   string   `xml:"artifactId,omitempty"`
		Version      string   `xml:"version,omitempty"`
		Packaging    string   `xml:"packaging,omitempty"`
		Name         string   `xml:"name,omitempty"`
		Description  string   `xml:"description,omitempty"`

		Prerequisites   *Dom `xml:"prerequisites,omitempty"`
		Organization    *Dom `xml:"organization,omitempty"`
		Licenses        *Dom `xml:"licenses,omitempty"`
		Developers      *Dom `xml:"developers,omitempty"`
		Contributors    *Dom `xml:"contributors,omitempty"`
		MailingLists    *Dom `xml:"mailingLists,omitempty"`
		Scm             *Dom `xml:"scm,omitempty"`
		IssueManagement *Dom `xml:"issueManagement,omitempty"`
		CIManagement    *Dom `xml:"ciManagement,omitempty"`

		Modules                []string                `xml:"modules>module,omitempty"`
		DistributionManagement *DistributionManagement `xml:"distributionManagement,omitempty"`
		Properties             *Properties             `xml:"properties,omitempty"`
		DependencyManagement   *DependencyManagement   `xml:"dependencyManagement,omitempty"`
		Dependencies           []Dependency            `xml:"dependencies>dependency,omitempty"`
		Repositories           []Repository            `xml:"repositories>repository,omitempty"`
		PluginRepositories     []Repository            `xml:"pluginRepositories>pluginRepository,omitempty"`
		Build                  *Build                  `xml:"build,omitempty"`
		Reporting              *Dom                    `xml:"reporting,omitempty"`
		Profiles               []Profile               `xml:"profiles>profile,omitempty"`
	}

	// Parent references the descriptor a model inherits from.
	Parent struct {
		GroupID      string `xml:"groupId,omitempty"`
		ArtifactID   string `xml:"artifactId,omitempty"`
		Version      string `xml:"version,omitempty"`
		RelativePath string `xml:"relativePath,omitempty"`
	}

	// Dependency is a declared dependency.
	Dependency struct {
		GroupID    string `xml:"groupId,omitempty"`
		ArtifactID string `xml:"artifactId,omitempty"`
		Version    string `xml:"version,omitempty"`
		Type       string `xml:"type,omitempty"`
		Classifier string `xml:"classifier,omitempty"`
		Scope      string `xml:"scope,omitempty"`
		Optional   string `xml:"optional,omitempty"`

		// Synthetic marks an ordering-only edge added for reactor sorting. It is never
		// serialized and is dropped from effective descriptors.
		Synthetic bool `xml:"-"`
	}

	// DependencyManagement holds managed dependency versions.
	DependencyManagement struct {
		Dependencies []Dependency `xml:"dependencies>dependency,omitempty"`
	}

	// RepositoryPolicy configures release or snapshot handling of a repository.
	RepositoryPolicy struct {
		Enabled        string `xml:"enabled,omitempty"`
		UpdatePolicy   string `xml:"updatePolicy,omitempty"`
		ChecksumPolicy string `xml:"checksumPolicy,omitempty"`
	}

	// Repository is an artifact or plugin repository declaration.
	Repository struct {
		ID        string            `xml:"id,omitempty"`
		Name      string            `xml:"name,omitempty"`
		URL       string            `xml:"url,omitempty"`
		Layout    string            `xml:"layout,omitempty"`
		Releases  *RepositoryPolicy `xml:"releases,omitempty"`
		Snapshots *RepositoryPolicy `xml:"snapshots,omitempty"`
	}

	// DistributionManagement declares where artifacts are deployed.
	DistributionManagement struct {
		Repository         *Repository `xml:"repository,omitempty"`
		SnapshotRepository *Repository `xml:"snapshotRepository,omitempty"`
		Site               *Dom        `xml:"site,omitempty"`
		DownloadURL        string      `xml:"downloadUrl,omitempty"`
	}

	// Build is the build section of a model or profile.
	Build struct {
		Directory           string            `xml:"directory,omitempty"`
		SourceDirectory     string            `xml:"sourceDirectory,omitempty"`
		TestSourceDirectory string            `xml:"testSourceDirectory,omitempty"`
		FinalName           string            `xml:"finalName,omitempty"`
		Extensions          []Extension       `xml:"extensions>extension,omitempty"`
		PluginManagement    *PluginManagement `xml:"pluginManagement,omitempty"`
		Plugins             []Plugin          `xml:"plugins>plugin,omitempty"`
	}

	// Extension is a build extension.
	Extension struct {
		GroupID    string `xml:"groupId,omitempty"`
		ArtifactID string `xml:"artifactId,omitempty"`
		Version    string `xml:"version,omitempty"`
	}

	// PluginManagement holds managed plugin declarations.
	PluginManagement struct {
		Plugins []Plugin `xml:"plugins>plugin,omitempty"`
	}

	// Plugin is a build plugin declaration.
	Plugin struct {
		GroupID       string            `xml:"groupId,omitempty"`
		ArtifactID    string            `xml:"artifactId,omitempty"`
		Version       string            `xml:"version,omitempty"`
		Extensions    string            `xml:"extensions,omitempty"`
		Inherited     string            `xml:"inherited,omitempty"`
		Executions    []PluginExecution `xml:"executions>execution,omitempty"`
		Dependencies  []Dependency      `xml:"dependencies>dependency,omitempty"`
		Configuration *Dom              `xml:"configuration,omitempty"`
	}

	// PluginExecution is one execution of a plugin.
	PluginExecution struct {
		ID            string   `xml:"id,omitempty"`
		Phase         string   `xml:"phase,omitempty"`
		Goals         []string `xml:"goals>goal,omitempty"`
		Inherited     string   `xml:"inherited,omitempty"`
		Configuration *Dom     `xml:"configuration,omitempty"`
	}

	// Profile is a conditional descriptor overlay.
	Profile struct {
		ID                   string                `xml:"id,omitempty"`
		Activation           *Dom                  `xml:"activation,omitempty"`
		Build                *Build                `xml:"build,omitempty"`
		Modules              []string              `xml:"modules>module,omitempty"`
		Properties           *Properties           `xml:"properties,omitempty"`
		DependencyManagement *DependencyManagement `xml:"dependencyManagement,omitempty"`
		Dependencies         []Dependency          `xml:"dependencies>dependency,omitempty"`
		Repositories         []Repository          `xml:"repositories>repository,omitempty"`
		PluginRepositories   []Repository          `xml:"pluginRepositories>pluginRepository,omitempty"`
	}
)

// Key returns the groupId:artifactId identity of the plugin, applying the default group.
func (p *Plugin) Key() string {
	return p.RealGroupID() + ":" + p.ArtifactID
}

// RealGroupID returns the declared groupId or the default plugin group.
func (p *Plugin) RealGroupID() string {
	if p.GroupID == "" {
		return DefaultPluginGroupID
	}
	return p.GroupID
}

// IsExtension reports whether the plugin is declared as a build extension.
func (p *Plugin) IsExtension() bool {
	return p.Extensions != "" && p.Extensions != "false"
}

// IsInherited reports whether the plugin declaration propagates to child descriptors.
func (p *Plugin) IsInherited() bool {
	return p.Inherited == "" || p.Inherited == "true"
}

// RealID returns the execution id or the default id.
func (e *PluginExecution) RealID() string {
	if e.ID == "" {
		return DefaultExecutionID
	}
	return e.ID
}

// Key returns the groupId:artifactId:type:classifier identity of the dependency.
func (d *Dependency) Key() string {
	typ := d.Type
	if typ == "" {
		typ = "jar"
	}
	return d.GroupID + ":" + d.ArtifactID + ":" + typ + ":" + d.Classifier
}

// PluginsAsMap indexes plugins by groupId:artifactId.
func (pm *PluginManagement) PluginsAsMap() map[string]*Plugin {
	out := make(map[string]*Plugin)
	if pm == nil {
		return out
	}
	for i := range pm.Plugins {
		out[pm.Plugins[i].Key()] = &pm.Plugins[i]
	}
	return out
}

// Plugin returns the build plugin with the given groupId:artifactId key, or nil.
func (b *Build) Plugin(key string) *Plugin {
	if b == nil {
		return nil
	}
	for i := range b.Plugins {
		if b.Plugins[i].Key() == key {
			return &b.Plugins[i]
		}
	}
	return nil
}
