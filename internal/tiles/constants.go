// SPDX-License-Identifier: MPL-2.0

package tiles

const (
	// PluginGroup and PluginArtifact identify the plugin whose configuration declares tiles.
	PluginGroup    = "io.repaint.maven"
	PluginArtifact = "tiles-maven-plugin"
	// PluginKey is PluginGroup:PluginArtifact.
	PluginKey = PluginGroup + ":" + PluginArtifact

	// FileName is the tile descriptor file in a project's base directory.
	FileName = "tile.xml"
	// Packaging marks projects whose main artifact is their tile.
	Packaging = "tile"
	// ArtifactType is the type tiles are attached and resolved with.
	ArtifactType = "xml"
	// BoundPackaging is forced onto every tile bound to an artifact.
	BoundPackaging = "pom"

	// PropMergeSource flags a tile whose executions are merged into a target tile.
	PropMergeSource = "tile-merge-source"
	// PropMergeTarget flags a tile that fragments can merge into.
	PropMergeTarget = "tile-merge-target"
	// PropMergeExpectedTarget names the tile a fragment expects to merge into.
	PropMergeExpectedTarget = "tile-merge-expected-target"

	// KeepIDFlag on an execution configuration suppresses execution-id rewriting.
	KeepIDFlag = "tiles-keep-id"
	// AppendAttr on a target execution configuration names the child element that merges
	// append rather than replace.
	AppendAttr = "tiles-append"

	// LifecycleMappingKey is the IDE integration plugin copied into the original descriptor.
	LifecycleMappingKey = "org.eclipse.m2e:lifecycle-mapping"

	// RevisionPlaceholder is the unresolved CI-friendly version expression.
	RevisionPlaceholder = "${revision}"

	// generatedSourcesDir is the default filtering output below the build directory.
	generatedSourcesDir = "generated-sources"
)
