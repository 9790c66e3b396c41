// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	MalformedCoordinateId Id = iota + 1
	UnknownSmellId
	TileResolutionFailedId
	SnapshotOnReleaseId
	MissingMergeTargetId
	InjectionTargetNotFoundId
	TileValidationFailedId
	ProhibitedTopologyId
	ProjectNotFoundId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal markdown using the named glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	malformedCoordinateIssue = &Issue{
		id: MalformedCoordinateId,
		mdMsg: `
# Malformed tile coordinate!

Tile references have exactly three or exactly five colon-separated fields.

## Accepted forms:
~~~xml
<tile>io.example:base-tile:1.2.0</tile>
<tile>io.example:base-tile:xml:extra:[1.0,2.0)</tile>
~~~`,
	}

	unknownSmellIssue = &Issue{
		id: UnknownSmellId,
		mdMsg: `
# Unknown build smell!

The allowed smells are: dependencies, dependencymanagement, repositories,
pluginrepositories and pluginmanagement. Names are matched without regard to case.

## Things you can try:
- Fix the spelling in <buildSmells> or in the --smells flag`,
	}

	tileResolutionFailedIssue = &Issue{
		id: TileResolutionFailedId,
		mdMsg: `
# Tile could not be resolved!

The tile was not found in the reactor, the local repository or any remote repository,
or no available version satisfies the requested range.

## Things you can try:
- Install the tile locally:
~~~
$ tilekit attach path/to/tile-project
~~~
- Check the remote repository settings:
~~~
$ tilekit config show
~~~`,
	}

	snapshotOnReleaseIssue = &Issue{
		id: SnapshotOnReleaseId,
		mdMsg: `
# Snapshot tile in a release build!

Release builds only accept released tiles.

## Things you can try:
- Release the tile and reference the released version
- Build without --release`,
	}

	missingMergeTargetIssue = &Issue{
		id: MissingMergeTargetId,
		mdMsg: `
# Fragment tile has no merge target!

A tile with tile-merge-source=true merges each plugin execution into a tile declaring
tile-merge-target=true with the same plugin and execution id.

## Things you can try:
- Declare the target tile alongside the fragment
- Keep the execution ids stable with <tiles-keep-id>true</tiles-keep-id> in both tiles`,
	}

	injectionTargetNotFoundIssue = &Issue{
		id: InjectionTargetNotFoundId,
		mdMsg: `
# applyBefore target not found!

The ancestor named by <applyBefore> was not found while walking up the parent chain.

## Things you can try:
- Check the groupId:artifactId given in <applyBefore>
- Remove <applyBefore> to inject the tiles as direct parents of the project`,
	}

	tileValidationFailedIssue = &Issue{
		id: TileValidationFailedId,
		mdMsg: `
# Tile failed validation!

Tiles must not declare identity, a parent or build extensions, and may only use
repositories, dependency or plugin management and dependencies when the matching
smell is allowed.

## Things you can try:
- Run the validation with verbose output to list every problem:
~~~
$ tilekit validate --verbose
~~~`,
	}

	prohibitedTopologyIssue = &Issue{
		id: ProhibitedTopologyId,
		mdMsg: `
# Tiles in a multi-module parent!

A project with modules that also acts as parent of other projects cannot use tiles with
an inherited plugin declaration.

## Things you can try:
- Mark the tiles plugin <inherited>false</inherited> in the aggregator
- Split the aggregator from the parent descriptor`,
	}

	projectNotFoundIssue = &Issue{
		id: ProjectNotFoundId,
		mdMsg: `
# No project descriptor found!

tilekit looks for pom.xml in the given directory, or the current directory.

## Things you can try:
- Pass the project directory explicitly:
~~~
$ tilekit tiles path/to/project
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded!

## Things you can try:
- Check the CUE syntax of the configuration file
- Print the effective configuration:
~~~
$ tilekit config show
~~~
- Recreate the default configuration:
~~~
$ tilekit config init --force
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	issues = map[Id]*Issue{
		malformedCoordinateIssue.Id():     malformedCoordinateIssue,
		unknownSmellIssue.Id():            unknownSmellIssue,
		tileResolutionFailedIssue.Id():    tileResolutionFailedIssue,
		snapshotOnReleaseIssue.Id():       snapshotOnReleaseIssue,
		missingMergeTargetIssue.Id():      missingMergeTargetIssue,
		injectionTargetNotFoundIssue.Id(): injectionTargetNotFoundIssue,
		tileValidationFailedIssue.Id():    tileValidationFailedIssue,
		prohibitedTopologyIssue.Id():      prohibitedTopologyIssue,
		projectNotFoundIssue.Id():         projectNotFoundIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
