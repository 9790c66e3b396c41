// SPDX-License-Identifier: MPL-2.0

// Package coord parses artifact coordinates and resolves version ranges.
//
// A tile reference has the form group:artifact:version-range or
// group:artifact:type:classifier:version-range. The (group, artifact) pair returned by
// [Coordinate.Key] is the identity used for de-duplication; type, classifier and version
// never distinguish two references to the same tile.
package coord
