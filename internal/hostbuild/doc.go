// SPDX-License-Identifier: MPL-2.0

// Package hostbuild is the reference descriptor-building engine: it walks a project's
// ancestor chain through a pluggable raw-read step and computes the effective descriptor by
// layering each descriptor over its parent.
//
// The engine is deliberately small. It does not interpolate properties, activate profiles
// or resolve dependency versions; it only implements inheritance, which is all the tile
// machinery needs to be observable end to end. Raw reads go through a RawReader so callers
// can decorate the step, and resolved ancestors are shared through a modelcache.Cache keyed
// by (group, artifact, version, "raw").
//
// Builds run in two passes. The interim pass reads and links the ancestor chain; the final
// pass reuses the interim lineage without reading again and drops synthetic dependencies that
// were only contributed for build ordering.
package hostbuild
