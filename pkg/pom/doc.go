// SPDX-License-Identifier: MPL-2.0

// Package pom provides the project descriptor model shared by tiles, projects and the
// descriptor-building engine.
//
// A descriptor is read from XML into a [Model]. Sections the composition engine inspects
// (identity, parent, properties, dependencies, repositories, build and profiles) are typed;
// the remaining informational sections are carried as generic [Dom] trees so they survive a
// read/write round trip unchanged. Plugin and execution configuration is always a [Dom],
// mirroring the free-form configuration blocks of the descriptor format.
//
// Properties keep their declaration order (see [Properties]) so that effective descriptors
// are written back deterministically.
package pom
