// SPDX-License-Identifier: MPL-2.0

// Package tiles composes reusable descriptor fragments ("tiles") into a project's ancestor
// chain.
//
// A project lists tile coordinates in the configuration of the tiles plugin. Discovery
// resolves and loads each tile, follows the references tiles declare themselves and
// produces an ordered, de-duplicated list. Tiles flagged as merge sources are folded into
// merge targets by plugin-execution identity instead of standing alone in the chain.
//
// The ordered list is spliced in as synthetic parents while the descriptor-building engine
// reads the project's ancestors: an Interceptor decorates the engine's raw-read step and
// injects the chain at the project itself or, with applyBefore, at a named ancestor. The
// engine runs twice and the final effective descriptor is copied back onto the project.
package tiles
