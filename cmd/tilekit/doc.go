// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the tilekit command line interface.
//
// Commands load the reactor rooted at the project descriptor given with --file, apply
// tiles through internal/tiles and render the outcome. All handlers receive an App, the
// composition root that owns configuration, logging and repositories.
package cmd
