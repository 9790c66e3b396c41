// SPDX-License-Identifier: MPL-2.0

// Package config handles tilekit configuration using Viper with CUE as the file format.
//
// Configuration is read from $XDG_CONFIG_HOME/tilekit/config.cue (~/.config/tilekit when
// unset) or, failing that, from tilekit.cue in the working directory. Values are validated
// against an embedded CUE schema. Environment variables prefixed with TILEKIT_ override file
// values, and a .env file in the base directory is loaded before they are read.
package config
