// SPDX-License-Identifier: MPL-2.0

// Package cueutil checks CUE inputs against an embedded schema and decodes them.
//
// Compile the schema once and decode each input against it:
//
//	//go:embed config_schema.cue
//	var src []byte
//
//	schema, err := cueutil.NewSchema(src, "#Config")
//	...
//	result, err := cueutil.Decode[map[string]any](schema, data,
//		cueutil.WithFilename("config.cue"),
//		cueutil.WithConcrete(false),
//	)
//
// Decode failures are *DecodeError values listing each offending field path.
package cueutil
