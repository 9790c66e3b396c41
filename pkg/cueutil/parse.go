// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

type (
	// Schema is a compiled CUE definition that inputs are checked against. A Schema is
	// safe for concurrent use.
	Schema struct {
		mu   sync.Mutex
		ctx  *cue.Context
		root cue.Value
		path string
	}

	// ParseResult holds a decoded input together with the value it was decoded from.
	ParseResult[T any] struct {
		Value *T
		// Unified is the input unified with the schema definition.
		Unified cue.Value
	}
)

// NewSchema compiles src and selects the definition at path, e.g. "#Config".
func NewSchema(src []byte, path string) (*Schema, error) {
	ctx := cuecontext.New()
	compiled := ctx.CompileBytes(src, cue.Filename("schema.cue"))
	if err := compiled.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	root := compiled.LookupPath(cue.ParsePath(path))
	if !root.Exists() {
		return nil, fmt.Errorf("schema has no definition %s", path)
	}
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("schema definition %s: %w", path, err)
	}
	return &Schema{ctx: ctx, root: root, path: path}, nil
}

// Path returns the selected definition.
func (s *Schema) Path() string { return s.path }

// Decode checks data against s and decodes it into a T. Errors carry the input
// filename and the CUE path of the offending field.
func Decode[T any](s *Schema, data []byte, opts ...Option) (*ParseResult[T], error) {
	settings := newDecodeSettings(opts)
	if settings.limit > 0 {
		if err := CheckFileSize(data, settings.limit, settings.filename); err != nil {
			return nil, err
		}
	}

	// Values from one cue.Context must not be built concurrently.
	s.mu.Lock()
	defer s.mu.Unlock()

	input := s.ctx.CompileBytes(data, cue.Filename(settings.filename))
	if err := input.Err(); err != nil {
		return nil, FormatError(err, settings.filename)
	}

	unified := s.root.Unify(input)
	var validateOpts []cue.Option
	if !settings.partial {
		validateOpts = append(validateOpts, cue.Concrete(true))
	}
	if err := unified.Validate(validateOpts...); err != nil {
		return nil, FormatError(err, settings.filename)
	}

	out := new(T)
	if err := unified.Decode(out); err != nil {
		return nil, FormatError(err, settings.filename)
	}
	return &ParseResult[T]{Value: out, Unified: unified}, nil
}

// ParseAndDecode compiles schema and decodes data in one call. Callers decoding many
// inputs against one schema should keep a Schema from NewSchema instead.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	s, err := NewSchema(schema, schemaPath)
	if err != nil {
		return nil, err
	}
	return Decode[T](s, data, opts...)
}

// ParseAndDecodeString is ParseAndDecode for a schema held in a string.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}
