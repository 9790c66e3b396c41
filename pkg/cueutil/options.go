// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps the input accepted by Decode: 5 MiB.
const DefaultMaxFileSize int64 = 5 << 20

// unnamedInput labels inputs decoded without WithFilename.
const unnamedInput = "<input>"

type (
	// Option adjusts a single Decode call.
	Option func(*decodeSettings)

	decodeSettings struct {
		limit    int64
		partial  bool
		filename string
	}
)

func newDecodeSettings(opts []Option) decodeSettings {
	s := decodeSettings{limit: DefaultMaxFileSize, filename: unnamedInput}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithMaxFileSize replaces DefaultMaxFileSize. A limit of zero or less disables the check.
func WithMaxFileSize(size int64) Option {
	return func(s *decodeSettings) { s.limit = size }
}

// WithConcrete controls whether every field must hold a concrete value after
// unification. Configuration files pass false so omitted optional fields are fine.
func WithConcrete(concrete bool) Option {
	return func(s *decodeSettings) { s.partial = !concrete }
}

// WithFilename names the input in positions and error messages.
func WithFilename(name string) Option {
	return func(s *decodeSettings) {
		if name != "" {
			s.filename = name
		}
	}
}
