// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue/format"
)

// Format returns src in canonical CUE formatting. It fails when src is not valid CUE.
func Format(src []byte) ([]byte, error) {
	out, err := format.Source(src, format.Simplify())
	if err != nil {
		return nil, FormatError(err, "<generated>")
	}
	return out, nil
}

// MustFormat is like Format but panics on error. Use only with generated source.
func MustFormat(src []byte) []byte {
	out, err := Format(src)
	if err != nil {
		panic(fmt.Sprintf("cueutil: %v", err))
	}
	return out
}
