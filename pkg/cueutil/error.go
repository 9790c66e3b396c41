// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is returned when an input exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

type (
	// FieldError is one problem found in an input, located by its field path.
	FieldError struct {
		// Path is the field in dotted notation with list indices, e.g. "remotes[0].bucket".
		Path    string
		Message string
	}

	// DecodeError collects every problem CUE reported for one input file.
	DecodeError struct {
		File   string
		Fields []FieldError
		cause  error
	}
)

func (f FieldError) String() string {
	if f.Path == "" {
		return f.Message
	}
	return f.Path + ": " + f.Message
}

// Error renders "<file>: <path>: <message>", or a list when there are several problems.
func (e *DecodeError) Error() string {
	switch len(e.Fields) {
	case 0:
		return e.File + ": " + e.cause.Error()
	case 1:
		return e.File + ": " + e.Fields[0].String()
	}
	lines := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		lines[i] = f.String()
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.File, strings.Join(lines, "\n  "))
}

// Unwrap returns the CUE error.
func (e *DecodeError) Unwrap() error { return e.cause }

// FormatError converts a CUE error into a *DecodeError naming file and field paths,
// for example "config.cue: cache_size: invalid value -1 (out of bound >0)".
func FormatError(err error, file string) error {
	if err == nil {
		return nil
	}
	de := &DecodeError{File: file, cause: err}
	for _, e := range cueerrors.Errors(err) {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" {
			// CUE repeats the path at the start of some messages.
			if rest, ok := strings.CutPrefix(msg, path); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		de.Fields = append(de.Fields, FieldError{Path: path, Message: msg})
	}
	return de
}

// formatPath joins CUE path selectors: numeric selectors after the first become indices.
func formatPath(path []string) string {
	var b strings.Builder
	for i, sel := range path {
		if i == 0 {
			b.WriteString(sel)
			continue
		}
		if _, err := strconv.ParseUint(sel, 10, 64); err == nil {
			b.WriteString("[" + sel + "]")
			continue
		}
		b.WriteString("." + sel)
	}
	return b.String()
}

// CheckFileSize fails with ErrFileTooLarge when data is longer than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if size := int64(len(data)); size > maxSize {
		return fmt.Errorf("%s: %w: %d bytes exceeds maximum %d bytes", filename, ErrFileTooLarge, size, maxSize)
	}
	return nil
}
