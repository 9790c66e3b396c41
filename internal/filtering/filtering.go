// SPDX-License-Identifier: MPL-2.0

// Package filtering substitutes @token@ placeholders in a project's own tile file before
// it is loaded or attached.
package filtering

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/pkg/pom"
)

const delimiter = '@'

type (
	// Lookup resolves a token name to its value.
	Lookup func(name string) (string, bool)

	// Filter copies files while replacing @name@ tokens.
	Filter struct {
		logger *log.Logger
	}
)

// New creates a Filter. A nil logger discards output.
func New(logger *log.Logger) *Filter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Filter{logger: logger}
}

// FilterFile reads src, replaces tokens and writes the result to dst, creating parent
// directories as needed.
func (f *Filter) FilterFile(src, dst string, lookup Lookup) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, Interpolate(data, lookup), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	f.logger.Debug("Filtered file", "source", src, "target", dst)
	return nil
}

// Interpolate replaces every @name@ for which lookup has a value. Unknown tokens and lone
// delimiters are left untouched.
func Interpolate(data []byte, lookup Lookup) []byte {
	var out bytes.Buffer
	out.Grow(len(data))
	for {
		start := bytes.IndexByte(data, delimiter)
		if start < 0 {
			out.Write(data)
			return out.Bytes()
		}
		end := bytes.IndexByte(data[start+1:], delimiter)
		if end < 0 {
			out.Write(data)
			return out.Bytes()
		}
		end += start + 1

		name := string(data[start+1 : end])
		if value, ok := resolve(name, lookup); ok {
			out.Write(data[:start])
			out.WriteString(value)
			data = data[end+1:]
			continue
		}
		// Keep the closing delimiter available as the opening of the next token.
		out.Write(data[:end])
		data = data[end:]
	}
}

func resolve(name string, lookup Lookup) (string, bool) {
	if name == "" || strings.ContainsAny(name, " \t\r\n<>") || lookup == nil {
		return "", false
	}
	return lookup(name)
}

// ModelLookup resolves tokens against a project descriptor: its properties, the project.*
// identity values, basedir and env.* variables.
func ModelLookup(m *pom.Model, baseDir string) Lookup {
	return func(name string) (string, bool) {
		if v, ok := m.Properties.Get(name); ok {
			return v, true
		}
		switch name {
		case "basedir", "project.basedir":
			return baseDir, true
		case "project.groupId", "pom.groupId":
			return m.RealGroupID(), true
		case "project.artifactId", "pom.artifactId":
			return m.ArtifactID, true
		case "project.version", "pom.version":
			return m.RealVersion(), true
		case "project.packaging":
			return m.RealPackaging(), true
		case "project.name":
			return m.Name, m.Name != ""
		case "project.description":
			return m.Description, m.Description != ""
		case "project.build.directory":
			if m.Build != nil && m.Build.Directory != "" {
				return m.Build.Directory, true
			}
			return filepath.Join(baseDir, "target"), true
		}
		if env, ok := strings.CutPrefix(name, "env."); ok {
			return os.LookupEnv(env)
		}
		return "", false
	}
}
