// SPDX-License-Identifier: MPL-2.0

package pom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// Read decodes a descriptor from r.
func Read(r io.Reader) (*Model, error) {
	dec := xml.NewDecoder(r)
	// Descriptors in the wild declare ISO-8859-1 and friends; their structural markup is
	// ASCII so the raw bytes are decoded as-is.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	var m Model
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor: %w", err)
	}
	return &m, nil
}

// ReadBytes decodes a descriptor from data.
func ReadBytes(data []byte) (*Model, error) {
	return Read(bytes.NewReader(data))
}

// ReadFile decodes the descriptor stored at path.
func ReadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Write encodes m as indented XML including the XML header.
func Write(w io.Writer, m *Model) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Marshal encodes m to bytes.
func Marshal(m *Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of m. In-memory-only fields such as Dependency.Synthetic are
// not carried over.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	data, err := xml.Marshal(m)
	if err != nil {
		panic(fmt.Sprintf("pom: clone failed to encode model: %v", err))
	}
	out, err := ReadBytes(data)
	if err != nil {
		panic(fmt.Sprintf("pom: clone failed to decode model: %v", err))
	}
	return out
}

// Props returns the model properties, creating an empty set when none is declared.
func (m *Model) Props() *Properties {
	if m.Properties == nil {
		m.Properties = &Properties{}
	}
	return m.Properties
}

// RealGroupID returns the declared groupId or the one inherited from the parent reference.
func (m *Model) RealGroupID() string {
	if m.GroupID != "" {
		return m.GroupID
	}
	if m.Parent != nil {
		return m.Parent.GroupID
	}
	return ""
}

// RealVersion returns the declared version or the one inherited from the parent reference.
func (m *Model) RealVersion() string {
	if m.Version != "" {
		return m.Version
	}
	if m.Parent != nil {
		return m.Parent.Version
	}
	return ""
}

// RealPackaging returns the declared packaging or the default.
func (m *Model) RealPackaging() string {
	if m.Packaging == "" {
		return DefaultPackaging
	}
	return m.Packaging
}

// GA returns the declared groupId:artifactId.
func (m *Model) GA() string {
	return m.GroupID + ":" + m.ArtifactID
}

// RealGA returns groupId:artifactId using the inherited groupId when needed.
func (m *Model) RealGA() string {
	return m.RealGroupID() + ":" + m.ArtifactID
}

// GAV returns the declared groupId:artifactId:version.
func (m *Model) GAV() string {
	return m.GroupID + ":" + m.ArtifactID + ":" + m.Version
}

// GAV returns groupId:artifactId:version of the parent reference.
func (p *Parent) GAV() string {
	if p == nil {
		return "(no parent)"
	}
	return p.GroupID + ":" + p.ArtifactID + ":" + p.Version
}

// ParentFor returns a parent reference pointing at m.
func ParentFor(m *Model) *Parent {
	return &Parent{GroupID: m.GroupID, ArtifactID: m.ArtifactID, Version: m.Version}
}
