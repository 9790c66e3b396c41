// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"

	"github.com/tilekit/tilekit/pkg/coord"
	"github.com/tilekit/tilekit/pkg/pom"
)

// Tile is a loaded tile descriptor.
type Tile struct {
	// Model is the descriptor with tile markup stripped.
	Model *pom.Model
	// Coordinate is the resolved artifact the tile was loaded from.
	Coordinate coord.Coordinate
	// Location is the file or object the tile was read from.
	Location string
	// References are the tile coordinates declared inside the tile, in document order.
	References []string
}

// Load parses a tile file. Every <tile> element is collected as a nested reference and
// every <tiles> element is removed before the remainder is decoded. Load returns nil and no
// error when data is well-formed XML but not a project descriptor.
func Load(data []byte, location string) (*Tile, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", location, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "project" {
		return nil, nil
	}

	var refs []string
	for _, e := range doc.FindElements("//tile") {
		if ref := strings.TrimSpace(e.Text()); ref != "" {
			refs = append(refs, ref)
		}
	}
	for _, e := range doc.FindElements("//tiles") {
		if parent := e.Parent(); parent != nil {
			parent.RemoveChild(e)
		}
	}

	stripped, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", location, err)
	}
	m, err := pom.ReadBytes(stripped)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", location, err)
	}
	return &Tile{Model: m, Location: location, References: refs}, nil
}

// LoadFile loads the tile stored at path.
func LoadFile(path string) (*Tile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data, path)
}

// Bind ties the tile to the artifact it was resolved as: identity fields are overwritten
// with the artifact's, packaging becomes "pom" and plugin execution ids are prefixed with
// the sanitized coordinate unless an execution opts out with tiles-keep-id.
func (t *Tile) Bind(c coord.Coordinate) {
	t.Coordinate = c
	m := t.Model
	m.ModelVersion = pom.DefaultModelVersion
	m.GroupID = c.Group
	m.ArtifactID = c.Artifact
	m.Version = c.Version
	m.Packaging = BoundPackaging

	prefix := c.Sanitized() + "__"
	if m.Build != nil {
		rewriteExecutionIDs(m.Build.Plugins, prefix)
	}
	for i := range m.Profiles {
		if b := m.Profiles[i].Build; b != nil {
			rewriteExecutionIDs(b.Plugins, prefix)
		}
	}
}

// Key returns the group:artifact of the bound tile.
func (t *Tile) Key() string {
	return t.Coordinate.Key()
}

// GAV returns the group:artifact:version of the tile descriptor.
func (t *Tile) GAV() string {
	return t.Model.GAV()
}

func rewriteExecutionIDs(plugins []pom.Plugin, prefix string) {
	for i := range plugins {
		for j := range plugins[i].Executions {
			e := &plugins[i].Executions[j]
			if keepID(e.Configuration) {
				continue
			}
			e.ID = prefix + e.RealID()
		}
	}
}

func keepID(cfg *pom.Dom) bool {
	if cfg == nil {
		return false
	}
	if cfg.Attr(KeepIDFlag) == "true" {
		return true
	}
	flags := cfg.ChildrenNamed(KeepIDFlag)
	return len(flags) == 1 && strings.TrimSpace(flags[0].Value) == "true"
}

// removeFlag deletes a boolean directive property and reports whether it was "true".
func removeFlag(m *pom.Model, name string) bool {
	v, ok := m.Properties.Remove(name)
	return ok && strings.TrimSpace(v) == "true"
}
