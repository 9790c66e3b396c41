// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/pkg/coord"
)

// memoryTiles resolves tiles from an in-memory map keyed by group:artifact:version.
type memoryTiles struct {
	files    map[string]string
	resolved []string
}

func newMemoryTiles() *memoryTiles {
	return &memoryTiles{files: make(map[string]string)}
}

func (m *memoryTiles) add(gav, body string) *memoryTiles {
	m.files[gav] = body
	return m
}

func (m *memoryTiles) Resolve(_ context.Context, c coord.Coordinate) (*ResolvedTile, error) {
	m.resolved = append(m.resolved, c.GAV())
	body, ok := m.files[c.GAV()]
	if !ok {
		return nil, &ResolutionError{Tile: c.String(), Reason: "not found"}
	}
	return &ResolvedTile{Coordinate: c, Data: []byte(body), Location: "memory:" + c.GAV()}, nil
}

// tileXML wraps inner in a project element.
func tileXML(inner string) string {
	return `<project>` + inner + `</project>`
}

// propsXML renders a properties block.
func propsXML(kv ...string) string {
	var b strings.Builder
	b.WriteString("<properties>")
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, "<%s>%s</%s>", kv[i], kv[i+1], kv[i])
	}
	b.WriteString("</properties>")
	return b.String()
}

// tilesXML renders a nested tile declaration.
func tilesXML(refs ...string) string {
	var b strings.Builder
	b.WriteString("<tiles>")
	for _, r := range refs {
		b.WriteString("<tile>" + r + "</tile>")
	}
	b.WriteString("</tiles>")
	return b.String()
}

// pluginXML renders a build section declaring the tiles plugin with extra configuration.
func pluginXML(config string) string {
	return `<build><plugins><plugin>
<groupId>` + PluginGroup + `</groupId>
<artifactId>` + PluginArtifact + `</artifactId>
<configuration>` + config + `</configuration>
</plugin></plugins></build>`
}

// bufferLogger returns a logger writing plain text into a buffer.
func bufferLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	return logger, &buf
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustParse(t *testing.T, ref string) coord.Coordinate {
	t.Helper()
	c, err := coord.Parse(ref, "test")
	if err != nil {
		t.Fatalf("coord.Parse(%q) error = %v", ref, err)
	}
	return c
}
