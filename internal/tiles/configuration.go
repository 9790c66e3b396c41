// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"path/filepath"
	"strings"

	"github.com/tilekit/tilekit/pkg/pom"
)

// Configuration is the tiles plugin configuration of a descriptor.
type Configuration struct {
	// Tiles lists the declared tile coordinates.
	Tiles []string
	// ApplyBefore is the group:artifact of the ancestor to inject tiles at. Empty means the
	// project itself.
	ApplyBefore string
	// Filtering enables @token@ substitution of the project's own tile file.
	Filtering bool
	// GeneratedSourcesDirectory overrides where the filtered tile file is written.
	GeneratedSourcesDirectory string
	// BuildSmells is the comma-separated list of allowed smells.
	BuildSmells string
	// Inherited reports whether the plugin declaration propagates to child projects.
	Inherited bool
}

// ParseConfiguration reads the tiles plugin declaration of m. It returns nil when the plugin
// is not declared.
func ParseConfiguration(m *pom.Model) *Configuration {
	if m == nil {
		return nil
	}
	plugin := m.Build.Plugin(PluginKey)
	if plugin == nil {
		return nil
	}

	cfg := &Configuration{Inherited: plugin.IsInherited()}
	dom := plugin.Configuration
	if dom == nil {
		return cfg
	}
	if tiles := dom.Child("tiles"); tiles != nil {
		for _, t := range tiles.Children {
			if ref := strings.TrimSpace(t.Value); ref != "" {
				cfg.Tiles = append(cfg.Tiles, ref)
			}
		}
	}
	cfg.ApplyBefore = singleValue(dom, "applyBefore")
	cfg.Filtering = singleValue(dom, "filtering") == "true"
	cfg.GeneratedSourcesDirectory = singleValue(dom, "generatedSourcesDirectory")
	cfg.BuildSmells = singleValue(dom, "buildSmells")
	return cfg
}

// singleValue returns the trimmed value of name when it is declared exactly once.
func singleValue(dom *pom.Dom, name string) string {
	children := dom.ChildrenNamed(name)
	if len(children) != 1 {
		return ""
	}
	return strings.TrimSpace(children[0].Value)
}

// TileFile returns the path of the project's tile file as it should be read: the file in
// baseDir, or its filtered copy below the generated sources directory when filtering is on.
func (c *Configuration) TileFile(baseDir, buildDir string) string {
	if c == nil || !c.Filtering {
		return filepath.Join(baseDir, FileName)
	}
	return filepath.Join(c.generatedSources(baseDir, buildDir), "tiles", FileName)
}

func (c *Configuration) generatedSources(baseDir, buildDir string) string {
	dir := c.GeneratedSourcesDirectory
	if dir == "" {
		return filepath.Join(buildDir, generatedSourcesDir)
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(baseDir, dir)
	}
	return dir
}
