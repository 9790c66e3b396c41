// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"path/filepath"

	"github.com/tilekit/tilekit/internal/filtering"
	"github.com/tilekit/tilekit/internal/project"
)

// ProjectTileFile returns the path of p's own tile file, filtering it into the generated
// sources directory first when cfg enables filtering. A nil cfg is read from p's descriptor.
func ProjectTileFile(p *project.Project, cfg *Configuration, f *filtering.Filter) (string, error) {
	if cfg == nil {
		cfg = ParseConfiguration(p.Model)
	}
	path := cfg.TileFile(p.BaseDir, p.BuildDirectory())
	if cfg == nil || !cfg.Filtering {
		return path, nil
	}
	if f == nil {
		f = filtering.New(nil)
	}
	src := filepath.Join(p.BaseDir, FileName)
	if err := f.FilterFile(src, path, filtering.ModelLookup(p.Model, p.BaseDir)); err != nil {
		return "", err
	}
	return path, nil
}
