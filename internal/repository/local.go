// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tilekit/tilekit/pkg/coord"
)

// Local is a repository rooted at a directory on disk.
type Local struct {
	root string
}

// NewLocal returns a repository rooted at root. The directory is created on first install.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Root returns the repository directory.
func (r *Local) Root() string {
	return r.root
}

// Path returns the file path c is stored at.
func (r *Local) Path(c coord.Coordinate) string {
	return filepath.Join(r.root, filepath.FromSlash(ArtifactPath(c)))
}

// Versions lists the version directories of group:artifact.
func (r *Local) Versions(_ context.Context, group, artifact string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, filepath.FromSlash(ArtifactDir(group, artifact))))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list versions of %s:%s: %w", group, artifact, err)
	}

	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	return versions, nil
}

// Fetch reads the artifact file of c.
func (r *Local) Fetch(_ context.Context, c coord.Coordinate) (*Artifact, error) {
	if err := validateCoordinate(c); err != nil {
		return nil, err
	}
	p := r.Path(c)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Coordinate: c, Repository: r.root}
		}
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return &Artifact{Coordinate: c, Data: data, Location: p}, nil
}

// Install writes data to the layout path of c.
func (r *Local) Install(_ context.Context, c coord.Coordinate, data []byte) (string, error) {
	if err := validateCoordinate(c); err != nil {
		return "", err
	}
	p := r.Path(c)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", p, err)
	}
	return p, nil
}
