// SPDX-License-Identifier: MPL-2.0

package hostbuild

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tilekit/tilekit/internal/repository"
	"github.com/tilekit/tilekit/pkg/coord"
	"github.com/tilekit/tilekit/pkg/pom"
)

const (
	defaultRelativePath = "../pom.xml"
	descriptorFileName  = "pom.xml"
)

// WorkspaceResolver resolves parents from the workspace through their relative path first
// and falls back to a repository.
type WorkspaceResolver struct {
	repo repository.Repository
}

// NewWorkspaceResolver creates a resolver backed by repo. A nil repo limits resolution to the workspace.
func NewWorkspaceResolver(repo repository.Repository) *WorkspaceResolver {
	return &WorkspaceResolver{repo: repo}
}

// ResolveParent implements ParentResolver.
func (r *WorkspaceResolver) ResolveParent(ctx context.Context, child ModelSource, parent *pom.Parent) (ModelSource, error) {
	if src, ok := r.fromWorkspace(child, parent); ok {
		return src, nil
	}
	if r.repo == nil {
		return ModelSource{}, fmt.Errorf("%s is not in the workspace and no repository is configured", parent.GAV())
	}

	version := parent.Version
	if rng, err := coord.ParseRange(version); err == nil && !rng.IsSoft() {
		available, err := r.repo.Versions(ctx, parent.GroupID, parent.ArtifactID)
		if err != nil {
			return ModelSource{}, err
		}
		if version, err = coord.Resolve(parent.Version, available); err != nil {
			return ModelSource{}, err
		}
	}

	a, err := r.repo.Fetch(ctx, coord.Coordinate{
		Group:    parent.GroupID,
		Artifact: parent.ArtifactID,
		Type:     coord.DescriptorType,
		Version:  version,
	})
	if err != nil {
		return ModelSource{}, err
	}
	return ModelSource{Location: a.Location, Data: a.Data}, nil
}

// fromWorkspace follows the relative path of parent when the child was read from disk and
// the file there declares the referenced group and artifact.
func (r *WorkspaceResolver) fromWorkspace(child ModelSource, parent *pom.Parent) (ModelSource, bool) {
	if child.Location == "" || strings.Contains(child.Location, "://") || strings.HasPrefix(child.Location, "cache:") {
		return ModelSource{}, false
	}
	rel := parent.RelativePath
	if rel == "" {
		rel = defaultRelativePath
	}
	candidate := filepath.Join(filepath.Dir(child.Location), filepath.FromSlash(rel))
	if !strings.HasSuffix(candidate, ".xml") {
		candidate = filepath.Join(candidate, descriptorFileName)
	}
	if !fileExists(candidate) {
		return ModelSource{}, false
	}
	m, err := pom.ReadFile(candidate)
	if err != nil || m.RealGroupID() != parent.GroupID || m.ArtifactID != parent.ArtifactID {
		return ModelSource{}, false
	}
	return ModelSource{Location: candidate}, true
}
