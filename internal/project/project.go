// SPDX-License-Identifier: MPL-2.0

// Package project holds the live projects of a build: the descriptor as read, the
// descriptor that effective configuration is written back onto, and the per-project state
// derived from it.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tilekit/tilekit/pkg/pom"
)

// DescriptorFileName is the conventional descriptor file of a project directory.
const DescriptorFileName = "pom.xml"

type (
	// Project is one project of a build.
	Project struct {
		// File is the absolute path of the descriptor.
		File string
		// BaseDir is the directory containing File.
		BaseDir string
		// Model is the live descriptor. Effective sections are written back onto it.
		Model *pom.Model
		// OriginalModel is the descriptor exactly as read.
		OriginalModel *pom.Model

		CompileSourceRoots     []string
		TestCompileSourceRoots []string

		// ReleaseRepository and SnapshotRepository are the deployment targets, set once
		// distribution management is known.
		ReleaseRepository  *DeployRepository
		SnapshotRepository *DeployRepository
	}

	// DeployRepository is a resolved deployment target.
	DeployRepository struct {
		ID        string
		URL       string
		Releases  pom.RepositoryPolicy
		Snapshots pom.RepositoryPolicy
	}
)

// Load reads the project at path, which is either a descriptor file or a directory
// containing one.
func Load(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		abs = filepath.Join(abs, DescriptorFileName)
	}

	m, err := pom.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return New(abs, m), nil
}

// New creates a project for a descriptor read from file.
func New(file string, m *pom.Model) *Project {
	base := filepath.Dir(file)
	p := &Project{
		File:          file,
		BaseDir:       base,
		Model:         m,
		OriginalModel: m.Clone(),
	}
	p.CompileSourceRoots = []string{p.resolve(sourceDir(m, false))}
	p.TestCompileSourceRoots = []string{p.resolve(sourceDir(m, true))}
	return p
}

func sourceDir(m *pom.Model, test bool) string {
	switch {
	case test && m.Build != nil && m.Build.TestSourceDirectory != "":
		return m.Build.TestSourceDirectory
	case !test && m.Build != nil && m.Build.SourceDirectory != "":
		return m.Build.SourceDirectory
	case test:
		return filepath.Join("src", "test", "java")
	default:
		return filepath.Join("src", "main", "java")
	}
}

func (p *Project) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.BaseDir, dir)
}

// ReplaceSourceRoot makes dir the first compile (or test compile) source root, replacing the
// current first entry and keeping the rest.
func (p *Project) ReplaceSourceRoot(dir string, test bool) {
	roots := &p.CompileSourceRoots
	if test {
		roots = &p.TestCompileSourceRoots
	}
	dir = p.resolve(dir)
	if len(*roots) == 0 {
		*roots = []string{dir}
		return
	}
	(*roots)[0] = dir
}

// GroupID returns the effective group of the project.
func (p *Project) GroupID() string { return p.Model.RealGroupID() }

// ArtifactID returns the artifact of the project.
func (p *Project) ArtifactID() string { return p.Model.ArtifactID }

// Version returns the effective version of the project.
func (p *Project) Version() string { return p.Model.RealVersion() }

// Packaging returns the effective packaging of the project.
func (p *Project) Packaging() string { return p.Model.RealPackaging() }

// Key returns group:artifact.
func (p *Project) Key() string { return p.GroupID() + ":" + p.ArtifactID() }

// GAV returns group:artifact:version.
func (p *Project) GAV() string { return p.Key() + ":" + p.Version() }

// BuildDirectory returns the absolute output directory of the project.
func (p *Project) BuildDirectory() string {
	if p.Model.Build != nil && p.Model.Build.Directory != "" {
		return p.resolve(p.Model.Build.Directory)
	}
	return filepath.Join(p.BaseDir, "target")
}

// Plugin returns the build plugin with the given key, or nil.
func (p *Project) Plugin(key string) *pom.Plugin {
	return p.Model.Build.Plugin(key)
}
