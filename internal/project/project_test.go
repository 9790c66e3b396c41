// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/tilekit/tilekit/internal/dag"
	"github.com/tilekit/tilekit/pkg/pom"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pom.xml"), `<project>
  <parent><groupId>g</groupId><artifactId>p</artifactId><version>1.0</version></parent>
  <artifactId>app</artifactId>
  <build><testSourceDirectory>tests</testSourceDirectory></build>
</project>`)

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.GAV() != "g:app:1.0" {
		t.Errorf("GAV() = %q, want inherited group and version", p.GAV())
	}
	if p.File != filepath.Join(dir, "pom.xml") {
		t.Errorf("File = %q", p.File)
	}
	if want := filepath.Join(dir, "src", "main", "java"); !slices.Equal(p.CompileSourceRoots, []string{want}) {
		t.Errorf("CompileSourceRoots = %v", p.CompileSourceRoots)
	}
	if want := filepath.Join(dir, "tests"); !slices.Equal(p.TestCompileSourceRoots, []string{want}) {
		t.Errorf("TestCompileSourceRoots = %v", p.TestCompileSourceRoots)
	}
	if p.OriginalModel == p.Model {
		t.Error("OriginalModel must be an independent copy")
	}
	if p.BuildDirectory() != filepath.Join(dir, "target") {
		t.Errorf("BuildDirectory() = %q", p.BuildDirectory())
	}
}

func TestReplaceSourceRoot(t *testing.T) {
	t.Parallel()

	p := New("/w/pom.xml", &pom.Model{ArtifactID: "a"})
	p.CompileSourceRoots = append(p.CompileSourceRoots, "/w/generated")

	p.ReplaceSourceRoot("src/main/kotlin", false)
	want := []string{filepath.Join("/w", "src", "main", "kotlin"), "/w/generated"}
	if !slices.Equal(p.CompileSourceRoots, want) {
		t.Errorf("CompileSourceRoots = %v, want %v", p.CompileSourceRoots, want)
	}
}

func TestLoadReactorAndSort(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pom.xml"), `<project>
  <groupId>g</groupId><artifactId>root</artifactId><version>1</version><packaging>pom</packaging>
  <modules><module>app</module><module>tile</module></modules>
</project>`)
	writeFile(t, filepath.Join(root, "app", "pom.xml"), `<project>
  <parent><groupId>g</groupId><artifactId>root</artifactId><version>1</version></parent>
  <artifactId>app</artifactId>
</project>`)
	writeFile(t, filepath.Join(root, "tile", "pom.xml"), `<project>
  <parent><groupId>g</groupId><artifactId>root</artifactId><version>1</version></parent>
  <artifactId>tile</artifactId><packaging>tile</packaging>
</project>`)

	r, err := LoadReactor(root)
	if err != nil {
		t.Fatalf("LoadReactor() error = %v", err)
	}
	keys := func() []string {
		var out []string
		for _, p := range r.Projects {
			out = append(out, p.ArtifactID())
		}
		return out
	}
	if got := keys(); !slices.Equal(got, []string{"root", "app", "tile"}) {
		t.Fatalf("projects = %v", got)
	}

	app := r.Find("g", "app", "")
	app.Model.Dependencies = append(app.Model.Dependencies, pom.Dependency{
		GroupID: "g", ArtifactID: "tile", Version: "1", Type: "xml", Synthetic: true,
	})
	if err := r.Sort(); err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	if got := keys(); !slices.Equal(got, []string{"root", "tile", "app"}) {
		t.Errorf("sorted projects = %v, want tile before app", got)
	}

	tile := r.Find("g", "tile", "1")
	tile.Model.Dependencies = append(tile.Model.Dependencies, pom.Dependency{GroupID: "g", ArtifactID: "app"})
	if err := r.Sort(); !errors.Is(err, dag.ErrCycle) {
		t.Errorf("Sort() error = %v, want ErrCycle", err)
	}
}
