// SPDX-License-Identifier: MPL-2.0

package hostbuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/tilekit/tilekit/internal/modelcache"
	"github.com/tilekit/tilekit/internal/repository"
	"github.com/tilekit/tilekit/pkg/coord"
	"github.com/tilekit/tilekit/pkg/pom"
)

// mapResolver serves parents from an in-memory set of descriptors keyed by g:a:v.
type mapResolver struct {
	sources map[string]string
	calls   int
}

func (r *mapResolver) ResolveParent(_ context.Context, _ ModelSource, p *pom.Parent) (ModelSource, error) {
	r.calls++
	data, ok := r.sources[p.GAV()]
	if !ok {
		return ModelSource{}, fmt.Errorf("unknown parent %s", p.GAV())
	}
	return ModelSource{Location: p.GAV(), Data: []byte(data)}, nil
}

func newCache(t *testing.T) *modelcache.LRU {
	t.Helper()
	c, err := modelcache.NewLRU(16)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

const (
	childXML = `<project>
  <parent><groupId>g</groupId><artifactId>parent</artifactId><version>1</version></parent>
  <artifactId>child</artifactId>
  <properties><shared>child</shared><own>yes</own></properties>
  <build>
    <plugins>
      <plugin>
        <artifactId>compiler</artifactId>
        <configuration><release>21</release></configuration>
        <executions><execution><id>extra</id><goals><goal>compile</goal></goals></execution></executions>
      </plugin>
    </plugins>
  </build>
</project>`

	parentXML = `<project>
  <groupId>g</groupId>
  <artifactId>parent</artifactId>
  <version>1</version>
  <packaging>pom</packaging>
  <properties><shared>parent</shared><inherited>yes</inherited></properties>
  <dependencies><dependency><groupId>d</groupId><artifactId>lib</artifactId><version>2</version></dependency></dependencies>
  <build>
    <sourceDirectory>src/main/go</sourceDirectory>
    <plugins>
      <plugin>
        <artifactId>compiler</artifactId>
        <version>3.1</version>
        <configuration><release>17</release><debug>true</debug></configuration>
        <executions><execution><id>default</id><phase>compile</phase></execution></executions>
      </plugin>
      <plugin>
        <artifactId>local-only</artifactId>
        <inherited>false</inherited>
      </plugin>
    </plugins>
  </build>
</project>`
)

func TestBuildInheritance(t *testing.T) {
	t.Parallel()

	resolver := &mapResolver{sources: map[string]string{"g:parent:1": parentXML}}
	req := Request{
		Source:   ModelSource{Location: "child/pom.xml", Data: []byte(childXML)},
		Resolver: resolver,
		Cache:    newCache(t),
	}

	res, err := NewBuilder(nil).Build(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	eff := res.Effective

	if eff.GroupID != "g" || eff.Version != "1" {
		t.Errorf("identity = %s, want group and version inherited", eff.GAV())
	}
	if eff.Packaging != "" {
		t.Errorf("Packaging = %q, packaging must not be inherited", eff.Packaging)
	}
	for k, want := range map[string]string{"shared": "child", "own": "yes", "inherited": "yes"} {
		if got := eff.Properties.Value(k); got != want {
			t.Errorf("property %s = %q, want %q", k, got, want)
		}
	}
	if len(eff.Dependencies) != 1 {
		t.Errorf("Dependencies = %v, want the inherited dependency", eff.Dependencies)
	}
	if eff.Build.SourceDirectory != "src/main/go" {
		t.Errorf("SourceDirectory = %q", eff.Build.SourceDirectory)
	}
	if eff.Build.Plugin(pom.DefaultPluginGroupID+":local-only") != nil {
		t.Error("plugin with inherited=false must not be inherited")
	}

	compiler := eff.Build.Plugin(pom.DefaultPluginGroupID + ":compiler")
	if compiler == nil {
		t.Fatal("compiler plugin missing")
	}
	if compiler.Version != "3.1" {
		t.Errorf("compiler version = %q, want inherited 3.1", compiler.Version)
	}
	if got := compiler.Configuration.ChildValue("release", ""); got != "21" {
		t.Errorf("release = %q, want child value 21", got)
	}
	if got := compiler.Configuration.ChildValue("debug", ""); got != "true" {
		t.Errorf("debug = %q, want inherited true", got)
	}
	if len(compiler.Executions) != 2 {
		t.Errorf("executions = %d, want default + extra", len(compiler.Executions))
	}

	if len(res.Lineage) != 2 || res.Lineage[1].ArtifactID != "parent" {
		t.Errorf("Lineage = %v", res.Lineage)
	}
}

func TestBuildUsesCacheAndFinalPassDropsSynthetic(t *testing.T) {
	t.Parallel()

	cache := newCache(t)
	resolver := &mapResolver{sources: map[string]string{"g:parent:1": parentXML}}
	req := Request{
		Source:   ModelSource{Location: "child/pom.xml", Data: []byte(childXML)},
		Resolver: resolver,
		Cache:    cache,
		Dependencies: []pom.Dependency{
			{GroupID: "g", ArtifactID: "tile", Version: "1", Type: "xml", Synthetic: true},
		},
	}
	b := NewBuilder(nil)
	ctx := context.Background()

	interim, err := b.Build(ctx, req, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(interim.Effective.Dependencies) != 2 {
		t.Errorf("interim dependencies = %d, want declared + synthetic", len(interim.Effective.Dependencies))
	}
	if _, ok := cache.Get(modelcache.RawKey("g", "parent", "1")); !ok {
		t.Error("resolved parent was not cached")
	}

	final, err := b.Build(ctx, req, interim)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range final.Effective.Dependencies {
		if d.ArtifactID == "tile" {
			t.Error("synthetic dependency survived the final pass")
		}
	}

	if _, err := b.Build(ctx, req, nil); err != nil {
		t.Fatal(err)
	}
	if resolver.calls != 1 {
		t.Errorf("resolver called %d times, want 1 (second build served from cache)", resolver.calls)
	}
}

func TestBuildDetectsCycle(t *testing.T) {
	t.Parallel()

	a := `<project><parent><groupId>g</groupId><artifactId>b</artifactId><version>1</version></parent><artifactId>a</artifactId></project>`
	b := `<project><parent><groupId>g</groupId><artifactId>a</artifactId><version>1</version></parent><groupId>g</groupId><artifactId>b</artifactId><version>1</version></project>`
	resolver := &mapResolver{sources: map[string]string{"g:b:1": b, "g:a:1": a}}

	_, err := NewBuilder(nil).Build(context.Background(), Request{
		Source:   ModelSource{Location: "a", Data: []byte(a)},
		Resolver: resolver,
	}, nil)
	if !errors.Is(err, ErrParentCycle) {
		t.Errorf("Build() error = %v, want ErrParentCycle", err)
	}
}

func TestBuildParentMismatch(t *testing.T) {
	t.Parallel()

	resolver := &mapResolver{sources: map[string]string{"g:parent:1": `<project><groupId>g</groupId><artifactId>other</artifactId><version>1</version></project>`}}
	_, err := NewBuilder(nil).Build(context.Background(), Request{
		Source:   ModelSource{Location: "child", Data: []byte(childXML)},
		Resolver: resolver,
	}, nil)

	var pe *ParentError
	if !errors.As(err, &pe) || !errors.Is(err, ErrParentMismatch) {
		t.Errorf("Build() error = %v, want *ParentError wrapping ErrParentMismatch", err)
	}
}

func TestWorkspaceResolver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "pom.xml"), []byte(parentXML), 0o644); err != nil {
		t.Fatal(err)
	}
	childDir := filepath.Join(root, "child")
	if err := os.MkdirAll(childDir, 0o755); err != nil {
		t.Fatal(err)
	}

	repo := repository.NewLocal(t.TempDir())
	remoteParent := `<project><groupId>g</groupId><artifactId>remote</artifactId><version>2.1</version></project>`
	for _, v := range []string{"2.0", "2.1"} {
		c := coord.Coordinate{Group: "g", Artifact: "remote", Type: coord.DescriptorType, Version: v}
		if _, err := repo.Install(ctx, c, []byte(remoteParent)); err != nil {
			t.Fatal(err)
		}
	}
	r := NewWorkspaceResolver(repo)
	child := ModelSource{Location: filepath.Join(childDir, "pom.xml")}

	src, err := r.ResolveParent(ctx, child, &pom.Parent{GroupID: "g", ArtifactID: "parent", Version: "1"})
	if err != nil {
		t.Fatalf("ResolveParent() workspace error = %v", err)
	}
	if src.Location != filepath.Join(root, "pom.xml") {
		t.Errorf("workspace Location = %q", src.Location)
	}

	src, err = r.ResolveParent(ctx, child, &pom.Parent{GroupID: "g", ArtifactID: "remote", Version: "[2.0,3.0)"})
	if err != nil {
		t.Fatalf("ResolveParent() repository error = %v", err)
	}
	if filepath.Base(src.Location) != "remote-2.1.pom" {
		t.Errorf("repository Location = %q, want highest version in range", src.Location)
	}

	if _, err := r.ResolveParent(ctx, child, &pom.Parent{GroupID: "g", ArtifactID: "missing", Version: "1"}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("ResolveParent() missing error = %v, want ErrNotFound", err)
	}
}

func TestBuildReadsThroughCustomReader(t *testing.T) {
	t.Parallel()

	var read []string
	reader := RawReaderFunc(func(ctx context.Context, src ModelSource) (*pom.Model, error) {
		read = append(read, src.Location)
		return XMLReader{}.ReadRaw(ctx, src)
	})

	res, err := NewBuilder(nil).Build(context.Background(), Request{
		Source:   ModelSource{Location: "child/pom.xml", Data: []byte(childXML)},
		Reader:   reader,
		Resolver: &mapResolver{sources: map[string]string{"g:parent:1": parentXML}},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(read) != 2 || read[0] != "child/pom.xml" || read[1] != "g:parent:1" {
		t.Errorf("reads = %v, want child then parent", read)
	}
	if len(res.Lineage) != 2 {
		t.Errorf("lineage = %d, want 2", len(res.Lineage))
	}
}
