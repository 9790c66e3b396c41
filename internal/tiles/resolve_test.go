// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tilekit/tilekit/internal/project"
	"github.com/tilekit/tilekit/internal/repository"
	"github.com/tilekit/tilekit/pkg/coord"
)

func installTile(t *testing.T, repo *repository.Local, gav, body string, withDescriptor bool) {
	t.Helper()
	ctx := context.Background()
	c := mustParse(t, gav)
	if _, err := repo.Install(ctx, c, []byte(body)); err != nil {
		t.Fatal(err)
	}
	if withDescriptor {
		if _, err := repo.Install(ctx, c.Descriptor(), []byte(`<project/>`)); err != nil {
			t.Fatal(err)
		}
	}
}

func TestResolverVersionRange(t *testing.T) {
	t.Parallel()

	repo := repository.NewLocal(t.TempDir())
	for _, v := range []string{"1.0", "1.5", "2.0"} {
		installTile(t, repo, "g:a:"+v, tileXML(propsXML("v", v)), true)
	}

	got, err := NewResolver(repo).Resolve(context.Background(), mustParse(t, "g:a:[1,2)"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Coordinate.Version != "1.5" {
		t.Errorf("resolved version = %q, want 1.5", got.Coordinate.Version)
	}
	if got.Location != repo.Path(got.Coordinate) {
		t.Errorf("Location = %q", got.Location)
	}

	_, err = NewResolver(repo).Resolve(context.Background(), mustParse(t, "g:a:[3,)"))
	if !errors.Is(err, ErrTileResolutionFailed) || !errors.Is(err, coord.ErrNoMatchingVersion) {
		t.Errorf("Resolve(no match) error = %v", err)
	}
}

func TestResolverRequiresDescriptor(t *testing.T) {
	t.Parallel()

	repo := repository.NewLocal(t.TempDir())
	installTile(t, repo, "g:a:1", tileXML(""), false)

	_, err := NewResolver(repo).Resolve(context.Background(), mustParse(t, "g:a:1"))
	if !errors.Is(err, ErrTileResolutionFailed) || !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Resolve() error = %v, want resolution failure for the missing descriptor", err)
	}
}

func TestResolverReleaseRejectsSnapshots(t *testing.T) {
	t.Parallel()

	repo := repository.NewLocal(t.TempDir())
	installTile(t, repo, "g:a:1-SNAPSHOT", tileXML(""), true)
	ctx := context.Background()

	if _, err := NewResolver(repo).Resolve(ctx, mustParse(t, "g:a:1-SNAPSHOT")); err != nil {
		t.Errorf("Resolve() without release error = %v", err)
	}
	_, err := NewResolver(repo, WithRelease(true)).Resolve(ctx, mustParse(t, "g:a:1-SNAPSHOT"))
	var snap *SnapshotOnReleaseError
	if !errors.As(err, &snap) || snap.Tile != "g:a:1-SNAPSHOT" {
		t.Errorf("Resolve() with release error = %v, want SnapshotOnReleaseError", err)
	}
}

func TestResolverPrefersReactorSibling(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, project.DescriptorFileName),
		`<project><groupId>g</groupId><artifactId>a</artifactId><version>1</version><properties><flavor>sibling</flavor></properties>`+
			pluginXML(`<filtering>true</filtering>`)+`</project>`)
	writeFile(t, filepath.Join(dir, FileName), tileXML(propsXML("flavor", "@flavor@", "id", "@project.artifactId@")))
	sibling, err := project.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	reactor := &project.Reactor{Projects: []*project.Project{sibling}}
	repo := repository.NewLocal(t.TempDir())

	got, err := NewResolver(repo, WithReactor(reactor)).Resolve(context.Background(), mustParse(t, "g:a:1"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	tile, err := Load(got.Data, got.Location)
	if err != nil {
		t.Fatal(err)
	}
	if v := tile.Model.Properties.Value("flavor"); v != "sibling" {
		t.Errorf("filtered property flavor = %q, want sibling", v)
	}
	if v := tile.Model.Properties.Value("id"); v != "a" {
		t.Errorf("filtered property id = %q, want a", v)
	}
	want := filepath.Join(dir, "target", "generated-sources", "tiles", FileName)
	if got.Location != want {
		t.Errorf("Location = %q, want %q", got.Location, want)
	}

	// A different version is not a sibling match.
	if _, err := NewResolver(repo, WithReactor(reactor)).Resolve(context.Background(), mustParse(t, "g:a:2")); err == nil {
		t.Error("Resolve() of a non-matching version used the sibling")
	}
}
