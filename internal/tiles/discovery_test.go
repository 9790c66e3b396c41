// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/tilekit/tilekit/pkg/coord"
)

func tileKeys(tiles []*Tile) []string {
	keys := make([]string, 0, len(tiles))
	for _, t := range tiles {
		keys = append(keys, t.Key())
	}
	return keys
}

func TestDiscoverTransitiveOrder(t *testing.T) {
	t.Parallel()

	repo := newMemoryTiles().
		add("g:a:1", tileXML(tilesXML("g:c:1"))).
		add("g:b:1", tileXML("")).
		add("g:c:1", tileXML(pluginXML(tilesXML("g:d:1")))).
		add("g:d:1", tileXML(""))

	state := NewDiscoveryState()
	got, err := NewDiscoverer(repo, nil).Discover(context.Background(), state, []string{"g:a:1", "g:b:1"}, "pom.xml")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if want := []string{"g:a", "g:b", "g:c", "g:d"}; !slices.Equal(tileKeys(got), want) {
		t.Errorf("Discover() = %v, want %v", tileKeys(got), want)
	}
	if len(state.PendingKeys()) != 0 {
		t.Errorf("PendingKeys() = %v, want none", state.PendingKeys())
	}
}

func TestDiscoverDuplicateRequests(t *testing.T) {
	t.Parallel()

	repo := newMemoryTiles().
		add("g:a:1", tileXML(tilesXML("g:b:2"))).
		add("g:b:1", tileXML("")).
		add("g:b:2", tileXML(""))

	logger, buf := bufferLogger()
	state := NewDiscoveryState()
	got, err := NewDiscoverer(repo, logger).Discover(context.Background(), state, []string{"g:b:1", "g:a:1"}, "pom.xml")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if want := []string{"g:b", "g:a"}; !slices.Equal(tileKeys(got), want) {
		t.Errorf("Discover() = %v, want %v", tileKeys(got), want)
	}
	if n := strings.Count(buf.String(), "Same tile requested more than once"); n != 1 {
		t.Errorf("duplicate warnings = %d, want 1\n%s", n, buf.String())
	}
	if want := []string{"g:a", "g:b"}; !slices.Equal(state.ProcessedKeys(), want) {
		t.Errorf("ProcessedKeys() = %v, want %v", state.ProcessedKeys(), want)
	}
	if slices.Contains(repo.resolved, "g:b:2") {
		t.Errorf("duplicate request was resolved: %v", repo.resolved)
	}
	if got[0].Model.Version != "1" {
		t.Errorf("first request should win, got version %q", got[0].Model.Version)
	}
}

func TestDiscoverRequeuesPendingDuplicate(t *testing.T) {
	t.Parallel()

	repo := newMemoryTiles().
		add("g:a:1", tileXML(tilesXML("g:b:1"))).
		add("g:b:1", tileXML("")).
		add("g:c:1", tileXML(""))

	logger, buf := bufferLogger()
	state := NewDiscoveryState()
	got, err := NewDiscoverer(repo, logger).Discover(context.Background(), state, []string{"g:a:1", "g:b:1", "g:c:1"}, "pom.xml")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if want := []string{"g:a:1", "g:c:1", "g:b:1"}; !slices.Equal(repo.resolved, want) {
		t.Errorf("resolution order = %v, want %v", repo.resolved, want)
	}
	if n := strings.Count(buf.String(), "Same tile requested more than once"); n != 1 {
		t.Errorf("duplicate warnings = %d, want 1\n%s", n, buf.String())
	}
	if want := []string{"g:a", "g:b", "g:c"}; !slices.Equal(tileKeys(got), want) {
		t.Errorf("Discover() = %v, want %v", tileKeys(got), want)
	}
}

func TestDiscoverPrunesNonTiles(t *testing.T) {
	t.Parallel()

	repo := newMemoryTiles().
		add("g:a:1", tileXML("")).
		add("g:jar:1", `<archive/>`).
		add("g:b:1", tileXML(""))

	state := NewDiscoveryState()
	got, err := NewDiscoverer(repo, nil).Discover(context.Background(), state, []string{"g:a:1", "g:jar:1", "g:b:1"}, "pom.xml")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if want := []string{"g:a", "g:b"}; !slices.Equal(tileKeys(got), want) {
		t.Errorf("Discover() = %v, want %v", tileKeys(got), want)
	}
	order := state.DiscoveryOrder()
	processed := state.ProcessedKeys()
	if len(order) != len(processed) {
		t.Errorf("DiscoveryOrder() = %v, ProcessedKeys() = %v", order, processed)
	}
	for _, key := range order {
		if !slices.Contains(processed, key) {
			t.Errorf("DiscoveryOrder() contains unprocessed key %q", key)
		}
	}
}

func TestDiscoverErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemoryTiles().add("g:a:1", tileXML(tilesXML("bad-ref")))

	_, err := NewDiscoverer(repo, nil).Discover(ctx, NewDiscoveryState(), []string{"g:a:1"}, "pom.xml")
	if !errors.Is(err, coord.ErrMalformedCoordinate) {
		t.Errorf("Discover(malformed nested) error = %v, want ErrMalformedCoordinate", err)
	}

	_, err = NewDiscoverer(repo, nil).Discover(ctx, NewDiscoveryState(), []string{"g:missing:1"}, "pom.xml")
	if !errors.Is(err, ErrTileResolutionFailed) {
		t.Errorf("Discover(missing) error = %v, want ErrTileResolutionFailed", err)
	}
}

func TestCoordinateIdentityIgnoresTypeAndVersion(t *testing.T) {
	t.Parallel()

	refs := []string{"g:a:1", "g:a:xml:extra:[1,2)", "g:a:pom::2"}
	for _, ref := range refs {
		if got := mustParse(t, ref).Key(); got != "g:a" {
			t.Errorf("Parse(%q).Key() = %q, want g:a", ref, got)
		}
	}
	if mustParse(t, "g:a:1").Key() == mustParse(t, "g:b:1").Key() {
		t.Error("distinct artifacts share a key")
	}
}
