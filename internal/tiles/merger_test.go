// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

const mergeTarget = `<properties><tile-merge-target>true</tile-merge-target><shared>target</shared></properties>
<build><plugins><plugin><groupId>p</groupId><artifactId>p</artifactId><executions>
<execution><id>exec1</id><configuration tiles-append="args"><tiles-keep-id>true</tiles-keep-id>
<args><arg>one</arg></args><mode>target</mode></configuration></execution>
</executions></plugin></plugins></build>`

const mergeFragment = `<properties><tile-merge-source>true</tile-merge-source>
<tile-merge-expected-target>g:merge:1.0</tile-merge-expected-target><shared>fragment</shared><extra>x</extra></properties>
<build><plugins><plugin><groupId>p</groupId><artifactId>p</artifactId><executions>
<execution><id>exec1</id><configuration><tiles-keep-id>true</tiles-keep-id>
<args><arg>two</arg><arg>three</arg></args><mode>fragment</mode></configuration></execution>
</executions></plugin></plugins></build>`

func argValues(tile *Tile) []string {
	cfg := tile.Model.Build.Plugins[0].Executions[0].Configuration
	var out []string
	for _, a := range cfg.Child("args").Children {
		out = append(out, a.Value)
	}
	return out
}

func TestDiscoverMergesFragments(t *testing.T) {
	t.Parallel()

	repo := newMemoryTiles().
		add("g:frag:1.0", tileXML(mergeFragment)).
		add("g:merge:1.0", tileXML(mergeTarget))

	state := NewDiscoveryState()
	got, err := NewDiscoverer(repo, nil).Discover(context.Background(), state, []string{"g:frag:1.0", "g:merge:1.0"}, "pom.xml")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if want := []string{"g:merge"}; !slices.Equal(tileKeys(got), want) {
		t.Fatalf("Discover() = %v, want %v", tileKeys(got), want)
	}

	target := got[0]
	if want := []string{"one", "two", "three"}; !slices.Equal(argValues(target), want) {
		t.Errorf("args = %v, want %v", argValues(target), want)
	}
	if mode := target.Model.Build.Plugins[0].Executions[0].Configuration.ChildValue("mode", ""); mode != "target" {
		t.Errorf("mode = %q, want target configuration untouched", mode)
	}
	props := target.Model.Properties
	if props.Value("shared") != "fragment" || props.Value("extra") != "x" {
		t.Errorf("properties = %v, want fragment properties merged", props.Map())
	}
	for _, flag := range []string{PropMergeSource, PropMergeTarget, PropMergeExpectedTarget} {
		if _, ok := props.Get(flag); ok {
			t.Errorf("merge flag %s survived", flag)
		}
	}
	if _, ok := state.MergeTargets()["p:p:exec1"]; !ok {
		t.Errorf("MergeTargets() = %v, want p:p:exec1", state.MergeTargets())
	}
}

func TestMergeTileAppendIsAdditive(t *testing.T) {
	t.Parallel()

	target, err := Load([]byte(tileXML(mergeTarget)), "target")
	if err != nil {
		t.Fatal(err)
	}
	target.Bind(mustParse(t, "g:merge:1.0"))
	targets := make(map[string]*Tile)
	RegisterMergeTarget(target, targets)

	for range 2 {
		fragment, err := Load([]byte(tileXML(mergeFragment)), "fragment")
		if err != nil {
			t.Fatal(err)
		}
		fragment.Bind(mustParse(t, "g:frag:1.0"))
		if err := MergeTile(fragment, targets, nil); err != nil {
			t.Fatalf("MergeTile() error = %v", err)
		}
	}
	if want := []string{"one", "two", "three", "two", "three"}; !slices.Equal(argValues(target), want) {
		t.Errorf("args = %v, want %v", argValues(target), want)
	}
}

func TestMergeTileMissingTarget(t *testing.T) {
	t.Parallel()

	repo := newMemoryTiles().add("g:frag:1.0", tileXML(mergeFragment))

	_, err := NewDiscoverer(repo, nil).Discover(context.Background(), NewDiscoveryState(), []string{"g:frag:1.0"}, "pom.xml")
	var missing *MissingMergeTargetError
	if !errors.As(err, &missing) {
		t.Fatalf("Discover() error = %v, want MissingMergeTargetError", err)
	}
	if missing.Execution != "p:p:exec1" || missing.Expected != "g:merge:1.0" {
		t.Errorf("MissingMergeTargetError = %+v", missing)
	}
	if !errors.Is(err, ErrMissingMergeTarget) {
		t.Error("error does not wrap ErrMissingMergeTarget")
	}
}

func TestMergeTileRequiresKeptExecutionIDs(t *testing.T) {
	t.Parallel()

	strip := func(s string) string {
		return strings.ReplaceAll(s, "<tiles-keep-id>true</tiles-keep-id>", "")
	}
	tests := []struct {
		name     string
		target   string
		fragment string
	}{
		{"neither keeps ids", strip(mergeTarget), strip(mergeFragment)},
		{"only target keeps ids", mergeTarget, strip(mergeFragment)},
		{"only fragment keeps ids", strip(mergeTarget), mergeFragment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			target, err := Load([]byte(tileXML(tt.target)), "target")
			if err != nil {
				t.Fatal(err)
			}
			target.Bind(mustParse(t, "g:merge:1.0"))
			targets := make(map[string]*Tile)
			RegisterMergeTarget(target, targets)

			fragment, err := Load([]byte(tileXML(tt.fragment)), "fragment")
			if err != nil {
				t.Fatal(err)
			}
			fragment.Bind(mustParse(t, "g:frag:1.0"))

			if err := MergeTile(fragment, targets, nil); !errors.Is(err, ErrMissingMergeTarget) {
				t.Errorf("MergeTile() error = %v, want ErrMissingMergeTarget", err)
			}
			if want := []string{"one"}; !slices.Equal(argValues(target), want) {
				t.Errorf("args = %v, target should be unchanged", argValues(target))
			}
		})
	}
}
