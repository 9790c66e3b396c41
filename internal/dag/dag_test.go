// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  []string
	}{
		{name: "empty"},
		{name: "single", nodes: []string{"g:a"}, want: []string{"g:a"}},
		{
			name:  "tile before consumer",
			nodes: []string{"g:app", "g:tile"},
			edges: [][2]string{{"g:tile", "g:app"}},
			want:  []string{"g:tile", "g:app"},
		},
		{
			name:  "independent keep registration order",
			nodes: []string{"g:c", "g:a", "g:b"},
			want:  []string{"g:c", "g:a", "g:b"},
		},
		{
			name:  "diamond",
			edges: [][2]string{{"p", "a"}, {"p", "b"}, {"a", "app"}, {"b", "app"}},
			want:  []string{"p", "a", "b", "app"},
		},
		{
			name:  "repeated edge",
			edges: [][2]string{{"a", "b"}, {"a", "b"}},
			want:  []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			for _, n := range tt.nodes {
				g.AddNode(n)
			}
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}
			got, err := g.Sort()
			if err != nil {
				t.Fatalf("Sort() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Sort() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortCycle(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("root")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	_, err := g.Sort()
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Sort() error = %v, want ErrCycle", err)
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Sort() error type = %T, want *CycleError", err)
	}
	if !slices.Equal(ce.Nodes, []string{"a", "b", "c"}) {
		t.Errorf("CycleError.Nodes = %v, want [a b c]", ce.Nodes)
	}
	if want := "project dependency cycle: a -> b -> c"; ce.Error() != want {
		t.Errorf("Error() = %q, want %q", ce.Error(), want)
	}
}

func TestDependents(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("tile", "app")
	g.AddEdge("tile", "lib")
	if got := g.Dependents("tile"); !slices.Equal(got, []string{"app", "lib"}) {
		t.Errorf("Dependents() = %v", got)
	}
	if !g.HasNode("lib") || g.HasNode("nope") {
		t.Error("HasNode() mismatch")
	}
}
