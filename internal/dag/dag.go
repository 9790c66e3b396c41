// SPDX-License-Identifier: MPL-2.0

// Package dag orders the projects of a multi-project build. Nodes are project identities
// (group:artifact); an edge from A to B records that B depends on A and must be processed
// after it.
package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCycle is returned when the projects depend on each other in a loop.
var ErrCycle = errors.New("project dependency cycle")

type (
	// CycleError lists the projects left unordered because they sit on or behind a cycle.
	CycleError struct {
		Nodes []string
	}

	// Graph is a directed graph with deterministic iteration order.
	Graph struct {
		edges map[string][]string
		nodes []string
	}
)

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Nodes, " -> "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{edges: make(map[string][]string)}
}

// AddNode registers a node. Adding a known node is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.edges[name]; ok {
		return
	}
	g.edges[name] = nil
	g.nodes = append(g.nodes, name)
}

// HasNode reports whether name is registered.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.edges[name]
	return ok
}

// AddEdge records that to depends on from. Both nodes are added when missing and repeated
// edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if !slices.Contains(g.edges[from], to) {
		g.edges[from] = append(g.edges[from], to)
	}
}

// Dependents returns the nodes that depend directly on name.
func (g *Graph) Dependents(name string) []string {
	return slices.Clone(g.edges[name])
}

// Sort returns every node after all nodes it depends on (Kahn's algorithm). Among nodes
// that are ready at the same time, registration order is kept.
func (g *Graph) Sort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	pending := make(map[string]int, len(g.nodes))
	for _, targets := range g.edges {
		for _, to := range targets {
			pending[to]++
		}
	}

	var ready []string
	for _, n := range g.nodes {
		if pending[n] == 0 {
			ready = append(ready, n)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, to := range g.edges[n] {
			pending[to]--
			if pending[to] == 0 {
				ready = append(ready, to)
			}
		}
	}

	if len(order) < len(g.nodes) {
		var stuck []string
		for _, n := range g.nodes {
			if pending[n] > 0 {
				stuck = append(stuck, n)
			}
		}
		return nil, &CycleError{Nodes: stuck}
	}
	return order, nil
}
