// SPDX-License-Identifier: MPL-2.0

// Package dag models the world graph of a game: worlds are nodes and
// prerequisite paths are directed edges from the world that must be played
// first to the world it unlocks. The package provides the cycle check that
// gates compilation, a deterministic topological order, and the transitive
// predecessor query used to propagate vocabulary availability.
package dag

import (
	"fmt"
	"slices"
	"strings"

	"github.com/questkit/questc/pkg/types"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle contains the nodes that are part of or downstream of a cycle
		// (enough to identify the problem), in insertion order.
		Cycle []types.WorldID
	}

	// Edge is one directed prerequisite edge.
	Edge struct {
		From types.WorldID
		To   types.WorldID
	}

	// Graph is a directed graph of worlds.
	// An edge from A to B means A is a prerequisite of B.
	Graph struct {
		// adjacency maps each node to its successors.
		adjacency map[types.WorldID][]types.WorldID
		// reverse maps each node to its direct predecessors.
		reverse map[types.WorldID][]types.WorldID
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []types.WorldID
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[types.WorldID]bool
		// edges keeps declaration order and rejects duplicates.
		edges   []Edge
		edgeSet map[Edge]bool
	}
)

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		parts[i] = string(id)
	}
	return fmt.Sprintf("world graph contains a cycle: %s", strings.Join(parts, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[types.WorldID][]types.WorldID),
		reverse:   make(map[types.WorldID][]types.WorldID),
		nodeSet:   make(map[types.WorldID]bool),
		edgeSet:   make(map[Edge]bool),
	}
}

// AddWorld adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddWorld(id types.WorldID) {
	if g.nodeSet[id] {
		return
	}
	g.nodeSet[id] = true
	g.nodes = append(g.nodes, id)
}

// AddEdge adds a directed edge from -> to. Both nodes are implicitly added
// if they don't exist. A repeated edge is ignored.
func (g *Graph) AddEdge(from, to types.WorldID) {
	g.AddWorld(from)
	g.AddWorld(to)
	e := Edge{From: from, To: to}
	if g.edgeSet[e] {
		return
	}
	g.edgeSet[e] = true
	g.edges = append(g.edges, e)
	g.adjacency[from] = append(g.adjacency[from], to)
	g.reverse[to] = append(g.reverse[to], from)
}

// Has reports whether the node exists.
func (g *Graph) Has(id types.WorldID) bool {
	return g.nodeSet[id]
}

// Worlds returns all nodes in insertion order.
func (g *Graph) Worlds() []types.WorldID {
	return slices.Clone(g.nodes)
}

// Edges returns all edges in declaration order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// Successors returns the direct successors of id in declaration order.
func (g *Graph) Successors(id types.WorldID) []types.WorldID {
	return slices.Clone(g.adjacency[id])
}

// DirectPredecessors returns the direct predecessors of id in declaration order.
func (g *Graph) DirectPredecessors(id types.WorldID) []types.WorldID {
	return slices.Clone(g.reverse[id])
}

// Predecessors returns every world from which id is reachable, following
// reverse edges transitively. id itself is included only when it lies on a
// cycle. The result is in breadth-first discovery order.
func (g *Graph) Predecessors(id types.WorldID) []types.WorldID {
	seen := make(map[types.WorldID]bool)
	var out []types.WorldID
	queue := slices.Clone(g.reverse[id])
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		queue = append(queue, g.reverse[n]...)
	}
	return out
}

// HasCycle reports whether the graph contains a cycle.
func (g *Graph) HasCycle() bool {
	_, err := g.TopologicalOrder()
	return err != nil
}

// TopologicalOrder returns the nodes ordered so that every prerequisite
// precedes the worlds it unlocks, using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle.
// The returned order is deterministic: nodes at the same topological level
// appear in the order they were first added to the graph.
func (g *Graph) TopologicalOrder() ([]types.WorldID, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[types.WorldID]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = len(g.reverse[node])
	}

	// Seed the queue with nodes that have no incoming edges, in insertion order.
	queue := make([]types.WorldID, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]types.WorldID, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		// Remaining nodes with non-zero in-degree form the cycle.
		var cycleNodes []types.WorldID
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycleNodes = append(cycleNodes, node)
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}

	return result, nil
}
