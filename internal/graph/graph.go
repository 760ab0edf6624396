// Package graph provides a dependency graph over a subtask batch.
package graph

import (
	"errors"
	"fmt"

	"github.com/promptforge/promptforge/pkg/models"
)

// ErrCycleDetected indicates a circular dependency was found in the batch.
var ErrCycleDetected = errors.New("circular dependency detected")

// DependencyGraph represents a directed graph of subtask dependencies.
// Subtasks are nodes, and edges represent "depends on" relationships.
// A graph is built once per decomposition batch and never mutated after.
type DependencyGraph struct {
	// nodes maps subtask ID to the subtask itself.
	nodes map[string]*models.Subtask
	// edges maps subtask ID to the IDs of subtasks it depends on.
	edges map[string][]string
	// order preserves batch discovery order of subtask IDs. Kahn's
	// algorithm uses it to break ties deterministically.
	order []string
}

// New creates a new empty dependency graph.
func New() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*models.Subtask),
		edges: make(map[string][]string),
	}
}

// Build constructs the dependency graph from a batch of subtasks.
// Returns an error if a dependency references an ID outside the batch
// or if the graph contains a cycle.
func (g *DependencyGraph) Build(subtasks []*models.Subtask) error {
	// First pass: register all subtasks as nodes.
	for _, st := range subtasks {
		g.nodes[st.ID] = st
		g.edges[st.ID] = nil
		g.order = append(g.order, st.ID)
	}

	// Second pass: build edges from Dependencies fields.
	for _, st := range subtasks {
		for _, depID := range st.Dependencies {
			if _, exists := g.nodes[depID]; !exists {
				return fmt.Errorf("subtask %s depends on unknown subtask %s", st.ID, depID)
			}
			g.edges[st.ID] = append(g.edges[st.ID], depID)
		}
	}

	if g.HasCycle() {
		return ErrCycleDetected
	}
	return nil
}

// HasCycle returns true if the graph contains a circular dependency.
// Uses depth-first search with coloring to detect back edges.
func (g *DependencyGraph) HasCycle() bool {
	// Color states: 0 = white (unvisited), 1 = gray (in progress), 2 = black (done).
	colors := make(map[string]int, len(g.nodes))

	var visit func(id string) bool
	visit = func(id string) bool {
		colors[id] = 1

		for _, depID := range g.edges[id] {
			switch colors[depID] {
			case 1:
				// Back edge into the recursion stack.
				return true
			case 0:
				if visit(depID) {
					return true
				}
			}
		}

		colors[id] = 2
		return false
	}

	for _, id := range g.order {
		if colors[id] == 0 {
			if visit(id) {
				return true
			}
		}
	}
	return false
}

// TopologicalSort returns the subtasks ordered so that every subtask
// appears after all subtasks it depends on, directly or transitively.
// Uses Kahn's algorithm; among subtasks whose dependencies are equally
// satisfied, batch discovery order wins.
// Returns an error if the graph contains a cycle.
func (g *DependencyGraph) TopologicalSort() ([]*models.Subtask, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for _, id := range g.order {
		inDegree[id] = len(g.edges[id])
	}

	// Seed the queue with zero-in-degree nodes in batch order.
	var queue []string
	for _, id := range g.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var sorted []*models.Subtask
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, g.nodes[current])

		// Removing current satisfies one dependency of each dependent.
		// Scan in batch order so ties resolve deterministically.
		for _, id := range g.order {
			for _, depID := range g.edges[id] {
				if depID == current {
					inDegree[id]--
					if inDegree[id] == 0 {
						queue = append(queue, id)
					}
				}
			}
		}
	}

	if len(sorted) != len(g.nodes) {
		return nil, ErrCycleDetected
	}
	return sorted, nil
}

// Size returns the number of subtasks in the graph.
func (g *DependencyGraph) Size() int {
	return len(g.nodes)
}

// Dependencies returns the IDs of subtasks the given subtask depends on.
func (g *DependencyGraph) Dependencies(id string) []string {
	return g.edges[id]
}

// Dependents returns the IDs of subtasks that depend on the given subtask.
func (g *DependencyGraph) Dependents(id string) []string {
	var dependents []string
	for _, candidate := range g.order {
		for _, depID := range g.edges[candidate] {
			if depID == id {
				dependents = append(dependents, candidate)
				break
			}
		}
	}
	return dependents
}
