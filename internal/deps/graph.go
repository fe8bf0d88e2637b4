// Package deps validates the acyclic dependency relation between units at
// configuration load time and derives a topological order of the units.
package deps

import "fmt"

// Graph is a directed graph of unit names to the names they depend on.
type Graph struct {
	nodes map[string][]string
}

// NewGraph creates a new empty dependency graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string][]string)}
}

// AddNode registers a unit and the names of the units it depends on.
func (g *Graph) AddNode(name string, dependsOn []string) {
	g.nodes[name] = dependsOn
}

// Nodes returns all unit names in the graph.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		nodes = append(nodes, name)
	}
	return nodes
}

// Dependencies returns the dependency names of a unit.
func (g *Graph) Dependencies(name string) []string {
	return g.nodes[name]
}

// Validate checks that every dependency name resolves to a known unit and
// that no unit depends on itself.
func (g *Graph) Validate() error {
	for name, deps := range g.nodes {
		for _, dep := range deps {
			if _, exists := g.nodes[dep]; !exists {
				return fmt.Errorf("unit %q depends on non-existent unit %q", name, dep)
			}
			if dep == name {
				return fmt.Errorf("unit %q has a self-dependency", name)
			}
		}
	}
	return nil
}

// HasCycle reports whether the graph contains a cycle, and if so, one
// path through it, via depth-first search.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	parent := make(map[string]string)

	for node := range g.nodes {
		if !visited[node] {
			if cycle, path := g.hasCycleDFS(node, visited, recStack, parent); cycle {
				return true, path
			}
		}
	}
	return false, nil
}

func (g *Graph) hasCycleDFS(node string, visited, recStack map[string]bool, parent map[string]string) (bool, []string) {
	visited[node] = true
	recStack[node] = true

	for _, dep := range g.nodes[node] {
		if !visited[dep] {
			parent[dep] = node
			if cycle, path := g.hasCycleDFS(dep, visited, recStack, parent); cycle {
				return true, path
			}
		} else if recStack[dep] {
			cycle := []string{dep}
			current := node
			for current != dep {
				cycle = append([]string{current}, cycle...)
				current = parent[current]
			}
			cycle = append([]string{dep}, cycle...)
			return true, cycle
		}
	}

	recStack[node] = false
	return false, nil
}

// TopologicalSort returns an order where every unit appears after
// everything it depends on, using Kahn's algorithm with alphabetical
// tie-breaking for determinism. The result does not depend on declaration
// order. The manager is not built from it: units are constructed in
// declaration order, which must list every dependency before its
// dependents.
func (g *Graph) TopologicalSort() ([]string, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if hasCycle, cycle := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("circular dependency detected: %v", cycle)
	}

	inDegree := make(map[string]int)
	for node, deps := range g.nodes {
		inDegree[node] = len(deps)
	}

	queue := make([]string, 0)
	for node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}
	sortAlphabetically(queue)

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for dependent, deps := range g.nodes {
			if contains(deps, node) {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					queue = append(queue, dependent)
					sortAlphabetically(queue)
				}
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, fmt.Errorf("graph contains cycle (incomplete topological sort)")
	}
	return result, nil
}

func sortAlphabetically(nodes []string) {
	for i := 1; i < len(nodes); i++ {
		key := nodes[i]
		j := i - 1
		for j >= 0 && nodes[j] > key {
			nodes[j+1] = nodes[j]
			j--
		}
		nodes[j+1] = key
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
