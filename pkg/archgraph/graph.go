package archgraph

import "sort"

// DependencyGraph is the module-level declared-dependency relation.
// Nodes are internal module names only; declared dependencies on external
// modules are not edges. Built once, read-only thereafter.
type DependencyGraph struct {
	nodes []string            // sorted
	edges map[string][]string // node -> sorted dependency names
}

func buildDependencyGraph(modules []*Module, byName map[string]*Module) *DependencyGraph {
	g := &DependencyGraph{edges: make(map[string][]string)}
	for _, mod := range modules {
		g.nodes = append(g.nodes, mod.Name)
		var deps []string
		for dep := range mod.DeclaredDependencies {
			if _, internal := byName[dep]; internal {
				deps = append(deps, dep)
			}
		}
		sort.Strings(deps)
		g.edges[mod.Name] = deps
	}
	sort.Strings(g.nodes)
	return g
}

// NewDependencyGraph builds a graph from an explicit adjacency list.
// Rules are unit-tested against hand-built graphs through this constructor.
func NewDependencyGraph(adjacency map[string][]string) *DependencyGraph {
	g := &DependencyGraph{edges: make(map[string][]string, len(adjacency))}
	for node, deps := range adjacency {
		g.nodes = append(g.nodes, node)
		sorted := append([]string(nil), deps...)
		sort.Strings(sorted)
		g.edges[node] = sorted
	}
	sort.Strings(g.nodes)
	return g
}

// Nodes returns all module names in the graph, sorted.
func (g *DependencyGraph) Nodes() []string {
	return g.nodes
}

// DependenciesOf returns the internal modules the named module declares a
// dependency on, sorted.
func (g *DependencyGraph) DependenciesOf(name string) []string {
	return g.edges[name]
}
