package archgraph

import (
	"sort"
	"strings"
)

// Cycle is a nonempty module sequence where each member declares a
// dependency on the next and the last declares one back on the first.
// Members are stored in canonical rotation: the lexically smallest module
// comes first, so the same cycle always renders identically.
type Cycle struct {
	Modules []string
}

// String renders the cycle as "a -> b -> a".
func (c Cycle) String() string {
	return strings.Join(append(append([]string(nil), c.Modules...), c.Modules[0]), " -> ")
}

func (c Cycle) key() string {
	return strings.Join(c.Modules, "\x00")
}

// FindCycles runs a depth-first search over the declared-dependency graph
// with the classic on-stack marking: an edge into a node currently on the
// recursion stack closes a cycle. Every node is eventually visited, so
// disconnected components are covered regardless of iteration entry point.
// Diamonds produce no cycle; a self-declared dependency is a cycle of
// length one. Each distinct cycle is reported once, in canonical rotation,
// ordered by that canonical form.
func FindCycles(g *DependencyGraph) []Cycle {
	const (
		white = 0 // unvisited
		grey  = 1 // on the current stack
		black = 2 // fully explored
	)

	color := make(map[string]int, len(g.Nodes()))
	var stack []string
	seen := make(map[string]struct{})
	var cycles []Cycle

	var visit func(node string)
	visit = func(node string) {
		color[node] = grey
		stack = append(stack, node)

		for _, dep := range g.DependenciesOf(node) {
			switch color[dep] {
			case white:
				visit(dep)
			case grey:
				cycle := canonicalize(extractCycle(stack, dep))
				if _, dup := seen[cycle.key()]; !dup {
					seen[cycle.key()] = struct{}{}
					cycles = append(cycles, cycle)
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[node] = black
	}

	for _, node := range g.Nodes() {
		if color[node] == white {
			visit(node)
		}
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i].key() < cycles[j].key() })
	return cycles
}

// extractCycle returns the stack suffix starting at the first occurrence
// of start: the modules currently being explored that close the loop.
func extractCycle(stack []string, start string) []string {
	for i, node := range stack {
		if node == start {
			return append([]string(nil), stack[i:]...)
		}
	}
	// start must be on the stack when its color is grey
	return []string{start}
}

// canonicalize rotates the cycle so its lexically smallest member comes
// first.
func canonicalize(members []string) Cycle {
	smallest := 0
	for i, m := range members {
		if m < members[smallest] {
			smallest = i
		}
	}
	rotated := make([]string, 0, len(members))
	rotated = append(rotated, members[smallest:]...)
	rotated = append(rotated, members[:smallest]...)
	return Cycle{Modules: rotated}
}
