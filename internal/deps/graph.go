package deps

import "sort"

// Graph is a directed graph over declaration or unit names; edges point from
// dependent to dependency. Graphs are built fresh per analysis and never
// shared between calls, since names can be renamed or removed between
// revisions. Node and edge order follow insertion order so every traversal
// below is deterministic.
type Graph struct {
	nodes []string
	index map[string]bool
	edges map[string][]string
}

func NewGraph() *Graph {
	return &Graph{index: map[string]bool{}, edges: map[string][]string{}}
}

func (g *Graph) AddNode(name string) {
	if !g.index[name] {
		g.index[name] = true
		g.nodes = append(g.nodes, name)
	}
}

// AddEdge records that from depends on to. Unknown endpoints become nodes;
// an unresolved dependency is kept as an edge to a node nobody declares.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	for _, n := range g.edges[from] {
		if n == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

func (g *Graph) Nodes() []string { return append([]string(nil), g.nodes...) }

func (g *Graph) Neighbors(name string) []string { return g.edges[name] }

// Adjacency returns a copy of the edge map for embedding in reports.
func (g *Graph) Adjacency() map[string][]string {
	out := make(map[string][]string, len(g.edges))
	for n, ns := range g.edges {
		out[n] = append([]string(nil), ns...)
	}
	return out
}

// FindChain walks the dependency edges from root, visiting each node at most
// once, and returns the full transitive chain in root-first order.
func (g *Graph) FindChain(root string) []string {
	var chain []string
	visited := map[string]bool{}
	var walk func(node string)
	walk = func(node string) {
		if visited[node] {
			return
		}
		visited[node] = true
		chain = append(chain, node)
		for _, next := range g.edges[node] {
			walk(next)
		}
	}
	walk(root)
	return chain
}

// DetectCycles finds every cycle reachable from an unvisited root. Each cycle
// is reported as the path slice from the re-entered node to the current one,
// with the re-entered node appended again. A cyclic graph is still usable by
// callers; cycles are findings, not failures.
func (g *Graph) DetectCycles() [][]string {
	var cycles [][]string
	visited := map[string]bool{}
	onStack := map[string]bool{}
	var path []string

	var walk func(node string)
	walk = func(node string) {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, next := range g.edges[node] {
			if !visited[next] {
				walk(next)
			} else if onStack[next] {
				start := 0
				for i, n := range path {
					if n == next {
						start = i
						break
					}
				}
				cycle := append([]string(nil), path[start:]...)
				cycles = append(cycles, append(cycle, next))
			}
		}

		onStack[node] = false
		path = path[:len(path)-1]
	}

	for _, node := range g.nodes {
		if !visited[node] {
			walk(node)
		}
	}
	return cycles
}

// TopologicalOrder returns the nodes dependency-first: for every edge u→v,
// v precedes u. Kahn's algorithm over dependency counts; nodes stuck in a
// cycle are appended afterward in input order instead of failing, because
// cycles surface as findings elsewhere.
func (g *Graph) TopologicalOrder() []string {
	remaining := make(map[string]int, len(g.nodes))
	dependents := map[string][]string{}
	for _, n := range g.nodes {
		remaining[n] = len(g.edges[n])
	}
	for _, n := range g.nodes {
		for _, dep := range g.edges[n] {
			dependents[dep] = append(dependents[dep], n)
		}
	}

	var queue []string
	for _, n := range g.nodes {
		if remaining[n] == 0 {
			queue = append(queue, n)
		}
	}

	placed := make(map[string]bool, len(g.nodes))
	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		placed[n] = true
		for _, d := range dependents[n] {
			remaining[d]--
			if remaining[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	for _, n := range g.nodes {
		if !placed[n] {
			order = append(order, n)
		}
	}
	return order
}

// MissingDependencies lists nodes referenced as a dependency that no edge
// source ever declares, sorted for stable output.
func MissingDependencies(g *Graph, declared map[string]bool) []string {
	var missing []string
	seen := map[string]bool{}
	for _, n := range g.nodes {
		for _, dep := range g.edges[n] {
			if !declared[dep] && !seen[dep] {
				seen[dep] = true
				missing = append(missing, dep)
			}
		}
	}
	sort.Strings(missing)
	return missing
}
