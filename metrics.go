package relgraph

import "sort"

// DegreeCentrality returns each party's degree divided by the number of
// other parties. A single-node graph maps its node to zero. Values stay in
// [0, 1] for simple graphs; edge multiplicity and self-loops can push a
// value above 1, and either way centrality is monotonic with raw degree.
func (g *Graph) DegreeCentrality() map[string]float64 {
	centrality := make(map[string]float64, len(g.nodes))
	n := len(g.nodes)
	if n <= 1 {
		for id := range g.nodes {
			centrality[id] = 0
		}
		return centrality
	}

	denom := float64(n - 1)
	for id := range g.nodes {
		centrality[id] = float64(g.Degree(id)) / denom
	}
	return centrality
}

// IsolatedNodes returns all parties with degree zero, sorted. A party is
// isolated exactly when it participates in no edge.
func (g *Graph) IsolatedNodes() []string {
	var isolated []string
	for id := range g.nodes {
		if len(g.adj[id]) == 0 {
			isolated = append(isolated, id)
		}
	}
	sort.Strings(isolated)
	return isolated
}

// ConnectedComponents partitions the node set into maximal mutually
// reachable groups using breadth-first traversal. Members of each
// component are sorted; components are ordered by size descending, ties
// broken by first member.
func (g *Graph) ConnectedComponents() [][]string {
	visited := make(map[string]bool, len(g.nodes))
	var components [][]string

	for _, start := range g.Nodes() {
		if visited[start] {
			continue
		}

		var component []string
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			component = append(component, current)

			for _, neighbor := range g.Neighbors(current) {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}

		sort.Strings(component)
		components = append(components, component)
	}

	sort.Slice(components, func(i, j int) bool {
		if len(components[i]) != len(components[j]) {
			return len(components[i]) > len(components[j])
		}
		return components[i][0] < components[j][0]
	})
	return components
}
