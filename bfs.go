package relgraph

import "fmt"

// Visit is one step of a breadth-first traversal: the party reached, its
// layer (shortest-path distance from the source), and the neighbor it was
// discovered through. The source has depth 0 and no parent.
type Visit struct {
	ID     string `json:"id"`
	Depth  int    `json:"depth"`
	Parent string `json:"parent,omitempty"`
}

// BFS performs a breadth-first traversal from the given party and returns
// the visit order. Neighbors are expanded in lexicographic order, so the
// ordering is deterministic for a given graph. Each reachable party
// appears exactly once, at its shortest-path depth.
func (g *Graph) BFS(source string) ([]Visit, error) {
	if len(g.nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	if !g.HasNode(source) {
		return nil, fmt.Errorf("bfs from %q: %w", source, ErrNodeNotFound)
	}

	visited := map[string]bool{source: true}
	order := []Visit{{ID: source, Depth: 0}}
	queue := []Visit{order[0]}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighbor := range g.Neighbors(current.ID) {
			if visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			visit := Visit{ID: neighbor, Depth: current.Depth + 1, Parent: current.ID}
			order = append(order, visit)
			queue = append(queue, visit)
		}
	}

	return order, nil
}
