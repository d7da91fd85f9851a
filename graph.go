package relgraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/soundprediction/relgraph/pkg/types"
)

var (
	// ErrNodeNotFound is returned when an operation names a party absent
	// from the graph.
	ErrNodeNotFound = errors.New("node not found")
	// ErrEmptyGraph is returned when a traversal is requested on a graph
	// with no nodes.
	ErrEmptyGraph = errors.New("graph has no nodes")
)

// edgeKey identifies an undirected edge. Endpoints are stored in sorted
// order so (a, b) and (b, a) resolve to the same key.
type edgeKey struct {
	a, b    string
	relType string
}

func newEdgeKey(source, target, relType string) edgeKey {
	if target < source {
		source, target = target, source
	}
	return edgeKey{a: source, b: target, relType: relType}
}

// Graph is an in-memory undirected multigraph over party identifiers.
// It is built fresh from a record set and is not safe for concurrent
// mutation; all read accessors are safe once construction is done.
type Graph struct {
	nodes map[string]struct{}
	edges map[edgeKey]*types.Edge

	// adj maps node -> neighbor -> multiplicity summed across
	// relationship types. Self-loops appear as adj[n][n].
	adj map[string]map[string]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		edges: make(map[edgeKey]*types.Edge),
		adj:   make(map[string]map[string]int),
	}
}

// BuildGraph constructs a graph from relationship records, one edge per
// record. Records failing validation abort the build.
func BuildGraph(records []types.Record) (*Graph, error) {
	g := NewGraph()
	for i := range records {
		r := &records[i]
		if err := r.Validate(); err != nil {
			line := r.Line
			if line == 0 {
				line = i + 1
			}
			return nil, fmt.Errorf("record at line %d: %w", line, err)
		}
		g.AddEdge(r.PartyID, r.RelatedID, r.RelationshipType)
	}
	return g, nil
}

// AddNode ensures a node exists without adding any edge.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = struct{}{}
	g.adj[id] = make(map[string]int)
}

// AddEdge records one relationship between source and target. Parallel
// edges accumulate multiplicity; source == target forms a self-loop.
func (g *Graph) AddEdge(source, target, relType string) {
	g.AddNode(source)
	g.AddNode(target)

	key := newEdgeKey(source, target, relType)
	if e, ok := g.edges[key]; ok {
		e.Count++
	} else {
		g.edges[key] = &types.Edge{
			Source:           key.a,
			Target:           key.b,
			RelationshipType: relType,
			Count:            1,
		}
	}

	g.adj[source][target]++
	if source != target {
		g.adj[target][source]++
	}
}

// HasNode reports whether a party is present in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of distinct parties.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the multiplicity-weighted number of edges, i.e. the
// number of input records the graph was built from.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, e := range g.edges {
		total += e.Count
	}
	return total
}

// Nodes returns all party identifiers in lexicographic order.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edges returns all distinct edges sorted by (source, target,
// relationship type).
func (g *Graph) Edges() []*types.Edge {
	edges := make([]*types.Edge, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		if edges[i].Target != edges[j].Target {
			return edges[i].Target < edges[j].Target
		}
		return edges[i].RelationshipType < edges[j].RelationshipType
	})
	return edges
}

// Neighbors returns the distinct neighbors of a party in lexicographic
// order. A self-loop makes a node its own neighbor.
func (g *Graph) Neighbors(id string) []string {
	adj, ok := g.adj[id]
	if !ok {
		return nil
	}
	neighbors := make([]string, 0, len(adj))
	for n := range adj {
		neighbors = append(neighbors, n)
	}
	sort.Strings(neighbors)
	return neighbors
}

// Degree returns the multiplicity-weighted degree of a party. Each
// self-loop contributes two, so summed degrees equal twice EdgeCount.
func (g *Graph) Degree(id string) int {
	adj, ok := g.adj[id]
	if !ok {
		return 0
	}
	degree := 0
	for n, count := range adj {
		if n == id {
			degree += 2 * count
		} else {
			degree += count
		}
	}
	return degree
}
