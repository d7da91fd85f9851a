package relgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDegreeCentrality(t *testing.T) {
	t.Run("star graph", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("hub", "A", "")
		g.AddEdge("hub", "B", "")
		g.AddEdge("hub", "C", "")

		centrality := g.DegreeCentrality()
		assert.InDelta(t, 1.0, centrality["hub"], 1e-9)
		assert.InDelta(t, 1.0/3.0, centrality["A"], 1e-9)
		assert.InDelta(t, 1.0/3.0, centrality["B"], 1e-9)
		assert.InDelta(t, 1.0/3.0, centrality["C"], 1e-9)
	})

	t.Run("single node graph maps to zero", func(t *testing.T) {
		g := NewGraph()
		g.AddNode("only")

		centrality := g.DegreeCentrality()
		require.Len(t, centrality, 1)
		assert.Zero(t, centrality["only"])
	})

	t.Run("monotonic with degree", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("A", "B", "")
		g.AddEdge("A", "C", "")
		g.AddEdge("A", "D", "")
		g.AddEdge("B", "C", "")

		centrality := g.DegreeCentrality()
		for _, left := range g.Nodes() {
			for _, right := range g.Nodes() {
				if g.Degree(left) > g.Degree(right) {
					assert.Greater(t, centrality[left], centrality[right])
				}
			}
		}
	})

	t.Run("values bounded for simple graphs", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("A", "B", "")
		g.AddEdge("B", "C", "")
		g.AddNode("D")

		for id, value := range g.DegreeCentrality() {
			assert.GreaterOrEqual(t, value, 0.0, "node %s", id)
			assert.LessOrEqual(t, value, 1.0, "node %s", id)
		}
	})
}

func TestIsolatedNodes(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B", "")
	g.AddNode("lonely")
	g.AddNode("alone")

	assert.Equal(t, []string{"alone", "lonely"}, g.IsolatedNodes())

	// A node is isolated iff its degree is zero iff it is in no edge.
	for _, id := range g.Nodes() {
		isolated := false
		for _, candidate := range g.IsolatedNodes() {
			if candidate == id {
				isolated = true
			}
		}
		assert.Equal(t, g.Degree(id) == 0, isolated, "node %s", id)
	}
}

func TestConnectedComponents(t *testing.T) {
	t.Run("partition of the node set", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("A", "B", "")
		g.AddEdge("B", "C", "")
		g.AddEdge("X", "Y", "")
		g.AddNode("solo")

		components := g.ConnectedComponents()
		require.Len(t, components, 3)
		assert.Equal(t, []string{"A", "B", "C"}, components[0])
		assert.Equal(t, []string{"X", "Y"}, components[1])
		assert.Equal(t, []string{"solo"}, components[2])

		seen := make(map[string]int)
		for _, component := range components {
			for _, id := range component {
				seen[id]++
			}
		}
		for _, id := range g.Nodes() {
			assert.Equal(t, 1, seen[id], "node %s must be in exactly one component", id)
		}
	})

	t.Run("empty graph", func(t *testing.T) {
		assert.Nil(t, NewGraph().ConnectedComponents())
	})

	t.Run("self loop forms its own component", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("A", "A", "")

		components := g.ConnectedComponents()
		require.Len(t, components, 1)
		assert.Equal(t, []string{"A"}, components[0])
	})
}
