package relgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusters(t *testing.T) {
	t.Run("two bridged triangles split apart", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("A", "B", "")
		g.AddEdge("B", "C", "")
		g.AddEdge("C", "A", "")
		g.AddEdge("X", "Y", "")
		g.AddEdge("Y", "Z", "")
		g.AddEdge("Z", "X", "")
		g.AddEdge("C", "X", "")

		clusters := g.Clusters()
		require.Len(t, clusters, 2)
		assert.ElementsMatch(t, []string{"A", "B", "C"}, clusters[0])
		assert.ElementsMatch(t, []string{"X", "Y", "Z"}, clusters[1])
	})

	t.Run("clusters partition the node set", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("A", "B", "")
		g.AddEdge("B", "C", "")
		g.AddNode("solo")

		seen := make(map[string]int)
		for _, cluster := range g.Clusters() {
			for _, id := range cluster {
				seen[id]++
			}
		}
		for _, id := range g.Nodes() {
			assert.Equal(t, 1, seen[id], "node %s must be in exactly one cluster", id)
		}
	})

	t.Run("isolated node forms singleton cluster", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("A", "B", "")
		g.AddNode("solo")

		clusters := g.Clusters()
		require.Len(t, clusters, 2)
		assert.Equal(t, []string{"solo"}, clusters[1])
	})

	t.Run("empty graph", func(t *testing.T) {
		assert.Nil(t, NewGraph().Clusters())
	})

	t.Run("deterministic across invocations", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("A", "B", "")
		g.AddEdge("B", "C", "")
		g.AddEdge("C", "D", "")
		g.AddEdge("D", "A", "")

		first := g.Clusters()
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, g.Clusters())
		}
	})
}
