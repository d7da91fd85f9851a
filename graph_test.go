package relgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/relgraph/pkg/types"
)

func recordsFromPairs(pairs [][2]string) []types.Record {
	records := make([]types.Record, len(pairs))
	for i, p := range pairs {
		records[i] = types.Record{PartyID: p[0], RelatedID: p[1], Line: i + 1}
	}
	return records
}

func TestBuildGraph(t *testing.T) {
	t.Run("one edge per record", func(t *testing.T) {
		g, err := BuildGraph(recordsFromPairs([][2]string{
			{"A", "B"},
			{"B", "C"},
			{"C", "A"},
		}))
		require.NoError(t, err)

		assert.Equal(t, 3, g.NodeCount())
		assert.Equal(t, 3, g.EdgeCount())
		assert.Equal(t, []string{"A", "B", "C"}, g.Nodes())
	})

	t.Run("duplicate records accumulate multiplicity", func(t *testing.T) {
		g, err := BuildGraph(recordsFromPairs([][2]string{
			{"A", "B"},
			{"A", "B"},
			{"B", "A"},
		}))
		require.NoError(t, err)

		assert.Equal(t, 2, g.NodeCount())
		assert.Equal(t, 3, g.EdgeCount())

		edges := g.Edges()
		require.Len(t, edges, 1)
		assert.Equal(t, 3, edges[0].Count)
		assert.Equal(t, 3, g.Degree("A"))
		assert.Equal(t, 3, g.Degree("B"))
	})

	t.Run("distinct relationship types stay distinct edges", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("A", "B", "spouse")
		g.AddEdge("A", "B", "guarantor")

		edges := g.Edges()
		require.Len(t, edges, 2)
		assert.Equal(t, 2, g.EdgeCount())
		assert.Equal(t, []string{"B"}, g.Neighbors("A"))
	})

	t.Run("self loop counts twice toward degree", func(t *testing.T) {
		g, err := BuildGraph(recordsFromPairs([][2]string{
			{"A", "A"},
			{"A", "B"},
		}))
		require.NoError(t, err)

		assert.Equal(t, 2, g.EdgeCount())
		assert.Equal(t, 3, g.Degree("A"))
		assert.Equal(t, []string{"A", "B"}, g.Neighbors("A"))
	})

	t.Run("invalid record aborts build", func(t *testing.T) {
		_, err := BuildGraph([]types.Record{
			{PartyID: "A", RelatedID: "B", Line: 1},
			{PartyID: "", RelatedID: "C", Line: 2},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrEmptyPartyID)
		assert.Contains(t, err.Error(), "line 2")
	})
}

func TestDegreeSumEqualsTwiceEdgeCount(t *testing.T) {
	cases := [][][2]string{
		{{"A", "B"}},
		{{"A", "B"}, {"B", "C"}, {"C", "A"}},
		{{"A", "A"}},
		{{"A", "B"}, {"A", "B"}, {"C", "C"}, {"D", "E"}},
	}

	for _, pairs := range cases {
		g, err := BuildGraph(recordsFromPairs(pairs))
		require.NoError(t, err)

		sum := 0
		for _, id := range g.Nodes() {
			sum += g.Degree(id)
		}
		assert.Equal(t, 2*g.EdgeCount(), sum, "records %v", pairs)
	}
}

func TestGraphAccessorsOnUnknownNode(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B", "")

	assert.False(t, g.HasNode("Z"))
	assert.Equal(t, 0, g.Degree("Z"))
	assert.Nil(t, g.Neighbors("Z"))
}
