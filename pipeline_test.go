package relgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/relgraph/pkg/types"
)

func TestAnalyze(t *testing.T) {
	records := []types.Record{
		{PartyID: "A", RelatedID: "B", RelationshipType: "spouse", Line: 1},
		{PartyID: "B", RelatedID: "C", RelationshipType: "child", Line: 2},
		{PartyID: "X", RelatedID: "Y", RelationshipType: "guarantor", Line: 3},
		{PartyID: "Z", RelatedID: "Z", RelationshipType: "self", Line: 4},
	}

	result, graph, err := Analyze(context.Background(), records, DefaultAuditConfig())
	require.NoError(t, err)
	require.NotNil(t, graph)

	assert.Equal(t, 6, result.NodeCount)
	assert.Equal(t, 4, result.EdgeCount)
	assert.Len(t, result.Components, 3)
	assert.Len(t, result.Centrality, 6)
	assert.Empty(t, result.Isolated)
	assert.Empty(t, result.BFS)
	assert.NotEmpty(t, result.Counts)
}

func TestAnalyzeFrom(t *testing.T) {
	records := []types.Record{
		{PartyID: "A", RelatedID: "B", Line: 1},
		{PartyID: "B", RelatedID: "C", Line: 2},
	}

	result, _, err := AnalyzeFrom(context.Background(), records, DefaultAuditConfig(), "A")
	require.NoError(t, err)
	require.Len(t, result.BFS, 3)
	assert.Equal(t, "A", result.BFS[0].ID)
	assert.Equal(t, 2, result.BFS[2].Depth)

	_, _, err = AnalyzeFrom(context.Background(), records, DefaultAuditConfig(), "missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestAnalyzeRejectsInvalidRecords(t *testing.T) {
	_, _, err := Analyze(context.Background(), []types.Record{{PartyID: "", RelatedID: "B"}}, DefaultAuditConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrEmptyPartyID)
}
