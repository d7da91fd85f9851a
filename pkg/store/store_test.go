package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/relgraph"
	"github.com/soundprediction/relgraph/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save assigns run id and created at", func(t *testing.T) {
		s := openTestStore(t)

		snapshot := &RunSnapshot{NodeCount: 3, EdgeCount: 2}
		runID, err := s.Save(ctx, snapshot)
		require.NoError(t, err)
		assert.NotEmpty(t, runID)
		assert.Equal(t, runID, snapshot.RunID)
		assert.False(t, snapshot.CreatedAt.IsZero())
	})

	t.Run("save and load round trip", func(t *testing.T) {
		s := openTestStore(t)

		snapshot := &RunSnapshot{
			Source:     "relationships.csv",
			NodeCount:  2,
			EdgeCount:  1,
			Centrality: map[string]float64{"A": 1, "B": 1},
			Components: [][]string{{"A", "B"}},
			Flags: []types.Flag{
				{Rule: types.FlagAgeOutOfRange, Line: 4, PartyID: "A"},
			},
			Counts: []relgraph.PartyCount{{PartyID: "A", Count: 1}},
		}
		runID, err := s.Save(ctx, snapshot)
		require.NoError(t, err)

		loaded, err := s.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, snapshot.Source, loaded.Source)
		assert.Equal(t, snapshot.Centrality, loaded.Centrality)
		assert.Equal(t, snapshot.Components, loaded.Components)
		require.Len(t, loaded.Flags, 1)
		assert.Equal(t, types.FlagAgeOutOfRange, loaded.Flags[0].Rule)
	})

	t.Run("load unknown run", func(t *testing.T) {
		s := openTestStore(t)

		_, err := s.Load(ctx, "no-such-run")
		assert.ErrorIs(t, err, ErrRunNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		s := openTestStore(t)

		old := &RunSnapshot{RunID: "old", CreatedAt: time.Now().Add(-time.Hour)}
		recent := &RunSnapshot{RunID: "recent", CreatedAt: time.Now()}
		_, err := s.Save(ctx, old)
		require.NoError(t, err)
		_, err = s.Save(ctx, recent)
		require.NoError(t, err)

		snapshots, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, snapshots, 2)
		assert.Equal(t, "recent", snapshots[0].RunID)
		assert.Equal(t, "old", snapshots[1].RunID)
	})

	t.Run("delete", func(t *testing.T) {
		s := openTestStore(t)

		runID, err := s.Save(ctx, &RunSnapshot{})
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, runID))

		_, err = s.Load(ctx, runID)
		assert.ErrorIs(t, err, ErrRunNotFound)

		// Deleting again is not an error.
		assert.NoError(t, s.Delete(ctx, runID))
	})
}

func TestSnapshotFromResult(t *testing.T) {
	records := []types.Record{
		{PartyID: "A", RelatedID: "B", Line: 1},
	}
	result, _, err := relgraph.Analyze(context.Background(), records, relgraph.DefaultAuditConfig())
	require.NoError(t, err)

	snapshot := SnapshotFromResult(result, "test.csv")
	assert.Equal(t, "test.csv", snapshot.Source)
	assert.Equal(t, result.NodeCount, snapshot.NodeCount)
	assert.Equal(t, result.Centrality, snapshot.Centrality)
	assert.Empty(t, snapshot.RunID, "run id is assigned by Save")
}
