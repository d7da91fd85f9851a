package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/relgraph"
	"github.com/soundprediction/relgraph/pkg/types"
)

func testGraph(t *testing.T) (*relgraph.Result, *relgraph.Graph) {
	t.Helper()
	records := []types.Record{
		{PartyID: "A", RelatedID: "B", RelationshipType: "spouse", Line: 1},
		{PartyID: "A", RelatedID: "C", RelationshipType: "child", Line: 2},
		{PartyID: "A", RelatedID: "C", RelationshipType: "child", Line: 3},
		{PartyID: "X", RelatedID: "Y", Line: 4},
	}
	result, graph, err := relgraph.Analyze(context.Background(), records, relgraph.DefaultAuditConfig())
	require.NoError(t, err)
	return result, graph
}

func TestWriteCentralityCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCentralityCSV(&buf, map[string]float64{
		"A": 0.75, "B": 0.25, "C": 0.5,
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "party_id,degree_centrality", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "A,0.75"))
	assert.True(t, strings.HasPrefix(lines[2], "C,0.5"))
	assert.True(t, strings.HasPrefix(lines[3], "B,0.25"))
}

func TestWriteClustersCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteClustersCSV(&buf, [][]string{
		{"A", "B"},
		{"C"},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"cluster_id,party_id",
		"0,A",
		"0,B",
		"1,C",
	}, lines)
}

func TestWriteFlagsCSV(t *testing.T) {
	var buf bytes.Buffer
	flags := []types.Flag{
		{Rule: types.FlagAgeOutOfRange, Line: 3, PartyID: "P1", Detail: "party age 150 outside [0, 120]"},
	}
	require.NoError(t, WriteFlagsCSV(&buf, flags))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "rule,line,party_id,detail", lines[0])
	assert.Contains(t, lines[1], "age_out_of_range,3,P1")
}

func TestWriteDOT(t *testing.T) {
	_, graph := testGraph(t)

	var buf bytes.Buffer
	require.NoError(t, WriteDOT(&buf, graph, DOTOptions{Name: "audit", LabelEdges: true}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `graph "audit" {`))
	assert.Contains(t, out, `"A" -- "B"`)
	assert.Contains(t, out, `label="spouse"`)
	assert.Contains(t, out, "penwidth=2")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "}"))

	// Deterministic output.
	var again bytes.Buffer
	require.NoError(t, WriteDOT(&again, graph, DOTOptions{Name: "audit", LabelEdges: true}))
	assert.Equal(t, out, again.String())
}

func TestWriteAll(t *testing.T) {
	result, graph := testGraph(t)
	dir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, WriteAll(dir, result, graph, true))

	for _, name := range []string{
		CentralityFile, ClustersFile, ComponentsFile,
		AgeFlagsFile, DeceasedPrimaryFile, DeceasedRelatedFile,
		CountsFile, DOTFile,
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.False(t, info.IsDir())
	}

	// No BFS requested, so no bfs.csv.
	_, err := os.Stat(filepath.Join(dir, BFSFile))
	assert.True(t, os.IsNotExist(err))
}
