package relgraph

import (
	"context"
	"fmt"

	"github.com/soundprediction/relgraph/pkg/types"
	"github.com/soundprediction/relgraph/pkg/utils"
)

// Result is the full output of one analysis run: graph metrics plus audit
// findings, everything the export and storage layers need.
type Result struct {
	NodeCount  int                `json:"node_count"`
	EdgeCount  int                `json:"edge_count"`
	Centrality map[string]float64 `json:"centrality"`
	Components [][]string         `json:"components"`
	Clusters   [][]string         `json:"clusters"`
	Isolated   []string           `json:"isolated"`
	Flags      []types.Flag       `json:"flags"`
	Counts     []PartyCount       `json:"counts"`

	// BFS is populated only when Analyze is given a source party.
	BFS []Visit `json:"bfs,omitempty"`
}

// Analyze runs the complete pipeline over a record set: graph
// construction, metric computation, and auditing. The metric and audit
// stages are independent of each other and run concurrently.
func Analyze(ctx context.Context, records []types.Record, config AuditConfig) (*Result, *Graph, error) {
	graph, err := BuildGraph(records)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build graph: %w", err)
	}

	auditor := NewAuditor(records, config)
	result := &Result{
		NodeCount: graph.NodeCount(),
		EdgeCount: graph.EdgeCount(),
	}

	errs := utils.SemaphoreGather(ctx, 4,
		func() error { result.Centrality = graph.DegreeCentrality(); return nil },
		func() error { result.Components = graph.ConnectedComponents(); return nil },
		func() error { result.Clusters = graph.Clusters(); return nil },
		func() error { result.Isolated = graph.IsolatedNodes(); return nil },
		func() error { result.Flags = auditor.Run(); return nil },
		func() error { result.Counts = auditor.RelationshipCounts(); return nil },
	)
	if err := utils.FirstError(errs); err != nil {
		return nil, nil, fmt.Errorf("analysis failed: %w", err)
	}
	return result, graph, nil
}

// AnalyzeFrom runs Analyze and additionally records the breadth-first
// ordering from the given source party.
func AnalyzeFrom(ctx context.Context, records []types.Record, config AuditConfig, source string) (*Result, *Graph, error) {
	result, graph, err := Analyze(ctx, records, config)
	if err != nil {
		return nil, nil, err
	}

	visits, err := graph.BFS(source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to traverse from %s: %w", source, err)
	}
	result.BFS = visits
	return result, graph, nil
}
