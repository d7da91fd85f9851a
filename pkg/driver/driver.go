package driver

import (
	"context"

	"github.com/soundprediction/relgraph"
)

// GraphSink persists an analyzed relationship graph to an external graph
// database so runs can be explored with native graph tooling.
type GraphSink interface {
	// PersistGraph writes every node and edge of the graph, tagged with
	// the run id so multiple runs can coexist.
	PersistGraph(ctx context.Context, g *relgraph.Graph, runID string) error

	// ClearRun removes all nodes and edges written for a run.
	ClearRun(ctx context.Context, runID string) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
