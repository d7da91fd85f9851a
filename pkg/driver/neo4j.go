package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/soundprediction/relgraph"
)

// Neo4jSink implements GraphSink for Neo4j databases.
type Neo4jSink struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jSink creates a new Neo4j sink instance.
func NewNeo4jSink(uri, username, password, database string) (*Neo4jSink, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jSink{
		client:   client,
		database: database,
	}, nil
}

// PersistGraph writes every party and relationship of the graph, tagged
// with the run id. Nodes are merged so re-persisting a run is idempotent.
func (s *Neo4jSink) PersistGraph(ctx context.Context, g *relgraph.Graph, runID string) error {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, id := range g.Nodes() {
			query := `
				MERGE (p:Party {id: $id, run_id: $run_id})
				SET p.degree = $degree
			`
			if _, err := tx.Run(ctx, query, map[string]any{
				"id":     id,
				"run_id": runID,
				"degree": g.Degree(id),
			}); err != nil {
				return nil, fmt.Errorf("failed to persist party %s: %w", id, err)
			}
		}

		for _, e := range g.Edges() {
			query := `
				MATCH (a:Party {id: $source, run_id: $run_id})
				MATCH (b:Party {id: $target, run_id: $run_id})
				MERGE (a)-[r:RELATED_TO {type: $type, run_id: $run_id}]->(b)
				SET r.count = $count
			`
			if _, err := tx.Run(ctx, query, map[string]any{
				"source": e.Source,
				"target": e.Target,
				"type":   e.RelationshipType,
				"count":  e.Count,
				"run_id": runID,
			}); err != nil {
				return nil, fmt.Errorf("failed to persist edge %s-%s: %w", e.Source, e.Target, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist graph for run %s: %w", runID, err)
	}
	return nil
}

// ClearRun removes everything written for a run.
func (s *Neo4jSink) ClearRun(ctx context.Context, runID string) error {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (p:Party {run_id: $run_id})
			DETACH DELETE p
		`
		return tx.Run(ctx, query, map[string]any{"run_id": runID})
	})
	if err != nil {
		return fmt.Errorf("failed to clear run %s: %w", runID, err)
	}
	return nil
}

// Close closes the underlying driver.
func (s *Neo4jSink) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}
