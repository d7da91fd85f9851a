// Package dto defines the request and response bodies of the HTTP API.
package dto

import (
	"time"

	"github.com/soundprediction/relgraph"
	"github.com/soundprediction/relgraph/pkg/types"
)

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	// Records are the relationship rows to analyze.
	Records []types.Record `json:"records" binding:"required"`
	// Source is an optional label describing where the records came from.
	Source string `json:"source,omitempty"`
	// BFSFrom optionally requests a breadth-first ordering from a party.
	BFSFrom string `json:"bfs_from,omitempty"`
	// Persist writes the graph to the configured sink when true.
	Persist bool `json:"persist,omitempty"`
}

// AnalyzeResponse summarizes a completed run.
type AnalyzeResponse struct {
	RunID      string    `json:"run_id"`
	CreatedAt  time.Time `json:"created_at"`
	NodeCount  int       `json:"node_count"`
	EdgeCount  int       `json:"edge_count"`
	Components int       `json:"components"`
	Clusters   int       `json:"clusters"`
	Isolated   int       `json:"isolated"`
	Flags      int       `json:"flags"`
}

// RunSummary is one entry of GET /api/v1/runs.
type RunSummary struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source,omitempty"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	Flags     int       `json:"flags"`
}

// CentralityEntry is one row of GET /api/v1/runs/:run_id/centrality.
type CentralityEntry struct {
	PartyID    string  `json:"party_id"`
	Centrality float64 `json:"degree_centrality"`
}

// FlagsResponse groups a run's audit findings by rule.
type FlagsResponse struct {
	RunID string                          `json:"run_id"`
	Flags map[types.FlagRule][]types.Flag `json:"flags"`
}

// CountsResponse carries a run's per-party relationship counts.
type CountsResponse struct {
	RunID  string                `json:"run_id"`
	Counts []relgraph.PartyCount `json:"counts"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
