package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/relgraph"
	"github.com/soundprediction/relgraph/pkg/driver"
	"github.com/soundprediction/relgraph/pkg/server/dto"
	"github.com/soundprediction/relgraph/pkg/store"
	"github.com/soundprediction/relgraph/pkg/types"
)

// AnalyzeHandler runs the analysis pipeline for uploaded records.
type AnalyzeHandler struct {
	store  *store.Store
	sink   driver.GraphSink
	audit  relgraph.AuditConfig
	logger *slog.Logger
}

// NewAnalyzeHandler creates a new analyze handler. The sink may be nil
// when no graph database is configured.
func NewAnalyzeHandler(s *store.Store, sink driver.GraphSink, audit relgraph.AuditConfig, logger *slog.Logger) *AnalyzeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeHandler{store: s, sink: sink, audit: audit, logger: logger}
}

// Analyze handles POST /api/v1/analyze.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_request", Message: err.Error()})
		return
	}
	if len(req.Records) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_request", Message: "records field is required and cannot be empty"})
		return
	}

	var (
		result *relgraph.Result
		graph  *relgraph.Graph
		err    error
	)
	if req.BFSFrom != "" {
		result, graph, err = relgraph.AnalyzeFrom(c.Request.Context(), req.Records, h.audit, req.BFSFrom)
	} else {
		result, graph, err = relgraph.Analyze(c.Request.Context(), req.Records, h.audit)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Code: "analysis_failed", Message: err.Error()})
		return
	}

	source := req.Source
	if source == "" {
		source = "api"
	}
	snapshot := store.SnapshotFromResult(result, source)
	runID, err := h.store.Save(c.Request.Context(), snapshot)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "store_failed", Message: err.Error()})
		return
	}

	ctx := context.WithValue(c.Request.Context(), types.ContextKeyRunID, runID)
	h.logger.InfoContext(ctx, "analysis run completed",
		"run_id", runID,
		"nodes", result.NodeCount,
		"edges", result.EdgeCount,
		"flags", len(result.Flags))
	for _, flag := range result.Flags {
		h.logger.WarnContext(ctx, "record flagged",
			"rule", string(flag.Rule), "line", flag.Line, "party_id", flag.PartyID)
	}

	if req.Persist && h.sink != nil {
		if err := h.sink.PersistGraph(ctx, graph, runID); err != nil {
			// The run itself succeeded; report the sink failure without
			// discarding the stored snapshot.
			h.logger.ErrorContext(ctx, "failed to persist graph", "run_id", runID, "error", err)
			c.JSON(http.StatusAccepted, dto.AnalyzeResponse{
				RunID:      runID,
				CreatedAt:  snapshot.CreatedAt,
				NodeCount:  result.NodeCount,
				EdgeCount:  result.EdgeCount,
				Components: len(result.Components),
				Clusters:   len(result.Clusters),
				Isolated:   len(result.Isolated),
				Flags:      len(result.Flags),
			})
			return
		}
	}

	c.JSON(http.StatusOK, dto.AnalyzeResponse{
		RunID:      runID,
		CreatedAt:  snapshot.CreatedAt,
		NodeCount:  result.NodeCount,
		EdgeCount:  result.EdgeCount,
		Components: len(result.Components),
		Clusters:   len(result.Clusters),
		Isolated:   len(result.Isolated),
		Flags:      len(result.Flags),
	})
}
