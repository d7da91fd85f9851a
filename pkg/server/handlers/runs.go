package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/relgraph/pkg/server/dto"
	"github.com/soundprediction/relgraph/pkg/store"
	"github.com/soundprediction/relgraph/pkg/types"
)

// RunsHandler serves stored analysis runs.
type RunsHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(s *store.Store, logger *slog.Logger) *RunsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunsHandler{store: s, logger: logger}
}

// List handles GET /api/v1/runs.
func (h *RunsHandler) List(c *gin.Context) {
	snapshots, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "store_failed", Message: err.Error()})
		return
	}

	summaries := make([]dto.RunSummary, 0, len(snapshots))
	for _, s := range snapshots {
		summaries = append(summaries, dto.RunSummary{
			RunID:     s.RunID,
			CreatedAt: s.CreatedAt,
			Source:    s.Source,
			NodeCount: s.NodeCount,
			EdgeCount: s.EdgeCount,
			Flags:     len(s.Flags),
		})
	}
	c.JSON(http.StatusOK, gin.H{"runs": summaries})
}

// Get handles GET /api/v1/runs/:run_id.
func (h *RunsHandler) Get(c *gin.Context) {
	snapshot, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Delete handles DELETE /api/v1/runs/:run_id.
func (h *RunsHandler) Delete(c *gin.Context) {
	runID := c.Param("run_id")
	if err := h.store.Delete(c.Request.Context(), runID); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "store_failed", Message: err.Error()})
		return
	}
	h.logger.Info("run deleted", "run_id", runID)
	c.Status(http.StatusNoContent)
}

// Centrality handles GET /api/v1/runs/:run_id/centrality. Entries are
// sorted by descending score, ties broken by party id.
func (h *RunsHandler) Centrality(c *gin.Context) {
	snapshot, ok := h.load(c)
	if !ok {
		return
	}

	entries := make([]dto.CentralityEntry, 0, len(snapshot.Centrality))
	for id, score := range snapshot.Centrality {
		entries = append(entries, dto.CentralityEntry{PartyID: id, Centrality: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Centrality != entries[j].Centrality {
			return entries[i].Centrality > entries[j].Centrality
		}
		return entries[i].PartyID < entries[j].PartyID
	})
	c.JSON(http.StatusOK, gin.H{"run_id": snapshot.RunID, "centrality": entries})
}

// Components handles GET /api/v1/runs/:run_id/components.
func (h *RunsHandler) Components(c *gin.Context) {
	snapshot, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":     snapshot.RunID,
		"components": snapshot.Components,
		"isolated":   snapshot.Isolated,
	})
}

// Clusters handles GET /api/v1/runs/:run_id/clusters.
func (h *RunsHandler) Clusters(c *gin.Context) {
	snapshot, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": snapshot.RunID, "clusters": snapshot.Clusters})
}

// Flags handles GET /api/v1/runs/:run_id/flags.
func (h *RunsHandler) Flags(c *gin.Context) {
	snapshot, ok := h.load(c)
	if !ok {
		return
	}

	grouped := make(map[types.FlagRule][]types.Flag)
	for _, flag := range snapshot.Flags {
		grouped[flag.Rule] = append(grouped[flag.Rule], flag)
	}
	c.JSON(http.StatusOK, dto.FlagsResponse{RunID: snapshot.RunID, Flags: grouped})
}

// Counts handles GET /api/v1/runs/:run_id/counts.
func (h *RunsHandler) Counts(c *gin.Context) {
	snapshot, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.CountsResponse{RunID: snapshot.RunID, Counts: snapshot.Counts})
}

func (h *RunsHandler) load(c *gin.Context) (*store.RunSnapshot, bool) {
	runID := c.Param("run_id")
	snapshot, err := h.store.Load(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: "run_not_found", Message: err.Error()})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "store_failed", Message: err.Error()})
		return nil, false
	}
	return snapshot, true
}
