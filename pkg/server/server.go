// Package server exposes the analysis pipeline and stored runs over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soundprediction/relgraph"
	"github.com/soundprediction/relgraph/pkg/config"
	"github.com/soundprediction/relgraph/pkg/driver"
	"github.com/soundprediction/relgraph/pkg/server/handlers"
	"github.com/soundprediction/relgraph/pkg/store"
	"github.com/soundprediction/relgraph/pkg/types"
)

// Server represents the HTTP server.
type Server struct {
	config *config.Config
	router *gin.Engine
	store  *store.Store
	sink   driver.GraphSink
	logger *slog.Logger
	server *http.Server
}

// New creates a new server instance. The sink may be nil when no graph
// database is configured.
func New(cfg *config.Config, runStore *store.Store, sink driver.GraphSink, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config: cfg,
		store:  runStore,
		sink:   sink,
		logger: logger,
	}
}

// Setup sets up the server routes and middleware.
func (s *Server) Setup() {
	gin.SetMode(s.config.Server.Mode)

	s.router = gin.New()
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.router.Use(requestIDMiddleware())

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

// setupRoutes sets up all the routes.
func (s *Server) setupRoutes() {
	auditCfg := relgraph.AuditConfig{
		MinAge:           s.config.Audit.MinAge,
		MaxAge:           s.config.Audit.MaxAge,
		MaxRelationships: s.config.Audit.MaxRelationships,
	}

	healthHandler := handlers.NewHealthHandler(s.store)
	analyzeHandler := handlers.NewAnalyzeHandler(s.store, s.sink, auditCfg, s.logger)
	runsHandler := handlers.NewRunsHandler(s.store, s.logger)

	// Health endpoints
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)
	s.router.GET("/live", healthHandler.LivenessCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/analyze", analyzeHandler.Analyze)

		runs := v1.Group("/runs")
		{
			runs.GET("", runsHandler.List)
			runs.GET("/:run_id", runsHandler.Get)
			runs.DELETE("/:run_id", runsHandler.Delete)
			runs.GET("/:run_id/centrality", runsHandler.Centrality)
			runs.GET("/:run_id/components", runsHandler.Components)
			runs.GET("/:run_id/clusters", runsHandler.Clusters)
			runs.GET("/:run_id/flags", runsHandler.Flags)
			runs.GET("/:run_id/counts", runsHandler.Counts)
		}
	}
}

// Start starts the server.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds CORS headers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requestIDMiddleware attaches a request id to the request context,
// honoring an X-Request-ID header when the caller supplies one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(c.Request.Context(), types.ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}
