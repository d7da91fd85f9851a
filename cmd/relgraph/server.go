package relgraph

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/relgraph/pkg/config"
	"github.com/soundprediction/relgraph/pkg/driver"
	"github.com/soundprediction/relgraph/pkg/logger"
	"github.com/soundprediction/relgraph/pkg/server"
	"github.com/soundprediction/relgraph/pkg/store"
	"github.com/soundprediction/relgraph/pkg/telemetry"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the relgraph HTTP server",
	Long: `Start the relgraph HTTP server to provide REST API access to the
analysis pipeline.

The server provides endpoints for:
- Analyzing uploaded relationship records
- Listing, inspecting, and deleting saved runs
- Per-run centrality, components, clusters, flags, and counts
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Store and sink flags
	serverCmd.Flags().String("store-path", "", "Run store directory")
	serverCmd.Flags().String("neo4j-uri", "", "Neo4j URI (enables the graph sink)")
	serverCmd.Flags().String("neo4j-username", "", "Neo4j username")
	serverCmd.Flags().String("neo4j-password", "", "Neo4j password")
	serverCmd.Flags().String("neo4j-database", "", "Neo4j database name")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Path to directory for audit event telemetry")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	overrideServerConfigWithFlags(cmd, cfg)

	// Validate configuration
	if err := validateServerConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, flush, err := buildServerLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	// Open the run store
	runStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}
	defer runStore.Close()

	// Connect the graph sink when configured
	sink, err := buildSink(cfg, log)
	if err != nil {
		return err
	}
	if sink != nil {
		defer sink.Close(context.Background())
	}

	// Create and setup server
	srv := server.New(cfg, runStore, sink, log)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Info("received signal", "signal", sig.String())

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Shutdown server
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		log.Info("server stopped gracefully")
		return nil
	}
}

// buildServerLogger builds the server logger, wrapping the color handler
// with the parquet telemetry handler when a telemetry path is configured.
// The returned flush function drains buffered telemetry on shutdown.
func buildServerLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	colorHandler := logger.NewColorHandler(os.Stderr, &slog.HandlerOptions{
		Level: logger.ParseLevel(cfg.Log.Level),
	})

	if cfg.Telemetry.ParquetPath == "" {
		return slog.New(colorHandler), func() {}, nil
	}

	if err := os.MkdirAll(cfg.Telemetry.ParquetPath, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}
	parquetHandler, err := telemetry.NewParquetHandler(colorHandler, cfg.Telemetry.ParquetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	return slog.New(parquetHandler), func() { parquetHandler.Flush() }, nil
}

// buildSink connects the Neo4j sink, wrapped in a circuit breaker when
// enabled. Returns nil when no sink is configured.
func buildSink(cfg *config.Config, log *slog.Logger) (driver.GraphSink, error) {
	if !cfg.Neo4j.Enabled || cfg.Neo4j.URI == "" {
		return nil, nil
	}

	neoSink, err := driver.NewNeo4jSink(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}
	log.Info("graph sink connected", "uri", cfg.Neo4j.URI)

	if cfg.CircuitBreaker.Enabled {
		return driver.NewBreakerSink(neoSink, cfg.CircuitBreaker, log, "neo4j"), nil
	}
	return neoSink, nil
}

func overrideServerConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Store flags
	if cmd.Flags().Changed("store-path") {
		cfg.Store.Path, _ = cmd.Flags().GetString("store-path")
	}

	// Neo4j flags
	if cmd.Flags().Changed("neo4j-uri") {
		cfg.Neo4j.URI, _ = cmd.Flags().GetString("neo4j-uri")
		cfg.Neo4j.Enabled = cfg.Neo4j.URI != ""
	}
	if cmd.Flags().Changed("neo4j-username") {
		cfg.Neo4j.Username, _ = cmd.Flags().GetString("neo4j-username")
	}
	if cmd.Flags().Changed("neo4j-password") {
		cfg.Neo4j.Password, _ = cmd.Flags().GetString("neo4j-password")
	}
	if cmd.Flags().Changed("neo4j-database") {
		cfg.Neo4j.Database, _ = cmd.Flags().GetString("neo4j-database")
	}

	// Telemetry flags
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}

func validateServerConfig(cfg *config.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	if cfg.Audit.MaxAge < cfg.Audit.MinAge {
		return fmt.Errorf("max_age %d is below min_age %d", cfg.Audit.MaxAge, cfg.Audit.MinAge)
	}
	return nil
}
