package relgraph

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/soundprediction/relgraph"
	"github.com/soundprediction/relgraph/pkg/alert"
	"github.com/soundprediction/relgraph/pkg/config"
	"github.com/soundprediction/relgraph/pkg/driver"
	"github.com/soundprediction/relgraph/pkg/export"
	"github.com/soundprediction/relgraph/pkg/ingest"
	"github.com/soundprediction/relgraph/pkg/store"
	"github.com/soundprediction/relgraph/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a relationship file and export the results",
	Long: `Analyze reads party-to-party relationship records from a CSV or
Parquet file, builds the undirected relationship network, computes the
graph metrics and audit flags, and writes the result files (centrality,
components, clusters, flags, relationship counts) to the output
directory.`,
	RunE: runAnalyze,
}

var (
	analyzeInput   string
	analyzeFormat  string
	analyzeOut     string
	analyzeBFSFrom string
	analyzeDOT     bool
	analyzeParquet bool
	analyzeStrict  bool
	analyzeStore   bool
	analyzeNeo4j   bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "input file (CSV or Parquet)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "input format: csv or parquet (default: by extension)")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "output-dir", "o", ".", "output directory for the result files")
	analyzeCmd.Flags().StringVar(&analyzeBFSFrom, "bfs-from", "", "party id to compute a breadth-first ordering from")
	analyzeCmd.Flags().BoolVar(&analyzeDOT, "dot", false, "also write a Graphviz DOT rendering of the network")
	analyzeCmd.Flags().BoolVar(&analyzeParquet, "parquet", false, "also write the centrality table as Parquet")
	analyzeCmd.Flags().BoolVar(&analyzeStrict, "strict", false, "fail on unparseable age or date values instead of dropping them")
	analyzeCmd.Flags().BoolVar(&analyzeStore, "store", false, "save the run snapshot to the local run store")
	analyzeCmd.Flags().BoolVar(&analyzeNeo4j, "neo4j", false, "persist the graph to the configured Neo4j instance")

	analyzeCmd.Flags().Int("min-age", 0, "minimum plausible age")
	analyzeCmd.Flags().Int("max-age", 120, "maximum plausible age")
	analyzeCmd.Flags().Int("max-relationships", 10, "relationship count above which a party is flagged")

	analyzeCmd.MarkFlagRequired("input")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideAuditWithFlags(cmd, cfg)

	log := newLogger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	records, err := loadRecords(analyzeInput, analyzeFormat, analyzeStrict, log)
	if err != nil {
		return err
	}
	log.Info("records loaded", "file", analyzeInput, "count", len(records))

	auditCfg := relgraph.AuditConfig{
		MinAge:           cfg.Audit.MinAge,
		MaxAge:           cfg.Audit.MaxAge,
		MaxRelationships: cfg.Audit.MaxRelationships,
	}

	var (
		result *relgraph.Result
		graph  *relgraph.Graph
	)
	if analyzeBFSFrom != "" {
		result, graph, err = relgraph.AnalyzeFrom(ctx, records, auditCfg, analyzeBFSFrom)
	} else {
		result, graph, err = relgraph.Analyze(ctx, records, auditCfg)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	log.Info("analysis complete",
		"nodes", result.NodeCount,
		"edges", result.EdgeCount,
		"components", len(result.Components),
		"clusters", len(result.Clusters),
		"isolated", len(result.Isolated),
		"flags", len(result.Flags))
	for _, flag := range result.Flags {
		log.Warn("record flagged",
			"rule", string(flag.Rule), "line", flag.Line, "party_id", flag.PartyID, "detail", flag.Detail)
	}

	if len(result.Flags) > 0 {
		subject, message := alert.Summarize(analyzeInput, result.Flags)
		if err := alert.New(cfg.Alert).Alert(subject, message); err != nil {
			log.Error("failed to send alert", "error", err)
		}
	}

	if err := export.WriteAll(analyzeOut, result, graph, analyzeDOT); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if analyzeParquet {
		path := filepath.Join(analyzeOut, export.CentralityParquetFile)
		if err := export.WriteCentralityParquet(path, result.Centrality); err != nil {
			return err
		}
	}
	log.Info("results written", "dir", analyzeOut)

	runID := ""
	if analyzeStore {
		runID, err = saveSnapshot(ctx, cfg, result, analyzeInput)
		if err != nil {
			return err
		}
		log.Info("run saved", "run_id", runID)
	}

	if analyzeNeo4j {
		if runID == "" {
			runID = uuid.New().String()
		}
		if err := persistGraph(ctx, cfg, graph, runID, log); err != nil {
			return err
		}
		log.Info("graph persisted", "uri", cfg.Neo4j.URI)
	}
	return nil
}

func overrideAuditWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("min-age") {
		cfg.Audit.MinAge, _ = cmd.Flags().GetInt("min-age")
	}
	if cmd.Flags().Changed("max-age") {
		cfg.Audit.MaxAge, _ = cmd.Flags().GetInt("max-age")
	}
	if cmd.Flags().Changed("max-relationships") {
		cfg.Audit.MaxRelationships, _ = cmd.Flags().GetInt("max-relationships")
	}
}

// loadRecords reads records from path. An empty format is inferred from
// the file extension, defaulting to CSV.
func loadRecords(path, format string, strict bool, log *slog.Logger) ([]types.Record, error) {
	if format == "" {
		if strings.EqualFold(filepath.Ext(path), ".parquet") {
			format = "parquet"
		} else {
			format = "csv"
		}
	}

	switch format {
	case "csv":
		records, err := ingest.ReadCSVFile(path, ingest.Options{Strict: strict, Logger: log})
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return records, nil
	case "parquet":
		records, err := ingest.ReadParquetFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

func saveSnapshot(ctx context.Context, cfg *config.Config, result *relgraph.Result, source string) (string, error) {
	runStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		return "", err
	}
	defer runStore.Close()

	runID, err := runStore.Save(ctx, store.SnapshotFromResult(result, source))
	if err != nil {
		return "", err
	}
	return runID, nil
}

func persistGraph(ctx context.Context, cfg *config.Config, graph *relgraph.Graph, runID string, log *slog.Logger) error {
	if cfg.Neo4j.URI == "" {
		return fmt.Errorf("neo4j URI is not configured")
	}

	neoSink, err := driver.NewNeo4jSink(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	var sink driver.GraphSink = neoSink
	if cfg.CircuitBreaker.Enabled {
		sink = driver.NewBreakerSink(neoSink, cfg.CircuitBreaker, log, "neo4j")
	}
	defer sink.Close(ctx)

	if err := sink.PersistGraph(ctx, graph, runID); err != nil {
		return fmt.Errorf("failed to persist graph: %w", err)
	}
	return nil
}
