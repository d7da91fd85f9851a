package logger_test

import (
	"log/slog"

	"github.com/soundprediction/relgraph/pkg/logger"
)

func ExampleNewDefaultLogger() {
	log := logger.NewDefaultLogger(slog.LevelDebug)

	log.Debug("loading relationship records")
	log.Info("graph built", "nodes", 1200, "edges", 3400)
	log.Warn("record dropped", "line", 17, "reason", "unparseable age")
	log.Error("sink unavailable", "error", "connection refused")
}
