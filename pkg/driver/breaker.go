package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/soundprediction/relgraph"
	"github.com/soundprediction/relgraph/pkg/config"
)

// BreakerSink wraps a GraphSink with circuit breaking so a flapping graph
// database cannot stall analysis runs.
type BreakerSink struct {
	sink GraphSink
	cb   *gobreaker.CircuitBreaker
	name string
}

// NewBreakerSink creates a circuit-breaking wrapper around sink.
func NewBreakerSink(sink GraphSink, cfg config.CircuitBreakerConfig, logger *slog.Logger, name string) *BreakerSink {
	if logger == nil {
		logger = slog.Default()
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				logger.Error("graph sink circuit breaker tripped",
					"name", name, "from", from.String(), "to", to.String())
			}
		},
	}

	return &BreakerSink{
		sink: sink,
		cb:   gobreaker.NewCircuitBreaker(st),
		name: name,
	}
}

// PersistGraph implements GraphSink.
func (b *BreakerSink) PersistGraph(ctx context.Context, g *relgraph.Graph, runID string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.sink.PersistGraph(ctx, g, runID)
	})
	if err != nil {
		return fmt.Errorf("sink %s: %w", b.name, err)
	}
	return nil
}

// ClearRun implements GraphSink.
func (b *BreakerSink) ClearRun(ctx context.Context, runID string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.sink.ClearRun(ctx, runID)
	})
	if err != nil {
		return fmt.Errorf("sink %s: %w", b.name, err)
	}
	return nil
}

// Close implements GraphSink. Close bypasses the breaker so shutdown
// always reaches the underlying sink.
func (b *BreakerSink) Close(ctx context.Context) error {
	return b.sink.Close(ctx)
}
