package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/soundprediction/relgraph"
	"github.com/soundprediction/relgraph/pkg/types"
)

// ErrRunNotFound is returned when no snapshot exists for a run id.
var ErrRunNotFound = errors.New("run not found")

const runKeyPrefix = "run/"

// RunSnapshot is the persisted output of one analysis run.
type RunSnapshot struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	// Source describes where the records came from (file path or "api").
	Source string `json:"source,omitempty"`

	NodeCount  int                   `json:"node_count"`
	EdgeCount  int                   `json:"edge_count"`
	Centrality map[string]float64    `json:"centrality"`
	Components [][]string            `json:"components"`
	Clusters   [][]string            `json:"clusters"`
	Isolated   []string              `json:"isolated"`
	Flags      []types.Flag          `json:"flags"`
	Counts     []relgraph.PartyCount `json:"counts"`
	BFS        []relgraph.Visit      `json:"bfs,omitempty"`
}

// SnapshotFromResult builds a snapshot from a pipeline result.
func SnapshotFromResult(result *relgraph.Result, source string) *RunSnapshot {
	return &RunSnapshot{
		Source:     source,
		NodeCount:  result.NodeCount,
		EdgeCount:  result.EdgeCount,
		Centrality: result.Centrality,
		Components: result.Components,
		Clusters:   result.Clusters,
		Isolated:   result.Isolated,
		Flags:      result.Flags,
		Counts:     result.Counts,
		BFS:        result.BFS,
	}
}

// Result reconstructs the pipeline result held by the snapshot.
func (s *RunSnapshot) Result() *relgraph.Result {
	return &relgraph.Result{
		NodeCount:  s.NodeCount,
		EdgeCount:  s.EdgeCount,
		Centrality: s.Centrality,
		Components: s.Components,
		Clusters:   s.Clusters,
		Isolated:   s.Isolated,
		Flags:      s.Flags,
		Counts:     s.Counts,
		BFS:        s.BFS,
	}
}

// Store persists run snapshots in an embedded Badger database so completed
// analyses can be listed and re-served without recomputation.
type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) the run store at the given directory.
// An empty path defaults to os.TempDir()/relgraph-runs.
func Open(path string) (*Store, error) {
	if path == "" {
		path = filepath.Join(os.TempDir(), "relgraph-runs")
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func runKey(runID string) []byte {
	return []byte(runKeyPrefix + runID)
}

// Save persists a snapshot, assigning a run id and creation time when
// absent, and returns the run id.
func (s *Store) Save(ctx context.Context, snapshot *RunSnapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if snapshot.RunID == "" {
		snapshot.RunID = uuid.New().String()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(snapshot.RunID), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to save run %s: %w", snapshot.RunID, err)
	}
	return snapshot.RunID, nil
}

// Load retrieves a snapshot by run id.
func (s *Store) Load(ctx context.Context, runID string) (*RunSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var snapshot RunSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(runID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrRunNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snapshot)
		})
	})
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
		}
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	return &snapshot, nil
}

// List returns all snapshots sorted by creation time, newest first.
func (s *Store) List(ctx context.Context) ([]*RunSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var snapshots []*RunSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(runKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var snapshot RunSnapshot
				if err := json.Unmarshal(val, &snapshot); err != nil {
					// Skip records we cannot decode rather than
					// failing the whole listing.
					return nil
				}
				snapshots = append(snapshots, &snapshot)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
		}
		return snapshots[i].RunID < snapshots[j].RunID
	})
	return snapshots, nil
}

// Delete removes a snapshot. Deleting an unknown run id is not an error.
func (s *Store) Delete(ctx context.Context, runID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(runKey(runID))
	})
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}
	return nil
}
