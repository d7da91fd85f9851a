package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/soundprediction/relgraph"
	"github.com/soundprediction/relgraph/pkg/types"
)

// Canonical file names written by WriteAll.
const (
	CentralityFile      = "centrality.csv"
	ClustersFile        = "clusters.csv"
	ComponentsFile      = "components.csv"
	AgeFlagsFile        = "age_flags.csv"
	DeceasedPrimaryFile = "deceased_primary.csv"
	DeceasedRelatedFile = "deceased_related.csv"
	CountsFile          = "pty_relationship_counts.csv"
	BFSFile             = "bfs.csv"
	DOTFile             = "graph.dot"
)

func writeFile(dir, name string, fn func(f *os.File) error) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// WriteAuditFiles writes the audit-derived files (age and duration flags,
// deceased-party flags, relationship counts) into the output directory,
// creating it if needed.
func WriteAuditFiles(dir string, flags []types.Flag, counts []relgraph.PartyCount) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	byRule := func(rule types.FlagRule) []types.Flag {
		var out []types.Flag
		for _, flag := range flags {
			if flag.Rule == rule {
				out = append(out, flag)
			}
		}
		return out
	}

	// Age and duration findings share a file: both point at rows whose
	// numeric fields are implausible.
	ageFlags := byRule(types.FlagAgeOutOfRange)
	ageFlags = append(ageFlags, byRule(types.FlagNegativeDuration)...)
	if err := writeFile(dir, AgeFlagsFile, func(f *os.File) error {
		return WriteFlagsCSV(f, ageFlags)
	}); err != nil {
		return err
	}
	if err := writeFile(dir, DeceasedPrimaryFile, func(f *os.File) error {
		return WriteFlagsCSV(f, byRule(types.FlagDeceasedPrimary))
	}); err != nil {
		return err
	}
	if err := writeFile(dir, DeceasedRelatedFile, func(f *os.File) error {
		return WriteFlagsCSV(f, byRule(types.FlagDeceasedRelated))
	}); err != nil {
		return err
	}
	return writeFile(dir, CountsFile, func(f *os.File) error {
		return WriteCountsCSV(f, counts)
	})
}

// WriteAll writes the canonical derived-table file set for a run into the
// output directory, creating it if needed. The graph may be nil, in which
// case no DOT file is produced.
func WriteAll(dir string, result *relgraph.Result, graph *relgraph.Graph, dot bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeFile(dir, CentralityFile, func(f *os.File) error {
		return WriteCentralityCSV(f, result.Centrality)
	}); err != nil {
		return err
	}
	if err := writeFile(dir, ClustersFile, func(f *os.File) error {
		return WriteClustersCSV(f, result.Clusters)
	}); err != nil {
		return err
	}
	if err := writeFile(dir, ComponentsFile, func(f *os.File) error {
		return WriteComponentsCSV(f, result.Components)
	}); err != nil {
		return err
	}

	if err := WriteAuditFiles(dir, result.Flags, result.Counts); err != nil {
		return err
	}

	if len(result.BFS) > 0 {
		if err := writeFile(dir, BFSFile, func(f *os.File) error {
			return WriteBFSCSV(f, result.BFS)
		}); err != nil {
			return err
		}
	}

	if dot && graph != nil {
		if err := writeFile(dir, DOTFile, func(f *os.File) error {
			return WriteDOT(f, graph, DOTOptions{SizeByDegree: true, LabelEdges: true})
		}); err != nil {
			return err
		}
	}

	return nil
}
