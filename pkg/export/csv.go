package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/soundprediction/relgraph"
	"github.com/soundprediction/relgraph/pkg/types"
)

// WriteCentralityCSV writes degree centrality scores sorted by score
// descending then party id, with header party_id,degree_centrality.
func WriteCentralityCSV(w io.Writer, centrality map[string]float64) error {
	ids := make([]string, 0, len(centrality))
	for id := range centrality {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if centrality[ids[i]] != centrality[ids[j]] {
			return centrality[ids[i]] > centrality[ids[j]]
		}
		return ids[i] < ids[j]
	})

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"party_id", "degree_centrality"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, id := range ids {
		row := []string{id, strconv.FormatFloat(centrality[id], 'f', 6, 64)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", id, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteClustersCSV writes cluster assignments with header
// cluster_id,party_id. Cluster ids are 0-based positions in the input.
func WriteClustersCSV(w io.Writer, clusters [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"cluster_id", "party_id"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, cluster := range clusters {
		for _, id := range cluster {
			if err := cw.Write([]string{strconv.Itoa(i), id}); err != nil {
				return fmt.Errorf("failed to write row for %s: %w", id, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteComponentsCSV writes connected component membership with header
// component_id,party_id,size.
func WriteComponentsCSV(w io.Writer, components [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"component_id", "party_id", "size"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, component := range components {
		size := strconv.Itoa(len(component))
		for _, id := range component {
			if err := cw.Write([]string{strconv.Itoa(i), id, size}); err != nil {
				return fmt.Errorf("failed to write row for %s: %w", id, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFlagsCSV writes audit flags with header rule,line,party_id,detail.
func WriteFlagsCSV(w io.Writer, flags []types.Flag) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rule", "line", "party_id", "detail"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, f := range flags {
		row := []string{string(f.Rule), strconv.Itoa(f.Line), f.PartyID, f.Detail}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write flag row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCountsCSV writes per-party relationship counts with header
// party_id,relationship_count.
func WriteCountsCSV(w io.Writer, counts []relgraph.PartyCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"party_id", "relationship_count"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, pc := range counts {
		if err := cw.Write([]string{pc.PartyID, strconv.Itoa(pc.Count)}); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", pc.PartyID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBFSCSV writes a breadth-first traversal with header
// order,party_id,depth,parent.
func WriteBFSCSV(w io.Writer, visits []relgraph.Visit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"order", "party_id", "depth", "parent"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, v := range visits {
		row := []string{strconv.Itoa(i), v.ID, strconv.Itoa(v.Depth), v.Parent}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", v.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
