package export

import (
	"fmt"
	"sort"

	"github.com/parquet-go/parquet-go"
)

// CentralityParquetFile is the parquet counterpart of CentralityFile.
const CentralityParquetFile = "centrality.parquet"

type centralityRow struct {
	PartyID          string  `parquet:"party_id"`
	DegreeCentrality float64 `parquet:"degree_centrality"`
}

// WriteCentralityParquet writes degree centrality scores as a Parquet
// file, ordered like the CSV rendition: score descending, ties by
// party id.
func WriteCentralityParquet(path string, centrality map[string]float64) error {
	rows := make([]centralityRow, 0, len(centrality))
	for id, score := range centrality {
		rows = append(rows, centralityRow{PartyID: id, DegreeCentrality: score})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DegreeCentrality != rows[j].DegreeCentrality {
			return rows[i].DegreeCentrality > rows[j].DegreeCentrality
		}
		return rows[i].PartyID < rows[j].PartyID
	})

	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
