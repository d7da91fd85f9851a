package ingest

import (
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/soundprediction/relgraph/pkg/types"
)

// parquetRecord is the Parquet row shape for relationship records.
// Timestamps are stored as epoch milliseconds, zero meaning absent, and
// ages use -1 as the absent marker so the schema stays flat.
type parquetRecord struct {
	PartyID          string `parquet:"party_id"`
	RelatedID        string `parquet:"related_id"`
	RelationshipType string `parquet:"relationship_type"`
	PartyAge         int64  `parquet:"party_age"`
	RelatedAge       int64  `parquet:"related_age"`
	StartDate        int64  `parquet:"start_date"`
	DiscontinueDate  int64  `parquet:"discontinue_date"`
	PartyDeceased    int64  `parquet:"party_deceased"`
	RelatedDeceased  int64  `parquet:"related_deceased"`
	Line             int64  `parquet:"line"`
}

const absentAge = -1

// toRow converts a Record into its Parquet representation.
func toRow(r *types.Record) parquetRecord {
	row := parquetRecord{
		PartyID:          r.PartyID,
		RelatedID:        r.RelatedID,
		RelationshipType: r.RelationshipType,
		PartyAge:         absentAge,
		RelatedAge:       absentAge,
		Line:             int64(r.Line),
	}
	if r.PartyAge != nil {
		row.PartyAge = int64(*r.PartyAge)
	}
	if r.RelatedAge != nil {
		row.RelatedAge = int64(*r.RelatedAge)
	}
	row.StartDate = millis(r.StartDate)
	row.DiscontinueDate = millis(r.DiscontinueDate)
	row.PartyDeceased = millis(r.PartyDeceased)
	row.RelatedDeceased = millis(r.RelatedDeceased)
	return row
}

func millis(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

func (row *parquetRecord) toRecord() types.Record {
	record := types.Record{
		PartyID:          row.PartyID,
		RelatedID:        row.RelatedID,
		RelationshipType: row.RelationshipType,
		Line:             int(row.Line),
	}
	if row.PartyAge != absentAge {
		age := int(row.PartyAge)
		record.PartyAge = &age
	}
	if row.RelatedAge != absentAge {
		age := int(row.RelatedAge)
		record.RelatedAge = &age
	}
	record.StartDate = fromMillis(row.StartDate)
	record.DiscontinueDate = fromMillis(row.DiscontinueDate)
	record.PartyDeceased = fromMillis(row.PartyDeceased)
	record.RelatedDeceased = fromMillis(row.RelatedDeceased)
	return record
}

// ReadParquetFile reads relationship records from a Parquet file written
// by pkg/export (or any file with the same column set).
func ReadParquetFile(path string) ([]types.Record, error) {
	rows, err := parquet.ReadFile[parquetRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}

	records := make([]types.Record, 0, len(rows))
	for i := range rows {
		record := rows[i].toRecord()
		if err := record.Validate(); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// WriteParquetFile writes relationship records to a Parquet file using the
// same row schema ReadParquetFile expects.
func WriteParquetFile(path string, records []types.Record) error {
	rows := make([]parquetRecord, len(records))
	for i := range records {
		rows[i] = toRow(&records[i])
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write parquet file %s: %w", path, err)
	}
	return nil
}
