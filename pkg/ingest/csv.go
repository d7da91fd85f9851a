package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/soundprediction/relgraph/pkg/types"
)

var (
	// ErrMissingColumn is returned when the header lacks a mandatory
	// identifier column.
	ErrMissingColumn = errors.New("missing mandatory column")
	// ErrEmptyInput is returned when the input has no header row.
	ErrEmptyInput = errors.New("input has no header row")
)

// columnAliases maps every accepted header spelling to its canonical
// field. The upper-case names are the legacy extract columns the source
// data ships with.
var columnAliases = map[string]string{
	"party_id":          "party_id",
	"pty_id":            "party_id",
	"related_id":        "related_id",
	"relation_id":       "related_id",
	"rel_pty_id":        "related_id",
	"relationship_type": "relationship_type",
	"ipr_typ_nr":        "relationship_type",
	"party_age":         "party_age",
	"pty_age":           "party_age",
	"related_age":       "related_age",
	"rel_pty_age":       "related_age",
	"start_date":        "start_date",
	"str_date":          "start_date",
	"discontinue_date":  "discontinue_date",
	"dsc_date":          "discontinue_date",
	"party_deceased":    "party_deceased",
	"pty_dcd_date":      "party_deceased",
	"related_deceased":  "related_deceased",
	"rel_dcd_date":      "related_deceased",
}

// dateLayouts are the accepted date formats, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// Options controls ingestion behavior.
type Options struct {
	// Strict makes malformed ages and dates fail the whole read. When
	// false, bad values are dropped with a warning and the row is kept.
	Strict bool
	// Logger receives row-level warnings in non-strict mode. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// ReadCSV decodes relationship records from header-driven CSV input.
// Canonical and legacy column names are both accepted; unknown columns are
// ignored. Rows missing either identifier fail the read regardless of
// Options.Strict.
func ReadCSV(r io.Reader, opts Options) ([]types.Record, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := columnAliases[key]; ok {
			columns[canonical] = i
		}
	}

	for _, required := range []string{"party_id", "related_id"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var records []types.Record
	line := 1 // header consumed
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		record, err := parseRow(row, columns, line, opts.Strict, logger)
		if err != nil {
			return nil, err
		}
		if err := record.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, *record)
	}

	return records, nil
}

// ReadCSVFile reads relationship records from a CSV file on disk.
func ReadCSVFile(path string, opts Options) ([]types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func parseRow(row []string, columns map[string]int, line int, strict bool, logger *slog.Logger) (*types.Record, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	record := &types.Record{
		PartyID:          field("party_id"),
		RelatedID:        field("related_id"),
		RelationshipType: field("relationship_type"),
		Line:             line,
	}

	parseAge := func(name string) (*int, error) {
		raw := field(name)
		if raw == "" {
			return nil, nil
		}
		age, err := strconv.Atoi(raw)
		if err != nil {
			if strict {
				return nil, fmt.Errorf("line %d: non-numeric %s %q", line, name, raw)
			}
			logger.Warn("dropping non-numeric age", "line", line, "column", name, "value", raw)
			return nil, nil
		}
		return &age, nil
	}

	parseDate := func(name string) (*time.Time, error) {
		raw := field(name)
		if raw == "" {
			return nil, nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				t = t.UTC()
				return &t, nil
			}
		}
		if strict {
			return nil, fmt.Errorf("line %d: unparseable %s %q", line, name, raw)
		}
		logger.Warn("dropping unparseable date", "line", line, "column", name, "value", raw)
		return nil, nil
	}

	var err error
	if record.PartyAge, err = parseAge("party_age"); err != nil {
		return nil, err
	}
	if record.RelatedAge, err = parseAge("related_age"); err != nil {
		return nil, err
	}
	if record.StartDate, err = parseDate("start_date"); err != nil {
		return nil, err
	}
	if record.DiscontinueDate, err = parseDate("discontinue_date"); err != nil {
		return nil, err
	}
	if record.PartyDeceased, err = parseDate("party_deceased"); err != nil {
		return nil, err
	}
	if record.RelatedDeceased, err = parseDate("related_deceased"); err != nil {
		return nil, err
	}

	return record, nil
}
