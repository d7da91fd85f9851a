// Package ingest reads relationship records from tabular sources. CSV
// input is header-driven and accepts both the canonical snake_case column
// names and the legacy extract spellings (PTY_ID, REL_PTY_AGE, IPR_TYP_NR,
// DSC_DATE, ...). Parquet files round-trip through the same flat row
// schema used by the exporters.
package ingest
