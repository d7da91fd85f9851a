package relgraph

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundprediction/relgraph/pkg/ingest"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a CSV relationship file to Parquet",
	Long: `Convert reads relationship records from a CSV file and rewrites
them as Parquet, which loads faster on repeated analysis runs.`,
	RunE: runConvert,
}

var (
	convertInput  string
	convertOutput string
	convertStrict bool
)

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "input CSV file")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output Parquet file")
	convertCmd.Flags().BoolVar(&convertStrict, "strict", false, "fail on unparseable age or date values instead of dropping them")

	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("output")
}

func runConvert(cmd *cobra.Command, args []string) error {
	log := newLogger()

	records, err := ingest.ReadCSVFile(convertInput, ingest.Options{Strict: convertStrict, Logger: log})
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", convertInput, err)
	}

	if err := ingest.WriteParquetFile(convertOutput, records); err != nil {
		return fmt.Errorf("failed to write %s: %w", convertOutput, err)
	}
	log.Info("converted", "input", convertInput, "output", convertOutput, "records", len(records))
	return nil
}
