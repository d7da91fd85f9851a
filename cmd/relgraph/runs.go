package relgraph

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/soundprediction/relgraph/pkg/config"
	"github.com/soundprediction/relgraph/pkg/export"
	"github.com/soundprediction/relgraph/pkg/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage saved analysis runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Re-export the result files of a saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

var runsShowOut string

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)

	runsShowCmd.Flags().StringVarP(&runsShowOut, "output-dir", "o", ".", "output directory for the result files")
}

func openStore() (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return store.Open(cfg.Store.Path)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	runStore, err := openStore()
	if err != nil {
		return err
	}
	defer runStore.Close()

	snapshots, err := runStore.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Println("No saved runs.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tCREATED\tSOURCE\tNODES\tEDGES\tFLAGS")
	for _, s := range snapshots {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			s.RunID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Source,
			s.NodeCount, s.EdgeCount, len(s.Flags))
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	runStore, err := openStore()
	if err != nil {
		return err
	}
	defer runStore.Close()

	snapshot, err := runStore.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	result := snapshot.Result()
	if err := export.WriteAll(runsShowOut, result, nil, false); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	fmt.Printf("Run %s exported to %s\n", snapshot.RunID, runsShowOut)
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	runStore, err := openStore()
	if err != nil {
		return err
	}
	defer runStore.Close()

	if err := runStore.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Run %s deleted\n", args[0])
	return nil
}
