// Package relgraph implements the relgraph command line interface.
package relgraph

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soundprediction/relgraph/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "relgraph",
		Short: "Relgraph: relationship network analysis tool",
		Long: `Relgraph builds an undirected relationship network from tabular
party-to-party records and analyzes it: degree centrality, connected
components, community clusters, isolated parties, and breadth-first
orderings. It also audits the input rows for inconsistencies such as
out-of-range ages, negative relationship durations, and relationships
kept active past a party's death.

Complete documentation is available at https://github.com/soundprediction/relgraph`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize configuration
			initConfig()
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.relgraph.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".relgraph" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".relgraph")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger from the configured log level.
func newLogger() *slog.Logger {
	return logger.NewDefaultLogger(logger.ParseLevel(viper.GetString("log.level")))
}
