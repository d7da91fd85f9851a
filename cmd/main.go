package main

import (
	"os"

	"github.com/soundprediction/relgraph/cmd/relgraph"
)

func main() {
	if err := relgraph.Execute(); err != nil {
		os.Exit(1)
	}
}
