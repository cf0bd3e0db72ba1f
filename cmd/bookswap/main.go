package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "bookswap",
		Short:         "Book-sharing platform API server",
		SilenceUsage:  true,
	}
	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newHealthcheckCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
