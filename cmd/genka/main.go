package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genka",
		Short: "Genka - construction cost and progress tracker",
		Long:  "Genka maintains the shared project document: design-book imports, CSV exports and data backfills.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newParseDesignCmd())
	cmd.AddCommand(newImportDesignCmd())
	cmd.AddCommand(newExportCSVCmd())
	cmd.AddCommand(newBackfillCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "genka %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
