package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBackfillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Normalize the stored document and write it back",
		Long: `Loads the shared document, which assigns missing management numbers,
maps legacy category labels and refills empty catalogs, then saves the
result so every client sees the normalized data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(cmd)
		},
	}
}

func runBackfill(cmd *cobra.Command) error {
	ctx := cmd.Context()
	gateway, ds, _, err := loadDataset(ctx, cmd)
	if err != nil {
		return err
	}
	if err := saveDataset(ctx, gateway, ds); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "backfilled %d projects\n", len(ds.Projects))
	return nil
}
