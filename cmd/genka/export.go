package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tokito/genka-kanri/internal/report"
	"github.com/tokito/genka-kanri/internal/service"
)

func newExportCSVCmd() *cobra.Command {
	var (
		view string
		out  string
	)

	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Write the project list as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportCSV(cmd, view, out)
		},
	}

	cmd.Flags().StringVar(&view, "view", "active", "project list: active, archived or deleted")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: genka_<view>_<date>.csv, - for stdout)")
	return cmd
}

func runExportCSV(cmd *cobra.Command, rawView, out string) error {
	view, err := service.ParseView(rawView)
	if err != nil {
		return err
	}

	_, ds, log, err := loadDataset(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	now := time.Now()
	lines := report.Build(ds, service.ProjectsInView(ds, view), now).Lines

	if out == "-" {
		return report.WriteCSV(cmd.OutOrStdout(), lines)
	}
	if out == "" {
		out = fmt.Sprintf("genka_%s_%s.csv", view, now.Format("20060102"))
	}
	if err := writeFile(out, func(w io.Writer) error { return report.WriteCSV(w, lines) }); err != nil {
		return err
	}
	log.Info().Str("file", out).Int("projects", len(lines)).Msg("csv exported")
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d projects to %s\n", len(lines), out)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
