package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tokito/genka-kanri/internal/excel"
	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/seed"
	"github.com/tokito/genka-kanri/internal/state"
)

func newParseDesignCmd() *cobra.Command {
	var (
		file      string
		rulesPath string
	)

	cmd := &cobra.Command{
		Use:   "parse-design",
		Short: "Print the process tree parsed from a design book",
		Long: `Parses a design-book workbook offline and prints the resulting
process, section and subtask tree. Nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParseDesign(cmd, file, rulesPath)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "design book (.xlsx)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "import rules file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runParseDesign(cmd *cobra.Command, file, rulesPath string) error {
	processes, err := parseDesignFile(file, rulesPath)
	if err != nil {
		return err
	}
	printProcessTree(cmd.OutOrStdout(), processes, seed.ProcessMasters())
	return nil
}

func newImportDesignCmd() *cobra.Command {
	var (
		project   string
		file      string
		rulesPath string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "import-design",
		Short: "Replace a project's checklist with a design book",
		Long: `Parses a design-book workbook and replaces the process checklist of
the project given by id or management number. Progress is recomputed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportDesign(cmd, project, file, rulesPath, dryRun)
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "project id or management number")
	cmd.Flags().StringVarP(&file, "file", "f", "", "design book (.xlsx)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "import rules file (YAML or JSON)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the tree without saving")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImportDesign(cmd *cobra.Command, projectRef, file, rulesPath string, dryRun bool) error {
	processes, err := parseDesignFile(file, rulesPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	gateway, ds, log, err := loadDataset(ctx, cmd)
	if err != nil {
		return err
	}

	p, ok := findProject(ds.Projects, projectRef)
	if !ok {
		return fmt.Errorf("project %q not found", projectRef)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", p.ManagementNumber, p.Name)
	printProcessTree(out, processes, ds.ProcessMasters)
	if dryRun {
		fmt.Fprintln(out, "dry run, nothing saved")
		return nil
	}

	next, updated, err := state.ReplaceProcesses(ds, p.ID, processes)
	if err != nil {
		return err
	}
	if err := saveDataset(ctx, gateway, next); err != nil {
		return err
	}
	log.Info().Str("project", p.ID).Int("processes", len(processes)).Msg("design book imported")
	fmt.Fprintf(out, "imported %d processes, progress %d%%\n", len(processes), updated.Progress)
	return nil
}

func parseDesignFile(file, rulesPath string) ([]model.ProjectProcess, error) {
	rules, err := excel.LoadImportRules(rulesPath)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read design book: %w", err)
	}
	return excel.ParseDesignBook(content, rules)
}

func findProject(projects []model.Project, ref string) (model.Project, bool) {
	ref = strings.TrimSpace(ref)
	for _, p := range projects {
		if p.ID == ref || strings.EqualFold(p.ManagementNumber, ref) {
			return p, true
		}
	}
	return model.Project{}, false
}

func printProcessTree(w io.Writer, processes []model.ProjectProcess, masters []model.ProcessMaster) {
	if len(processes) == 0 {
		fmt.Fprintln(w, "no processes found")
		return
	}
	names := make(map[string]string, len(masters))
	for _, m := range masters {
		names[m.ID] = strings.TrimSpace(m.Icon + " " + m.Name)
	}
	for _, p := range processes {
		name, ok := names[p.ProcessMasterID]
		if !ok {
			name = p.ProcessMasterID
		}
		fmt.Fprintf(w, "%s [%s]\n", name, p.ProcessMasterID)
		for _, s := range p.Sections {
			fmt.Fprintf(w, "  %s\n", s.Name)
			for _, st := range s.Subtasks {
				fmt.Fprintf(w, "    - %s\n", st.Name)
			}
		}
	}
}
