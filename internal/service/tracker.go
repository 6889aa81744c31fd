package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tokito/genka-kanri/internal/excel"
	"github.com/tokito/genka-kanri/internal/metrics"
	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/report"
	"github.com/tokito/genka-kanri/internal/state"
)

// Scheduler queues dataset snapshots for persistence.
type Scheduler interface {
	Schedule(ds model.Dataset) bool
	Flush(ctx context.Context) bool
	Pending() bool
}

type ExcelGenerator interface {
	Generate(portfolio report.Portfolio) ([]byte, error)
}

type PDFGenerator interface {
	Generate(line report.Line, processMasters []model.ProcessMaster, vehicles []model.Vehicle) ([]byte, error)
}

type ExportResult struct {
	FileName string
	Content  []byte
}

type Dashboard struct {
	Summary       metrics.Summary `json:"summary"`
	ActiveCount   int             `json:"activeCount"`
	ArchivedCount int             `json:"archivedCount"`
	DeletedCount  int             `json:"deletedCount"`
	OpenBidCount  int             `json:"openBidCount"`
}

// Tracker owns the in-memory dataset. Every mutation is a pure state
// transform applied under the lock; the result is handed to the scheduler
// and persisted eventually.
type Tracker struct {
	scheduler Scheduler
	excel     ExcelGenerator
	pdf       PDFGenerator
	rules     excel.ImportRules
	log       zerolog.Logger
	now       func() time.Time

	mu sync.RWMutex
	ds model.Dataset
}

// NewTracker starts from a loaded dataset. pdf may be nil when no font is
// configured; PDF export then reports ErrUnavailable.
func NewTracker(ds model.Dataset, scheduler Scheduler, excelGen ExcelGenerator, pdfGen PDFGenerator, rules excel.ImportRules, log zerolog.Logger) *Tracker {
	return &Tracker{
		scheduler: scheduler,
		excel:     excelGen,
		pdf:       pdfGen,
		rules:     rules,
		log:       log.With().Str("component", "tracker").Logger(),
		now:       time.Now,
		ds:        ds,
	}
}

func (t *Tracker) apply(p model.Principal, op string, fn func(model.Dataset) (model.Dataset, error)) error {
	if !p.Authenticated() {
		return ErrUnauthorized
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := fn(t.ds)
	if err != nil {
		return err
	}
	t.ds = next
	if !t.scheduler.Schedule(next) {
		t.log.Warn().Str("op", op).Msg("change applied after shutdown, it will not be saved")
	}
	t.log.Debug().Str("op", op).Str("user", p.Email).Msg("applied")
	return nil
}

func mutate[T any](t *Tracker, p model.Principal, op string, fn func(model.Dataset) (model.Dataset, T, error)) (T, error) {
	var out T
	err := t.apply(p, op, func(ds model.Dataset) (model.Dataset, error) {
		next, value, err := fn(ds)
		out = value
		return next, err
	})
	return out, err
}

// Snapshot returns the current dataset. Callers must not modify it.
func (t *Tracker) Snapshot() model.Dataset {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ds
}

func (t *Tracker) Pending() bool {
	return t.scheduler.Pending()
}

// Flush writes pending changes now and reports whether they are persisted.
func (t *Tracker) Flush(ctx context.Context) bool {
	return t.scheduler.Flush(ctx)
}

// ProjectsInView keeps the projects whose lifecycle list is view.
func ProjectsInView(ds model.Dataset, view model.ProjectView) []model.Project {
	projects := make([]model.Project, 0)
	for _, p := range ds.Projects {
		if p.View() == view {
			projects = append(projects, p)
		}
	}
	return projects
}

func ParseView(raw string) (model.ProjectView, error) {
	switch model.ProjectView(strings.ToLower(strings.TrimSpace(raw))) {
	case "", model.ProjectViewActive:
		return model.ProjectViewActive, nil
	case model.ProjectViewArchived:
		return model.ProjectViewArchived, nil
	case model.ProjectViewDeleted:
		return model.ProjectViewDeleted, nil
	default:
		return "", fmt.Errorf("%w: unknown view %q", ErrInvalidInput, raw)
	}
}

func (t *Tracker) ListProjects(view model.ProjectView) []report.Line {
	ds := t.Snapshot()
	return report.Build(ds, ProjectsInView(ds, view), t.now()).Lines
}

func (t *Tracker) Project(id string) (report.Line, error) {
	ds := t.Snapshot()
	p, ok := state.FindProject(ds, id)
	if !ok {
		return report.Line{}, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	return report.NewLine(p, ds.Costs, ds.Quantities), nil
}

func (t *Tracker) Dashboard() Dashboard {
	ds := t.Snapshot()
	d := Dashboard{Summary: metrics.Summarize(ProjectsInView(ds, model.ProjectViewActive), ds.Costs, ds.Quantities)}
	for _, p := range ds.Projects {
		switch p.View() {
		case model.ProjectViewActive:
			d.ActiveCount++
		case model.ProjectViewArchived:
			d.ArchivedCount++
		case model.ProjectViewDeleted:
			d.DeletedCount++
		}
	}
	for _, b := range ds.BidSchedules {
		if !b.Promoted() && b.Status != model.BidStatusLost {
			d.OpenBidCount++
		}
	}
	return d
}

func (t *Tracker) Vehicles() []model.Vehicle {
	return t.Snapshot().Vehicles
}

func (t *Tracker) ProcessMasters() []model.ProcessMaster {
	return t.Snapshot().ProcessMasters
}

func (t *Tracker) Bids() []model.BidSchedule {
	return t.Snapshot().BidSchedules
}

func (t *Tracker) ExportCSV(view model.ProjectView) (*ExportResult, error) {
	lines := t.ListProjects(view)
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, lines); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return &ExportResult{
		FileName: fmt.Sprintf("genka_%s_%s.csv", view, t.now().Format("20060102")),
		Content:  buf.Bytes(),
	}, nil
}

func (t *Tracker) ExportXLSX(view model.ProjectView) (*ExportResult, error) {
	ds := t.Snapshot()
	content, err := t.excel.Generate(report.Build(ds, ProjectsInView(ds, view), t.now()))
	if err != nil {
		return nil, fmt.Errorf("generate workbook: %w", err)
	}
	return &ExportResult{
		FileName: fmt.Sprintf("genka_%s_%s.xlsx", view, t.now().Format("20060102")),
		Content:  content,
	}, nil
}

func (t *Tracker) ExportPDF(projectID string) (*ExportResult, error) {
	if t.pdf == nil {
		return nil, fmt.Errorf("%w: pdf font is not configured", ErrUnavailable)
	}
	ds := t.Snapshot()
	p, ok := state.FindProject(ds, projectID)
	if !ok {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	content, err := t.pdf.Generate(report.NewLine(p, ds.Costs, ds.Quantities), ds.ProcessMasters, ds.Vehicles)
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	name := p.ManagementNumber
	if name == "" {
		name = p.ID
	}
	return &ExportResult{
		FileName: fmt.Sprintf("genka_%s_%s.pdf", name, t.now().Format("20060102")),
		Content:  content,
	}, nil
}

// ImportDesignBook replaces the project's checklist with the tree parsed
// from a design-book workbook.
func (t *Tracker) ImportDesignBook(p model.Principal, projectID string, content []byte) (model.Project, error) {
	if len(content) == 0 {
		return model.Project{}, fmt.Errorf("%w: workbook is empty", ErrInvalidInput)
	}
	processes, err := excel.ParseDesignBook(content, t.rules)
	if err != nil {
		return model.Project{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	project, err := mutate(t, p, "import_design_book", func(ds model.Dataset) (model.Dataset, model.Project, error) {
		return state.ReplaceProcesses(ds, projectID, processes)
	})
	if err == nil {
		t.log.Info().Str("project", projectID).Int("processes", len(processes)).Msg("design book imported")
	}
	return project, err
}
