package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tokito/genka-kanri/internal/metrics"
	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/numbering"
)

// DefaultBudgetRatio is applied to the contract amount when a normal-mode
// project is created without an explicit budget.
const DefaultBudgetRatio = 0.7

type ProjectInput struct {
	Name              string
	Client            string
	Category          string
	Amount            int64
	Budget            int64
	Status            model.ProjectStatus
	StartDate         string
	EndDate           string
	Notes             string
	Mode              model.ProjectMode
	MarginRate        float64
	SubcontractAmount int64
	SubcontractVendor string

	// AllowZeroAmount admits unit-price contracts whose total is not known
	// at order time.
	AllowZeroAmount bool
}

// ProjectPatch replaces only the non-nil fields.
type ProjectPatch struct {
	Name              *string
	Client            *string
	Category          *string
	OriginalAmount    *int64
	Budget            *int64
	BilledAmount      *int64
	Status            *model.ProjectStatus
	StartDate         *string
	EndDate           *string
	Progress          *int
	Notes             *string
	Mode              *model.ProjectMode
	MarginRate        *float64
	SubcontractAmount *int64
	SubcontractVendor *string
}

func CreateProject(ds model.Dataset, in ProjectInput) (model.Dataset, model.Project, error) {
	name, client := strings.TrimSpace(in.Name), strings.TrimSpace(in.Client)
	if name == "" {
		return ds, model.Project{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if client == "" {
		return ds, model.Project{}, fmt.Errorf("%w: client is required", ErrInvalidInput)
	}
	if in.Amount < 1 && !(in.AllowZeroAmount && in.Amount == 0) {
		return ds, model.Project{}, fmt.Errorf("%w: amount must be at least 1", ErrInvalidInput)
	}
	mode := in.Mode
	if mode == "" {
		mode = model.ProjectModeNormal
	}
	if mode != model.ProjectModeNormal && mode != model.ProjectModeSubcontract {
		return ds, model.Project{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, mode)
	}
	status := in.Status
	if status == "" {
		status = model.ProjectStatusOrdered
	}
	if !status.Valid() {
		return ds, model.Project{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	if in.MarginRate < 0 || in.MarginRate > 100 {
		return ds, model.Project{}, fmt.Errorf("%w: margin rate must be between 0 and 100", ErrInvalidInput)
	}
	if in.Budget < 0 || in.SubcontractAmount < 0 {
		return ds, model.Project{}, fmt.Errorf("%w: amounts must not be negative", ErrInvalidInput)
	}
	startDate, err := NormalizeDate(in.StartDate)
	if err != nil {
		return ds, model.Project{}, err
	}
	endDate, err := NormalizeDate(in.EndDate)
	if err != nil {
		return ds, model.Project{}, err
	}

	category := model.NormalizeCategory(strings.TrimSpace(in.Category))
	if category == "" {
		category = model.CategoryConstruction
	}

	p := model.Project{
		ID:                uuid.NewString(),
		ManagementNumber:  numbering.NextManagementNumber(ds.Projects, category),
		Name:              name,
		Client:            client,
		Category:          category,
		OriginalAmount:    in.Amount,
		Status:            status,
		StartDate:         startDate,
		EndDate:           endDate,
		Notes:             strings.TrimSpace(in.Notes),
		Mode:              mode,
		MarginRate:        in.MarginRate,
		SubcontractVendor: strings.TrimSpace(in.SubcontractVendor),
		Payments:          []model.Payment{},
		Changes:           []model.ChangeOrder{},
	}
	if mode == model.ProjectModeSubcontract {
		p.SubcontractAmount = in.SubcontractAmount
		if p.SubcontractAmount == 0 {
			p.SubcontractAmount = scale(in.Amount, (100-in.MarginRate)/100)
		}
	} else {
		p.Budget = in.Budget
		if p.Budget == 0 {
			p.Budget = scale(in.Amount, DefaultBudgetRatio)
		}
	}
	p = refreshContractAmount(p)

	ds.Projects = append(append([]model.Project{}, ds.Projects...), p)
	return ds, p, nil
}

func UpdateProject(ds model.Dataset, id string, patch ProjectPatch) (model.Dataset, model.Project, error) {
	return withProject(ds, id, func(p model.Project) (model.Project, error) {
		if patch.Name != nil {
			if strings.TrimSpace(*patch.Name) == "" {
				return p, fmt.Errorf("%w: name is required", ErrInvalidInput)
			}
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Client != nil {
			if strings.TrimSpace(*patch.Client) == "" {
				return p, fmt.Errorf("%w: client is required", ErrInvalidInput)
			}
			p.Client = strings.TrimSpace(*patch.Client)
		}
		if patch.Category != nil && strings.TrimSpace(*patch.Category) != "" {
			p.Category = model.NormalizeCategory(strings.TrimSpace(*patch.Category))
		}
		if patch.OriginalAmount != nil {
			p.OriginalAmount = *patch.OriginalAmount
			p = refreshContractAmount(p)
		}
		if patch.Budget != nil {
			if *patch.Budget < 0 {
				return p, fmt.Errorf("%w: budget must not be negative", ErrInvalidInput)
			}
			p.Budget = *patch.Budget
		}
		if patch.BilledAmount != nil {
			if *patch.BilledAmount < 0 {
				return p, fmt.Errorf("%w: billed amount must not be negative", ErrInvalidInput)
			}
			p.BilledAmount = *patch.BilledAmount
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return p, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *patch.Status)
			}
			p.Status = *patch.Status
		}
		if patch.StartDate != nil {
			date, err := NormalizeDate(*patch.StartDate)
			if err != nil {
				return p, err
			}
			p.StartDate = date
		}
		if patch.EndDate != nil {
			date, err := NormalizeDate(*patch.EndDate)
			if err != nil {
				return p, err
			}
			p.EndDate = date
		}
		if patch.Progress != nil {
			if *patch.Progress < 0 || *patch.Progress > 100 {
				return p, fmt.Errorf("%w: progress must be between 0 and 100", ErrInvalidInput)
			}
			p.Progress = *patch.Progress
		}
		if patch.Notes != nil {
			p.Notes = strings.TrimSpace(*patch.Notes)
		}
		if patch.Mode != nil {
			if *patch.Mode != model.ProjectModeNormal && *patch.Mode != model.ProjectModeSubcontract {
				return p, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, *patch.Mode)
			}
			p.Mode = *patch.Mode
		}
		if patch.MarginRate != nil {
			if *patch.MarginRate < 0 || *patch.MarginRate > 100 {
				return p, fmt.Errorf("%w: margin rate must be between 0 and 100", ErrInvalidInput)
			}
			p.MarginRate = *patch.MarginRate
		}
		if patch.SubcontractAmount != nil {
			if *patch.SubcontractAmount < 0 {
				return p, fmt.Errorf("%w: subcontract amount must not be negative", ErrInvalidInput)
			}
			p.SubcontractAmount = *patch.SubcontractAmount
		}
		if patch.SubcontractVendor != nil {
			p.SubcontractVendor = strings.TrimSpace(*patch.SubcontractVendor)
		}
		return p, nil
	})
}

// ArchiveProject files the project under year, e.g. "2025".
func ArchiveProject(ds model.Dataset, id, year string) (model.Dataset, model.Project, error) {
	year = strings.TrimSpace(year)
	if year == "" {
		return ds, model.Project{}, fmt.Errorf("%w: archive year is required", ErrInvalidInput)
	}
	return withProject(ds, id, func(p model.Project) (model.Project, error) {
		p.Archived = true
		p.ArchiveYear = year
		return p, nil
	})
}

func UnarchiveProject(ds model.Dataset, id string) (model.Dataset, model.Project, error) {
	return withProject(ds, id, func(p model.Project) (model.Project, error) {
		p.Archived = false
		p.ArchiveYear = ""
		return p, nil
	})
}

// DeleteProject is a soft delete; costs and quantities are kept so the
// project can be restored intact.
func DeleteProject(ds model.Dataset, id string, now time.Time) (model.Dataset, model.Project, error) {
	return withProject(ds, id, func(p model.Project) (model.Project, error) {
		deletedAt := now.UTC()
		p.Deleted = true
		p.DeletedAt = &deletedAt
		return p, nil
	})
}

func RestoreProject(ds model.Dataset, id string) (model.Dataset, model.Project, error) {
	return withProject(ds, id, func(p model.Project) (model.Project, error) {
		p.Deleted = false
		p.DeletedAt = nil
		return p, nil
	})
}

// PurgeProject removes a soft-deleted project together with its costs and
// quantities. Live projects must be deleted first.
func PurgeProject(ds model.Dataset, id string) (model.Dataset, error) {
	idx := projectIndex(ds, id)
	if idx < 0 {
		return ds, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	if !ds.Projects[idx].Deleted {
		return ds, fmt.Errorf("%w: project %s is not deleted", ErrConflict, id)
	}

	projects := make([]model.Project, 0, len(ds.Projects)-1)
	projects = append(projects, ds.Projects[:idx]...)
	ds.Projects = append(projects, ds.Projects[idx+1:]...)

	costs := make([]model.Cost, 0, len(ds.Costs))
	for _, c := range ds.Costs {
		if c.ProjectID != id {
			costs = append(costs, c)
		}
	}
	ds.Costs = costs

	quantities := make([]model.Quantity, 0, len(ds.Quantities))
	for _, q := range ds.Quantities {
		if q.ProjectID != id {
			quantities = append(quantities, q)
		}
	}
	ds.Quantities = quantities

	bids := make([]model.BidSchedule, len(ds.BidSchedules))
	for i, b := range ds.BidSchedules {
		if b.ProjectID == id {
			b.ProjectID = ""
		}
		bids[i] = b
	}
	ds.BidSchedules = bids
	return ds, nil
}

func FindProject(ds model.Dataset, id string) (model.Project, bool) {
	if idx := projectIndex(ds, id); idx >= 0 {
		return ds.Projects[idx], true
	}
	return model.Project{}, false
}

func projectIndex(ds model.Dataset, id string) int {
	for i, p := range ds.Projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// withProject applies fn to a copy of the project and returns a dataset
// holding the result. The input dataset is left untouched.
func withProject(ds model.Dataset, id string, fn func(model.Project) (model.Project, error)) (model.Dataset, model.Project, error) {
	idx := projectIndex(ds, id)
	if idx < 0 {
		return ds, model.Project{}, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	updated, err := fn(ds.Projects[idx])
	if err != nil {
		return ds, model.Project{}, err
	}
	projects := append([]model.Project{}, ds.Projects...)
	projects[idx] = updated
	ds.Projects = projects
	return ds, updated, nil
}

// refreshContractAmount is the only writer of the contractAmount cache.
func refreshContractAmount(p model.Project) model.Project {
	p.ContractAmount = metrics.EffectiveContract(p)
	return p
}

func scale(amount int64, ratio float64) int64 {
	return decimal.NewFromInt(amount).Mul(decimal.NewFromFloat(ratio)).Round(0).IntPart()
}
